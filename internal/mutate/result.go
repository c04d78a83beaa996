package mutate

// Result reports whether an operation changed the document. Validation no-ops (blank names,
// unknown selection ids) return Changed=false with a nil error.
type Result struct {
	Changed bool
	// ID is the id of the created entity, when the operation created one.
	ID string
}

func unchanged() (Result, error) { return Result{}, nil }
