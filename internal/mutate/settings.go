package mutate

import (
	"strings"

	"botnology/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func SetStudentName(ws *model.Workspace, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if ws == nil || name == "" || ws.StudentName == name {
		return unchanged()
	}
	ws.StudentName = name
	return Result{Changed: true}, nil
}

// SetPlan accepts FREE|SEMI_PRO|PRO|YEARLY_PRO (any case). The plan is cosmetic only.
func SetPlan(ws *model.Workspace, plan string) (Result, error) {
	if ws == nil {
		return unchanged()
	}
	known := make([]any, 0, len(model.Plans()))
	for _, p := range model.Plans() {
		known = append(known, p)
	}
	p, _ := model.ParsePlan(plan)
	if err := validation.Validate(p, validation.Required, validation.In(known...)); err != nil {
		return Result{}, ErrInvalidPlan
	}
	if ws.Plan == p {
		return unchanged()
	}
	ws.Plan = p
	return Result{Changed: true}, nil
}
