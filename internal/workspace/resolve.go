package workspace

import (
	"fmt"
	"strings"

	"botnology/internal/model"

	"github.com/sahilm/fuzzy"
)

type nameSource []string

func (s nameSource) String(i int) string { return s[i] }
func (s nameSource) Len() int            { return len(s) }

// resolveRef maps a user reference to an id: exact id, then case-insensitive name, then (when
// allowed) the best fuzzy name match.
func resolveRef(kind, ref string, ids, names []string, allowFuzzy bool) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s reference is empty", kind)
	}
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
	}
	for i, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), ref) {
			return ids[i], nil
		}
	}
	if !allowFuzzy {
		return "", fmt.Errorf("no %s with id or name %q", kind, ref)
	}
	lower := make(nameSource, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	matches := fuzzy.FindFrom(strings.ToLower(ref), lower)
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s matches %q", kind, ref)
	}
	return ids[matches[0].Index], nil
}

func projectRefs(ws model.Workspace) (ids, names []string) {
	ids = make([]string, len(ws.Projects))
	names = make([]string, len(ws.Projects))
	for i, p := range ws.Projects {
		ids[i], names[i] = p.ID, p.Name
	}
	return ids, names
}

func folderRefs(ws model.Workspace) (ids, names []string) {
	ids = make([]string, len(ws.Folders))
	names = make([]string, len(ws.Folders))
	for i, f := range ws.Folders {
		ids[i], names[i] = f.ID, f.Name
	}
	return ids, names
}

// ResolveProject accepts an id, a name in any case, or a fuzzy name.
func ResolveProject(ws model.Workspace, ref string) (string, error) {
	ids, names := projectRefs(ws)
	return resolveRef("project", ref, ids, names, true)
}

// ResolveProjectExact accepts only an id or a case-insensitive name. Destructive commands use it
// so a typo never lands on another project.
func ResolveProjectExact(ws model.Workspace, ref string) (string, error) {
	ids, names := projectRefs(ws)
	return resolveRef("project", ref, ids, names, false)
}

func ResolveFolder(ws model.Workspace, ref string) (string, error) {
	ids, names := folderRefs(ws)
	return resolveRef("folder", ref, ids, names, true)
}

func ResolveFolderExact(ws model.Workspace, ref string) (string, error) {
	ids, names := folderRefs(ws)
	return resolveRef("folder", ref, ids, names, false)
}
