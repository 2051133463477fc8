package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
)

// Matches reports whether ref selects t: a case-insensitive prefix of the id
// or a case-insensitive exact title. A blank ref selects nothing.
func (t Task) Matches(ref string) bool {
	if strings.TrimSpace(ref) == "" {
		return false
	}
	if len(ref) <= len(t.ID) && strings.EqualFold(t.ID[:len(ref)], ref) {
		return true
	}
	return strings.EqualFold(t.Title, ref)
}

// IndexOf returns the index of the first task matched by ref, or -1.
func IndexOf(tasks []Task, ref string) int {
	for i := range tasks {
		if tasks[i].Matches(ref) {
			return i
		}
	}
	return -1
}

// NotFound returns the error reported when ref matches no task.
func NotFound(ref string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", ref).
		WithDetails(map[string]any{"ref": ref})
}
