package dashboard

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Filter returns the tasks of tasks that pass both the status filter and the
// search term, in their original order. An empty term matches everything.
// The result never aliases tasks.
func Filter(tasks []domain.Task, status domain.StatusFilter, term string) []domain.Task {
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !status.Matches(t.Status) {
			continue
		}
		if needle != "" && !matchesTerm(fold, t, needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matchesTerm checks the searchable text fields. lastModifiedBy is only
// considered when the server set it.
func matchesTerm(fold cases.Caser, t domain.Task, needle string) bool {
	fields := []string{t.TaskName, t.Responsible, t.Remarks}
	if t.LastModifiedBy != "" {
		fields = append(fields, t.LastModifiedBy)
	}
	for _, f := range fields {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}
