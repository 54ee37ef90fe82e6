package domain

import (
	"fmt"
	"strings"
)

// Summary is the per-status count over a task collection. It is always
// derived, never edited on its own.
type Summary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	OnHold     int `json:"onHold"`
	NotStarted int `json:"notStarted"`
}

// Summarize folds tasks into a Summary. Tasks with an unrecognized status
// count toward Total only.
func Summarize(tasks []Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusInProgress:
			s.InProgress++
		case StatusHold:
			s.OnHold++
		case StatusNotStarted:
			s.NotStarted++
		}
	}
	return s
}

// Unclassified is the number of tasks counted in Total but in no bucket.
func (s Summary) Unclassified() int {
	return s.Total - s.Completed - s.InProgress - s.OnHold - s.NotStarted
}

// StatusFilter is "all" or one of the task statuses.
type StatusFilter string

// FilterAll matches every status.
const FilterAll StatusFilter = "all"

// ParseStatusFilter accepts "all" (or empty) and any status, case-insensitively.
func ParseStatusFilter(s string) (StatusFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(FilterAll)) {
		return FilterAll, nil
	}
	st := TaskStatus(strings.ToUpper(s))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: unknown status filter %q", ErrValidation, s)
	}
	return StatusFilter(st), nil
}

// Matches reports whether status passes the filter.
func (f StatusFilter) Matches(status TaskStatus) bool {
	return f == FilterAll || TaskStatus(f) == status
}
