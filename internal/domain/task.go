// Package domain holds the pure taskdeck types: tasks, sessions, summaries.
// Nothing in here performs I/O.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TaskStatus tracks where a task is in its lifecycle.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusHold       TaskStatus = "HOLD"
)

// Statuses lists the recognized statuses in display order.
var Statuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusCompleted, StatusHold}

// IsValid reports whether s is one of the four recognized statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusHold:
		return true
	}
	return false
}

// TaskPriority ranks urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// IsValid reports whether p is a recognized priority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

const (
	// Unassigned is stored as the responsible party when none is given.
	Unassigned = "Unassigned"

	// DefaultEstimatedHours replaces an estimate that is not a positive integer.
	DefaultEstimatedHours = 8
	MinEstimatedHours     = 1
	MaxEstimatedHours     = 1000
)

// ClampEstimatedHours bounds h to [MinEstimatedHours, MaxEstimatedHours].
func ClampEstimatedHours(h int) int {
	if h < MinEstimatedHours {
		return MinEstimatedHours
	}
	if h > MaxEstimatedHours {
		return MaxEstimatedHours
	}
	return h
}

// Task is a unit of tracked work as returned by the task API.
type Task struct {
	ID                   string       `json:"id"`
	TaskName             string       `json:"taskName"`
	Responsible          string       `json:"responsible"`
	Status               TaskStatus   `json:"status"`
	Priority             TaskPriority `json:"priority"`
	Category             string       `json:"category"`
	Department           string       `json:"department"`
	EstimatedHours       int          `json:"estimatedHours"`
	IsCritical           bool         `json:"isCritical"`
	CompletionPercentage int          `json:"completionPercentage"`
	StartDate            *Date        `json:"startDate,omitempty"`
	EndDate              *Date        `json:"endDate,omitempty"`
	Remarks              string       `json:"remarks"`
	LastModifiedBy       string       `json:"lastModifiedBy,omitempty"`
}

// TaskDraft is what a creator supplies. The server assigns id, status and
// completion percentage.
type TaskDraft struct {
	TaskName       string       `json:"taskName"`
	Responsible    string       `json:"responsible"`
	Priority       TaskPriority `json:"priority"`
	Category       string       `json:"category"`
	Department     string       `json:"department"`
	EstimatedHours int          `json:"estimatedHours"`
	IsCritical     bool         `json:"isCritical"`
	StartDate      *Date        `json:"startDate,omitempty"`
	EndDate        *Date        `json:"endDate,omitempty"`
	Remarks        string       `json:"remarks"`
}

// TaskPatch is a partial update. Nil fields and unset date changes are left
// unchanged.
type TaskPatch struct {
	TaskName             *string       `json:"taskName,omitempty"`
	Responsible          *string       `json:"responsible,omitempty"`
	Status               *TaskStatus   `json:"status,omitempty"`
	Priority             *TaskPriority `json:"priority,omitempty"`
	Category             *string       `json:"category,omitempty"`
	Department           *string       `json:"department,omitempty"`
	EstimatedHours       *int          `json:"estimatedHours,omitempty"`
	IsCritical           *bool         `json:"isCritical,omitempty"`
	CompletionPercentage *int          `json:"completionPercentage,omitempty"`
	StartDate            DateChange    `json:"startDate,omitzero"`
	EndDate              DateChange    `json:"endDate,omitzero"`
	Remarks              *string       `json:"remarks,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.TaskName == nil && p.Responsible == nil && p.Status == nil &&
		p.Priority == nil && p.Category == nil && p.Department == nil &&
		p.EstimatedHours == nil && p.IsCritical == nil &&
		p.CompletionPercentage == nil && !p.StartDate.Set &&
		!p.EndDate.Set && p.Remarks == nil
}

// Apply returns a copy of t with every non-nil patch field written over it.
func (p TaskPatch) Apply(t Task) Task {
	if p.TaskName != nil {
		t.TaskName = *p.TaskName
	}
	if p.Responsible != nil {
		t.Responsible = *p.Responsible
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Department != nil {
		t.Department = *p.Department
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = *p.EstimatedHours
	}
	if p.IsCritical != nil {
		t.IsCritical = *p.IsCritical
	}
	if p.CompletionPercentage != nil {
		t.CompletionPercentage = *p.CompletionPercentage
	}
	if p.StartDate.Set {
		t.StartDate = p.StartDate.Date
	}
	if p.EndDate.Set {
		t.EndDate = p.EndDate.Date
	}
	if p.Remarks != nil {
		t.Remarks = *p.Remarks
	}
	return t
}

// ─── Dates ──────────────────────────────────────────────────────────────────

// DateChange is a patch date. The zero value leaves the date unchanged; a
// change with Set and a nil Date clears it. On the wire an absent key means
// unchanged and null clears.
type DateChange struct {
	Set  bool
	Date *Date
}

// SetDate changes a date to d.
func SetDate(d Date) DateChange { return DateChange{Set: true, Date: &d} }

// ClearDate removes a date.
func ClearDate() DateChange { return DateChange{Set: true} }

// IsZero reports an unchanged date; omitzero drops it from the wire.
func (c DateChange) IsZero() bool { return !c.Set }

// MarshalJSON implements json.Marshaler.
func (c DateChange) MarshalJSON() ([]byte, error) {
	if c.Date == nil || c.Date.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(*c.Date)
}

// UnmarshalJSON marks the change set; null or "" clears.
func (c *DateChange) UnmarshalJSON(b []byte) error {
	var d *Date
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	c.Set = true
	c.Date = nil
	if d != nil && !d.IsZero() {
		c.Date = d
	}
	return nil
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts YYYY-MM-DD, RFC 3339 timestamps and null.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(DateLayout, *s); err == nil {
		*d = Date{t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return fmt.Errorf("invalid date %q", *s)
	}
	y, m, day := t.Date()
	*d = Date{time.Date(y, m, day, 0, 0, 0, 0, time.UTC)}
	return nil
}
