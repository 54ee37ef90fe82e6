package dashboard

import (
	"math/rand"
	"reflect"
	"strconv"
	"testing"

	"github.com/taskdeck/taskdeck/internal/domain"
)

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "1", TaskName: "Pour foundation", Responsible: "Ana", Status: domain.StatusInProgress},
		{ID: "2", TaskName: "Order rebar", Responsible: "Unassigned", Status: domain.StatusNotStarted, Remarks: "supplier in Graz"},
		{ID: "3", TaskName: "Inspect welds", Responsible: "Jörg", Status: domain.StatusCompleted, LastModifiedBy: "supervisor1"},
		{ID: "4", TaskName: "Paint", Responsible: "Li", Status: domain.StatusHold},
		{ID: "5", TaskName: "Legacy import", Status: domain.TaskStatus("ARCHIVED")},
	}
}

func TestFilter_SearchFields(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3", "4", "5"}},
		{"POUR", []string{"1"}},
		{"ana", []string{"1"}},
		{"graz", []string{"2"}},
		{"supervisor", []string{"3"}},
		{"JÖRG", []string{"3"}},
		{"unassigned", []string{"2"}},
		{"nothing-matches", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := ids(Filter(sampleTasks(), domain.FilterAll, tt.term))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(all, %q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestFilter_StatusAndTermAreANDed(t *testing.T) {
	tasks := sampleTasks()
	got := ids(Filter(tasks, domain.StatusFilter(domain.StatusNotStarted), "o"))
	if !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("Filter(NOT_STARTED, o) = %v, want [2]", got)
	}
	got = ids(Filter(tasks, domain.StatusFilter(domain.StatusHold), "pour"))
	if len(got) != 0 {
		t.Errorf("Filter(HOLD, pour) = %v, want none", got)
	}
}

func TestFilter_UnknownStatusOnlyUnderAll(t *testing.T) {
	tasks := sampleTasks()
	for _, st := range domain.Statuses {
		for _, tk := range Filter(tasks, domain.StatusFilter(st), "") {
			if tk.ID == "5" {
				t.Errorf("task with unknown status matched filter %s", st)
			}
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	tasks := sampleTasks()
	for _, f := range []domain.StatusFilter{domain.FilterAll, domain.StatusFilter(domain.StatusCompleted)} {
		for _, term := range []string{"", "e", "in"} {
			once := Filter(tasks, f, term)
			twice := Filter(once, f, term)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("Filter(%s, %q) not idempotent: %v vs %v", f, term, ids(once), ids(twice))
			}
		}
	}
}

// ─── Summary properties ─────────────────────────────────────────────────────

func randomTasks(r *rand.Rand, n int) []domain.Task {
	statuses := append([]domain.TaskStatus{"", "ARCHIVED"}, domain.Statuses...)
	out := make([]domain.Task, n)
	for i := range out {
		out[i] = domain.Task{ID: strconv.Itoa(i), TaskName: "t", Status: statuses[r.Intn(len(statuses))]}
	}
	return out
}

func TestSummarize_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		tasks := randomTasks(r, r.Intn(40))
		s := domain.Summarize(tasks)

		if s.Total != len(tasks) {
			t.Fatalf("Total = %d, want %d", s.Total, len(tasks))
		}
		buckets := s.Completed + s.InProgress + s.OnHold + s.NotStarted
		if buckets > s.Total {
			t.Fatalf("buckets %d exceed total %d", buckets, s.Total)
		}

		recognized := 0
		for _, tk := range tasks {
			if tk.Status.IsValid() {
				recognized++
			}
		}
		if buckets != recognized {
			t.Fatalf("buckets = %d, want %d recognized", buckets, recognized)
		}
		if s.Unclassified() != len(tasks)-recognized {
			t.Fatalf("Unclassified() = %d, want %d", s.Unclassified(), len(tasks)-recognized)
		}
	}
}

func TestSummarize_AllRecognizedIsExhaustive(t *testing.T) {
	tasks := sampleTasks()[:4]
	s := domain.Summarize(tasks)
	want := domain.Summary{Total: 4, Completed: 1, InProgress: 1, OnHold: 1, NotStarted: 1}
	if s != want {
		t.Errorf("Summarize() = %+v, want %+v", s, want)
	}
}
