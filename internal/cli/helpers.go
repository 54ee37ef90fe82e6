package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/taskdeck/taskdeck/internal/app/dashboard"
	"github.com/taskdeck/taskdeck/internal/app/workspace"
	"github.com/taskdeck/taskdeck/internal/daemon"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/sqlite"
	"github.com/taskdeck/taskdeck/internal/infra/transport"
)

// ─── Client Environment ─────────────────────────────────────────────────────

// clientEnv is everything a client command needs: config, logger, the local
// session store and the remote API.
type clientEnv struct {
	cfg    daemon.Config
	logger *slog.Logger
	db     *sqlite.DB
	client *transport.Client
	ws     *workspace.Workspace
}

func openClient() (*clientEnv, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := daemon.NewLogger(cfg.Logging, os.Stderr)

	db, err := sqlite.Open(daemon.TaskdeckHome())
	if err != nil {
		return nil, fmt.Errorf("open local state: %w", err)
	}

	client := transport.NewClient(cfg.Remote.URL, cfg.RemoteTimeout(), logger)
	return &clientEnv{
		cfg:    cfg,
		logger: logger,
		db:     db,
		client: client,
		ws:     workspace.New(sqlite.NewSessionStore(db), client, logger),
	}, nil
}

func (e *clientEnv) Close() {
	_ = e.db.Close()
}

// loadedEngine opens the saved session and loads its tasks.
func (e *clientEnv) loadedEngine(ctx context.Context) (*dashboard.Engine, error) {
	engine, err := e.ws.Open()
	if err != nil {
		return nil, err
	}
	if _, err := engine.Load(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}

// explain turns the errors users hit most into an instruction.
func explain(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return errors.New("not logged in; run 'taskdeck login'")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errors.New("invalid username or password")
	case errors.Is(err, domain.ErrAuthExpired):
		return errors.New("session expired; run 'taskdeck login' again")
	}
	return err
}

// ─── Input ──────────────────────────────────────────────────────────────────

// newLineScanner creates a line scanner from a reader.
func newLineScanner(r io.Reader) *bufio.Scanner {
	return bufio.NewScanner(r)
}

// prompt asks for a value on out and reads one line from in.
func prompt(in *bufio.Scanner, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

// taskFlags are the task fields shared by create and update.
type taskFlags struct {
	name        string
	responsible string
	status      string
	priority    string
	category    string
	department  string
	hours       int
	critical    bool
	completion  int
	start       string
	end         string
	remarks     string
}

func (f *taskFlags) register(fs *pflag.FlagSet, withProgress bool) {
	fs.StringVar(&f.name, "name", "", "Task name")
	fs.StringVar(&f.responsible, "responsible", "", "Responsible person (default Unassigned)")
	fs.StringVar(&f.priority, "priority", "", "LOW, MEDIUM, HIGH or URGENT")
	fs.StringVar(&f.category, "category", "", "Category")
	fs.StringVar(&f.department, "department", "", "Department")
	fs.IntVar(&f.hours, "hours", 0, "Estimated hours (1-1000, default 8)")
	fs.BoolVar(&f.critical, "critical", false, "Mark the task critical")
	fs.StringVar(&f.start, "start", "", "Start date YYYY-MM-DD")
	fs.StringVar(&f.end, "end", "", "End date YYYY-MM-DD")
	fs.StringVar(&f.remarks, "remarks", "", "Remarks")
	if withProgress {
		fs.StringVar(&f.status, "status", "", "NOT_STARTED, IN_PROGRESS, COMPLETED or HOLD")
		fs.IntVar(&f.completion, "completion", 0, "Completion percentage 0-100")
	}
}

// draft builds a TaskDraft from every create flag.
func (f *taskFlags) draft() (domain.TaskDraft, error) {
	d := domain.TaskDraft{
		TaskName:       f.name,
		Responsible:    f.responsible,
		Priority:       domain.TaskPriority(strings.ToUpper(f.priority)),
		Category:       f.category,
		Department:     f.department,
		EstimatedHours: f.hours,
		IsCritical:     f.critical,
		Remarks:        f.remarks,
	}
	var err error
	if d.StartDate, err = optionalDate(f.start); err != nil {
		return d, err
	}
	if d.EndDate, err = optionalDate(f.end); err != nil {
		return d, err
	}
	return d, nil
}

// patch builds a TaskPatch from the flags the user actually set.
func (f *taskFlags) patch(fs *pflag.FlagSet) (domain.TaskPatch, error) {
	var p domain.TaskPatch
	set := fs.Changed

	if set("name") {
		p.TaskName = &f.name
	}
	if set("responsible") {
		p.Responsible = &f.responsible
	}
	if set("status") {
		s := domain.TaskStatus(strings.ToUpper(f.status))
		p.Status = &s
	}
	if set("priority") {
		pr := domain.TaskPriority(strings.ToUpper(f.priority))
		p.Priority = &pr
	}
	if set("category") {
		p.Category = &f.category
	}
	if set("department") {
		p.Department = &f.department
	}
	if set("hours") {
		p.EstimatedHours = &f.hours
	}
	if set("critical") {
		p.IsCritical = &f.critical
	}
	if set("completion") {
		p.CompletionPercentage = &f.completion
	}
	if set("remarks") {
		p.Remarks = &f.remarks
	}
	var err error
	if set("start") {
		if p.StartDate, err = dateChange(f.start); err != nil {
			return p, err
		}
	}
	if set("end") {
		if p.EndDate, err = dateChange(f.end); err != nil {
			return p, err
		}
	}
	if p.IsEmpty() {
		return p, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	return p, nil
}

func optionalDate(s string) (*domain.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return &d, nil
}

// dateChange turns an explicitly passed date flag into a patch field; an
// empty value clears the date.
func dateChange(s string) (domain.DateChange, error) {
	d, err := optionalDate(s)
	if err != nil {
		return domain.DateChange{}, err
	}
	if d == nil {
		return domain.ClearDate(), nil
	}
	return domain.SetDate(*d), nil
}

// ─── Output ─────────────────────────────────────────────────────────────────

func printTasks(out io.Writer, tasks []domain.Task) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRESPONSIBLE\tSTATUS\tPRIORITY\tDONE\tHOURS\tCRITICAL")
	for _, t := range tasks {
		critical := ""
		if t.IsCritical {
			critical = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d%%\t%d\t%s\n",
			shortID(t.ID), t.TaskName, t.Responsible, t.Status, t.Priority,
			t.CompletionPercentage, t.EstimatedHours, critical)
	}
	return w.Flush()
}

func printSummary(out io.Writer, s domain.Summary) {
	fmt.Fprintf(out, "Total: %d  Completed: %d  In progress: %d  On hold: %d  Not started: %d\n",
		s.Total, s.Completed, s.InProgress, s.OnHold, s.NotStarted)
}

func printTask(out io.Writer, t domain.Task) {
	fmt.Fprintf(out, "ID:           %s\n", t.ID)
	fmt.Fprintf(out, "Name:         %s\n", t.TaskName)
	fmt.Fprintf(out, "Responsible:  %s\n", t.Responsible)
	fmt.Fprintf(out, "Status:       %s\n", t.Status)
	fmt.Fprintf(out, "Priority:     %s\n", t.Priority)
	fmt.Fprintf(out, "Category:     %s\n", t.Category)
	fmt.Fprintf(out, "Department:   %s\n", t.Department)
	fmt.Fprintf(out, "Hours:        %d\n", t.EstimatedHours)
	fmt.Fprintf(out, "Critical:     %t\n", t.IsCritical)
	fmt.Fprintf(out, "Completion:   %d%%\n", t.CompletionPercentage)
	fmt.Fprintf(out, "Start:        %s\n", dateOrDash(t.StartDate))
	fmt.Fprintf(out, "End:          %s\n", dateOrDash(t.EndDate))
	fmt.Fprintf(out, "Remarks:      %s\n", t.Remarks)
	if t.LastModifiedBy != "" {
		fmt.Fprintf(out, "Modified by:  %s\n", t.LastModifiedBy)
	}
}

func dateOrDash(d *domain.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}
	return d.String()
}

// shortID trims uuids for table output; show and update accept the full id
// or any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID expands a unique id prefix against the loaded collection.
func resolveID(engine *dashboard.Engine, ref string) (string, error) {
	if _, ok := engine.Find(ref); ok {
		return ref, nil
	}
	var match string
	for _, t := range engine.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: id prefix %q is ambiguous", domain.ErrValidation, ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	}
	return match, nil
}
