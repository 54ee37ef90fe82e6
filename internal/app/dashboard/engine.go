// Package dashboard holds the client-side task aggregation engine: the
// authoritative in-memory task collection for one session, its derived
// Summary, filtered views, and reconciliation after each mutation.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/taskdeck/taskdeck/internal/app/permission"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/metrics"
)

// State is a consistent view of the collection and its Summary.
type State struct {
	Tasks   []domain.Task
	Summary domain.Summary
	Loaded  bool
}

// Engine owns the task collection for one authenticated session.
//
// Loads are serialized so a slow response can never overwrite a newer one.
// Mutations are not serialized against each other, but each reconciliation
// swaps the collection and its Summary under one lock. Events are published
// after every engine lock is released, so subscribers may call back in.
type Engine struct {
	transport domain.TaskTransport
	session   domain.Session
	logger    *slog.Logger

	loadMu sync.Mutex

	mu      sync.RWMutex
	tasks   []domain.Task
	summary domain.Summary
	loaded  bool
	gen     uint64 // bumped by Reset; mutations reconcile only against their own

	events *broker
}

// NewEngine creates an Engine in the Empty state for the given session.
func NewEngine(transport domain.TaskTransport, session domain.Session, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		transport: transport,
		session:   session,
		logger:    logger.With("component", "dashboard", "user", session.User.Username),
		events:    newBroker(),
	}
}

// Session returns the session the engine was created for.
func (e *Engine) Session() domain.Session { return e.session }

// Subscribe registers fn for engine events. Call the returned func to stop.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	return e.events.subscribe(fn)
}

// Load fetches the full collection and replaces the local one wholesale.
// On failure the previous collection is kept and the error wraps ErrLoad.
func (e *Engine) Load(ctx context.Context) ([]domain.Task, error) {
	tasks, err := e.load(ctx)
	if err != nil {
		e.fail("load", "", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrLoad, err)
	}

	e.logger.Debug("tasks loaded", "count", len(tasks))
	e.succeed("load", Event{Kind: EventLoaded, Message: fmt.Sprintf("Loaded %d tasks", len(tasks))})
	return tasks, nil
}

// load fetches and swaps in the collection while holding loadMu.
func (e *Engine) load(ctx context.Context) ([]domain.Task, error) {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	tasks, err := e.transport.List(ctx)
	if err != nil {
		return nil, err
	}

	fresh := make([]domain.Task, len(tasks))
	copy(fresh, tasks)
	e.mu.Lock()
	e.replaceLocked(fresh)
	e.loaded = true
	e.mu.Unlock()
	return cloneTasks(fresh), nil
}

// Create validates and normalizes draft, sends it, and appends the server's
// task to the end of the collection.
func (e *Engine) Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	gen, err := e.begin("create", permission.CanCreate(e.session.User.Role))
	if err != nil {
		return domain.Task{}, err
	}
	draft, err = NormalizeDraft(draft)
	if err != nil {
		return domain.Task{}, err
	}

	created, err := e.transport.Create(ctx, draft)
	if err != nil {
		e.fail("create", "", err)
		return domain.Task{}, err
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		e.discard("create", created.ID)
		return created, nil
	}
	next := make([]domain.Task, len(e.tasks), len(e.tasks)+1)
	copy(next, e.tasks)
	e.replaceLocked(append(next, created))
	e.mu.Unlock()

	e.succeed("create", Event{Kind: EventCreated, TaskID: created.ID, Message: "Task created successfully"})
	return created, nil
}

// Update sends patch and replaces the matching task in place. A task missing
// locally leaves the collection untouched; the server's task is still returned.
func (e *Engine) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	gen, err := e.begin("update", permission.CanUpdate(e.session.User.Role))
	if err != nil {
		return domain.Task{}, err
	}
	patch, err = NormalizePatch(patch)
	if err != nil {
		return domain.Task{}, err
	}

	updated, err := e.transport.Update(ctx, id, patch)
	if err != nil {
		e.fail("update", id, err)
		return domain.Task{}, err
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		e.discard("update", id)
		return updated, nil
	}
	if i := indexOf(e.tasks, id); i >= 0 {
		next := cloneTasks(e.tasks)
		next[i] = updated
		e.replaceLocked(next)
	} else {
		e.logger.Warn("updated task not in local collection", "task_id", id)
	}
	e.mu.Unlock()

	e.succeed("update", Event{Kind: EventUpdated, TaskID: id, Message: "Task updated successfully"})
	return updated, nil
}

// Delete removes the task on the server, then locally if present.
func (e *Engine) Delete(ctx context.Context, id string) error {
	gen, err := e.begin("delete", permission.CanDelete(e.session.User.Role))
	if err != nil {
		return err
	}

	if err := e.transport.Delete(ctx, id); err != nil {
		e.fail("delete", id, err)
		return err
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		e.discard("delete", id)
		return nil
	}
	if i := indexOf(e.tasks, id); i >= 0 {
		next := make([]domain.Task, 0, len(e.tasks)-1)
		next = append(next, e.tasks[:i]...)
		next = append(next, e.tasks[i+1:]...)
		e.replaceLocked(next)
	}
	e.mu.Unlock()

	e.succeed("delete", Event{Kind: EventDeleted, TaskID: id, Message: "Task deleted successfully"})
	return nil
}

// FilteredView returns the tasks matching both status and term. No I/O.
func (e *Engine) FilteredView(status domain.StatusFilter, term string) []domain.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Filter(e.tasks, status, term)
}

// Summary returns the current derived counts.
func (e *Engine) Summary() domain.Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.summary
}

// Tasks returns a copy of the collection in order.
func (e *Engine) Tasks() []domain.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneTasks(e.tasks)
}

// Find returns the task with id, if present locally.
func (e *Engine) Find(id string) (domain.Task, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i := indexOf(e.tasks, id); i >= 0 {
		return e.tasks[i], true
	}
	return domain.Task{}, false
}

// Snapshot returns the collection and Summary taken under one lock.
func (e *Engine) Snapshot() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return State{Tasks: cloneTasks(e.tasks), Summary: e.summary, Loaded: e.loaded}
}

// Loaded reports whether a load has ever succeeded.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Reset discards the collection and returns the engine to the Empty state.
// Mutations still in flight finish on the server but no longer touch the
// local collection.
func (e *Engine) Reset() {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()
	e.mu.Lock()
	e.tasks = nil
	e.summary = domain.Summary{}
	e.loaded = false
	e.gen++
	e.mu.Unlock()
	metrics.ObserveSummary(domain.Summary{})
}

// ─── Validation ─────────────────────────────────────────────────────────────

// NormalizeDraft rejects a blank task name, defaults the responsible party,
// and bounds the hour estimate.
func NormalizeDraft(d domain.TaskDraft) (domain.TaskDraft, error) {
	d.TaskName = strings.TrimSpace(d.TaskName)
	if d.TaskName == "" {
		return d, fmt.Errorf("%w: task name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(d.Responsible) == "" {
		d.Responsible = domain.Unassigned
	}
	if d.EstimatedHours <= 0 {
		d.EstimatedHours = domain.DefaultEstimatedHours
	}
	d.EstimatedHours = domain.ClampEstimatedHours(d.EstimatedHours)
	if d.Priority == "" {
		d.Priority = domain.PriorityMedium
	}
	if !d.Priority.IsValid() {
		return d, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, d.Priority)
	}
	return d, nil
}

// NormalizePatch validates the fields a patch sets.
func NormalizePatch(p domain.TaskPatch) (domain.TaskPatch, error) {
	if p.TaskName != nil {
		name := strings.TrimSpace(*p.TaskName)
		if name == "" {
			return p, fmt.Errorf("%w: task name cannot be blank", domain.ErrValidation)
		}
		p.TaskName = &name
	}
	if p.Responsible != nil && strings.TrimSpace(*p.Responsible) == "" {
		r := domain.Unassigned
		p.Responsible = &r
	}
	if p.Status != nil && !p.Status.IsValid() {
		return p, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *p.Status)
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return p, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, *p.Priority)
	}
	if p.EstimatedHours != nil {
		h := domain.ClampEstimatedHours(*p.EstimatedHours)
		p.EstimatedHours = &h
	}
	if p.CompletionPercentage != nil {
		if c := *p.CompletionPercentage; c < 0 || c > 100 {
			return p, fmt.Errorf("%w: completion percentage %d outside 0..100", domain.ErrValidation, c)
		}
	}
	return p, nil
}

// ─── Internals ──────────────────────────────────────────────────────────────

// replaceLocked swaps in a new collection and recomputes its Summary.
// Callers hold e.mu for writing.
func (e *Engine) replaceLocked(tasks []domain.Task) {
	e.tasks = tasks
	e.summary = domain.Summarize(tasks)
	metrics.ObserveSummary(e.summary)
}

// begin runs the permission gate, then the Loaded check, and returns the
// generation the mutation will reconcile against.
func (e *Engine) begin(op string, allowed bool) (uint64, error) {
	if !allowed {
		return 0, e.denied(op)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.loaded {
		return 0, domain.ErrNotLoaded
	}
	return e.gen, nil
}

// discard records a mutation whose result arrived after Reset.
func (e *Engine) discard(op, id string) {
	metrics.EngineOperations.WithLabelValues(op, "discarded").Inc()
	e.logger.Info("engine reset during call, result not applied", "op", op, "task_id", id)
}

func (e *Engine) denied(op string) error {
	metrics.EngineOperations.WithLabelValues(op, "denied").Inc()
	e.logger.Warn("operation denied", "op", op, "role", e.session.User.Role)
	return fmt.Errorf("%w: role %s cannot %s tasks", domain.ErrPermission, e.session.User.Role, op)
}

func (e *Engine) fail(op, id string, err error) {
	metrics.EngineOperations.WithLabelValues(op, "error").Inc()
	e.logger.Error("transport call failed", "op", op, "task_id", id, "error", err)
	if errors.Is(err, domain.ErrAuthExpired) {
		e.events.publish(Event{Kind: EventAuthExpired, TaskID: id, Message: "Session expired, please log in again", Err: err})
		return
	}
	e.events.publish(Event{Kind: EventFailed, TaskID: id, Message: fmt.Sprintf("Failed to %s task", op), Err: err})
}

func (e *Engine) succeed(op string, ev Event) {
	metrics.EngineOperations.WithLabelValues(op, "ok").Inc()
	e.events.publish(ev)
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out
}
