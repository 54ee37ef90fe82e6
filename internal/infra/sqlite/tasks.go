package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// ─── Task Repository ────────────────────────────────────────────────────────

const taskColumns = `id, task_name, responsible, status, priority, category, department,
	estimated_hours, is_critical, completion_percentage, start_date, end_date,
	remarks, last_modified_by`

// InsertTask creates a new task record at the end of the list order.
func (d *DB) InsertTask(ctx context.Context, t domain.Task) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TaskName, t.Responsible, string(t.Status), string(t.Priority),
		t.Category, t.Department, t.EstimatedHours, t.IsCritical,
		t.CompletionPercentage, nullDate(t.StartDate), nullDate(t.EndDate),
		t.Remarks, t.LastModifiedBy, time.Now().Unix(),
	)
	return err
}

// UpdateTask overwrites every mutable column of an existing task.
func (d *DB) UpdateTask(ctx context.Context, t domain.Task) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE tasks SET
			task_name = ?, responsible = ?, status = ?, priority = ?, category = ?,
			department = ?, estimated_hours = ?, is_critical = ?,
			completion_percentage = ?, start_date = ?, end_date = ?, remarks = ?,
			last_modified_by = ?, updated_at = ?
		 WHERE id = ?`,
		t.TaskName, t.Responsible, string(t.Status), string(t.Priority), t.Category,
		t.Department, t.EstimatedHours, t.IsCritical,
		t.CompletionPercentage, nullDate(t.StartDate), nullDate(t.EndDate), t.Remarks,
		t.LastModifiedBy, time.Now().Unix(),
		t.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// GetTask retrieves a task by ID. Returns nil, nil if it does not exist.
func (d *DB) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// ListTasks returns every task in insertion order.
func (d *DB) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task record.
func (d *DB) DeleteTask(ctx context.Context, id string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// CountTasks returns the number of stored tasks.
func (d *DB) CountTasks(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var status, priority string
	var start, end sql.NullString

	err := s.Scan(&t.ID, &t.TaskName, &t.Responsible, &status, &priority,
		&t.Category, &t.Department, &t.EstimatedHours, &t.IsCritical,
		&t.CompletionPercentage, &start, &end, &t.Remarks, &t.LastModifiedBy)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.StartDate = parseNullDate(start)
	t.EndDate = parseNullDate(end)
	return &t, nil
}

func nullDate(d *domain.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return nullStr(d.String())
}

// parseNullDate drops values that are not YYYY-MM-DD rather than failing the row.
func parseNullDate(s sql.NullString) *domain.Date {
	if !s.Valid || s.String == "" {
		return nil
	}
	d, err := domain.ParseDate(s.String)
	if err != nil {
		return nil
	}
	return &d
}
