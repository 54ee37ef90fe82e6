package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/app/dashboard"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/metrics"
)

// ─── Tasks API (/api/tasks) ─────────────────────────────────────────────────
// Role checks happen in requireCapability. Drafts and patches go through the
// dashboard's normalization before they are stored.

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if task == nil {
		s.writeDomainError(w, r, domain.ErrTaskNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var draft domain.TaskDraft
	if err := decodeBody(w, r, &draft); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	draft, err := dashboard.NormalizeDraft(draft)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	caller, _ := userFromContext(r.Context())
	task := domain.Task{
		ID:                   uuid.NewString(),
		TaskName:             draft.TaskName,
		Responsible:          draft.Responsible,
		Status:               domain.StatusNotStarted,
		Priority:             draft.Priority,
		Category:             draft.Category,
		Department:           draft.Department,
		EstimatedHours:       draft.EstimatedHours,
		IsCritical:           draft.IsCritical,
		CompletionPercentage: 0,
		StartDate:            draft.StartDate,
		EndDate:              draft.EndDate,
		Remarks:              draft.Remarks,
		LastModifiedBy:       caller.Username,
	}
	if err := s.tasks.InsertTask(r.Context(), task); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	metrics.TasksStored.Inc()
	s.logger.Info("task created", "task_id", task.ID, "by", caller.Username)
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch domain.TaskPatch
	if err := decodeBody(w, r, &patch); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	patch, err := dashboard.NormalizePatch(patch)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	existing, err := s.tasks.GetTask(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if existing == nil {
		s.writeDomainError(w, r, domain.ErrTaskNotFound)
		return
	}

	caller, _ := userFromContext(r.Context())
	task := patch.Apply(*existing)
	task.LastModifiedBy = caller.Username
	if err := s.tasks.UpdateTask(r.Context(), task); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("task updated", "task_id", id, "by", caller.Username)
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.tasks.DeleteTask(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	metrics.TasksStored.Dec()
	caller, _ := userFromContext(r.Context())
	s.logger.Info("task deleted", "task_id", id, "by", caller.Username)
	w.WriteHeader(http.StatusNoContent)
}
