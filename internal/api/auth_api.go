package api

import (
	"net/http"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// ─── Auth API (/api/auth/*) ─────────────────────────────────────────────────

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	sess, err := s.accounts.Login(r.Context(), creds)
	if err != nil {
		s.logger.Warn("login rejected", "username", creds.Username, "error", err)
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("login", "username", sess.User.Username, "role", sess.User.Role)
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if err := decodeBody(w, r, &update); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	caller, _ := userFromContext(r.Context())
	u, err := s.accounts.UpdateProfile(r.Context(), caller.Username, update)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Logout(r.Context(), tokenFromContext(r.Context())); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
