package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// SessionStore persists the client's logged-in session in client_session.
// It implements domain.SessionStore.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a session store on db.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Get returns the saved session, or nil, nil when nobody is logged in.
func (s *SessionStore) Get() (*domain.Session, error) {
	var sess domain.Session
	var role string
	err := s.db.db.QueryRow(
		`SELECT token, username, full_name, role FROM client_session WHERE id = 1`,
	).Scan(&sess.Token, &sess.User.Username, &sess.User.FullName, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.User.Role = domain.Role(role)
	return &sess, nil
}

// Set replaces the saved session.
func (s *SessionStore) Set(sess domain.Session) error {
	_, err := s.db.db.Exec(
		`INSERT INTO client_session (id, token, username, full_name, role, saved_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			token=excluded.token,
			username=excluded.username,
			full_name=excluded.full_name,
			role=excluded.role,
			saved_at=excluded.saved_at`,
		sess.Token, sess.User.Username, sess.User.FullName, string(sess.User.Role),
		time.Now().Unix(),
	)
	return err
}

// Clear forgets the saved session. Clearing an empty store is not an error.
func (s *SessionStore) Clear() error {
	_, err := s.db.db.Exec(`DELETE FROM client_session`)
	return err
}
