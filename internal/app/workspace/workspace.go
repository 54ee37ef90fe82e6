// Package workspace binds the persisted session, the remote task API and a
// dashboard engine for the logged-in user.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck/internal/app/dashboard"
	"github.com/taskdeck/taskdeck/internal/domain"
)

// Remote is the task API as the workspace needs it.
// Implemented by infra/transport.Client.
type Remote interface {
	domain.TaskTransport
	domain.AuthTransport
	SetToken(token string)
}

// Workspace owns the login lifecycle. Engines it opens share its session
// store, so an expired token seen by any engine logs the user out.
type Workspace struct {
	store  domain.SessionStore
	remote Remote
	logger *slog.Logger
}

// New creates a Workspace.
func New(store domain.SessionStore, remote Remote, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{store: store, remote: remote, logger: logger.With("component", "workspace")}
}

// Login authenticates and persists the session.
func (w *Workspace) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if creds.Username == "" {
		return domain.Session{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	sess, err := w.remote.Login(ctx, creds)
	if err != nil {
		return domain.Session{}, err
	}
	if err := w.store.Set(sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	w.logger.Info("logged in", "user", sess.User.Username, "role", sess.User.Role)
	return sess, nil
}

// Logout revokes the token on the server, best effort, and forgets the
// session. engine may be nil; when given it is reset.
func (w *Workspace) Logout(ctx context.Context, engine *dashboard.Engine) error {
	if engine != nil {
		engine.Reset()
	}
	if sess, err := w.store.Get(); err == nil && sess != nil {
		w.remote.SetToken(sess.Token)
		if err := w.remote.Logout(ctx); err != nil {
			w.logger.Warn("server logout failed", "error", err)
		}
	}
	w.remote.SetToken("")
	if err := w.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	w.logger.Info("logged out")
	return nil
}

// Session returns the saved session or ErrNoSession.
func (w *Workspace) Session() (domain.Session, error) {
	sess, err := w.store.Get()
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	if sess == nil {
		return domain.Session{}, domain.ErrNoSession
	}
	return *sess, nil
}

// Open returns an engine in the Empty state for the saved session. When the
// server reports the session expired the engine is reset and the session
// cleared.
func (w *Workspace) Open() (*dashboard.Engine, error) {
	sess, err := w.Session()
	if err != nil {
		return nil, err
	}
	w.remote.SetToken(sess.Token)

	engine := dashboard.NewEngine(w.remote, sess, w.logger)
	engine.Subscribe(func(ev dashboard.Event) {
		if ev.Kind != dashboard.EventAuthExpired {
			return
		}
		engine.Reset()
		w.remote.SetToken("")
		if err := w.store.Clear(); err != nil {
			w.logger.Error("clear expired session", "error", err)
			return
		}
		w.logger.Warn("session expired, logged out", "user", sess.User.Username)
	})
	return engine, nil
}

// Whoami asks the server who the saved token belongs to and refreshes the
// stored user. An expired token clears the session.
func (w *Workspace) Whoami(ctx context.Context) (domain.User, error) {
	sess, err := w.Session()
	if err != nil {
		return domain.User{}, err
	}
	w.remote.SetToken(sess.Token)

	u, err := w.remote.Me(ctx)
	if err != nil {
		return domain.User{}, w.checkExpired(err)
	}
	sess.User = u
	if err := w.store.Set(sess); err != nil {
		return domain.User{}, fmt.Errorf("save session: %w", err)
	}
	return u, nil
}

// UpdateProfile changes the user's name and/or password and refreshes the
// stored user.
func (w *Workspace) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	if update.FullName == nil && update.Password == nil {
		return domain.User{}, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if update.Password != nil && *update.Password == "" {
		return domain.User{}, fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
	}
	sess, err := w.Session()
	if err != nil {
		return domain.User{}, err
	}
	w.remote.SetToken(sess.Token)

	u, err := w.remote.UpdateProfile(ctx, update)
	if err != nil {
		return domain.User{}, w.checkExpired(err)
	}
	sess.User = u
	if err := w.store.Set(sess); err != nil {
		return domain.User{}, fmt.Errorf("save session: %w", err)
	}
	return u, nil
}

func (w *Workspace) checkExpired(err error) error {
	if errors.Is(err, domain.ErrAuthExpired) {
		if cerr := w.store.Clear(); cerr != nil {
			w.logger.Error("clear expired session", "error", cerr)
		}
	}
	return err
}
