package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// TaskTransport performs CRUD calls against the remote task API.
// Implemented by infra/transport.Client.
type TaskTransport interface {
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, draft TaskDraft) (Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (Task, error)
	Delete(ctx context.Context, id string) error
}

// AuthTransport is the authentication half of the remote API.
type AuthTransport interface {
	Login(ctx context.Context, creds Credentials) (Session, error)
	Me(ctx context.Context) (User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error)
	Logout(ctx context.Context) error
}

// SessionStore persists the logged-in session across runs.
// Get returns nil, nil when nobody is logged in.
type SessionStore interface {
	Get() (*Session, error)
	Set(s Session) error
	Clear() error
}

// TaskRepository is server-side task storage. List returns insertion order.
type TaskRepository interface {
	ListTasks(ctx context.Context) ([]Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	InsertTask(ctx context.Context, t Task) error
	UpdateTask(ctx context.Context, t Task) error
	DeleteTask(ctx context.Context, id string) error
}

// UserRepository is server-side user and token storage.
type UserRepository interface {
	CreateUser(ctx context.Context, u User, passwordHash string) error
	GetUser(ctx context.Context, username string) (*User, string, error)
	UpdateUser(ctx context.Context, u User, passwordHash string) error
	CountUsers(ctx context.Context) (int, error)
	InsertToken(ctx context.Context, token, username string, expiresAt int64) error
	TokenUser(ctx context.Context, token string, now int64) (*User, error)
	DeleteToken(ctx context.Context, token string) error
}
