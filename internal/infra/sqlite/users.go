package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// ─── User Repository ────────────────────────────────────────────────────────

// CreateUser inserts a user. Returns ErrUserExists on a duplicate username.
func (d *DB) CreateUser(ctx context.Context, u domain.User, passwordHash string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO users (username, full_name, role, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.FullName, string(u.Role), passwordHash, time.Now().Unix(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrUserExists
	}
	return err
}

// GetUser returns the user and its password hash. Returns nil, "", nil if
// the user does not exist.
func (d *DB) GetUser(ctx context.Context, username string) (*domain.User, string, error) {
	var u domain.User
	var role, hash string
	err := d.db.QueryRowContext(ctx,
		`SELECT username, full_name, role, password_hash FROM users WHERE username = ?`,
		username,
	).Scan(&u.Username, &u.FullName, &role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	u.Role = domain.Role(role)
	return &u, hash, nil
}

// UpdateUser rewrites full name, role and, when passwordHash is non-empty,
// the password hash.
func (d *DB) UpdateUser(ctx context.Context, u domain.User, passwordHash string) error {
	var result sql.Result
	var err error
	if passwordHash != "" {
		result, err = d.db.ExecContext(ctx,
			`UPDATE users SET full_name = ?, role = ?, password_hash = ? WHERE username = ?`,
			u.FullName, string(u.Role), passwordHash, u.Username)
	} else {
		result, err = d.db.ExecContext(ctx,
			`UPDATE users SET full_name = ?, role = ? WHERE username = ?`,
			u.FullName, string(u.Role), u.Username)
	}
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// CountUsers returns the number of registered users.
func (d *DB) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// ─── Tokens ─────────────────────────────────────────────────────────────────

// InsertToken stores a bearer token key for username, valid until expiresAt
// (unix). accounts passes the token digest, never the raw token.
func (d *DB) InsertToken(ctx context.Context, token, username string, expiresAt int64) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, username, expires_at) VALUES (?, ?, ?)`,
		token, username, expiresAt,
	)
	return err
}

// TokenUser resolves a token to its user. Returns nil, nil for unknown or
// expired tokens.
func (d *DB) TokenUser(ctx context.Context, token string, now int64) (*domain.User, error) {
	var u domain.User
	var role string
	err := d.db.QueryRowContext(ctx,
		`SELECT u.username, u.full_name, u.role
		 FROM auth_tokens t JOIN users u ON u.username = t.username
		 WHERE t.token = ? AND t.expires_at > ?`,
		token, now,
	).Scan(&u.Username, &u.FullName, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// DeleteToken revokes a token. Unknown tokens are ignored.
func (d *DB) DeleteToken(ctx context.Context, token string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = ?`, token)
	return err
}

// PurgeExpiredTokens removes tokens that expired before now.
func (d *DB) PurgeExpiredTokens(ctx context.Context, now int64) (int64, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
