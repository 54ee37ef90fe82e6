// Package accounts manages server-side users: registration, password login,
// bearer tokens and profile edits. Passwords are stored as bcrypt hashes and
// tokens by their digest.
package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/metrics"
	"github.com/taskdeck/taskdeck/internal/security"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 12 * time.Hour

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 4

// Service issues and resolves sessions.
type Service struct {
	users    domain.UserRepository
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
}

// NewService creates an account service. A zero ttl means DefaultTokenTTL.
func NewService(users domain.UserRepository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{users: users, tokenTTL: ttl, cost: bcrypt.DefaultCost, now: time.Now}
}

// SetHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) SetHashCost(cost int) { s.cost = cost }

// Register creates a user with the given role and password.
func (s *Service) Register(ctx context.Context, u domain.User, password string) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	role, ok := domain.ParseRole(string(u.Role))
	if !ok {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, u.Role)
	}
	u.Role = role
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.users.CreateUser(ctx, u, hash)
}

// Login checks credentials and issues a new token.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	u, hash, err := s.users.GetUser(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		return domain.Session{}, err
	}
	if u == nil || !security.CheckPassword(hash, creds.Password) {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	token, err := security.NewToken()
	if err != nil {
		return domain.Session{}, err
	}
	expires := s.now().Add(s.tokenTTL).Unix()
	if err := s.users.InsertToken(ctx, security.TokenDigest(token), u.Username, expires); err != nil {
		return domain.Session{}, fmt.Errorf("store token: %w", err)
	}
	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	return domain.Session{Token: token, User: *u}, nil
}

// Resolve returns the user a live token belongs to, or ErrTokenInvalid.
func (s *Service) Resolve(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrTokenInvalid
	}
	u, err := s.users.TokenUser(ctx, security.TokenDigest(token), s.now().Unix())
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, domain.ErrTokenInvalid
	}
	return *u, nil
}

// Logout revokes token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.users.DeleteToken(ctx, security.TokenDigest(token))
}

// UpdateProfile changes username's full name and/or password.
func (s *Service) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error) {
	u, _, err := s.users.GetUser(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, domain.ErrUserNotFound
	}

	if update.FullName != nil {
		u.FullName = strings.TrimSpace(*update.FullName)
	}
	var hash string
	if update.Password != nil {
		if hash, err = s.hash(*update.Password); err != nil {
			return domain.User{}, err
		}
	}
	if err := s.users.UpdateUser(ctx, *u, hash); err != nil {
		return domain.User{}, err
	}
	return *u, nil
}

// HasUsers reports whether any account exists.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	n, err := s.users.CountUsers(ctx)
	return n > 0, err
}

func (s *Service) hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	return security.HashPassword(password, s.cost)
}
