// Package transport is the HTTP client for the remote task API. It
// implements domain.TaskTransport and domain.AuthTransport.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/metrics"
)

// DefaultTimeout bounds every call when the caller sets none.
const DefaultTimeout = 15 * time.Second

// Client talks to a taskdeck API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for baseURL. A zero timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "transport"),
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the server address the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// ─── Tasks ──────────────────────────────────────────────────────────────────

// List fetches the full task collection.
func (c *Client) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.call(ctx, "list", http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Create sends a draft and returns the server-assigned task.
func (c *Client) Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	var task domain.Task
	err := c.call(ctx, "create", http.MethodPost, "/api/tasks", draft, &task)
	return task, err
}

// Update sends a partial update for id.
func (c *Client) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	var task domain.Task
	err := c.call(ctx, "update", http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch, &task)
	return task, err
}

// Delete removes the task with id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, "delete", http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

// ─── Auth ───────────────────────────────────────────────────────────────────

// Login exchanges credentials for a session. The client keeps the new token.
// Rejected credentials return ErrInvalidCredentials, not ErrAuthExpired.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	var sess domain.Session
	err := c.call(ctx, "login", http.MethodPost, "/api/auth/login", creds, &sess)
	if errors.Is(err, domain.ErrAuthExpired) {
		return domain.Session{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
	}
	if err != nil {
		return domain.Session{}, err
	}
	c.SetToken(sess.Token)
	return sess, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.call(ctx, "me", http.MethodGet, "/api/auth/me", nil, &u)
	return u, err
}

// UpdateProfile changes the caller's full name and/or password.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	var u domain.User
	err := c.call(ctx, "profile", http.MethodPut, "/api/auth/profile", update, &u)
	return u, err
}

// Logout revokes the current token on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, "logout", http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// ─── Internals ──────────────────────────────────────────────────────────────

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

// call performs one request, decoding a 2xx body into out when out is
// non-nil. Every failure wraps ErrTransport; a 401 wraps ErrAuthExpired.
func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	defer func() {
		metrics.TransportLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode %s request: %w", domain.ErrTransport, op, err)
		}
		body = bytes.NewReader(data)
	}

	c.logger.Debug("sending request", "op", op, "method", method, "path", path)

	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		metrics.TransportErrors.WithLabelValues(op, "network").Inc()
		c.logger.Error("request failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := errorMessage(bodyBytes)
		if resp.StatusCode == http.StatusUnauthorized {
			metrics.TransportErrors.WithLabelValues(op, "auth").Inc()
			c.logger.Warn("server rejected credentials", "op", op, "message", msg)
			return fmt.Errorf("%w: %s", domain.ErrAuthExpired, msg)
		}
		metrics.TransportErrors.WithLabelValues(op, "status").Inc()
		c.logger.Error("received error response", "op", op, "status_code", resp.StatusCode, "message", msg)
		return fmt.Errorf("%w: server returned %d: %s", domain.ErrTransport, resp.StatusCode, msg)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.TransportErrors.WithLabelValues(op, "decode").Inc()
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrTransport, op, err)
	}
	return nil
}

// errorMessage extracts the server's error message, falling back to the raw body.
func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}
