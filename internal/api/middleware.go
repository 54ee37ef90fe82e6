package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck/internal/app/permission"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/metrics"
)

// ─── Logging & Metrics ──────────────────────────────────────────────────────

// requestLogger logs one line per request with its status, size and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// routeMetrics records request counts and latency by route pattern, so
// task ids do not explode label cardinality.
func routeMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.APIRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.APILatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ─── Authentication ─────────────────────────────────────────────────────────

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// userFromContext returns the user set by authenticate.
func userFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

func tokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// bearerToken extracts the token from "Authorization: Bearer <t>".
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	token := strings.TrimPrefix(h, "Bearer ")
	if token == h || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// authenticate rejects requests without a live bearer token with 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "auth_error", "authorization header required")
			return
		}
		u, err := s.accounts.Resolve(r.Context(), token)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ─── Authorization ──────────────────────────────────────────────────────────

const (
	capCreate = permission.Create
	capUpdate = permission.Update
	capDelete = permission.Delete
)

// requireCapability answers 403 when the caller's role lacks c.
func requireCapability(c permission.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := userFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusInternalServerError, "server_error", "no authenticated user")
				return
			}
			if !permission.Allows(u.Role, c) {
				writeError(w, http.StatusForbidden, "permission_error",
					"role "+string(u.Role)+" cannot "+string(c)+" tasks")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
