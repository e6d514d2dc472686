package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tickr/internal/auth"
	"github.com/desertthunder/tickr/internal/services"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

type contextKey struct{}

// SessionFromContext returns the session the auth guard attached to the request.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(contextKey{}).(*auth.Session)
	return session, ok && session != nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging logs method, path, status and duration of every request.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// RateLimit rejects requests with 429 once limiter has no tokens left.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				jsonError(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth resolves the bearer token to a session.
//
// A missing or unknown token gets 401. A {uid} path variable that is not the
// caller's own id gets 403.
func RequireAuth(accounts *services.Accounts) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="tickr"`)
				jsonError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			session, err := accounts.Authenticate(token)
			switch {
			case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrUserNotFound):
				w.Header().Set("WWW-Authenticate", `Bearer realm="tickr", error="invalid_token"`)
				jsonError(w, "invalid token", http.StatusUnauthorized)
				return
			case err != nil:
				jsonError(w, "failed to authenticate", http.StatusInternalServerError)
				return
			}

			if uid, ok := mux.Vars(r)["uid"]; ok && uid != session.UserID {
				jsonError(w, shared.ErrForbidden.Error(), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, session)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
