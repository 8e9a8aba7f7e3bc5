package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
)

// ManagerTokenHeader alternative to "Authorization: Bearer <token>"
const ManagerTokenHeader = "X-Manager-Token"

type contextKey string

const managerKey contextKey = "manager"

// IsManager reports whether the request carried a valid manager token
func IsManager(ctx context.Context) bool {
	ok, _ := ctx.Value(managerKey).(bool)
	return ok
}

// WithManager marks ctx as authenticated for the manager
func WithManager(ctx context.Context) context.Context {
	return context.WithValue(ctx, managerKey, true)
}

// ManagerAuth checks the manager token
type ManagerAuth struct {
	token  string
	logger Logger
}

func NewManagerAuth(token string, logger Logger) *ManagerAuth {
	return &ManagerAuth{token: token, logger: logger}
}

// Identify marks requests carrying a valid token; others pass through as customers
func (a *ManagerAuth) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.valid(r) {
			r = r.WithContext(WithManager(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without a valid token
func (a *ManagerAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.valid(r) {
			a.logger.Warn("%s %s - manager token missing or invalid", r.Method, r.URL.Path)
			handlers.RespondUnauthorized(w, "manager token required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithManager(r.Context())))
	})
}

func (a *ManagerAuth) valid(r *http.Request) bool {
	if a.token == "" {
		return false
	}

	got := r.Header.Get(ManagerTokenHeader)
	if got == "" {
		if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			got = strings.TrimSpace(bearer)
		}
	}
	if got == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(got), []byte(a.token)) == 1
}
