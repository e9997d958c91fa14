// Package middleware contains the HTTP middleware of the local gateway.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gasgalon/orderflow/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// SessionSource exposes the active session to the gate.
type SessionSource interface {
	Current() *model.Session
}

// Gate decides which route groups are reachable: no session means only the
// auth routes, and each role sees only its own group.
type Gate struct {
	sessions SessionSource
}

// NewGate creates the session gate.
func NewGate(sessions SessionSource) *Gate {
	return &Gate{sessions: sessions}
}

// RequireSession rejects requests while logged out and puts the user profile
// into the request context.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := g.sessions.Current()
		if sess == nil {
			writeGateError(w, http.StatusUnauthorized, "Silakan login terlebih dahulu.", true)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, sess.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole limits a group to one account role. Use inside RequireSession.
func (g *Gate) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok || user.Role != role {
				writeGateError(w, http.StatusForbidden, "Akses ditolak. Anda tidak memiliki izin.", false)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated profile from the context.
func GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}

func writeGateError(w http.ResponseWriter, code int, message string, needsLogin bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"message":    message,
		"needsLogin": needsLogin,
	})
}
