package middleware

import (
	"context"
	"net/http"

	"iptvsite/internal/models"
	"iptvsite/internal/reqctx"
)

// SessionCookie is the name of the HTTP-only cookie carrying the admin session.
const SessionCookie = "token"

type SessionChecker interface {
	CheckSession(ctx context.Context, token string) (*models.AdminSummary, bool)
}

// LoadSession attaches the admin to the request context when the session
// cookie is valid. It never rejects; RequireAdmin does.
func LoadSession(auth SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			admin, ok := auth.CheckSession(r.Context(), c.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := reqctx.WithAdmin(r.Context(), admin.ID, admin.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
