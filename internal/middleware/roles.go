package middleware

import (
	"net/http"

	"iptvsite/internal/logger"
	"iptvsite/internal/reqctx"
	"iptvsite/internal/utils/helpers"

	"go.uber.org/zap"
)

// RequireAdmin rejects requests without an authenticated admin. Must run after LoadSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := reqctx.GetAdminID(r.Context()); !ok {
			logger.WithCtx(r.Context()).Warn("unauthenticated admin request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			helpers.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

