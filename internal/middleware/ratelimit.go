package middleware

import (
	"net/http"

	"iptvsite/internal/logger"
	"iptvsite/internal/ratelimit"
	"iptvsite/internal/telemetry"
	"iptvsite/internal/utils/helpers"

	"go.uber.org/zap"
)

// RateLimit applies rule per client IP. Over the limit the handler is not
// called and the caller gets 429 with the rule's message. Limiter errors fail open.
func RateLimit(l ratelimit.Limiter, rule ratelimit.Rule, m *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rule.Name + ":" + ClientIP(r)
			ok, err := l.Allow(r.Context(), key, rule.Limit, rule.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Error("rate limiter unavailable", zap.String("rule", rule.Name), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				if m != nil {
					m.RateLimited.WithLabelValues(rule.Name).Inc()
				}
				logger.WithCtx(r.Context()).Warn("rate limited",
					zap.String("rule", rule.Name),
					zap.String("ip", ClientIP(r)),
				)
				helpers.Error(w, http.StatusTooManyRequests, rule.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
