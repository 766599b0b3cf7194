package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "clinic/internal/errors"
	"clinic/internal/logger"
	"clinic/internal/ratelimit"
)

// RateLimit rejects requests once the client IP exceeds its quota for scope.
// A nil limiter disables the check.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		if !limiter.Allow(key) {
			logger.Get().Warnw("rate limit exceeded", "scope", scope, "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			abortWithError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
