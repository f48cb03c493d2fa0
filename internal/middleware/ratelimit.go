package middleware

import (
	"math"    // Rounding Retry-After up
	"strconv" // Header formatting

	"budget_system/internal/apperr" // Typed errors
	"budget_system/internal/utils"  // Rate limiter

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RateLimit caps hits per client IP for the routes it guards. scope keeps
// counters of different route groups apart.
func RateLimit(limiter utils.RateLimiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Limiter backend down: serve the request rather than lock everyone out
			logrus.WithFields(logrus.Fields{
				"scope": scope,
				"error": err.Error(),
			}).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			logrus.WithFields(logrus.Fields{
				"scope":     scope,
				"client_ip": c.ClientIP(),
			}).Warn("Rate limit exceeded")
			apperr.Abort(c, apperr.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
