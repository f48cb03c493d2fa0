package api

import (
	"context"  // Context for probes
	"net/http" // HTTP status codes
	"time"     // Probe timeout

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

const healthTimeout = 2 * time.Second // Per-request probe budget

// HealthHandler runs every check and reports 503 when any fails
func HealthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logrus.WithFields(logrus.Fields{
					"check": name,        // Failing dependency
					"error": err.Error(), // Probe error
				}).Warn("Health check failed")
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}
		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	}
}
