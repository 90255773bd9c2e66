package handler

import (
	"context"
	"net/http"
	"time"

	"stablepay/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck returns a handler that pings every registered dependency.
// Any failing dependency turns the overall status to 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		deps := gin.H{}
		for _, hc := range checkers {
			if err := hc.Ping(ctx); err != nil {
				deps[hc.Name()] = "down"
				status = http.StatusServiceUnavailable
			} else {
				deps[hc.Name()] = "up"
			}
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status":       overall,
			"dependencies": deps,
		})
	}
}
