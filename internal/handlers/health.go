package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthCheck probes a single dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	logger *logrus.Logger
	checks map[string]HealthCheck
}

func NewHealthHandler(logger *logrus.Logger, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{logger: logger, checks: checks}
}

// Health handles GET /health. Reports per-dependency status; any failing
// check turns the overall status to degraded with a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	services := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WithError(err).WithField("service", name).Warn("Health check failed")
			services[name] = "unhealthy"
			status = "degraded"
		} else {
			services[name] = "healthy"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now(),
		"services":  services,
	})
}

// Ready handles GET /ready for load balancer probes.
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
