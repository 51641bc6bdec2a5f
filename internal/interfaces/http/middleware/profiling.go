package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
)

// Profiling areas
const (
	AreaStorefront = "storefront"
	AreaAdmin      = "admin"
	AreaSystem     = "system"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are paths that don't need profiling labels (e.g., health checks).
	SkipPaths []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/ready"},
	}
}

// ProfilingWithConfig tags CPU samples taken while a request is served with
// its method, route pattern and area so Pyroscope can slice profiles by
// endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	return map[string]string{
		telemetry.ProfilingLabelMethod: c.Request.Method,
		telemetry.ProfilingLabelRoute:  route,
		telemetry.ProfilingLabelArea:   routeArea(route),
	}
}

// routeArea splits the API into the public storefront and the admin console.
func routeArea(route string) string {
	switch {
	case route == "":
		return ""
	case strings.HasPrefix(route, "/api/admin"):
		return AreaAdmin
	case strings.HasPrefix(route, "/api/"):
		return AreaStorefront
	default:
		return AreaSystem
	}
}
