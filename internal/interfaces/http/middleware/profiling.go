package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
)

// ProfilingLabels tags the CPU and allocation samples taken while a request
// is handled with its method and route pattern. Paths in skipPaths are
// passed through untouched.
func ProfilingLabels(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		telemetry.WithRequestLabels(c.Request.Context(), c.Request.Method, c.FullPath(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
