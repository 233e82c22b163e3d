// Package router đăng ký các route thuộc domain Metrics: unified metrics,
// export Excel và listing snapshot.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	metricshdl "meta_tourism/internal/api/metrics/handler"
	"meta_tourism/internal/api/middleware"
	apirouter "meta_tourism/internal/api/router"
)

// Register đăng ký tất cả route metrics lên v1.
func Register(v1 fiber.Router) error {
	metricsHandler, err := metricshdl.NewMetricsHandler()
	if err != nil {
		return fmt.Errorf("create metrics handler: %w", err)
	}

	metricsReadMiddleware := middleware.AuthMiddleware("Metrics.Read")
	branchContextMiddleware := middleware.BranchContextMiddleware()
	chain := []fiber.Handler{metricsReadMiddleware, branchContextMiddleware}

	apirouter.RegisterRouteWithMiddleware(v1, "/guides", "GET", "/:guideId/metrics", chain, metricsHandler.HandleGetUnifiedMetrics)
	apirouter.RegisterRouteWithMiddleware(v1, "/guides", "GET", "/:guideId/metrics/export", chain, metricsHandler.HandleExportMetrics)
	apirouter.RegisterRouteWithMiddleware(v1, "/metric-snapshot", "GET", "/", chain, metricsHandler.HandleListSnapshots)
	return nil
}
