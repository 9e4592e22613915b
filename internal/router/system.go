package router

import (
	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of business logic.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}
