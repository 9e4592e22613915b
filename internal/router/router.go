// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/handler"
	"github.com/singnet/snet-converter-services/internal/middleware"
	"github.com/singnet/snet-converter-services/internal/server"
)

// NewRouter builds the Echo instance.
//
// Middleware order matters: RequestID must run before ContextEnhancer so
// the request logger carries the id, and Recover sits inside the logger so
// panics are logged with their final status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h)
	registerTokenAddressRoutes(router, h)
	registerCatalogueRoutes(router, h)

	return router
}
