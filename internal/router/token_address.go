package router

import (
	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/handler"
	"github.com/singnet/snet-converter-services/internal/service"
)

func registerTokenAddressRoutes(r *echo.Echo, h *handler.Handlers) {
	th := h.TokenAddress
	base := th.Handler

	g := r.Group("/token-addresses")

	g.GET("", handler.HandleEnvelope(base, th.List, func() *service.ListTokenAddressesRequest {
		return &service.ListTokenAddressesRequest{}
	}))
	g.POST("", handler.HandleEnvelope(base, th.Create, newBodyRequest))
	g.GET("/:id", handler.HandleEnvelope(base, th.Get, newIDRequest))
	g.PATCH("/:id", handler.HandleEnvelope(base, th.Update, newBodyRequest))
	g.DELETE("/:id", handler.HandleEnvelope(base, th.Deactivate, newIDRequest))
}

func newIDRequest() *handler.TokenAddressIDRequest {
	return &handler.TokenAddressIDRequest{}
}

func newBodyRequest() *handler.TokenAddressBodyRequest {
	return &handler.TokenAddressBodyRequest{}
}
