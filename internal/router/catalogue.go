package router

import (
	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/handler"
)

func registerCatalogueRoutes(r *echo.Echo, h *handler.Handlers) {
	ch := h.Catalogue
	base := ch.Handler

	r.GET("/blockchains", handler.HandleEnvelope(base, ch.ListBlockchains, newEmptyRequest))
	r.GET("/blockchains/:name", handler.HandleEnvelope(base, ch.GetBlockchain, func() *handler.BlockchainNameRequest {
		return &handler.BlockchainNameRequest{}
	}))

	r.GET("/token-pairs", handler.HandleEnvelope(base, ch.ListTokenPairs, newEmptyRequest))
	r.GET("/token-pairs/:id", handler.HandleEnvelope(base, ch.GetTokenPair, func() *handler.TokenPairIDRequest {
		return &handler.TokenPairIDRequest{}
	}))
}

func newEmptyRequest() *handler.EmptyRequest {
	return &handler.EmptyRequest{}
}
