package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/response"
	"github.com/singnet/snet-converter-services/internal/server"
	"github.com/singnet/snet-converter-services/internal/service"
	"github.com/singnet/snet-converter-services/internal/validation"
)

// EmptyRequest is used by routes without parameters.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// BlockchainNameRequest carries the :name path parameter.
type BlockchainNameRequest struct {
	Name string `param:"name" validate:"required,max=50"`
}

func (r *BlockchainNameRequest) Validate() error {
	return validation.ValidateStruct(r).Err()
}

// TokenPairIDRequest carries the :id path parameter.
type TokenPairIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *TokenPairIDRequest) Validate() error {
	return validation.ValidateStruct(r).Err()
}

// CatalogueHandler serves the read-only network and token pair catalogue.
type CatalogueHandler struct {
	Handler
	service *service.CatalogueService
}

func NewCatalogueHandler(s *server.Server, svc *service.CatalogueService) *CatalogueHandler {
	return &CatalogueHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *CatalogueHandler) ListBlockchains(c echo.Context, _ *EmptyRequest) (response.Envelope, error) {
	return h.service.ListBlockchains(c.Request().Context()), nil
}

func (h *CatalogueHandler) GetBlockchain(c echo.Context, req *BlockchainNameRequest) (response.Envelope, error) {
	return h.service.GetBlockchain(c.Request().Context(), req.Name), nil
}

func (h *CatalogueHandler) ListTokenPairs(c echo.Context, _ *EmptyRequest) (response.Envelope, error) {
	return h.service.ListTokenPairs(c.Request().Context()), nil
}

func (h *CatalogueHandler) GetTokenPair(c echo.Context, req *TokenPairIDRequest) (response.Envelope, error) {
	return h.service.GetTokenPair(c.Request().Context(), req.ID), nil
}
