package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/response"
	"github.com/singnet/snet-converter-services/internal/server"
	"github.com/singnet/snet-converter-services/internal/service"
	"github.com/singnet/snet-converter-services/internal/validation"
)

// TokenAddressIDRequest carries the :id path parameter.
type TokenAddressIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *TokenAddressIDRequest) Validate() error {
	return validation.ValidateStruct(r).Err()
}

// TokenAddressBodyRequest carries the raw JSON body, validated by the
// service against its schema, and the optional :id path parameter.
type TokenAddressBodyRequest struct {
	ID   string `param:"id" validate:"omitempty,uuid"`
	Body []byte `param:"-"`
}

func (r *TokenAddressBodyRequest) SetRawBody(body []byte) {
	r.Body = body
}

func (r *TokenAddressBodyRequest) Validate() error {
	return validation.ValidateStruct(r).Err()
}

type TokenAddressHandler struct {
	Handler
	service *service.TokenAddressService
}

func NewTokenAddressHandler(s *server.Server, svc *service.TokenAddressService) *TokenAddressHandler {
	return &TokenAddressHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *TokenAddressHandler) List(c echo.Context, req *service.ListTokenAddressesRequest) (response.Envelope, error) {
	return h.service.List(c.Request().Context(), req), nil
}

func (h *TokenAddressHandler) Get(c echo.Context, req *TokenAddressIDRequest) (response.Envelope, error) {
	return h.service.Get(c.Request().Context(), req.ID), nil
}

func (h *TokenAddressHandler) Create(c echo.Context, req *TokenAddressBodyRequest) (response.Envelope, error) {
	return h.service.Create(c.Request().Context(), req.Body), nil
}

func (h *TokenAddressHandler) Update(c echo.Context, req *TokenAddressBodyRequest) (response.Envelope, error) {
	return h.service.Update(c.Request().Context(), req.ID, req.Body), nil
}

func (h *TokenAddressHandler) Deactivate(c echo.Context, req *TokenAddressIDRequest) (response.Envelope, error) {
	return h.service.Deactivate(c.Request().Context(), req.ID), nil
}
