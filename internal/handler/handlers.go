package handler

import (
	"github.com/singnet/snet-converter-services/internal/server"
	"github.com/singnet/snet-converter-services/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one object.
type Handlers struct {
	Health       *HealthHandler
	TokenAddress *TokenAddressHandler
	Catalogue    *CatalogueHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(s),
		TokenAddress: NewTokenAddressHandler(s, services.TokenAddress),
		Catalogue:    NewCatalogueHandler(s, services.Catalogue),
	}
}
