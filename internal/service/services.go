package service

import (
	"github.com/singnet/snet-converter-services/internal/repository"
	"github.com/singnet/snet-converter-services/internal/server"
)

type Services struct {
	TokenAddress *TokenAddressService
	Catalogue    *CatalogueService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		TokenAddress: NewTokenAddressService(repos.TokenAddress, s.Logger),
		Catalogue:    NewCatalogueService(repos.Catalogue, s.Logger),
	}, nil
}
