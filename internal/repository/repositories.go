package repository

import (
	"github.com/singnet/snet-converter-services/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	TokenAddress *TokenAddressRepository
	Catalogue    *CatalogueRepository
}

// NewRepositories constructs the repository container.
//
// Repositories query through the Manager's reconnecting querier, so a
// pool closed underneath them is reopened on the next call.
func NewRepositories(s *server.Server) *Repositories {
	db := s.DB.Querier()
	return &Repositories{
		TokenAddress: NewTokenAddressRepository(db),
		Catalogue:    NewCatalogueRepository(db),
	}
}
