package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/entity"
	"github.com/singnet/snet-converter-services/internal/response"
)

// CatalogueStore is the read-only persistence behind the catalogue.
// *repository.CatalogueRepository satisfies it.
type CatalogueStore interface {
	ListNetworks(ctx context.Context) ([]entity.Network, error)
	GetNetworkByName(ctx context.Context, name string) (*entity.Network, error)
	ListTokenPairs(ctx context.Context) ([]entity.TokenPair, error)
	GetTokenPair(ctx context.Context, id uuid.UUID) (*entity.TokenPair, error)
}

// CatalogueService answers the catalogue endpoints with envelopes.
type CatalogueService struct {
	store  CatalogueStore
	logger *zerolog.Logger
}

func NewCatalogueService(store CatalogueStore, logger *zerolog.Logger) *CatalogueService {
	return &CatalogueService{store: store, logger: logger}
}

func (s *CatalogueService) ListBlockchains(ctx context.Context) response.Envelope {
	networks, err := s.store.ListNetworks(ctx)
	if err != nil {
		return failure(s.logger, "list blockchains", err)
	}
	return response.OK(networks)
}

func (s *CatalogueService) GetBlockchain(ctx context.Context, name string) response.Envelope {
	name = strings.TrimSpace(name)
	if name == "" {
		return response.Failure("name should not be empty")
	}

	network, err := s.store.GetNetworkByName(ctx, name)
	if err != nil {
		return failure(s.logger, "get blockchain", err)
	}
	return response.OK(network)
}

func (s *CatalogueService) ListTokenPairs(ctx context.Context) response.Envelope {
	pairs, err := s.store.ListTokenPairs(ctx)
	if err != nil {
		return failure(s.logger, "list token pairs", err)
	}
	return response.OK(pairs)
}

func (s *CatalogueService) GetTokenPair(ctx context.Context, id string) response.Envelope {
	pairID, env, ok := parseID(id)
	if !ok {
		return env
	}

	pair, err := s.store.GetTokenPair(ctx, pairID)
	if err != nil {
		return failure(s.logger, "get token pair", err)
	}
	return response.OK(pair)
}
