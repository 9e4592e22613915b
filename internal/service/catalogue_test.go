package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/snet-converter-services/internal/entity"
	"github.com/singnet/snet-converter-services/internal/response"
	"github.com/singnet/snet-converter-services/internal/sqlerr"
)

type fakeCatalogue struct {
	networks []entity.Network
	pairs    []entity.TokenPair
	err      error
}

func (f *fakeCatalogue) ListNetworks(context.Context) ([]entity.Network, error) {
	return f.networks, f.err
}

func (f *fakeCatalogue) GetNetworkByName(_ context.Context, name string) (*entity.Network, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.networks {
		if strings.EqualFold(f.networks[i].Name, name) {
			return &f.networks[i], nil
		}
	}
	return nil, sqlerr.NotFound(entity.NetworkTable.Name)
}

func (f *fakeCatalogue) ListTokenPairs(context.Context) ([]entity.TokenPair, error) {
	return f.pairs, f.err
}

func (f *fakeCatalogue) GetTokenPair(_ context.Context, id uuid.UUID) (*entity.TokenPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.pairs {
		if f.pairs[i].ID == id {
			return &f.pairs[i], nil
		}
	}
	return nil, sqlerr.NotFound(entity.TokenPairTable.Name)
}

func newCatalogueService(store CatalogueStore) *CatalogueService {
	logger := zerolog.Nop()
	return NewCatalogueService(store, &logger)
}

func seededCatalogue() *fakeCatalogue {
	ethereum := entity.Network{Name: "Ethereum", Symbol: "ETH", ChainIDs: []string{"1"}}
	ethereum.ID = uuid.New()

	pair := entity.TokenPair{MinValue: "10", MaxValue: "100", IsEnabled: true}
	pair.ID = uuid.New()

	return &fakeCatalogue{
		networks: []entity.Network{ethereum},
		pairs:    []entity.TokenPair{pair},
	}
}

func TestCatalogue_ListBlockchains(t *testing.T) {
	store := seededCatalogue()
	env := newCatalogueService(store).ListBlockchains(context.Background())

	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "OK", env.Message)
	assert.Equal(t, store.networks, env.Result)
}

func TestCatalogue_GetBlockchain(t *testing.T) {
	svc := newCatalogueService(seededCatalogue())
	ctx := context.Background()

	env := svc.GetBlockchain(ctx, "ethereum")
	require.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "ETH", env.Result.(*entity.Network).Symbol)

	env = svc.GetBlockchain(ctx, "Bitcoin")
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "Blockchain not found", env.Message)

	env = svc.GetBlockchain(ctx, "  ")
	assert.Equal(t, "name should not be empty", env.Message)
}

func TestCatalogue_TokenPairs(t *testing.T) {
	store := seededCatalogue()
	svc := newCatalogueService(store)
	ctx := context.Background()

	env := svc.ListTokenPairs(ctx)
	require.Equal(t, http.StatusOK, env.StatusCode)
	assert.Len(t, env.Result, 1)

	env = svc.GetTokenPair(ctx, store.pairs[0].ID.String())
	require.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, store.pairs[0].ID, env.Result.(*entity.TokenPair).ID)

	env = svc.GetTokenPair(ctx, uuid.NewString())
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "Token Pair not found", env.Message)

	env = svc.GetTokenPair(ctx, "pair-1")
	assert.Equal(t, "id must be a valid UUID", env.Message)
}

func TestCatalogue_StoreFailureIsNotLeaked(t *testing.T) {
	svc := newCatalogueService(&fakeCatalogue{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")})

	for _, env := range []response.Envelope{
		svc.ListBlockchains(context.Background()),
		svc.ListTokenPairs(context.Background()),
		svc.GetTokenPair(context.Background(), uuid.NewString()),
	} {
		assert.Equal(t, http.StatusBadRequest, env.StatusCode)
		assert.Equal(t, "Internal Server Error", env.Message)
		assert.NotContains(t, env.Message, "10.0.0.5")
		assert.Nil(t, env.Result)
	}
}
