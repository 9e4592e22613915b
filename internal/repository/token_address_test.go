package repository

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/snet-converter-services/internal/database"
	"github.com/singnet/snet-converter-services/internal/database/dbtest"
	"github.com/singnet/snet-converter-services/internal/entity"
	"github.com/singnet/snet-converter-services/internal/errs"
	"github.com/singnet/snet-converter-services/internal/sqlerr"
)

var testManager *database.Manager

func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	pg, err := dbtest.Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger := zerolog.Nop()
	cfg := pg.Config()
	if err := database.Migrate(ctx, &logger, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		_ = pg.Terminate(ctx)
		os.Exit(1)
	}

	testManager = database.NewManager(cfg, &logger)

	code := m.Run()

	_ = testManager.Close()
	if err := pg.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
	}
	os.Exit(code)
}

// setupTestRepo returns a repository and registers cleanup to truncate tables
func setupTestRepo(t *testing.T) *TokenAddressRepository {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Cleanup(func() {
		_, err := testManager.Querier().Exec(context.Background(), "TRUNCATE token_addresses")
		if err != nil {
			t.Logf("Failed to truncate tables: %v", err)
		}
	})

	return NewTokenAddressRepository(testManager.Querier())
}

func newTokenAddress() CreateTokenAddress {
	return CreateTokenAddress{
		Blockchain:   entity.BlockchainEthereum,
		TokenAddress: "0x5B7533812759B45C2B44C19e320ba2cD2681b542",
		Symbol:       "AGIX",
		Contract:     "0x6e9De0CE2fC8C1A5E0B4E8d3E4c9B0f5b1a2c3d4",
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestTokenAddressRepository_CreateDefaultsToActive(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTokenAddress())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.Equal(t, created.ID, stored.ID)
	assert.Equal(t, entity.BlockchainEthereum, stored.Blockchain)
}

func TestTokenAddressRepository_CreateExplicitlyInactive(t *testing.T) {
	repo := setupTestRepo(t)

	in := newTokenAddress()
	in.IsActive = ptr(false)

	created, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created.IsActive)
}

func TestTokenAddressRepository_CreateRejectsUnknownBlockchain(t *testing.T) {
	repo := setupTestRepo(t)

	in := newTokenAddress()
	in.Blockchain = "BITCOIN"

	_, err := repo.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, sqlerr.CheckViolation, sqlerr.ErrCode(err))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, sqlerr.HandleError(err), &httpErr)
	assert.Equal(t, "The Blockchain value does not meet required conditions", httpErr.Message)
}

func TestTokenAddressRepository_CreateRejectsTooLongSymbol(t *testing.T) {
	repo := setupTestRepo(t)

	in := newTokenAddress()
	in.Symbol = "THIS_SYMBOL_IS_WAY_TOO_LONG"

	_, err := repo.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, sqlerr.StringTooLong, sqlerr.ErrCode(err))
}

func TestTokenAddressRepository_GetByIDNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, sqlerr.HandleError(err), &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Token Address not found", httpErr.Message)
}

func TestTokenAddressRepository_List(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	eth, err := repo.Create(ctx, newTokenAddress())
	require.NoError(t, err)

	ada := newTokenAddress()
	ada.Blockchain = entity.BlockchainCardano
	ada.Symbol = "AGIX.ADA"
	ada.IsActive = ptr(false)
	_, err = repo.Create(ctx, ada)
	require.NoError(t, err)

	all, err := repo.List(ctx, TokenAddressFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyEthereum, err := repo.List(ctx, TokenAddressFilter{Blockchain: entity.BlockchainEthereum})
	require.NoError(t, err)
	require.Len(t, onlyEthereum, 1)
	assert.Equal(t, eth.ID, onlyEthereum[0].ID)

	onlyActive, err := repo.List(ctx, TokenAddressFilter{IsActive: ptr(true)})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, eth.ID, onlyActive[0].ID)

	page, err := repo.List(ctx, TokenAddressFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	none, err := repo.List(ctx, TokenAddressFilter{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTokenAddressRepository_UpdateKeepsIdentityAndBumpsUpdatedAt(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTokenAddress())
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, UpdateTokenAddress{Symbol: ptr("AGIX2")})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "AGIX2", updated.Symbol)
	assert.Equal(t, created.TokenAddress, updated.TokenAddress)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestTokenAddressRepository_EmptyUpdateReturnsCurrentRow(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTokenAddress())
	require.NoError(t, err)

	same, err := repo.Update(ctx, created.ID, UpdateTokenAddress{})
	require.NoError(t, err)
	assert.Equal(t, created.Symbol, same.Symbol)
}

func TestTokenAddressRepository_UpdateNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Update(context.Background(), uuid.New(), UpdateTokenAddress{Symbol: ptr("X")})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, sqlerr.HandleError(err), &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestTokenAddressRepository_Deactivate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTokenAddress())
	require.NoError(t, err)

	deactivated, err := repo.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, DefaultListLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxListLimit, clampLimit(MaxListLimit+1))
}

func TestUpdateTokenAddress_IsEmpty(t *testing.T) {
	assert.True(t, UpdateTokenAddress{}.IsEmpty())
	assert.False(t, UpdateTokenAddress{IsActive: ptr(false)}.IsEmpty())
}
