package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/entity"
	"github.com/singnet/snet-converter-services/internal/errs"
	"github.com/singnet/snet-converter-services/internal/repository"
	"github.com/singnet/snet-converter-services/internal/response"
	"github.com/singnet/snet-converter-services/internal/sqlerr"
	"github.com/singnet/snet-converter-services/internal/validation"
)

// TokenAddressStore is the persistence the service needs.
// *repository.TokenAddressRepository satisfies it.
type TokenAddressStore interface {
	Create(ctx context.Context, in repository.CreateTokenAddress) (*entity.TokenAddress, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TokenAddress, error)
	List(ctx context.Context, filter repository.TokenAddressFilter) ([]entity.TokenAddress, error)
	Update(ctx context.Context, id uuid.UUID, in repository.UpdateTokenAddress) (*entity.TokenAddress, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*entity.TokenAddress, error)
}

func tokenAddressFields(required bool) []validation.Field {
	text := func(name string, maxLength int) validation.Field {
		return validation.Field{
			Name:     name,
			Required: required,
			Rules: []validation.Rule{
				{Tag: validation.TagString},
				{Tag: "min=1"},
				{Tag: fmt.Sprintf("max=%d", maxLength)},
			},
		}
	}

	return []validation.Field{
		{
			Name:     "blockchain",
			Required: required,
			Rules: []validation.Rule{
				{Tag: validation.TagString},
				{Tag: "oneof=" + entity.BlockchainOneOf()},
			},
		},
		text("token_address", entity.TokenAddressMaxLength),
		text("symbol", entity.SymbolMaxLength),
		text("contract", entity.ContractMaxLength),
		{
			Name:  "is_active",
			Rules: []validation.Rule{{Tag: validation.TagBoolean}},
		},
	}
}

var (
	createTokenAddressSchema = validation.Schema{Fields: tokenAddressFields(true)}
	updateTokenAddressSchema = validation.Schema{Fields: tokenAddressFields(false)}
)

// ListTokenAddressesRequest holds the list query parameters.
type ListTokenAddressesRequest struct {
	Blockchain string `query:"blockchain" validate:"omitempty,oneof=ETHEREUM CARDANO"`
	IsActive   *bool  `query:"is_active"`
	Limit      int    `query:"limit" validate:"min=0,max=100"`
	Offset     int    `query:"offset" validate:"min=0"`
}

func (r *ListTokenAddressesRequest) Validate() error {
	return validation.ValidateStruct(r).Err()
}

type TokenAddressService struct {
	store  TokenAddressStore
	logger *zerolog.Logger
}

func NewTokenAddressService(store TokenAddressStore, logger *zerolog.Logger) *TokenAddressService {
	return &TokenAddressService{store: store, logger: logger}
}

// Create validates a JSON payload and stores it. is_active defaults to
// true when omitted.
func (s *TokenAddressService) Create(ctx context.Context, payload []byte) response.Envelope {
	var in repository.CreateTokenAddress
	if result := validation.DecodeAndValidate(createTokenAddressSchema, payload, &in); !result.OK() {
		return invalid(result)
	}

	created, err := s.store.Create(ctx, in)
	if err != nil {
		return s.failure("create token address", err)
	}
	return response.OK(created)
}

func (s *TokenAddressService) Get(ctx context.Context, id string) response.Envelope {
	tokenID, env, ok := parseID(id)
	if !ok {
		return env
	}

	tokenAddress, err := s.store.GetByID(ctx, tokenID)
	if err != nil {
		return s.failure("get token address", err)
	}
	return response.OK(tokenAddress)
}

func (s *TokenAddressService) List(ctx context.Context, req *ListTokenAddressesRequest) response.Envelope {
	if result := validation.ValidateStruct(req); !result.OK() {
		return invalid(result)
	}

	tokenAddresses, err := s.store.List(ctx, repository.TokenAddressFilter{
		Blockchain: entity.Blockchain(req.Blockchain),
		IsActive:   req.IsActive,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return s.failure("list token addresses", err)
	}
	return response.OK(tokenAddresses)
}

// Update applies a partial JSON payload. Absent fields are unchanged.
func (s *TokenAddressService) Update(ctx context.Context, id string, payload []byte) response.Envelope {
	tokenID, env, ok := parseID(id)
	if !ok {
		return env
	}

	var in repository.UpdateTokenAddress
	if result := validation.DecodeAndValidate(updateTokenAddressSchema, payload, &in); !result.OK() {
		return invalid(result)
	}

	updated, err := s.store.Update(ctx, tokenID, in)
	if err != nil {
		return s.failure("update token address", err)
	}
	return response.OK(updated)
}

// Deactivate soft-deletes a token address.
func (s *TokenAddressService) Deactivate(ctx context.Context, id string) response.Envelope {
	tokenID, env, ok := parseID(id)
	if !ok {
		return env
	}

	deactivated, err := s.store.Deactivate(ctx, tokenID)
	if err != nil {
		return s.failure("deactivate token address", err)
	}
	return response.OK(deactivated)
}

// failure logs the cause and formats the error. Server-side failures are
// logged at error level, client errors at debug.
func (s *TokenAddressService) failure(operation string, err error) response.Envelope {
	return failure(s.logger, operation, err)
}

// failure logs err and turns it into an envelope. Server-side faults are
// logged at error level; caller mistakes (not found, constraint
// violations) only at debug.
func failure(logger *zerolog.Logger, operation string, err error) response.Envelope {
	var httpErr *errs.HTTPError
	if errors.As(sqlerr.HandleError(err), &httpErr) && httpErr.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("operation", operation).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("operation", operation).Msg("request failed")
	}
	return response.FromError(err)
}

func invalid(result validation.Result) response.Envelope {
	first, _ := result.First()
	return response.Failure(first.Message)
}

func parseID(id string) (uuid.UUID, response.Envelope, bool) {
	if !validation.IsValidUUID(id) {
		return uuid.Nil, response.Failure("id must be a valid UUID"), false
	}
	return uuid.MustParse(id), response.Envelope{}, true
}
