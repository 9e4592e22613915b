package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/singnet/snet-converter-services/internal/database"
	"github.com/singnet/snet-converter-services/internal/entity"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// CreateTokenAddress is the insert payload. A nil IsActive leaves the
// column default (true) in charge.
type CreateTokenAddress struct {
	Blockchain   entity.Blockchain `json:"blockchain"`
	TokenAddress string            `json:"token_address"`
	Symbol       string            `json:"symbol"`
	Contract     string            `json:"contract"`
	IsActive     *bool             `json:"is_active"`
}

// UpdateTokenAddress is a partial update; nil fields are left unchanged.
type UpdateTokenAddress struct {
	Blockchain   *entity.Blockchain `json:"blockchain"`
	TokenAddress *string            `json:"token_address"`
	Symbol       *string            `json:"symbol"`
	Contract     *string            `json:"contract"`
	IsActive     *bool              `json:"is_active"`
}

// IsEmpty reports whether the update changes nothing.
func (u UpdateTokenAddress) IsEmpty() bool {
	return u.Blockchain == nil && u.TokenAddress == nil && u.Symbol == nil && u.Contract == nil && u.IsActive == nil
}

// TokenAddressFilter narrows List. Zero values mean "no filter"; Limit is
// clamped to [1, MaxListLimit] with DefaultListLimit for zero.
type TokenAddressFilter struct {
	Blockchain entity.Blockchain
	IsActive   *bool
	Limit      int
	Offset     int
}

type TokenAddressRepository struct {
	db    database.Querier
	table entity.Table
}

func NewTokenAddressRepository(db database.Querier) *TokenAddressRepository {
	return &TokenAddressRepository{
		db:    db,
		table: entity.TokenAddressTable,
	}
}

// Create inserts a token address and returns the stored row, including
// the database-generated id and timestamps.
func (r *TokenAddressRepository) Create(ctx context.Context, in CreateTokenAddress) (*entity.TokenAddress, error) {
	columns := []string{"blockchain", "token_address", "symbol", "contract"}
	args := []any{string(in.Blockchain), in.TokenAddress, in.Symbol, in.Contract}

	if in.IsActive != nil {
		columns = append(columns, "is_active")
		args = append(args, *in.IsActive)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table.Name,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		r.table.SelectList(),
	)

	tokenAddress, err := scanTokenAddress(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create token address: %w", err)
	}
	return tokenAddress, nil
}

// GetByID returns the row or a not-found error for the table.
func (r *TokenAddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TokenAddress, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.table.SelectList(), r.table.Name)

	tokenAddress, err := scanTokenAddress(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.wrap("failed to get token address", err)
	}
	return tokenAddress, nil
}

// List returns token addresses newest first.
func (r *TokenAddressRepository) List(ctx context.Context, filter TokenAddressFilter) ([]entity.TokenAddress, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Blockchain != "" {
		args = append(args, string(filter.Blockchain))
		conditions = append(conditions, fmt.Sprintf("blockchain = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", r.table.SelectList(), r.table.Name)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list token addresses: %w", err)
	}
	defer rows.Close()

	tokenAddresses := make([]entity.TokenAddress, 0)
	for rows.Next() {
		tokenAddress, err := scanTokenAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token address: %w", err)
		}
		tokenAddresses = append(tokenAddresses, *tokenAddress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list token addresses: %w", err)
	}

	return tokenAddresses, nil
}

// Update applies the non-nil fields and bumps updated_at. The id and
// created_at are never written. An empty update returns the current row.
func (r *TokenAddressRepository) Update(ctx context.Context, id uuid.UUID, in UpdateTokenAddress) (*entity.TokenAddress, error) {
	if in.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Blockchain != nil {
		set("blockchain", string(*in.Blockchain))
	}
	if in.TokenAddress != nil {
		set("token_address", *in.TokenAddress)
	}
	if in.Symbol != nil {
		set("symbol", *in.Symbol)
	}
	if in.Contract != nil {
		set("contract", *in.Contract)
	}
	if in.IsActive != nil {
		set("is_active", *in.IsActive)
	}

	return r.update(ctx, id, sets, args, "failed to update token address")
}

// Deactivate clears is_active. Rows are never hard deleted.
func (r *TokenAddressRepository) Deactivate(ctx context.Context, id uuid.UUID) (*entity.TokenAddress, error) {
	return r.update(ctx, id, []string{"is_active = $1"}, []any{false}, "failed to deactivate token address")
}

func (r *TokenAddressRepository) update(ctx context.Context, id uuid.UUID, sets []string, args []any, message string) (*entity.TokenAddress, error) {
	// updated_at never moves backwards, even if the clock does.
	sets = append(sets, "updated_at = GREATEST(updated_at, now())")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		r.table.Name,
		strings.Join(sets, ", "),
		len(args),
		r.table.SelectList(),
	)

	tokenAddress, err := scanTokenAddress(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, r.wrap(message, err)
	}
	return tokenAddress, nil
}

// wrap tags no-rows errors with the table so they surface as
// "Token Address not found".
func (r *TokenAddressRepository) wrap(message string, err error) error {
	return wrapNotFound(message, r.table.Name, err)
}

// scanTokenAddress reads one row in entity.TokenAddressTable column order.
func scanTokenAddress(row pgx.Row) (*entity.TokenAddress, error) {
	var (
		t          entity.TokenAddress
		blockchain string
	)

	err := row.Scan(
		&t.ID,
		&blockchain,
		&t.TokenAddress,
		&t.Symbol,
		&t.Contract,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Blockchain = entity.Blockchain(blockchain)
	return &t, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
