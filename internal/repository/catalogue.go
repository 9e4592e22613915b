package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/singnet/snet-converter-services/internal/database"
	"github.com/singnet/snet-converter-services/internal/entity"
	"github.com/singnet/snet-converter-services/internal/sqlerr"
)

// CatalogueRepository reads the networks, tokens and token pairs the
// converter supports. The catalogue is seeded outside the service, so
// there are no write methods.
type CatalogueRepository struct {
	db database.Querier
}

func NewCatalogueRepository(db database.Querier) *CatalogueRepository {
	return &CatalogueRepository{db: db}
}

// ListNetworks returns every network, those with an extension first, then
// by name.
func (r *CatalogueRepository) ListNetworks(ctx context.Context) ([]entity.Network, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY is_extension_available DESC, name ASC",
		entity.NetworkTable.SelectList(),
		entity.NetworkTable.Name,
	)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list blockchains: %w", err)
	}
	defer rows.Close()

	networks := make([]entity.Network, 0)
	for rows.Next() {
		network, err := scanNetwork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blockchain: %w", err)
		}
		networks = append(networks, *network)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list blockchains: %w", err)
	}

	return networks, nil
}

// GetNetworkByName matches the name case-insensitively.
func (r *CatalogueRepository) GetNetworkByName(ctx context.Context, name string) (*entity.Network, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE lower(name) = lower($1)",
		entity.NetworkTable.SelectList(),
		entity.NetworkTable.Name,
	)

	network, err := scanNetwork(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, wrapNotFound("failed to get blockchain", entity.NetworkTable.Name, err)
	}
	return network, nil
}

// ListTokenPairs returns the enabled token pairs, oldest first, with both
// tokens and the conversion fee resolved.
func (r *CatalogueRepository) ListTokenPairs(ctx context.Context) ([]entity.TokenPair, error) {
	rows, err := r.db.Query(ctx, tokenPairQuery+" ORDER BY tp.created_at, tp.id")
	if err != nil {
		return nil, fmt.Errorf("failed to list token pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]entity.TokenPair, 0)
	for rows.Next() {
		pair, err := scanTokenPair(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token pair: %w", err)
		}
		pairs = append(pairs, *pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list token pairs: %w", err)
	}

	return pairs, nil
}

// GetTokenPair returns an enabled token pair. A disabled pair is reported
// as not found.
func (r *CatalogueRepository) GetTokenPair(ctx context.Context, id uuid.UUID) (*entity.TokenPair, error) {
	pair, err := scanTokenPair(r.db.QueryRow(ctx, tokenPairQuery+" AND tp.id = $1", id))
	if err != nil {
		return nil, wrapNotFound("failed to get token pair", entity.TokenPairTable.Name, err)
	}
	return pair, nil
}

// tokenColumns selects a token and its network under the given aliases.
func tokenColumns(token, network string) string {
	columns := []string{
		"id", "name", "description", "symbol", "logo", "allowed_decimal",
		"token_address", "contract_address", "created_at", "updated_at",
	}
	for i, c := range columns {
		columns[i] = token + "." + c
	}
	return strings.Join(append(columns,
		network+".id", network+".name", network+".symbol", network+".chain_id",
	), ", ")
}

// trim_scale drops trailing zeros so 10.500 is reported as "10.5".
var tokenPairQuery = fmt.Sprintf(`
	SELECT
		tp.id, trim_scale(tp.min_value)::text, trim_scale(tp.max_value)::text,
		tp.contract_address, tp.is_enabled, tp.created_at, tp.updated_at,
		%s,
		%s,
		cf.id, trim_scale(cf.percentage_from_source)::text, cf.updated_at
	FROM token_pairs tp
	JOIN tokens ft ON ft.id = tp.from_token_id
	JOIN blockchains fb ON fb.id = ft.blockchain_id
	JOIN tokens tt ON tt.id = tp.to_token_id
	JOIN blockchains tb ON tb.id = tt.blockchain_id
	LEFT JOIN conversion_fees cf ON cf.id = tp.conversion_fee_id
	WHERE tp.is_enabled`,
	tokenColumns("ft", "fb"),
	tokenColumns("tt", "tb"),
)

func wrapNotFound(message, table string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", message, sqlerr.NotFound(table))
	}
	return fmt.Errorf("%s: %w", message, err)
}

// scanNetwork reads one row in entity.NetworkTable column order.
func scanNetwork(row pgx.Row) (*entity.Network, error) {
	var (
		n       entity.Network
		chainID string
	)

	err := row.Scan(
		&n.ID,
		&n.Name,
		&n.Description,
		&n.Symbol,
		&n.Logo,
		&chainID,
		&n.BlockConfirmation,
		&n.IsExtensionAvailable,
		&n.CreatedBy,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.ChainIDs = splitChainIDs(chainID)
	return &n, nil
}

func scanTokenPair(row pgx.Row) (*entity.TokenPair, error) {
	var (
		p             entity.TokenPair
		fromChain     string
		toChain       string
		feeID         *uuid.UUID
		feePercentage *string
		feeUpdatedAt  *time.Time
	)

	err := row.Scan(
		&p.ID, &p.MinValue, &p.MaxValue,
		&p.ContractAddress, &p.IsEnabled, &p.CreatedAt, &p.UpdatedAt,

		&p.FromToken.ID, &p.FromToken.Name, &p.FromToken.Description, &p.FromToken.Symbol,
		&p.FromToken.Logo, &p.FromToken.AllowedDecimal, &p.FromToken.TokenAddress,
		&p.FromToken.ContractAddress, &p.FromToken.CreatedAt, &p.FromToken.UpdatedAt,
		&p.FromToken.Blockchain.ID, &p.FromToken.Blockchain.Name, &p.FromToken.Blockchain.Symbol, &fromChain,

		&p.ToToken.ID, &p.ToToken.Name, &p.ToToken.Description, &p.ToToken.Symbol,
		&p.ToToken.Logo, &p.ToToken.AllowedDecimal, &p.ToToken.TokenAddress,
		&p.ToToken.ContractAddress, &p.ToToken.CreatedAt, &p.ToToken.UpdatedAt,
		&p.ToToken.Blockchain.ID, &p.ToToken.Blockchain.Name, &p.ToToken.Blockchain.Symbol, &toChain,

		&feeID, &feePercentage, &feeUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.FromToken.Blockchain.ChainIDs = splitChainIDs(fromChain)
	p.ToToken.Blockchain.ChainIDs = splitChainIDs(toChain)

	if feeID != nil {
		p.ConversionFee = &entity.ConversionFee{ID: *feeID}
		if feePercentage != nil {
			p.ConversionFee.PercentageFromSource = *feePercentage
		}
		if feeUpdatedAt != nil {
			p.ConversionFee.UpdatedAt = *feeUpdatedAt
		}
	}

	return &p, nil
}

// splitChainIDs turns "1, 42" into ["1", "42"].
func splitChainIDs(raw string) []string {
	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
