package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

/*
	The catalogue is the read side of the converter: which networks are
	supported, which tokens live on them and which token pairs can be
	converted. Rows are seeded by operators through migrations or SQL and
	are only read by the service.

	blockchains <- tokens <- token_pairs (from_token_id, to_token_id)
	                      <- conversion_fees (token_id)
	token_pairs -> conversion_fees (conversion_fee_id, optional)
*/

// Catalogue column bounds.
const (
	NetworkNameMaxLength     = 50
	NetworkSymbolMaxLength   = 30
	ChainIDMaxLength         = 50
	LogoMaxLength            = 250
	CreatedByMaxLength       = 50
	TokenNameMaxLength       = 50
	TokenSymbolMaxLength     = 30
	ContractAddressMaxLength = 250
)

// Network is a supported blockchain as listed by the catalogue. It is keyed
// by name ("Ethereum", "Cardano"); Blockchain is the enum used by token
// addresses.
type Network struct {
	UUIDPrimaryKey
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Symbol               string   `json:"symbol"`
	Logo                 string   `json:"logo"`
	ChainIDs             []string `json:"chain_id"`
	BlockConfirmation    int      `json:"block_confirmation"`
	IsExtensionAvailable bool     `json:"is_extension_available"`
	CreatedBy            string   `json:"created_by"`
}

// NetworkRef is the short network form embedded in tokens.
type NetworkRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Symbol   string    `json:"symbol"`
	ChainIDs []string  `json:"chain_id"`
}

// Token is a convertible asset on one network.
type Token struct {
	UUIDPrimaryKey
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Symbol          string     `json:"symbol"`
	Logo            *string    `json:"logo"`
	AllowedDecimal  *int       `json:"allowed_decimal"`
	TokenAddress    string     `json:"token_address"`
	ContractAddress string     `json:"contract_address"`
	Blockchain      NetworkRef `json:"blockchain"`
}

// ConversionFee is charged on a token pair. Amounts are decimal strings so
// no precision is lost between Postgres numeric and JSON.
type ConversionFee struct {
	ID                   uuid.UUID `json:"id"`
	PercentageFromSource string    `json:"percentage_from_source"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TokenPair is an enabled conversion route between two tokens.
type TokenPair struct {
	UUIDPrimaryKey
	MinValue        string         `json:"min_value"`
	MaxValue        string         `json:"max_value"`
	ContractAddress string         `json:"contract_address"`
	IsEnabled       bool           `json:"is_enabled"`
	FromToken       Token          `json:"from_token"`
	ToToken         Token          `json:"to_token"`
	ConversionFee   *ConversionFee `json:"conversion_fee"`
}

func createdByColumn() Column {
	return Column{Name: "created_by", Type: TypeVarchar, Length: CreatedByMaxLength}
}

// NetworkTable describes blockchains. chain_id holds a comma separated list
// of network ids ("1,42").
var NetworkTable = Table{
	Name: "blockchains",
	Columns: slices.Concat(
		UUIDPrimaryKeyColumns(),
		[]Column{
			{Name: "name", Type: TypeVarchar, Length: NetworkNameMaxLength},
			{Name: "description", Type: TypeText},
			{Name: "symbol", Type: TypeVarchar, Length: NetworkSymbolMaxLength},
			{Name: "logo", Type: TypeVarchar, Length: LogoMaxLength},
			{Name: "chain_id", Type: TypeVarchar, Length: ChainIDMaxLength},
			{Name: "block_confirmation", Type: TypeInteger},
			{Name: "is_extension_available", Type: TypeBoolean, Default: "true"},
			createdByColumn(),
		},
		DateColumns(),
	),
}

// TokenTable describes tokens.
var TokenTable = Table{
	Name: "tokens",
	Columns: slices.Concat(
		UUIDPrimaryKeyColumns(),
		[]Column{
			{Name: "blockchain_id", Type: TypeUUID},
			{Name: "name", Type: TypeVarchar, Length: TokenNameMaxLength},
			{Name: "description", Type: TypeText},
			{Name: "symbol", Type: TypeVarchar, Length: TokenSymbolMaxLength},
			{Name: "logo", Type: TypeVarchar, Length: LogoMaxLength, Nullable: true},
			{Name: "allowed_decimal", Type: TypeInteger, Nullable: true},
			{Name: "token_address", Type: TypeVarchar, Length: ContractAddressMaxLength},
			{Name: "contract_address", Type: TypeVarchar, Length: ContractAddressMaxLength},
			createdByColumn(),
		},
		DateColumns(),
	),
}

// ConversionFeeTable describes conversion_fees.
var ConversionFeeTable = Table{
	Name: "conversion_fees",
	Columns: slices.Concat(
		UUIDPrimaryKeyColumns(),
		[]Column{
			{Name: "percentage_from_source", Type: TypeNumeric},
			{Name: "token_id", Type: TypeUUID, Nullable: true},
			createdByColumn(),
		},
		DateColumns(),
	),
}

// TokenPairTable describes token_pairs. Only rows with is_enabled are
// exposed.
var TokenPairTable = Table{
	Name: "token_pairs",
	Columns: slices.Concat(
		UUIDPrimaryKeyColumns(),
		[]Column{
			{Name: "from_token_id", Type: TypeUUID},
			{Name: "to_token_id", Type: TypeUUID},
			{Name: "conversion_fee_id", Type: TypeUUID, Nullable: true},
			{Name: "is_enabled", Type: TypeBoolean, Default: "true"},
			{Name: "min_value", Type: TypeNumeric},
			{Name: "max_value", Type: TypeNumeric},
			{Name: "contract_address", Type: TypeVarchar, Length: ContractAddressMaxLength},
			createdByColumn(),
		},
		DateColumns(),
	),
}
