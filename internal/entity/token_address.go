package entity

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Blockchain is the network a token address lives on.
type Blockchain string

const (
	BlockchainEthereum Blockchain = "ETHEREUM"
	BlockchainCardano  Blockchain = "CARDANO"
)

// Blockchains lists every supported network.
func Blockchains() []Blockchain {
	return []Blockchain{BlockchainEthereum, BlockchainCardano}
}

// Valid reports whether b is a supported network.
func (b Blockchain) Valid() bool {
	return slices.Contains(Blockchains(), b)
}

// BlockchainOneOf renders the networks as a validator "oneof" parameter.
func BlockchainOneOf() string {
	names := make([]string, 0, len(Blockchains()))
	for _, b := range Blockchains() {
		names = append(names, string(b))
	}
	return strings.Join(names, " ")
}

// DateEntity carries the audit timestamps.
type DateEntity struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UUIDPrimaryKey is embedded by uuid keyed entities.
type UUIDPrimaryKey struct {
	ID uuid.UUID `json:"id" db:"id"`
	DateEntity
}

// TokenAddress is a token contract registered for a blockchain.
type TokenAddress struct {
	UUIDPrimaryKey
	Blockchain   Blockchain `json:"blockchain" db:"blockchain"`
	TokenAddress string     `json:"token_address" db:"token_address"`
	Symbol       string     `json:"symbol" db:"symbol"`
	Contract     string     `json:"contract" db:"contract"`
	IsActive     bool       `json:"is_active" db:"is_active"`
}

// Column bounds, shared with the validation schemas.
const (
	BlockchainMaxLength   = 40
	TokenAddressMaxLength = 60
	SymbolMaxLength       = 20
	ContractMaxLength     = 60
)

// TokenAddressTable describes token_addresses.
// Column order must match scan order in the token address repository.
var TokenAddressTable = Table{
	Name: "token_addresses",
	Columns: slices.Concat(
		UUIDPrimaryKeyColumns(),
		[]Column{
			{Name: "blockchain", Type: TypeVarchar, Length: BlockchainMaxLength},
			{Name: "token_address", Type: TypeVarchar, Length: TokenAddressMaxLength},
			{Name: "symbol", Type: TypeVarchar, Length: SymbolMaxLength},
			{Name: "contract", Type: TypeVarchar, Length: ContractMaxLength},
			{Name: "is_active", Type: TypeBoolean, Default: "true"},
		},
		DateColumns(),
	),
}
