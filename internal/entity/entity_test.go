package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenAddressTable_Layout(t *testing.T) {
	require.NoError(t, TokenAddressTable.Validate())

	assert.Equal(t, "token_addresses", TokenAddressTable.Name)
	assert.Equal(t, []string{
		"id", "blockchain", "token_address", "symbol", "contract", "is_active", "created_at", "updated_at",
	}, TokenAddressTable.ColumnNames())
	assert.Equal(t,
		"id, blockchain, token_address, symbol, contract, is_active, created_at, updated_at",
		TokenAddressTable.SelectList())
}

func TestTokenAddressTable_ActiveDefaultsToTrue(t *testing.T) {
	col, ok := TokenAddressTable.Column("is_active")
	require.True(t, ok)

	assert.Equal(t, TypeBoolean, col.Type)
	assert.Equal(t, "true", col.Default)
	assert.False(t, col.Nullable)
}

func TestTokenAddressTable_SystemManagedColumns(t *testing.T) {
	for _, name := range []string{"id", "created_at", "updated_at"} {
		assert.False(t, TokenAddressTable.IsWritable(name), name)
	}
	for _, name := range []string{"blockchain", "token_address", "symbol", "contract", "is_active"} {
		assert.True(t, TokenAddressTable.IsWritable(name), name)
	}
	assert.False(t, TokenAddressTable.IsWritable("missing"))
	assert.Len(t, TokenAddressTable.Writable(), 5)
}

func TestColumn_SQLType(t *testing.T) {
	symbol, _ := TokenAddressTable.Column("symbol")
	assert.Equal(t, "varchar(20)", symbol.SQLType())

	id, _ := TokenAddressTable.Column("id")
	assert.Equal(t, "uuid", id.SQLType())
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{name: "no name", table: Table{Columns: UUIDPrimaryKeyColumns()}},
		{name: "no columns", table: Table{Name: "t"}},
		{name: "no primary key", table: Table{Name: "t", Columns: DateColumns()}},
		{name: "duplicate column", table: Table{Name: "t", Columns: append(UUIDPrimaryKeyColumns(), UUIDPrimaryKeyColumns()...)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.table.Validate())
		})
	}
}

func TestBlockchain(t *testing.T) {
	assert.True(t, BlockchainEthereum.Valid())
	assert.True(t, BlockchainCardano.Valid())
	assert.False(t, Blockchain("BITCOIN").Valid())
	assert.Equal(t, "ETHEREUM CARDANO", BlockchainOneOf())
}

func TestAll(t *testing.T) {
	tables := All()
	require.NotEmpty(t, tables)
	for _, table := range tables {
		assert.NoError(t, table.Validate(), table.Name)
	}
}
