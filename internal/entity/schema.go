// Package entity describes the persisted tables.
//
// Each table is declared as data (Table and Column values) instead of
// struct tags, so the connection manager, the repositories and the schema
// check all read the same description without reflection.
package entity

import (
	"fmt"
	"strings"
)

// ColumnType is the SQL type family of a column.
type ColumnType string

const (
	TypeUUID      ColumnType = "uuid"
	TypeVarchar   ColumnType = "varchar"
	TypeBoolean   ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp"
	TypeText      ColumnType = "text"
	TypeInteger   ColumnType = "integer"
	TypeNumeric   ColumnType = "numeric"
)

// Column describes one table column.
type Column struct {
	Name     string
	Type     ColumnType
	Length   int // varchar bound; 0 means unbounded
	Nullable bool

	// Default is the SQL default expression, empty when there is none.
	Default string

	PrimaryKey bool

	// Generated columns are filled by the database and never written by
	// the application (ids, timestamps).
	Generated bool
}

// SQLType renders the column type as it appears in DDL.
func (c Column) SQLType() string {
	if c.Type == TypeVarchar && c.Length > 0 {
		return fmt.Sprintf("varchar(%d)", c.Length)
	}
	return string(c.Type)
}

// Table describes one persisted table. Column order is significant: it is
// the order used in SELECT lists and therefore in row scanning.
type Table struct {
	Name    string
	Columns []Column
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns every column name in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// SelectList returns the comma separated column list for SELECT/RETURNING.
func (t Table) SelectList() string {
	return strings.Join(t.ColumnNames(), ", ")
}

// Writable returns the columns the application may write.
func (t Table) Writable() []Column {
	var cols []Column
	for _, c := range t.Columns {
		if !c.Generated {
			cols = append(cols, c)
		}
	}
	return cols
}

// IsWritable reports whether the named column exists and is not generated.
func (t Table) IsWritable(name string) bool {
	c, ok := t.Column(name)
	return ok && !c.Generated
}

// Validate checks the description itself: a name, at least one column,
// exactly one primary key and no duplicate column names.
func (t Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("entity: table name is required")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("entity: table %s has no columns", t.Name)
	}

	seen := make(map[string]bool, len(t.Columns))
	primaryKeys := 0
	for _, c := range t.Columns {
		if seen[c.Name] {
			return fmt.Errorf("entity: table %s declares column %s twice", t.Name, c.Name)
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			primaryKeys++
		}
	}
	if primaryKeys != 1 {
		return fmt.Errorf("entity: table %s must have exactly one primary key, has %d", t.Name, primaryKeys)
	}
	return nil
}

// UUIDPrimaryKeyColumns is the id column shared by uuid keyed tables.
func UUIDPrimaryKeyColumns() []Column {
	return []Column{
		{Name: "id", Type: TypeUUID, Default: "gen_random_uuid()", PrimaryKey: true, Generated: true},
	}
}

// DateColumns are the audit timestamps shared by every table. Both are set
// by the database; updated_at is bumped by the repositories on every update.
func DateColumns() []Column {
	return []Column{
		{Name: "created_at", Type: TypeTimestamp, Default: "now()", Generated: true},
		{Name: "updated_at", Type: TypeTimestamp, Default: "now()", Generated: true},
	}
}

// All returns the complete set of tables registered with the connection
// manager.
func All() []Table {
	return []Table{
		TokenAddressTable,
		NetworkTable,
		TokenTable,
		ConversionFeeTable,
		TokenPairTable,
	}
}
