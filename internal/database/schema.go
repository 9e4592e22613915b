package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const columnsQuery = `
	SELECT column_name
	FROM information_schema.columns
	WHERE table_schema = current_schema() AND table_name = $1`

// VerifySchema checks that every registered entity column exists in the
// database. It reads the catalog only; missing columns are reported, never
// created.
func (c *Connection) VerifySchema(ctx context.Context) error {
	var problems []string

	for _, table := range c.entities {
		existing, err := c.tableColumns(ctx, table.Name)
		if err != nil {
			return err
		}

		if len(existing) == 0 {
			problems = append(problems, fmt.Sprintf("table %s is missing", table.Name))
			continue
		}

		for _, name := range table.ColumnNames() {
			if _, ok := existing[name]; !ok {
				problems = append(problems, fmt.Sprintf("column %s.%s is missing", table.Name, name))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("schema does not match entities: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Connection) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := c.Query(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	return columns, nil
}
