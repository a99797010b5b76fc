package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

const columnsQuery = `
		SELECT
			column_name,
			data_type,
			udt_name,
			is_nullable = 'YES' AS is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

// ListColumns returns the columns of schema.table in physical order. A table
// that does not exist yields an empty slice, not an error.
func ListColumns(ctx context.Context, db *sql.DB, schema, table string) ([]Column, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, columnsQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.UDTName, &col.IsNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s.%s: %w", schema, table, err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s.%s: %w", schema, table, err)
	}

	slog.Debug("found table columns", "schema", schema, "table", table, "count", len(columns))
	return columns, nil
}

// StreamScript executes a meta-query and hands every script row to emit.
func StreamScript(ctx context.Context, db *sql.DB, query string, emit func(line string) error) (int, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to execute meta-query: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var script string
		if err := rows.Scan(&script); err != nil {
			return count, fmt.Errorf("failed to scan script row: %w", err)
		}
		if err := emit(script); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to read script rows: %w", err)
	}
	return count, nil
}
