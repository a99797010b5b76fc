package providers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// NativeProvider formats every row inside PostgreSQL with an assembled meta-query
type NativeProvider struct {
	listColumns  func(ctx context.Context, db *sql.DB, schema, table string) ([]Column, error)
	streamScript func(ctx context.Context, db *sql.DB, query string, emit func(string) error) (int, error)
}

// NewNativeProvider creates a new native provider
func NewNativeProvider() ScriptProvider {
	return &NativeProvider{
		listColumns:  ListColumns,
		streamScript: StreamScript,
	}
}

// Name returns the provider name
func (p *NativeProvider) Name() string {
	return "native"
}

// IsAvailable always returns true for the native provider
func (p *NativeProvider) IsAvailable() bool {
	return true
}

// BuildMetaQuery inspects the table and assembles its meta-query without executing it
func (p *NativeProvider) BuildMetaQuery(ctx context.Context, params GenerateParams) (*MetaQuery, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("native provider requires database connection")
	}

	columns, err := p.listColumns(ctx, params.DB, params.Schema, params.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", params.Table, err)
	}

	query := AssembleMetaQuery(params.Schema, params.Table, columns)
	if len(columns) == 0 {
		return &query, fmt.Errorf("%s.%s: %w", params.Schema, params.Table, ErrNoColumns)
	}
	return &query, nil
}

// GenerateTable executes the table's meta-query and emits every resulting INSERT
func (p *NativeProvider) GenerateTable(ctx context.Context, params GenerateParams, emit func(line string) error) (*MetaQuery, error) {
	query, err := p.BuildMetaQuery(ctx, params)
	if err != nil {
		return query, err
	}

	slog.Debug("executing meta-query", "table", params.Table)
	rows, err := p.streamScript(ctx, params.DB, query.SQL, emit)
	if err != nil {
		return query, fmt.Errorf("failed to generate inserts for %s: %w", params.Table, err)
	}

	slog.Info("generated insert statements", "table", params.Table, "rows", rows)
	return query, nil
}
