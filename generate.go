package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alc6/pgpopulate/providers"
)

const timestampLayout = "2006-01-02 15:04:05"

// generateOptions describes one generation run
type generateOptions struct {
	Schema      string
	Tables      []string
	InsertsPath string
	QueriesPath string

	// Echo receives a copy of the primary output when set
	Echo io.Writer
	Now  func() time.Time
}

func (o generateOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// runGenerate connects, writes the INSERT script for every configured table
// and then the recipe file holding the queries that produced it.
func runGenerate(ctx context.Context, opts generateOptions, dbManager DatabaseManager, provider providers.ScriptProvider) error {
	slog.Info("generating insert statements", "provider", provider.Name(), "schema", opts.Schema, "tables", len(opts.Tables))

	if err := dbManager.Setup(ctx); err != nil {
		return DBConnectError("failed to connect to database", err)
	}
	defer func() {
		if err := dbManager.Close(ctx); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	generatedAt := opts.now()

	file, err := os.Create(opts.InsertsPath)
	if err != nil {
		return GeneralError("failed to create output file", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	var w io.Writer = buf
	if opts.Echo != nil {
		w = io.MultiWriter(buf, opts.Echo)
	}

	if err := writeInsertsHeader(w, generatedAt); err != nil {
		return GeneralError("failed to write output header", err)
	}

	params := providers.GenerateParams{
		DB:               dbManager.GetDB(),
		ConnectionString: dbManager.GetConnectionString(),
		Schema:           opts.Schema,
	}
	queries, genErr := generateScripts(ctx, w, opts.Tables, provider, params)

	if err := buf.Flush(); err != nil {
		return GeneralError("failed to write output file", err)
	}
	if genErr != nil {
		slog.Error("generation stopped, output is partial", "file", opts.InsertsPath, "error", genErr)
		return GeneralError("failed to generate insert statements", genErr)
	}
	slog.Info("insert statements written", "file", opts.InsertsPath)

	if err := saveRecipe(opts.QueriesPath, queries, generatedAt); err != nil {
		return GeneralError("failed to write recipe file", err)
	}
	slog.Info("generator queries written", "file", opts.QueriesPath, "queries", len(queries))
	return nil
}

func writeInsertsHeader(w io.Writer, now time.Time) error {
	_, err := fmt.Fprintf(w, "-- Generated INSERT statements\n-- Generated on: %s\n\n", now.Format(timestampLayout))
	return err
}

// generateScripts writes one section per table and returns the meta-queries
// used, in table order. A table without columns is reported and skipped;
// any other failure stops the remaining tables.
func generateScripts(ctx context.Context, w io.Writer, tables []string, provider providers.ScriptProvider, params providers.GenerateParams) ([]providers.MetaQuery, error) {
	var queries []providers.MetaQuery

	emit := func(line string) error {
		_, err := io.WriteString(w, line+"\n")
		return err
	}

	for _, table := range tables {
		if _, err := fmt.Fprintf(w, "-- Insert statements for table: %s\n", table); err != nil {
			return queries, err
		}

		tableParams := params
		tableParams.Table = table

		query, err := provider.GenerateTable(ctx, tableParams, emit)
		if query != nil {
			queries = append(queries, *query)
		}
		if err != nil {
			if !errors.Is(err, providers.ErrNoColumns) {
				return queries, fmt.Errorf("failed to process table %s: %w", table, err)
			}
			slog.Warn("table has no columns, skipping", "schema", params.Schema, "table", table)
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return queries, err
		}
	}

	return queries, nil
}

// saveRecipe overwrites path with the meta-queries of a run
func saveRecipe(path string, queries []providers.MetaQuery, now time.Time) error {
	var sb strings.Builder
	sb.WriteString("-- Generated SQL queries to create INSERT statements\n")
	fmt.Fprintf(&sb, "-- Generated on: %s\n", now.Format(timestampLayout))
	sb.WriteString("-- This file contains the queries used to generate the INSERT statements\n\n")

	for _, q := range queries {
		sb.WriteString(q.Recipe())
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}
