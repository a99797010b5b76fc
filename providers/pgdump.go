package providers

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"
)

// PgDumpProvider uses the pg_dump binary to produce INSERT statements
type PgDumpProvider struct {
	binary string
}

// NewPgDumpProvider creates a new pg_dump provider
func NewPgDumpProvider() ScriptProvider {
	return &PgDumpProvider{binary: "pg_dump"}
}

// Name returns the provider name
func (p *PgDumpProvider) Name() string {
	return "pg_dump"
}

// IsAvailable checks if pg_dump is available in PATH
func (p *PgDumpProvider) IsAvailable() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// dumpArgs returns the pg_dump flags for one table, without the connection string
func (p *PgDumpProvider) dumpArgs(schema, table string) []string {
	return []string{
		"--data-only",      // Only dump rows, no DDL
		"--column-inserts", // One INSERT with column names per row
		"--no-owner",
		"--no-privileges",
		fmt.Sprintf(`--table="%s"."%s"`, schema, table),
	}
}

// GenerateTable dumps the table with pg_dump and emits its INSERT statements
func (p *PgDumpProvider) GenerateTable(ctx context.Context, params GenerateParams, emit func(line string) error) (*MetaQuery, error) {
	if params.ConnectionString == "" {
		return nil, fmt.Errorf("pg_dump provider requires connection string")
	}

	if _, err := url.Parse(params.ConnectionString); err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	args := p.dumpArgs(params.Schema, params.Table)
	recipe := &MetaQuery{
		Schema: params.Schema,
		Table:  params.Table,
		SQL:    "-- " + p.binary + " " + strings.Join(args, " "),
	}

	cmd := exec.CommandContext(ctx, p.binary, append(args, params.ConnectionString)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("executing pg_dump", "table", params.Table)

	if err := cmd.Run(); err != nil {
		return recipe, fmt.Errorf("pg_dump failed: %w\nstderr: %s", err, stderr.String())
	}

	rows := 0
	for _, stmt := range extractInserts(stdout.String()) {
		if err := emit(stmt); err != nil {
			return recipe, err
		}
		rows++
	}

	slog.Info("generated insert statements", "table", params.Table, "rows", rows, "provider", p.Name())
	return recipe, nil
}

// extractInserts keeps only the INSERT statements of a pg_dump data dump. A
// statement whose text values contain newlines spans several lines; it ends
// at the first line ending in ");" outside a quoted literal or identifier.
func extractInserts(dump string) []string {
	var (
		stmts   []string
		current strings.Builder
		inStmt  bool
		quote   rune
	)

	scanner := bufio.NewScanner(strings.NewReader(dump))
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if !inStmt {
			if !strings.HasPrefix(line, "INSERT INTO ") {
				continue
			}
			inStmt = true
			quote = 0
		} else {
			current.WriteString("\n")
		}

		current.WriteString(line)
		quote = trackQuotes(line, quote)
		if quote == 0 && strings.HasSuffix(line, ");") {
			stmts = append(stmts, current.String())
			current.Reset()
			inStmt = false
		}
	}

	return stmts
}

// trackQuotes returns the quote character still open at the end of line,
// or 0, given the one open at its start. Doubled quotes inside a literal or
// identifier close and reopen it, which leaves the state unchanged.
func trackQuotes(line string, open rune) rune {
	for _, r := range line {
		switch {
		case open == 0 && (r == '\'' || r == '"'):
			open = r
		case r == open:
			open = 0
		}
	}
	return open
}
