package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const tableSectionPrefix = "-- Insert statements for table: "

// TableCount compares the INSERT statements a script holds for a table with
// the rows found after replaying it.
type TableCount struct {
	Table    string
	Expected int64
	Actual   int64
}

func (c TableCount) Matches() bool {
	return c.Expected == c.Actual
}

// parseScriptSections counts the INSERT statements under each table header
// of a generated script, in file order.
func parseScriptSections(content string) []TableCount {
	var sections []TableCount
	current := -1

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, tableSectionPrefix):
			sections = append(sections, TableCount{Table: strings.TrimSpace(strings.TrimPrefix(line, tableSectionPrefix))})
			current = len(sections) - 1
		case current >= 0 && strings.HasPrefix(line, "INSERT INTO "):
			sections[current].Expected++
		}
	}
	return sections
}

type verifyOptions struct {
	MigrationDir string
	ScriptPath   string
	Schema       string
}

// verifyScript replays migrations and a generated script into a sandbox
// database and reports the row count of every table section.
func verifyScript(ctx context.Context, opts verifyOptions, reader MigrationReader, sandbox SandboxManager) ([]TableCount, error) {
	if _, err := os.Stat(opts.MigrationDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("migration directory does not exist: %s", opts.MigrationDir)
	}

	migrations, err := reader.DiscoverMigrations(opts.MigrationDir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}
	if len(migrations) == 0 {
		return nil, fmt.Errorf("no migration files found in directory: %s", opts.MigrationDir)
	}

	content, err := os.ReadFile(opts.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	sections := parseScriptSections(string(content))
	if len(sections) == 0 {
		return nil, fmt.Errorf("no table sections found in %s", opts.ScriptPath)
	}

	slog.Info("starting sandbox database")
	if err := sandbox.Setup(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup sandbox: %w", err)
	}
	defer func() {
		if err := sandbox.Close(ctx); err != nil {
			slog.Error("failed to cleanup", "error", err)
		}
	}()

	if err := sandbox.RunMigrations(migrations); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := sandbox.ApplyScript(ctx, opts.ScriptPath); err != nil {
		return nil, err
	}

	for i := range sections {
		count, err := sandbox.CountRows(ctx, opts.Schema, sections[i].Table)
		if err != nil {
			return nil, err
		}
		sections[i].Actual = count
		slog.Debug("verified table", "table", sections[i].Table, "expected", sections[i].Expected, "actual", count)
	}

	return sections, nil
}
