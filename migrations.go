package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// Migration is one DDL file replayed into the sandbox before a script is applied
type Migration struct {
	Name   string
	UpFile string
}

// ParseMigrations collects the schema files of a directory in name order.
// Both golang-migrate style "*.up.sql" files and plain "*.sql" files are
// accepted; "*.down.sql" files are ignored.
func ParseMigrations(migrationDir string) ([]Migration, error) {
	slog.Debug("scanning migration directory", "directory", migrationDir)

	var migrations []Migration
	err := filepath.WalkDir(migrationDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		fileName := d.Name()
		switch {
		case strings.HasSuffix(fileName, ".down.sql"):
			slog.Debug("skipping down migration", "file", path)
		case strings.HasSuffix(fileName, ".up.sql"):
			migrations = append(migrations, Migration{Name: strings.TrimSuffix(fileName, ".up.sql"), UpFile: path})
		case strings.HasSuffix(fileName, ".sql"):
			migrations = append(migrations, Migration{Name: strings.TrimSuffix(fileName, ".sql"), UpFile: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk migration directory: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})

	slog.Info("parsed migrations", "count", len(migrations))
	return migrations, nil
}
