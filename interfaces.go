package main

import (
	"context"
	"database/sql"
)

// DatabaseManager handles the lifecycle of the source database connection
type DatabaseManager interface {
	// Setup opens and pings the database connection
	Setup(ctx context.Context) error
	// Close releases database resources
	Close(ctx context.Context) error
	// GetDB returns the underlying database connection
	GetDB() *sql.DB
	// GetConnectionString returns the URL used to connect
	GetConnectionString() string
}

// SandboxManager is a throwaway database used to replay generated scripts
type SandboxManager interface {
	DatabaseManager
	// RunMigrations executes the provided migrations
	RunMigrations(migrations []Migration) error
	// ApplyScript executes a generated INSERT script
	ApplyScript(ctx context.Context, path string) error
	// CountRows returns the number of rows in schema.table
	CountRows(ctx context.Context, schema, table string) (int64, error)
}

// MigrationReader handles reading migration files
type MigrationReader interface {
	// DiscoverMigrations finds all migration files in the given directory
	DiscoverMigrations(dir string) ([]Migration, error)
}
