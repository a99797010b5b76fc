package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/alc6/pgpopulate/config"
)

// PostgreSQLManager connects to the database described by the connection profile
type PostgreSQLManager struct {
	driver  string
	connStr string
	db      *sql.DB
}

func NewPostgreSQLManager(cfg *config.Config) DatabaseManager {
	return &PostgreSQLManager{
		driver:  cfg.Database.Driver,
		connStr: cfg.DSN(),
	}
}

func (p *PostgreSQLManager) Setup(ctx context.Context) error {
	slog.Debug("opening database connection", "driver", p.driver)

	db, err := sql.Open(p.driver, p.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	p.db = db
	slog.Info("database connection ready", "driver", p.driver)
	return nil
}

func (p *PostgreSQLManager) Close(ctx context.Context) error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

func (p *PostgreSQLManager) GetDB() *sql.DB {
	return p.db
}

func (p *PostgreSQLManager) GetConnectionString() string {
	return p.connStr
}

type FileMigrationReader struct{}

func NewFileMigrationReader() MigrationReader {
	return &FileMigrationReader{}
}

func (r *FileMigrationReader) DiscoverMigrations(dir string) ([]Migration, error) {
	return ParseMigrations(dir)
}
