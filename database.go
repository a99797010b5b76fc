package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alc6/pgpopulate/sqldsl"
)

const defaultSandboxImage = "postgres:16-alpine"

// Database is a throwaway PostgreSQL container used to replay generated scripts
type Database struct {
	Image     string
	Container testcontainers.Container
	DB        *sql.DB
	ConnStr   string
}

func NewSandbox(image string) SandboxManager {
	if image == "" {
		image = defaultSandboxImage
	}
	return &Database{Image: image}
}

func (d *Database) Setup(ctx context.Context) error {
	slog.Debug("starting postgresql container", "image", d.Image)
	container, err := postgres.Run(ctx,
		d.Image,
		postgres.WithDatabase("sandbox"),
		postgres.WithUsername("sandbox"),
		postgres.WithPassword("sandbox"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute)),
	)
	if err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	d.Container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.DB = db
	d.ConnStr = connStr

	slog.Info("postgresql sandbox ready", "image", d.Image)
	return nil
}

func (d *Database) Close(ctx context.Context) error {
	if d.DB != nil {
		d.DB.Close()
	}
	if d.Container != nil {
		return d.Container.Terminate(ctx)
	}
	return nil
}

func (d *Database) GetDB() *sql.DB {
	return d.DB
}

func (d *Database) GetConnectionString() string {
	return d.ConnStr
}

func (d *Database) RunMigrations(migrations []Migration) error {
	for _, migration := range migrations {
		slog.Debug("running migration", "name", migration.Name, "file", migration.UpFile)

		content, err := os.ReadFile(migration.UpFile)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", migration.UpFile, err)
		}

		if _, err := d.DB.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Name, err)
		}
	}

	slog.Info("all migrations completed successfully", "count", len(migrations))
	return nil
}

func (d *Database) ApplyScript(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", path, err)
	}

	if _, err := d.DB.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to apply script %s: %w", path, err)
	}

	slog.Info("applied insert script", "file", path)
	return nil
}

func (d *Database) CountRows(ctx context.Context, schema, table string) (int64, error) {
	query := sqldsl.SelectStmt{
		Columns: []sqldsl.Expr{sqldsl.Raw("count(*)")},
		From:    sqldsl.Qualified{Schema: schema, Name: table},
	}

	var count int64
	if err := d.DB.QueryRowContext(ctx, query.SQL()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s.%s: %w", schema, table, err)
	}
	return count, nil
}
