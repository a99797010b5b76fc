package main

import (
	"context"
	"database/sql"
	"fmt"
)

// MockDatabaseManager is a mock implementation of DatabaseManager for testing
type MockDatabaseManager struct {
	SetupFunc func(ctx context.Context) error
	CloseFunc func(ctx context.Context) error
	GetDBFunc func() *sql.DB
	ConnStr   string

	// Track calls for verification
	SetupCalled bool
	CloseCalled bool
	GetDBCalled bool
}

func (m *MockDatabaseManager) Setup(ctx context.Context) error {
	m.SetupCalled = true
	if m.SetupFunc != nil {
		return m.SetupFunc(ctx)
	}
	return nil
}

func (m *MockDatabaseManager) Close(ctx context.Context) error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}

func (m *MockDatabaseManager) GetDB() *sql.DB {
	m.GetDBCalled = true
	if m.GetDBFunc != nil {
		return m.GetDBFunc()
	}
	return nil
}

func (m *MockDatabaseManager) GetConnectionString() string {
	return m.ConnStr
}

// MockSandbox is a mock implementation of SandboxManager for testing
type MockSandbox struct {
	MockDatabaseManager

	RunMigrationsFunc func(migrations []Migration) error
	ApplyScriptFunc   func(ctx context.Context, path string) error
	CountRowsFunc     func(ctx context.Context, schema, table string) (int64, error)

	RunMigrationsCalled bool
	AppliedScripts      []string
}

func (m *MockSandbox) RunMigrations(migrations []Migration) error {
	m.RunMigrationsCalled = true
	if m.RunMigrationsFunc != nil {
		return m.RunMigrationsFunc(migrations)
	}
	return nil
}

func (m *MockSandbox) ApplyScript(ctx context.Context, path string) error {
	m.AppliedScripts = append(m.AppliedScripts, path)
	if m.ApplyScriptFunc != nil {
		return m.ApplyScriptFunc(ctx, path)
	}
	return nil
}

func (m *MockSandbox) CountRows(ctx context.Context, schema, table string) (int64, error) {
	if m.CountRowsFunc != nil {
		return m.CountRowsFunc(ctx, schema, table)
	}
	return 0, nil
}

// MockMigrationReader is a mock implementation of MigrationReader for testing
type MockMigrationReader struct {
	DiscoverMigrationsFunc func(dir string) ([]Migration, error)
}

func (m *MockMigrationReader) DiscoverMigrations(dir string) ([]Migration, error) {
	if m.DiscoverMigrationsFunc != nil {
		return m.DiscoverMigrationsFunc(dir)
	}
	return []Migration{}, nil
}

// SimulateError simulates various database errors for testing
func SimulateError(errType string) error {
	switch errType {
	case "connection":
		return fmt.Errorf("connection refused")
	case "syntax":
		return fmt.Errorf("syntax error at or near 'INVALID'")
	case "permission":
		return fmt.Errorf("permission denied")
	default:
		return fmt.Errorf("simulated error: %s", errType)
	}
}
