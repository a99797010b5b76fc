package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alc6/pgpopulate/config"
	"github.com/alc6/pgpopulate/providers"
	"github.com/alc6/pgpopulate/providers/mocks"
)

func TestLoadOrCreateConfig(t *testing.T) {
	t.Run("missing_file_writes_default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pgpopulate.yaml")

		cfg, created, err := loadOrCreateConfig(path)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Nil(t, cfg)

		loaded, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), loaded)
	})

	t.Run("existing_file_is_loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pgpopulate.yaml")
		want := config.Default()
		want.Tables = []string{"orders"}
		require.NoError(t, config.Write(path, want))

		cfg, created, err := loadOrCreateConfig(path)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, []string{"orders"}, cfg.Tables)
	})

	t.Run("invalid_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pgpopulate.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tables: []\n"), 0644))

		_, _, err := loadOrCreateConfig(path)
		require.Error(t, err)
		assert.Equal(t, ExitConfig, exitCode(err))
	})

	t.Run("unwritable_location", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "pgpopulate.yaml")

		_, _, err := loadOrCreateConfig(path)
		require.Error(t, err)
		assert.Equal(t, ExitConfig, exitCode(err))
	})
}

func TestResolveProvider(t *testing.T) {
	t.Run("native", func(t *testing.T) {
		provider, err := resolveProvider(providers.DefaultRegistry(), "native")
		require.NoError(t, err)
		assert.Equal(t, "native", provider.Name())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := resolveProvider(providers.DefaultRegistry(), "mysqldump")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider: mysqldump")
		assert.Contains(t, err.Error(), "native")
	})

	t.Run("unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockScriptProvider(ctrl)
		provider.EXPECT().Name().Return("offline").AnyTimes()
		provider.EXPECT().IsAvailable().Return(false).AnyTimes()

		registry := providers.NewProviderRegistry()
		registry.Register(provider)

		_, err := resolveProvider(registry, "offline")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not available")
	})
}

func TestPreviewTable(t *testing.T) {
	t.Run("connection_failure", func(t *testing.T) {
		dbManager := &MockDatabaseManager{
			SetupFunc: func(ctx context.Context) error { return SimulateError("connection") },
		}

		var out bytes.Buffer
		err := previewTable(context.Background(), &out, "public", "customer", dbManager)
		require.Error(t, err)
		assert.Equal(t, ExitDBConnect, exitCode(err))
		assert.Empty(t, out.String())
	})

	t.Run("prints_plan", func(t *testing.T) {
		sandbox := startSandbox(t)
		_, err := sandbox.DB.Exec(customerDDL)
		require.NoError(t, err)

		dbManager := &MockDatabaseManager{GetDBFunc: sandbox.GetDB}

		var out bytes.Buffer
		require.NoError(t, previewTable(context.Background(), &out, "public", "customer", dbManager))
		assert.Contains(t, out.String(), "Table: public.customer")
		assert.Contains(t, out.String(), "created_at")
		assert.Contains(t, out.String(), "-- Query to generate INSERT statements for table: customer")
		assert.True(t, dbManager.CloseCalled)
	})
}

func TestReportCounts(t *testing.T) {
	t.Run("all_match", func(t *testing.T) {
		var out bytes.Buffer
		err := reportCounts(&out, []TableCount{
			{Table: "customer", Expected: 2, Actual: 2},
			{Table: "messaging_log", Expected: 0, Actual: 0},
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "customer: 2 rows")
		assert.Contains(t, out.String(), "messaging_log: 0 rows")
	})

	t.Run("mismatch", func(t *testing.T) {
		var out bytes.Buffer
		err := reportCounts(&out, []TableCount{
			{Table: "customer", Expected: 2, Actual: 2},
			{Table: "orders", Expected: 3, Actual: 1},
		})
		require.Error(t, err)
		assert.Equal(t, ExitGeneral, exitCode(err))
		assert.Contains(t, err.Error(), "1 of 2 tables")
		assert.Contains(t, out.String(), "orders: expected 3 rows, found 1")
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneral},
		{"config", ConfigError("bad config", nil), ExitConfig},
		{"db_connect", DBConnectError("no db", errors.New("refused")), ExitDBConnect},
		{"wrapped", fmt.Errorf("outer: %w", ConfigError("bad", nil)), ExitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	inner := errors.New("connection refused")
	err := DBConnectError("failed to connect to database", inner)

	assert.Equal(t, "failed to connect to database: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "bad config", ConfigError("bad config", nil).Error())
}
