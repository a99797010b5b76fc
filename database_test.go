package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startSandbox starts a throwaway postgres and stops it when the test ends
func startSandbox(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sandbox := NewSandbox("").(*Database)
	require.NoError(t, sandbox.Setup(ctx))
	t.Cleanup(func() {
		if err := sandbox.Close(context.Background()); err != nil {
			t.Logf("failed to cleanup sandbox: %v", err)
		}
	})
	return sandbox
}

func writeSQLFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSandboxSetup(t *testing.T) {
	sandbox := startSandbox(t)

	assert.Equal(t, defaultSandboxImage, sandbox.Image)
	assert.NotNil(t, sandbox.GetDB())
	assert.NotNil(t, sandbox.Container)
	assert.NotEmpty(t, sandbox.GetConnectionString())
	assert.NoError(t, sandbox.GetDB().Ping())
}

func TestSandboxRunMigrations(t *testing.T) {
	sandbox := startSandbox(t)
	dir := t.TempDir()

	t.Run("successful_migration", func(t *testing.T) {
		migrations := []Migration{{
			Name:   "001_test",
			UpFile: writeSQLFile(t, dir, "001_test.up.sql", "CREATE TABLE test_table (id SERIAL PRIMARY KEY);"),
		}}
		require.NoError(t, sandbox.RunMigrations(migrations))

		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = 'test_table'
		)`
		require.NoError(t, sandbox.DB.QueryRow(query).Scan(&exists))
		assert.True(t, exists)
	})

	t.Run("migration_file_not_found", func(t *testing.T) {
		err := sandbox.RunMigrations([]Migration{{Name: "nonexistent", UpFile: "/nonexistent/file.sql"}})
		assert.Error(t, err)
	})

	t.Run("invalid_sql", func(t *testing.T) {
		migrations := []Migration{{
			Name:   "002_broken",
			UpFile: writeSQLFile(t, dir, "002_broken.up.sql", "CREATE TABL broken ();"),
		}}
		err := sandbox.RunMigrations(migrations)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "002_broken")
	})
}

func TestSandboxApplyScriptAndCountRows(t *testing.T) {
	sandbox := startSandbox(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := sandbox.DB.Exec(`CREATE TABLE "order items" (id integer, label text)`)
	require.NoError(t, err)

	script := writeSQLFile(t, dir, "inserts.sql", `-- Generated INSERT statements

-- Insert statements for table: order items
INSERT INTO public."order items" (id, label) VALUES (1, 'it''s');
INSERT INTO public."order items" (id, label) VALUES (2, NULL);
`)
	require.NoError(t, sandbox.ApplyScript(ctx, script))

	count, err := sandbox.CountRows(ctx, "public", "order items")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("missing_table", func(t *testing.T) {
		_, err := sandbox.CountRows(ctx, "public", "does_not_exist")
		assert.Error(t, err)
	})

	t.Run("missing_script", func(t *testing.T) {
		assert.Error(t, sandbox.ApplyScript(ctx, filepath.Join(dir, "missing.sql")))
	})
}

func TestSandboxClose(t *testing.T) {
	t.Run("close_nil_sandbox", func(t *testing.T) {
		sandbox := &Database{}
		assert.NoError(t, sandbox.Close(context.Background()))
	})

	t.Run("custom_image", func(t *testing.T) {
		sandbox := NewSandbox("postgres:15-alpine").(*Database)
		assert.Equal(t, "postgres:15-alpine", sandbox.Image)
	})
}
