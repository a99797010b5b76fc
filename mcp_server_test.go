package main

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alc6/pgpopulate/config"
	"github.com/alc6/pgpopulate/providers"
	"github.com/alc6/pgpopulate/providers/mocks"
)

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestFormatColumnCore(t *testing.T) {
	t.Run("text_column", func(t *testing.T) {
		output, err := formatColumnCore("name", "text", "text")
		require.NoError(t, err)

		var result map[string]string
		require.NoError(t, json.Unmarshal([]byte(output), &result))
		assert.Equal(t, "text", result["family"])
		assert.Equal(t, providers.FormatExpression("name", "text", "text"), result["expression"])
	})

	t.Run("enum_by_udt_name", func(t *testing.T) {
		output, err := formatColumnCore("status", "USER-DEFINED", "order_enum_status")
		require.NoError(t, err)
		assert.Contains(t, output, `"family": "enum"`)
	})

	t.Run("empty_name", func(t *testing.T) {
		_, err := formatColumnCore(" ", "text", "")
		assert.Error(t, err)
	})

	t.Run("empty_type", func(t *testing.T) {
		_, err := formatColumnCore("name", "", "")
		assert.Error(t, err)
	})
}

func TestHandleFormatColumn(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		result, err := handleFormatColumn(ctx, toolRequest(map[string]any{
			"column_name": "id",
			"data_type":   "integer",
		}))
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "CASE WHEN id IS NULL THEN 'NULL' ELSE id::text END")
	})

	t.Run("missing_column_name", func(t *testing.T) {
		result, err := handleFormatColumn(ctx, toolRequest(map[string]any{"data_type": "integer"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "column_name parameter is required")
	})

	t.Run("missing_data_type", func(t *testing.T) {
		result, err := handleFormatColumn(ctx, toolRequest(map[string]any{"column_name": "id"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleToolsConfigErrors(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	t.Run("build_meta_query_requires_table", func(t *testing.T) {
		result, err := handleBuildMetaQuery(ctx, toolRequest(map[string]any{}), missing)
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "table parameter is required")
	})

	t.Run("build_meta_query_missing_config", func(t *testing.T) {
		result, err := handleBuildMetaQuery(ctx, toolRequest(map[string]any{"table": "customer"}), missing)
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("generate_inserts_requires_table", func(t *testing.T) {
		result, err := handleGenerateInserts(ctx, toolRequest(map[string]any{}), missing)
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("generate_inserts_unknown_provider", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pgpopulate.yaml")
		require.NoError(t, config.Write(path, config.Default()))

		result, err := handleGenerateInserts(ctx, toolRequest(map[string]any{
			"table":    "customer",
			"provider": "bogus",
		}), path)
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "unknown provider")
	})
}

func TestGenerateInsertsCore(t *testing.T) {
	ctx := context.Background()

	t.Run("collects_lines", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockScriptProvider(ctrl)
		provider.EXPECT().GenerateTable(gomock.Any(), tableParams("customer"), gomock.Any()).
			DoAndReturn(emitRows(
				"INSERT INTO public.customer (id) VALUES (1);",
				"INSERT INTO public.customer (id) VALUES (2);",
			))

		dbManager := &MockDatabaseManager{}
		output, err := generateInsertsCore(ctx, "public", "customer", dbManager, provider)
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO public.customer (id) VALUES (1);\nINSERT INTO public.customer (id) VALUES (2);\n", output)
		assert.True(t, dbManager.CloseCalled)
	})

	t.Run("missing_table", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockScriptProvider(ctrl)
		provider.EXPECT().GenerateTable(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(metaQueryFor("ghost"), providers.ErrNoColumns)

		_, err := generateInsertsCore(ctx, "public", "ghost", &MockDatabaseManager{}, provider)
		assert.ErrorIs(t, err, providers.ErrNoColumns)
	})

	t.Run("connection_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mocks.NewMockScriptProvider(ctrl)

		dbManager := &MockDatabaseManager{
			SetupFunc: func(context.Context) error { return errors.New("connection refused") },
		}
		_, err := generateInsertsCore(ctx, "public", "customer", dbManager, provider)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to database")
	})
}

func TestBuildMetaQueryCore(t *testing.T) {
	ctx := context.Background()

	t.Run("connection_failure", func(t *testing.T) {
		dbManager := &MockDatabaseManager{
			SetupFunc: func(context.Context) error { return errors.New("connection refused") },
		}
		_, err := buildMetaQueryCore(ctx, "public", "customer", dbManager)
		assert.Error(t, err)
	})

	t.Run("customer", func(t *testing.T) {
		sandbox := startSandbox(t)
		_, err := sandbox.DB.Exec(customerDDL)
		require.NoError(t, err)

		output, err := buildMetaQueryCore(ctx, "public", "customer", &MockDatabaseManager{GetDBFunc: sandbox.GetDB})
		require.NoError(t, err)
		assert.Contains(t, output, "-- Query to generate INSERT statements for table: customer\n")
		assert.Contains(t, output, "FROM public.customer;")
	})

	t.Run("missing_table", func(t *testing.T) {
		sandbox := startSandbox(t)

		_, err := buildMetaQueryCore(ctx, "public", "ghost", &MockDatabaseManager{GetDBFunc: sandbox.GetDB})
		assert.ErrorIs(t, err, providers.ErrNoColumns)
	})
}
