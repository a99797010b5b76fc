package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alc6/pgpopulate/config"
	"github.com/alc6/pgpopulate/providers"
)

// StartMCPServer serves the generator tools over stdio. Tools that need a
// database connect with the profile stored at configPath.
func StartMCPServer(configPath string) error {
	s := server.NewMCPServer(
		"pgpopulate",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	formatColumnTool := mcp.NewTool("format_column",
		mcp.WithDescription("Return the SQL expression that renders a column value as an INSERT literal"),
		mcp.WithString("column_name",
			mcp.Required(),
			mcp.Description("Column name"),
		),
		mcp.WithString("data_type",
			mcp.Required(),
			mcp.Description("Declared type as reported by information_schema.columns.data_type"),
		),
		mcp.WithString("udt_name",
			mcp.Description("Underlying type name (information_schema.columns.udt_name)"),
		),
	)
	s.AddTool(formatColumnTool, handleFormatColumn)

	buildMetaQueryTool := mcp.NewTool("build_meta_query",
		mcp.WithDescription("Inspect a table and return the query that generates its INSERT statements"),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Table name"),
		),
		mcp.WithString("schema",
			mcp.Description("Schema name (default: configured schema)"),
		),
	)
	s.AddTool(buildMetaQueryTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBuildMetaQuery(ctx, request, configPath)
	})

	generateInsertsTool := mcp.NewTool("generate_inserts",
		mcp.WithDescription("Return one INSERT statement per row of a table"),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Table name"),
		),
		mcp.WithString("schema",
			mcp.Description("Schema name (default: configured schema)"),
		),
		mcp.WithString("provider",
			mcp.Description("Script provider (default: native)"),
			mcp.Enum("native", "pg_dump"),
		),
	)
	s.AddTool(generateInsertsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGenerateInserts(ctx, request, configPath)
	})

	slog.Info("starting pgpopulate mcp server")
	return server.ServeStdio(s)
}

func handleFormatColumn(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("column_name")
	if err != nil {
		return mcp.NewToolResultError("column_name parameter is required"), nil
	}
	dataType, err := request.RequireString("data_type")
	if err != nil {
		return mcp.NewToolResultError("data_type parameter is required"), nil
	}

	output, err := formatColumnCore(name, dataType, request.GetString("udt_name", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

// formatColumnCore classifies a column and returns its literal expression as JSON
func formatColumnCore(name, dataType, udtName string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("column name must not be empty")
	}
	if strings.TrimSpace(dataType) == "" {
		return "", fmt.Errorf("data type must not be empty")
	}

	result := map[string]string{
		"column":     name,
		"data_type":  dataType,
		"family":     providers.ClassifyType(dataType, udtName).String(),
		"expression": providers.FormatExpression(name, dataType, udtName),
	}

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	return string(jsonOutput), nil
}

func handleBuildMetaQuery(ctx context.Context, request mcp.CallToolRequest, configPath string) (*mcp.CallToolResult, error) {
	table, err := request.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError("table parameter is required"), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	schema := request.GetString("schema", cfg.Schema)

	output, err := buildMetaQueryCore(ctx, schema, table, NewPostgreSQLManager(cfg))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

// buildMetaQueryCore connects, inspects schema.table and returns its recipe
func buildMetaQueryCore(ctx context.Context, schema, table string, dbManager DatabaseManager) (string, error) {
	if err := dbManager.Setup(ctx); err != nil {
		return "", fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(ctx); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	plan, err := InspectTable(ctx, dbManager.GetDB(), schema, table)
	if err != nil {
		return "", err
	}
	return plan.Query.Recipe(), nil
}

func handleGenerateInserts(ctx context.Context, request mcp.CallToolRequest, configPath string) (*mcp.CallToolResult, error) {
	table, err := request.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError("table parameter is required"), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	schema := request.GetString("schema", cfg.Schema)

	provider, err := resolveProvider(providers.DefaultRegistry(), request.GetString("provider", "native"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := generateInsertsCore(ctx, schema, table, NewPostgreSQLManager(cfg), provider)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(output), nil
}

// generateInsertsCore returns the INSERT statements of one table, one per line
func generateInsertsCore(ctx context.Context, schema, table string, dbManager DatabaseManager, provider providers.ScriptProvider) (string, error) {
	if err := dbManager.Setup(ctx); err != nil {
		return "", fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(ctx); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	params := providers.GenerateParams{
		DB:               dbManager.GetDB(),
		ConnectionString: dbManager.GetConnectionString(),
		Schema:           schema,
		Table:            table,
	}

	var sb strings.Builder
	_, err := provider.GenerateTable(ctx, params, func(line string) error {
		sb.WriteString(line)
		sb.WriteString("\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
