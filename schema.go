package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alc6/pgpopulate/providers"
)

// TablePlan is what the generator will do for one table: the columns it
// found and the meta-query assembled from them.
type TablePlan struct {
	Columns []providers.Column
	Query   providers.MetaQuery
}

// InspectTable reads the columns of schema.table and assembles its
// meta-query without running it.
func InspectTable(ctx context.Context, db *sql.DB, schema, tableName string) (*TablePlan, error) {
	columns, err := providers.ListColumns(ctx, db, schema, tableName)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s.%s: %w", schema, tableName, providers.ErrNoColumns)
	}

	return &TablePlan{
		Columns: columns,
		Query:   providers.AssembleMetaQuery(schema, tableName, columns),
	}, nil
}

// FormatPlan renders a plan as a column table followed by the meta-query
func FormatPlan(plan *TablePlan) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("COLUMN", "TYPE", "FAMILY", "NULLABLE")

	for _, col := range plan.Columns {
		typeName := col.DataType
		if col.UDTName != "" && col.UDTName != col.DataType {
			typeName = fmt.Sprintf("%s (%s)", col.DataType, col.UDTName)
		}
		nullable := "NO"
		if col.IsNullable {
			nullable = "YES"
		}
		t.Row(col.Name, typeName, providers.ClassifyType(col.DataType, col.UDTName).String(), nullable)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Table: %s.%s\n", plan.Query.Schema, plan.Query.Table)
	sb.WriteString(t.String())
	sb.WriteString("\n\n")
	sb.WriteString(plan.Query.Recipe())
	sb.WriteString("\n")
	return sb.String()
}
