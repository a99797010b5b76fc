package providers

import (
	"strings"

	"github.com/alc6/pgpopulate/sqldsl"
)

// QuoteIdent renders a name the way it is re-emitted into generated SQL:
// double-quoted when it contains a space, bare otherwise.
func QuoteIdent(name string) string {
	return sqldsl.Ident(name).SQL()
}

// AssembleMetaQuery builds the SELECT that, executed against schema.table,
// returns one ready-to-run INSERT statement per source row. Column names and
// value expressions are emitted in the order of columns.
func AssembleMetaQuery(schema, table string, columns []Column) MetaQuery {
	target := sqldsl.Qualified{Schema: schema, Name: table}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = QuoteIdent(col.Name)
	}
	head := "INSERT INTO " + target.SQL() + " (" + strings.Join(names, ", ") + ") VALUES ("

	var script sqldsl.Expr
	if len(columns) == 0 {
		script = sqldsl.Lit(head + ");")
	} else {
		parts := make([]sqldsl.Expr, 0, 2*len(columns)+1)
		parts = append(parts, sqldsl.Lit(head))
		for i, col := range columns {
			if i > 0 {
				parts = append(parts, sqldsl.Lit(", "))
			}
			parts = append(parts, FormatValue(col))
		}
		parts = append(parts, sqldsl.Lit(");"))
		script = sqldsl.Concat{Parts: parts}
	}

	stmt := sqldsl.SelectStmt{
		Columns: []sqldsl.Expr{sqldsl.Alias{Expr: script, Name: "script"}},
		From:    target,
	}

	return MetaQuery{
		Schema: schema,
		Table:  table,
		SQL:    stmt.SQL(),
	}
}
