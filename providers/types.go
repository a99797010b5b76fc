package providers

import (
	"errors"
	"fmt"
)

// ErrNoColumns is returned when a table lookup yields no columns, which
// usually means the table does not exist in the target schema.
var ErrNoColumns = errors.New("table has no columns")

// Column represents a database column as reported by information_schema
type Column struct {
	Name       string
	DataType   string
	UDTName    string
	IsNullable bool
}

// MetaQuery is a generated statement whose result rows are INSERT statements
type MetaQuery struct {
	Schema string
	Table  string
	SQL    string
}

// Recipe renders the statement with the comment line identifying its table
func (q MetaQuery) Recipe() string {
	return fmt.Sprintf("-- Query to generate INSERT statements for table: %s\n%s", q.Table, q.SQL)
}
