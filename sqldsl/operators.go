package sqldsl

import "strings"

// IsNull represents an IS NULL check.
type IsNull struct {
	Expr Expr
}

func (i IsNull) SQL() string { return i.Expr.SQL() + " IS NULL" }

// Eq represents equality (left = right).
type Eq struct {
	Left  Expr
	Right Expr
}

func (e Eq) SQL() string { return e.Left.SQL() + " = " + e.Right.SQL() }

// CaseWhen represents a single WHEN clause in a CASE expression.
type CaseWhen struct {
	Cond   Expr
	Result Expr
}

// CaseExpr represents a CASE expression with multiple WHEN clauses.
type CaseExpr struct {
	Whens []CaseWhen
	Else  Expr // optional default value
}

// SQL renders the CASE expression on one line.
func (c CaseExpr) SQL() string {
	if len(c.Whens) == 0 {
		if c.Else != nil {
			return c.Else.SQL()
		}
		return "NULL"
	}

	var sb strings.Builder
	sb.WriteString("CASE")
	for _, w := range c.Whens {
		sb.WriteString(" WHEN ")
		sb.WriteString(w.Cond.SQL())
		sb.WriteString(" THEN ")
		sb.WriteString(w.Result.SQL())
	}
	if c.Else != nil {
		sb.WriteString(" ELSE ")
		sb.WriteString(c.Else.SQL())
	}
	sb.WriteString(" END")
	return sb.String()
}

// SelectStmt is a single-projection SELECT over one table.
type SelectStmt struct {
	Columns []Expr
	From    Expr
}

// SQL renders the statement terminated with a semicolon.
func (s SelectStmt) SQL() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.SQL()
	}
	projection := "1"
	if len(cols) > 0 {
		projection = strings.Join(cols, ", ")
	}
	if s.From == nil {
		return "SELECT " + projection + ";"
	}
	return "SELECT " + projection + " FROM " + s.From.SQL() + ";"
}
