// Package sqldsl provides small typed building blocks for rendering PostgreSQL
// expressions. Every value implements Expr and renders itself on a single line,
// so composed expressions can be embedded in generated statements verbatim.
package sqldsl

import "strings"

// Expr is the interface that all SQL expression types implement.
type Expr interface {
	SQL() string
}

// Raw is an escape hatch for arbitrary SQL.
type Raw string

// SQL renders the raw SQL as-is.
func (r Raw) SQL() string {
	return string(r)
}

// Lit represents a string literal (auto-quoted with single quotes).
type Lit string

// SQL renders the literal with embedded single quotes doubled.
func (l Lit) SQL() string {
	return "'" + strings.ReplaceAll(string(l), "'", "''") + "'"
}

// Ident is a column, table or schema name. Names containing a space are
// rendered as double-quoted identifiers, everything else is emitted bare.
type Ident string

// SQL renders the identifier.
func (i Ident) SQL() string {
	name := string(i)
	if !strings.Contains(name, " ") {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Qualified is a schema-qualified name such as public.customer.
type Qualified struct {
	Schema string
	Name   string
}

// SQL renders schema.name, applying the Ident rule to both parts.
func (q Qualified) SQL() string {
	if q.Schema == "" {
		return Ident(q.Name).SQL()
	}
	return Ident(q.Schema).SQL() + "." + Ident(q.Name).SQL()
}

// Cast represents a PostgreSQL cast: expr::type.
type Cast struct {
	Expr Expr
	Type string
}

// SQL renders the cast.
func (c Cast) SQL() string {
	return c.Expr.SQL() + "::" + c.Type
}

// Paren wraps an expression in parentheses.
type Paren struct {
	Expr Expr
}

// SQL renders the parenthesized expression.
func (p Paren) SQL() string {
	return "(" + p.Expr.SQL() + ")"
}

// Func represents a SQL function call.
type Func struct {
	Name string
	Args []Expr
}

// SQL renders the function call.
func (f Func) SQL() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.SQL()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// Concat represents SQL string concatenation (||).
type Concat struct {
	Parts []Expr
}

// SQL renders the concatenation.
func (c Concat) SQL() string {
	if len(c.Parts) == 0 {
		return "''"
	}
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.SQL()
	}
	return strings.Join(parts, " || ")
}

// Alias wraps an expression with an alias (expr AS alias).
type Alias struct {
	Expr Expr
	Name string
}

// SQL renders the aliased expression.
func (a Alias) SQL() string {
	return a.Expr.SQL() + " AS " + a.Name
}
