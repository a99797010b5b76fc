package providers

import (
	"strings"

	"github.com/alc6/pgpopulate/sqldsl"
)

// TypeFamily groups PostgreSQL declared types that share one literal rendering
type TypeFamily int

const (
	FamilyDefault TypeFamily = iota
	FamilyArray
	FamilyInteger
	FamilyDecimal
	FamilyMoney
	FamilyText
	FamilyTimestamp
	FamilyDate
	FamilyTime
	FamilyTimeTZ
	FamilyInterval
	FamilyBoolean
	FamilyBinary
	FamilyNetwork
	FamilyGeometric
	FamilyUUID
	FamilyRange
	FamilyJSON
	FamilyXML
	FamilyBitString
	FamilyEnum
)

var familyNames = map[TypeFamily]string{
	FamilyDefault:   "default",
	FamilyArray:     "array",
	FamilyInteger:   "integer",
	FamilyDecimal:   "decimal",
	FamilyMoney:     "money",
	FamilyText:      "text",
	FamilyTimestamp: "timestamp",
	FamilyDate:      "date",
	FamilyTime:      "time",
	FamilyTimeTZ:    "time with time zone",
	FamilyInterval:  "interval",
	FamilyBoolean:   "boolean",
	FamilyBinary:    "binary",
	FamilyNetwork:   "network",
	FamilyGeometric: "geometric",
	FamilyUUID:      "uuid",
	FamilyRange:     "range",
	FamilyJSON:      "json",
	FamilyXML:       "xml",
	FamilyBitString: "bit string",
	FamilyEnum:      "enum",
}

func (f TypeFamily) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "default"
}

// declaredTypes is the closed lookup of lowercase information_schema data_type
// values. Anything missing here is classified by udt name or falls back to
// FamilyDefault.
var declaredTypes = map[string]TypeFamily{
	"smallint":    FamilyInteger,
	"integer":     FamilyInteger,
	"bigint":      FamilyInteger,
	"serial":      FamilyInteger,
	"bigserial":   FamilyInteger,
	"smallserial": FamilyInteger,
	"oid":         FamilyInteger,

	"decimal":          FamilyDecimal,
	"numeric":          FamilyDecimal,
	"real":             FamilyDecimal,
	"double precision": FamilyDecimal,
	"money":            FamilyMoney,

	"character varying": FamilyText,
	"varchar":           FamilyText,
	"character":         FamilyText,
	"char":              FamilyText,
	"text":              FamilyText,

	"timestamp without time zone": FamilyTimestamp,
	"timestamp with time zone":    FamilyTimestamp,
	"timestamp":                   FamilyTimestamp,
	"date":                        FamilyDate,
	"time without time zone":      FamilyTime,
	"time with time zone":         FamilyTimeTZ,
	"time":                        FamilyTime,
	"interval":                    FamilyInterval,

	"boolean": FamilyBoolean,
	"bytea":   FamilyBinary,

	"cidr":     FamilyNetwork,
	"inet":     FamilyNetwork,
	"macaddr":  FamilyNetwork,
	"macaddr8": FamilyNetwork,

	"point":   FamilyGeometric,
	"line":    FamilyGeometric,
	"lseg":    FamilyGeometric,
	"box":     FamilyGeometric,
	"path":    FamilyGeometric,
	"polygon": FamilyGeometric,
	"circle":  FamilyGeometric,

	"json":  FamilyJSON,
	"jsonb": FamilyJSON,
	"uuid":  FamilyUUID,
	"xml":   FamilyXML,

	"bit":         FamilyBitString,
	"bit varying": FamilyBitString,

	"int4range": FamilyRange,
	"int8range": FamilyRange,
	"numrange":  FamilyRange,
	"tsrange":   FamilyRange,
	"tstzrange": FamilyRange,
	"daterange": FamilyRange,
}

// ClassifyType maps a declared type and its udt name to a TypeFamily.
func ClassifyType(dataType, udtName string) TypeFamily {
	if strings.HasSuffix(dataType, "[]") {
		return FamilyArray
	}
	if family, ok := declaredTypes[strings.ToLower(dataType)]; ok {
		return family
	}
	if strings.Contains(udtName, "_enum_") {
		return FamilyEnum
	}
	return FamilyDefault
}

const (
	timestampLayout = "YYYY-MM-DD HH24:MI:SS.US"
	dateLayout      = "YYYY-MM-DD"
	timeLayout      = "HH24:MI:SS.US"
)

var (
	nullWord = sqldsl.Lit("NULL")
	quote    = sqldsl.Lit("'")
)

// FormatValue returns the expression that renders col as a SQL literal, or the
// bare word NULL, when evaluated against a row of its table.
func FormatValue(col Column) sqldsl.Expr {
	return formatFamily(ClassifyType(col.DataType, col.UDTName), sqldsl.Ident(col.Name))
}

// FormatExpression is FormatValue for callers that only hold the raw strings.
func FormatExpression(columnName, dataType, udtName string) string {
	return FormatValue(Column{Name: columnName, DataType: dataType, UDTName: udtName}).SQL()
}

func formatFamily(family TypeFamily, col sqldsl.Expr) sqldsl.Expr {
	switch family {
	case FamilyArray:
		return nullOr(col, quoted(sqldsl.Func{Name: "ARRAY_TO_STRING", Args: []sqldsl.Expr{col, sqldsl.Lit(",")}}))
	case FamilyInteger:
		return nullOr(col, asText(col))
	case FamilyDecimal:
		return nullOr(col, asText(sqldsl.Paren{Expr: col}))
	case FamilyMoney:
		return nullOr(col, asText(sqldsl.Cast{Expr: sqldsl.Paren{Expr: col}, Type: "numeric"}))
	case FamilyText:
		return nullOr(col, quoted(escapeQuotes(asText(col))))
	case FamilyTimestamp:
		return nullOr(col, quoted(toChar(col, timestampLayout)))
	case FamilyDate:
		return nullOr(col, quoted(toChar(col, dateLayout)))
	case FamilyTime:
		return nullOr(col, quoted(toChar(col, timeLayout)))
	case FamilyBoolean:
		return sqldsl.CaseExpr{
			Whens: []sqldsl.CaseWhen{
				{Cond: sqldsl.IsNull{Expr: col}, Result: nullWord},
				{Cond: col, Result: sqldsl.Lit("true")},
			},
			Else: sqldsl.Lit("false"),
		}
	case FamilyBinary:
		return nullOr(col, quoted(sqldsl.Concat{Parts: []sqldsl.Expr{
			sqldsl.Lit(`\x`),
			sqldsl.Func{Name: "ENCODE", Args: []sqldsl.Expr{col, sqldsl.Lit("hex")}},
		}}))
	case FamilyJSON, FamilyXML:
		return nullOr(col, quoted(escapeQuotes(asText(sqldsl.Paren{Expr: col}))))
	case FamilyBitString:
		text := asText(col)
		return sqldsl.CaseExpr{
			Whens: []sqldsl.CaseWhen{
				{Cond: sqldsl.IsNull{Expr: col}, Result: nullWord},
				{Cond: sqldsl.Eq{Left: text, Right: sqldsl.Lit("1")}, Result: sqldsl.Lit("B'1'")},
				{Cond: sqldsl.Eq{Left: text, Right: sqldsl.Lit("0")}, Result: sqldsl.Lit("B'0'")},
			},
			Else: sqldsl.Concat{Parts: []sqldsl.Expr{
				sqldsl.Lit("B'"), asText(sqldsl.Paren{Expr: col}), quote,
			}},
		}
	case FamilyTimeTZ, FamilyInterval, FamilyNetwork, FamilyGeometric, FamilyUUID, FamilyRange:
		// canonical text forms of these types never contain a quote
		return nullOr(col, quoted(asText(sqldsl.Paren{Expr: col})))
	default:
		// enum labels, array and composite text may contain quotes
		return nullOr(col, quoted(escapeQuotes(asText(sqldsl.Paren{Expr: col}))))
	}
}

func nullOr(col, value sqldsl.Expr) sqldsl.Expr {
	return sqldsl.CaseExpr{
		Whens: []sqldsl.CaseWhen{{Cond: sqldsl.IsNull{Expr: col}, Result: nullWord}},
		Else:  value,
	}
}

func quoted(e sqldsl.Expr) sqldsl.Expr {
	return sqldsl.Concat{Parts: []sqldsl.Expr{quote, e, quote}}
}

func asText(e sqldsl.Expr) sqldsl.Expr {
	return sqldsl.Cast{Expr: e, Type: "text"}
}

func escapeQuotes(e sqldsl.Expr) sqldsl.Expr {
	return sqldsl.Func{Name: "REPLACE", Args: []sqldsl.Expr{e, quote, sqldsl.Lit("''")}}
}

func toChar(col sqldsl.Expr, layout string) sqldsl.Expr {
	return sqldsl.Func{Name: "TO_CHAR", Args: []sqldsl.Expr{col, sqldsl.Lit(layout)}}
}
