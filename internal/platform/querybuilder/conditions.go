package querybuilder

// Condition is one WHERE predicate. Predicates are joined with AND.
type Condition interface {
	writeTo(w *sqlWriter)
}

type compare struct {
	column, op string
	value      any
}

func (c compare) writeTo(w *sqlWriter) {
	w.WriteString(c.column + " " + c.op + " ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: "=", value: value}
}

func NotEq(column string, value any) Condition {
	return compare{column: column, op: "<>", value: value}
}

type inStrings struct {
	column string
	values []string
}

// InStrings expands to column IN ($1, $2, ...). An empty list matches no row.
func InStrings(column string, values []string) Condition {
	return inStrings{column: column, values: values}
}

func (c inStrings) writeTo(w *sqlWriter) {
	if len(c.values) == 0 {
		w.WriteString("1=0")
		return
	}
	w.WriteString(c.column + " IN (")
	for i, v := range c.values {
		if i > 0 {
			w.WriteString(", ")
		}
		w.bind(v)
	}
	w.WriteByte(')')
}

type isNull string

// IsNull matches rows where column IS NULL, typically deleted_at for live rows.
func IsNull(column string) Condition {
	return isNull(column)
}

func (c isNull) writeTo(w *sqlWriter) {
	w.WriteString(string(c) + " IS NULL")
}

type rawExpr struct {
	sql  string
	args []any
}

// Expr embeds raw SQL; each ? takes the next value of args.
func Expr(sql string, args ...any) Condition {
	return rawExpr{sql: sql, args: args}
}

func (c rawExpr) writeTo(w *sqlWriter) {
	w.expr(c.sql, c.args)
}
