package querybuilder

import (
	"strconv"
	"strings"
)

// sqlWriter accumulates SQL text and its positional binds ($1, $2, ...).
type sqlWriter struct {
	strings.Builder
	args []any
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.WriteByte('$')
	w.WriteString(strconv.Itoa(len(w.args)))
}

// clause writes keyword followed by parts joined with sep. Nothing is
// written for an empty list.
func (w *sqlWriter) clause(keyword string, parts []string, sep string) {
	if len(parts) == 0 {
		return
	}
	w.WriteString(keyword)
	w.WriteString(strings.Join(parts, sep))
}

func (w *sqlWriter) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		c.writeTo(w)
	}
}

// expr copies raw SQL, turning each ? into the next bind from args. Extra ?
// marks beyond len(args) are kept literally.
func (w *sqlWriter) expr(sql string, args []any) {
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' && next < len(args) {
			w.bind(args[next])
			next++
			continue
		}
		w.WriteByte(sql[i])
	}
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.String(), w.args, nil
}
