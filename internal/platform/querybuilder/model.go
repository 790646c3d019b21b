package querybuilder

import (
	"errors"
	"reflect"
	"strings"
)

// InsertModel starts an insert from the exported `db`-tagged fields of a
// struct, in field order. A bad model surfaces from ToSQL.
func InsertModel(table string, model any) *InsertBuilder {
	cols, vals, err := modelColumns(model)
	if err != nil {
		return &InsertBuilder{table: table, err: err}
	}
	return InsertInto(table).Columns(cols...).Values(vals...)
}

func modelColumns(model any) ([]string, []any, error) {
	v := reflect.Indirect(reflect.ValueOf(model))
	if !v.IsValid() {
		return nil, nil, errors.New("querybuilder: model is nil")
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, errors.New("querybuilder: model must be a struct")
	}

	var (
		cols []string
		vals []any
	)
	for _, field := range reflect.VisibleFields(v.Type()) {
		if !field.IsExported() || len(field.Index) > 1 {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, name)
		vals = append(vals, v.FieldByIndex(field.Index).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, errors.New("querybuilder: model has no db columns")
	}
	return cols, vals, nil
}
