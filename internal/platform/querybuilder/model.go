package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// readonlyOption marks a column the database fills in (serial ids,
// soft-delete stamps). It is selected but never inserted.
const readonlyOption = "readonly"

type modelField struct {
	column   string
	readonly bool
	value    any
}

// InsertModel renders a single-row INSERT from the db tags of model.
// Columns tagged `db:"name,readonly"` are skipped.
func InsertModel(table string, model any) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	fields, err := modelFields(model)
	if err != nil {
		return "", nil, err
	}

	var w sqlWriter
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		if !f.readonly {
			cols = append(cols, f.column)
		}
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model has no writable db columns")
	}

	w.WriteString("INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (")
	first := true
	for _, f := range fields {
		if f.readonly {
			continue
		}
		if !first {
			w.WriteString(", ")
		}
		first = false
		w.bind(f.value)
	}
	w.WriteString(")")

	return w.String(), w.args, nil
}

func modelFields(model any) ([]modelField, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	out := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		out = append(out, modelField{
			column:   name,
			readonly: strings.TrimSpace(opts) == readonlyOption,
			value:    value.Field(i).Interface(),
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("model has no db columns")
	}
	return out, nil
}
