package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one predicate of a WHERE clause using $n placeholders.
type Condition interface {
	appendSQL(w *sqlWriter)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func (c compareCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column + " " + c.op + " ")
	w.bind(c.value)
}

type betweenCondition struct {
	column string
	lo, hi any
}

// Between matches lo <= column <= hi.
func Between(column string, lo, hi any) Condition {
	return betweenCondition{column: column, lo: lo, hi: hi}
}

func (c betweenCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column + " BETWEEN ")
	w.bind(c.lo)
	w.WriteString(" AND ")
	w.bind(c.hi)
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) appendSQL(w *sqlWriter) {
	w.WriteString(c.column + " IS NULL")
}

// sqlWriter accumulates query text and positional arguments.
type sqlWriter struct {
	strings.Builder
	args []any
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.WriteString("$" + strconv.Itoa(len(w.args)))
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	err     error
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

// SelectModel selects every db-tagged column of model, readonly ones included.
func SelectModel(model any) *SelectBuilder {
	fields, err := modelFields(model)
	b := &SelectBuilder{err: err}
	for _, f := range fields {
		b.columns = append(b.columns, f.column)
	}
	return b
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var w sqlWriter
	w.WriteString("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	for i, c := range b.where {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		c.appendSQL(&w)
	}
	if len(b.orderBy) > 0 {
		w.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}

	return w.String(), w.args, nil
}
