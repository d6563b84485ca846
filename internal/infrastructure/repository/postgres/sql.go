package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// duplicateColumn reports whether err is a unique violation and, when the
// constraint follows the <table>_<column>_key naming of the migrations,
// which column collided.
func duplicateColumn(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != uniqueViolation {
			return "", false
		}
		return columnFromConstraint(pqErr.Constraint), true
	}
	msg := err.Error()
	if !strings.Contains(msg, "("+uniqueViolation+")") {
		return "", false
	}
	if _, rest, ok := strings.Cut(msg, `constraint "`); ok {
		name, _, _ := strings.Cut(rest, `"`)
		return columnFromConstraint(name), true
	}
	return "", true
}

func columnFromConstraint(name string) string {
	name = strings.TrimSuffix(name, "_key")
	for _, table := range []string{"employees_", "attendance_records_"} {
		if col, ok := strings.CutPrefix(name, table); ok {
			return col
		}
	}
	return ""
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func nullStringValue(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
