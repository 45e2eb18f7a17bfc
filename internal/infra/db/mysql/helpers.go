package mysql

import (
	"database/sql"
	"strings"
)

// nullString maps an empty/whitespace string to SQL NULL
func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
