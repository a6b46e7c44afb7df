package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// filterColumns lists the text columns that may be used for substring
// filtering.  Column names are never taken from caller input directly.
var filterColumns = map[string]string{
	"name":  "name",
	"city":  "city",
	"state": "state",
}

// likeEscape is the escape character used in LIKE patterns.  A
// backslash would need different quoting in MySQL and PostgreSQL.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// containsPattern builds a LIKE pattern matching any value that contains
// needle, lower-cased to line up with LOWER(column) on the left side.
func containsPattern(needle string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(needle)) + "%"
}

// filterQuery selects the candidate rows for a substring filter on col.
// Where the database cannot fold case beyond ASCII every row is a
// candidate and the caller's Unicode check does all the narrowing.
func filterQuery(d dialect, columns, table, col, needle string) (string, []any) {
	if d.asciiLower {
		return "SELECT " + columns + " FROM " + table + " ORDER BY id", nil
	}
	q := "SELECT " + columns + " FROM " + table + " WHERE LOWER(" + col + ") LIKE ? ESCAPE '" + likeEscape + "' ORDER BY id"
	return q, []any{containsPattern(needle)}
}

func filterColumn(field string) (string, error) {
	col, ok := filterColumns[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return "", invalid("field", "unsupported filter field "+field)
	}
	return col, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
