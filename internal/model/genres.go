package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Genres is an ordered set of genre labels.  It is persisted as a JSON
// array in a single text column.
type Genres []string

// NormalizeGenres trims every label, drops empty ones and removes
// duplicates while keeping the first occurrence.  Duplicates are
// detected case-insensitively so "Jazz" and "jazz" collapse into one.
func NormalizeGenres(in []string) Genres {
	out := make(Genres, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, g := range in {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := strings.ToLower(g)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}

// Value implements driver.Valuer.
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		g = Genres{}
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.  NULL and empty text decode to an empty set.
func (g *Genres) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("genres: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		*g = Genres{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("genres: %w", err)
	}
	*g = Genres(out)
	return nil
}
