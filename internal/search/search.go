// Package search implements case-insensitive substring matching over
// record names.  Matching uses Unicode case folding on NFC-normalised
// text, so "STRASSE" finds "Straße" and "café" finds "Café".
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Named is implemented by every record that can be searched by name.
type Named interface {
	Named() string
}

// Result is the answer to a search: how many records matched and the
// matches themselves, in the order they were supplied.
type Result[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

// Fold returns the case-folded, NFC-normalised form of s.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Match reports whether needle occurs in value, ignoring case.  An empty
// needle matches everything.
func Match(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(value), Fold(needle))
}

// Filter keeps the items whose name contains needle.
func Filter[T Named](items []T, needle string) Result[T] {
	return FilterFunc(items, needle, func(it T) string { return it.Named() })
}

// FilterFunc is Filter with an explicit accessor for the matched field.
func FilterFunc[T any](items []T, needle string, field func(T) string) Result[T] {
	out := make([]T, 0, len(items))
	if needle == "" {
		out = append(out, items...)
		return Result[T]{Count: len(out), Data: out}
	}
	folded := Fold(needle)
	for _, it := range items {
		if strings.Contains(Fold(field(it)), folded) {
			out = append(out, it)
		}
	}
	return Result[T]{Count: len(out), Data: out}
}
