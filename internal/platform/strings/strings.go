// Package strings provides small string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route prefix like /meta to a single leading slash and no trailing slash
// the bare root "/" is allowed and returned as is
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	if s == "" {
		panic("route prefix is required")
	}
	return "/" + std.Trim(s, " /")
}
