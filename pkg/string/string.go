// Package string holds small text helpers shared by request DTOs and models.
package string

import (
	"strings"
	"unicode"
)

// TrimStrings trims whitespace in place on each pointed-to string.
func TrimStrings(ss ...*string) {
	for _, s := range ss {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// NormalizeCountry trims and upper-cases an ISO-3166 alpha-2 code.
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DedupeAndTrimLower trims and lowercases each element, dropping empties and
// duplicates. Order of first occurrence is preserved.
//
//	DedupeAndTrimLower([]string{"  VIP ", "vip", "", "watchlist"})
//	// []string{"vip", "watchlist"}
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// ToSnakeCase converts Go field names to the snake_case used in JSON payloads.
func ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 &&
			(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
