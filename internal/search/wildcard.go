package search

import "strings"

// LIKE pattern tokens. likeEscape precedes a literal '%', '_' or '\'.
const (
	likeAnyRun    = '%'
	likeAnySingle = '_'
	likeEscape    = '\\'
)

// TranslateWildcards rewrites user wildcards into LIKE tokens: '*' matches any
// run of characters and '?' exactly one. Every other character is literal,
// so LIKE metacharacters typed by the user are escaped.
func TranslateWildcards(term string) string {
	var b strings.Builder
	b.Grow(len(term) + 4)
	for _, r := range term {
		switch r {
		case '*':
			b.WriteRune(likeAnyRun)
		case '?':
			b.WriteRune(likeAnySingle)
		case likeAnyRun, likeAnySingle, likeEscape:
			b.WriteRune(likeEscape)
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeLike escapes s so that a LIKE pattern matches it literally.
func EscapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case likeAnyRun, likeAnySingle, likeEscape:
			b.WriteRune(likeEscape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// likeMatch reports whether s matches the LIKE pattern (with '\' escapes).
// Comparison is exact; callers lower-case both sides for case-insensitivity.
func likeMatch(pattern, s string) bool {
	p := []rune(pattern)
	t := []rune(s)

	// Iterative matcher with single-point backtracking on the last '%'.
	pi, ti := 0, 0
	star, mark := -1, 0
	for ti < len(t) {
		if pi < len(p) {
			switch {
			case p[pi] == likeAnyRun:
				star, mark = pi, ti
				pi++
				continue
			case p[pi] == likeEscape && pi+1 < len(p):
				if p[pi+1] == t[ti] {
					pi += 2
					ti++
					continue
				}
			case p[pi] == likeAnySingle || p[pi] == t[ti]:
				pi++
				ti++
				continue
			}
		}
		if star < 0 {
			return false
		}
		pi = star + 1
		mark++
		ti = mark
	}
	for pi < len(p) && p[pi] == likeAnyRun {
		pi++
	}
	return pi == len(p)
}
