// Package search compiles the worksheet's "contains" / "does not contain" text
// into a structured, parameterized catalog filter.
package search

import (
	"strings"

	"github.com/sells-group/budget-cli/internal/model"
)

// MaxResults caps every catalog search regardless of how many rows match.
const MaxResults = 100

// Query is the raw user input of a catalog search.
type Query struct {
	Contains string         `json:"contains"`
	Excludes string         `json:"excludes"`
	Sort     model.SortMode `json:"sort"`
	Limit    int            `json:"limit,omitempty"` // 0 = MaxResults
}

// ContainsTerm matches when the description matches Pattern (case-insensitive)
// or the code equals Raw exactly.
type ContainsTerm struct {
	Raw     string
	Pattern string // LIKE pattern, lower-cased and wrapped in %...%
}

// ExcludeTerm matches when the description does NOT contain Raw (case-insensitive).
type ExcludeTerm struct {
	Raw     string
	Pattern string // LIKE pattern with Raw escaped literally, wrapped in %...%
}

// Filter is a compiled query: every contains-term AND every exclude-term must hold.
type Filter struct {
	Contains []ContainsTerm
	Excludes []ExcludeTerm
	Sort     model.SortMode
	Limit    int
}

// Compile turns q into a Filter. It returns model.ErrEmptyQuery when q has no
// contains-term; exclude-only searches are not supported.
func Compile(q Query) (*Filter, error) {
	tokens := strings.Fields(q.Contains)
	if len(tokens) == 0 {
		return nil, model.ErrEmptyQuery
	}

	f := &Filter{
		Sort:  q.Sort,
		Limit: clampLimit(q.Limit),
	}
	if !f.Sort.Valid() {
		f.Sort = model.DefaultSortMode
	}

	for _, tok := range tokens {
		f.Contains = append(f.Contains, ContainsTerm{
			Raw:     tok,
			Pattern: "%" + strings.ToLower(TranslateWildcards(tok)) + "%",
		})
	}
	for _, tok := range strings.Fields(q.Excludes) {
		f.Excludes = append(f.Excludes, ExcludeTerm{
			Raw:     tok,
			Pattern: "%" + strings.ToLower(EscapeLike(tok)) + "%",
		})
	}
	return f, nil
}

func clampLimit(n int) int {
	if n <= 0 || n > MaxResults {
		return MaxResults
	}
	return n
}
