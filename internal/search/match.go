package search

import (
	"sort"
	"strings"

	"github.com/sells-group/budget-cli/internal/model"
)

// Match evaluates the filter predicates against item in Go, with the same
// semantics the SQL rendering has.
func (f *Filter) Match(item model.Item) bool {
	desc := strings.ToLower(item.Description)
	for _, t := range f.Contains {
		if !likeMatch(t.Pattern, desc) && item.Code != t.Raw {
			return false
		}
	}
	for _, t := range f.Excludes {
		if likeMatch(t.Pattern, desc) {
			return false
		}
	}
	return true
}

// SortItems orders items in place by the filter's sort mode. Ties are broken by code.
func (f *Filter) SortItems(items []model.Item) {
	var less func(a, b model.Item) int
	switch f.Sort {
	case model.SortCostDesc:
		less = func(a, b model.Item) int { return b.ReferenceCost.Cmp(a.ReferenceCost) }
	case model.SortDescriptionAsc:
		less = func(a, b model.Item) int { return strings.Compare(a.Description, b.Description) }
	default:
		less = func(a, b model.Item) int { return a.ReferenceCost.Cmp(b.ReferenceCost) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if c := less(items[i], items[j]); c != 0 {
			return c < 0
		}
		return items[i].Code < items[j].Code
	})
}

// Apply filters, sorts and truncates items, returning a new slice.
func (f *Filter) Apply(items []model.Item) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	f.SortItems(out)
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
