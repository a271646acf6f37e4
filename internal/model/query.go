package model

import "strings"

// SortMode selects the ordering of catalog search results.
type SortMode string

const (
	SortCostAsc        SortMode = "cost_ascending"
	SortCostDesc       SortMode = "cost_descending"
	SortDescriptionAsc SortMode = "description_ascending"
)

// DefaultSortMode is used when no (or an unknown) sort mode is given.
const DefaultSortMode = SortCostAsc

// sortAliases maps accepted spellings, including the worksheet selector labels.
var sortAliases = map[string]SortMode{
	"cost_ascending":        SortCostAsc,
	"cost_asc":              SortCostAsc,
	"custo crescente":       SortCostAsc,
	"cost_descending":       SortCostDesc,
	"cost_desc":             SortCostDesc,
	"custo decrescente":     SortCostDesc,
	"description_ascending": SortDescriptionAsc,
	"description":           SortDescriptionAsc,
	"descrição":             SortDescriptionAsc,
	"descricao":             SortDescriptionAsc,
}

// ParseSortMode returns the SortMode for s and whether s was recognized.
// Unrecognized or empty input yields DefaultSortMode.
func ParseSortMode(s string) (SortMode, bool) {
	mode, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DefaultSortMode, false
	}
	return mode, true
}

// Valid reports whether m is one of the defined sort modes.
func (m SortMode) Valid() bool {
	switch m {
	case SortCostAsc, SortCostDesc, SortDescriptionAsc:
		return true
	}
	return false
}
