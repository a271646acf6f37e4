package search

import (
	"fmt"
	"strings"

	"github.com/sells-group/budget-cli/internal/model"
)

// Dialect selects placeholder and collation syntax for SQL rendering.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// SQL renders the WHERE, ORDER BY and LIMIT clauses of the filter against the
// insumos table. All user text is bound as arguments, never interpolated.
func (f *Filter) SQL(d Dialect) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	bind := func(v any) string {
		args = append(args, v)
		if d == DialectPostgres {
			return fmt.Sprintf("$%d", len(args))
		}
		return "?"
	}

	lower := lowerFunc(d)
	b.WriteString("WHERE 1=1")
	for _, t := range f.Contains {
		fmt.Fprintf(&b, ` AND (%s(descricao) LIKE %s ESCAPE '\' OR codigo = %s)`,
			lower, bind(t.Pattern), bind(t.Raw))
	}
	for _, t := range f.Excludes {
		fmt.Fprintf(&b, ` AND %s(descricao) NOT LIKE %s ESCAPE '\'`, lower, bind(t.Pattern))
	}

	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy(f.Sort, d))
	b.WriteString(" LIMIT ")
	b.WriteString(bind(f.Limit))

	return b.String(), args
}

// SQLiteLowerFunc is the Unicode-aware lower-casing function the SQLite store
// registers. SQLite's built-in LOWER only folds ASCII.
const SQLiteLowerFunc = "unicode_lower"

func lowerFunc(d Dialect) string {
	if d == DialectSQLite {
		return SQLiteLowerFunc
	}
	return "LOWER"
}

// orderBy uses binary collation in both dialects so ties and text order
// agree with Filter.SortItems.
func orderBy(mode model.SortMode, d Dialect) string {
	collate := ""
	if d == DialectPostgres {
		collate = ` COLLATE "C"`
	}
	tie := "codigo" + collate + " ASC"
	switch mode {
	case model.SortCostDesc:
		return "custo_ref DESC, " + tie
	case model.SortDescriptionAsc:
		return "descricao" + collate + " ASC, " + tie
	default:
		return "custo_ref ASC, " + tie
	}
}
