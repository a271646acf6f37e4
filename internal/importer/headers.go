package importer

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// Column names of the two worksheets after normalization.
const (
	colCode           = "codigo"
	colDescription    = "descricao"
	colKind           = "tipo"
	colUnit           = "unidade"
	colCost           = "custo_ref"
	colClassification = "classificacao"

	colParent      = "codigo_pai"
	colChild       = "codigo_filho"
	colCoefficient = "quantidade"
)

var itemRenames = map[string]string{
	"código":               colCode,
	"descrição":            colDescription,
	"custo":                colCost,
	"classificacao insumo": colClassification,
	"classificação":        colClassification,
}

var compositionRenames = map[string]string{
	"código da composição": colParent,
	"código do item":       colChild,
	"coeficiente":          colCoefficient,
}

var (
	itemRequired        = []string{colCode, colDescription, colKind, colUnit, colCost}
	compositionRequired = []string{colParent, colChild, colCoefficient}
)

// normalizeHeader lower-cases and trims a header cell. NFC folds decomposed
// accents so "código" typed either way hits the rename table.
func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(h)))
}

// columnIndex maps normalized, renamed header names to their positions. The
// first occurrence of a repeated name wins.
type columnIndex map[string]int

func indexHeader(header []string, renames map[string]string, required []string, sheet string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if r, ok := renames[name]; ok {
			name = r
		}
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("importer: sheet %q is missing column %q", sheet, col)
		}
	}
	return idx, nil
}

// get returns the cell under col, or "" when the row is short or the column absent.
func (c columnIndex) get(row []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
