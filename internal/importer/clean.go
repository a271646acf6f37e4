package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CleanText flattens tabs and newlines to spaces, trims, and blanks the
// spreadsheet error markers #N/D and #REF!.
func CleanText(s string) string {
	s = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
	s = strings.TrimSpace(s)
	if s == "#N/D" || s == "#REF!" {
		return ""
	}
	return s
}

// ParseNumber reads a cost or coefficient written either the Brazilian way
// ("1.250,50", "R$ 99,18") or with a plain decimal point ("99.18"). A value
// containing a comma is Brazilian: dots are thousands separators. Blank
// text is zero. ok is false when the text is not a number, in which case
// zero is returned.
func ParseNumber(s string) (v decimal.Decimal, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	if s == "" {
		return decimal.Zero, true
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
