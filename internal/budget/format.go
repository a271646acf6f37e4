package budget

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatBRL renders d as Brazilian reais, e.g. "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + FormatNumber(d)
}

// FormatNumber renders d with two decimals and pt-BR separators.
func FormatNumber(d decimal.Decimal) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
