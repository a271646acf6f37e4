package model

import "github.com/shopspring/decimal"

// BudgetLine is one row of a working budget. Total is always derived from
// Quantity, UnitPrice and BDI and is never edited directly.
type BudgetLine struct {
	Seq         int             `json:"item"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Kind        ItemKind        `json:"kind"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BDI         decimal.Decimal `json:"bdi"`
	Total       decimal.Decimal `json:"total"`
}
