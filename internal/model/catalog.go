package model

import "github.com/shopspring/decimal"

// ItemKind tags how a budget entry's unit cost was obtained.
type ItemKind string

const (
	KindItem        ItemKind = "Item"        // leaf insumo priced directly
	KindComposition ItemKind = "Composition" // priced from its child bill
)

// Item is a leaf reference price row from the insumos table.
type Item struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	ReferenceCost  decimal.Decimal `json:"reference_cost"`
	Kind           string          `json:"kind,omitempty"`           // catalog label (tipo)
	Classification string          `json:"classification,omitempty"` // optional classificacao column
}

// CompositionLink is one parent→child row from the composicoes table.
type CompositionLink struct {
	ParentCode  string          `json:"parent_code"`
	ChildCode   string          `json:"child_code"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// ChildLine is a composition child joined (left outer) with its Item row.
// Description, Unit and ReferenceCost are empty when the child has no price row.
type ChildLine struct {
	ChildCode     string              `json:"child_code"`
	Description   *string             `json:"description"`
	Unit          *string             `json:"unit"`
	Coefficient   decimal.Decimal     `json:"coefficient"`
	ReferenceCost decimal.NullDecimal `json:"reference_cost"`
}

// Cost returns coefficient × reference cost, treating a missing price as zero.
func (c ChildLine) Cost() decimal.Decimal {
	if !c.ReferenceCost.Valid {
		return decimal.Zero
	}
	return c.Coefficient.Mul(c.ReferenceCost.Decimal)
}

// Resolution is the effective unit cost of a code as it enters a budget.
type Resolution struct {
	Code     string          `json:"code"`
	Cost     decimal.Decimal `json:"cost"`
	Kind     ItemKind        `json:"kind"`
	Children []ChildLine     `json:"children,omitempty"`
}
