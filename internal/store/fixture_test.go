package store

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/budget-cli/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testCatalog is a small price base shared by the store tests. C001 has a
// child (9999) that has no price row.
func testCatalog() ([]model.Item, []model.CompositionLink) {
	items := []model.Item{
		{Code: "0001", Description: "Cimento Portland CP-II", Unit: "SC", ReferenceCost: d("42.5"), Kind: "Material"},
		{Code: "0002", Description: "Areia media lavada", Unit: "M3", ReferenceCost: d("90"), Kind: "Material"},
		{Code: "0003", Description: "Piso ceramico 45x45", Unit: "M2", ReferenceCost: d("35"), Kind: "Material", Classification: "Revestimento"},
		{Code: "0004", Description: "Revestimento ceramico parede", Unit: "M2", ReferenceCost: d("28"), Kind: "Material"},
		{Code: "0005", Description: "Cimento branco", Unit: "KG", ReferenceCost: d("12"), Kind: "Material"},
		{Code: "0006", Description: "Betoneira 400 L", Unit: "H", ReferenceCost: d("12"), Kind: "Equipamento"},
		{Code: "C001", Description: "Argamassa de cimento e areia", Unit: "M3", ReferenceCost: d("0"), Kind: "Composicao"},
	}
	links := []model.CompositionLink{
		{ParentCode: "C001", ChildCode: "0002", Coefficient: d("0.04")},
		{ParentCode: "C001", ChildCode: "0001", Coefficient: d("0.5")},
		{ParentCode: "C001", ChildCode: "9999", Coefficient: d("2")},
	}
	return items, links
}
