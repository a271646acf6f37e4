package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sells-group/budget-cli/internal/model"
)

// exportHeaders is the column set of an exported budget.
var exportHeaders = []string{"Item", "Código", "Descrição", "Tipo", "Unidade", "Qtd", "Preço Unit.", "BDI (%)", "Total"}

// ExportInfo labels an exported budget.
type ExportInfo struct {
	Title     string
	CreatedAt time.Time
}

func (e ExportInfo) title() string {
	if e.Title == "" {
		return "Orçamento"
	}
	return e.Title
}

func (e ExportInfo) date() string {
	t := e.CreatedAt
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("02/01/2006")
}

// snapshot is the data both exporters render.
type snapshot struct {
	lines []model.BudgetLine
	total decimal.Decimal
}

func snapshotOf(b *Budget) snapshot {
	return snapshot{lines: b.Lines(), total: b.Total()}
}
