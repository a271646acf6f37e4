package api

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/store"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports store reachability and catalog size.
type HealthResponse struct {
	Status  string              `json:"status"`
	Catalog *store.CatalogStats `json:"catalog,omitempty"`
}

// SearchResponse carries search rows. EmptyQuery is true when no contains
// text was given and no search ran, as opposed to a search with no matches.
type SearchResponse struct {
	EmptyQuery bool         `json:"empty_query"`
	Sort       string       `json:"sort,omitempty"`
	Items      []model.Item `json:"items"`
}

// ItemResponse is a code's catalog row with its resolved cost.
type ItemResponse struct {
	Item       model.Item        `json:"item"`
	Resolution *model.Resolution `json:"resolution"`
}

// CreateBudgetRequest optionally overrides the default BDI percent.
type CreateBudgetRequest struct {
	BDI *decimal.Decimal `json:"bdi,omitempty"`
}

// BudgetResponse is a session budget snapshot.
type BudgetResponse struct {
	ID    string             `json:"id"`
	BDI   decimal.Decimal    `json:"bdi"`
	Lines []model.BudgetLine `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

// AddLineRequest adds either a catalog code (resolved server side) or a
// manually typed line.
type AddLineRequest struct {
	Code     string            `json:"code,omitempty"`
	Quantity decimal.Decimal   `json:"quantity"`
	Manual   *budget.LineInput `json:"manual,omitempty"`
}

func toBudgetResponse(id string, b *budget.Budget) BudgetResponse {
	return BudgetResponse{
		ID:    id,
		BDI:   b.DefaultBDI(),
		Lines: b.Lines(),
		Total: b.Total(),
	}
}
