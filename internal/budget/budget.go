// Package budget accumulates the working budget of one session: ordered lines
// whose totals are always derived from quantity, unit price and BDI.
package budget

import (
	"errors"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/budget-cli/internal/model"
)

var (
	// ErrLineNotFound is returned when a line position does not exist.
	ErrLineNotFound = errors.New("budget line not found")

	// ErrInvalidLine is returned for negative quantities, prices or BDI.
	ErrInvalidLine = errors.New("invalid budget line")
)

var hundred = decimal.NewFromInt(100)

// LineTotal is qty × unit price × (1 + bdi/100).
func LineTotal(qty, price, bdi decimal.Decimal) decimal.Decimal {
	return qty.Mul(price).Mul(decimal.NewFromInt(1).Add(bdi.Div(hundred)))
}

// Budget is a caller-owned, ordered list of budget lines. It is not safe for
// concurrent use; Sessions serializes access per budget.
type Budget struct {
	lines      []model.BudgetLine
	defaultBDI decimal.Decimal
}

// New creates an empty budget whose added lines default to defaultBDI percent.
func New(defaultBDI decimal.Decimal) *Budget {
	return &Budget{defaultBDI: defaultBDI}
}

// DefaultBDI returns the markup applied to lines added without one.
func (b *Budget) DefaultBDI() decimal.Decimal { return b.defaultBDI }

// AddResolved appends a line for a catalog entry at its resolved cost. A zero
// qty means one unit.
func (b *Budget) AddResolved(item model.Item, res *model.Resolution, qty decimal.Decimal) (model.BudgetLine, error) {
	if res == nil {
		return model.BudgetLine{}, eris.Wrap(ErrInvalidLine, "budget: add without resolution")
	}
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	return b.add(model.BudgetLine{
		Code:        res.Code,
		Description: item.Description,
		Kind:        res.Kind,
		Unit:        item.Unit,
		Quantity:    qty,
		UnitPrice:   res.Cost,
		BDI:         b.defaultBDI,
	})
}

// LineInput is a manually typed budget row.
type LineInput struct {
	Code        string           `json:"code"`
	Description string           `json:"description"`
	Kind        model.ItemKind   `json:"kind"`
	Unit        string           `json:"unit"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	BDI         *decimal.Decimal `json:"bdi,omitempty"` // nil = budget default
}

// AddManual appends a line that did not come from the catalog.
func (b *Budget) AddManual(in LineInput) (model.BudgetLine, error) {
	bdi := b.defaultBDI
	if in.BDI != nil {
		bdi = *in.BDI
	}
	return b.add(model.BudgetLine{
		Code:        in.Code,
		Description: in.Description,
		Kind:        in.Kind,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		BDI:         bdi,
	})
}

func (b *Budget) add(l model.BudgetLine) (model.BudgetLine, error) {
	if err := validate(l); err != nil {
		return model.BudgetLine{}, err
	}
	l.Seq = len(b.lines) + 1
	l.Total = LineTotal(l.Quantity, l.UnitPrice, l.BDI)
	b.lines = append(b.lines, l)
	return l, nil
}

// LinePatch carries the edited cells of one line; nil fields are unchanged.
type LinePatch struct {
	Code        *string          `json:"code,omitempty"`
	Description *string          `json:"description,omitempty"`
	Kind        *model.ItemKind  `json:"kind,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	BDI         *decimal.Decimal `json:"bdi,omitempty"`
}

// Update applies p to the line at seq and recomputes its total.
func (b *Budget) Update(seq int, p LinePatch) (model.BudgetLine, error) {
	i, err := b.index(seq)
	if err != nil {
		return model.BudgetLine{}, err
	}
	l := b.lines[i]
	if p.Code != nil {
		l.Code = *p.Code
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Kind != nil {
		l.Kind = *p.Kind
	}
	if p.Unit != nil {
		l.Unit = *p.Unit
	}
	if p.Quantity != nil {
		l.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		l.UnitPrice = *p.UnitPrice
	}
	if p.BDI != nil {
		l.BDI = *p.BDI
	}
	if err := validate(l); err != nil {
		return model.BudgetLine{}, err
	}
	l.Total = LineTotal(l.Quantity, l.UnitPrice, l.BDI)
	b.lines[i] = l
	return l, nil
}

// Remove deletes the line at seq and renumbers the rest 1..n.
func (b *Budget) Remove(seq int) error {
	i, err := b.index(seq)
	if err != nil {
		return err
	}
	b.lines = append(b.lines[:i], b.lines[i+1:]...)
	for j := i; j < len(b.lines); j++ {
		b.lines[j].Seq = j + 1
	}
	return nil
}

// Clear drops every line.
func (b *Budget) Clear() { b.lines = nil }

// Len returns the number of lines.
func (b *Budget) Len() int { return len(b.lines) }

// Lines returns a copy of the lines in order.
func (b *Budget) Lines() []model.BudgetLine {
	out := make([]model.BudgetLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Total is the sum of every line total.
func (b *Budget) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range b.lines {
		sum = sum.Add(l.Total)
	}
	return sum
}

func (b *Budget) index(seq int) (int, error) {
	if seq < 1 || seq > len(b.lines) {
		return 0, eris.Wrapf(ErrLineNotFound, "budget: line %d", seq)
	}
	return seq - 1, nil
}

func validate(l model.BudgetLine) error {
	switch {
	case l.Quantity.IsNegative():
		return eris.Wrap(ErrInvalidLine, "budget: negative quantity")
	case l.UnitPrice.IsNegative():
		return eris.Wrap(ErrInvalidLine, "budget: negative unit price")
	case l.BDI.IsNegative():
		return eris.Wrap(ErrInvalidLine, "budget: negative BDI")
	}
	return nil
}
