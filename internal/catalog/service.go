// Package catalog answers searches against the price catalog and resolves
// the effective unit cost of a code, rolling compositions up one level.
package catalog

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
	"github.com/sells-group/budget-cli/internal/store"
)

// Service is the read side of the catalog. It is safe for concurrent use as
// long as the underlying store is.
type Service struct {
	store store.Store
	limit int
}

// Option configures a Service.
type Option func(*Service)

// WithMaxResults lowers the row cap for searches that don't set a limit.
// Values outside 1..search.MaxResults are ignored.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= search.MaxResults {
			s.limit = n
		}
	}
}

// NewService creates a catalog service over st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, limit: search.MaxResults}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search compiles q and runs it. Empty contains text returns ErrEmptyQuery
// without touching the store; a query that matches nothing returns an empty
// slice and no error.
func (s *Service) Search(ctx context.Context, q search.Query) ([]model.Item, error) {
	if q.Limit <= 0 {
		q.Limit = s.limit
	}
	f, err := search.Compile(q)
	if err != nil {
		return nil, err
	}

	items, err := s.store.Search(ctx, f)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: search")
	}

	zap.L().Debug("catalog: search",
		zap.String("contains", q.Contains),
		zap.String("excludes", q.Excludes),
		zap.String("sort", string(f.Sort)),
		zap.Int("rows", len(items)),
	)
	return items, nil
}

// Resolve returns the effective unit cost of code. A code with composition
// links is a Composition costing the sum of coefficient × child reference
// cost, where a child without a price row contributes zero. Otherwise a
// priced item costs its own reference cost. Only direct children are
// considered; a child that is itself a composition counts at its own
// reference cost.
func (s *Service) Resolve(ctx context.Context, code string) (*model.Resolution, error) {
	children, err := s.store.ChildrenOf(ctx, code)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: children of %s", code)
	}
	if len(children) > 0 {
		total := decimal.Zero
		for _, c := range children {
			total = total.Add(c.Cost())
		}
		return &model.Resolution{Code: code, Cost: total, Kind: model.KindComposition, Children: children}, nil
	}

	it, err := s.store.GetItem(ctx, code)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: get item %s", code)
	}
	if it == nil {
		return nil, eris.Wrapf(ErrItemNotFound, "catalog: resolve %s", code)
	}
	return &model.Resolution{Code: code, Cost: it.ReferenceCost, Kind: model.KindItem}, nil
}

// Entry is a code ready to become a budget line: its catalog row (if any)
// and its resolved cost.
type Entry struct {
	Item       model.Item        `json:"item"`
	Resolution *model.Resolution `json:"resolution"`
}

// Describe resolves code and attaches its catalog row. A composition parent
// without a row of its own gets an empty description and unit.
func (s *Service) Describe(ctx context.Context, code string) (*Entry, error) {
	res, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	e := &Entry{Item: model.Item{Code: code}, Resolution: res}

	it, err := s.store.GetItem(ctx, code)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: describe %s", code)
	}
	if it != nil {
		e.Item = *it
	}
	return e, nil
}

// Children returns the direct composition lines of code; empty for a leaf.
func (s *Service) Children(ctx context.Context, code string) ([]model.ChildLine, error) {
	children, err := s.store.ChildrenOf(ctx, code)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: children of %s", code)
	}
	return children, nil
}

// Stats reports catalog counts after checking the store is reachable.
func (s *Service) Stats(ctx context.Context) (*store.CatalogStats, error) {
	if err := s.store.Ping(ctx); err != nil {
		return nil, eris.Wrap(err, "catalog: ping")
	}
	st, err := s.store.Stats(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: stats")
	}
	return st, nil
}
