package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
	"github.com/sells-group/budget-cli/internal/store"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemory()
	items := []model.Item{
		{Code: "A", Description: "Tijolo ceramico 9 furos", Unit: "UN", ReferenceCost: d("10.0")},
		{Code: "B", Description: "Argamassa pronta", Unit: "KG", ReferenceCost: d("5.0")},
		{Code: "L1", Description: "Cimento Portland", Unit: "SC", ReferenceCost: d("42.50")},
		{Code: "P", Description: "Alvenaria de tijolo ceramico", Unit: "M2", ReferenceCost: d("0")},
		{Code: "Q", Description: "Betoneira 400 L", Unit: "H", ReferenceCost: d("7")},
		{Code: "N", Description: "Chapisco com insumo faltante", Unit: "M2", ReferenceCost: d("0")},
		{Code: "CP", Description: "Cerca com alvenaria", Unit: "M", ReferenceCost: d("100")},
	}
	links := []model.CompositionLink{
		{ParentCode: "P", ChildCode: "A", Coefficient: d("2")},
		{ParentCode: "P", ChildCode: "B", Coefficient: d("1")},
		{ParentCode: "N", ChildCode: "B", Coefficient: d("3")},
		{ParentCode: "N", ChildCode: "GHOST", Coefficient: d("4")},
		// Parent without a row of its own.
		{ParentCode: "ORPHAN", ChildCode: "A", Coefficient: d("1.5")},
		// Nested composition: P is counted at its own reference cost.
		{ParentCode: "CP", ChildCode: "P", Coefficient: d("2")},
	}
	require.NoError(t, st.ReplaceCatalog(context.Background(), items, links))
	return NewService(st), st
}

func TestResolve_CompositionRollup(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve(context.Background(), "P")
	require.NoError(t, err)
	assert.Equal(t, model.KindComposition, res.Kind)
	assert.True(t, res.Cost.Equal(d("25.0")), "got %s", res.Cost)
	assert.Len(t, res.Children, 2)
}

func TestResolve_Leaf(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, model.KindItem, res.Kind)
	assert.True(t, res.Cost.Equal(d("42.50")))
	assert.Empty(t, res.Children)
}

func TestResolve_MissingChildContributesZero(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve(context.Background(), "N")
	require.NoError(t, err)
	assert.Equal(t, model.KindComposition, res.Kind)
	assert.True(t, res.Cost.Equal(d("15")), "got %s", res.Cost)
}

func TestResolve_OneLevelOnly(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve(context.Background(), "CP")
	require.NoError(t, err)
	// 2 × P's reference cost (0), not 2 × P's rolled-up 25.
	assert.True(t, res.Cost.IsZero(), "got %s", res.Cost)
}

func TestResolve_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, code := range []string{"P", "L1", "N"} {
		first, err := svc.Resolve(ctx, code)
		require.NoError(t, err)
		second, err := svc.Resolve(ctx, code)
		require.NoError(t, err)
		assert.True(t, first.Cost.Equal(second.Cost))
		assert.Equal(t, first.Kind, second.Kind)
	}
}

func TestResolve_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Resolve(context.Background(), "ZZZ")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnavailable(err))
	assert.Contains(t, err.Error(), "ZZZ")
}

func TestResolve_StoreUnavailable(t *testing.T) {
	svc, st := newTestService(t)
	st.Err = fmt.Errorf("connection reset")

	_, err := svc.Resolve(context.Background(), "P")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsNotFound(err))
}

func TestDescribe(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.Describe(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, "Alvenaria de tijolo ceramico", e.Item.Description)
	assert.Equal(t, "M2", e.Item.Unit)
	assert.True(t, e.Resolution.Cost.Equal(d("25")))

	orphan, err := svc.Describe(ctx, "ORPHAN")
	require.NoError(t, err)
	assert.Equal(t, "ORPHAN", orphan.Item.Code)
	assert.Empty(t, orphan.Item.Description)
	assert.True(t, orphan.Resolution.Cost.Equal(d("15")))

	_, err = svc.Describe(ctx, "ZZZ")
	assert.True(t, IsNotFound(err))
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query search.Query
		want  []string
	}{
		{"and semantics", search.Query{Contains: "tijolo ceramico"}, []string{"P", "A"}},
		{"star", search.Query{Contains: "ceram*"}, []string{"P", "A"}},
		{"exclude any case", search.Query{Contains: "4*", Excludes: "betoneira"}, []string{}},
		{"cost descending", search.Query{Contains: "a", Sort: model.SortCostDesc}, []string{"CP", "L1", "A", "Q", "B", "N", "P"}},
		{"code", search.Query{Contains: "L1"}, []string{"L1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.Search(ctx, tt.query)
			require.NoError(t, err)
			got := make([]string, len(items))
			for i, it := range items {
				got[i] = it.Code
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, st := newTestService(t)
	// The store is never reached.
	st.Err = fmt.Errorf("should not be called")

	items, err := svc.Search(context.Background(), search.Query{Contains: "  ", Excludes: "x"})
	assert.Nil(t, items)
	assert.True(t, IsEmptyQuery(err))
	assert.False(t, IsUnavailable(err))
}

func TestSearch_NeverMoreThanMax(t *testing.T) {
	st := store.NewMemory()
	items := make([]model.Item, 300)
	for i := range items {
		items[i] = model.Item{Code: fmt.Sprintf("X%03d", i), Description: "Prego 18x27", ReferenceCost: d("1")}
	}
	require.NoError(t, st.ReplaceCatalog(context.Background(), items, nil))

	got, err := NewService(st).Search(context.Background(), search.Query{Contains: "prego"})
	require.NoError(t, err)
	assert.Len(t, got, search.MaxResults)

	got, err = NewService(st, WithMaxResults(20)).Search(context.Background(), search.Query{Contains: "prego"})
	require.NoError(t, err)
	assert.Len(t, got, 20)

	got, err = NewService(st, WithMaxResults(500)).Search(context.Background(), search.Query{Contains: "prego"})
	require.NoError(t, err)
	assert.Len(t, got, search.MaxResults)
}

func TestSearch_StoreUnavailable(t *testing.T) {
	svc, st := newTestService(t)
	st.Err = fmt.Errorf("db down")

	_, err := svc.Search(context.Background(), search.Query{Contains: "cimento"})
	assert.True(t, IsUnavailable(err))
}

func TestStats(t *testing.T) {
	svc, st := newTestService(t)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Items)
	assert.Equal(t, 6, stats.Links)
	assert.Equal(t, 4, stats.Compositions)

	st.Err = fmt.Errorf("gone")
	_, err = svc.Stats(context.Background())
	assert.True(t, IsUnavailable(err))
}
