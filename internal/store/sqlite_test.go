package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func newLoadedSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st := newTestSQLiteStore(t)
	items, links := testCatalog()
	require.NoError(t, st.ReplaceCatalog(context.Background(), items, links))
	return st
}

func mustCompile(t *testing.T, q search.Query) *search.Filter {
	t.Helper()
	f, err := search.Compile(q)
	require.NoError(t, err)
	return f
}

func codes(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Code
	}
	return out
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Ping(context.Background()))
}

func TestSQLite_Search(t *testing.T) {
	st := newLoadedSQLiteStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query search.Query
		want  []string
	}{
		{"single term cost ascending", search.Query{Contains: "cimento"}, []string{"C001", "0005", "0001"}},
		{"AND semantics", search.Query{Contains: "cimento portland"}, []string{"0001"}},
		{"case insensitive", search.Query{Contains: "CERAMICO"}, []string{"0004", "0003"}},
		{"star wildcard", search.Query{Contains: "cer*co"}, []string{"0004", "0003"}},
		{"question wildcard", search.Query{Contains: "c?mento branco"}, []string{"0005"}},
		{"exclude", search.Query{Contains: "cimento", Excludes: "BRANCO"}, []string{"C001", "0001"}},
		{"code equality", search.Query{Contains: "0006"}, []string{"0006"}},
		{"cost descending", search.Query{Contains: "ceramico", Sort: model.SortCostDesc}, []string{"0003", "0004"}},
		{"description ascending", search.Query{Contains: "cimento", Sort: model.SortDescriptionAsc}, []string{"C001", "0001", "0005"}},
		{"no match", search.Query{Contains: "telha"}, []string{}},
		{"literal percent", search.Query{Contains: "100%"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.Search(ctx, mustCompile(t, tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestSQLite_Search_MatchesInMemoryFilter(t *testing.T) {
	st := newLoadedSQLiteStore(t)
	items, _ := testCatalog()

	for _, q := range []search.Query{
		{Contains: "cimento"},
		{Contains: "e", Sort: model.SortDescriptionAsc},
		{Contains: "a", Excludes: "cimento", Sort: model.SortCostDesc},
		{Contains: "%"},
	} {
		f := mustCompile(t, q)
		got, err := st.Search(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, codes(f.Apply(items)), codes(got), "query %+v", q)
	}
}

func TestSQLite_Search_TieBreaksByCode(t *testing.T) {
	st := newLoadedSQLiteStore(t)

	// 0005 and 0006 share cost 12.
	got, err := st.Search(context.Background(), mustCompile(t, search.Query{Contains: "e", Excludes: "areia"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"0005", "0006", "0004", "0003", "0001"}, codes(got))
}

func TestSQLite_Search_AccentedUpperCase(t *testing.T) {
	ctx := context.Background()
	items := []model.Item{
		{Code: "87503", Description: "ALVENARIA DE VEDAÇÃO DE BLOCOS CERÂMICOS", Unit: "M2", ReferenceCost: d("65.30")},
		{Code: "87504", Description: "ALVENARIA ESTRUTURAL", Unit: "M2", ReferenceCost: d("80.00")},
	}

	lite := newTestSQLiteStore(t)
	require.NoError(t, lite.ReplaceCatalog(ctx, items, nil))
	mem := NewMemory()
	require.NoError(t, mem.ReplaceCatalog(ctx, items, nil))

	tests := []struct {
		name  string
		query search.Query
		want  []string
	}{
		{name: "contains accented term", query: search.Query{Contains: "vedação"}, want: []string{"87503"}},
		{name: "contains with wildcard", query: search.Query{Contains: "cerâm*"}, want: []string{"87503"}},
		{name: "single char wildcard on accent", query: search.Query{Contains: "veda?ão"}, want: []string{"87503"}},
		{name: "excludes accented term", query: search.Query{Contains: "alvenaria", Excludes: "Vedação"}, want: []string{"87504"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustCompile(t, tt.query)

			got, err := lite.Search(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(got))

			fromMem, err := mem.Search(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(fromMem))
		})
	}
}

func TestSQLite_Search_CapsAt100(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	items := make([]model.Item, 250)
	for i := range items {
		items[i] = model.Item{
			Code:          fmt.Sprintf("T%04d", i),
			Description:   "Tubo PVC soldavel",
			Unit:          "M",
			ReferenceCost: d(fmt.Sprintf("%d.10", 250-i)),
		}
	}
	require.NoError(t, st.ReplaceCatalog(ctx, items, nil))

	got, err := st.Search(ctx, mustCompile(t, search.Query{Contains: "tubo", Limit: 1000}))
	require.NoError(t, err)
	require.Len(t, got, search.MaxResults)
	assert.Equal(t, "T0249", got[0].Code)
	assert.True(t, got[0].ReferenceCost.Equal(d("1.10")))
}

func TestSQLite_GetItem(t *testing.T) {
	st := newLoadedSQLiteStore(t)
	ctx := context.Background()

	it, err := st.GetItem(ctx, "0003")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, "Piso ceramico 45x45", it.Description)
	assert.Equal(t, "M2", it.Unit)
	assert.Equal(t, "Revestimento", it.Classification)
	assert.True(t, it.ReferenceCost.Equal(d("35")))

	missing, err := st.GetItem(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_ChildrenOf(t *testing.T) {
	st := newLoadedSQLiteStore(t)
	ctx := context.Background()

	children, err := st.ChildrenOf(ctx, "C001")
	require.NoError(t, err)
	require.Len(t, children, 3)

	assert.Equal(t, "0001", children[0].ChildCode)
	require.NotNil(t, children[0].Description)
	assert.Equal(t, "Cimento Portland CP-II", *children[0].Description)
	assert.True(t, children[0].Cost().Equal(d("21.25")))

	assert.Equal(t, "0002", children[1].ChildCode)
	assert.True(t, children[1].Cost().Equal(d("3.6")))

	// Child without a price row is kept with empty fields.
	assert.Equal(t, "9999", children[2].ChildCode)
	assert.Nil(t, children[2].Description)
	assert.Nil(t, children[2].Unit)
	assert.False(t, children[2].ReferenceCost.Valid)
	assert.True(t, children[2].Cost().IsZero())

	none, err := st.ChildrenOf(ctx, "0001")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_Stats(t *testing.T) {
	st := newLoadedSQLiteStore(t)

	stats, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &CatalogStats{Items: 7, Links: 3, Compositions: 1}, stats)
}

func TestSQLite_ReplaceCatalog_Replaces(t *testing.T) {
	st := newLoadedSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceCatalog(ctx, []model.Item{
		{Code: "X1", Description: "Telha ceramica", Unit: "UN", ReferenceCost: d("1.5")},
	}, nil))

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &CatalogStats{Items: 1}, stats)

	gone, err := st.GetItem(ctx, "0001")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSQLite_ReplaceCatalog_DuplicateRollsBack(t *testing.T) {
	st := newLoadedSQLiteStore(t)
	ctx := context.Background()

	dup := []model.Item{
		{Code: "X1", Description: "a", ReferenceCost: d("1")},
		{Code: "X1", Description: "b", ReferenceCost: d("2")},
	}
	require.Error(t, st.ReplaceCatalog(ctx, dup, nil))

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Items, "previous catalog kept")
}

func TestSQLite_ClosedStoreIsUnavailable(t *testing.T) {
	st := newLoadedSQLiteStore(t)
	require.NoError(t, st.Close())

	_, err := st.Search(context.Background(), mustCompile(t, search.Query{Contains: "cimento"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrStoreUnavailable))

	_, err = st.GetItem(context.Background(), "0001")
	assert.True(t, errors.Is(err, model.ErrStoreUnavailable))
}
