package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
)

// MemoryStore is an in-process Store used by tests and the "memory" driver.
// Search evaluates the compiled filter in Go via search.Filter.Apply.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]model.Item
	children map[string][]model.CompositionLink

	// Err, when set, is returned (marked unavailable) by every read.
	Err error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		items:    make(map[string]model.Item),
		children: make(map[string][]model.CompositionLink),
	}
}

func (m *MemoryStore) Ping(_ context.Context) error    { return unavailable(m.Err, "memory: ping") }
func (m *MemoryStore) Migrate(_ context.Context) error { return nil }
func (m *MemoryStore) Close() error                    { return nil }

func (m *MemoryStore) Search(_ context.Context, f *search.Filter) ([]model.Item, error) {
	if m.Err != nil {
		return nil, unavailable(m.Err, "memory: search")
	}
	m.mu.RLock()
	all := make([]model.Item, 0, len(m.items))
	for _, it := range m.items {
		all = append(all, it)
	}
	m.mu.RUnlock()
	return f.Apply(all), nil
}

func (m *MemoryStore) GetItem(_ context.Context, code string) (*model.Item, error) {
	if m.Err != nil {
		return nil, unavailable(m.Err, "memory: get item "+code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[code]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (m *MemoryStore) ChildrenOf(_ context.Context, parentCode string) ([]model.ChildLine, error) {
	if m.Err != nil {
		return nil, unavailable(m.Err, "memory: children of "+parentCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.ChildLine
	for _, l := range m.children[parentCode] {
		line := model.ChildLine{ChildCode: l.ChildCode, Coefficient: l.Coefficient}
		if it, ok := m.items[l.ChildCode]; ok {
			desc, unit := it.Description, it.Unit
			line.Description = &desc
			line.Unit = &unit
			line.ReferenceCost.Decimal = it.ReferenceCost
			line.ReferenceCost.Valid = true
		}
		out = append(out, line)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChildCode < out[j].ChildCode })
	return out, nil
}

func (m *MemoryStore) Stats(_ context.Context) (*CatalogStats, error) {
	if m.Err != nil {
		return nil, unavailable(m.Err, "memory: stats")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := &CatalogStats{Items: len(m.items), Compositions: len(m.children)}
	for _, ls := range m.children {
		st.Links += len(ls)
	}
	return st, nil
}

func (m *MemoryStore) ReplaceCatalog(_ context.Context, items []model.Item, links []model.CompositionLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]model.Item, len(items))
	for _, it := range items {
		m.items[it.Code] = it
	}
	m.children = make(map[string][]model.CompositionLink)
	for _, l := range links {
		m.children[l.ParentCode] = append(m.children[l.ParentCode], l)
	}
	return nil
}
