package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type mockRepository struct {
	mu     sync.RWMutex
	themes map[int]Theme
	sets   map[string]Set

	err error
}

func newMockRepository(themes ...Theme) *mockRepository {
	r := &mockRepository{
		themes: make(map[int]Theme),
		sets:   make(map[string]Set),
	}
	for _, t := range themes {
		r.themes[t.ID] = t
	}
	return r
}

func (r *mockRepository) joined(set Set) Set {
	set.Theme = r.themes[set.ThemeID]
	return set
}

func (r *mockRepository) sorted(keep func(Set) bool) []Set {
	var out []Set
	for _, s := range r.sets {
		s = r.joined(s)
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SetNum < out[j].SetNum })
	return out
}

func (r *mockRepository) ListAll(_ context.Context) ([]Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(Set) bool { return true }), nil
}

func (r *mockRepository) GetByNumber(_ context.Context, setNum string) (*Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	set, ok := r.sets[setNum]
	if !ok {
		return nil, ErrSetNotFound
	}
	set = r.joined(set)
	return &set, nil
}

func (r *mockRepository) ListByTheme(_ context.Context, theme string) ([]Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	needle := strings.ToLower(theme)
	sets := r.sorted(func(s Set) bool {
		return strings.Contains(strings.ToLower(s.Theme.Name), needle)
	})
	if len(sets) == 0 {
		return nil, ErrNoSetsFound
	}
	return sets, nil
}

func (r *mockRepository) ListThemes(_ context.Context) ([]Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}
	themes := make([]Theme, 0, len(r.themes))
	for _, t := range r.themes {
		themes = append(themes, t)
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}

func (r *mockRepository) Create(_ context.Context, set *Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if _, exists := r.sets[set.SetNum]; exists {
		return ErrSetExists
	}
	if _, ok := r.themes[set.ThemeID]; !ok {
		return ErrUnknownTheme
	}
	stored := *set
	stored.Theme = Theme{}
	r.sets[set.SetNum] = stored
	return nil
}

func (r *mockRepository) Update(_ context.Context, setNum string, set *Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if _, exists := r.sets[setNum]; !exists {
		return nil
	}
	if _, ok := r.themes[set.ThemeID]; !ok {
		return ErrUnknownTheme
	}
	stored := *set
	stored.SetNum = setNum
	stored.Theme = Theme{}
	r.sets[setNum] = stored
	return nil
}

func (r *mockRepository) Delete(_ context.Context, setNum string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	delete(r.sets, setNum)
	return nil
}
