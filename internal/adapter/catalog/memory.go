// Package catalog holds the in-memory meal catalog.
package catalog

import (
	"sort"
	"sync"

	domain "github.com/dulcecostawork-hub/minifood-api/internal/entity"
)

// seed returns the fixed catalog restored by Reset. Meal 3 ships with zero
// stock to keep the out-of-stock path reachable from a fresh state.
func seed() []domain.Meal {
	return []domain.Meal{
		{ID: 1, Name: "Massa à Bolonhesa", Price: 11.90, Stock: 5},
		{ID: 2, Name: "Salada Mediterrânica", Price: 9.50, Stock: 3},
		{ID: 3, Name: "Caril de Frango", Price: 12.50, Stock: 0},
		{ID: 4, Name: "Hambúrguer Clássico", Price: 10.90, Stock: 8},
	}
}

// Store implements usecase.Catalog in memory. Go serves requests in
// parallel, so the map is mutex-guarded; the checkout pipeline additionally
// serializes its whole validate-then-commit pass above this layer.
type Store struct {
	mu    sync.RWMutex
	meals map[int]domain.Meal
}

func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// ListAll returns meal snapshots ordered by id.
func (s *Store) ListAll() []domain.Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Meal, 0, len(s.meals))
	for _, m := range s.meals {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) FindByID(id int) (domain.Meal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[id]
	return m, ok
}

// Reset discards all prior mutations and restores the seed.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meals = make(map[int]domain.Meal)
	for _, m := range seed() {
		s.meals[m.ID] = m
	}
}

// DecrementStock reduces the stock of one meal. Contract: the caller has
// already confirmed qty <= current stock in the same serialized checkout
// pass, so no re-validation happens here.
func (s *Store) DecrementStock(id, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[id]
	if !ok {
		return
	}
	m.Stock -= qty
	s.meals[id] = m
}
