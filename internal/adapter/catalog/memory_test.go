package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedState(t *testing.T) {
	s := NewStore()

	meals := s.ListAll()
	require.Len(t, meals, 4)

	assert.Equal(t, 1, meals[0].ID)
	assert.Equal(t, "Massa à Bolonhesa", meals[0].Name)
	assert.Equal(t, 11.90, meals[0].Price)
	assert.Equal(t, 5, meals[0].Stock)

	// meal 3 is seeded sold out
	assert.Equal(t, 0, meals[2].Stock)
}

func TestListAllOrderedAndDetached(t *testing.T) {
	s := NewStore()

	meals := s.ListAll()
	for i := 1; i < len(meals); i++ {
		assert.Less(t, meals[i-1].ID, meals[i].ID)
	}

	// mutating the snapshot must not leak into the store
	meals[0].Stock = 999
	m, ok := s.FindByID(1)
	require.True(t, ok)
	assert.Equal(t, 5, m.Stock)
}

func TestFindByIDMiss(t *testing.T) {
	s := NewStore()

	_, ok := s.FindByID(99)
	assert.False(t, ok)
}

func TestDecrementStock(t *testing.T) {
	s := NewStore()

	s.DecrementStock(4, 3)
	m, ok := s.FindByID(4)
	require.True(t, ok)
	assert.Equal(t, 5, m.Stock)
}

func TestResetIsIdempotent(t *testing.T) {
	s := NewStore()
	s.DecrementStock(1, 5)
	s.DecrementStock(4, 2)

	s.Reset()
	first := s.ListAll()

	s.Reset()
	second := s.ListAll()

	assert.Equal(t, first, second)
	m, _ := s.FindByID(1)
	assert.Equal(t, 5, m.Stock)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()

	// 8 units of meal 4; 8 goroutines take one each while readers churn
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.DecrementStock(4, 1)
		}()
		go func() {
			defer wg.Done()
			_ = s.ListAll()
		}()
	}
	wg.Wait()

	m, _ := s.FindByID(4)
	assert.Equal(t, 0, m.Stock)
}
