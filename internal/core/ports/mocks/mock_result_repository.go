package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kamal-hamza/docup/internal/core/domain"
)

// MockResultRepository is an in-memory ResultRepository
type MockResultRepository struct {
	mu      sync.RWMutex
	results map[string]domain.StoredResult

	// SaveErr, when set, is returned by every Save call
	SaveErr error
}

// NewMockResultRepository creates an empty mock repository
func NewMockResultRepository() *MockResultRepository {
	return &MockResultRepository{
		results: make(map[string]domain.StoredResult),
	}
}

// Save stores the result
func (m *MockResultRepository) Save(ctx context.Context, result domain.StoredResult) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.Key()] = result
	return nil
}

// Get retrieves a result by key
func (m *MockResultRepository) Get(ctx context.Context, key string) (*domain.StoredResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.results[key]
	if !ok {
		return nil, fmt.Errorf("result not found: %s", key)
	}
	return &r, nil
}

// List returns all results, newest first
func (m *MockResultRepository) List(ctx context.Context) ([]domain.StoredResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.StoredResult, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// Count returns the number of stored results
func (m *MockResultRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}
