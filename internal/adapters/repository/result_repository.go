package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports"
	"github.com/kamal-hamza/docup/pkg/vault"
)

// FileResultRepository keeps extraction results in a JSON manifest inside the vault
type FileResultRepository struct {
	manifestPath string
	mu           sync.RWMutex
	cache        map[string]domain.StoredResult
	loaded       bool
}

// NewFileResultRepository creates a repository backed by the vault's results directory
func NewFileResultRepository(v *vault.Vault) *FileResultRepository {
	return &FileResultRepository{
		manifestPath: v.ManifestPath(),
		cache:        make(map[string]domain.StoredResult),
	}
}

var _ ports.ResultRepository = (*FileResultRepository)(nil)

// Load reads the manifest from disk
func (r *FileResultRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *FileResultRepository) loadLocked() error {
	if r.loaded {
		return nil
	}

	data, err := os.ReadFile(r.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			r.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	if err := json.Unmarshal(data, &r.cache); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	r.loaded = true
	return nil
}

// Save persists a result to the manifest
func (r *FileResultRepository) Save(ctx context.Context, result domain.StoredResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(); err != nil {
		return err
	}
	r.cache[result.Key()] = result
	return r.flushLocked()
}

// flushLocked writes the cache to disk; the caller holds the write lock
func (r *FileResultRepository) flushLocked() error {
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.manifestPath), 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	tmp := r.manifestPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, r.manifestPath)
}

// Get retrieves a result by key
func (r *FileResultRepository) Get(ctx context.Context, key string) (*domain.StoredResult, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.cache[key]
	if !ok {
		return nil, fmt.Errorf("result %s: %w", key, os.ErrNotExist)
	}
	return &result, nil
}

// List returns all results, newest first
func (r *FileResultRepository) List(ctx context.Context) ([]domain.StoredResult, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.StoredResult, 0, len(r.cache))
	for _, result := range r.cache {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].UploadedAt.Equal(results[j].UploadedAt) {
			return results[i].Key() < results[j].Key()
		}
		return results[i].UploadedAt.After(results[j].UploadedAt)
	})

	return results, nil
}
