package mocks

import (
	"context"

	"github.com/kamal-hamza/docup/internal/core/domain"
)

// MockFileSource returns a fixed file list regardless of the requested paths
type MockFileSource struct {
	Files []domain.SelectedFile
	Err   error

	// Requested holds the paths of the last Expand call
	Requested []string
}

// NewMockFileSource creates a mock file source with the given files
func NewMockFileSource(files ...domain.SelectedFile) *MockFileSource {
	return &MockFileSource{Files: files}
}

// Expand returns the configured files
func (m *MockFileSource) Expand(ctx context.Context, paths []string) ([]domain.SelectedFile, error) {
	m.Requested = append([]string(nil), paths...)
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.SelectedFile(nil), m.Files...), nil
}
