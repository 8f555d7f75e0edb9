package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports"
)

// MockExtractor is a mock implementation of the Extractor interface for testing
type MockExtractor struct {
	mu       sync.Mutex
	failures map[string]error
	calls    []string
	inFlight int
	maxSeen  int

	// OnExtract runs during every call, before the outcome is returned
	OnExtract func(file domain.SelectedFile)

	// EmptyResults makes successful calls return a zero result, as for an undecodable reply
	EmptyResults bool
}

// NewMockExtractor creates a mock that accepts every file
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		failures: make(map[string]error),
	}
}

// FailOn makes the mock reject the named file with err
func (m *MockExtractor) FailOn(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = &domain.UploadError{File: name, StatusCode: 500, Detail: "rejected"}
	}
	m.failures[name] = err
}

// Extract records the call and reports progress in two steps
func (m *MockExtractor) Extract(ctx context.Context, file domain.SelectedFile, onProgress ports.ProgressFunc) (*domain.ExtractionResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, file.Name)
	m.inFlight++
	if m.inFlight > m.maxSeen {
		m.maxSeen = m.inFlight
	}
	failure := m.failures[file.Name]
	hook := m.OnExtract
	empty := m.EmptyResults
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if hook != nil {
		hook(file)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if onProgress != nil {
		onProgress(50, 100)
	}
	if failure != nil {
		return nil, failure
	}
	if onProgress != nil {
		onProgress(100, 100)
	}
	if empty {
		return &domain.ExtractionResult{}, nil
	}

	return &domain.ExtractionResult{
		Filename:      file.Name,
		Filetype:      file.MIMEType,
		ExtractedText: fmt.Sprintf("text of %s", file.Name),
		FileID:        "id-" + domain.GenerateSlug(file.Name),
	}, nil
}

// Calls returns the file names in the order they were submitted
func (m *MockExtractor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MaxConcurrent returns the highest number of simultaneous calls observed
func (m *MockExtractor) MaxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxSeen
}
