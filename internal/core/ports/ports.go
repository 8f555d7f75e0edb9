package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/docup/internal/core/domain"
)

// ProgressFunc receives the number of request bytes sent so far and the total
// request size. total is -1 when the size is unknown.
type ProgressFunc func(sent, total int64)

// Extractor defines the port for the remote text-extraction endpoint
type Extractor interface {
	// Extract submits one file as a multipart request and returns the decoded response.
	// Any transport error or non-success response is returned as an error.
	Extract(ctx context.Context, file domain.SelectedFile, onProgress ProgressFunc) (*domain.ExtractionResult, error)
}

// FileSource defines the port for the host file-picker
type FileSource interface {
	// Expand turns user-provided paths into a flat, ordered list of files.
	// Directories are flattened; the declared MIME type is filled in for each file.
	Expand(ctx context.Context, paths []string) ([]domain.SelectedFile, error)
}

// ResultRepository defines the port for locally kept extraction results
type ResultRepository interface {
	// Save stores a result under its key, replacing any previous one
	Save(ctx context.Context, result domain.StoredResult) error

	// Get retrieves a result by key
	Get(ctx context.Context, key string) (*domain.StoredResult, error)

	// List returns all stored results, newest first
	List(ctx context.Context) ([]domain.StoredResult, error)
}

// ReportRenderer defines the port for rendering a pass summary
type ReportRenderer interface {
	Render(w io.Writer, summary domain.PassSummary) error
}
