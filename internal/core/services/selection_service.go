package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports"
)

// SelectionService admits user-selected files against the allowed type set
type SelectionService struct {
	allowed domain.AllowedTypeSet
	source  ports.FileSource
	logger  *log.Logger
}

// NewSelectionService creates a new selection service
func NewSelectionService(allowed domain.AllowedTypeSet, source ports.FileSource, logger *log.Logger) *SelectionService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SelectionService{
		allowed: allowed,
		source:  source,
		logger:  logger,
	}
}

// NewSession creates an idle upload session with a fresh identifier
func NewSession(windowSize int) *domain.Session {
	return domain.NewSession(uuid.NewString(), windowSize)
}

// SelectionRequest represents a file or folder selection made by the user
type SelectionRequest struct {
	Paths []string
}

// SelectionResult is the outcome of filtering a raw selection
type SelectionResult struct {
	Raw      int
	Admitted []domain.SelectedFile
	Notice   domain.Notice
}

// HasNotice reports whether some files were excluded
func (r *SelectionResult) HasNotice() bool {
	return len(r.Admitted) < r.Raw
}

// Filter keeps, in order, the files whose declared type is allowed
func (s *SelectionService) Filter(raw []domain.SelectedFile) *SelectionResult {
	result := &SelectionResult{
		Raw:      len(raw),
		Admitted: make([]domain.SelectedFile, 0, len(raw)),
	}

	for _, f := range raw {
		if s.allowed.Contains(f.MIMEType) {
			result.Admitted = append(result.Admitted, f)
			continue
		}
		result.Notice.Excluded = append(result.Notice.Excluded, f)
		s.logger.Debug("file excluded", "file", f.Name, "type", f.MIMEType)
	}

	return result
}

// Execute expands the requested paths through the host file source and filters them
func (s *SelectionService) Execute(ctx context.Context, req SelectionRequest) (*SelectionResult, error) {
	if s.source == nil {
		return nil, errors.New("no file source configured")
	}

	raw, err := s.source.Expand(ctx, req.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}

	result := s.Filter(raw)
	s.logger.Info("selection filtered", "selected", result.Raw, "admitted", len(result.Admitted))
	return result, nil
}

// Apply replaces the session's admitted set with the result
func (s *SelectionService) Apply(session *domain.Session, result *SelectionResult) error {
	if session == nil {
		return domain.ErrNilSession
	}
	return session.Admit(result.Admitted, result.Notice)
}

// Select expands, filters and applies a selection in one step
func (s *SelectionService) Select(ctx context.Context, session *domain.Session, req SelectionRequest) (*SelectionResult, error) {
	if session == nil {
		return nil, domain.ErrNilSession
	}
	if session.Uploading() {
		return nil, domain.ErrUploadInProgress
	}

	result, err := s.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(session, result); err != nil {
		return nil, err
	}
	return result, nil
}
