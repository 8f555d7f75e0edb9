package services

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports"
)

// UploadService submits the admitted files of a session one at a time
type UploadService struct {
	extractor    ports.Extractor
	results      ports.ResultRepository
	logger       *log.Logger
	mode         ProgressMode
	rampStep     float64
	rampInterval time.Duration
	now          func() time.Time
}

// UploadOption configures an UploadService
type UploadOption func(*UploadService)

// WithResultRepository keeps every successful extraction result in repo
func WithResultRepository(repo ports.ResultRepository) UploadOption {
	return func(s *UploadService) { s.results = repo }
}

// WithLogger sets the service logger
func WithLogger(logger *log.Logger) UploadOption {
	return func(s *UploadService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgressMode selects how session progress is driven
func WithProgressMode(mode ProgressMode) UploadOption {
	return func(s *UploadService) { s.mode = mode }
}

// WithRamp overrides the step and interval of the simulated progress ramp
func WithRamp(step float64, interval time.Duration) UploadOption {
	return func(s *UploadService) {
		if step > 0 {
			s.rampStep = step
		}
		if interval > 0 {
			s.rampInterval = interval
		}
	}
}

// NewUploadService creates a new upload service
func NewUploadService(extractor ports.Extractor, opts ...UploadOption) *UploadService {
	s := &UploadService{
		extractor:    extractor,
		logger:       log.New(io.Discard),
		mode:         ProgressTransfer,
		rampStep:     defaultRampStep,
		rampInterval: defaultRampInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadHooks lets callers observe a pass as it runs. All hooks are optional.
// OnStart and OnFinish run on the goroutine calling Execute; OnProgress may run
// on the extractor's transport goroutine.
type UploadHooks struct {
	OnStart    func(index int, file domain.SelectedFile)
	OnProgress func(index int, sent, total int64)
	OnFinish   func(outcome FileOutcome)
}

// UploadRequest represents a request to run one upload pass
type UploadRequest struct {
	Session *domain.Session
	Hooks   UploadHooks
}

// FileOutcome is the terminal result for one admitted file
type FileOutcome struct {
	Index  int
	File   domain.SelectedFile
	State  domain.UploadState
	Result *domain.ExtractionResult
	Err    error
}

// UploadResponse represents the response of an upload pass
type UploadResponse struct {
	SessionID string
	Outcomes  []FileOutcome
	Succeeded int
	Failed    int
	Summary   domain.PassSummary
}

// LastSuccess returns the most recent successful outcome, if any
func (r *UploadResponse) LastSuccess() (FileOutcome, bool) {
	for i := len(r.Outcomes) - 1; i >= 0; i-- {
		if r.Outcomes[i].State == domain.StateSucceeded {
			return r.Outcomes[i], true
		}
	}
	return FileOutcome{}, false
}

// Execute uploads the session's admitted set in order. A failed file never stops
// the pass; once the context is cancelled the remaining files are marked failed
// without being submitted.
func (s *UploadService) Execute(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	session := req.Session
	if session == nil {
		return nil, domain.ErrNilSession
	}

	files, err := session.BeginPass()
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("session", session.ID())
	logger.Info("upload pass started", "files", len(files))

	resp := &UploadResponse{
		SessionID: session.ID(),
		Outcomes:  make([]FileOutcome, 0, len(files)),
	}

	for i, file := range files {
		outcome := s.uploadOne(ctx, session, i, file, req.Hooks, logger)
		resp.Outcomes = append(resp.Outcomes, outcome)
		if outcome.State == domain.StateSucceeded {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
		if req.Hooks.OnFinish != nil {
			req.Hooks.OnFinish(outcome)
		}
	}

	session.Complete()
	resp.Summary = session.Snapshot().Summarize()

	logger.Info("upload pass completed", "succeeded", resp.Succeeded, "failed", resp.Failed)
	return resp, nil
}

func (s *UploadService) uploadOne(ctx context.Context, session *domain.Session, i int, file domain.SelectedFile, hooks UploadHooks, logger *log.Logger) FileOutcome {
	outcome := FileOutcome{Index: i, File: file}

	if err := session.MarkUploading(i); err != nil {
		// Only reachable if the session was driven from elsewhere mid-pass
		logger.Error("status out of order", "file", file.Name, "err", err)
	}
	if hooks.OnStart != nil {
		hooks.OnStart(i, file)
	}

	if err := ctx.Err(); err != nil {
		return s.fail(session, outcome, err, logger)
	}

	var r *ramp
	if s.mode == ProgressSimulated {
		r = startRamp(session.SetProgress, s.rampStep, s.rampInterval)
	}

	onProgress := func(sent, total int64) {
		if s.mode == ProgressTransfer {
			if p, ok := transferPercent(sent, total); ok {
				session.SetProgress(p)
			}
		}
		if hooks.OnProgress != nil {
			hooks.OnProgress(i, sent, total)
		}
	}

	result, err := s.extractor.Extract(ctx, file, onProgress)
	if r != nil {
		r.stop()
	}
	if err != nil {
		return s.fail(session, outcome, err, logger)
	}

	if err := session.MarkSucceeded(i, result); err != nil {
		logger.Error("status out of order", "file", file.Name, "err", err)
	}
	outcome.State = domain.StateSucceeded
	outcome.Result = result
	logger.Info("file uploaded", "file", file.Name, "status", outcome.State)

	s.keep(ctx, session.ID(), file, result, logger)
	return outcome
}

func (s *UploadService) fail(session *domain.Session, outcome FileOutcome, cause error, logger *log.Logger) FileOutcome {
	if err := session.MarkFailed(outcome.Index, cause); err != nil {
		logger.Error("status out of order", "file", outcome.File.Name, "err", err)
	}
	outcome.State = domain.StateFailed
	outcome.Err = cause
	logger.Warn("file upload failed", "file", outcome.File.Name, "status", outcome.State, "err", cause)
	return outcome
}

// keep persists a successful result; storage problems never fail the upload
func (s *UploadService) keep(ctx context.Context, sessionID string, file domain.SelectedFile, result *domain.ExtractionResult, logger *log.Logger) {
	if s.results == nil || result == nil {
		return
	}
	stored := domain.StoredResult{
		SessionID:  sessionID,
		SourcePath: file.Path,
		Result:     *result,
		UploadedAt: s.now(),
	}
	if stored.Result.Filename == "" {
		stored.Result.Filename = file.Name
	}
	if err := s.results.Save(ctx, stored); err != nil {
		logger.Warn("failed to save extraction result", "file", file.Name, "err", err)
	}
}
