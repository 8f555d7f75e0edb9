package domain

import (
	"fmt"
	"sync"
)

// Phase is the lifecycle position of a session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReady
	PhaseUploading
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReady:
		return "ready"
	case PhaseUploading:
		return "uploading"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session owns the admitted files, their statuses, the process message and the
// progress value for one selection-to-completion cycle.
//
// statuses[i] always describes files[i]; an entry is appended when the upload of
// that file begins, so after a completed pass both slices have the same length.
type Session struct {
	mu       sync.RWMutex
	id       string
	files    []SelectedFile
	statuses []UploadStatus
	message  string
	notice   Notice
	progress float64
	phase    Phase
	window   FileWindow
}

// NewSession creates an idle session
func NewSession(id string, windowSize int) *Session {
	return &Session{
		id:     id,
		window: NewFileWindow(windowSize),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Admit replaces the admitted set and clears all pass state
func (s *Session) Admit(admitted []SelectedFile, notice Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseUploading {
		return ErrUploadInProgress
	}

	s.files = append([]SelectedFile(nil), admitted...)
	s.statuses = nil
	s.notice = notice
	s.progress = 0
	s.window = NewFileWindow(s.window.Size)
	s.message = MsgFilesSelected
	s.phase = PhaseReady
	return nil
}

// BeginPass starts an upload pass and returns the admitted set captured at start
func (s *Session) BeginPass() ([]SelectedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseUploading {
		return nil, ErrUploadInProgress
	}

	s.statuses = make([]UploadStatus, 0, len(s.files))
	s.progress = 0
	s.message = MsgUploadStarting
	s.phase = PhaseUploading
	return append([]SelectedFile(nil), s.files...), nil
}

// MarkUploading records the Uploading entry for file i
func (s *Session) MarkUploading(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i != len(s.statuses) || i >= len(s.files) {
		return fmt.Errorf("status for file %d out of order (have %d entries)", i, len(s.statuses))
	}
	s.statuses = append(s.statuses, UploadStatus{Name: s.files[i].Name, State: StateUploading})
	s.progress = 0
	return nil
}

// MarkSucceeded moves file i from Uploading to Succeeded
func (s *Session) MarkSucceeded(i int, result *ExtractionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUploading(i); err != nil {
		return err
	}
	s.statuses[i].State = StateSucceeded
	s.statuses[i].Result = result
	s.message = MsgUploaded(s.statuses[i].Name)
	s.progress = 100
	return nil
}

// MarkFailed moves file i from Uploading to Failed and resets the progress value.
// Earlier statuses are left untouched.
func (s *Session) MarkFailed(i int, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUploading(i); err != nil {
		return err
	}
	s.statuses[i].State = StateFailed
	if cause != nil {
		s.statuses[i].Err = cause.Error()
	}
	s.message = MsgUploadFailed(s.statuses[i].Name)
	s.progress = 0
	return nil
}

func (s *Session) checkUploading(i int) error {
	if i < 0 || i >= len(s.statuses) {
		return fmt.Errorf("no status entry for file %d", i)
	}
	if s.statuses[i].State != StateUploading {
		return fmt.Errorf("file %s already %s", s.statuses[i].Name, s.statuses[i].State)
	}
	return nil
}

// SetProgress stores the progress value, clamped to [0, 100]
func (s *Session) SetProgress(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = min(max(p, 0), 100)
}

// Complete ends the pass
func (s *Session) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = MsgUploadComplete
	s.phase = PhaseDone
}

// Uploading reports whether a pass is running
func (s *Session) Uploading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase == PhaseUploading
}

// NextWindow advances the display window by one file
func (s *Session) NextWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = s.window.Next(len(s.files))
}

// PrevWindow moves the display window back by one file
func (s *Session) PrevWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = s.window.Prev()
}

// Snapshot is a consistent copy of the session state for rendering
type Snapshot struct {
	ID       string
	Files    []SelectedFile
	Statuses []UploadStatus
	Message  string
	Notice   Notice
	Progress float64
	Phase    Phase
	Window   FileWindow
}

// StatusAt returns the status entry of file i, if the pass reached it
func (s Snapshot) StatusAt(i int) (UploadStatus, bool) {
	if i < 0 || i >= len(s.Statuses) {
		return UploadStatus{}, false
	}
	return s.Statuses[i], true
}

// Snapshot copies the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		ID:       s.id,
		Files:    append([]SelectedFile(nil), s.files...),
		Statuses: append([]UploadStatus(nil), s.statuses...),
		Message:  s.message,
		Notice:   s.notice,
		Progress: s.progress,
		Phase:    s.phase,
		Window:   s.window,
	}
}
