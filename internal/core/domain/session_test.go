package domain

import (
	"errors"
	"testing"
)

func testFiles(names ...string) []SelectedFile {
	files := make([]SelectedFile, 0, len(names))
	for _, n := range names {
		files = append(files, SelectedFile{Name: n, Path: "/tmp/" + n, MIMEType: "image/png"})
	}
	return files
}

func TestSession_AdmitResetsState(t *testing.T) {
	s := NewSession("s1", 3)
	if err := s.Admit(testFiles("a.png", "b.png", "c.png", "d.png"), Notice{}); err != nil {
		t.Fatalf("admit: %v", err)
	}

	if _, err := s.BeginPass(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = s.MarkUploading(0)
	_ = s.MarkSucceeded(0, nil)
	s.Complete()
	s.NextWindow()

	if err := s.Admit(testFiles("x.png"), Notice{}); err != nil {
		t.Fatalf("second admit: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Files) != 1 || snap.Files[0].Name != "x.png" {
		t.Errorf("admitted set not replaced: %+v", snap.Files)
	}
	if len(snap.Statuses) != 0 {
		t.Errorf("statuses not cleared: %+v", snap.Statuses)
	}
	if snap.Progress != 0 {
		t.Errorf("progress = %v, want 0", snap.Progress)
	}
	if snap.Window.Start != 0 {
		t.Errorf("window start = %d, want 0", snap.Window.Start)
	}
	if snap.Message != MsgFilesSelected {
		t.Errorf("message = %q, want %q", snap.Message, MsgFilesSelected)
	}
	if snap.Phase != PhaseReady {
		t.Errorf("phase = %v, want ready", snap.Phase)
	}
}

func TestSession_AdmitRejectedWhileUploading(t *testing.T) {
	s := NewSession("s1", 3)
	_ = s.Admit(testFiles("a.png"), Notice{})
	if _, err := s.BeginPass(); err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := s.Admit(testFiles("b.png"), Notice{}); !errors.Is(err, ErrUploadInProgress) {
		t.Errorf("expected ErrUploadInProgress, got %v", err)
	}
	if _, err := s.BeginPass(); !errors.Is(err, ErrUploadInProgress) {
		t.Errorf("expected ErrUploadInProgress on second BeginPass, got %v", err)
	}
	if got := s.Snapshot().Files[0].Name; got != "a.png" {
		t.Errorf("admitted set changed during pass: %s", got)
	}
}

func TestSession_StatusTransitionsAreMonotonic(t *testing.T) {
	s := NewSession("s1", 3)
	_ = s.Admit(testFiles("a.png", "b.png"), Notice{})
	_, _ = s.BeginPass()

	if err := s.MarkUploading(1); err == nil {
		t.Error("expected out-of-order MarkUploading to fail")
	}
	if err := s.MarkUploading(0); err != nil {
		t.Fatalf("MarkUploading(0): %v", err)
	}
	if err := s.MarkSucceeded(0, &ExtractionResult{FileID: "f1"}); err != nil {
		t.Fatalf("MarkSucceeded: %v", err)
	}
	if err := s.MarkFailed(0, errors.New("late")); err == nil {
		t.Error("expected terminal status to be final")
	}

	_ = s.MarkUploading(1)
	s.SetProgress(70)
	if err := s.MarkFailed(1, errors.New("boom")); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Statuses[0].State != StateSucceeded {
		t.Errorf("file 0 = %v, want succeeded", snap.Statuses[0].State)
	}
	if snap.Statuses[1].State != StateFailed || snap.Statuses[1].Err != "boom" {
		t.Errorf("file 1 = %+v, want failed with error", snap.Statuses[1])
	}
	if snap.Progress != 0 {
		t.Errorf("progress after failure = %v, want 0", snap.Progress)
	}
	if snap.Message != MsgUploadFailed("b.png") {
		t.Errorf("message = %q", snap.Message)
	}
}

func TestSession_SetProgressClamps(t *testing.T) {
	s := NewSession("s1", 3)

	s.SetProgress(150)
	if got := s.Snapshot().Progress; got != 100 {
		t.Errorf("progress = %v, want 100", got)
	}
	s.SetProgress(-3)
	if got := s.Snapshot().Progress; got != 0 {
		t.Errorf("progress = %v, want 0", got)
	}
}

func TestSnapshot_Summarize(t *testing.T) {
	s := NewSession("s1", 3)
	files := []SelectedFile{
		{Name: "a.pdf", MIMEType: "application/pdf"},
		{Name: "b.png", MIMEType: "image/png"},
		{Name: "c.pdf", MIMEType: "application/pdf"},
	}
	_ = s.Admit(files, Notice{})
	_, _ = s.BeginPass()
	_ = s.MarkUploading(0)
	_ = s.MarkSucceeded(0, nil)
	_ = s.MarkUploading(1)
	_ = s.MarkFailed(1, nil)
	_ = s.MarkUploading(2)
	_ = s.MarkSucceeded(2, nil)
	s.Complete()

	sum := s.Snapshot().Summarize()
	if sum.Total != 3 || sum.Succeeded != 2 || sum.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if len(sum.ByType) != 2 {
		t.Fatalf("expected 2 types, got %+v", sum.ByType)
	}
	if sum.ByType[0].MIMEType != "application/pdf" || sum.ByType[0].Succeeded != 2 {
		t.Errorf("unexpected pdf counts: %+v", sum.ByType[0])
	}
	if sum.ByType[1].MIMEType != "image/png" || sum.ByType[1].Failed != 1 {
		t.Errorf("unexpected png counts: %+v", sum.ByType[1])
	}
}
