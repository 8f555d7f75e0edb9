package cmd

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports/mocks"
	"github.com/kamal-hamza/docup/internal/core/services"
	"github.com/kamal-hamza/docup/pkg/logging"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestWidget(t *testing.T, files ...domain.SelectedFile) (widgetModel, *mocks.MockExtractor) {
	t.Helper()
	source := mocks.NewMockFileSource(files...)
	extractor := mocks.NewMockExtractor()
	sel := services.NewSelectionService(domain.NewAllowedTypeSet(domain.DefaultAllowedTypes), source, logging.Discard())
	up := services.NewUploadService(extractor, services.WithLogger(logging.Discard()))
	return newWidgetModel(context.Background(), services.NewSession(3), sel, up), extractor
}

func update(t *testing.T, m widgetModel, msg tea.Msg) (widgetModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	wm, ok := model.(widgetModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return wm, cmd
}

func TestWidget_SelectFiles(t *testing.T) {
	m, _ := newTestWidget(t,
		domain.SelectedFile{Name: "a.pdf", MIMEType: "application/pdf"},
		domain.SelectedFile{Name: "b.exe", MIMEType: "application/octet-stream"},
	)

	m, _ = update(t, m, runeKey('f'))
	if m.mode != modeFilesInput {
		t.Fatalf("expected files input mode, got %v", m.mode)
	}

	m.input.SetValue("a.pdf, b.exe")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a selection command")
	}
	if m.mode != modeBrowse {
		t.Error("input should close after submit")
	}

	m, _ = update(t, m, cmd())
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}

	view := m.View()
	if !strings.Contains(view, "a.pdf") {
		t.Error("admitted file missing from view")
	}
	if !strings.Contains(view, "b.exe") {
		t.Error("notice should name the excluded file")
	}
	if !strings.Contains(view, domain.MsgFilesSelected) {
		t.Error("selection message missing from view")
	}
}

func TestWidget_UploadPass(t *testing.T) {
	m, extractor := newTestWidget(t,
		domain.SelectedFile{Name: "x.png", MIMEType: "image/png"},
		domain.SelectedFile{Name: "y.png", MIMEType: "image/png"},
	)
	extractor.FailOn("y.png", nil)

	m, cmd := update(t, m, runeKey('d'))
	m.input.SetValue("/scans")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	m, cmd = update(t, m, runeKey('u'))
	if !m.uploading || cmd == nil {
		t.Fatal("upload should start")
	}

	// Triggers are disabled while uploading
	m, _ = update(t, m, runeKey('f'))
	if m.mode != modeBrowse {
		t.Error("file selection must be ignored during upload")
	}

	m, _ = update(t, m, m.uploadCmd()())
	if m.uploading {
		t.Error("uploading flag should clear when the pass ends")
	}

	view := m.View()
	for _, want := range []string{"Uploaded successfully", "Failed to upload", domain.MsgUploadComplete} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestWidget_UploadWithoutSelection(t *testing.T) {
	m, extractor := newTestWidget(t)

	m, cmd := update(t, m, runeKey('u'))
	if cmd != nil || m.uploading {
		t.Error("upload must not start before any selection")
	}
	if m.err == nil {
		t.Error("expected a hint to select files")
	}
	if len(extractor.Calls()) != 0 {
		t.Error("no request expected")
	}
}

func TestWidget_UploadEmptySelection(t *testing.T) {
	m, extractor := newTestWidget(t,
		domain.SelectedFile{Name: "b.exe", MIMEType: "application/octet-stream"},
	)
	m, _ = update(t, m, m.selectCmd([]string{"b.exe"})())
	if got := m.session.Snapshot().Phase; got != domain.PhaseReady {
		t.Fatalf("expected ready phase, got %v", got)
	}

	m, cmd := update(t, m, runeKey('u'))
	if !m.uploading || cmd == nil {
		t.Fatal("upload should start for an empty admitted set")
	}
	if m.err != nil {
		t.Errorf("unexpected error: %v", m.err)
	}

	m, _ = update(t, m, m.uploadCmd()())
	if m.uploading {
		t.Error("uploading flag should clear when the pass ends")
	}
	if len(extractor.Calls()) != 0 {
		t.Errorf("expected no requests, got %v", extractor.Calls())
	}
	if got := m.session.Snapshot().Message; got != domain.MsgUploadComplete {
		t.Errorf("message = %q, want %q", got, domain.MsgUploadComplete)
	}
	if !strings.Contains(m.View(), domain.MsgUploadComplete) {
		t.Error("completion message missing from view")
	}
}

func TestWidget_WindowNavigation(t *testing.T) {
	var files []domain.SelectedFile
	for i := 1; i <= 5; i++ {
		files = append(files, domain.SelectedFile{Name: fmt.Sprintf("f%d.pdf", i), MIMEType: "application/pdf"})
	}
	m, _ := newTestWidget(t, files...)
	m, _ = update(t, m, m.selectCmd([]string{"/docs"})())

	if !strings.Contains(m.View(), "1-3 of 5") {
		t.Error("expected first window")
	}

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	view := m.View()
	if !strings.Contains(view, "3-5 of 5") {
		t.Error("window should clamp at the last full page")
	}
	if !strings.Contains(view, "f5.pdf") || strings.Contains(view, "f1.pdf") {
		t.Error("window shows the wrong files")
	}

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runeKey('h'))
	}
	if !strings.Contains(m.View(), "1-3 of 5") {
		t.Error("window should clamp at the start")
	}
}

func TestWidget_CancelInput(t *testing.T) {
	m, _ := newTestWidget(t)
	m, _ = update(t, m, runeKey('f'))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse || cmd != nil {
		t.Error("esc should close the input without selecting")
	}
}

func TestWidget_Quit(t *testing.T) {
	m, _ := newTestWidget(t)
	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel a running pass")
	}
}

func TestParsePathList(t *testing.T) {
	got := parsePathList(" a.pdf, ,b c.png ,")
	if len(got) != 2 || got[0] != "a.pdf" || got[1] != "b c.png" {
		t.Errorf("parsePathList = %q", got)
	}
}
