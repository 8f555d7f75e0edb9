package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/services"
	"github.com/kamal-hamza/docup/pkg/ui"
)

var widgetCmd = &cobra.Command{
	Use:     "widget [path]...",
	Aliases: []string{"ui"},
	Short:   "Open the interactive upload widget",
	Long: `Open the interactive upload widget.

Keybindings:
  f           Select files (comma separated paths)
  d           Select a folder
  u           Upload the selected files
  ←/h, →/l    Move the file window
  ?           Toggle help
  q           Quit

Paths given as arguments are selected on start.`,
	RunE: runWidget,
}

func runWidget(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()

	session := services.NewSession(appConfig.WindowSize)
	m := newWidgetModel(ctx, session, selectionService, uploadService)
	m.initialPaths = args

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running widget: %w", err)
	}
	return nil
}

type widgetMode int

const (
	modeBrowse widgetMode = iota
	modeFilesInput
	modeFolderInput
)

type widgetKeyMap struct {
	Files  key.Binding
	Folder key.Binding
	Upload key.Binding
	Prev   key.Binding
	Next   key.Binding
	Help   key.Binding
	Quit   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func (k widgetKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Files, k.Folder, k.Upload, k.Prev, k.Next, k.Help, k.Quit}
}

func (k widgetKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Files, k.Folder, k.Upload},
		{k.Prev, k.Next},
		{k.Submit, k.Cancel, k.Help, k.Quit},
	}
}

var widgetKeys = widgetKeyMap{
	Files: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "select files"),
	),
	Folder: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "select folder"),
	),
	Upload: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upload"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

type selectionDoneMsg struct {
	result *services.SelectionResult
	err    error
}

type uploadDoneMsg struct {
	resp *services.UploadResponse
	err  error
}

type tickMsg time.Time

const tickInterval = 100 * time.Millisecond

// widgetModel renders a session; all pass state lives in the session
type widgetModel struct {
	ctx          context.Context
	cancel       context.CancelFunc
	session      *domain.Session
	selection    *services.SelectionService
	upload       *services.UploadService
	mode         widgetMode
	input        textinput.Model
	bar          progress.Model
	help         help.Model
	keys         widgetKeyMap
	uploading    bool
	initialPaths []string
	err          error
	width        int
}

func newWidgetModel(parent context.Context, session *domain.Session, sel *services.SelectionService, up *services.UploadService) widgetModel {
	ctx, cancel := context.WithCancel(parent)

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 60

	return widgetModel{
		ctx:       ctx,
		cancel:    cancel,
		session:   session,
		selection: sel,
		upload:    up,
		mode:      modeBrowse,
		input:     ti,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:      help.New(),
		keys:      widgetKeys,
	}
}

func (m widgetModel) Init() tea.Cmd {
	if len(m.initialPaths) > 0 {
		return m.selectCmd(m.initialPaths)
	}
	return nil
}

func (m widgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = max(min(msg.Width-4, 60), 10)
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)

	case selectionDoneMsg:
		m.err = msg.err
		return m, nil

	case uploadDoneMsg:
		m.uploading = false
		m.err = msg.err
		return m, nil

	case tickMsg:
		if m.uploading {
			return m, tick()
		}
		return m, nil
	}

	return m, nil
}

func (m widgetModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Files):
		if !m.uploading {
			return m.openInput(modeFilesInput, "report.pdf, scans/page1.png")
		}

	case key.Matches(msg, m.keys.Folder):
		if !m.uploading {
			return m.openInput(modeFolderInput, "path/to/folder")
		}

	case key.Matches(msg, m.keys.Upload):
		if m.uploading {
			return m, nil
		}
		if m.session.Snapshot().Phase == domain.PhaseIdle {
			m.err = fmt.Errorf("select files before uploading")
			return m, nil
		}
		m.uploading = true
		m.err = nil
		return m, tea.Batch(m.uploadCmd(), tick())

	case key.Matches(msg, m.keys.Prev):
		m.session.PrevWindow()

	case key.Matches(msg, m.keys.Next):
		m.session.NextWindow()
	}

	return m, nil
}

func (m widgetModel) openInput(mode widgetMode, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.err = nil
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m, m.input.Focus()
}

func (m widgetModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		var paths []string
		if m.mode == modeFolderInput {
			if p := strings.TrimSpace(m.input.Value()); p != "" {
				paths = []string{p}
			}
		} else {
			paths = parsePathList(m.input.Value())
		}
		m.mode = modeBrowse
		m.input.Blur()
		if len(paths) == 0 {
			return m, nil
		}
		return m, m.selectCmd(paths)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m widgetModel) selectCmd(paths []string) tea.Cmd {
	ctx, session, sel := m.ctx, m.session, m.selection
	return func() tea.Msg {
		result, err := sel.Select(ctx, session, services.SelectionRequest{Paths: paths})
		return selectionDoneMsg{result: result, err: err}
	}
}

func (m widgetModel) uploadCmd() tea.Cmd {
	ctx, session, up := m.ctx, m.session, m.upload
	return func() tea.Msg {
		resp, err := up.Execute(ctx, services.UploadRequest{Session: session})
		return uploadDoneMsg{resp: resp, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// parsePathList splits comma separated input into trimmed, non-empty paths
func parsePathList(s string) []string {
	var paths []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (m widgetModel) View() string {
	snap := m.session.Snapshot()
	var s strings.Builder

	s.WriteString(ui.FormatTitle("docup") + "\n\n")
	s.WriteString(m.renderTriggers() + "\n\n")

	if notice := ui.FormatNotice(snap.Notice); notice != "" {
		s.WriteString(notice + "\n\n")
	}

	s.WriteString(renderWindow(snap) + "\n")

	if snap.Phase != domain.PhaseIdle {
		s.WriteString(m.bar.ViewAs(snap.Progress/100) + "\n")
	}
	if snap.Message != "" {
		s.WriteString(ui.StyleMessage.Render(snap.Message) + "\n")
	}

	if m.mode != modeBrowse {
		label := "Files:"
		if m.mode == modeFolderInput {
			label = "Folder:"
		}
		s.WriteString("\n" + ui.FormatBold(label) + " " + m.input.View() + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + ui.FormatError(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + m.help.View(m.keys))
	return s.String()
}

func (m widgetModel) renderTriggers() string {
	style := ui.StyleAccent
	if m.uploading {
		style = ui.StyleMuted
	}
	triggers := []string{
		style.Render("[f] " + ui.IconFile + " Select files"),
		style.Render("[d] " + ui.IconFolder + " Select folder"),
		style.Render("[u] Upload"),
	}
	return strings.Join(triggers, "   ")
}

// renderWindow shows the visible slice of the admitted set with absolute-index statuses
func renderWindow(snap domain.Snapshot) string {
	total := len(snap.Files)
	if total == 0 {
		return ui.FormatMuted("No files selected.") + "\n"
	}

	lo, hi := snap.Window.Range(total)
	var rows []string
	for i := lo; i < hi; i++ {
		f := snap.Files[i]
		status := ui.FormatPending()
		if st, ok := snap.StatusAt(i); ok {
			status = ui.FormatStatus(st.State)
		}
		name := ui.StyleFileName.Render(ui.Truncate(f.Name, 36))
		rows = append(rows, fmt.Sprintf("%s %s  %s  %s", ui.FileIcon(f), name, ui.FormatMuted(ui.FormatSize(f.Size)), status))
	}

	prev := ui.StyleMuted.Render("‹ prev")
	if snap.Window.HasPrev() {
		prev = ui.StyleAccent.Render("‹ prev")
	}
	next := ui.StyleMuted.Render("next ›")
	if snap.Window.HasNext(total) {
		next = ui.StyleAccent.Render("next ›")
	}
	nav := fmt.Sprintf("%s  %s  %s", prev, ui.FormatMuted(fmt.Sprintf("%d-%d of %d", lo+1, hi, total)), next)

	return ui.StylePanel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n" + nav + "\n"
}
