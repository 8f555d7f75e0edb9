package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/schollz/progressbar/v3"

	"github.com/kamal-hamza/docup/internal/adapters/report"
	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/services"
	"github.com/kamal-hamza/docup/pkg/ui"
)

// passOptions controls the extras of a non-interactive pass
type passOptions struct {
	copyText   bool
	report     bool
	reportPath string
	quiet      bool
}

// selectAndUpload runs one selection-to-completion cycle over paths
func selectAndUpload(ctx context.Context, out io.Writer, paths []string, opts passOptions) (*services.UploadResponse, error) {
	session := services.NewSession(appConfig.WindowSize)

	result, err := selectionService.Select(ctx, session, services.SelectionRequest{Paths: paths})
	if err != nil {
		return nil, err
	}

	if result.HasNotice() {
		fmt.Fprintln(out, ui.FormatNotice(session.Snapshot().Notice))
	}
	if len(result.Admitted) == 0 {
		fmt.Fprintln(out, ui.FormatInfo("No supported files selected."))
	} else {
		fmt.Fprintln(out, ui.FormatInfo(session.Snapshot().Message))
	}
	return runPass(ctx, out, session, opts)
}

// runPass uploads the session's admitted set with a progress bar per file
func runPass(ctx context.Context, out io.Writer, session *domain.Session, opts passOptions) (*services.UploadResponse, error) {
	var bar *progressbar.ProgressBar

	hooks := services.UploadHooks{
		OnStart: func(i int, file domain.SelectedFile) {
			if opts.quiet {
				return
			}
			bar = newFileBar(file, i, len(session.Snapshot().Files))
		},
		OnProgress: func(_ int, sent, _ int64) {
			if bar != nil {
				_ = bar.Set64(sent)
			}
		},
		OnFinish: func(o services.FileOutcome) {
			if bar != nil {
				if o.State == domain.StateSucceeded {
					_ = bar.Finish()
				} else {
					_ = bar.Exit()
				}
				bar = nil
			}
			fmt.Fprintln(out, formatOutcome(o))
		},
	}

	resp, err := uploadService.Execute(ctx, services.UploadRequest{Session: session, Hooks: hooks})
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.StyleMessage.Render(session.Snapshot().Message))
	fmt.Fprintln(out, ui.FormatMuted(fmt.Sprintf("%d succeeded, %d failed", resp.Succeeded, resp.Failed)))

	if opts.copyText {
		copyLastText(out, resp)
	}
	if opts.report || opts.reportPath != "" {
		path := opts.reportPath
		if path == "" {
			path = appVault.GetReportPath(resp.SessionID)
		}
		if err := writeReport(path, resp.Summary); err != nil {
			fmt.Fprintln(out, ui.FormatWarning(err.Error()))
		} else {
			fmt.Fprintln(out, ui.FormatInfo("Report written to "+path))
		}
	}

	return resp, nil
}

func newFileBar(file domain.SelectedFile, index, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions64(file.Size,
		progressbar.OptionSetDescription(fmt.Sprintf("[%d/%d] %s", index+1, total, ui.Truncate(file.Name, 32))),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetPredictTime(false),
	)
}

func formatOutcome(o services.FileOutcome) string {
	line := fmt.Sprintf("%s  %s", ui.FormatStatus(o.State), o.File.Name)
	if o.Err != nil {
		line += "  " + ui.FormatMuted(o.Err.Error())
	}
	return line
}

// copyLastText puts the extracted text of the last successful file on the clipboard
func copyLastText(out io.Writer, resp *services.UploadResponse) {
	last, ok := resp.LastSuccess()
	if !ok || last.Result == nil || last.Result.ExtractedText == "" {
		fmt.Fprintln(out, ui.FormatMuted("Nothing to copy."))
		return
	}
	if err := clipboard.WriteAll(last.Result.ExtractedText); err != nil {
		fmt.Fprintln(out, ui.FormatWarning("Could not copy to clipboard: "+err.Error()))
		return
	}
	fmt.Fprintln(out, ui.FormatSuccess("Copied text of "+last.File.Name+" to clipboard"))
}

func writeReport(path string, summary domain.PassSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	return report.NewChartRenderer("docup upload pass").Render(f, summary)
}
