package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/docup/pkg/ui"
)

var (
	watchQuiet  bool
	watchReport bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Upload files as they appear in a folder",
	Long: `Watch a folder and upload files dropped into it.

Files created or written within the debounce window (watch_debounce_ms)
are collected into one selection, filtered against the accepted types and
uploaded in name order. Hidden and temporary files are ignored.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "hide per-file progress bars")
	watchCmd.Flags().BoolVarP(&watchReport, "report", "r", false, "write an HTML chart for every pass")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.FormatUploading("Watching for new files..."))
	fmt.Fprintln(out, ui.FormatMuted("Folder: "+dir))
	fmt.Fprintln(out, ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Fprintln(out)

	batch := newPendingBatch()
	var debounce <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isUploadCandidate(event) {
				continue
			}
			batch.add(event.Name)
			debounce = time.After(appConfig.WatchDebounce())

		case <-debounce:
			debounce = nil
			paths := batch.drain()
			if len(paths) == 0 {
				continue
			}
			logger.Info("new files detected", "count", len(paths))
			if _, err := selectAndUpload(ctx, out, paths, passOptions{quiet: watchQuiet, report: watchReport}); err != nil {
				fmt.Fprintln(out, ui.FormatError("Upload failed: "+err.Error()))
			}
			fmt.Fprintln(out)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "err", err)

		case <-ctx.Done():
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.FormatMuted("Watcher stopped"))
			return nil
		}
	}
}

// isUploadCandidate keeps create and write events for visible, non-temporary files
func isUploadCandidate(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	for _, suffix := range []string{".tmp", ".part", ".crdownload", ".swp"} {
		if strings.HasSuffix(base, suffix) {
			return false
		}
	}
	return true
}

// pendingBatch collects changed paths between debounce ticks
type pendingBatch struct {
	paths map[string]struct{}
}

func newPendingBatch() *pendingBatch {
	return &pendingBatch{paths: make(map[string]struct{})}
}

func (b *pendingBatch) add(path string) {
	b.paths[path] = struct{}{}
}

// drain returns the collected regular files in name order and empties the batch.
// Paths removed or turned into directories since the event are dropped.
func (b *pendingBatch) drain() []string {
	out := make([]string, 0, len(b.paths))
	for p := range b.paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	b.paths = make(map[string]struct{})
	return out
}
