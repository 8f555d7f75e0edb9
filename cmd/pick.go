package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/pkg/ui"
)

var (
	pickCopy   bool
	pickReport bool
)

var pickCmd = &cobra.Command{
	Use:   "pick [directory]",
	Short: "Choose files interactively and upload them",
	Long: `Open a fuzzy finder over the files below a directory (default: current
directory). Select several files with Tab and confirm with Enter; the
selection is then filtered and uploaded like 'docup upload'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPick,
}

func init() {
	pickCmd.Flags().BoolVarP(&pickCopy, "copy", "c", false, "copy the extracted text of the last uploaded file to the clipboard")
	pickCmd.Flags().BoolVarP(&pickReport, "report", "r", false, "write an HTML chart of the pass to the reports directory")
}

func runPick(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()

	out := cmd.OutOrStdout()
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	candidates, err := fileSource.Candidates(ctx, root)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(out, ui.FormatInfo("No files found in "+root))
		return nil
	}

	paths, err := pickFiles(root, candidates)
	if err != nil {
		return pickError(out, err)
	}

	_, err = selectAndUpload(ctx, out, paths, passOptions{
		copyText: pickCopy || appConfig.CopyToClipboard,
		report:   pickReport,
	})
	return err
}

// pickError treats an aborted finder as a clean exit and reports anything else
func pickError(out io.Writer, err error) error {
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		fmt.Fprintln(out, ui.FormatInfo("Selection cancelled."))
		return nil
	}
	return fmt.Errorf("file picker failed: %w", err)
}

// pickFiles launches the multi-select fuzzy finder and returns the chosen paths
func pickFiles(root string, candidates []domain.SelectedFile) ([]string, error) {
	allowed := domain.NewAllowedTypeSet(appConfig.AllowedTypes)

	idxs, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			rel, err := filepath.Rel(root, candidates[i].Path)
			if err != nil {
				rel = candidates[i].Path
			}
			return rel
		},
		fuzzyfinder.WithHeader("Tab to select, Enter to upload"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			f := candidates[i]

			var s strings.Builder
			s.WriteString(fmt.Sprintf("%s %s\n\n", ui.FileIcon(f), ui.FormatBold(f.Name)))
			s.WriteString(fmt.Sprintf("Type: %s\n", f.MIMEType))
			s.WriteString(fmt.Sprintf("Size: %s\n", ui.FormatSize(f.Size)))
			s.WriteString("\n")
			if allowed.Contains(f.MIMEType) {
				s.WriteString(ui.FormatSuccess("Accepted"))
			} else {
				s.WriteString(ui.FormatWarning("Not a supported file type"))
			}
			return s.String()
		}),
	)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(idxs))
	for _, i := range idxs {
		paths = append(paths, candidates[i].Path)
	}
	return paths, nil
}
