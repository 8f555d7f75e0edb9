package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	uploadCopy       bool
	uploadReport     bool
	uploadReportPath string
	uploadQuiet      bool
)

var uploadCmd = &cobra.Command{
	Use:     "upload <path>...",
	Aliases: []string{"up"},
	Short:   "Upload files or folders to the extraction service",
	Long: `Upload files and folders to the text-extraction service.

Folders are expanded recursively. Files whose type is not accepted are
reported once and skipped; the rest are uploaded one at a time, in order.
A failed file never stops the remaining uploads.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadCopy, "copy", "c", false, "copy the extracted text of the last uploaded file to the clipboard")
	uploadCmd.Flags().BoolVarP(&uploadReport, "report", "r", false, "write an HTML chart of the pass to the reports directory")
	uploadCmd.Flags().StringVar(&uploadReportPath, "report-path", "", "write the HTML chart to this path")
	uploadCmd.Flags().BoolVarP(&uploadQuiet, "quiet", "q", false, "hide per-file progress bars")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()

	_, err := selectAndUpload(ctx, cmd.OutOrStdout(), args, passOptions{
		copyText:   uploadCopy || appConfig.CopyToClipboard,
		report:     uploadReport,
		reportPath: uploadReportPath,
		quiet:      uploadQuiet,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}
