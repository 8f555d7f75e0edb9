package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/pkg/ui"
)

var (
	resultsCopy  bool
	resultsClean bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [key]",
	Short: "List or show locally kept extraction results",
	Long: `Without arguments, list every extraction result kept after a successful
upload (newest first). With a key (the file id), print the extracted text.

Results are kept when save_results is enabled in the configuration.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipValidation: "true"},
	RunE:        runResults,
}

func init() {
	resultsCmd.Flags().BoolVarP(&resultsCopy, "copy", "c", false, "copy the extracted text to the clipboard")
	resultsCmd.Flags().BoolVar(&resultsClean, "clean", false, "delete all kept results")
}

func runResults(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()
	out := cmd.OutOrStdout()

	if resultsClean {
		if err := appVault.CleanResults(); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.FormatSuccess("Results removed"))
		return nil
	}

	if len(args) == 1 {
		stored, err := resultRepo.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return showResult(cmd, stored)
	}

	results, err := resultRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, ui.FormatInfo("No results kept yet."))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "KEY"},
		{Header: "FILE"},
		{Header: "TYPE"},
		{Header: "UPLOADED"},
		{Header: "CHARS", Align: "right"},
	})
	for _, r := range results {
		table.AddRow([]string{
			r.Key(),
			ui.Truncate(r.Result.Filename, 40),
			r.Result.Filetype,
			r.UploadedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", len([]rune(r.Result.ExtractedText))),
		})
	}

	fmt.Fprintln(out, ui.FormatTitle("Extraction results"))
	fmt.Fprintln(out)
	fmt.Fprint(out, table.Render())
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.FormatMuted(fmt.Sprintf("%d result(s) in %s", table.Len(), appVault.ResultsPath)))
	return nil
}

func showResult(cmd *cobra.Command, stored *domain.StoredResult) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, ui.RenderKeyValue("File", stored.Result.Filename))
	fmt.Fprintln(out, ui.RenderKeyValue("Source", stored.SourcePath))
	fmt.Fprintln(out, ui.RenderKeyValue("File ID", stored.Result.FileID))
	fmt.Fprintln(out, ui.RenderKeyValue("Uploaded", stored.UploadedAt.Local().Format("Jan 02, 2006 15:04")))
	fmt.Fprintln(out)
	fmt.Fprintln(out, stored.Result.ExtractedText)

	if resultsCopy {
		if err := clipboard.WriteAll(stored.Result.ExtractedText); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(out, ui.FormatSuccess("Copied to clipboard"))
	}
	return nil
}
