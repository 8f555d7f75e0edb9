package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/docup/pkg/ui"
)

var (
	fetchRaw  bool
	fetchCopy bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <file-id>",
	Short: "Retrieve the stored extraction document for a file id",
	Long: `Download the JSON document the extraction service keeps for a previously
uploaded file. The file id is printed by 'docup results'.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchRaw, "raw", false, "print the response without formatting")
	fetchCmd.Flags().BoolVarP(&fetchCopy, "copy", "c", false, "copy the document to the clipboard")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, stop := getContext()
	defer stop()

	body, err := extractorClient.Fetch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if fetchRaw {
		_, err := out.Write(body)
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		// Not JSON; show it as is
		pretty.Reset()
		pretty.Write(body)
	}

	fmt.Fprintln(out, ui.HighlightJSON(pretty.String()))

	if fetchCopy {
		if err := clipboard.WriteAll(pretty.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(out, ui.FormatSuccess("Copied to clipboard"))
	}
	return nil
}
