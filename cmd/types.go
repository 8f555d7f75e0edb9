package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/docup/pkg/ui"
)

var typesCmd = &cobra.Command{
	Use:         "types",
	Short:       "List the file types accepted for upload",
	Annotations: map[string]string{skipValidation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatTitle("Accepted file types"))
		fmt.Fprintln(out)
		fmt.Fprint(out, ui.RenderSimpleList(appConfig.AllowedTypes))
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.FormatMuted("Edit allowed_types in "+appVault.ConfigPath+" to change this list"))
		return nil
	},
}
