package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/view"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect [file|-]",
	Short: "Detect the language of a snippet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		info := dialect.Detect(source)
		if detectJSON {
			return writeJSON(cmd.OutOrStdout(), info)
		}
		view.FormatDetect(cmd.OutOrStdout(), info)
		return nil
	},
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(detectCmd)
}
