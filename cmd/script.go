package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/history"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/toyscript"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/view"
)

// scriptTitle labels toy script runs in the terminal view.
const scriptTitle = "Toy script"

var scriptJSON bool
var scriptSave bool

var scriptCmd = &cobra.Command{
	Use:   "script [file|-]",
	Short: "Run a toy script",
	Long: `Run a program in the toy script language:

  set x 5        add x 1        print x
  if x > 3       endif
  loop 3         end

Lines starting with # or // are comments.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		res := toyscript.Run(source, toyscript.Options{Locale: cfg.Locale, MaxSteps: cfg.MaxSteps})

		if scriptSave {
			err := saveReport(cmd, &history.Report{
				Kind:      history.KindScript,
				Locale:    cfg.Locale,
				Source:    source,
				Entries:   res.Entries,
				Outputs:   res.Outputs,
				Truncated: res.Truncated,
			})
			if err != nil {
				return err
			}
		}

		if scriptJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		view.FormatTrace(cmd.OutOrStdout(), view.Trace{
			Title:     scriptTitle,
			Entries:   res.Entries,
			Outputs:   res.Outputs,
			Truncated: res.Truncated,
		})
		return nil
	},
}

func init() {
	scriptCmd.Flags().BoolVar(&scriptJSON, "json", false, "Print the trace as JSON")
	scriptCmd.Flags().BoolVar(&scriptSave, "save", false, "Save the trace to history")
	rootCmd.AddCommand(scriptCmd)
}
