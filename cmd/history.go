package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/explain"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/history"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/view"
)

var historyDelete bool
var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List or show saved traces",
	Long:  `Without an id, list saved traces newest first. With an id, show that trace.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := history.NewStore(cfg.HistoryDir)
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			if historyDelete {
				return fmt.Errorf("--delete needs a report id")
			}
			list, err := store.List()
			if err != nil {
				return err
			}
			if historyJSON {
				return writeJSON(out, list)
			}
			view.FormatHistory(out, list)
			return nil
		}

		if historyDelete {
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted report %s\n", args[0])
			return nil
		}

		r, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if historyJSON {
			return writeJSON(out, r)
		}
		title := scriptTitle
		if r.Kind == history.KindTrace {
			title = explain.Label(i18n.New(r.Locale), dialect.ID(r.Dialect))
		}
		view.FormatTrace(out, view.Trace{
			Title:     title,
			Entries:   r.Entries,
			Outputs:   r.Outputs,
			Truncated: r.Truncated,
		})
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyDelete, "delete", false, "Delete the report with the given id")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(historyCmd)
}
