package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/engine"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/explain"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/history"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/view"
)

var traceLang string
var traceMaxSteps int
var traceLoopGuard int
var traceJSON bool
var traceSave bool

var traceCmd = &cobra.Command{
	Use:   "trace [file|-]",
	Short: "Trace a snippet step by step",
	Long: `Trace a snippet step by step. The language is detected from the source
unless --lang is given. Reads stdin when no file or "-" is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		id, err := resolveDialect(traceLang, source)
		if err != nil {
			return err
		}

		opts := engine.Options{Locale: cfg.Locale, MaxSteps: cfg.MaxSteps, LoopGuard: cfg.LoopGuard}
		if cmd.Flags().Changed("max-steps") {
			if traceMaxSteps <= 0 {
				return fmt.Errorf("--max-steps must be positive, got %d", traceMaxSteps)
			}
			opts.MaxSteps = traceMaxSteps
		}
		if cmd.Flags().Changed("loop-guard") {
			if traceLoopGuard <= 0 {
				return fmt.Errorf("--loop-guard must be positive, got %d", traceLoopGuard)
			}
			opts.LoopGuard = traceLoopGuard
		}
		res := engine.Run(source, id, opts)
		log.Info().Str("dialect", string(id)).Int("steps", len(res.Entries)).Msg("traced snippet")

		if traceSave {
			err := saveReport(cmd, &history.Report{
				Kind:      history.KindTrace,
				Dialect:   string(res.Dialect),
				Locale:    opts.Locale,
				Source:    source,
				Entries:   res.Entries,
				Outputs:   res.Outputs,
				Truncated: res.Truncated,
			})
			if err != nil {
				return err
			}
		}

		if traceJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		view.FormatTrace(cmd.OutOrStdout(), view.Trace{
			Title:      explain.Label(i18n.New(opts.Locale), id),
			Entries:    res.Entries,
			Outputs:    res.Outputs,
			Truncated:  res.Truncated,
			Incomplete: res.Incomplete,
		})
		return nil
	},
}

func init() {
	traceCmd.Flags().StringVarP(&traceLang, "lang", "l", "", langHelp())
	traceCmd.Flags().IntVar(&traceMaxSteps, "max-steps", 0, "Maximum number of recorded steps (default from config)")
	traceCmd.Flags().IntVar(&traceLoopGuard, "loop-guard", 0, "Maximum rounds of a condition-driven loop (default from config)")
	traceCmd.Flags().BoolVar(&traceJSON, "json", false, "Print the trace as JSON")
	traceCmd.Flags().BoolVar(&traceSave, "save", false, "Save the trace to history")
	rootCmd.AddCommand(traceCmd)
}
