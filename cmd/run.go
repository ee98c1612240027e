package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/sandbox"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/view"
)

var runLang string
var runTimeout time.Duration
var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run [file|-]",
	Short: "Run a snippet in the sandbox",
	Long: `Run a JavaScript or Go snippet in an isolated interpreter and print what it
logged. Runs are stopped after --timeout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		id, err := resolveDialect(runLang, source)
		if err != nil {
			return err
		}
		exec, ok := sandbox.For(id)
		if !ok {
			return fmt.Errorf("no sandbox for %s (supported: javascript, go)", id)
		}

		timeout := cfg.Sandbox.Timeout
		if cmd.Flags().Changed("timeout") {
			if runTimeout <= 0 {
				return fmt.Errorf("--timeout must be positive, got %v", runTimeout)
			}
			timeout = runTimeout
		}
		res := exec.Execute(cmd.Context(), source, timeout)
		log.Info().Str("dialect", string(id)).Int("logs", len(res.Logs)).Bool("timed_out", res.TimedOut).Msg("sandbox run finished")

		if runJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		view.FormatSandbox(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	// Language flag with env var fallback
	defaultLang := ""
	if envLang := os.Getenv("MINIKO_RUN_LANG"); envLang != "" {
		defaultLang = envLang
	}
	runCmd.Flags().StringVarP(&runLang, "lang", "l", defaultLang, "Language of the snippet (javascript, go)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", sandbox.DefaultTimeout, "Time limit for the run")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(runCmd)
}
