package cmd

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/engine"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/explain"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/view"
)

var explainLang string
var explainPrompt string
var explainLocal bool
var explainJSON bool

var explainCmd = &cobra.Command{
	Use:   "explain [file|-]",
	Short: "Explain what a snippet does",
	Long: `Explain a snippet with an OpenAI-compatible chat API (set MINIKO_API_KEY or
explain.api_key in the config). Without a key, or when the request fails, a
local explanation is built from the step trace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		id, err := resolveDialect(explainLang, source)
		if err != nil {
			return err
		}

		res := engine.Run(source, id, engine.Options{Locale: cfg.Locale, MaxSteps: cfg.MaxSteps, LoopGuard: cfg.LoopGuard})
		req := explain.Request{Code: source, Dialect: string(id), Prompt: explainPrompt, Locale: cfg.Locale}

		var client explain.Client
		if !explainLocal {
			c, err := explain.NewHTTPClient(explain.Config{
				APIKey:  cfg.Explain.APIKey,
				BaseURL: cfg.Explain.BaseURL,
				Model:   cfg.Explain.Model,
				Timeout: cfg.Explain.Timeout,
			})
			switch {
			case err == nil:
				log.Debug().Str("model", c.Model()).Msg("using remote explanation")
				client = c
			case errors.Is(err, explain.ErrNoAPIKey):
				log.Debug().Msg("no API key configured, using local explanation")
			default:
				return err
			}
		}

		ans := explain.Explain(cmd.Context(), client, req, res)
		if explainJSON {
			return writeJSON(cmd.OutOrStdout(), ans)
		}
		view.FormatExplanation(cmd.OutOrStdout(), ans)
		return nil
	},
}

func init() {
	explainCmd.Flags().StringVarP(&explainLang, "lang", "l", "", langHelp())
	explainCmd.Flags().StringVarP(&explainPrompt, "prompt", "p", "", "Question to ask about the snippet")
	explainCmd.Flags().BoolVar(&explainLocal, "local", false, "Skip the remote API and use the local explanation")
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "Print the answer as JSON")
	rootCmd.AddCommand(explainCmd)
}
