package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/config"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/logger"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/version"
)

var configPath string
var logLevel string
var locale string

// cfg is loaded before every command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "miniko",
	Short: "Step-by-step traces of small code snippets",
	Long: `Miniko runs short teaching snippets (Python, JavaScript, Java, C, C++, C#, Go
and Rust) through a heuristic interpreter and shows every step: the line that ran,
the variables before and after, and what was printed.

It also runs the toy script language, executes JavaScript and Go snippets in a
sandbox, and explains snippets with an OpenAI-compatible API or a local fallback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if locale != "" {
			loaded.Locale = locale
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded

		logCfg := logger.DefaultConfig()
		logCfg.Level = cfg.Log.Level
		logCfg.Format = cfg.Log.Format
		logCfg.LogFile = cfg.Log.File
		logCfg.Output = cmd.ErrOrStderr()
		return logger.Init(logCfg)
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("miniko %s\n", version.String()))

	// Config file flag with env var fallback
	defaultConfig := config.DefaultPath()
	if envConfig := os.Getenv("MINIKO_CONFIG"); envConfig != "" {
		defaultConfig = envConfig
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "Locale for step notes (en, es)")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
