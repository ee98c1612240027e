// Package config loads miniko settings from defaults, an optional YAML file
// and MINIKO_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/engine"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/explain"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/sandbox"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.yaml"

// Config holds every tunable setting.
type Config struct {
	Locale    string `yaml:"locale"`
	MaxSteps  int    `yaml:"max_steps"`
	LoopGuard int    `yaml:"loop_guard"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`

	Explain struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"explain"`

	Sandbox struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"sandbox"`

	HistoryDir string `yaml:"history_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	var cfg Config
	cfg.Locale = "en"
	cfg.MaxSteps = trace.DefaultMaxSteps
	cfg.LoopGuard = engine.DefaultLoopGuard
	cfg.Log.Level = "warn"
	cfg.Log.Format = "text"
	cfg.Explain.BaseURL = explain.DefaultBaseURL
	cfg.Explain.Timeout = 60 * time.Second
	cfg.Sandbox.Timeout = sandbox.DefaultTimeout
	cfg.HistoryDir = defaultHistoryDir()
	return cfg
}

// DefaultPath returns the config file location under the user config
// directory, or "" when it cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "miniko", FileName)
}

func defaultHistoryDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "miniko", "history")
	}
	return filepath.Join(".miniko", "history")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects limits that would disable the step cap or loop guard.
func (c Config) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.LoopGuard <= 0 {
		return fmt.Errorf("loop_guard must be positive, got %d", c.LoopGuard)
	}
	if c.Sandbox.Timeout <= 0 {
		return fmt.Errorf("sandbox timeout must be positive, got %v", c.Sandbox.Timeout)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"MINIKO_LOCALE":      &cfg.Locale,
		"MINIKO_LOG_LEVEL":   &cfg.Log.Level,
		"MINIKO_LOG_FORMAT":  &cfg.Log.Format,
		"MINIKO_API_KEY":     &cfg.Explain.APIKey,
		"MINIKO_API_BASE":    &cfg.Explain.BaseURL,
		"MINIKO_MODEL":       &cfg.Explain.Model,
		"MINIKO_HISTORY_DIR": &cfg.HistoryDir,
	}
	for name, dst := range strs {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MINIKO_MAX_STEPS":  &cfg.MaxSteps,
		"MINIKO_LOOP_GUARD": &cfg.LoopGuard,
	}
	for name, dst := range ints {
		v := getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		*dst = n
	}

	if v := getenv("MINIKO_SANDBOX_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid MINIKO_SANDBOX_TIMEOUT %q: %w", v, err)
		}
		cfg.Sandbox.Timeout = d
	}
	return nil
}
