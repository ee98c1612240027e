package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want en", cfg.Locale)
	}
	if cfg.MaxSteps != 500 {
		t.Errorf("MaxSteps = %d, want 500", cfg.MaxSteps)
	}
	if cfg.LoopGuard != 100 {
		t.Errorf("LoopGuard = %d, want 100", cfg.LoopGuard)
	}
	if cfg.Sandbox.Timeout != 2*time.Second {
		t.Errorf("Sandbox.Timeout = %v, want 2s", cfg.Sandbox.Timeout)
	}
	if cfg.HistoryDir == "" {
		t.Error("HistoryDir is empty")
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"MINIKO_LOCALE", "MINIKO_MAX_STEPS", "MINIKO_LOOP_GUARD", "MINIKO_LOG_LEVEL", "MINIKO_MODEL", "MINIKO_SANDBOX_TIMEOUT"} {
		t.Setenv(name, "")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxSteps != Default().MaxSteps {
		t.Errorf("MaxSteps = %d, want default", cfg.MaxSteps)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	data := `locale: es
max_steps: 40
log:
  level: debug
explain:
  model: local-model
  timeout: 5s
sandbox:
  timeout: 750ms
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Locale != "es" || cfg.MaxSteps != 40 || cfg.Log.Level != "debug" {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Explain.Model != "local-model" || cfg.Explain.Timeout != 5*time.Second {
		t.Errorf("Explain = %+v", cfg.Explain)
	}
	if cfg.Sandbox.Timeout != 750*time.Millisecond {
		t.Errorf("Sandbox.Timeout = %v, want 750ms", cfg.Sandbox.Timeout)
	}
	if cfg.LoopGuard != 100 {
		t.Errorf("LoopGuard = %d, want untouched default", cfg.LoopGuard)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("max_steps: [1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MINIKO_LOCALE":          "es-MX",
		"MINIKO_MAX_STEPS":       "25",
		"MINIKO_LOOP_GUARD":      "7",
		"MINIKO_API_KEY":         "secret",
		"MINIKO_SANDBOX_TIMEOUT": "3s",
	}
	cfg := Default()
	if err := applyEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Locale != "es-MX" || cfg.MaxSteps != 25 || cfg.LoopGuard != 7 {
		t.Errorf("applyEnv() = %+v", cfg)
	}
	if cfg.Explain.APIKey != "secret" {
		t.Errorf("APIKey = %q, want secret", cfg.Explain.APIKey)
	}
	if cfg.Sandbox.Timeout != 3*time.Second {
		t.Errorf("Sandbox.Timeout = %v, want 3s", cfg.Sandbox.Timeout)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name, key, val string
	}{
		{"max steps", "MINIKO_MAX_STEPS", "lots"},
		{"loop guard", "MINIKO_LOOP_GUARD", "1.5"},
		{"timeout", "MINIKO_SANDBOX_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			getenv := func(k string) string {
				if k == tt.key {
					return tt.val
				}
				return ""
			}
			if err := applyEnv(&cfg, getenv); err == nil {
				t.Errorf("applyEnv(%s=%q) error = nil, want error", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{"yaml max steps", "max_steps: -1\n", nil},
		{"yaml loop guard", "loop_guard: 0\n", nil},
		{"env max steps", "", map[string]string{"MINIKO_MAX_STEPS": "-1"}},
		{"env loop guard", "", map[string]string{"MINIKO_LOOP_GUARD": "-5"}},
		{"env sandbox timeout", "", map[string]string{"MINIKO_SANDBOX_TIMEOUT": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want validation error")
			}
		})
	}
}
