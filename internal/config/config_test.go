package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfig points XDG_CONFIG_HOME at a temp dir and writes content as the
// config file (skipped when content is empty).
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	dir := filepath.Join(tempDir, "liftlog")
	if content == "" {
		return dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Theme.Primary == "" {
		t.Error("Theme.Primary should have a default value")
	}
	if cfg.Assistant.BaseURL != DefaultBaseURL {
		t.Errorf("Assistant.BaseURL = %q, want %q", cfg.Assistant.BaseURL, DefaultBaseURL)
	}
	if cfg.Assistant.Model != DefaultModel {
		t.Errorf("Assistant.Model = %q, want %q", cfg.Assistant.Model, DefaultModel)
	}
	if cfg.Assistant.Timeout != 60*time.Second {
		t.Errorf("Assistant.Timeout = %v, want 60s", cfg.Assistant.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	writeConfig(t, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#F97316" {
		t.Errorf("Theme.Primary = %q, want #F97316", cfg.Theme.Primary)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	writeConfig(t, `
data_dir: /custom/data
theme:
  primary: "#FF0000"
  accent: "#00FF00"
assistant:
  model: gemini-2.5-pro
  timeout: 30s
  max_tokens: 2048
keys:
  add_group: "n"
log:
  level: debug
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	if cfg.Theme.Muted != "#6B7280" {
		t.Errorf("Theme.Muted = %q, want default #6B7280", cfg.Theme.Muted)
	}
	if cfg.Assistant.Model != "gemini-2.5-pro" {
		t.Errorf("Assistant.Model = %q", cfg.Assistant.Model)
	}
	if cfg.Assistant.Timeout != 30*time.Second {
		t.Errorf("Assistant.Timeout = %v, want 30s", cfg.Assistant.Timeout)
	}
	if cfg.Assistant.MaxTokens != 2048 {
		t.Errorf("Assistant.MaxTokens = %d, want 2048", cfg.Assistant.MaxTokens)
	}
	if cfg.Assistant.BaseURL != DefaultBaseURL {
		t.Errorf("Assistant.BaseURL = %q, want default", cfg.Assistant.BaseURL)
	}
	if cfg.Assistant.Temperature != 0.7 {
		t.Errorf("Assistant.Temperature = %v, want default 0.7", cfg.Assistant.Temperature)
	}
	if cfg.Keys.AddGroup != "n" {
		t.Errorf("Keys.AddGroup = %q, want n", cfg.Keys.AddGroup)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "theme: [unclosed"},
		{"bad color", "theme:\n  primary: orange\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad url", "assistant:\n  base_url: not a url\n"},
		{"short timeout", "assistant:\n  timeout: 10ms\n"},
		{"temperature out of range", "assistant:\n  temperature: 3\n"},
		{"telegram without chat", "log:\n  telegram:\n    token: abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)
			if _, err := Load(); err == nil {
				t.Errorf("Load() succeeded, want error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme:   ThemeConfig{Primary: "#123456"},
		Keys:    KeysConfig{Copy: "y"},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#123456" {
		t.Errorf("Theme.Primary = %q, want #123456", base.Theme.Primary)
	}
	if base.Theme.Accent != "#22C55E" {
		t.Errorf("Theme.Accent = %q, want default", base.Theme.Accent)
	}
	if base.Keys.Copy != "y" {
		t.Errorf("Keys.Copy = %q, want y", base.Keys.Copy)
	}
	if base.Assistant.Model != DefaultModel {
		t.Errorf("Assistant.Model = %q, want default", base.Assistant.Model)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	writeConfig(t, `
theme:
  primary: "#FF0000"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want true", cfg.UX.ConfirmDeletions)
	}
	if !cfg.UX.ShowOnboarding {
		t.Errorf("UX.ShowOnboarding = %v, want true", cfg.UX.ShowOnboarding)
	}
}

func TestLoad_ExplicitZeroOverridesDefault(t *testing.T) {
	writeConfig(t, `
ux:
  confirm_deletions: false
assistant:
  temperature: 0
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want false", cfg.UX.ConfirmDeletions)
	}
	if !cfg.UX.ShowOnboarding {
		t.Errorf("UX.ShowOnboarding = %v, want true", cfg.UX.ShowOnboarding)
	}
	if cfg.Assistant.Temperature != 0 {
		t.Errorf("Assistant.Temperature = %v, want 0", cfg.Assistant.Temperature)
	}
}

func TestAPIKeyFallback(t *testing.T) {
	t.Setenv("LIFTLOG_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	if got := cfg.APIKey(); got != "" {
		t.Errorf("APIKey() = %q, want empty", got)
	}

	t.Setenv("OPENAI_API_KEY", "openai")
	if got := cfg.APIKey(); got != "openai" {
		t.Errorf("APIKey() = %q, want openai", got)
	}

	t.Setenv("GEMINI_API_KEY", "gemini")
	if got := cfg.APIKey(); got != "gemini" {
		t.Errorf("APIKey() = %q, want gemini", got)
	}

	t.Setenv("LIFTLOG_API_KEY", "liftlog")
	if got := cfg.APIKey(); got != "liftlog" {
		t.Errorf("APIKey() = %q, want liftlog", got)
	}

	cfg.Assistant.APIKey = "configured"
	if got := cfg.APIKey(); got != "configured" {
		t.Errorf("APIKey() = %q, want configured", got)
	}
}

func TestGetDataDir(t *testing.T) {
	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{name: "absolute path", dataDir: "/custom/path", want: "/custom/path"},
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		tests = append(tests,
			struct {
				name    string
				dataDir string
				want    string
			}{name: "tilde expands home", dataDir: "~", want: home},
			struct {
				name    string
				dataDir string
				want    string
			}{name: "tilde path expands home", dataDir: "~/mydata", want: filepath.Join(home, "mydata")},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: tt.dataDir}
			if got := cfg.GetDataDir(); got != tt.want {
				t.Errorf("GetDataDir() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("empty uses default", func(t *testing.T) {
		got := (&Config{}).GetDataDir()
		if filepath.Base(got) != ".liftlog" {
			t.Errorf("GetDataDir() = %q, want to end with .liftlog", got)
		}
	})
}

func TestLogFile(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.LogFile(); got != filepath.Join("/data", "liftlog.log") {
		t.Errorf("LogFile() = %q", got)
	}
	cfg.Log.File = "/var/log/liftlog.log"
	if got := cfg.LogFile(); got != "/var/log/liftlog.log" {
		t.Errorf("LogFile() = %q", got)
	}
}

func TestSave(t *testing.T) {
	dir := writeConfig(t, "")

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Theme.Primary = "#ABCDEF"
	cfg.Assistant.Timeout = 45 * time.Second

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/path" {
		t.Errorf("loaded DataDir = %q, want /saved/path", loaded.DataDir)
	}
	if loaded.Theme.Primary != "#ABCDEF" {
		t.Errorf("loaded Theme.Primary = %q, want #ABCDEF", loaded.Theme.Primary)
	}
	if loaded.Assistant.Timeout != 45*time.Second {
		t.Errorf("loaded Assistant.Timeout = %v, want 45s", loaded.Assistant.Timeout)
	}
}
