// Package config handles configuration loading and defaults for liftlog.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/liftlog/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"liftlog/internal/fsutil"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is Google's OpenAI-compatible Gemini endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// DefaultModel is used when assistant.model is not set.
const DefaultModel = "gemini-2.5-flash"

// apiKeyEnv lists the environment variables consulted, in order, when
// assistant.api_key is empty.
var apiKeyEnv = []string{"LIFTLOG_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"}

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.liftlog)
	DataDir string `yaml:"data_dir,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Assistant configures the chat model
	Assistant AssistantConfig `yaml:"assistant,omitempty"`

	// Log configures log output
	Log LogConfig `yaml:"log,omitempty"`
}

// ThemeConfig defines color settings. Empty means terminal default.
type ThemeConfig struct {
	Primary    string `yaml:"primary,omitempty" validate:"omitempty,hexcolor"`
	Accent     string `yaml:"accent,omitempty" validate:"omitempty,hexcolor"`
	Muted      string `yaml:"muted,omitempty" validate:"omitempty,hexcolor"`
	Background string `yaml:"background,omitempty" validate:"omitempty,hexcolor"`
	Text       string `yaml:"text,omitempty" validate:"omitempty,hexcolor"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit         string `yaml:"quit,omitempty"`          // default: "q,ctrl+c"
	Help         string `yaml:"help,omitempty"`          // default: "?"
	NextView     string `yaml:"next_view,omitempty"`     // default: "tab"
	ViewWorkouts string `yaml:"view_workouts,omitempty"` // default: "1"
	ViewChat     string `yaml:"view_chat,omitempty"`     // default: "2"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Workout keys
	AddGroup    string `yaml:"add_group,omitempty"`    // default: "a"
	AddExercise string `yaml:"add_exercise,omitempty"` // default: "e"
	Edit        string `yaml:"edit,omitempty"`         // default: "r"
	Delete      string `yaml:"delete,omitempty"`       // default: "x"
	Progress    string `yaml:"progress,omitempty"`     // default: "enter,p"

	// Chat keys
	OpenVideo string `yaml:"open_video,omitempty"` // default: "ctrl+o"
	Copy      string `yaml:"copy,omitempty"`       // default: "ctrl+k"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"

	// Undo/Redo keys
	Undo string `yaml:"undo,omitempty"` // default: "ctrl+z,u"
	Redo string `yaml:"redo,omitempty"` // default: "ctrl+y"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting items
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// ShowOnboarding shows the welcome screen when the example workouts were loaded
	ShowOnboarding bool `yaml:"show_onboarding,omitempty"` // default: true
}

// AssistantConfig configures the OpenAI-compatible chat endpoint.
type AssistantConfig struct {
	// BaseURL of the OpenAI-compatible API
	BaseURL string `yaml:"base_url,omitempty" validate:"required,url"`
	// APIKey for the endpoint. Falls back to LIFTLOG_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY.
	APIKey string `yaml:"api_key,omitempty"`
	// Model name
	Model string `yaml:"model,omitempty" validate:"required"`
	// Timeout for one request
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"min=1s"`
	// Temperature passed to the model
	Temperature float64 `yaml:"temperature,omitempty" validate:"gte=0,lte=2"`
	// MaxTokens caps the reply length (0 = provider default)
	MaxTokens int `yaml:"max_tokens,omitempty" validate:"gte=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty" validate:"oneof=debug info warn error"`
	// File overrides the log file path (default <data_dir>/liftlog.log)
	File string `yaml:"file,omitempty"`
	// Telegram forwards error records to a chat
	Telegram TelegramLog `yaml:"telegram,omitempty"`
}

// TelegramLog configures the Telegram log sink.
type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token,omitempty"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id,omitempty" validate:"required_with=Token"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme: ThemeConfig{
			Primary: "#F97316", // Orange
			Accent:  "#22C55E", // Green
			Muted:   "#6B7280", // Gray
		},
		UX: UXConfig{
			ConfirmDeletions: true,
			ShowOnboarding:   true,
		},
		Assistant: AssistantConfig{
			BaseURL:     DefaultBaseURL,
			Model:       DefaultModel,
			Timeout:     60 * time.Second,
			Temperature: 0.7,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".liftlog"
	}
	return filepath.Join(home, ".liftlog")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "liftlog")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "liftlog")
}

// Path returns the path to the config file, or "" when no home is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from path. An empty path or a missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.apply(data); err != nil {
				return nil, oops.With("path", path).Wrapf(err, "failed to parse YAML config")
			}
		case !os.IsNotExist(err):
			return nil, oops.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	c.mergeFromYAML(&userCfg, &doc)
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return oops.Errorf("failed to validate config: %w", err)
	}
	return nil
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeNonEmpty applies non-empty values from other to c.
// It does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	mergeString(&c.DataDir, other.DataDir)

	mergeString(&c.Theme.Primary, other.Theme.Primary)
	mergeString(&c.Theme.Accent, other.Theme.Accent)
	mergeString(&c.Theme.Muted, other.Theme.Muted)
	mergeString(&c.Theme.Background, other.Theme.Background)
	mergeString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	for _, pair := range []struct {
		dst *string
		src string
	}{
		{&k.Quit, o.Quit}, {&k.Help, o.Help}, {&k.NextView, o.NextView},
		{&k.ViewWorkouts, o.ViewWorkouts}, {&k.ViewChat, o.ViewChat},
		{&k.Up, o.Up}, {&k.Down, o.Down}, {&k.Top, o.Top}, {&k.Bottom, o.Bottom},
		{&k.AddGroup, o.AddGroup}, {&k.AddExercise, o.AddExercise}, {&k.Edit, o.Edit},
		{&k.Delete, o.Delete}, {&k.Progress, o.Progress},
		{&k.OpenVideo, o.OpenVideo}, {&k.Copy, o.Copy},
		{&k.Confirm, o.Confirm}, {&k.Cancel, o.Cancel},
		{&k.Undo, o.Undo}, {&k.Redo, o.Redo},
	} {
		mergeString(pair.dst, pair.src)
	}

	mergeString(&c.Assistant.BaseURL, other.Assistant.BaseURL)
	mergeString(&c.Assistant.APIKey, other.Assistant.APIKey)
	mergeString(&c.Assistant.Model, other.Assistant.Model)
	if other.Assistant.Timeout > 0 {
		c.Assistant.Timeout = other.Assistant.Timeout
	}
	if other.Assistant.MaxTokens > 0 {
		c.Assistant.MaxTokens = other.Assistant.MaxTokens
	}

	mergeString(&c.Log.Level, other.Log.Level)
	mergeString(&c.Log.File, other.Log.File)
	mergeString(&c.Log.Telegram.Token, other.Log.Telegram.Token)
	mergeString(&c.Log.Telegram.ChatID, other.Log.Telegram.ChatID)
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		if other.Assistant.Temperature != 0 {
			c.Assistant.Temperature = other.Assistant.Temperature
		}
		return
	}

	// Booleans and zero-able numbers apply only when present in YAML.
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "show_onboarding") {
		c.UX.ShowOnboarding = other.UX.ShowOnboarding
	}
	if yamlHasPath(doc, "assistant", "temperature") {
		c.Assistant.Temperature = other.Assistant.Temperature
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return oops.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return oops.Errorf("failed to encode config: %w", err)
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// LogFile returns the resolved log file path.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	return filepath.Join(c.GetDataDir(), "liftlog.log")
}

// APIKey returns the configured API key or the first non-empty environment
// fallback.
func (c *Config) APIKey() string {
	if c.Assistant.APIKey != "" {
		return c.Assistant.APIKey
	}
	for _, name := range apiKeyEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}
