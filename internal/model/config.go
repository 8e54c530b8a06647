package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AIConfig holds settings for the hosted interpretation service.
type AIConfig struct {
	// Provider selects the backend: "anthropic" or "openai".
	Provider   string `mapstructure:"provider" yaml:"provider"`
	Model      string `mapstructure:"model" yaml:"model"`
	MaxTokens  int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// Timeout returns the per-request deadline for interpretation calls.
func (c AIConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// StorageConfig selects where the state snapshot lives.
type StorageConfig struct {
	// Backend is "sqlite" or "badger".
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// ScheduleConfig holds the timing constants of the assistant.
type ScheduleConfig struct {
	HeartbeatSec          int `mapstructure:"heartbeat_sec" yaml:"heartbeat_sec"`
	SuggestionIntervalSec int `mapstructure:"suggestion_interval_sec" yaml:"suggestion_interval_sec"`
	ConflictWindowMin     int `mapstructure:"conflict_window_min" yaml:"conflict_window_min"`
	FocusCreditMin        int `mapstructure:"focus_credit_min" yaml:"focus_credit_min"`
	HistoryLimit          int `mapstructure:"history_limit" yaml:"history_limit"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme       string `mapstructure:"theme" yaml:"theme"`
	Personality string `mapstructure:"personality" yaml:"personality"`
}

// VoiceConfig configures the speech and notification capabilities.
type VoiceConfig struct {
	// ListenCommand is run to capture one utterance; it must print the
	// transcript on stdout. Empty disables voice input.
	ListenCommand string `mapstructure:"listen_command" yaml:"listen_command"`

	// SpeakCommand overrides the text-to-speech program.
	SpeakCommand string `mapstructure:"speak_command" yaml:"speak_command"`

	Notify bool `mapstructure:"notify" yaml:"notify"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Dir   string `mapstructure:"dir" yaml:"dir"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Voice    VoiceConfig    `mapstructure:"voice" yaml:"voice"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/jarvis/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jarvis", "config.yaml")
}

// DefaultDataDir returns the directory holding the snapshot database and logs.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "jarvis")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dataDir := DefaultDataDir()
	return &AppConfig{
		AI: AIConfig{
			Provider:   "anthropic",
			Model:      "claude-sonnet-4-5-20250929",
			MaxTokens:  512,
			TimeoutSec: 20,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    filepath.Join(dataDir, "jarvis.db"),
		},
		Schedule: ScheduleConfig{
			HeartbeatSec:          30,
			SuggestionIntervalSec: 600,
			ConflictWindowMin:     30,
			FocusCreditMin:        25,
			HistoryLimit:          100,
		},
		Display: DisplayConfig{
			Theme:       "default",
			Personality: string(PersonalityStandard),
		},
		Voice: VoiceConfig{
			Notify: true,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   filepath.Join(dataDir, "logs"),
		},
	}
}

// setDefaults mirrors DefaultAppConfig so missing keys resolve to
// sensible values.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.timeout_sec", d.AI.TimeoutSec)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("schedule.heartbeat_sec", d.Schedule.HeartbeatSec)
	v.SetDefault("schedule.suggestion_interval_sec", d.Schedule.SuggestionIntervalSec)
	v.SetDefault("schedule.conflict_window_min", d.Schedule.ConflictWindowMin)
	v.SetDefault("schedule.focus_credit_min", d.Schedule.FocusCreditMin)
	v.SetDefault("schedule.history_limit", d.Schedule.HistoryLimit)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("display.personality", d.Display.Personality)
	v.SetDefault("voice.notify", d.Voice.Notify)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return DefaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return decode(v, path)
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("ai", cfg.AI)
	v.Set("storage", cfg.Storage)
	v.Set("schedule", cfg.Schedule)
	v.Set("display", cfg.Display)
	v.Set("voice", cfg.Voice)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// WatchConfig re-reads the file whenever it changes on disk and hands the
// decoded configuration to onChange. Decode failures are reported through
// onError and leave the previous configuration in effect.
func WatchConfig(path string, onChange func(*AppConfig), onError func(error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v, path)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)
	return v
}

func decode(v *viper.Viper, path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch Personality(cfg.Display.Personality) {
	case PersonalityBrief, PersonalityStandard, PersonalityDeep:
	default:
		cfg.Display.Personality = string(PersonalityStandard)
	}
	if cfg.Schedule.HeartbeatSec <= 0 {
		cfg.Schedule.HeartbeatSec = 30
	}
	if cfg.Schedule.SuggestionIntervalSec <= 0 {
		cfg.Schedule.SuggestionIntervalSec = 600
	}

	return cfg, nil
}
