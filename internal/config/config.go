package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"dictation/internal/segment"
	"dictation/internal/tokenizer"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// TokenizerConfig selects the word segmentation backend.
type TokenizerConfig struct {
	Type     string `yaml:"type"`
	DictPath string `yaml:"dict_path,omitempty"`
}

// LessonConfig configures how documents are turned into lessons.
type LessonConfig struct {
	Workers  int `yaml:"workers"`
	MaxWords int `yaml:"max_words"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	ListenAddr          string `yaml:"listen_addr"`
	MaxTextBytes        int    `yaml:"max_text_bytes"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Segmenter segment.Config  `yaml:"segmenter"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Lesson    LessonConfig    `yaml:"lesson"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./dictation.yaml first, then ~/.config/dictation/config.yaml.
// If neither exists, it writes defaults to ~/.config/dictation/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "dictation.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := DefaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dictation", "config.yaml"), nil
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Segmenter: segment.DefaultConfig(),
		Tokenizer: TokenizerConfig{Type: tokenizer.TypeGSE},
		Lesson:    LessonConfig{Workers: 4, MaxWords: 10},
		Server: ServerConfig{
			ListenAddr:          ":8080",
			MaxTextBytes:        64 << 10,
			ShutdownTimeoutSecs: 10,
		},
		Log: LogConfig{Level: "info"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := DefaultConfig()
	if cfg.Segmenter.MaxLen == 0 {
		cfg.Segmenter.MaxLen = def.Segmenter.MaxLen
		if cfg.Segmenter.MinLen == 0 {
			cfg.Segmenter.MinLen = def.Segmenter.MinLen
		}
	}
	if cfg.Segmenter.Strategy == "" {
		cfg.Segmenter.Strategy = def.Segmenter.Strategy
	}
	if cfg.Tokenizer.Type == "" {
		cfg.Tokenizer.Type = def.Tokenizer.Type
	}
	if cfg.Lesson.Workers == 0 {
		cfg.Lesson.Workers = def.Lesson.Workers
	}
	if cfg.Lesson.MaxWords == 0 {
		cfg.Lesson.MaxWords = def.Lesson.MaxWords
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = def.Server.ListenAddr
	}
	if cfg.Server.MaxTextBytes == 0 {
		cfg.Server.MaxTextBytes = def.Server.MaxTextBytes
	}
	if cfg.Server.ShutdownTimeoutSecs == 0 {
		cfg.Server.ShutdownTimeoutSecs = def.Server.ShutdownTimeoutSecs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// applyEnvOverrides lets DICTATION_* variables (typically from .env) win
// over file values.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("DICTATION_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DICTATION_TOKENIZER"); v != "" {
		cfg.Tokenizer.Type = v
	}
	if v := os.Getenv("DICTATION_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
}

// Validate checks every section and reports the first problem.
func (c *AppConfig) Validate() error {
	if err := c.Segmenter.Validate(); err != nil {
		return fmt.Errorf("%w: segmenter: %w", ErrInvalid, err)
	}
	if c.Lesson.Workers < 1 {
		return fmt.Errorf("%w: lesson.workers must be at least 1, got %d", ErrInvalid, c.Lesson.Workers)
	}
	if c.Lesson.MaxWords < 0 {
		return fmt.Errorf("%w: lesson.max_words must not be negative, got %d", ErrInvalid, c.Lesson.MaxWords)
	}
	if c.Server.MaxTextBytes < 1 {
		return fmt.Errorf("%w: server.max_text_bytes must be positive, got %d", ErrInvalid, c.Server.MaxTextBytes)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// RegisterFlags adds the command line overrides for cfg to fs.
func RegisterFlags(fs *pflag.FlagSet, defaults *AppConfig) {
	fs.Int("max-len", defaults.Segmenter.MaxLen, "Maximum ideographs per sentence")
	fs.Int("min-len", defaults.Segmenter.MinLen, "Minimum ideographs per piece of a split sentence")
	fs.String("strategy", string(defaults.Segmenter.Strategy), "Cut strategy (auto|fallback)")
	fs.String("tokenizer", defaults.Tokenizer.Type, "Word segmentation backend ("+strings.Join(tokenizer.Names(), "|")+")")
	fs.String("log-level", defaults.Log.Level, "Log level (debug|info|warn|error)")
}

// ApplyFlags copies the flags the user actually set onto cfg.
func ApplyFlags(fs *pflag.FlagSet, cfg *AppConfig) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "max-len":
			cfg.Segmenter.MaxLen, err = fs.GetInt(f.Name)
		case "min-len":
			cfg.Segmenter.MinLen, err = fs.GetInt(f.Name)
		case "strategy":
			cfg.Segmenter.Strategy = segment.Strategy(f.Value.String())
		case "tokenizer":
			cfg.Tokenizer.Type = f.Value.String()
		case "log-level":
			cfg.Log.Level = f.Value.String()
		}
	})
	if err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}
	return nil
}
