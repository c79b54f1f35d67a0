// Package config loads tool configuration from a config file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env          string   `mapstructure:"env"`           // current environment (local, production)
	DataDir      string   `mapstructure:"data_dir"`      // base directory for durable files
	QuizzesFile  string   `mapstructure:"quizzes_file"`  // question bank, relative to DataDir unless absolute
	ProgressFile string   `mapstructure:"progress_file"` // progress store, relative to DataDir unless absolute
	SessionDB    string   `mapstructure:"session_db"`    // round snapshot database, relative to DataDir unless absolute
	Practice     Practice `mapstructure:"practice"`      // practice round defaults
}

// Practice contains round-building defaults.
type Practice struct {
	// LenientProgress keeps the historical behavior of treating a corrupt
	// progress file as empty instead of failing the operation.
	LenientProgress bool `mapstructure:"lenient_progress"`

	// IncludeWrong mixes previously wrong questions into new rounds by
	// default.
	IncludeWrong bool `mapstructure:"include_wrong"`

	// CorrectPercent is the default share [0,100] of previously correct
	// questions to mix back in when IncludeWrong is set.
	CorrectPercent int `mapstructure:"correct_percent"`
}

// Load reads configuration from an optional config file and QUIZDRILL_*
// environment variables. dataDirOverride, when non-empty, wins over both.
func Load(dataDirOverride string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigDir())
	v.AddConfigPath(".")

	v.SetDefault("env", "local")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("quizzes_file", "quizzes.jsonl")
	v.SetDefault("progress_file", "progress.json")
	v.SetDefault("session_db", "session.db")
	v.SetDefault("practice.lenient_progress", true)
	v.SetDefault("practice.include_wrong", false)
	v.SetDefault("practice.correct_percent", 0)

	v.SetEnvPrefix("QUIZDRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if dataDirOverride != "" {
		cfg.DataDir = dataDirOverride
	}
	if cfg.Practice.CorrectPercent < 0 || cfg.Practice.CorrectPercent > 100 {
		return nil, fmt.Errorf("practice.correct_percent %d outside [0,100]", cfg.Practice.CorrectPercent)
	}
	return &cfg, nil
}

// QuizzesPath resolves the question bank path.
func (c *Config) QuizzesPath() string { return c.resolve(c.QuizzesFile) }

// ProgressPath resolves the progress store path.
func (c *Config) ProgressPath() string { return c.resolve(c.ProgressFile) }

// SessionDBPath resolves the round snapshot database path.
func (c *Config) SessionDBPath() string { return c.resolve(c.SessionDB) }

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o755)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// defaultDataDir resolves the durable data directory in priority order:
// $XDG_DATA_HOME/quizdrill, then ~/.local/share/quizdrill, falling back
// to ./data when no home directory is available.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quizdrill")
}

// defaultConfigDir resolves $XDG_CONFIG_HOME/quizdrill or its home-based
// equivalent.
func defaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quizdrill")
}
