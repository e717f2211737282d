package config

import "fmt"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds SQLite persistence settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"isomorph.db"`
}

// GeminiConfig holds settings for the annotation provider.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model"   env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
}

// LexiconConfig points to an optional root lexicon file.
type LexiconConfig struct {
	Path string `yaml:"path" env:"LEXICON_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is empty")
	}
	return nil
}
