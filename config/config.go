// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the commands use.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Model        string `env:"BOSSFIGHT_MODEL" envDefault:"gemini-2.5-flash"`
	DB           string `env:"BOSSFIGHT_DB" envDefault:"bossfight.db"`
	Transcripts  string `env:"BOSSFIGHT_TRANSCRIPTS" envDefault:"transcripts"`
	ContentDir   string `env:"BOSSFIGHT_CONTENT_DIR"`
	PromptDir    string `env:"BOSSFIGHT_PROMPT_DIR"`
	MaxRounds    int    `env:"BOSSFIGHT_MAX_ROUNDS" envDefault:"15"`
	Potions      int    `env:"BOSSFIGHT_POTIONS" envDefault:"7"`
	LogLevel     string `env:"BOSSFIGHT_LOG_LEVEL" envDefault:"info"`
}

// Load reads the process environment. Variables missing from it are taken
// from the given .env files (".env" when none are named); a missing file
// is not an error.
func Load(files ...string) (Config, error) {
	environ := env.ToMap(os.Environ())
	dotenv, err := godotenv.Read(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}
	for k, v := range dotenv {
		if _, set := environ[k]; !set {
			environ[k] = v
		}
	}
	return Parse(environ)
}

// Parse builds a Config from an explicit environment.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges the struct tags cannot express.
func (c Config) Validate() error {
	if c.MaxRounds <= 1 {
		return fmt.Errorf("BOSSFIGHT_MAX_ROUNDS must be at least 2, got %d", c.MaxRounds)
	}
	if c.Potions < 0 {
		return fmt.Errorf("BOSSFIGHT_POTIONS must not be negative, got %d", c.Potions)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("BOSSFIGHT_LOG_LEVEL: %w", err)
	}
	return l, nil
}
