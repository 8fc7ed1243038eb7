package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Model:       "gemini-2.5-flash",
		DB:          "bossfight.db",
		Transcripts: "transcripts",
		MaxRounds:   15,
		Potions:     7,
		LogLevel:    "info",
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"GEMINI_API_KEY":        "k",
		"BOSSFIGHT_MAX_ROUNDS":  "20",
		"BOSSFIGHT_LOG_LEVEL":   "debug",
		"BOSSFIGHT_CONTENT_DIR": "classes",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GeminiAPIKey != "k" || cfg.MaxRounds != 20 || cfg.ContentDir != "classes" {
		t.Errorf("got %+v", cfg)
	}
	if l, _ := cfg.Level(); l != slog.LevelDebug {
		t.Errorf("level = %v", l)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"not a number", map[string]string{"BOSSFIGHT_POTIONS": "many"}},
		{"too few rounds", map[string]string{"BOSSFIGHT_MAX_ROUNDS": "1"}},
		{"negative potions", map[string]string{"BOSSFIGHT_POTIONS": "-1"}},
		{"bad level", map[string]string{"BOSSFIGHT_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.env); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	data := "BOSSFIGHT_DB=from-file.db\nBOSSFIGHT_MODEL=file-model\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOSSFIGHT_MODEL", "env-model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "from-file.db" {
		t.Errorf("DB = %q, want value from file", cfg.DB)
	}
	if cfg.Model != "env-model" {
		t.Errorf("Model = %q, process environment should win", cfg.Model)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}
