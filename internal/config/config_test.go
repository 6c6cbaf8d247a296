package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"quiz mode", func(c *Config) { c.Mode = "quiz" }, true},
		{"empty mode", func(c *Config) { c.Mode = "" }, true},
		{"unknown mode", func(c *Config) { c.Mode = "battle" }, false},
		{"zero draw", func(c *Config) { c.DrawSec = 0 }, false},
		{"negative draw", func(c *Config) { c.DrawSec = -2 }, false},
		{"negative idle", func(c *Config) { c.StartIdleSec = -1 }, false},
		{"zero fps", func(c *Config) { c.FPS = 0 }, false},
		{"odd width", func(c *Config) { c.Width = 1081 }, false},
		{"odd height", func(c *Config) { c.Height = 1921 }, false},
		{"zero bitrate", func(c *Config) { c.Bitrate = 0 }, false},
		{"two sources", func(c *Config) { c.InputPath = "a.txt"; c.Ticker = "AAPL" }, false},
		{"zero idles ok", func(c *Config) { c.StartIdleSec = 0; c.EndIdleSec = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateClampsWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 1 {
		t.Errorf("expected workers clamped to 1, got %d", cfg.Workers)
	}
}

func TestLoadThemeDefaults(t *testing.T) {
	th, err := LoadTheme("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Line != "#1DB954" || th.DPI != 120 {
		t.Errorf("unexpected defaults: line %s dpi %.0f", th.Line, th.DPI)
	}
}

func TestThemeRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")

	th := DefaultTheme()
	th.Line = "#FF00FF"
	th.TitlePt = 55
	if err := SaveTheme(th, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Line != "#FF00FF" || loaded.TitlePt != 55 {
		t.Errorf("roundtrip lost values: line %s title %.0f", loaded.Line, loaded.TitlePt)
	}
	if loaded.Background != "#121212" {
		t.Errorf("untouched field changed: %s", loaded.Background)
	}
}

func TestLoadThemePartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	writeFile(t, path, "line: \"#ABCDEF\"\nreveal_pt: 64\n")

	th, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if th.Line != "#ABCDEF" || th.RevealPt != 64 {
		t.Errorf("overrides not applied: %s %.0f", th.Line, th.RevealPt)
	}
	if th.Positive != "#32CD32" || th.DPI != 120 {
		t.Errorf("defaults lost: %s %.0f", th.Positive, th.DPI)
	}
}

func TestLoadThemeBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	writeFile(t, path, "line: [not: valid")

	if _, err := LoadTheme(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadThemeRejectsZeroDPI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat.yaml")
	writeFile(t, path, "dpi: 0\n")

	_, err := LoadTheme(path)
	if err == nil || !strings.Contains(err.Error(), "dpi") {
		t.Fatalf("expected dpi error, got %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
