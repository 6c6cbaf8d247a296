// Package config holds the run parameters and the visual theme.
package config

import "fmt"

// Config describes one rendering run. Values are fixed before the
// pipeline starts and never change during it.
type Config struct {
	// Data source. InputPath points at a "date price" text file;
	// Ticker downloads quotes instead.
	InputPath string
	Ticker    string
	AssetName string

	// Mode is "review" or "quiz".
	Mode         string
	QuizTitle    string
	QuizSubtitle string
	Answer       string

	// Timing, seconds.
	DrawSec      float64
	StartIdleSec float64
	EndIdleSec   float64

	// Output stream.
	FPS          int
	Width        int
	Height       int
	Bitrate      int // kbit/s
	VideoEncoder string
	OutputPath   string

	// Extras.
	Smooth    bool
	LogoPath  string
	QRContent string
	AudioPath string
	UseAudio  bool

	Workers      int
	ShowStats    bool
	BuildVersion string
}

// Default returns the parameters used when nothing is specified.
func Default() *Config {
	return &Config{
		Mode:         "review",
		DrawSec:      10,
		StartIdleSec: 1,
		EndIdleSec:   4,
		FPS:          30,
		Width:        1080,
		Height:       1920,
		Bitrate:      8000,
		VideoEncoder: "libx264",
		UseAudio:     true,
		Workers:      1,
	}
}

// Validate rejects parameter combinations the pipeline cannot render.
// Workers below one is clamped rather than rejected.
func (c *Config) Validate() error {
	if c.DrawSec <= 0 {
		return fmt.Errorf("draw duration must be positive, got %.2f", c.DrawSec)
	}
	if c.StartIdleSec < 0 || c.EndIdleSec < 0 {
		return fmt.Errorf("idle durations must not be negative, got %.2f and %.2f", c.StartIdleSec, c.EndIdleSec)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", c.Width, c.Height)
	}
	// yuv420p subsamples chroma 2x2, odd dimensions break encoding
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("width and height must be even, got %dx%d", c.Width, c.Height)
	}
	if c.Bitrate <= 0 {
		return fmt.Errorf("bitrate must be positive, got %d", c.Bitrate)
	}
	switch c.Mode {
	case "", "review", "quiz":
	default:
		return fmt.Errorf("unknown mode: %q", c.Mode)
	}
	if c.InputPath != "" && c.Ticker != "" {
		return fmt.Errorf("specify either an input file or a ticker, not both")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
