package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme is the visual identity of the generated video: colors, type
// sizes and the chart placement. It is editable as a YAML file so a
// channel can keep its own look without touching code.
//
// Colors are "#RRGGBB". Sizes are typographic points scaled by DPI.
// Placement fields are fractions of the canvas measured from the
// top-left corner.
type Theme struct {
	Background string `yaml:"background"`
	Line       string `yaml:"line"`
	TextBright string `yaml:"text_bright"`
	TextMuted  string `yaml:"text_muted"`
	Grid       string `yaml:"grid"`
	Positive   string `yaml:"positive"`
	Negative   string `yaml:"negative"`
	HighMarker string `yaml:"high_marker"`
	LowMarker  string `yaml:"low_marker"`

	DPI float64 `yaml:"dpi"`

	TitlePt         float64 `yaml:"title_pt"`
	SubtitlePt      float64 `yaml:"subtitle_pt"`
	RevealPt        float64 `yaml:"reveal_pt"`
	RevealMinPt     float64 `yaml:"reveal_min_pt"`
	RevealCaptionPt float64 `yaml:"reveal_caption_pt"`
	LabelPt         float64 `yaml:"label_pt"`
	TickPt          float64 `yaml:"tick_pt"`

	LineWidthPt    float64 `yaml:"line_width_pt"`
	GridWidthPt    float64 `yaml:"grid_width_pt"`
	HeadRadiusPt   float64 `yaml:"head_radius_pt"`
	HeadRimPt      float64 `yaml:"head_rim_pt"`
	MarkerRadiusPt float64 `yaml:"marker_radius_pt"`
	TickPadPt      float64 `yaml:"tick_pad_pt"`

	ChartLeft    float64 `yaml:"chart_left"`
	ChartRight   float64 `yaml:"chart_right"`
	ChartTop     float64 `yaml:"chart_top"`
	ChartBottom  float64 `yaml:"chart_bottom"`
	ChartTopLogo float64 `yaml:"chart_top_logo"`

	TitleY         float64 `yaml:"title_y"`
	SubtitleY      float64 `yaml:"subtitle_y"`
	RevealY        float64 `yaml:"reveal_y"`
	RevealCaptionY float64 `yaml:"reveal_caption_y"`
}

// DefaultTheme is the dark Spotify-green look.
func DefaultTheme() *Theme {
	return &Theme{
		Background: "#121212",
		Line:       "#1DB954",
		TextBright: "#FFFFFF",
		TextMuted:  "#A0A0A0",
		Grid:       "#444444",
		Positive:   "#32CD32",
		Negative:   "#FF6347",
		HighMarker: "#FFD700",
		LowMarker:  "#00BFFF",

		DPI: 120,

		TitlePt:         40,
		SubtitlePt:      24,
		RevealPt:        80,
		RevealMinPt:     24,
		RevealCaptionPt: 20,
		LabelPt:         18,
		TickPt:          16,

		LineWidthPt:    4.5,
		GridWidthPt:    0.5,
		HeadRadiusPt:   6,
		HeadRimPt:      2,
		MarkerRadiusPt: 5,
		TickPadPt:      10,

		ChartLeft:    0.18,
		ChartRight:   0.95,
		ChartTop:     0.15,
		ChartBottom:  0.90,
		ChartTopLogo: 0.25,

		TitleY:         0.07,
		SubtitleY:      0.11,
		RevealY:        0.18,
		RevealCaptionY: 0.22,
	}
}

// LoadTheme reads a theme file on top of the defaults, so a partial
// file only overrides what it names. An empty path returns the
// defaults.
func LoadTheme(path string) (*Theme, error) {
	th := DefaultTheme()
	if path == "" {
		return th, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}
	if err := yaml.Unmarshal(data, th); err != nil {
		return nil, fmt.Errorf("failed to parse theme %s: %w", path, err)
	}
	if th.DPI <= 0 {
		return nil, fmt.Errorf("theme %s: dpi must be positive", path)
	}
	return th, nil
}

// SaveTheme writes a theme as YAML, e.g. to seed a new channel look.
func SaveTheme(th *Theme, path string) error {
	data, err := yaml.Marshal(th)
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
