// Package layout turns a summarized series plus a theme into the fixed
// geometry of the video: chart placement, axis ticks, text content and
// pixel sizes. Everything here is computed once per run; per-frame
// state lives in the render package.
package layout

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/ivlev/chart2video/internal/config"
	"github.com/ivlev/chart2video/internal/series"
)

// Mode selects what the end screen reveals.
type Mode int

const (
	// ModeReview names the asset up front and reveals the percent
	// change.
	ModeReview Mode = iota
	// ModeQuiz withholds the asset identity and reveals an optional
	// answer, or nothing at all to push viewers into the comments.
	ModeQuiz
)

// ParseMode maps a mode name to its Mode. An empty name means review.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "review", "":
		return ModeReview, nil
	case "quiz":
		return ModeQuiz, nil
	default:
		return 0, fmt.Errorf("unknown mode: %q", s)
	}
}

func (m Mode) String() string {
	if m == ModeQuiz {
		return "quiz"
	}
	return "review"
}

// BuildInput collects everything Build needs to lay out one video.
type BuildInput struct {
	Theme  *config.Theme
	Width  int
	Height int

	Mode      Mode
	AssetName string
	Year      int

	QuizTitle    string
	QuizSubtitle string
	Answer       string

	HasLogo bool

	Stats series.Statistics
	Dense series.DenseSeries
}

// VisualConfig is the immutable layout of one video: placement, colors,
// text and pixel sizes. It is shared read-only by all render workers.
type VisualConfig struct {
	Width  int
	Height int
	// Scale converts typographic points to device pixels.
	Scale float64

	Mode Mode

	Background color.Color
	LineColor  color.Color
	TextBright color.Color
	TextMuted  color.Color
	GridColor  color.Color
	HighColor  color.Color
	LowColor   color.Color

	// Chart is the plot area in pixels.
	Chart    image.Rectangle
	FirstDay time.Time
	SpanDays int
	YMin     float64
	YMax     float64
	XTicks   []Tick
	YTicks   []Tick
	// DateFormat lays out the moving date label, "Jan 02" within a
	// year and "Jan 2006" beyond.
	DateFormat string

	Title        string
	TitleSize    float64
	TitleY       float64
	Subtitle     string
	SubtitleSize float64
	SubtitleY    float64

	Reveal            string
	RevealColor       color.Color
	RevealSize        float64
	RevealY           float64
	RevealCaption     string
	RevealCaptionSize float64
	RevealCaptionY    float64
	// ShowReveal is false when a quiz has no answer: the end screen
	// stays blank on purpose.
	ShowReveal bool

	LabelSize   float64
	TickSize    float64
	LabelOffset float64
	TickPad     float64

	LineWidth    float64
	GridWidth    float64
	HeadRadius   float64
	HeadRim      float64
	MarkerRadius float64

	// Logo is the fitted badge image, nil when the run has none.
	Logo     image.Image
	LogoBand image.Rectangle

	// HookPulse turns on the attention pulse of the header during the
	// hook phase.
	HookPulse bool
}

// Build computes the video layout. The returned config is complete
// except for Logo, which the caller fits into LogoBand afterwards.
func Build(in BuildInput) (*VisualConfig, error) {
	if len(in.Dense) == 0 {
		return nil, fmt.Errorf("layout: %w", series.ErrEmptySeries)
	}
	th := in.Theme
	if th == nil {
		th = config.DefaultTheme()
	}

	fw, fh := float64(in.Width), float64(in.Height)
	vc := &VisualConfig{
		Width:  in.Width,
		Height: in.Height,
		Scale:  th.DPI / 72,
		Mode:   in.Mode,

		Background: parseHex(th.Background),
		LineColor:  parseHex(th.Line),
		TextBright: parseHex(th.TextBright),
		TextMuted:  parseHex(th.TextMuted),
		GridColor:  parseHex(th.Grid),
		HighColor:  parseHex(th.HighMarker),
		LowColor:   parseHex(th.LowMarker),
	}

	// Plot area. A badge pushes the chart top down to free the band.
	top := th.ChartTop
	if in.HasLogo {
		top = th.ChartTopLogo
	}
	vc.Chart = image.Rect(
		int(th.ChartLeft*fw), int(top*fh),
		int(th.ChartRight*fw), int(th.ChartBottom*fh),
	)
	if in.HasLogo {
		vc.LogoBand = image.Rect(
			int(0.25*fw), int((th.SubtitleY+0.015)*fh),
			int(0.75*fw), int((th.ChartTopLogo-0.015)*fh),
		)
	}

	// Vertical extent with 5% headroom. A flat series still gets a
	// visible band around it.
	pad := (in.Stats.High.Price - in.Stats.Low.Price) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(in.Stats.High.Price)*0.05, 1.0)
	}
	vc.YMin = in.Stats.Low.Price - pad
	vc.YMax = in.Stats.High.Price + pad

	vc.FirstDay = in.Dense.First().Time
	vc.SpanDays = in.Dense.SpanDays()
	vc.XTicks = xTicks(vc.FirstDay, in.Dense.Last().Time, vc.SpanDays)
	vc.YTicks = yTicks(vc.YMin, vc.YMax)
	vc.DateFormat = "Jan 02"
	if vc.SpanDays > 366 {
		vc.DateFormat = "Jan 2006"
	}

	// Header.
	vc.Title = in.AssetName
	vc.Subtitle = "PERFORMANCE"
	if in.Year != 0 {
		vc.Subtitle = strconv.Itoa(in.Year) + " PERFORMANCE"
	}
	if in.Mode == ModeQuiz {
		vc.Title = in.QuizTitle
		if vc.Title == "" {
			vc.Title = "Can you guess this stock?"
		}
		vc.Subtitle = in.QuizSubtitle
		if vc.Subtitle == "" {
			vc.Subtitle = "answer in comments"
		}
		vc.HookPulse = true
	}

	// End screen.
	vc.ShowReveal = true
	switch in.Mode {
	case ModeReview:
		vc.Reveal = fmt.Sprintf("%+.1f%%", in.Stats.PctChange)
		vc.RevealCaption = "Total Change"
		if in.Stats.PctChange >= 0 {
			vc.RevealColor = parseHex(th.Positive)
		} else {
			vc.RevealColor = parseHex(th.Negative)
		}
	case ModeQuiz:
		vc.Reveal = in.Answer
		vc.RevealCaption = "The Answer!"
		vc.RevealColor = vc.TextBright
		if vc.Reveal == "" {
			vc.ShowReveal = false
			vc.RevealCaption = ""
		}
	}

	// Pixel sizes.
	vc.TitleSize = th.TitlePt * vc.Scale
	vc.SubtitleSize = th.SubtitlePt * vc.Scale
	vc.RevealSize = AdaptiveFontSize(vc.Reveal, th.RevealPt, 6, th.RevealMinPt) * vc.Scale
	vc.RevealCaptionSize = th.RevealCaptionPt * vc.Scale
	vc.LabelSize = th.LabelPt * vc.Scale
	vc.TickSize = th.TickPt * vc.Scale

	vc.TitleY = th.TitleY * fh
	vc.SubtitleY = th.SubtitleY * fh
	vc.RevealY = th.RevealY * fh
	vc.RevealCaptionY = th.RevealCaptionY * fh

	vc.LineWidth = th.LineWidthPt * vc.Scale
	vc.GridWidth = th.GridWidthPt * vc.Scale
	vc.HeadRadius = th.HeadRadiusPt * vc.Scale
	vc.HeadRim = th.HeadRimPt * vc.Scale
	vc.MarkerRadius = th.MarkerRadiusPt * vc.Scale
	vc.TickPad = th.TickPadPt * vc.Scale
	vc.LabelOffset = 0.05 * float64(vc.Chart.Dy())

	return vc, nil
}

// X maps a day to its horizontal pixel position.
func (vc *VisualConfig) X(t time.Time) float64 {
	if vc.SpanDays <= 0 {
		return float64(vc.Chart.Min.X)
	}
	days := t.Sub(vc.FirstDay).Hours() / 24
	return float64(vc.Chart.Min.X) + float64(vc.Chart.Dx())*days/float64(vc.SpanDays)
}

// XIndex maps a dense-series index to its horizontal pixel position.
func (vc *VisualConfig) XIndex(i int) float64 {
	if vc.SpanDays <= 0 {
		return float64(vc.Chart.Min.X)
	}
	return float64(vc.Chart.Min.X) + float64(vc.Chart.Dx())*float64(i)/float64(vc.SpanDays)
}

// Y maps a price to its vertical pixel position.
func (vc *VisualConfig) Y(p float64) float64 {
	r := vc.YMax - vc.YMin
	if r <= 0 {
		return float64(vc.Chart.Max.Y)
	}
	return float64(vc.Chart.Max.Y) - float64(vc.Chart.Dy())*(p-vc.YMin)/r
}

// parseHex reads "#RRGGBB" into an opaque color; bad input comes out
// black.
func parseHex(s string) color.NRGBA {
	c := color.NRGBA{A: 0xFF}
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			c.R = uint8(v >> 16)
			c.G = uint8(v >> 8)
			c.B = uint8(v)
		}
	}
	return c
}
