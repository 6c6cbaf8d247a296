package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/chart2video/internal/layout"
)

func newFrame(vc *layout.VisualConfig) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, vc.Width, vc.Height))
}

func countColor(img *image.RGBA, c color.NRGBA) int {
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == c.R && img.Pix[i+1] == c.G && img.Pix[i+2] == c.B && img.Pix[i+3] == 255 {
			n++
		}
	}
	return n
}

func TestPaintBackgroundFillsFrame(t *testing.T) {
	plan, dense, vc, st := buildScene(t, layout.ModeReview, "")
	painter, err := NewPainter(vc, dense, st)
	if err != nil {
		t.Fatalf("painter: %v", err)
	}

	img := newFrame(vc)
	painter.Paint(img, Compute(plan, dense, vc, 0))

	// Corners sit outside every element and must be pure background.
	bg := color.NRGBA{0x12, 0x12, 0x12, 0xFF}
	for _, pt := range []image.Point{
		{0, 0}, {vc.Width - 1, 0}, {0, vc.Height - 1}, {vc.Width - 1, vc.Height - 1},
	} {
		r, g, b, _ := img.At(pt.X, pt.Y).RGBA()
		if uint8(r>>8) != bg.R || uint8(g>>8) != bg.G || uint8(b>>8) != bg.B {
			t.Errorf("corner %v not background: %v", pt, img.At(pt.X, pt.Y))
		}
	}
}

func TestPaintDrawPhaseShowsLine(t *testing.T) {
	plan, dense, vc, st := buildScene(t, layout.ModeReview, "")
	painter, err := NewPainter(vc, dense, st)
	if err != nil {
		t.Fatalf("painter: %v", err)
	}

	img := newFrame(vc)
	painter.Paint(img, Compute(plan, dense, vc, 200))

	line := color.NRGBA{0x1D, 0xB9, 0x54, 0xFF}
	if n := countColor(img, line); n < 100 {
		t.Errorf("mid-draw frame should contain line pixels, found %d", n)
	}
}

func TestPaintHookShowsHeadMarker(t *testing.T) {
	plan, dense, vc, st := buildScene(t, layout.ModeReview, "")
	painter, err := NewPainter(vc, dense, st)
	if err != nil {
		t.Fatalf("painter: %v", err)
	}

	img := newFrame(vc)
	painter.Paint(img, Compute(plan, dense, vc, 0))

	// No segments yet, but the head marker is already on screen.
	line := color.NRGBA{0x1D, 0xB9, 0x54, 0xFF}
	if n := countColor(img, line); n == 0 {
		t.Error("hook frame should show the head marker")
	}
}

func TestPaintRevealShowsResult(t *testing.T) {
	plan, dense, vc, st := buildScene(t, layout.ModeReview, "")
	painter, err := NewPainter(vc, dense, st)
	if err != nil {
		t.Fatalf("painter: %v", err)
	}

	img := newFrame(vc)
	painter.Paint(img, Compute(plan, dense, vc, 400))

	green := color.NRGBA{0x32, 0xCD, 0x32, 0xFF}
	if n := countColor(img, green); n == 0 {
		t.Error("reveal frame should contain the percent text")
	}
	gold := color.NRGBA{0xFF, 0xD7, 0x00, 0xFF}
	if n := countColor(img, gold); n == 0 {
		t.Error("reveal frame should mark the high")
	}
	blue := color.NRGBA{0x00, 0xBF, 0xFF, 0xFF}
	if n := countColor(img, blue); n == 0 {
		t.Error("reveal frame should mark the low")
	}
}

func TestPaintBlankQuizEndScreen(t *testing.T) {
	plan, dense, vc, st := buildScene(t, layout.ModeQuiz, "")
	painter, err := NewPainter(vc, dense, st)
	if err != nil {
		t.Fatalf("painter: %v", err)
	}

	img := newFrame(vc)
	painter.Paint(img, Compute(plan, dense, vc, 400))

	// Neither the review green nor red may appear on a blank quiz end.
	for _, c := range []color.NRGBA{{0x32, 0xCD, 0x32, 0xFF}, {0xFF, 0x63, 0x47, 0xFF}} {
		if n := countColor(img, c); n != 0 {
			t.Errorf("blank quiz end screen leaked reveal color %v (%d px)", c, n)
		}
	}
}

func TestPaintOverwritesReusedBuffer(t *testing.T) {
	plan, dense, vc, st := buildScene(t, layout.ModeReview, "")
	painter, err := NewPainter(vc, dense, st)
	if err != nil {
		t.Fatalf("painter: %v", err)
	}

	reused := newFrame(vc)
	painter.Paint(reused, Compute(plan, dense, vc, 449))
	painter.Paint(reused, Compute(plan, dense, vc, 60))

	fresh := newFrame(vc)
	painter.Paint(fresh, Compute(plan, dense, vc, 60))

	if !bytes.Equal(reused.Pix, fresh.Pix) {
		t.Error("reused buffer must match a fresh render of the same frame")
	}
}

func TestPaintLogoBand(t *testing.T) {
	plan, dense, vc, st := buildScene(t, layout.ModeReview, "")

	// Rebuild with a badge so the band exists.
	in := layout.BuildInput{
		Theme:     nil,
		Width:     vc.Width,
		Height:    vc.Height,
		Mode:      layout.ModeReview,
		AssetName: "NVIDIA",
		Year:      2023,
		HasLogo:   true,
		Stats:     st,
		Dense:     dense,
	}
	vc2, err := layout.Build(in)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	badge := image.NewRGBA(image.Rect(0, 0, 40, 40))
	magenta := color.NRGBA{0xFF, 0x00, 0xFF, 0xFF}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			badge.Set(x, y, magenta)
		}
	}
	vc2.Logo = badge

	painter, err := NewPainter(vc2, dense, st)
	if err != nil {
		t.Fatalf("painter: %v", err)
	}
	img := newFrame(vc2)
	painter.Paint(img, Compute(plan, dense, vc2, 10))

	if n := countColor(img, magenta); n == 0 {
		t.Error("badge pixels missing from the hook frame")
	}
}
