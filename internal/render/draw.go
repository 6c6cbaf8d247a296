package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/ivlev/chart2video/internal/layout"
	"github.com/ivlev/chart2video/internal/series"
)

// Painter rasterizes frame states onto RGBA buffers. It owns sized font
// faces and is not safe for concurrent use; give each worker its own.
type Painter struct {
	vc    *layout.VisualConfig
	dense series.DenseSeries
	stats series.Statistics
	faces *FaceSet
}

// NewPainter prepares a painter for one layout.
func NewPainter(vc *layout.VisualConfig, dense series.DenseSeries, stats series.Statistics) (*Painter, error) {
	faces, err := NewFaceSet(vc)
	if err != nil {
		return nil, err
	}
	return &Painter{vc: vc, dense: dense, stats: stats, faces: faces}, nil
}

// Paint renders st into dst, overwriting its full extent.
func (p *Painter) Paint(dst *image.RGBA, st FrameState) {
	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(p.vc.Background)
	dc.Clear()

	p.paintGrid(dc)
	p.paintHeader(dc, st)
	p.paintLine(dc, st)
	if st.MarkersVisible {
		p.paintExtremes(dc)
	}
	if st.HeadVisible {
		p.paintHead(dc, st)
	}
	if st.DateVisible {
		p.paintDateLabel(dc, st)
	}
	if st.RevealVisible {
		p.paintReveal(dc)
	}
	if st.LogoVisible && p.vc.Logo != nil {
		p.paintLogo(dc)
	}
}

func (p *Painter) paintGrid(dc *gg.Context) {
	vc := p.vc
	left, right := float64(vc.Chart.Min.X), float64(vc.Chart.Max.X)

	dc.SetLineWidth(vc.GridWidth)
	for _, tk := range vc.YTicks {
		y := vc.Y(tk.Value)
		dc.SetColor(vc.GridColor)
		dc.SetDash(6, 6)
		dc.DrawLine(left, y, right, y)
		dc.Stroke()
		dc.SetDash()

		dc.SetFontFace(p.faces.Tick)
		dc.SetColor(vc.TextMuted)
		dc.DrawStringAnchored(tk.Label, left-vc.TickPad, y, 1, 0.35)
	}

	dc.SetFontFace(p.faces.Tick)
	bottom := float64(vc.Chart.Max.Y)
	for _, tk := range vc.XTicks {
		dc.SetColor(vc.TextMuted)
		dc.DrawStringAnchored(tk.Label, vc.X(tk.Time), bottom+vc.TickPad, 0.5, 1)
	}
}

func (p *Painter) paintHeader(dc *gg.Context, st FrameState) {
	vc := p.vc
	cx := float64(vc.Width) / 2

	dc.SetFontFace(p.faces.Title)
	dc.SetColor(withAlpha(vc.TextBright, st.OverlayAlpha))
	dc.DrawStringAnchored(vc.Title, cx, vc.TitleY, 0.5, 0.35)

	if st.SubtitleVisible {
		dc.SetFontFace(p.faces.Subtitle)
		dc.SetColor(withAlpha(vc.TextMuted, st.OverlayAlpha))
		dc.DrawStringAnchored(vc.Subtitle, cx, vc.SubtitleY, 0.5, 0.35)
	}
}

func (p *Painter) paintLine(dc *gg.Context, st FrameState) {
	vc := p.vc
	if st.Cursor < 1 || st.Cursor >= len(p.dense) {
		return
	}
	dc.SetColor(vc.LineColor)
	dc.SetLineWidth(vc.LineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(vc.XIndex(0), vc.Y(p.dense[0].Price))
	for i := 1; i <= st.Cursor; i++ {
		dc.LineTo(vc.XIndex(i), vc.Y(p.dense[i].Price))
	}
	dc.Stroke()
}

func (p *Painter) paintHead(dc *gg.Context, st FrameState) {
	vc := p.vc
	if st.Cursor >= len(p.dense) {
		return
	}
	x := vc.XIndex(st.Cursor)
	y := vc.Y(p.dense[st.Cursor].Price)
	dc.DrawCircle(x, y, vc.HeadRadius)
	dc.SetColor(vc.LineColor)
	dc.FillPreserve()
	dc.SetColor(vc.TextBright)
	dc.SetLineWidth(vc.HeadRim)
	dc.Stroke()
}

func (p *Painter) paintDateLabel(dc *gg.Context, st FrameState) {
	vc := p.vc
	if st.DateLabel == "" || st.Cursor >= len(p.dense) {
		return
	}
	x := vc.XIndex(st.Cursor)
	y := vc.Y(p.dense[st.Cursor].Price) - vc.LabelOffset
	dc.SetFontFace(p.faces.Label)
	dc.SetColor(vc.TextBright)
	dc.DrawStringAnchored(st.DateLabel, x, y, 0.5, 0)
}

func (p *Painter) paintExtremes(dc *gg.Context) {
	vc := p.vc
	for _, m := range []struct {
		pt series.PricePoint
		c  color.Color
	}{
		{p.stats.High, vc.HighColor},
		{p.stats.Low, vc.LowColor},
	} {
		dc.SetColor(m.c)
		dc.DrawCircle(vc.X(m.pt.Time), vc.Y(m.pt.Price), vc.MarkerRadius)
		dc.Fill()
	}
}

func (p *Painter) paintReveal(dc *gg.Context) {
	vc := p.vc
	cx := float64(vc.Width) / 2

	dc.SetFontFace(p.faces.Reveal)
	dc.SetColor(vc.RevealColor)
	dc.DrawStringAnchored(vc.Reveal, cx, vc.RevealY, 0.5, 0.35)

	dc.SetFontFace(p.faces.RevealCaption)
	dc.SetColor(vc.TextMuted)
	dc.DrawStringAnchored(vc.RevealCaption, cx, vc.RevealCaptionY, 0.5, 0.35)
}

func (p *Painter) paintLogo(dc *gg.Context) {
	band := p.vc.LogoBand
	cx := band.Min.X + band.Dx()/2
	cy := band.Min.Y + band.Dy()/2
	dc.DrawImageAnchored(p.vc.Logo, cx, cy, 0.5, 0.5)
}

// withAlpha scales a color's opacity without touching its channels.
func withAlpha(c color.Color, a float64) color.Color {
	if a >= 1 {
		return c
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = uint8(float64(nc.A) * a)
	return nc
}
