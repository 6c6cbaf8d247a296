package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/chart2video/internal/layout"
)

var (
	fontOnce    sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontErr     error
)

func loadFonts() error {
	fontOnce.Do(func() {
		regularFont, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			return
		}
		boldFont, fontErr = opentype.Parse(gobold.TTF)
	})
	return fontErr
}

// FaceSet holds the sized faces one painter needs. Faces carry internal
// glyph state, so every render worker builds its own set from the
// shared parsed fonts.
type FaceSet struct {
	Title         font.Face
	Subtitle      font.Face
	Reveal        font.Face
	RevealCaption font.Face
	Label         font.Face
	Tick          font.Face
}

// NewFaceSet sizes the embedded Go fonts for one layout.
func NewFaceSet(vc *layout.VisualConfig) (*FaceSet, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("failed to parse embedded fonts: %w", err)
	}
	fs := &FaceSet{}
	for _, f := range []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&fs.Title, boldFont, vc.TitleSize},
		{&fs.Subtitle, regularFont, vc.SubtitleSize},
		{&fs.Reveal, boldFont, vc.RevealSize},
		{&fs.RevealCaption, regularFont, vc.RevealCaptionSize},
		{&fs.Label, boldFont, vc.LabelSize},
		{&fs.Tick, regularFont, vc.TickSize},
	} {
		face, err := opentype.NewFace(f.src, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to size font face: %w", err)
		}
		*f.dst = face
	}
	return fs, nil
}
