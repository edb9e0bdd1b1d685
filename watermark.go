package dstarprep

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	mainFontSize    = 20
	captionFontSize = 18
	lineGap         = 4
)

// FontProvider supplies the faces used by the overlay: a larger one for the
// identity lines and a smaller one for the caption.
type FontProvider interface {
	Main() font.Face
	Caption() font.Face
}

type styledFonts struct {
	main, caption font.Face
}

func (f styledFonts) Main() font.Face    { return f.main }
func (f styledFonts) Caption() font.Face { return f.caption }

// DefaultFonts returns the preferred styled faces, falling back to the
// built-in bitmap face when they cannot be constructed. The overlay must
// never fail the pipeline because of fonts.
func DefaultFonts() FontProvider {
	ttf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fallbackFonts()
	}
	main, err := opentype.NewFace(ttf, &opentype.FaceOptions{
		Size: mainFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return fallbackFonts()
	}
	caption, err := opentype.NewFace(ttf, &opentype.FaceOptions{
		Size: captionFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return fallbackFonts()
	}
	return styledFonts{main: main, caption: caption}
}

func fallbackFonts() FontProvider {
	return styledFonts{main: basicfont.Face7x13, caption: basicfont.Face7x13}
}

type overlayLine struct {
	text string
	face font.Face
	w, h int
}

// ApplyWatermark draws the identity/caption block onto a copy of img.
// It is a no-op returning img unchanged when both texts are empty.
//
// The block anchors at the bottom-left corner. Each line is drawn twice:
// a black copy offset by one pixel, then white text on top, so the overlay
// stays legible over both light and dark backgrounds.
func ApplyWatermark(img *image.NRGBA, spec WatermarkSpec, fonts FontProvider) *image.NRGBA {
	if spec.empty() {
		return img
	}
	if fonts == nil {
		fonts = DefaultFonts()
	}

	var lines []overlayLine
	for _, text := range spec.IdentityLines() {
		lines = append(lines, measureLine(text, fonts.Main()))
	}
	if spec.Caption != "" {
		lines = append(lines, measureLine(spec.Caption, fonts.Caption()))
	}

	totalHeight := lineGap * (len(lines) - 1)
	for _, l := range lines {
		totalHeight += l.h
	}

	dst := imaging.Clone(img)
	x := spec.Margin
	// When the block is taller than the image this goes negative and the
	// top lines land off-canvas. Left as-is on purpose; see DESIGN.md.
	y := dst.Bounds().Dy() - totalHeight - spec.Margin

	for _, l := range lines {
		drawLine(dst, l, x+1, y+1, color.NRGBA{0, 0, 0, 255})
		drawLine(dst, l, x, y, color.NRGBA{255, 255, 255, 255})
		y += l.h + lineGap
	}
	return dst
}

// measureLine computes the rendered bounding box of text under face.
func measureLine(text string, face font.Face) overlayLine {
	bounds, _ := font.BoundString(face, text)
	return overlayLine{
		text: text,
		face: face,
		w:    (bounds.Max.X - bounds.Min.X).Ceil(),
		h:    (bounds.Max.Y - bounds.Min.Y).Ceil(),
	}
}

// drawLine renders l with its bounding box's top-left corner at (x, y).
func drawLine(dst *image.NRGBA, l overlayLine, x, y int, c color.NRGBA) {
	bounds, _ := font.BoundString(l.face, l.text)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: l.face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - bounds.Min.X,
			Y: fixed.I(y) - bounds.Min.Y,
		},
	}
	d.DrawString(l.text)
}
