package dstarprep

import (
	"errors"
	"image"
	"testing"
)

// ── Test Helpers ────────────────────────────────────────────────────────────

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*img.Stride + x*4
			img.Pix[off] = uint8(x * 255 / w)
			img.Pix[off+1] = uint8(y * 255 / h)
			img.Pix[off+2] = uint8((x + y) % 256)
			img.Pix[off+3] = 0xff
		}
	}
	return img
}

func makeWhiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func pixelAt(img *image.NRGBA, x, y int) (r, g, b uint8) {
	off := y*img.Stride + x*4
	return img.Pix[off], img.Pix[off+1], img.Pix[off+2]
}

// ── Size Fitter Tests ───────────────────────────────────────────────────────

func TestFitExactDimensions(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
		mode       FitMode
		tgtW, tgtH int
	}{
		{"cover_landscape", 800, 600, FitCover, 640, 480},
		{"cover_wide", 1000, 500, FitCover, 640, 480},
		{"cover_tall", 500, 1000, FitCover, 640, 480},
		{"contain_wide", 1000, 500, FitContain, 640, 480},
		{"contain_tall", 500, 1000, FitContain, 640, 480},
		{"exact_any", 123, 457, FitExact, 640, 480},
		{"cover_upscale", 100, 100, FitCover, 640, 480},
		{"contain_upscale", 100, 100, FitContain, 640, 480},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := makeTestImage(tc.srcW, tc.srcH)
			got, err := Fit(src, TargetSpec{Width: tc.tgtW, Height: tc.tgtH, Mode: tc.mode})
			if err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			if got.Bounds().Dx() != tc.tgtW || got.Bounds().Dy() != tc.tgtH {
				t.Fatalf("expected %dx%d, got %dx%d", tc.tgtW, tc.tgtH, got.Bounds().Dx(), got.Bounds().Dy())
			}
		})
	}
}

func TestFitContainLetterbox(t *testing.T) {
	// 1000x500 into 640x480: srcRatio 2.0 > tgtRatio 1.333, so the content
	// is 640x320 centered with 80px black bars top and bottom.
	src := makeWhiteImage(1000, 500)
	got, err := Fit(src, TargetSpec{Width: 640, Height: 480, Mode: FitContain})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	checkBlack := func(x, y int) {
		t.Helper()
		r, g, b := pixelAt(got, x, y)
		if r != 0 || g != 0 || b != 0 {
			t.Fatalf("pixel (%d,%d) should be black, got (%d,%d,%d)", x, y, r, g, b)
		}
	}
	checkWhite := func(x, y int) {
		t.Helper()
		r, g, b := pixelAt(got, x, y)
		if r != 255 || g != 255 || b != 255 {
			t.Fatalf("pixel (%d,%d) should be white, got (%d,%d,%d)", x, y, r, g, b)
		}
	}

	// Bars: rows [0,80) and [400,480) are padding.
	checkBlack(0, 0)
	checkBlack(320, 79)
	checkBlack(639, 400)
	checkBlack(320, 479)
	// Content region: rows [80,400).
	checkWhite(0, 80)
	checkWhite(320, 240)
	checkWhite(639, 399)
}

func TestFitContainContentRatio(t *testing.T) {
	// 500x1000 into 640x480: srcRatio 0.5 <= tgtRatio, so newH=480,
	// newW=round(480*0.5)=240, bars 200px left and right.
	src := makeWhiteImage(500, 1000)
	got, err := Fit(src, TargetSpec{Width: 640, Height: 480, Mode: FitContain})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	r, g, b := pixelAt(got, 199, 240)
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("left bar should be black, got (%d,%d,%d)", r, g, b)
	}
	r, g, b = pixelAt(got, 320, 240)
	if r != 255 || g != 255 || b != 255 {
		t.Fatalf("content should be white, got (%d,%d,%d)", r, g, b)
	}
	r, g, b = pixelAt(got, 440, 240)
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("right bar should be black, got (%d,%d,%d)", r, g, b)
	}
}

func TestFitCoverCropOffsets(t *testing.T) {
	// 1000x500 into 640x480: resized to 960x480, then a centered 640-wide
	// window is cut with left offset (960-640)/2=160 and no vertical crop.
	// The gradient's red channel grows with x, so the cropped window's
	// left edge must match the resized image's column 160, not column 0.
	src := makeTestImage(1000, 500)
	got, err := Fit(src, TargetSpec{Width: 640, Height: 480, Mode: FitCover})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if got.Bounds().Dx() != 640 || got.Bounds().Dy() != 480 {
		t.Fatalf("expected 640x480, got %dx%d", got.Bounds().Dx(), got.Bounds().Dy())
	}

	// Column 160 of a 960-wide render of the gradient sits at source
	// x = 160/960*1000 ≈ 166, so red ≈ 166*255/1000 ≈ 42.
	r, _, _ := pixelAt(got, 0, 240)
	if r < 30 || r > 55 {
		t.Fatalf("left edge red %d: crop offset not computed from resized dimensions", r)
	}
	// Symmetrically the right edge maps to source x ≈ 833, red ≈ 212.
	r, _, _ = pixelAt(got, 639, 240)
	if r < 200 || r > 225 {
		t.Fatalf("right edge red %d: crop window not centered", r)
	}
}

func TestFitCoverNoVerticalCrop(t *testing.T) {
	// Same 1000x500 → 640x480 cover case: top offset is (480-480)/2 = 0,
	// so row 0 of the output is row 0 of the resized image (green ≈ 0).
	src := makeTestImage(1000, 500)
	got, err := Fit(src, TargetSpec{Width: 640, Height: 480, Mode: FitCover})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	_, g, _ := pixelAt(got, 320, 0)
	if g > 10 {
		t.Fatalf("top row green %d: unexpected vertical crop", g)
	}
	_, g, _ = pixelAt(got, 320, 479)
	if g < 240 {
		t.Fatalf("bottom row green %d: unexpected vertical crop", g)
	}
}

func TestFitTieBreak(t *testing.T) {
	// A source with exactly the target ratio must produce zero padding
	// under contain and zero cropping under cover.
	src := makeWhiteImage(1280, 960) // 4:3, same as 640x480

	for _, mode := range []FitMode{FitContain, FitCover} {
		t.Run(string(mode), func(t *testing.T) {
			got, err := Fit(src, TargetSpec{Width: 640, Height: 480, Mode: mode})
			if err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			if got.Bounds().Dx() != 640 || got.Bounds().Dy() != 480 {
				t.Fatalf("expected 640x480, got %dx%d", got.Bounds().Dx(), got.Bounds().Dy())
			}
			// Every corner stays white: no black padding crept in.
			for _, p := range [][2]int{{0, 0}, {639, 0}, {0, 479}, {639, 479}} {
				r, g, b := pixelAt(got, p[0], p[1])
				if r != 255 || g != 255 || b != 255 {
					t.Fatalf("corner (%d,%d) not white: (%d,%d,%d)", p[0], p[1], r, g, b)
				}
			}
		})
	}
}

func TestFitExactDistorts(t *testing.T) {
	src := makeTestImage(100, 100)
	got, err := Fit(src, TargetSpec{Width: 640, Height: 120, Mode: FitExact})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if got.Bounds().Dx() != 640 || got.Bounds().Dy() != 120 {
		t.Fatalf("expected 640x120, got %dx%d", got.Bounds().Dx(), got.Bounds().Dy())
	}
}

func TestFitInvalidSpec(t *testing.T) {
	src := makeTestImage(10, 10)

	if _, err := Fit(src, TargetSpec{Width: 640, Height: 480, Mode: "stretch"}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("unknown mode should be ErrInvalidConfig, got %v", err)
	}
	if _, err := Fit(src, TargetSpec{Width: 0, Height: 480, Mode: FitCover}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("zero width should be ErrInvalidConfig, got %v", err)
	}
	if _, err := Fit(src, TargetSpec{Width: 640, Height: -1, Mode: FitCover}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("negative height should be ErrInvalidConfig, got %v", err)
	}
}
