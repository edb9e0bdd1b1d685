package dstarprep

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Fit maps src into the exact target frame under the requested fitting policy.
// The returned image always has dimensions (spec.Width, spec.Height).
func Fit(src *image.NRGBA, spec TargetSpec) (*image.NRGBA, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	if spec.Mode == FitExact {
		return imaging.Resize(src, spec.Width, spec.Height, imaging.Lanczos), nil
	}

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("%w: empty image (%dx%d)", ErrDecode, srcW, srcH)
	}
	srcRatio := float64(srcW) / float64(srcH)
	tgtRatio := float64(spec.Width) / float64(spec.Height)

	switch spec.Mode {
	case FitContain:
		// Fit inside the frame, letterbox the remainder with black.
		var newW, newH int
		if srcRatio > tgtRatio {
			newW = spec.Width
			newH = int(math.Round(float64(spec.Width) / srcRatio))
		} else {
			newH = spec.Height
			newW = int(math.Round(float64(spec.Height) * srcRatio))
		}
		resized := imaging.Resize(src, newW, newH, imaging.Lanczos)
		canvas := imaging.New(spec.Width, spec.Height, color.NRGBA{0, 0, 0, 255})
		return imaging.Paste(canvas, resized, image.Pt((spec.Width-newW)/2, (spec.Height-newH)/2)), nil

	case FitCover:
		// Fill the frame, center-crop the overflow. Crop offsets come from
		// the resized dimensions, not the source.
		var newW, newH int
		if srcRatio > tgtRatio {
			newH = spec.Height
			newW = int(math.Round(float64(spec.Height) * srcRatio))
		} else {
			newW = spec.Width
			newH = int(math.Round(float64(spec.Width) / srcRatio))
		}
		resized := imaging.Resize(src, newW, newH, imaging.Lanczos)
		left := (newW - spec.Width) / 2
		top := (newH - spec.Height) / 2
		return imaging.Crop(resized, image.Rect(left, top, left+spec.Width, top+spec.Height)), nil

	default:
		return nil, fmt.Errorf("%w: unknown fit mode %q (use cover, contain or exact)", ErrInvalidConfig, spec.Mode)
	}
}
