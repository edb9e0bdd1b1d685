package dstarprep

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
)

// SaveJPEGUnderBudget writes img to dst as a baseline JPEG, stepping the
// quality down from budget.QualityStart until the file fits budget.MaxBytes
// or the floor is reached. Every trial overwrites dst; the returned result
// always describes the bytes left on disk.
//
// When even the floor cannot meet the budget, the final trial runs at
// exactly budget.QualityMin and its quality and size are reported, so the
// caller never sees a quality that was not actually written.
func SaveJPEGUnderBudget(img *image.NRGBA, dst string, budget EncodingBudget) (EncodeResult, error) {
	if err := budget.validate(); err != nil {
		return EncodeResult{}, err
	}

	q := budget.QualityStart
	for {
		size, err := writeJPEG(dst, img, q)
		if err != nil {
			return EncodeResult{}, err
		}
		if size <= budget.MaxBytes || q == budget.QualityMin {
			return EncodeResult{Quality: q, ByteSize: size}, nil
		}
		q -= budget.QualityStep
		if q < budget.QualityMin {
			q = budget.QualityMin
		}
	}
}

// writeJPEG persists one encode trial and returns the on-disk size. The size
// is measured only after the file handle is closed, so it always matches
// durable bytes. The stdlib encoder emits non-progressive baseline JPEG
// with 4:2:0 chroma subsampling, which is what resolution-limited radio
// displays expect.
func writeJPEG(dst string, img *image.NRGBA, quality int) (int64, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("dstarprep: create %q: %w", dst, err)
	}
	if err := jpeg.Encode(f, opaqueRGBA(img), &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return 0, fmt.Errorf("dstarprep: encode %q: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("dstarprep: close %q: %w", dst, err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, fmt.Errorf("dstarprep: stat %q: %w", dst, err)
	}
	return info.Size(), nil
}

// opaqueRGBA reinterprets a fully opaque NRGBA buffer as RGBA, which takes
// the JPEG encoder's fast path. The pipeline forces opacity in Normalize,
// so the two layouts hold identical bytes.
func opaqueRGBA(img *image.NRGBA) *image.RGBA {
	return &image.RGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}
}
