// Package dstarprep prepares arbitrary photographs for transmission over
// bandwidth- and resolution-limited amateur-radio digital-voice devices
// such as the Icom ID-52.
//
// For each input the pipeline:
//
//   - bakes EXIF orientation into pixel order and forces plain RGB
//   - fits the image into an exact target frame (cover, contain or exact)
//   - optionally burns in a callsign/caption overlay with a drop shadow
//   - re-encodes as baseline JPEG, stepping quality down until the file
//     fits a hard byte budget
//
// Stages run strictly in that order, one file at a time. Batch runs walk a
// directory's direct children in sorted name order.
package dstarprep

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
)

// ProcessFile runs the full pipeline for a single input file and writes
// the result into outDir. The configuration is validated before the input
// is touched.
func ProcessFile(ctx context.Context, inPath, outDir string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if !IsSupported(inPath) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, filepath.Ext(inPath))
	}

	img, err := Open(inPath)
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(outDir, opts.Naming.FileName(inPath))
	res, err := ProcessImage(ctx, img, outPath, opts)
	if err != nil {
		return nil, err
	}
	res.Input = inPath
	return res, nil
}

// ProcessImage runs the pipeline stages after decode on an already-loaded
// image and writes the result to outPath. The image is assumed normalized;
// callers holding raw decoder output should go through Open or ProcessFile.
func ProcessImage(ctx context.Context, img *image.NRGBA, outPath string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	fitted, err := Fit(img, opts.Target)
	if err != nil {
		return nil, err
	}
	marked := ApplyWatermark(fitted, opts.Watermark, opts.fonts())

	enc, err := SaveJPEGUnderBudget(marked, outPath, opts.Budget)
	if err != nil {
		return nil, err
	}

	return &Result{
		Output:   outPath,
		Quality:  enc.Quality,
		ByteSize: enc.ByteSize,
		Width:    opts.Target.Width,
		Height:   opts.Target.Height,
		Mode:     opts.Target.Mode,
	}, nil
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
