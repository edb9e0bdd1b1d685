package dstarprep

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Version is the library version.
const Version = "1.0.0"

// FitMode selects how a source image is mapped into the target frame.
type FitMode string

const (
	// FitCover fills the frame completely and crops the overflow.
	FitCover FitMode = "cover"
	// FitContain fits the image inside the frame and letterboxes with black.
	FitContain FitMode = "contain"
	// FitExact forces the exact target dimensions, distorting if needed.
	FitExact FitMode = "exact"
)

// ParseFitMode converts a mode string into a FitMode.
func ParseFitMode(s string) (FitMode, error) {
	switch FitMode(strings.ToLower(strings.TrimSpace(s))) {
	case FitCover:
		return FitCover, nil
	case FitContain:
		return FitContain, nil
	case FitExact:
		return FitExact, nil
	default:
		return "", fmt.Errorf("%w: unknown fit mode %q (use cover, contain or exact)", ErrInvalidConfig, s)
	}
}

// TargetSpec describes the output frame every processed image must fill.
type TargetSpec struct {
	// Width and Height of the frame in pixels. Both must be positive.
	Width, Height int

	// Mode is the geometric fitting policy.
	Mode FitMode
}

// ParseTargetSize parses a size string like "640x480".
func ParseTargetSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: invalid size %q (use like 640x480)", ErrInvalidConfig, s)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid size %q (use like 640x480)", ErrInvalidConfig, s)
	}
	return w, h, nil
}

func (t TargetSpec) validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: target dimensions %dx%d must be positive", ErrInvalidConfig, t.Width, t.Height)
	}
	switch t.Mode {
	case FitCover, FitContain, FitExact:
		return nil
	default:
		return fmt.Errorf("%w: unknown fit mode %q (use cover, contain or exact)", ErrInvalidConfig, t.Mode)
	}
}

// WatermarkSpec describes the optional identity/caption overlay.
type WatermarkSpec struct {
	// Identity is the callsign/location block. A literal "|" splits it into
	// multiple lines, e.g. "K0PRA|Parker, Colorado".
	Identity string

	// Caption is an optional extra line drawn in a smaller face.
	Caption string

	// Margin is the distance in pixels from the bottom-left corner.
	Margin int
}

// IdentityLines returns the identity text split on the "|" delimiter.
func (w WatermarkSpec) IdentityLines() []string {
	if w.Identity == "" {
		return nil
	}
	return strings.Split(w.Identity, "|")
}

func (w WatermarkSpec) empty() bool {
	return w.Identity == "" && w.Caption == ""
}

func (w WatermarkSpec) validate() error {
	if w.Margin < 0 {
		return fmt.Errorf("%w: watermark margin %d must not be negative", ErrInvalidConfig, w.Margin)
	}
	return nil
}

// EncodingBudget bounds the quality search of the budgeted encoder.
type EncodingBudget struct {
	// MaxBytes is the size ceiling for the encoded file.
	MaxBytes int64

	// QualityStart is the first (highest) JPEG quality tried.
	QualityStart int

	// QualityMin is the lowest quality the search may reach.
	QualityMin int

	// QualityStep is subtracted from the quality after every failed trial.
	QualityStep int
}

// DefaultBudget returns the stock quality search bounds for maxKB kilobytes.
func DefaultBudget(maxKB int) EncodingBudget {
	return EncodingBudget{
		MaxBytes:     int64(maxKB) * 1024,
		QualityStart: 88,
		QualityMin:   35,
		QualityStep:  3,
	}
}

func (b EncodingBudget) validate() error {
	if b.MaxBytes <= 0 {
		return fmt.Errorf("%w: byte budget %d must be positive", ErrInvalidConfig, b.MaxBytes)
	}
	if b.QualityMin <= 0 {
		return fmt.Errorf("%w: quality floor %d must be positive", ErrInvalidConfig, b.QualityMin)
	}
	if b.QualityStart <= b.QualityMin || b.QualityStart > 100 {
		return fmt.Errorf("%w: start quality %d must be in (%d, 100]", ErrInvalidConfig, b.QualityStart, b.QualityMin)
	}
	if b.QualityStep <= 0 {
		return fmt.Errorf("%w: quality step %d must be positive", ErrInvalidConfig, b.QualityStep)
	}
	return nil
}

// EncodeResult reports what the budgeted encoder left on disk.
// ByteSize always matches the persisted file, never a discarded trial.
type EncodeResult struct {
	// Quality is the JPEG quality the persisted bytes were encoded at.
	Quality int

	// ByteSize is the size of the persisted file in bytes.
	ByteSize int64
}

// OutputNaming builds output file names from the input's base name.
type OutputNaming struct {
	// Prefix is prepended as "prefix_". Surrounding whitespace is trimmed.
	Prefix string

	// Suffix is appended as "_suffix". Surrounding whitespace is trimmed.
	Suffix string
}

// FileName derives "<prefix_>stem<_suffix>.jpg" from the input path.
// The output extension is always .jpg regardless of the input format.
func (n OutputNaming) FileName(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if p := strings.TrimSpace(n.Prefix); p != "" {
		stem = p + "_" + stem
	}
	if s := strings.TrimSpace(n.Suffix); s != "" {
		stem = stem + "_" + s
	}
	return stem + ".jpg"
}

// Options is the immutable per-run configuration passed down the pipeline.
type Options struct {
	// Target is the output frame and fitting policy.
	Target TargetSpec

	// Watermark is the optional identity/caption overlay.
	Watermark WatermarkSpec

	// Budget bounds the encoder's quality search.
	Budget EncodingBudget

	// Naming decorates output file names.
	Naming OutputNaming

	// Fonts supplies the overlay faces. Nil means DefaultFonts().
	Fonts FontProvider
}

// DefaultOptions returns the stock settings: 640x480 cover, 200 KB budget,
// 14 px watermark margin.
func DefaultOptions() Options {
	return Options{
		Target:    TargetSpec{Width: 640, Height: 480, Mode: FitCover},
		Watermark: WatermarkSpec{Margin: 14},
		Budget:    DefaultBudget(200),
	}
}

// Validate checks the whole configuration before any image I/O happens.
func (o Options) Validate() error {
	if err := o.Target.validate(); err != nil {
		return err
	}
	if err := o.Watermark.validate(); err != nil {
		return err
	}
	return o.Budget.validate()
}

func (o Options) fonts() FontProvider {
	if o.Fonts != nil {
		return o.Fonts
	}
	return DefaultFonts()
}

// Result describes one processed file.
type Result struct {
	// Input is the source file path.
	Input string

	// Output is the written file path.
	Output string

	// Quality is the JPEG quality of the persisted bytes.
	Quality int

	// ByteSize is the size of the output file in bytes.
	ByteSize int64

	// Width and Height are the output dimensions.
	Width, Height int

	// Mode is the fitting policy that was applied.
	Mode FitMode
}

// String returns the one-line status report for a processed file.
func (r Result) String() string {
	return fmt.Sprintf("OK  %s -> %s  (%.1f KB, quality=%d, %dx%d, mode=%s)",
		filepath.Base(r.Input), filepath.Base(r.Output),
		float64(r.ByteSize)/1024, r.Quality, r.Width, r.Height, r.Mode)
}
