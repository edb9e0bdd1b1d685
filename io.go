package dstarprep

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for every supported input extension. JPEG, PNG,
	// BMP and TIFF also come in through the imaging import; WebP must be
	// registered explicitly.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsSupported reports whether the path carries a supported image extension.
// The check is case-insensitive.
func IsSupported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// Open decodes an image file, bakes in its EXIF orientation, and returns it
// normalized to opaque RGB. This is the pipeline's only read of the source.
func Open(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dstarprep: open %q: %w", path, err)
	}
	defer f.Close()

	orient := ReadOrientation(f)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("dstarprep: seek %q: %w", path, err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDecode, path, err)
	}
	return Normalize(img, orient), nil
}
