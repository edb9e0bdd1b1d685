package dstarprep

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Orientation is an EXIF orientation tag value (1-8).
type Orientation int

const (
	OrientNormal      Orientation = 1
	OrientFlipH       Orientation = 2
	OrientRotate180   Orientation = 3
	OrientFlipV       Orientation = 4
	OrientTranspose   Orientation = 5
	OrientRotate90CW  Orientation = 6
	OrientTransverse  Orientation = 7
	OrientRotate270CW Orientation = 8
)

// ReadOrientation reads the EXIF orientation tag from a JPEG stream.
// Returns OrientNormal if the stream is not a JPEG or carries no tag.
// Only the orientation tag is parsed, not the full EXIF tree.
func ReadOrientation(r io.ReadSeeker) Orientation {
	var soi [2]byte
	if _, err := io.ReadFull(r, soi[:]); err != nil {
		return OrientNormal
	}
	if soi[0] != 0xFF || soi[1] != 0xD8 {
		return OrientNormal
	}

	// Scan segment markers for APP1, which holds the EXIF data.
	for {
		var marker [2]byte
		if _, err := io.ReadFull(r, marker[:]); err != nil {
			return OrientNormal
		}
		if marker[0] != 0xFF {
			return OrientNormal
		}
		for marker[1] == 0xFF {
			if _, err := io.ReadFull(r, marker[1:]); err != nil {
				return OrientNormal
			}
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return OrientNormal
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf[:])) - 2
		if segLen < 0 {
			return OrientNormal
		}

		if marker[1] == 0xE1 {
			return parseAPP1(r, segLen)
		}
		// SOS starts entropy-coded data; no metadata follows.
		if marker[1] == 0xDA {
			return OrientNormal
		}
		if _, err := r.Seek(int64(segLen), io.SeekCurrent); err != nil {
			return OrientNormal
		}
	}
}

// parseAPP1 scans an APP1 segment's IFD0 for the orientation tag (0x0112).
func parseAPP1(r io.Reader, segLen int) Orientation {
	if segLen < 14 {
		return OrientNormal
	}
	data := make([]byte, segLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return OrientNormal
	}
	if string(data[:4]) != "Exif" || data[4] != 0 || data[5] != 0 {
		return OrientNormal
	}

	tiff := data[6:]
	if len(tiff) < 8 {
		return OrientNormal
	}

	var bo binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return OrientNormal
	}
	if bo.Uint16(tiff[2:4]) != 42 {
		return OrientNormal
	}

	ifdOffset := int(bo.Uint32(tiff[4:8]))
	if ifdOffset < 8 || ifdOffset+2 > len(tiff) {
		return OrientNormal
	}
	entryCount := int(bo.Uint16(tiff[ifdOffset : ifdOffset+2]))
	ifdOffset += 2

	for i := 0; i < entryCount; i++ {
		off := ifdOffset + i*12
		if off+12 > len(tiff) {
			break
		}
		if bo.Uint16(tiff[off:off+2]) != 0x0112 {
			continue
		}
		if bo.Uint16(tiff[off+2:off+4]) != 3 { // SHORT
			return OrientNormal
		}
		val := bo.Uint16(tiff[off+8 : off+10])
		if val >= 1 && val <= 8 {
			return Orientation(val)
		}
		return OrientNormal
	}
	return OrientNormal
}

// ApplyOrientation bakes an EXIF orientation into pixel order, producing an
// image that displays correctly with orientation 1.
func ApplyOrientation(img *image.NRGBA, o Orientation) *image.NRGBA {
	switch o {
	case OrientFlipH:
		return imaging.FlipH(img)
	case OrientRotate180:
		return imaging.Rotate180(img)
	case OrientFlipV:
		return imaging.FlipV(img)
	case OrientTranspose:
		return imaging.Transpose(img)
	case OrientRotate90CW:
		// imaging rotations are counter-clockwise.
		return imaging.Rotate270(img)
	case OrientTransverse:
		return imaging.Transverse(img)
	case OrientRotate270CW:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// normalizeRGB clones the decoded image into an 8-bit NRGBA buffer and forces
// every pixel opaque, collapsing gray/palette/alpha variants to plain RGB.
func normalizeRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}
	return dst
}

// Normalize applies the EXIF orientation and forces the RGB representation.
// This is the first stage of the pipeline; later stages assume its output.
func Normalize(img image.Image, o Orientation) *image.NRGBA {
	return ApplyOrientation(normalizeRGB(img), o)
}
