package rasterio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mrange/mandelfield"
)

// PBM errors.
var (
	// ErrMalformedPBM is returned when a PBM header or raster cannot be parsed.
	ErrMalformedPBM = errors.New("rasterio: malformed PBM")

	// ErrUnsupportedFormat is returned for unknown file formats.
	ErrUnsupportedFormat = errors.New("rasterio: unsupported format")
)

// PBMWriter writes rasters as binary PBM (P4) images.
// It implements mandelfield.Sink.
type PBMWriter struct {
	w io.Writer
}

// NewPBMWriter creates a writer that emits one P4 image per raster.
func NewPBMWriter(w io.Writer) *PBMWriter {
	return &PBMWriter{w: w}
}

// WriteRaster writes "P4\n<width> <height>\n" followed by pix unchanged.
func (p *PBMWriter) WriteRaster(width, height int, pix []byte) error {
	if want := mandelfield.RowBytes(width) * height; len(pix) != want {
		return fmt.Errorf("rasterio: raster is %d bytes, want %d for %dx%d: %w",
			len(pix), want, width, height, mandelfield.ErrBufferSize)
	}
	if _, err := fmt.Fprintf(p.w, "P4\n%d %d\n", width, height); err != nil {
		return fmt.Errorf("rasterio: write PBM header: %w", err)
	}
	if _, err := p.w.Write(pix); err != nil {
		return fmt.Errorf("rasterio: write PBM raster: %w", err)
	}
	return nil
}

var _ mandelfield.Sink = (*PBMWriter)(nil)

// EncodePBM writes bm to w as a P4 image.
func EncodePBM(w io.Writer, bm *mandelfield.Bitmap) error {
	return bm.Emit(NewPBMWriter(w))
}

// DecodePBM reads a P4 image. Header comments are skipped. Images larger
// than mandelfield.MaxPixels are rejected before the raster is allocated.
func DecodePBM(r io.Reader) (*mandelfield.Bitmap, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 2)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: read magic: %v", ErrMalformedPBM, err)
	}
	if string(magic) != "P4" {
		return nil, fmt.Errorf("%w: magic %q, want \"P4\"", ErrMalformedPBM, magic)
	}

	width, err := readHeaderInt(br)
	if err != nil {
		return nil, err
	}
	height, err := readHeaderInt(br)
	if err != nil {
		return nil, err
	}
	res := mandelfield.Resolution{Width: width, Height: height}
	if err := res.Validate(true); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPBM, err)
	}

	// readHeaderInt consumed the single whitespace after the height.
	pix := make([]byte, mandelfield.RowBytes(width)*height)
	if _, err := io.ReadFull(br, pix); err != nil {
		return nil, fmt.Errorf("%w: raster: %v", ErrMalformedPBM, err)
	}

	return mandelfield.NewBitmapFromBytes(width, height, pix)
}

// readHeaderInt skips whitespace and comments, parses a decimal number and
// consumes exactly one trailing whitespace byte.
func readHeaderInt(br *bufio.Reader) (int, error) {
	var digits []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: header: %v", ErrMalformedPBM, err)
		}
		switch {
		case c == '#' && len(digits) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return 0, fmt.Errorf("%w: comment: %v", ErrMalformedPBM, err)
			}
		case isSpace(c):
			if len(digits) > 0 {
				return atoi(digits)
			}
		case c >= '0' && c <= '9':
			if len(digits) > 9 {
				return 0, fmt.Errorf("%w: number too long", ErrMalformedPBM)
			}
			digits = append(digits, c)
		default:
			return 0, fmt.Errorf("%w: unexpected byte %q in header", ErrMalformedPBM, c)
		}
	}
}

func atoi(digits []byte) (int, error) {
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPBM, err)
	}
	return n, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// ReadPBM reads a P4 file. Files ending in ".zst" are decompressed.
func ReadPBM(path string) (*mandelfield.Bitmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("rasterio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if isCompressed(path) {
		zr, err := newZstdReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	return DecodePBM(r)
}
