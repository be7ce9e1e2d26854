package rasterio

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/mrange/mandelfield"
)

// Format is an output image format.
type Format int

const (
	// PBM is binary portable bitmap (P4), the native raster layout.
	PBM Format = iota

	// PNG is an 8-bit grayscale PNG.
	PNG

	// BMP is a Windows bitmap.
	BMP

	// TIFF is a Deflate-compressed TIFF.
	TIFF
)

// String returns the conventional file extension without the dot.
func (f Format) String() string {
	switch f {
	case PBM:
		return "pbm"
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks a format from the file extension. A trailing ".zst"
// is ignored for format detection and reported as compressed.
func FormatFromPath(path string) (f Format, compressed bool, err error) {
	if isCompressed(path) {
		compressed = true
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pbm":
		return PBM, compressed, nil
	case ".png":
		return PNG, compressed, nil
	case ".bmp":
		return BMP, compressed, nil
	case ".tif", ".tiff":
		return TIFF, compressed, nil
	default:
		return 0, compressed, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Encode writes bm to w in format f.
func Encode(w io.Writer, bm *mandelfield.Bitmap, f Format) error {
	var err error
	switch f {
	case PBM:
		return EncodePBM(w, bm)
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, bm.Gray())
	case BMP:
		err = bmp.Encode(w, bm.Gray())
	case TIFF:
		err = tiff.Encode(w, bm.Gray(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("rasterio: encode %v: %w", f, err)
	}
	return nil
}

// CheckImage reports whether EncodeImage can write img in format f.
// PBM needs the packed raster of a *mandelfield.Bitmap.
func CheckImage(img image.Image, f Format) error {
	if _, ok := img.(*mandelfield.Bitmap); ok {
		switch f {
		case PBM, PNG, BMP, TIFF:
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	switch f {
	case PNG, BMP, TIFF:
		return nil
	}
	return fmt.Errorf("%w: %v for %T", ErrUnsupportedFormat, f, img)
}

// EncodeImage writes any image in format f. PBM requires a *mandelfield.Bitmap.
func EncodeImage(w io.Writer, img image.Image, f Format) error {
	if err := CheckImage(img, f); err != nil {
		return err
	}
	if bm, ok := img.(*mandelfield.Bitmap); ok {
		return Encode(w, bm, f)
	}

	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return fmt.Errorf("rasterio: encode %v: %w", f, err)
	}
	return nil
}

// WriteFile saves img to path. The format follows the extension, and a
// ".zst" suffix compresses the encoded file with zstd. An image the format
// cannot hold is rejected before the file is created.
func WriteFile(path string, img image.Image) error {
	f, compressed, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := CheckImage(img, f); err != nil {
		return err
	}

	out, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("rasterio: create file: %w", err)
	}

	bw := bufio.NewWriter(out)
	var w io.Writer = bw
	var zw io.WriteCloser
	if compressed {
		enc, err := newZstdWriter(bw)
		if err != nil {
			_ = out.Close()
			return err
		}
		zw, w = enc, enc
	}

	err = EncodeImage(w, img, f)
	if zw != nil {
		if cerr := zw.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("rasterio: zstd close: %w", cerr)
		}
	}
	if ferr := bw.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("rasterio: flush: %w", ferr)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("rasterio: close file: %w", cerr)
	}
	if err != nil {
		return err
	}

	mandelfield.Logger().Debug("rasterio: wrote file",
		"path", path, "format", f.String(), "zstd", compressed,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}
