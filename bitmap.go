package mandelfield

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math/bits"

	"github.com/mrange/mandelfield/internal/raster"
)

// Bitmap is a 1-bit-per-pixel membership raster.
//
// Rows are stored top to bottom, each Stride() bytes long, 8 pixels per
// byte with the leftmost pixel in the most significant bit. A set bit marks
// a bounded point (inside the set); unused low bits of the last byte of a
// row are always zero. This is exactly the raster layout of a binary PBM
// (P4) file.
//
// A Bitmap is filled by the call that creates it and is immutable once
// returned: accessors hand out copies, and Emit/WriteTo only read.
// It is safe for concurrent readers.
type Bitmap struct {
	width  int
	height int
	stride int
	pix    []byte
}

// newBitmap allocates a zeroed (all escaped) bitmap.
func newBitmap(width, height int) *Bitmap {
	stride := raster.RowBytes(width)
	return &Bitmap{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
}

// NewBitmapFromBytes creates a bitmap from packed rows. The data is copied.
// len(pix) must equal RowBytes(width)*height. Padding bits are cleared.
func NewBitmapFromBytes(width, height int, pix []byte) (*Bitmap, error) {
	if err := (Resolution{Width: width, Height: height}).Validate(true); err != nil {
		return nil, err
	}
	b := newBitmap(width, height)
	if len(pix) != len(b.pix) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrBufferSize, len(pix), len(b.pix), width, height)
	}
	copy(b.pix, pix)

	if mask := b.padMask(); mask != 0xFF {
		for y := range height {
			b.pix[y*b.stride+b.stride-1] &= mask
		}
	}
	return b, nil
}

// RowBytes returns the packed size of a row of width pixels.
func RowBytes(width int) int {
	return raster.RowBytes(width)
}

// padMask returns the mask of valid bits in the last byte of a row.
func (b *Bitmap) padMask() byte {
	if r := b.width % 8; r != 0 {
		return byte(0xFF) << (8 - r)
	}
	return 0xFF
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Bitmap) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *Bitmap) Stride() int {
	return b.stride
}

// Len returns the total size of the packed raster in bytes.
func (b *Bitmap) Len() int {
	return len(b.pix)
}

// Resolution returns the bitmap dimensions.
func (b *Bitmap) Resolution() Resolution {
	return Resolution{Width: b.width, Height: b.height}
}

// Bounded reports whether pixel (x, y) is inside the set.
// Out-of-range coordinates report false.
func (b *Bitmap) Bounded(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.pix[y*b.stride+x/8]&(0x80>>uint(x%8)) != 0
}

// Count returns the number of bounded pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.pix {
		n += bits.OnesCount8(v)
	}
	return n
}

// Row returns a copy of the packed bytes of row y.
func (b *Bitmap) Row(y int) []byte {
	out := make([]byte, b.stride)
	copy(out, b.row(y))
	return out
}

// Bytes returns a copy of the whole packed raster.
func (b *Bitmap) Bytes() []byte {
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}

// row returns the backing bytes of row y. Only the worker that owns row y
// may write through it, and only before the bitmap is returned.
func (b *Bitmap) row(y int) []byte {
	off := y * b.stride
	return b.pix[off : off+b.stride : off+b.stride]
}

// WriteTo writes the packed raster, without any header, to w.
// Implements io.WriterTo.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.pix)
	return int64(n), err
}

// Equal reports whether both bitmaps have the same size and pixels.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.width == o.width && b.height == o.height && bytes.Equal(b.pix, o.pix)
}

// Diff returns the number of pixels that differ between b and o.
func (b *Bitmap) Diff(o *Bitmap) (int, error) {
	if b == nil || o == nil {
		return 0, fmt.Errorf("%w: nil bitmap", ErrDimensionMismatch)
	}
	if b.width != o.width || b.height != o.height {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d",
			ErrDimensionMismatch, b.width, b.height, o.width, o.height)
	}
	n := 0
	for i := range b.pix {
		n += bits.OnesCount8(b.pix[i] ^ o.pix[i])
	}
	return n, nil
}

// String returns a short description of the bitmap.
func (b *Bitmap) String() string {
	return fmt.Sprintf("Bitmap(%dx%d, %d bounded)", b.width, b.height, b.Count())
}

// Bitmap colors follow the PBM convention: a set bit is black.
var (
	boundedColor = color.Gray{Y: 0}
	escapedColor = color.Gray{Y: 0xFF}
)

// ColorModel implements the image.Image interface.
func (b *Bitmap) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements the image.Image interface.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements the image.Image interface.
// Bounded pixels are black, escaped pixels are white.
func (b *Bitmap) At(x, y int) color.Color {
	if b.Bounded(x, y) {
		return boundedColor
	}
	return escapedColor
}

// Gray converts the bitmap to an 8-bit grayscale image.
func (b *Bitmap) Gray() *image.Gray {
	img := image.NewGray(b.Bounds())
	for y := range b.height {
		row := img.Pix[y*img.Stride : y*img.Stride+b.width]
		for x := range row {
			if b.Bounded(x, y) {
				row[x] = boundedColor.Y
			} else {
				row[x] = escapedColor.Y
			}
		}
	}
	return img
}

// Sink receives a finished raster. The buffer holds height rows of
// RowBytes(width) bytes each, MSB first, exactly as stored in a P4 file.
// Implementations must not modify or retain pix after returning.
type Sink interface {
	WriteRaster(width, height int, pix []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(width, height int, pix []byte) error

// WriteRaster calls f.
func (f SinkFunc) WriteRaster(width, height int, pix []byte) error {
	return f(width, height, pix)
}

// Emit hands the raster to s without copying or transforming it.
func (b *Bitmap) Emit(s Sink) error {
	return s.WriteRaster(b.width, b.height, b.pix)
}

var _ image.Image = (*Bitmap)(nil)
