package raster

// RowBytes returns the number of bytes needed for a 1-bit row of width pixels.
func RowBytes(width int) int {
	if width <= 0 {
		return 0
	}
	return (width + 7) / 8
}

// PackRow packs bits into dst, 8 per byte, most significant bit first.
// dst must hold at least RowBytes(len(bits)) bytes. Unused low bits of a
// final partial byte are written as zero. Bytes past RowBytes(len(bits))
// are not touched.
func PackRow(dst []byte, bits []bool) {
	full := len(bits) / 8
	dst = dst[:RowBytes(len(bits))]

	for i := range full {
		dst[i] = packByte(bits[i*8 : i*8+8])
	}
	if full*8 < len(bits) {
		dst[full] = packByte(bits[full*8:])
	}
}

// packByte packs up to 8 bits MSB first; missing trailing bits are zero.
func packByte(bits []bool) byte {
	var b byte
	for j, v := range bits {
		if v {
			b |= 0x80 >> uint(j)
		}
	}
	return b
}

// BitWriter accumulates bits MSB first into a byte slice.
//
// It is the streaming counterpart of PackRow, used when bits are produced
// one pixel at a time. Flush terminates a row by zero-padding the current
// partial byte.
type BitWriter struct {
	dst []byte
	pos int  // next byte index in dst
	cur byte // partially filled byte
	n   uint // bits in cur
}

// NewBitWriter creates a writer over dst.
func NewBitWriter(dst []byte) *BitWriter {
	return &BitWriter{dst: dst}
}

// WriteBit appends one bit.
func (w *BitWriter) WriteBit(v bool) {
	if v {
		w.cur |= 0x80 >> w.n
	}
	w.n++
	if w.n == 8 {
		w.dst[w.pos] = w.cur
		w.pos++
		w.cur, w.n = 0, 0
	}
}

// Flush writes a pending partial byte with its unused low bits cleared.
func (w *BitWriter) Flush() {
	if w.n == 0 {
		return
	}
	w.dst[w.pos] = w.cur
	w.pos++
	w.cur, w.n = 0, 0
}

// Len returns the number of complete bytes written so far.
func (w *BitWriter) Len() int {
	return w.pos
}
