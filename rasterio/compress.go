package rasterio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/mrange/mandelfield"
)

// CompressedExt is the file suffix that selects zstd compression.
const CompressedExt = ".zst"

func isCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// newZstdWriter wraps w in a zstd encoder. The caller must Close it.
// A nil w gives an encoder for EncodeAll.
func newZstdWriter(w io.Writer) (*zstd.Encoder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("rasterio: zstd encoder: %w", err)
	}
	return enc, nil
}

// newZstdReader wraps r in a zstd decoder. The caller must Close it.
func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("rasterio: zstd decoder: %w", err)
	}
	return dec.IOReadCloser(), nil
}

// EncodeCompressed writes bm to w in format f as one zstd stream.
func EncodeCompressed(w io.Writer, bm *mandelfield.Bitmap, f Format) error {
	enc, err := newZstdWriter(w)
	if err != nil {
		return err
	}
	if err := Encode(enc, bm, f); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("rasterio: zstd close: %w", err)
	}
	return nil
}

// Compress returns data compressed with zstd.
func Compress(data []byte) ([]byte, error) {
	enc, err := newZstdWriter(nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("rasterio: zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("rasterio: zstd decode: %w", err)
	}
	return out, nil
}
