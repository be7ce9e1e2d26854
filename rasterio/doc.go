// Package rasterio reads and writes mandelfield bitmaps.
//
// The native format is binary PBM (P4): a short text header followed by the
// packed rows exactly as a Bitmap stores them. PNG, BMP and TIFF are written
// through the bitmap's image.Image view. Any format can be zstd-compressed
// by appending ".zst" to the file name.
package rasterio
