package rasterio

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/mrange/mandelfield"
)

// Preview scales bm so its longer side is maxDim pixels, filtering the
// bitmap into gray levels. Bitmaps already within maxDim are converted
// without scaling.
func Preview(bm *mandelfield.Bitmap, maxDim int) *image.Gray {
	w, h := bm.Width(), bm.Height()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return bm.Gray()
	}

	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), bm, bm.Bounds(), draw.Src, nil)
	return dst
}
