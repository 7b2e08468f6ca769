package imageproc

import "image"

// claheClipLimit caps per-bin histogram counts relative to the uniform
// level, limiting noise amplification in near-flat tiles.
const claheClipLimit = 2.0

// claheTiles is the grid of tiles the image is divided into per axis.
const claheTiles = 8

// enhanceContrast applies contrast-limited adaptive histogram equalization.
// The image is split into an 8x8 tile grid; each tile gets a clipped,
// equalized intensity mapping, and pixels are remapped by bilinear
// interpolation between the four nearest tile mappings.
func enhanceContrast(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < claheTiles || h < claheTiles {
		return img
	}

	tileW := (w + claheTiles - 1) / claheTiles
	tileH := (h + claheTiles - 1) / claheTiles

	// Build one clipped equalization LUT per tile.
	luts := make([][claheTiles][256]uint8, claheTiles)
	for ty := 0; ty < claheTiles; ty++ {
		for tx := 0; tx < claheTiles; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := min(x0+tileW, w), min(y0+tileH, h)
			luts[ty][tx] = tileLUT(img, bounds, x0, y0, x1, y1)
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		// Tile-space coordinate of the pixel row, centered on tiles.
		fy := (float64(y)-float64(tileH)/2) / float64(tileH)
		ty0 := clampInt(int(fy), 0, claheTiles-1)
		ty1 := clampInt(ty0+1, 0, claheTiles-1)
		wy := fy - float64(ty0)
		if wy < 0 {
			wy = 0
		} else if wy > 1 {
			wy = 1
		}

		srcOff := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		src := img.Pix[srcOff : srcOff+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]

		for x := 0; x < w; x++ {
			fx := (float64(x)-float64(tileW)/2) / float64(tileW)
			tx0 := clampInt(int(fx), 0, claheTiles-1)
			tx1 := clampInt(tx0+1, 0, claheTiles-1)
			wx := fx - float64(tx0)
			if wx < 0 {
				wx = 0
			} else if wx > 1 {
				wx = 1
			}

			v := src[x]
			top := (1-wx)*float64(luts[ty0][tx0][v]) + wx*float64(luts[ty0][tx1][v])
			bot := (1-wx)*float64(luts[ty1][tx0][v]) + wx*float64(luts[ty1][tx1][v])
			dst[x] = uint8((1-wy)*top + wy*bot)
		}
	}

	return out
}

// tileLUT builds the clipped equalization lookup table for one tile.
func tileLUT(img *image.Gray, bounds image.Rectangle, x0, y0, x1, y1 int) [256]uint8 {
	var hist [256]int
	count := 0
	for y := y0; y < y1; y++ {
		off := img.PixOffset(bounds.Min.X+x0, bounds.Min.Y+y)
		for _, v := range img.Pix[off : off+(x1-x0)] {
			hist[v]++
			count++
		}
	}

	var lut [256]uint8
	if count == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	// Clip the histogram and redistribute the excess uniformly.
	clip := int(claheClipLimit * float64(count) / 256)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i, n := range hist {
		if n > clip {
			excess += n - clip
			hist[i] = clip
		}
	}
	bonus := excess / 256
	for i := range hist {
		hist[i] += bonus
	}

	cdf := 0
	for i, n := range hist {
		cdf += n
		lut[i] = uint8(min(255, cdf*255/count))
	}
	return lut
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
