package imageproc

import "image"

// OtsuThreshold computes the global binarization threshold of a grayscale
// image by maximizing between-class variance over its histogram.
func OtsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 128
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):]
		for x := 0; x < bounds.Dx(); x++ {
			hist[row[x]]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, wB float64
	var maxVariance float64
	threshold := uint8(128)

	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])

		mB := sumB / wB
		mF := (sum - sumB) / wF
		variance := wB * wF * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = uint8(i)
		}
	}

	return threshold
}

// Binarize maps every pixel at or below the threshold to black and the
// rest to white, returning a new image.
func Binarize(img *image.Gray, threshold uint8) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := 0; y < bounds.Dy(); y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		src := img.Pix[off : off+bounds.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+bounds.Dx()]
		for x, v := range src {
			if v <= threshold {
				dst[x] = 0
			} else {
				dst[x] = 255
			}
		}
	}

	return out
}

// MeanValue returns the mean pixel value of a grayscale image, or 255 for
// an empty image (an empty cell reads as blank).
func MeanValue(img *image.Gray) float64 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 255
	}

	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		off := img.PixOffset(bounds.Min.X, y)
		for _, v := range img.Pix[off : off+bounds.Dx()] {
			sum += uint64(v)
		}
	}

	return float64(sum) / float64(total)
}
