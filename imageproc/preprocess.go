package imageproc

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Preprocessor normalizes a raster page for detection and OCR. The zero
// value is not usable; create one with NewPreprocessor.
type Preprocessor struct {
	// DenoiseSigma is the blur radius used for the denoising step. The
	// step approximates non-local-means denoising with a light Gaussian
	// blur, which is enough to suppress scan speckle before binarization.
	DenoiseSigma float64

	// DilateRadius is the radius of the final stroke-reconnecting dilation.
	DilateRadius int
}

// NewPreprocessor creates a preprocessor with default settings.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		DenoiseSigma: 0.8,
		DilateRadius: 1,
	}
}

// step is one transform in the preprocessing chain. Steps run in order and
// any step that fails is skipped, leaving the previous intermediate image
// in place.
type step struct {
	name string
	fn   func(*image.Gray) *image.Gray
}

// Process runs the full preprocessing chain and returns the processed page
// with the same dimensions as the input, along with the names of any steps
// that were skipped. It never fails: a degenerate input yields a blank
// image of the same size.
func (p *Preprocessor) Process(src image.Image) (*image.Gray, []string) {
	if src == nil {
		return image.NewGray(image.Rect(0, 0, 0, 0)), []string{"grayscale"}
	}
	gray := ToGray(src)
	var skipped []string

	steps := []step{
		{"denoise", func(g *image.Gray) *image.Gray {
			return ToGray(imaging.Blur(g, p.DenoiseSigma))
		}},
		{"contrast", enhanceContrast},
		{"binarize", func(g *image.Gray) *image.Gray {
			return Binarize(g, OtsuThreshold(g))
		}},
		{"dilate", func(g *image.Gray) *image.Gray {
			return DilateDark(g, p.DilateRadius)
		}},
	}

	for _, s := range steps {
		next, err := runStep(s, gray)
		if err != nil {
			skipped = append(skipped, s.name)
			continue
		}
		gray = next
	}

	return gray, skipped
}

// runStep executes one transform, converting a panic or a size-changing
// result into a skip.
func runStep(s step, in *image.Gray) (out *image.Gray, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s: %v", s.name, r)
		}
	}()

	out = s.fn(in)
	if out == nil {
		return nil, fmt.Errorf("step %s: nil result", s.name)
	}
	if out.Bounds().Dx() != in.Bounds().Dx() || out.Bounds().Dy() != in.Bounds().Dy() {
		return nil, fmt.Errorf("step %s: dimensions changed", s.name)
	}
	return out, nil
}

// ToGray converts any image to 8-bit grayscale with origin (0,0).
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	bounds := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), src, bounds.Min, draw.Src)
	return out
}

// DilateDark grows dark regions by the given radius: a pixel becomes the
// minimum of its neighborhood. A small radius reconnects glyph strokes
// broken by binarization.
func DilateDark(img *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return img
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			minVal := uint8(255)
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				off := img.PixOffset(bounds.Min.X, bounds.Min.Y+yy)
				row := img.Pix[off : off+w]
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					if row[xx] < minVal {
						minVal = row[xx]
					}
				}
			}
			out.Pix[y*out.Stride+x] = minVal
		}
	}

	return out
}
