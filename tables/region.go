package tables

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/avigneault/chargeaudit/imageproc"
	"github.com/avigneault/chargeaudit/model"
)

// RegionDetector finds rectangular areas of a page likely to contain a
// table.
type RegionDetector struct {
	// MinAreaRatio rejects components whose bounding box covers less than
	// this fraction of the page.
	MinAreaRatio float64

	// EdgeThreshold is the minimum gradient magnitude for a pixel to count
	// as an edge.
	EdgeThreshold int

	// DilateRadius merges nearby edges into closed shapes before component
	// extraction.
	DilateRadius int
}

// NewRegionDetector creates a detector with default settings.
func NewRegionDetector() *RegionDetector {
	return &RegionDetector{
		MinAreaRatio:  0.05,
		EdgeThreshold: 60,
		DilateRadius:  2,
	}
}

// Detect returns the table regions found in a page, largest first. The
// returned regions carry crops of the original page image.
func (d *RegionDetector) Detect(page image.Image) []model.Region {
	if page == nil {
		return nil
	}
	gray := imageproc.ToGray(page)
	pageMin := page.Bounds().Min
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	edges := d.edgeMap(gray)
	merged := dilateMask(edges, w, h, d.DilateRadius)

	minArea := int(float64(w*h) * d.MinAreaRatio)
	boxes := connectedComponents(merged, w, h, minArea)

	regions := make([]model.Region, 0, len(boxes))
	for _, b := range boxes {
		regions = append(regions, model.Region{
			X: b.Min.X, Y: b.Min.Y,
			W: b.Dx(), H: b.Dy(),
			Image: imaging.Crop(page, b.Add(pageMin)),
		})
	}

	// Largest first so the most promising table is processed first.
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if regions[j].Area() > regions[i].Area() {
				regions[i], regions[j] = regions[j], regions[i]
			}
		}
	}

	return regions
}

// DetectOrWholePage returns the detected regions, or the whole page as a
// single region when detection finds nothing. The second return reports
// whether the fallback was taken.
func (d *RegionDetector) DetectOrWholePage(page image.Image) ([]model.Region, bool) {
	regions := d.Detect(page)
	if len(regions) > 0 {
		return regions, false
	}
	if page == nil {
		return nil, false
	}
	bounds := page.Bounds()
	return []model.Region{{
		X: 0, Y: 0,
		W: bounds.Dx(), H: bounds.Dy(),
		Image: page,
	}}, true
}

// edgeMap computes a boolean edge mask using Sobel gradient magnitude.
func (d *RegionDetector) edgeMap(gray *image.Gray) []bool {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := make([]bool, w*h)

	at := func(x, y int) int {
		return int(gray.Pix[gray.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			if gx < 0 {
				gx = -gx
			}
			if gy < 0 {
				gy = -gy
			}
			if gx+gy >= d.EdgeThreshold*4 {
				mask[y*w+x] = true
			}
		}
	}

	return mask
}

// dilateMask grows the true pixels of a mask by the given radius.
func dilateMask(mask []bool, w, h, radius int) []bool {
	if radius <= 0 {
		return mask
	}
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y*w+x] {
				continue
			}
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx >= 0 && xx < w {
						out[yy*w+xx] = true
					}
				}
			}
		}
	}
	return out
}

// connectedComponents labels 4-connected components of the mask and
// returns the bounding boxes of those whose box area passes the minimum.
func connectedComponents(mask []bool, w, h, minArea int) []image.Rectangle {
	visited := make([]bool, len(mask))
	var boxes []image.Rectangle
	queue := make([]int, 0, 1024)

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}

		minX, minY := w, h
		maxX, maxY := 0, 0
		queue = append(queue[:0], start)
		visited[start] = true

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]

			x, y := idx%w, idx/w
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for _, n := range [4]int{idx - 1, idx + 1, idx - w, idx + w} {
				if n < 0 || n >= len(mask) || visited[n] || !mask[n] {
					continue
				}
				// Row wrap guard for horizontal neighbors.
				if (n == idx-1 && x == 0) || (n == idx+1 && x == w-1) {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
			}
		}

		box := image.Rect(minX, minY, maxX+1, maxY+1)
		if box.Dx()*box.Dy() >= minArea {
			boxes = append(boxes, box)
		}
	}

	return boxes
}
