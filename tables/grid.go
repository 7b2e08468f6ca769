package tables

import (
	"image"
	"math"
	"sort"

	"github.com/avigneault/chargeaudit/imageproc"
	"github.com/avigneault/chargeaudit/model"
)

// GridResolver determines the row/column boundaries of a table region.
type GridResolver struct {
	// MaxLineAngle is the maximum deviation, in degrees, from the axis for
	// a segment to count as horizontal or vertical.
	MaxLineAngle float64

	// MinLineLength is the minimum segment extent, in pixels, to count as
	// a gridline.
	MinLineLength int

	// LineClusterGap merges same-axis lines whose positions differ by less
	// than this many pixels into one boundary.
	LineClusterGap int

	// PeakFactor is the multiple of the median projection value a peak
	// must exceed in the projection fallback.
	PeakFactor float64

	// PeakClusterGap merges projection peaks within this many pixels.
	PeakClusterGap int

	// EdgePad pads the boundary list with the region edges when the
	// nearest boundary is farther than this from the edge.
	EdgePad int

	// MinRowHeight and MinColWidth size the synthetic uniform grid.
	MinRowHeight int
	MinColWidth  int
}

// NewGridResolver creates a resolver with default settings.
func NewGridResolver() *GridResolver {
	return &GridResolver{
		MaxLineAngle:   20,
		MinLineLength:  100,
		LineClusterGap: 10,
		PeakFactor:     1.5,
		PeakClusterGap: 5,
		EdgePad:        10,
		MinRowHeight:   50,
		MinColWidth:    100,
	}
}

// Resolve determines the grid structure of a region. It first tries
// line-based detection; when that yields fewer than two boundaries on
// either axis it falls back to projection peaks, and finally to a uniform
// synthetic grid, so the result always defines at least one cell.
func (r *GridResolver) Resolve(region model.Region) model.GridStructure {
	gray := imageproc.ToGray(region.Image)
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return model.GridStructure{RowBounds: []int{0, 1}, ColBounds: []int{0, 1}}
	}

	binary := imageproc.Binarize(gray, imageproc.OtsuThreshold(gray))

	rows, cols := r.resolveLines(binary)
	if len(rows) < 2 || len(cols) < 2 {
		rows = r.resolveProjection(binary, true)
		cols = r.resolveProjection(binary, false)
	}

	rows = r.padEdges(rows, h)
	cols = r.padEdges(cols, w)

	return model.GridStructure{RowBounds: rows, ColBounds: cols}
}

// segment is a detected line segment within a region.
type segment struct {
	x1, y1, x2, y2 int
}

func (s segment) length() float64 {
	dx := float64(s.x2 - s.x1)
	dy := float64(s.y2 - s.y1)
	return math.Hypot(dx, dy)
}

// angle returns the segment angle in degrees, in [-90, 90].
func (s segment) angle() float64 {
	a := math.Atan2(float64(s.y2-s.y1), float64(s.x2-s.x1)) * 180 / math.Pi
	if a > 90 {
		a -= 180
	} else if a < -90 {
		a += 180
	}
	return a
}

// resolveLines runs line-based boundary detection. Returns nil slices when
// either axis has fewer than two boundaries.
func (r *GridResolver) resolveLines(binary *image.Gray) (rows, cols []int) {
	var hPos, vPos []float64

	for _, s := range r.detectSegments(binary, true) {
		if math.Abs(s.angle()) <= r.MaxLineAngle {
			hPos = append(hPos, float64(s.y1+s.y2)/2)
		}
	}
	for _, s := range r.detectSegments(binary, false) {
		if math.Abs(s.angle()) >= 90-r.MaxLineAngle {
			vPos = append(vPos, float64(s.x1+s.x2)/2)
		}
	}

	rows = clusterPositions(hPos, float64(r.LineClusterGap))
	cols = clusterPositions(vPos, float64(r.LineClusterGap))
	if len(rows) < 2 || len(cols) < 2 {
		return nil, nil
	}
	return rows, cols
}

// detectSegments finds long dark traces along one axis. Runs of dark
// pixels in consecutive scanlines are chained into a segment when their
// extents overlap, which tolerates a few degrees of skew.
func (r *GridResolver) detectSegments(binary *image.Gray, horizontal bool) []segment {
	bounds := binary.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var lines, span int
	if horizontal {
		lines, span = h, w
	} else {
		lines, span = w, h
	}

	minLen := r.MinLineLength
	if minLen > span/2 {
		minLen = span / 2
	}
	if minLen < 10 {
		minLen = 10
	}

	at := func(line, pos int) uint8 {
		if horizontal {
			return binary.Pix[binary.PixOffset(bounds.Min.X+pos, bounds.Min.Y+line)]
		}
		return binary.Pix[binary.PixOffset(bounds.Min.X+line, bounds.Min.Y+pos)]
	}

	type run struct{ line, start, end int }
	var runs []run

	const maxGap = 10
	for line := 0; line < lines; line++ {
		start, gap := -1, 0
		last := -1
		for pos := 0; pos < span; pos++ {
			if at(line, pos) == 0 {
				if start < 0 {
					start = pos
				}
				last = pos
				gap = 0
			} else if start >= 0 {
				gap++
				if gap > maxGap {
					if last-start+1 >= minLen {
						runs = append(runs, run{line, start, last})
					}
					start, last, gap = -1, -1, 0
				}
			}
		}
		if start >= 0 && last-start+1 >= minLen {
			runs = append(runs, run{line, start, last})
		}
	}

	// Chain runs on adjacent scanlines with overlapping extents into one
	// segment; the chain endpoints carry the actual skew angle.
	var segments []segment
	used := make([]bool, len(runs))
	for i, first := range runs {
		if used[i] {
			continue
		}
		used[i] = true
		chainLine, chainStart, chainEnd := first.line, first.start, first.end
		endLine := first.line
		for j := i + 1; j < len(runs); j++ {
			if used[j] {
				continue
			}
			next := runs[j]
			if next.line-endLine > 2 {
				break
			}
			if next.start <= chainEnd && next.end >= chainStart {
				used[j] = true
				endLine = next.line
				chainStart = min(chainStart, next.start)
				chainEnd = max(chainEnd, next.end)
			}
		}

		var s segment
		if horizontal {
			s = segment{x1: chainStart, y1: chainLine, x2: chainEnd, y2: endLine}
		} else {
			s = segment{x1: chainLine, y1: chainStart, x2: endLine, y2: chainEnd}
		}
		if s.length() >= float64(minLen) {
			segments = append(segments, s)
		}
	}

	return segments
}

// resolveProjection finds boundaries from pixel-density peaks along one
// axis, falling back to a uniform synthetic grid when too few clusters
// emerge.
func (r *GridResolver) resolveProjection(binary *image.Gray, horizontal bool) []int {
	bounds := binary.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var lines, span int
	if horizontal {
		lines, span = h, w
	} else {
		lines, span = w, h
	}

	// Brightness projection: peaks sit in the whitespace between content.
	proj := make([]float64, lines)
	for line := 0; line < lines; line++ {
		var sum float64
		for pos := 0; pos < span; pos++ {
			var v uint8
			if horizontal {
				v = binary.Pix[binary.PixOffset(bounds.Min.X+pos, bounds.Min.Y+line)]
			} else {
				v = binary.Pix[binary.PixOffset(bounds.Min.X+line, bounds.Min.Y+pos)]
			}
			sum += float64(v)
		}
		proj[line] = sum
	}

	med := median(proj)
	threshold := med * r.PeakFactor

	var peaks []float64
	for i, v := range proj {
		if v > threshold {
			peaks = append(peaks, float64(i))
		}
	}

	clusters := clusterPositions(peaks, float64(r.PeakClusterGap))
	if len(clusters) >= 3 {
		return clusters
	}

	// Synthetic uniform grid: evenly spaced boundaries, at least 3 cells.
	var cells int
	if horizontal {
		cells = max(3, lines/r.MinRowHeight)
	} else {
		cells = max(3, lines/r.MinColWidth)
	}
	step := lines / cells
	marks := make([]int, cells)
	for i := range marks {
		marks[i] = i * step
	}
	return marks
}

// padEdges ensures the boundary list reaches both region edges so no
// content falls outside the grid.
func (r *GridResolver) padEdges(boundaries []int, extent int) []int {
	sort.Ints(boundaries)
	boundaries = dedupInts(boundaries)

	if len(boundaries) == 0 {
		return []int{0, extent}
	}
	if boundaries[0] > r.EdgePad {
		boundaries = append([]int{0}, boundaries...)
	}
	if boundaries[len(boundaries)-1] < extent-r.EdgePad {
		boundaries = append(boundaries, extent)
	}
	if len(boundaries) < 2 {
		boundaries = []int{0, extent}
	}
	return boundaries
}

// clusterPositions merges sorted positions lying within gap of the running
// cluster into one boundary at the cluster mean.
func clusterPositions(positions []float64, gap float64) []int {
	if len(positions) == 0 {
		return nil
	}
	sort.Float64s(positions)

	var clusters []int
	sum := positions[0]
	count := 1
	last := positions[0]

	flush := func() {
		clusters = append(clusters, int(math.Round(sum/float64(count))))
	}

	for _, p := range positions[1:] {
		if p-last <= gap {
			sum += p
			count++
		} else {
			flush()
			sum, count = p, 1
		}
		last = p
	}
	flush()

	return clusters
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func dedupInts(values []int) []int {
	if len(values) < 2 {
		return values
	}
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
