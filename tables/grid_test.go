package tables

import (
	"image"
	"testing"

	"github.com/avigneault/chargeaudit/model"
)

// makeRegion wraps a grayscale image as a region at the page origin.
func makeRegion(img *image.Gray) model.Region {
	b := img.Bounds()
	return model.Region{X: 0, Y: 0, W: b.Dx(), H: b.Dy(), Image: img}
}

// whiteImage builds an all-white grayscale image.
func whiteImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// drawHLine paints a dark horizontal line at row y.
func drawHLine(img *image.Gray, y int) {
	w := img.Bounds().Dx()
	for x := 0; x < w; x++ {
		img.Pix[y*img.Stride+x] = 0
	}
}

// drawVLine paints a dark vertical line at column x.
func drawVLine(img *image.Gray, x int) {
	h := img.Bounds().Dy()
	for y := 0; y < h; y++ {
		img.Pix[y*img.Stride+x] = 0
	}
}

func TestNewGridResolver(t *testing.T) {
	r := NewGridResolver()
	if r.MaxLineAngle != 20 {
		t.Errorf("expected MaxLineAngle 20, got %f", r.MaxLineAngle)
	}
	if r.LineClusterGap != 10 {
		t.Errorf("expected LineClusterGap 10, got %d", r.LineClusterGap)
	}
	if r.EdgePad != 10 {
		t.Errorf("expected EdgePad 10, got %d", r.EdgePad)
	}
}

func TestGridResolver_VisibleGridlines(t *testing.T) {
	img := whiteImage(400, 300)
	for _, y := range []int{0, 100, 200, 299} {
		drawHLine(img, y)
	}
	for _, x := range []int{0, 150, 399} {
		drawVLine(img, x)
	}

	grid := NewGridResolver().Resolve(makeRegion(img))
	if grid.RowCount() != 3 {
		t.Errorf("expected 3 rows, got %d (bounds %v)", grid.RowCount(), grid.RowBounds)
	}
	if grid.ColCount() != 2 {
		t.Errorf("expected 2 cols, got %d (bounds %v)", grid.ColCount(), grid.ColBounds)
	}
}

func TestGridResolver_ClustersNearbyLines(t *testing.T) {
	img := whiteImage(400, 300)
	// Two lines 4px apart must merge into one boundary.
	drawHLine(img, 100)
	drawHLine(img, 104)
	drawHLine(img, 0)
	drawHLine(img, 299)
	drawVLine(img, 0)
	drawVLine(img, 399)

	grid := NewGridResolver().Resolve(makeRegion(img))
	if grid.RowCount() != 2 {
		t.Errorf("expected nearby lines to merge into 2 rows, got %d (bounds %v)",
			grid.RowCount(), grid.RowBounds)
	}
}

func TestGridResolver_SyntheticFallback(t *testing.T) {
	// Featureless 300x150 region: no lines, no projection peaks.
	grid := NewGridResolver().Resolve(makeRegion(whiteImage(300, 150)))

	if grid.RowCount() != 3 {
		t.Errorf("expected synthetic 3 rows, got %d (bounds %v)", grid.RowCount(), grid.RowBounds)
	}
	if grid.ColCount() != 3 {
		t.Errorf("expected synthetic 3 cols, got %d (bounds %v)", grid.ColCount(), grid.ColBounds)
	}
}

func TestGridResolver_NeverUnderTwoBoundaries(t *testing.T) {
	sizes := []image.Rectangle{
		image.Rect(0, 0, 1, 1),
		image.Rect(0, 0, 40, 700),
		image.Rect(0, 0, 700, 40),
	}
	r := NewGridResolver()
	for _, sz := range sizes {
		grid := r.Resolve(makeRegion(whiteImage(sz.Dx(), sz.Dy())))
		if len(grid.RowBounds) < 2 || len(grid.ColBounds) < 2 {
			t.Errorf("size %v: boundaries %v / %v below minimum", sz, grid.RowBounds, grid.ColBounds)
		}
	}
}

func TestGridResolver_PadsEdges(t *testing.T) {
	img := whiteImage(400, 300)
	// Interior lines only; the resolver must pad to the region edges.
	for _, y := range []int{80, 160, 240} {
		drawHLine(img, y)
	}
	for _, x := range []int{100, 200, 300} {
		drawVLine(img, x)
	}

	grid := NewGridResolver().Resolve(makeRegion(img))
	if grid.RowBounds[0] != 0 || grid.RowBounds[len(grid.RowBounds)-1] != 300 {
		t.Errorf("row bounds not padded to edges: %v", grid.RowBounds)
	}
	if grid.ColBounds[0] != 0 || grid.ColBounds[len(grid.ColBounds)-1] != 400 {
		t.Errorf("col bounds not padded to edges: %v", grid.ColBounds)
	}
}

func TestClusterPositions(t *testing.T) {
	got := clusterPositions([]float64{10, 12, 14, 50, 52, 200}, 10)
	want := []int{12, 51, 200}
	if len(got) != len(want) {
		t.Fatalf("clusterPositions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cluster %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMedian(t *testing.T) {
	if m := median([]float64{3, 1, 2}); m != 2 {
		t.Errorf("median odd = %f, want 2", m)
	}
	if m := median([]float64{1, 2, 3, 4}); m != 2.5 {
		t.Errorf("median even = %f, want 2.5", m)
	}
	if m := median(nil); m != 0 {
		t.Errorf("median empty = %f, want 0", m)
	}
}
