package ocr

import (
	"bytes"
	"image"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/avigneault/chargeaudit/imageproc"
)

// CellWhitelist is the character set cell recognition is restricted to:
// Latin letters, digits, and the punctuation that appears in charge
// labels and amounts.
const CellWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789,.€ -/&"

// blankCellMean is the mean pixel value above which a cell is considered
// empty and OCR is skipped.
const blankCellMean = 245

// Recognizer turns encoded image bytes into text. *Client satisfies it
// when OCR support is compiled in; tests substitute fakes.
type Recognizer interface {
	Recognize(imageData []byte) (string, error)
}

// whitelister is the optional ability of a recognizer to restrict its
// character set.
type whitelister interface {
	SetWhitelist(chars string) error
}

// CellReader extracts text from individual table cells with cell-specific
// preprocessing: 2x bicubic upscaling, grayscale conversion, and Otsu
// binarization before recognition.
type CellReader struct {
	rec Recognizer
}

// NewCellReader creates a cell reader backed by the given recognizer.
// Recognizers that support a character whitelist are restricted to
// CellWhitelist.
func NewCellReader(rec Recognizer) *CellReader {
	if w, ok := rec.(whitelister); ok {
		_ = w.SetWhitelist(CellWhitelist)
	}
	return &CellReader{rec: rec}
}

// ReadCell extracts the text of one cell sub-image. Near-blank cells
// short-circuit to an empty string without invoking OCR. Recognition
// failures yield an empty string together with the failure, so a cell
// that cannot be read stays empty and the caller can log the cause as a
// warning.
func (r *CellReader) ReadCell(cell image.Image) (text string, failure error) {
	if cell == nil || r.rec == nil {
		return "", nil
	}

	gray := imageproc.ToGray(cell)
	b := gray.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", nil
	}
	if imageproc.MeanValue(gray) > blankCellMean {
		return "", nil
	}

	scaled := upscale(gray, 2)
	binary := imageproc.Binarize(scaled, imageproc.OtsuThreshold(scaled))

	var buf bytes.Buffer
	if err := png.Encode(&buf, binary); err != nil {
		return "", err
	}

	out, err := r.rec.Recognize(buf.Bytes())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// upscale enlarges a grayscale image by an integer factor with bicubic
// (Catmull-Rom) interpolation.
func upscale(img *image.Gray, factor int) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out
}
