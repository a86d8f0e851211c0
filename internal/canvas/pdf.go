package canvas

import (
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/serroba/whiteboard/internal/shape"
)

// pdfScale maps canvas units (pixels) onto the A4 page in millimeters.
const pdfScale = 3.0

// PDFRenderer realizes draw calls on a single-page PDF, useful for exporting
// a board snapshot without a windowing system. Stroke colors are ignored;
// everything is drawn in black on the white page.
type PDFRenderer struct {
	pdf *gofpdf.Fpdf
}

// NewPDFRenderer creates an empty A4 page.
func NewPDFRenderer() *PDFRenderer {
	r := &PDFRenderer{}
	r.Clear()

	return r
}

// Clear discards the page and starts a fresh one.
func (r *PDFRenderer) Clear() {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(DefaultStrokeWidth / pdfScale)

	r.pdf = pdf
}

// StrokeRect outlines a rectangle. gofpdf wants a positive extent, so
// negative drags are normalized here.
func (r *PDFRenderer) StrokeRect(x, y, width, height float64) {
	if width < 0 {
		x += width
		width = -width
	}

	if height < 0 {
		y += height
		height = -height
	}

	r.pdf.SetLineCapStyle("butt")
	r.pdf.SetLineJoinStyle("miter")
	r.pdf.SetLineWidth(DefaultStrokeWidth / pdfScale)
	r.pdf.Rect(x/pdfScale, y/pdfScale, width/pdfScale, height/pdfScale, "D")
}

// StrokeCircle outlines a circle.
func (r *PDFRenderer) StrokeCircle(cx, cy, radius float64) {
	r.pdf.SetLineCapStyle("butt")
	r.pdf.SetLineJoinStyle("miter")
	r.pdf.SetLineWidth(DefaultStrokeWidth / pdfScale)
	r.pdf.Circle(cx/pdfScale, cy/pdfScale, radius/pdfScale, "D")
}

// StrokePath strokes a pencil path using the midpoint quadratic outline.
func (r *PDFRenderer) StrokePath(points []shape.Point, width float64, _ string) {
	segments := PathOutline(points)
	if len(segments) == 0 {
		return
	}

	r.pdf.SetLineCapStyle("round")
	r.pdf.SetLineJoinStyle("round")
	r.pdf.SetLineWidth(width / pdfScale)

	r.pdf.MoveTo(points[0].X/pdfScale, points[0].Y/pdfScale)

	for _, seg := range segments {
		if seg.Quadratic {
			r.pdf.CurveTo(seg.Control.X/pdfScale, seg.Control.Y/pdfScale, seg.End.X/pdfScale, seg.End.Y/pdfScale)
		} else {
			r.pdf.LineTo(seg.End.X/pdfScale, seg.End.Y/pdfScale)
		}
	}

	r.pdf.DrawPath("D")
}

// WriteTo writes the PDF document to w.
func (r *PDFRenderer) WriteTo(w io.Writer) error {
	return r.pdf.Output(w)
}

// SaveTo writes the PDF document to a file.
func (r *PDFRenderer) SaveTo(path string) error {
	return r.pdf.OutputFileAndClose(path)
}

// Ensure PDFRenderer implements Renderer.
var _ Renderer = (*PDFRenderer)(nil)
