package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

type Font struct {
	Family string
	// Style is "", "B" or "I".
	Style string
	Size  float64
}

type Color struct {
	R, G, B int
}

var (
	black        = Color{0, 0, 0}
	green        = Color{0, 128, 0}
	whiteSmoke   = Color{245, 245, 245}
	lightGrey    = Color{211, 211, 211}
	pastelYellow = Color{255, 255, 224}
	khaki        = Color{240, 230, 140}
	replyText    = Color{26, 26, 26}
)

// Canvas is the drawing surface of the layout. Coordinates are in points with
// the origin at the top left corner of the page, text is placed by baseline.
type Canvas interface {
	PageSize() (width, height float64)
	AddPage()
	SetFont(font Font)
	SetTextColor(color Color)
	// StringWidth measures text in the current font.
	StringWidth(text string) float64
	Text(x, baseline float64, text string)
	RoundedRect(x, y, w, h, radius float64, fill, stroke Color)
	// Image draws img as large as fits the box while keeping its aspect ratio.
	Image(x, y, w, h float64, img Image) error
}

// PDFCanvas draws onto a US Letter pdf document.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func NewPDFCanvas() *PDFCanvas {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &PDFCanvas{
		pdf: pdf,
		// the core fonts only cover cp1252
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *PDFCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) SetFont(font Font) {
	c.pdf.SetFont(font.Family, font.Style, font.Size)
}

func (c *PDFCanvas) SetTextColor(color Color) {
	c.pdf.SetTextColor(color.R, color.G, color.B)
}

func (c *PDFCanvas) StringWidth(text string) float64 {
	return c.pdf.GetStringWidth(c.tr(text))
}

func (c *PDFCanvas) Text(x, baseline float64, text string) {
	c.pdf.Text(x, baseline, c.tr(text))
}

func (c *PDFCanvas) RoundedRect(x, y, w, h, radius float64, fill, stroke Color) {
	c.pdf.SetFillColor(fill.R, fill.G, fill.B)
	c.pdf.SetDrawColor(stroke.R, stroke.G, stroke.B)
	c.pdf.RoundedRect(x, y, w, h, radius, "1234", "FD")
}

func (c *PDFCanvas) Image(x, y, w, h float64, img Image) error {
	options := fpdf.ImageOptions{ImageType: img.Format}
	info := c.pdf.GetImageInfo(img.Url)
	if info == nil {
		info = c.pdf.RegisterImageOptionsReader(img.Url, options, bytes.NewReader(img.Data))
	}
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return err
	}
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		return fmt.Errorf("image %s has no size", img.Url)
	}

	scale := min(w/info.Width(), h/info.Height())
	c.pdf.ImageOptions(img.Url, x, y, info.Width()*scale, info.Height()*scale, false, options, 0, "")
	return nil
}

// Bytes finishes the document, the canvas cannot be drawn on afterwards.
func (c *PDFCanvas) Bytes() ([]byte, error) {
	var buffer bytes.Buffer
	err := c.pdf.Output(&buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
