package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"

	"foodgram/internal/shopping"
)

const (
	pdfFontFamily  = "goregular"
	pdfMargin      = 56.0
	pdfHeaderSize  = 16.0
	pdfLineSize    = 12.0
	pdfLineSpacing = 18.0
)

func renderPDF(items []shopping.LineItem) ([]byte, error) {
	pdf := buildPDF(items)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// buildPDF lays the list out top to bottom, starting a new page when the
// next line would cross the bottom margin.
func buildPDF(items []shopping.LineItem) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Shopping list", true)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", goregular.TTF)

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pdfMargin

	pdf.AddPage()
	y := pdfMargin + pdfHeaderSize
	pdf.SetFont(pdfFontFamily, "", pdfHeaderSize)
	pdf.Text(pdfMargin, y, Header)
	y += pdfLineSpacing * 1.5

	pdf.SetFont(pdfFontFamily, "", pdfLineSize)
	for i, item := range items {
		if y > bottom {
			pdf.AddPage()
			pdf.SetFont(pdfFontFamily, "", pdfLineSize)
			y = pdfMargin + pdfLineSize
		}
		pdf.Text(pdfMargin, y, formatLine(i+1, item))
		y += pdfLineSpacing
	}
	return pdf
}
