package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Signature is one line of the sign-off block under a printed report.
type Signature struct {
	Role string
	Name string
	NIP  string
}

// ReportOptions shape the printed page around the table body.
type ReportOptions struct {
	Title      string
	Subtitle   string
	Landscape  bool
	Signatures []Signature
	// ColWidths overrides the uniform column split; values are millimetres
	// and must match the header count when set.
	ColWidths []float64
}

// RenderReport creates a PDF document for a report page. Wide matrices (one
// column per day of month) should set Landscape and per-column widths.
func (e *PDFExporter) RenderReport(data Dataset, opts ReportOptions) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	if len(opts.ColWidths) > 0 && len(opts.ColWidths) != len(data.Headers) {
		return nil, fmt.Errorf("pdf column widths do not match headers")
	}

	orientation := "P"
	pageWidth := 190.0
	if opts.Landscape {
		orientation = "L"
		pageWidth = 277.0
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if opts.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, strings.ToUpper(opts.Title), "", 1, "C", false, 0, "")
	}
	if opts.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, opts.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	widths := opts.ColWidths
	if len(widths) == 0 {
		w := pageWidth / float64(len(data.Headers))
		widths = make([]float64, len(data.Headers))
		for i := range widths {
			widths[i] = w
		}
	}

	pdf.SetFont("Arial", "B", 8)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 6, row[header], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(opts.Signatures) > 0 {
		pdf.Ln(10)
		colWidth := pageWidth / float64(len(opts.Signatures))
		pdf.SetFont("Arial", "", 9)
		for _, sig := range opts.Signatures {
			pdf.CellFormat(colWidth, 5, sig.Role, "", 0, "C", false, 0, "")
		}
		pdf.Ln(20)
		pdf.SetFont("Arial", "BU", 9)
		for _, sig := range opts.Signatures {
			pdf.CellFormat(colWidth, 5, sig.Name, "", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, sig := range opts.Signatures {
			label := ""
			if sig.NIP != "" {
				label = "NIP. " + sig.NIP
			}
			pdf.CellFormat(colWidth, 5, label, "", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
