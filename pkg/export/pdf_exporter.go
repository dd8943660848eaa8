package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into tabular PDF documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a portrait PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Grid describes a weekly timetable laid out as slot rows by day columns.
type Grid struct {
	DayHeaders []string
	SlotLabels []string
	// Cells[row][col] holds the text for the slot row and day column.
	Cells [][]string
}

// RenderGrid creates a landscape weekly-grid PDF, one column per day and one
// row per intra-day slot.
func (e *PDFExporter) RenderGrid(grid Grid, title string) ([]byte, error) {
	if len(grid.DayHeaders) == 0 || len(grid.SlotLabels) == 0 {
		return nil, fmt.Errorf("grid requires day and slot headers")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	const labelWidth = 32.0
	colWidth := (277.0 - labelWidth) / float64(len(grid.DayHeaders))

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelWidth, 8, "", "1", 0, "C", false, 0, "")
	for _, day := range grid.DayHeaders {
		pdf.CellFormat(colWidth, 8, day, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for row, label := range grid.SlotLabels {
		pdf.CellFormat(labelWidth, 9, label, "1", 0, "C", false, 0, "")
		for col := range grid.DayHeaders {
			value := ""
			if row < len(grid.Cells) && col < len(grid.Cells[row]) {
				value = grid.Cells[row][col]
			}
			pdf.CellFormat(colWidth, 9, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render grid pdf: %w", err)
	}
	return buf.Bytes(), nil
}
