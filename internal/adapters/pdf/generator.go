// Package pdf renders a household detail view as a printable PDF sheet:
// a header bar, the general household fields, then one boxed block per
// adult member and per child.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/household-census/internal/dashboard"
)

const (
	rowH     = 5.5
	headingH = 6
)

// GeneratePDF writes v to w. generated is printed in the footer.
func GeneratePDF(v dashboard.DetailView, generated time.Time, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 22, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	marginL, _, marginR, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - marginL - marginR

	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(30, 30, 30)
		pdf.Rect(marginL, 10, contentW, 9, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginL+2, 11)
		pdf.CellFormat(contentW-30, 7, tr(v.Title), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8.5)
		pdf.CellFormat(26, 7, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 1, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetY(22)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 7.5)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(contentW/2, 5, "Household Census", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 5, "Generated "+generated.Format("2006-01-02 15:04"), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	section(pdf, tr, contentW, "GENERAL INFORMATION")
	fields(pdf, tr, contentW, v.General)

	pdf.Ln(4)
	section(pdf, tr, contentW, v.MembersHeading)
	for _, b := range v.Members {
		block(pdf, tr, contentW, b)
	}

	pdf.Ln(4)
	section(pdf, tr, contentW, v.ChildrenHeading)
	for _, b := range v.Children {
		block(pdf, tr, contentW, b)
	}

	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, tr func(string) string, w float64, title string) {
	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(w, headingH, tr(title), "1", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func block(pdf *fpdf.Fpdf, tr func(string) string, w float64, b dashboard.Block) {
	pdf.Ln(1.5)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.CellFormat(w, rowH, tr(b.Heading), "LRT", 1, "L", true, 0, "")
	fields(pdf, tr, w, b.Lines)
}

// fields draws two columns: label and value, alternating row fill.
func fields(pdf *fpdf.Fpdf, tr func(string) string, w float64, lines []dashboard.Line) {
	labelW := w * 0.4
	for i, l := range lines {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", "B", 8.5)
		pdf.CellFormat(labelW, rowH, tr(l.Label), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 8.5)
		pdf.CellFormat(w-labelW, rowH, tr(l.Value), "1", 1, "L", true, 0, "")
	}
}
