package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/report"
)

// Landscape A4 in millimetres.
const (
	pdfPageWidth    = 297.0
	pdfMarginLeft   = 12.0
	pdfMarginRight  = 12.0
	pdfMarginTop    = 12.0
	pdfMarginBottom = 15.0
	pdfContentWidth = pdfPageWidth - pdfMarginLeft - pdfMarginRight
	pdfLabelWidth   = 28.0
	pdfRowHeight    = 5.0
)

// PDFFormatter lays the report out as printable tables: a summary page and
// one section per selected run.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }
func (p PDFFormatter) Ext() string  { return "pdf" }

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	rep *report.Report
}

func (p PDFFormatter) Render(rep *report.Report, w io.Writer) error {
	r := &pdfReport{pdf: fpdf.New("L", "mm", "A4", ""), rep: rep}
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetAutoPageBreak(true, pdfMarginBottom)
	r.pdf.SetTitle(rep.Title, true)
	r.pdf.SetCreator("simreport", false)
	r.pdf.SetCreationDate(rep.Generated)
	r.pdf.AliasNbPages("")
	r.pdf.SetFooterFunc(r.footer)

	r.addSummaryPage()
	for _, sel := range rep.Selections {
		r.addRunSection(sel)
	}
	return r.pdf.Output(w)
}

func (r *pdfReport) addSummaryPage() {
	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 10, r.tr(r.rep.Title), "", 1, "L", false, 0, "")

	rate := r.rep.SuccessRate()
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(80, 80, 80)
	runs := 0
	if r.rep.Result != nil {
		runs = len(r.rep.Result.Runs)
	}
	r.pdf.CellFormat(pdfContentWidth, 6, fmt.Sprintf("%d runs, view %s, generated %s",
		runs, r.tr(r.rep.View), r.rep.Generated.Format("2 January 2006 15:04")), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "B", 12)
	r.setColor(RateColor(rate))
	r.pdf.CellFormat(pdfContentWidth, 8, "Success Rate: "+FormatSuccessRate(rate), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)

	r.drawSectionHeader("Summary")
	widths := r.columnWidths(pdfContentWidth - pdfLabelWidth)
	r.drawTableHeader("Selection", r.rep.Header(), widths)
	for _, sel := range r.rep.Selections {
		r.drawTableRow(sel.Label, r.rep.SummaryRow(sel), widths, true)
	}
}

func (r *pdfReport) addRunSection(sel report.Selection) {
	r.pdf.AddPage()
	title := sel.Label
	if sel.Run != nil {
		title = fmt.Sprintf("%s - Run %d", sel.Label, sel.Run.Index)
		if sel.Run.Failed() {
			title += " (failed)"
		}
	}
	r.drawSectionHeader(title)
	widths := r.columnWidths(pdfContentWidth)
	r.drawTableHeader("", r.rep.Header(), widths)
	for _, row := range r.rep.YearRows(sel) {
		r.drawTableRow("", row, widths, false)
	}
}

func (r *pdfReport) footer() {
	r.pdf.SetY(-10)
	r.pdf.SetFont("Arial", "I", 7)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(pdfContentWidth, 5, fmt.Sprintf("%s - page %d/{nb}", r.rep.ID, r.pdf.PageNo()), "", 0, "R", false, 0, "")
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 8, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(pdfMarginLeft, r.pdf.GetY(), pdfMarginLeft+pdfContentWidth, r.pdf.GetY())
	r.pdf.Ln(3)
}

// drawTableHeader draws the header row; label, when not empty, heads an
// extra leading column.
func (r *pdfReport) drawTableHeader(label string, cells []report.Cell, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 7)
	if label != "" {
		r.pdf.CellFormat(pdfLabelWidth, pdfRowHeight+1, r.tr(label), "1", 0, "L", true, 0, "")
	}
	for i, c := range cells {
		r.pdf.CellFormat(widths[i], pdfRowHeight+1, r.tr(c.Text), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(label string, cells []report.Cell, widths []float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	r.pdf.SetFont("Arial", style, 7)
	r.pdf.SetFillColor(250, 250, 250)
	if label != "" {
		r.pdf.SetTextColor(50, 50, 50)
		r.pdf.CellFormat(pdfLabelWidth, pdfRowHeight, r.tr(label), "1", 0, "L", true, 0, "")
	}
	for i, c := range cells {
		r.setColor(c.Color)
		r.pdf.CellFormat(widths[i], pdfRowHeight, r.tr(report.Text(c)), "1", 0, pdfAlign(c.Column), true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) setColor(c columns.Color) {
	red, green, blue := hexRGB(c.RGB())
	r.pdf.SetTextColor(red, green, blue)
}

// columnWidths scales the column width classes to fill total.
func (r *pdfReport) columnWidths(total float64) []float64 {
	chars := columnWidths(r.rep.Columns)
	sum := 0.0
	for _, c := range chars {
		sum += c
	}
	widths := make([]float64, len(chars))
	if sum == 0 {
		return widths
	}
	for i, c := range chars {
		widths[i] = total * c / sum
	}
	return widths
}

func pdfAlign(id columns.ID) string {
	switch columns.DescriptorFor(id).Align {
	case columns.AlignLeft:
		return "L"
	case columns.AlignCenter:
		return "C"
	default:
		return "R"
	}
}

// hexRGB parses RRGGBB; an empty or malformed value is dark grey.
func hexRGB(s string) (int, int, int) {
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		return 50, 50, 50
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
