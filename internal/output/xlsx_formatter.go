package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/report"
	"github.com/rpgo/simreport/internal/xlsx"
)

// SummarySheet is the name of the first sheet of an xlsx report.
const SummarySheet = "Summary"

// labelWidth is the width of the selection label column on the summary sheet.
const labelWidth = 18

// XLSXFormatter writes a workbook with a summary sheet followed by one sheet
// per selected run.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }
func (x XLSXFormatter) Ext() string  { return "xlsx" }

func (x XLSXFormatter) Render(rep *report.Report, w io.Writer) error {
	styles := xlsx.NewStyleCache()
	xw := xlsx.NewWriter(w)
	xw.SetProperties(xlsx.Properties{Title: rep.Title, Creator: "simreport", Created: rep.Generated})

	if err := writeSummarySheet(xw, styles, rep); err != nil {
		return err
	}
	used := map[string]bool{strings.ToLower(SummarySheet): true}
	for _, sel := range rep.Selections {
		name := uniqueSheetName(runSheetName(sel), used)
		if err := writeRunSheet(xw, styles, rep, sel, name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	table, err := styles.Build()
	if err != nil {
		return err
	}
	return xw.Save(table)
}

func writeSummarySheet(xw *xlsx.Writer, styles *xlsx.StyleCache, rep *report.Report) error {
	if err := xw.BeginSheet(SummarySheet); err != nil {
		return err
	}
	widths := append([]float64{labelWidth}, columnWidths(rep.Columns)...)
	if err := xw.WriteColumns(widths); err != nil {
		return err
	}
	if err := xw.BeginSheetData(); err != nil {
		return err
	}

	header := headerStyle(styles)
	label := styles.Register(xlsx.StyleDescriptor{Bold: true, HAlign: xlsx.HAlignLeft})
	if err := writeRow(xw, styles, &leadCell{"Selection", header}, rep.Header()); err != nil {
		return err
	}
	for _, sel := range rep.Selections {
		if err := writeRow(xw, styles, &leadCell{sel.Label, label}, rep.SummaryRow(sel)); err != nil {
			return err
		}
	}

	// Success rate sits under the label column; the rest of the row stays empty.
	rate := styles.Register(xlsx.StyleDescriptor{NumberFormat: columns.FormatPercent1.Code(), Bold: true, HAlign: xlsx.HAlignRight})
	if err := xw.BeginRow(); err != nil {
		return err
	}
	if err := xw.AppendStyled("Success Rate", label); err != nil {
		return err
	}
	for i := range rep.Columns {
		v := any(nil)
		id := xlsx.DefaultStyle
		if i == 0 {
			v, id = rep.SuccessRate(), rate
		}
		if err := xw.AppendStyled(v, id); err != nil {
			return err
		}
	}
	if err := xw.EndRow(); err != nil {
		return err
	}
	return xw.EndSheet()
}

func writeRunSheet(xw *xlsx.Writer, styles *xlsx.StyleCache, rep *report.Report, sel report.Selection, name string) error {
	if err := xw.BeginSheet(name); err != nil {
		return err
	}
	if err := xw.WriteColumns(columnWidths(rep.Columns)); err != nil {
		return err
	}
	if err := xw.BeginSheetData(); err != nil {
		return err
	}
	if err := writeRow(xw, styles, nil, rep.Header()); err != nil {
		return err
	}
	for _, row := range rep.YearRows(sel) {
		if err := writeRow(xw, styles, nil, row); err != nil {
			return err
		}
	}
	return xw.EndSheet()
}

type leadCell struct {
	value string
	style xlsx.StyleID
}

// writeRow writes one row, optionally led by a label cell.
func writeRow(xw *xlsx.Writer, styles *xlsx.StyleCache, lead *leadCell, cells []report.Cell) error {
	if err := xw.BeginRow(); err != nil {
		return err
	}
	if lead != nil {
		if err := xw.AppendStyled(lead.value, lead.style); err != nil {
			return err
		}
	}
	for _, c := range cells {
		v, id := cellValue(styles, c)
		if err := xw.AppendStyled(v, id); err != nil {
			return err
		}
	}
	return xw.EndRow()
}

// cellValue maps a report cell to a writer value and style. Blank and
// absent cells are written unstyled.
func cellValue(styles *xlsx.StyleCache, c report.Cell) (any, xlsx.StyleID) {
	if c.Empty() {
		return nil, xlsx.DefaultStyle
	}
	d := columns.DescriptorFor(c.Column)
	if c.Text != "" {
		return c.Text, headerStyle(styles)
	}
	return c.Value, styles.Register(xlsx.StyleDescriptor{
		NumberFormat: d.Format.Code(),
		TextColor:    c.Color.RGB(),
		HAlign:       d.Align.String(),
	})
}

func headerStyle(styles *xlsx.StyleCache) xlsx.StyleID {
	return styles.Register(xlsx.StyleDescriptor{Bold: true, HAlign: xlsx.HAlignCenter, VAlign: xlsx.VAlignCenter})
}

func columnWidths(cols []columns.Descriptor) []float64 {
	widths := make([]float64, len(cols))
	for i, d := range cols {
		widths[i] = d.Width.Chars()
	}
	return widths
}

func runSheetName(sel report.Selection) string {
	if sel.ByRank && sel.Run != nil {
		return fmt.Sprintf("%s (Run %d)", sel.Label, sel.Run.Index)
	}
	return sel.Label
}

// uniqueSheetName sanitizes name and appends a counter until it is unused.
func uniqueSheetName(name string, used map[string]bool) string {
	base := xlsx.SanitizeSheetName(name)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		r := []rune(base)
		if len(r)+len(suffix) > xlsx.MaxSheetName {
			r = r[:xlsx.MaxSheetName-len(suffix)]
		}
		candidate = xlsx.SanitizeSheetName(string(r) + suffix)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
