// Package inspect reads a produced workbook back with an independent xlsx
// implementation and summarizes its sheets and styles.
package inspect

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Sheet describes one worksheet.
type Sheet struct {
	Name   string
	Rows   int // highest populated row number
	Cols   int // highest populated column number
	Header []string
}

// Workbook describes a workbook as read back from disk.
type Workbook struct {
	Sheets []Sheet
	// Styles is the number of cell formats in the style table.
	Styles int
	// Colors counts cells per explicit font colour (RRGGBB).
	Colors map[string]int
}

// ReadFile inspects the workbook at path.
func ReadFile(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return Read(f, fi.Size())
}

// Read inspects the workbook held in r.
func Read(r io.ReaderAt, size int64) (*Workbook, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	out := &Workbook{Colors: make(map[string]int)}
	if xfs := wb.StyleSheet.X().CellXfs; xfs != nil {
		out.Styles = len(xfs.Xf)
	}

	for _, sheet := range wb.Sheets() {
		info := Sheet{Name: sheet.Name()}
		for _, row := range sheet.Rows() {
			rowNum := int(row.RowNumber())
			if rowNum > info.Rows {
				info.Rows = rowNum
			}
			for _, cell := range row.Cells() {
				colName, err := cell.Column()
				if err != nil {
					continue
				}
				colIdx := int(reference.ColumnToIndex(colName))
				if colIdx+1 > info.Cols {
					info.Cols = colIdx + 1
				}
				if rowNum == 1 {
					for len(info.Header) <= colIdx {
						info.Header = append(info.Header, "")
					}
					info.Header[colIdx] = cell.GetFormattedValue()
				}
				if cell.X().SAttr != nil {
					if c := fontColor(wb.StyleSheet, *cell.X().SAttr); c != "" {
						out.Colors[c]++
					}
				}
			}
		}
		out.Sheets = append(out.Sheets, info)
	}
	return out, nil
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// SheetNames lists the sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// WriteSummary prints a human-readable description of the workbook.
func (w *Workbook) WriteSummary(out io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d sheets, %d cell formats\n", len(w.Sheets), w.Styles)
	for _, s := range w.Sheets {
		fmt.Fprintf(&b, "  %-31s %4d rows x %2d cols\n", s.Name, s.Rows, s.Cols)
	}
	if len(w.Colors) > 0 {
		colors := make([]string, 0, len(w.Colors))
		for c := range w.Colors {
			colors = append(colors, c)
		}
		sort.Strings(colors)
		b.WriteString("coloured cells:")
		for _, c := range colors {
			fmt.Fprintf(&b, " #%s=%d", c, w.Colors[c])
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

// fontColor returns the explicit RGB font colour of a cell format, if any.
func fontColor(ss spreadsheet.StyleSheet, styleID uint32) string {
	font := fontProps(ss, styleID)
	if font == nil || len(font.Color) == 0 || font.Color[0].RgbAttr == nil {
		return ""
	}
	return normalizeColor(*font.Color[0].RgbAttr)
}

func fontProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Font {
	x := ss.X()
	if x.CellXfs == nil || x.Fonts == nil || int(styleID) >= len(x.CellXfs.Xf) {
		return nil
	}
	xf := x.CellXfs.Xf[styleID]
	if xf.FontIdAttr == nil {
		return nil
	}
	fontIdx := int(*xf.FontIdAttr)
	if fontIdx < 0 || fontIdx >= len(x.Fonts.Font) {
		return nil
	}
	return x.Fonts.Font[fontIdx]
}

func normalizeColor(hex string) string {
	hex = strings.ToUpper(strings.TrimPrefix(hex, "#"))
	if len(hex) == 8 {
		return hex[2:]
	}
	return hex
}
