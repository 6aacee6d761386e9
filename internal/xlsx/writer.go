// Package xlsx writes spreadsheet workbooks one row at a time.
//
// Rows are encoded and handed to the zip container as soon as they end, so
// memory use is bounded by the widest row rather than the workbook. Cells
// reference style ids from a StyleCache; the style table itself is only
// written by Save.
package xlsx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type state int

const (
	stateIdle    state = iota // between sheets
	stateHeader               // sheet begun, column widths allowed
	stateData                 // inside sheetData, between rows
	stateRow                  // inside a row
	stateSaved
)

// Properties are written to docProps/core.xml.
type Properties struct {
	Title   string
	Creator string
	Created time.Time
}

// Writer streams sheets into an xlsx container.
type Writer struct {
	zw    *zip.Writer
	part  io.Writer
	state state
	err   error

	sheets []string
	props  Properties

	cols     int // declared column count, -1 until known
	row      int // rows written in the current sheet
	rowCells int
	rowBuf   bytes.Buffer

	maxStyle StyleID
}

// NewWriter returns a writer producing a workbook on dst. Nothing is
// readable until Save returns without error.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{
		zw:    zip.NewWriter(dst),
		props: Properties{Creator: "simreport", Created: time.Now().UTC()},
	}
}

// SetProperties replaces the document properties written by Save.
func (w *Writer) SetProperties(p Properties) {
	if p.Created.IsZero() {
		p.Created = w.props.Created
	}
	w.props = p
}

// SheetCount returns the number of sheets begun so far.
func (w *Writer) SheetCount() int { return len(w.sheets) }

// BeginSheet opens a new worksheet.
func (w *Writer) BeginSheet(name string) error {
	if err := w.check("begin sheet", stateIdle); err != nil {
		return err
	}
	if err := validSheetName(name); err != nil {
		return sequencing("begin sheet", "%v", err)
	}
	for _, s := range w.sheets {
		if strings.EqualFold(s, name) {
			return sequencing("begin sheet", "duplicate sheet name %q", name)
		}
	}
	part, err := w.zw.Create(fmt.Sprintf("xl/worksheets/sheet%d.xml", len(w.sheets)+1))
	if err != nil {
		return w.fail("begin sheet", err)
	}
	w.sheets = append(w.sheets, name)
	w.part = part
	w.cols = -1
	w.row = 0
	w.state = stateHeader
	return w.write("begin sheet", xml.Header+
		`<worksheet xmlns="`+nsMain+`" xmlns:r="`+nsRel+`">`+
		`<sheetFormatPr defaultRowHeight="15"/>`)
}

// WriteColumns declares the column count of the sheet and the width of
// each column in character units. Widths <= 0 keep the default width.
func (w *Writer) WriteColumns(widths []float64) error {
	if err := w.check("write columns", stateHeader); err != nil {
		return err
	}
	if w.cols >= 0 {
		return sequencing("write columns", "columns already declared")
	}
	if len(widths) == 0 {
		return sequencing("write columns", "no columns")
	}
	w.cols = len(widths)
	var b strings.Builder
	b.WriteString("<cols>")
	for i, width := range widths {
		if width <= 0 {
			continue
		}
		fmt.Fprintf(&b, `<col min="%d" max="%d" width="%s" customWidth="1"/>`,
			i+1, i+1, strconv.FormatFloat(width, 'f', -1, 64))
	}
	b.WriteString("</cols>")
	if b.Len() == len("<cols></cols>") {
		return nil
	}
	return w.write("write columns", b.String())
}

// BeginSheetData starts the row section of the current sheet.
func (w *Writer) BeginSheetData() error {
	if err := w.check("begin sheet data", stateHeader); err != nil {
		return err
	}
	w.state = stateData
	return w.write("begin sheet data", "<sheetData>")
}

// BeginRow starts the next row.
func (w *Writer) BeginRow() error {
	if err := w.check("begin row", stateData); err != nil {
		return err
	}
	w.row++
	w.rowCells = 0
	w.rowBuf.Reset()
	fmt.Fprintf(&w.rowBuf, `<row r="%d">`, w.row)
	w.state = stateRow
	return nil
}

// Append adds an unstyled cell to the current row.
func (w *Writer) Append(v any) error {
	return w.AppendStyled(v, DefaultStyle)
}

// AppendStyled adds a cell with the given style id. Supported values are
// nil and absent decimal.NullDecimal (empty cell), strings (inline text)
// and numbers (int and float kinds, decimal.Decimal, valid NullDecimal).
func (w *Writer) AppendStyled(v any, id StyleID) error {
	if err := w.check("append", stateRow); err != nil {
		return err
	}
	if id < 0 {
		return sequencing("append", "negative style id %d", id)
	}
	if w.cols >= 0 && w.rowCells >= w.cols {
		return sequencing("append", "row %d already has %d cells", w.row, w.cols)
	}
	ref := cellRef(w.rowCells, w.row)
	if err := encodeCell(&w.rowBuf, ref, v, id); err != nil {
		return err
	}
	if id > w.maxStyle {
		w.maxStyle = id
	}
	w.rowCells++
	return nil
}

// EndRow flushes the current row to the container.
func (w *Writer) EndRow() error {
	if err := w.check("end row", stateRow); err != nil {
		return err
	}
	if w.cols < 0 {
		if w.rowCells == 0 {
			return sequencing("end row", "empty first row")
		}
		w.cols = w.rowCells
	}
	if w.rowCells != w.cols {
		return sequencing("end row", "row %d has %d cells, want %d", w.row, w.rowCells, w.cols)
	}
	w.rowBuf.WriteString("</row>")
	w.state = stateData
	return w.write("end row", w.rowBuf.String())
}

// EndSheet completes the current worksheet.
func (w *Writer) EndSheet() error {
	switch {
	case w.err != nil:
		return w.err
	case w.state == stateHeader:
		w.state = stateIdle
		return w.write("end sheet", "<sheetData/></worksheet>")
	case w.state == stateData:
		w.state = stateIdle
		return w.write("end sheet", "</sheetData></worksheet>")
	}
	return w.check("end sheet", stateData)
}

// Save writes the style table and workbook parts and closes the
// container. styles must cover every style id used by the cells.
func (w *Writer) Save(styles []StyleDescriptor) error {
	if err := w.check("save", stateIdle); err != nil {
		return err
	}
	if len(w.sheets) == 0 {
		return sequencing("save", "workbook has no sheets")
	}
	if len(styles) == 0 {
		return sequencing("save", "empty style table")
	}
	if int(w.maxStyle) >= len(styles) {
		return sequencing("save", "style id %d not in a table of %d styles", w.maxStyle, len(styles))
	}
	if err := w.finalize(styles); err != nil {
		return w.fail("save", err)
	}
	if err := w.zw.Close(); err != nil {
		return w.fail("save", err)
	}
	w.state = stateSaved
	return nil
}

func (w *Writer) check(op string, want state) error {
	if w.err != nil {
		return w.err
	}
	if w.state == want {
		return nil
	}
	switch w.state {
	case stateSaved:
		return sequencing(op, "workbook already saved")
	case stateIdle:
		return sequencing(op, "no sheet is open")
	case stateHeader:
		if want == stateIdle {
			return sequencing(op, "sheet %q is still open", w.sheets[len(w.sheets)-1])
		}
		return sequencing(op, "sheet data not begun")
	case stateData:
		switch want {
		case stateIdle:
			return sequencing(op, "sheet %q is still open", w.sheets[len(w.sheets)-1])
		case stateRow:
			return sequencing(op, "no row is open")
		}
		return sequencing(op, "sheet data already begun")
	case stateRow:
		return sequencing(op, "row %d is still open", w.row)
	}
	return sequencing(op, "not allowed here")
}

func (w *Writer) write(op, s string) error {
	if _, err := io.WriteString(w.part, s); err != nil {
		return w.fail(op, err)
	}
	return nil
}

// fail records a destination error; the writer refuses further work.
func (w *Writer) fail(op string, err error) error {
	w.err = &IOError{Op: op, Err: err}
	return w.err
}

func encodeCell(b *bytes.Buffer, ref string, v any, id StyleID) error {
	style := ""
	if id != DefaultStyle {
		style = ` s="` + strconv.Itoa(int(id)) + `"`
	}
	num, isNum, err := numeric(v)
	if err != nil {
		return err
	}
	switch {
	case isNum:
		fmt.Fprintf(b, `<c r="%s"%s><v>%s</v></c>`, ref, style, num)
	case isString(v):
		fmt.Fprintf(b, `<c r="%s"%s t="inlineStr"><is><t xml:space="preserve">`, ref, style)
		if err := xml.EscapeText(b, []byte(v.(string))); err != nil {
			return err
		}
		b.WriteString(`</t></is></c>`)
	case style != "":
		fmt.Fprintf(b, `<c r="%s"%s/>`, ref, style)
	}
	return nil
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// numeric returns the cell text of a numeric value. Non-finite floats and
// absent decimals produce an empty cell.
func numeric(v any) (string, bool, error) {
	switch n := v.(type) {
	case nil, string:
		return "", false, nil
	case decimal.Decimal:
		return n.String(), true, nil
	case decimal.NullDecimal:
		if !n.Valid {
			return "", false, nil
		}
		return n.Decimal.String(), true, nil
	case *decimal.Decimal:
		if n == nil {
			return "", false, nil
		}
		return n.String(), true, nil
	case int:
		return strconv.FormatInt(int64(n), 10), true, nil
	case int8:
		return strconv.FormatInt(int64(n), 10), true, nil
	case int16:
		return strconv.FormatInt(int64(n), 10), true, nil
	case int32:
		return strconv.FormatInt(int64(n), 10), true, nil
	case int64:
		return strconv.FormatInt(n, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(n), 10), true, nil
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true, nil
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true, nil
	case uint64:
		return strconv.FormatUint(n, 10), true, nil
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return formatFloat(n, 64)
	}
	return "", false, sequencing("append", "unsupported cell type %T", v)
}

func formatFloat(f float64, bits int) (string, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false, nil
	}
	return strconv.FormatFloat(f, 'g', -1, bits), true, nil
}

// cellRef returns the A1 reference of a zero-based column and one-based row.
func cellRef(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row)
}

// ColumnName returns the letters of a zero-based column index (0 -> A).
func ColumnName(col int) string {
	var buf [8]byte
	i := len(buf)
	for col >= 0 {
		i--
		buf[i] = byte('A' + col%26)
		col = col/26 - 1
	}
	return string(buf[i:])
}

// MaxSheetName is the longest sheet name spreadsheet applications accept.
const MaxSheetName = 31

const invalidSheetChars = `[]:*?/\`

func validSheetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty sheet name")
	case len([]rune(name)) > MaxSheetName:
		return fmt.Errorf("sheet name %q longer than %d characters", name, MaxSheetName)
	case strings.ContainsAny(name, invalidSheetChars):
		return fmt.Errorf("sheet name %q contains one of %s", name, invalidSheetChars)
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return fmt.Errorf("sheet name %q starts or ends with an apostrophe", name)
	}
	return nil
}

// SanitizeSheetName turns arbitrary text into a valid sheet name.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetChars, r) {
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > MaxSheetName {
		name = string(r[:MaxSheetName])
	}
	name = strings.Trim(strings.TrimSpace(name), "'")
	if name == "" {
		name = "Sheet"
	}
	return name
}
