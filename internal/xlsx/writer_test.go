package xlsx

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type countingWriter struct{ n int }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

func writeRow(t *testing.T, w *Writer, cells ...any) {
	t.Helper()
	require.NoError(t, w.BeginRow())
	for _, c := range cells {
		require.NoError(t, w.Append(c))
	}
	require.NoError(t, w.EndRow())
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cache := NewStyleCache()
	header := cache.Register(StyleDescriptor{Bold: true, HAlign: HAlignCenter})
	pct := cache.Register(StyleDescriptor{NumberFormat: "0%", TextColor: "DC3545"})
	money := cache.Register(StyleDescriptor{NumberFormat: `"$"#,##0`})

	w := NewWriter(&buf)
	w.SetProperties(Properties{Title: "Run <1> & more", Creator: "tests"})

	require.NoError(t, w.BeginSheet("Summary"))
	require.NoError(t, w.WriteColumns([]float64{8, 0, 16}))
	require.NoError(t, w.BeginSheetData())
	require.NoError(t, w.BeginRow())
	require.NoError(t, w.AppendStyled("Year", header))
	require.NoError(t, w.AppendStyled("", header))
	require.NoError(t, w.AppendStyled("Value", header))
	require.NoError(t, w.EndRow())
	require.NoError(t, w.BeginRow())
	require.NoError(t, w.Append(2025))
	require.NoError(t, w.AppendStyled(decimal.NewFromFloat(-0.05), pct))
	require.NoError(t, w.AppendStyled(decimal.NewNullDecimal(decimal.NewFromInt(110)), money))
	require.NoError(t, w.EndRow())
	require.NoError(t, w.EndSheet())

	require.NoError(t, w.BeginSheet("Run 7"))
	require.NoError(t, w.BeginSheetData())
	writeRow(t, w, "a", nil, 1.5)
	writeRow(t, w, decimal.NullDecimal{}, int64(3), "  padded <text> ")
	require.NoError(t, w.EndSheet())

	styles, err := cache.Build()
	require.NoError(t, err)
	require.NoError(t, w.Save(styles))
	assert.Equal(t, 2, w.SheetCount())

	f := openWorkbook(t, buf.Bytes())
	assert.Equal(t, []string{"Summary", "Run 7"}, f.GetSheetList())

	rows, err := f.GetRows("Summary", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Year", "", "Value"}, {"2025", "-0.05", "110"}}, rows)

	rows, err = f.GetRows("Run 7", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "", "1.5"}, {"", "3", "  padded <text> "}}, rows)

	width, err := f.GetColWidth("Summary", "C")
	require.NoError(t, err)
	assert.Equal(t, 16.0, width)

	idx, err := f.GetCellStyle("Summary", "A1")
	require.NoError(t, err)
	st, err := f.GetStyle(idx)
	require.NoError(t, err)
	require.NotNil(t, st.Font)
	assert.True(t, st.Font.Bold)
	require.NotNil(t, st.Alignment)
	assert.Equal(t, "center", st.Alignment.Horizontal)

	idx, err = f.GetCellStyle("Summary", "B2")
	require.NoError(t, err)
	st, err = f.GetStyle(idx)
	require.NoError(t, err)
	assert.Equal(t, 9, st.NumFmt)
	require.NotNil(t, st.Font)
	assert.Equal(t, "DC3545", st.Font.Color)
	assert.False(t, st.Font.Bold)

	idx, err = f.GetCellStyle("Summary", "C2")
	require.NoError(t, err)
	st, err = f.GetStyle(idx)
	require.NoError(t, err)
	require.NotNil(t, st.CustomNumFmt)
	assert.Equal(t, `"$"#,##0`, *st.CustomNumFmt)

	idx, err = f.GetCellStyle("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Run <1> & more", props.Title)
	assert.Equal(t, "tests", props.Creator)
}

func TestWriter_RowWidth(t *testing.T) {
	w := NewWriter(io.Discard)
	require.NoError(t, w.BeginSheet("S"))
	require.NoError(t, w.WriteColumns([]float64{10, 10}))
	require.NoError(t, w.BeginSheetData())

	require.NoError(t, w.BeginRow())
	require.NoError(t, w.Append(1))
	err := w.EndRow()
	assert.True(t, errors.Is(err, ErrSequencing), "short row")

	require.NoError(t, w.Append(2))
	err = w.Append(3)
	assert.True(t, errors.Is(err, ErrSequencing), "overflow")
	require.NoError(t, w.EndRow())
}

func TestWriter_FirstRowFixesWidth(t *testing.T) {
	w := NewWriter(io.Discard)
	require.NoError(t, w.BeginSheet("S"))
	require.NoError(t, w.BeginSheetData())
	writeRow(t, w, 1, 2, 3)

	require.NoError(t, w.BeginRow())
	require.NoError(t, w.Append(1))
	assert.True(t, errors.Is(w.EndRow(), ErrSequencing))
}

func TestWriter_Sequencing(t *testing.T) {
	tests := []struct {
		name string
		run  func(w *Writer) error
	}{
		{"append without row", func(w *Writer) error { return w.Append(1) }},
		{"row without sheet", func(w *Writer) error { return w.BeginRow() }},
		{"save without sheets", func(w *Writer) error { return w.Save([]StyleDescriptor{{}}) }},
		{"end sheet without sheet", func(w *Writer) error { return w.EndSheet() }},
		{"row before sheet data", func(w *Writer) error {
			_ = w.BeginSheet("S")
			return w.BeginRow()
		}},
		{"columns after sheet data", func(w *Writer) error {
			_ = w.BeginSheet("S")
			_ = w.BeginSheetData()
			return w.WriteColumns([]float64{1})
		}},
		{"save with open sheet", func(w *Writer) error {
			_ = w.BeginSheet("S")
			_ = w.BeginSheetData()
			return w.Save([]StyleDescriptor{{}})
		}},
		{"end sheet with open row", func(w *Writer) error {
			_ = w.BeginSheet("S")
			_ = w.BeginSheetData()
			_ = w.BeginRow()
			return w.EndSheet()
		}},
		{"duplicate sheet", func(w *Writer) error {
			_ = w.BeginSheet("Runs")
			_ = w.EndSheet()
			return w.BeginSheet("runs")
		}},
		{"invalid sheet name", func(w *Writer) error { return w.BeginSheet("a/b") }},
		{"long sheet name", func(w *Writer) error { return w.BeginSheet(strings.Repeat("x", 32)) }},
		{"unsupported type", func(w *Writer) error {
			_ = w.BeginSheet("S")
			_ = w.BeginSheetData()
			_ = w.BeginRow()
			return w.Append(struct{}{})
		}},
		{"style outside table", func(w *Writer) error {
			_ = w.BeginSheet("S")
			_ = w.BeginSheetData()
			_ = w.BeginRow()
			_ = w.AppendStyled(1, 5)
			_ = w.EndRow()
			_ = w.EndSheet()
			return w.Save([]StyleDescriptor{{}, {Bold: true}})
		}},
		{"write after save", func(w *Writer) error {
			_ = w.BeginSheet("S")
			_ = w.EndSheet()
			_ = w.Save([]StyleDescriptor{{}})
			return w.BeginSheet("T")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(NewWriter(io.Discard))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSequencing), err.Error())
			assert.False(t, errors.Is(err, ErrIO))
		})
	}
}

func TestWriter_IOErrorIsSticky(t *testing.T) {
	w := NewWriter(failingWriter{})
	require.NoError(t, w.BeginSheet("S"))
	require.NoError(t, w.BeginSheetData())
	writeRow(t, w, "x")
	require.NoError(t, w.EndSheet())

	err := w.Save([]StyleDescriptor{{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Contains(t, ioErr.Err.Error(), "disk full")

	assert.True(t, errors.Is(w.BeginSheet("T"), ErrIO))
}

func TestWriter_StreamsBeforeSave(t *testing.T) {
	var cw countingWriter
	w := NewWriter(&cw)
	require.NoError(t, w.BeginSheet("Big"))
	require.NoError(t, w.BeginSheetData())
	for i := 0; i < 20000; i++ {
		writeRow(t, w, i, float64(i)*1.37, "row text that varies "+decimal.NewFromInt(int64(i)).String())
	}
	require.NoError(t, w.EndSheet())
	assert.Greater(t, cw.n, 0, "rows reach the destination before Save")

	require.NoError(t, w.Save([]StyleDescriptor{{}}))
}

func TestWriter_EmptySheet(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.BeginSheet("Empty"))
	require.NoError(t, w.EndSheet())
	require.NoError(t, w.Save(defaultStyles(t)))

	f := openWorkbook(t, buf.Bytes())
	rows, err := f.GetRows("Empty")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func defaultStyles(t *testing.T) []StyleDescriptor {
	t.Helper()
	styles, err := NewStyleCache().Build()
	require.NoError(t, err)
	return styles
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", ColumnName(0))
	assert.Equal(t, "Z", ColumnName(25))
	assert.Equal(t, "AA", ColumnName(26))
	assert.Equal(t, "ZZ", ColumnName(701))
	assert.Equal(t, "AAA", ColumnName(702))
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "P50 _ run 3", SanitizeSheetName("P50 / run 3"))
	assert.Equal(t, "Sheet", SanitizeSheetName("''"))
	assert.Len(t, []rune(SanitizeSheetName(strings.Repeat("é", 40))), MaxSheetName)
	assert.NoError(t, validSheetName(SanitizeSheetName("[x]:*?")))
}
