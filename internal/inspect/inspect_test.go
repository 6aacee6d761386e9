package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/simreport/internal/xlsx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWorkbook writes two sheets: a 3x3 summary with one red cell and an
// empty sheet.
func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	styles := xlsx.NewStyleCache()
	bold := styles.Register(xlsx.StyleDescriptor{Bold: true})
	red := styles.Register(xlsx.StyleDescriptor{NumberFormat: "0%", TextColor: "#dc3545"})

	w := xlsx.NewWriter(&buf)
	require.NoError(t, w.BeginSheet("Summary"))
	require.NoError(t, w.BeginSheetData())
	rows := [][]any{
		{"Year", nil, "Return"},
		{2025, nil, decimal.RequireFromString("-0.2")},
		{2026, nil, 0.05},
	}
	for i, row := range rows {
		require.NoError(t, w.BeginRow())
		for j, v := range row {
			id := xlsx.DefaultStyle
			switch {
			case i == 0:
				id = bold
			case i == 1 && j == 2:
				id = red
			}
			require.NoError(t, w.AppendStyled(v, id))
		}
		require.NoError(t, w.EndRow())
	}
	require.NoError(t, w.EndSheet())
	require.NoError(t, w.BeginSheet("Empty"))
	require.NoError(t, w.EndSheet())

	table, err := styles.Build()
	require.NoError(t, err)
	require.NoError(t, w.Save(table))
	return buf.Bytes()
}

func TestRead(t *testing.T) {
	data := buildWorkbook(t)
	wb, err := Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, []string{"Summary", "Empty"}, wb.SheetNames())
	assert.Equal(t, 3, wb.Styles)
	assert.Equal(t, map[string]int{"DC3545": 1}, wb.Colors)

	s, ok := wb.Sheet("Summary")
	require.True(t, ok)
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 3, s.Cols)
	assert.Equal(t, []string{"Year", "", "Return"}, s.Header)

	s, ok = wb.Sheet("Empty")
	require.True(t, ok)
	assert.Zero(t, s.Rows)
	assert.Zero(t, s.Cols)

	_, ok = wb.Sheet("Missing")
	assert.False(t, ok)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t), 0o644))

	wb, err := ReadFile(path)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, wb.WriteSummary(&out))
	assert.Contains(t, out.String(), "2 sheets, 3 cell formats")
	assert.Contains(t, out.String(), "#DC3545=1")
}

func TestRead_NotAWorkbook(t *testing.T) {
	data := []byte("plain text")
	_, err := Read(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
