//go:build unit

package output

import (
	"testing"

	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/report"
	"github.com/shopspring/decimal"
)

func TestFormatSuccessRate(t *testing.T) {
	v := decimal.RequireFromString("0.8125")
	got := FormatSuccessRate(v)
	want := "81.3%"
	if got != want {
		t.Errorf("FormatSuccessRate(%v) = %q, want %q", v, got, want)
	}
}

func TestRateColor(t *testing.T) {
	cases := map[string]columns.Color{
		"1":    columns.ColorSuccess,
		"0.9":  columns.ColorSuccess,
		"0.8":  columns.ColorWarning,
		"0.75": columns.ColorWarning,
		"0.5":  columns.ColorDanger,
	}
	for in, want := range cases {
		if got := RateColor(decimal.RequireFromString(in)); got != want {
			t.Errorf("RateColor(%s) = %v, want %v", in, got, want)
		}
	}
}

func TestCellClass(t *testing.T) {
	if got := cellClass(report.Cell{Column: columns.Blank}); got != "blank" {
		t.Errorf("blank cell class = %q", got)
	}
	if got := cellClass(report.Cell{Column: columns.Year}); got != "center" {
		t.Errorf("year cell class = %q", got)
	}
	if got := cellClass(report.Cell{Column: columns.Value, Color: columns.ColorDanger}); got != "right danger" {
		t.Errorf("value cell class = %q", got)
	}
}
