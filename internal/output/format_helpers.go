package output

import (
	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/report"
	fmtdec "github.com/rpgo/simreport/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Success rate thresholds for the colour of the headline figure.
var (
	rateGood = decimal.RequireFromString("0.9")
	rateFair = decimal.RequireFromString("0.75")
)

// FormatSuccessRate renders a success rate fraction as a percentage with
// one decimal. Kept here so every text formatter prints it the same way.
func FormatSuccessRate(rate decimal.Decimal) string { return fmtdec.Percent(rate, 1) }

// money renders an amount as whole dollars.
func money(v decimal.Decimal) string { return fmtdec.NewMoneyFromDecimal(v).Format(0) }

// RateColor classifies a success rate fraction.
func RateColor(rate decimal.Decimal) columns.Color {
	switch {
	case rate.GreaterThanOrEqual(rateGood):
		return columns.ColorSuccess
	case rate.GreaterThanOrEqual(rateFair):
		return columns.ColorWarning
	default:
		return columns.ColorDanger
	}
}

// cellClass returns the CSS classes of a rendered cell: its alignment and,
// when set, its colour hint.
func cellClass(c report.Cell) string {
	d := columns.DescriptorFor(c.Column)
	if c.Column.IsBlank() {
		return "blank"
	}
	if c.Color == columns.ColorNone {
		return d.Align.String()
	}
	return d.Align.String() + " " + c.Color.String()
}

// textRow renders a row of cells with report.Text.
func textRow(cells []report.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = report.Text(c)
	}
	return out
}
