package report

import (
	"github.com/rpgo/simreport/internal/columns"
	fmtdec "github.com/rpgo/simreport/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Text renders a cell for text outputs (html, pdf, console, csv) using the
// column's number format. Empty cells render as "".
func Text(c Cell) string {
	if c.Text != "" || !c.Value.Valid {
		return c.Text
	}
	return FormatValue(columns.DescriptorFor(c.Column).Format, c.Value.Decimal)
}

// FormatValue renders v in the given format class.
func FormatValue(f columns.Format, v decimal.Decimal) string {
	switch {
	case f == columns.FormatInteger:
		return fmtdec.Integer(v)
	case f.IsPercent():
		return fmtdec.Percent(v, f.Decimals())
	}
	return fmtdec.NewMoneyFromDecimal(v).Format(f.Decimals())
}
