package columns

import (
	"math"

	"github.com/rpgo/simreport/internal/domain"
	"github.com/shopspring/decimal"
)

// Descriptor is the read-only presentation metadata of a column.
type Descriptor struct {
	ID      ID
	Name    string
	Tooltip string
	Align   Align
	Width   Width
	Format  Format
}

// Defaults applied when a table has no entry for an ID.
const (
	DefaultAlign  = AlignRight
	DefaultWidth  = WidthNormal
	DefaultFormat = FormatCurrency0
)

type (
	valueFunc     func(y domain.YearRecord, i int, r *domain.Run) decimal.NullDecimal
	aggregateFunc func(r *domain.Run) decimal.NullDecimal
	colorFunc     func(y domain.YearRecord, i int, r *domain.Run) Color
)

// Lookup tables. Each lists only the IDs that differ from the defaults; they
// are never written after package initialization.
var (
	names = map[ID]string{
		Blank:           "",
		Value:           "Portfolio Value",
		RealValue:       "Real Value",
		ValueChange:     "Value Change",
		EffectiveReturn: "Effective Return",
		RealReturn:      "Real Return",
		WithdrawalRate:  "Withdrawal Rate",
		LivingExpense:   "Living Expense",
		TaxPaid:         "Tax Paid",
		TaxRate:         "Tax Rate",
		RunIndex:        "Run #",
		YearsLasted:     "Years Lasted",
		Outcome:         "Terminal Outcome",
	}

	tooltips = map[ID]string{
		Value:           "Portfolio value at the end of the year",
		RealValue:       "End value in start-of-simulation money",
		ValueChange:     "Change in end value versus the previous year",
		Return:          "Nominal market return applied this year",
		EffectiveReturn: "Annualized nominal return since the start of the run",
		RealReturn:      "Annualized inflation-adjusted return since the start of the run",
		Inflation:       "Inflation rate applied this year",
		Withdrawal:      "Amount drawn from the portfolio",
		WithdrawalRate:  "Withdrawal as a share of the start-of-year value",
		LivingExpense:   "Spending need for the year",
		Income:          "Non-portfolio income such as pensions",
		TaxPaid:         "Tax due on withdrawals and income",
		TaxRate:         "Tax paid as a share of withdrawals plus income",
		Fees:            "Fund and advisory fees paid",
		YearsLasted:     "Years the run funded spending before ruin",
		Outcome:         "Metric used to rank runs for percentile selection",
	}

	aligns = map[ID]Align{
		Blank:    AlignCenter,
		Year:     AlignCenter,
		Age:      AlignCenter,
		RunIndex: AlignCenter,
	}

	widths = map[ID]Width{
		Blank:           WidthNarrow,
		Year:            WidthNarrow,
		Age:             WidthNarrow,
		RunIndex:        WidthNarrow,
		Value:           WidthWide,
		RealValue:       WidthWide,
		EffectiveReturn: WidthWide,
		WithdrawalRate:  WidthWide,
		LivingExpense:   WidthWide,
		Outcome:         WidthExtraWide,
	}

	formats = map[ID]Format{
		Year:            FormatInteger,
		Age:             FormatInteger,
		RunIndex:        FormatInteger,
		YearsLasted:     FormatInteger,
		ValueChange:     FormatPercent1,
		Return:          FormatPercent1,
		EffectiveReturn: FormatPercent1,
		RealReturn:      FormatPercent1,
		Inflation:       FormatPercent1,
		WithdrawalRate:  FormatPercent1,
		TaxRate:         FormatPercent0,
		Fees:            FormatCurrency1,
	}

	values = map[ID]valueFunc{
		Year:            func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return someInt(y.Year) },
		Age:             func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return someInt(y.Age) },
		Value:           func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.EndValue) },
		RealValue:       func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.RealEndValue()) },
		ValueChange:     func(_ domain.YearRecord, i int, r *domain.Run) decimal.NullDecimal { return present(valueChange(r, i)) },
		Return:          func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.MarketReturn) },
		EffectiveReturn: func(_ domain.YearRecord, i int, r *domain.Run) decimal.NullDecimal { return present(effectiveReturn(r, i)) },
		RealReturn:      func(_ domain.YearRecord, i int, r *domain.Run) decimal.NullDecimal { return present(realReturn(r, i)) },
		Inflation:       func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.Inflation) },
		Withdrawal:      func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.Withdrawal) },
		WithdrawalRate:  func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return present(withdrawalRate(y)) },
		LivingExpense:   func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.LivingExpense) },
		Income:          func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.Income) },
		TaxPaid:         func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.TaxPaid) },
		TaxRate:         func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return present(taxRate(y)) },
		Fees:            func(y domain.YearRecord, _ int, _ *domain.Run) decimal.NullDecimal { return some(y.FeesPaid) },
	}

	aggregates = map[ID]aggregateFunc{
		Year: func(r *domain.Run) decimal.NullDecimal {
			return atLastGood(r, func(y domain.YearRecord) decimal.NullDecimal { return someInt(y.Year) })
		},
		Age: func(r *domain.Run) decimal.NullDecimal {
			return atLastGood(r, func(y domain.YearRecord) decimal.NullDecimal { return someInt(y.Age) })
		},
		Value: func(r *domain.Run) decimal.NullDecimal {
			return atLastGood(r, func(y domain.YearRecord) decimal.NullDecimal { return some(y.EndValue) })
		},
		RealValue: func(r *domain.Run) decimal.NullDecimal {
			return atLastGood(r, func(y domain.YearRecord) decimal.NullDecimal { return some(y.RealEndValue()) })
		},
		ValueChange: func(r *domain.Run) decimal.NullDecimal {
			last, ok := r.LastGoodYear()
			if !ok {
				return decimal.NullDecimal{}
			}
			return present(ratio(last.EndValue, r.Years[0].StartValue) - 1)
		},
		Return: func(r *domain.Run) decimal.NullDecimal {
			n := r.LastGoodIndex() + 1
			return present(annualize(nominalFactor(r.Years, n-1), n))
		},
		EffectiveReturn: func(r *domain.Run) decimal.NullDecimal {
			return present(effectiveReturn(r, r.LastGoodIndex()))
		},
		RealReturn: func(r *domain.Run) decimal.NullDecimal {
			return present(realReturn(r, r.LastGoodIndex()))
		},
		Inflation: func(r *domain.Run) decimal.NullDecimal {
			good := r.GoodYears()
			f := 1.0
			for _, y := range good {
				f *= 1 + y.Inflation.InexactFloat64()
			}
			return present(annualize(f, len(good)))
		},
		Withdrawal: func(r *domain.Run) decimal.NullDecimal {
			return some(sum(r, func(y domain.YearRecord) decimal.Decimal { return y.Withdrawal }))
		},
		LivingExpense: func(r *domain.Run) decimal.NullDecimal {
			return some(sum(r, func(y domain.YearRecord) decimal.Decimal { return y.LivingExpense }))
		},
		Income: func(r *domain.Run) decimal.NullDecimal {
			return some(sum(r, func(y domain.YearRecord) decimal.Decimal { return y.Income }))
		},
		TaxPaid: func(r *domain.Run) decimal.NullDecimal {
			return some(sum(r, func(y domain.YearRecord) decimal.Decimal { return y.TaxPaid }))
		},
		TaxRate: func(r *domain.Run) decimal.NullDecimal {
			tax := sum(r, func(y domain.YearRecord) decimal.Decimal { return y.TaxPaid })
			gross := sum(r, func(y domain.YearRecord) decimal.Decimal { return y.Withdrawal.Add(y.Income) })
			return present(ratio(tax, gross))
		},
		Fees: func(r *domain.Run) decimal.NullDecimal {
			return some(sum(r, func(y domain.YearRecord) decimal.Decimal { return y.FeesPaid }))
		},
		RunIndex:    func(r *domain.Run) decimal.NullDecimal { return someInt(r.Index) },
		YearsLasted: func(r *domain.Run) decimal.NullDecimal { return someInt(len(r.GoodYears())) },
		Outcome:     func(r *domain.Run) decimal.NullDecimal { return some(r.TerminalOutcome) },
	}

	colors = map[ID]colorFunc{
		Year: func(y domain.YearRecord, _ int, _ *domain.Run) Color {
			if y.Failed {
				return ColorDanger
			}
			return ColorNone
		},
		Value: func(y domain.YearRecord, _ int, r *domain.Run) Color {
			switch {
			case y.Failed:
				return ColorDanger
			case y.EndValue.LessThan(r.Years[0].StartValue):
				return ColorWarning
			}
			return ColorNone
		},
		RealValue: func(domain.YearRecord, int, *domain.Run) Color { return ColorMuted },
		ValueChange: func(_ domain.YearRecord, i int, r *domain.Run) Color {
			return signColor(valueChange(r, i), 0, 0)
		},
		Return: func(y domain.YearRecord, _ int, _ *domain.Run) Color {
			return signColor(y.MarketReturn.InexactFloat64(), 0.10, 0)
		},
		EffectiveReturn: func(_ domain.YearRecord, i int, r *domain.Run) Color {
			return signColor(effectiveReturn(r, i), 0.05, 0)
		},
		RealReturn: func(_ domain.YearRecord, i int, r *domain.Run) Color {
			rate := realReturn(r, i)
			switch {
			case math.IsNaN(rate):
				return ColorNone
			case math.Abs(rate) <= realReturnBand:
				return ColorMuted
			case rate > 0:
				return ColorSuccess
			}
			return ColorDanger
		},
		Inflation: func(y domain.YearRecord, _ int, _ *domain.Run) Color {
			if y.Inflation.GreaterThan(highInflation) {
				return ColorWarning
			}
			return ColorNone
		},
		WithdrawalRate: func(y domain.YearRecord, _ int, _ *domain.Run) Color {
			rate := withdrawalRate(y)
			switch {
			case math.IsNaN(rate):
				return ColorNone
			case rate > 0.06:
				return ColorDanger
			case rate > 0.045:
				return ColorWarning
			}
			return ColorSuccess
		},
		Income: func(y domain.YearRecord, _ int, _ *domain.Run) Color {
			if y.Income.IsPositive() {
				return ColorPrimary
			}
			return ColorNone
		},
		TaxRate: func(y domain.YearRecord, _ int, _ *domain.Run) Color {
			rate := taxRate(y)
			if !math.IsNaN(rate) && rate > 0.30 {
				return ColorWarning
			}
			return ColorNone
		},
		Fees: func(domain.YearRecord, int, *domain.Run) Color { return ColorMuted },
	}
)

const realReturnBand = 0.015

var highInflation = decimal.NewFromFloat(0.05)

// signColor maps a rate to success at or above good, danger below bad.
func signColor(rate, good, bad float64) Color {
	switch {
	case math.IsNaN(rate):
		return ColorNone
	case rate < bad:
		return ColorDanger
	case good > bad && rate >= good, good == bad && rate > good:
		return ColorSuccess
	}
	return ColorNone
}

// DescriptorFor returns the complete descriptor for id; never fails.
func DescriptorFor(id ID) Descriptor {
	d := Descriptor{ID: id, Name: id.String(), Align: DefaultAlign, Width: DefaultWidth, Format: DefaultFormat}
	if n, ok := names[id]; ok {
		d.Name = n
	}
	d.Tooltip = tooltips[id]
	if a, ok := aligns[id]; ok {
		d.Align = a
	}
	if w, ok := widths[id]; ok {
		d.Width = w
	}
	if f, ok := formats[id]; ok {
		d.Format = f
	}
	return d
}

// ValueAt returns the per-year value of id for run.Years[year]. Absent means
// the column does not apply there and renders as an empty cell.
func ValueAt(id ID, year int, run *domain.Run) decimal.NullDecimal {
	fn, ok := values[id]
	if !ok || run == nil {
		return decimal.NullDecimal{}
	}
	y, ok := run.Year(year)
	if !ok {
		return decimal.NullDecimal{}
	}
	return fn(y, year, run)
}

// AggregateFor returns the whole-run summary of id.
func AggregateFor(id ID, run *domain.Run) decimal.NullDecimal {
	fn, ok := aggregates[id]
	if !ok || run == nil || len(run.Years) == 0 {
		return decimal.NullDecimal{}
	}
	return fn(run)
}

// ColorAt returns the presentation hint of id for run.Years[year].
func ColorAt(id ID, year int, run *domain.Run) Color {
	fn, ok := colors[id]
	if !ok || run == nil {
		return ColorNone
	}
	y, ok := run.Year(year)
	if !ok {
		return ColorNone
	}
	return fn(y, year, run)
}

// SummaryColor returns the hint for an aggregate cell: terminal columns of a
// run that failed before its horizon are flagged.
func SummaryColor(id ID, run *domain.Run) Color {
	if run == nil || !run.Failed() {
		return ColorNone
	}
	switch id {
	case Year, Age, Value, RealValue, YearsLasted, Outcome:
		return ColorDanger
	}
	return ColorNone
}

// HasValue reports whether id has a per-year definition.
func HasValue(id ID) bool {
	_, ok := values[id]
	return ok
}

// HasAggregate reports whether id has a whole-run definition.
func HasAggregate(id ID) bool {
	_, ok := aggregates[id]
	return ok
}
