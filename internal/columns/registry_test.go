package columns

import (
	"testing"

	"github.com/rpgo/simreport/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// threeYearRun: 100 -> 110 -> 90 (failed in the third year)
func threeYearRun() *domain.Run {
	return domain.NewRun(7, []domain.YearRecord{
		{Year: 2025, Age: 65, StartValue: d(100), EndValue: d(100), MarketReturn: d(0.05), Inflation: d(0.02), CumulativeInflation: d(1.02), Withdrawal: d(4), Income: d(6), TaxPaid: d(2), FeesPaid: d(0.5)},
		{Year: 2026, Age: 66, StartValue: d(100), EndValue: d(110), MarketReturn: d(0.12), Inflation: d(0.03), CumulativeInflation: d(1.0506), Withdrawal: d(4), Income: d(6), TaxPaid: d(2), FeesPaid: d(0.5)},
		{Year: 2027, Age: 67, StartValue: d(110), EndValue: d(90), MarketReturn: d(-0.15), Inflation: d(0.02), CumulativeInflation: d(1.0716), Withdrawal: d(8), Income: d(2), TaxPaid: d(1), FeesPaid: d(0.25), Failed: true},
	})
}

func TestDescriptorFor_TotalOverAllIDs(t *testing.T) {
	for _, id := range append(All(), Blank) {
		desc := DescriptorFor(id)
		assert.Equal(t, id, desc.ID)
		if id != Blank {
			assert.NotEmpty(t, desc.Name, "name for %s", id)
		}
		assert.Contains(t, []Align{AlignLeft, AlignCenter, AlignRight}, desc.Align)
		assert.Greater(t, desc.Width.Chars(), 0.0)
		assert.NotEmpty(t, desc.Format.Code())
	}
}

func TestDescriptorFor_Defaults(t *testing.T) {
	// Income has no name, alignment, width or format entry.
	desc := DescriptorFor(Income)
	assert.Equal(t, "Income", desc.Name)
	assert.Equal(t, AlignRight, desc.Align)
	assert.Equal(t, WidthNormal, desc.Width)
	assert.Equal(t, FormatCurrency0, desc.Format)

	unknown := DescriptorFor(ID(999))
	assert.Equal(t, "ID(999)", unknown.Name)
	assert.Equal(t, "", unknown.Tooltip)
	assert.Equal(t, DefaultFormat, unknown.Format)
}

func TestDescriptorFor_Registered(t *testing.T) {
	desc := DescriptorFor(Year)
	assert.Equal(t, AlignCenter, desc.Align)
	assert.Equal(t, WidthNarrow, desc.Width)
	assert.Equal(t, FormatInteger, desc.Format)
	assert.Equal(t, "Portfolio Value", DescriptorFor(Value).Name)
	assert.Equal(t, FormatPercent1, DescriptorFor(RealReturn).Format)
}

func TestParse(t *testing.T) {
	cases := map[string]ID{
		"Year":            Year,
		"year":            Year,
		"Value":           Value,
		"Portfolio Value": Value,
		" tax paid ":      TaxPaid,
		"":                Blank,
		"-":               Blank,
		"blank":           Blank,
	}
	for in, want := range cases {
		got, ok := Parse(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := Parse("Sharpe")
	assert.False(t, ok)
}

func TestValueAt(t *testing.T) {
	run := threeYearRun()

	v := ValueAt(Value, 1, run)
	require.True(t, v.Valid)
	assert.True(t, v.Decimal.Equal(d(110)))

	assert.False(t, ValueAt(Value, 5, run).Valid, "out of range index")
	assert.False(t, ValueAt(Blank, 0, run).Valid, "blank has no value")
	assert.False(t, ValueAt(YearsLasted, 0, run).Valid, "aggregate-only column")
	assert.False(t, ValueAt(ValueChange, 0, run).Valid, "no prior year")

	vc := ValueAt(ValueChange, 1, run)
	require.True(t, vc.Valid)
	assert.InDelta(t, 0.10, vc.Decimal.InexactFloat64(), 1e-9)

	tr := ValueAt(TaxRate, 0, run)
	require.True(t, tr.Valid)
	assert.InDelta(t, 0.2, tr.Decimal.InexactFloat64(), 1e-9)
}

func TestValueAt_ZeroDenominatorIsAbsent(t *testing.T) {
	run := domain.NewRun(0, []domain.YearRecord{{Year: 2025}})
	assert.False(t, ValueAt(WithdrawalRate, 0, run).Valid)
	assert.False(t, ValueAt(TaxRate, 0, run).Valid)
	assert.Equal(t, ColorNone, ColorAt(WithdrawalRate, 0, run))
}

func TestAggregateFor_UsesLastGoodYear(t *testing.T) {
	run := threeYearRun()

	v := AggregateFor(Value, run)
	require.True(t, v.Valid)
	assert.True(t, v.Decimal.Equal(d(110)), "ending value is the last good year, not the failed one")

	y := AggregateFor(Year, run)
	require.True(t, y.Valid)
	assert.Equal(t, int64(2026), y.Decimal.IntPart())

	lasted := AggregateFor(YearsLasted, run)
	require.True(t, lasted.Valid)
	assert.Equal(t, int64(2), lasted.Decimal.IntPart())
}

func TestAggregateFor_SumsExecutedYears(t *testing.T) {
	run := threeYearRun()
	fees := AggregateFor(Fees, run)
	require.True(t, fees.Valid)
	assert.True(t, fees.Decimal.Equal(d(1.25)))

	w := AggregateFor(Withdrawal, run)
	require.True(t, w.Valid)
	assert.True(t, w.Decimal.Equal(d(16)))
}

func TestAggregateFor_RecomputedRate(t *testing.T) {
	run := threeYearRun()
	ret := AggregateFor(Return, run)
	require.True(t, ret.Valid)
	// (1.05 * 1.12)^(1/2) - 1 over the two good years
	assert.InDelta(t, 0.0844, ret.Decimal.InexactFloat64(), 1e-4)

	tax := AggregateFor(TaxRate, run)
	require.True(t, tax.Valid)
	assert.InDelta(t, 5.0/30.0, tax.Decimal.InexactFloat64(), 1e-9)
}

func TestAggregateFor_NoGoodYear(t *testing.T) {
	run := domain.NewRun(2, []domain.YearRecord{{Year: 2025, StartValue: d(100), EndValue: d(0), Withdrawal: d(3), Failed: true}})

	assert.False(t, AggregateFor(Value, run).Valid)
	assert.False(t, AggregateFor(Year, run).Valid)
	assert.False(t, AggregateFor(Return, run).Valid)
	assert.False(t, AggregateFor(EffectiveReturn, run).Valid)
	assert.False(t, AggregateFor(ValueChange, run).Valid)

	w := AggregateFor(Withdrawal, run)
	require.True(t, w.Valid)
	assert.True(t, w.Decimal.Equal(d(3)))

	lasted := AggregateFor(YearsLasted, run)
	require.True(t, lasted.Valid)
	assert.True(t, lasted.Decimal.IsZero())
}

func TestAggregateFor_UndefinedColumns(t *testing.T) {
	run := threeYearRun()
	assert.False(t, AggregateFor(WithdrawalRate, run).Valid)
	assert.False(t, AggregateFor(Blank, run).Valid)
	assert.False(t, AggregateFor(Value, &domain.Run{}).Valid)
}

func TestColorAt(t *testing.T) {
	run := threeYearRun()

	assert.Equal(t, ColorNone, ColorAt(ValueChange, 0, run), "NaN ratio gives no colour")
	assert.Equal(t, ColorSuccess, ColorAt(ValueChange, 1, run))
	assert.Equal(t, ColorDanger, ColorAt(ValueChange, 2, run))

	assert.Equal(t, ColorSuccess, ColorAt(Return, 1, run))
	assert.Equal(t, ColorNone, ColorAt(Return, 0, run))
	assert.Equal(t, ColorDanger, ColorAt(Return, 2, run))

	assert.Equal(t, ColorDanger, ColorAt(Value, 2, run))
	assert.Equal(t, ColorDanger, ColorAt(Year, 2, run))
	assert.Equal(t, ColorNone, ColorAt(Age, 0, run))
	assert.Equal(t, ColorNone, ColorAt(Value, 9, run))
}

func TestColorAt_RealReturnBands(t *testing.T) {
	mk := func(ret, infl float64) *domain.Run {
		return domain.NewRun(0, []domain.YearRecord{{MarketReturn: d(ret), Inflation: d(infl)}})
	}
	assert.Equal(t, ColorMuted, ColorAt(RealReturn, 0, mk(0.03, 0.02)))
	assert.Equal(t, ColorSuccess, ColorAt(RealReturn, 0, mk(0.08, 0.02)))
	assert.Equal(t, ColorDanger, ColorAt(RealReturn, 0, mk(-0.02, 0.02)))
	// total loss leaves no defined growth rate
	assert.Equal(t, ColorNone, ColorAt(RealReturn, 0, mk(-1, 0.02)))
	assert.False(t, ValueAt(RealReturn, 0, mk(-1, 0.02)).Valid)
}

func TestColorAt_WithdrawalRate(t *testing.T) {
	mk := func(w float64) *domain.Run {
		return domain.NewRun(0, []domain.YearRecord{{StartValue: d(100), Withdrawal: d(w)}})
	}
	assert.Equal(t, ColorSuccess, ColorAt(WithdrawalRate, 0, mk(4)))
	assert.Equal(t, ColorWarning, ColorAt(WithdrawalRate, 0, mk(5)))
	assert.Equal(t, ColorDanger, ColorAt(WithdrawalRate, 0, mk(7)))
}

func TestSummaryColor(t *testing.T) {
	assert.Equal(t, ColorDanger, SummaryColor(Value, threeYearRun()))
	assert.Equal(t, ColorNone, SummaryColor(Fees, threeYearRun()))
	ok := domain.NewRun(0, []domain.YearRecord{{EndValue: d(1)}})
	assert.Equal(t, ColorNone, SummaryColor(Value, ok))
}

func TestFormatCodes(t *testing.T) {
	assert.Equal(t, "0", FormatInteger.Code())
	assert.Equal(t, "0.0%", FormatPercent1.Code())
	assert.True(t, FormatPercent0.IsPercent())
	assert.False(t, FormatCurrency1.IsPercent())
	assert.Equal(t, int32(1), FormatCurrency1.Decimals())
	assert.Equal(t, "", ColorNone.RGB())
	assert.Equal(t, "danger", ColorDanger.String())
}
