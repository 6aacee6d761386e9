package columns

import (
	"math"

	"github.com/rpgo/simreport/internal/domain"
	"github.com/shopspring/decimal"
)

// Rates are computed in float64 and may be NaN when undefined. Callers must
// test with math.IsNaN before converting: decimal.NewFromFloat panics on NaN.

// annualize converts a compound growth factor over n years into a yearly rate.
func annualize(factor float64, n int) float64 {
	if n <= 0 || factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return math.NaN()
	}
	return math.Pow(factor, 1/float64(n)) - 1
}

// nominalFactor is the product of (1+return) over years[0..i].
func nominalFactor(years []domain.YearRecord, i int) float64 {
	f := 1.0
	for j := 0; j <= i && j < len(years); j++ {
		f *= 1 + years[j].MarketReturn.InexactFloat64()
	}
	return f
}

// realFactor is the inflation-adjusted growth factor over years[0..i].
func realFactor(years []domain.YearRecord, i int) float64 {
	f := 1.0
	for j := 0; j <= i && j < len(years); j++ {
		infl := 1 + years[j].Inflation.InexactFloat64()
		if infl <= 0 {
			return math.NaN()
		}
		f *= (1 + years[j].MarketReturn.InexactFloat64()) / infl
	}
	return f
}

func effectiveReturn(r *domain.Run, i int) float64 {
	return annualize(nominalFactor(r.Years, i), i+1)
}

func realReturn(r *domain.Run, i int) float64 {
	return annualize(realFactor(r.Years, i), i+1)
}

// ratio returns num/den, NaN when den is zero.
func ratio(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return math.NaN()
	}
	return num.Div(den).InexactFloat64()
}

// valueChange is the year-over-year change of the end value. The first year
// has no prior history and yields NaN.
func valueChange(r *domain.Run, i int) float64 {
	if i <= 0 || i >= len(r.Years) {
		return math.NaN()
	}
	return ratio(r.Years[i].EndValue, r.Years[i-1].EndValue) - 1
}

func withdrawalRate(y domain.YearRecord) float64 {
	return ratio(y.Withdrawal, y.StartValue)
}

func taxRate(y domain.YearRecord) float64 {
	return ratio(y.TaxPaid, y.Withdrawal.Add(y.Income))
}

// present converts a rate to an optional decimal, absent when NaN.
func present(f float64) decimal.NullDecimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}

func some(d decimal.Decimal) decimal.NullDecimal { return decimal.NewNullDecimal(d) }

func someInt(i int) decimal.NullDecimal { return some(decimal.NewFromInt(int64(i))) }

// sum adds a field over every executed year of a run, failed years included.
func sum(r *domain.Run, field func(domain.YearRecord) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, y := range r.Years {
		total = total.Add(field(y))
	}
	return total
}

// atLastGood evaluates f on the last good year, absent when there is none.
func atLastGood(r *domain.Run, f func(domain.YearRecord) decimal.NullDecimal) decimal.NullDecimal {
	y, ok := r.LastGoodYear()
	if !ok {
		return decimal.NullDecimal{}
	}
	return f(y)
}
