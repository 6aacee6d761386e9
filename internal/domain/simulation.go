package domain

import (
	"sync"

	"github.com/shopspring/decimal"
)

// YearRecord represents a single simulated year of one run
type YearRecord struct {
	Year int `json:"year" yaml:"year"`
	Age  int `json:"age" yaml:"age"`

	// Portfolio values (start and end of year)
	StartValue decimal.Decimal `json:"start_value" yaml:"start_value"`
	EndValue   decimal.Decimal `json:"end_value" yaml:"end_value"`

	// Market conditions applied to the year
	MarketReturn        decimal.Decimal `json:"market_return" yaml:"market_return"`
	Inflation           decimal.Decimal `json:"inflation" yaml:"inflation"`
	CumulativeInflation decimal.Decimal `json:"cumulative_inflation" yaml:"cumulative_inflation"` // price level factor at year end, 1.0 = start

	// Cash flows
	Withdrawal    decimal.Decimal `json:"withdrawal" yaml:"withdrawal"`
	LivingExpense decimal.Decimal `json:"living_expense" yaml:"living_expense"`
	Income        decimal.Decimal `json:"income" yaml:"income"` // pension / other non-portfolio income
	TaxPaid       decimal.Decimal `json:"tax_paid" yaml:"tax_paid"`
	FeesPaid      decimal.Decimal `json:"fees_paid" yaml:"fees_paid"`

	// Failed marks the run as ruined in this year (portfolio could not fund spending)
	Failed bool `json:"failed" yaml:"failed"`
}

// RealEndValue returns the end value deflated to start-of-simulation money.
func (y YearRecord) RealEndValue() decimal.Decimal {
	if y.CumulativeInflation.IsZero() {
		return y.EndValue
	}
	return y.EndValue.Div(y.CumulativeInflation)
}

// Run is one complete simulated trajectory
type Run struct {
	Index           int             `json:"index" yaml:"index"`
	Years           []YearRecord    `json:"years" yaml:"years"`
	TerminalOutcome decimal.Decimal `json:"terminal_outcome" yaml:"terminal_outcome"`

	lastGoodOnce sync.Once
	lastGoodIdx  int
}

// NewRun creates a run and derives the terminal outcome from its last good year.
func NewRun(index int, years []YearRecord) *Run {
	r := &Run{Index: index, Years: years}
	r.TerminalOutcome = r.DefaultOutcome()
	return r
}

// DefaultOutcome is the ending value of the last good year, zero if the run
// never had one.
func (r *Run) DefaultOutcome() decimal.Decimal {
	if y, ok := r.LastGoodYear(); ok {
		return y.EndValue
	}
	return decimal.Zero
}

// LastGoodIndex returns the index of the year before the run first failed,
// or the final index when it never failed. -1 means no good year exists.
func (r *Run) LastGoodIndex() int {
	r.lastGoodOnce.Do(func() {
		r.lastGoodIdx = len(r.Years) - 1
		for i, y := range r.Years {
			if y.Failed {
				r.lastGoodIdx = i - 1
				break
			}
		}
	})
	return r.lastGoodIdx
}

// LastGoodYear returns the final year before ruin. ok is false when the run
// failed in its first year (or has no years at all).
func (r *Run) LastGoodYear() (YearRecord, bool) {
	idx := r.LastGoodIndex()
	if idx < 0 {
		return YearRecord{}, false
	}
	return r.Years[idx], true
}

// GoodYears returns the years before the first failure.
func (r *Run) GoodYears() []YearRecord {
	return r.Years[:r.LastGoodIndex()+1]
}

// Failed reports whether the run entered a ruin state before its horizon.
func (r *Run) Failed() bool {
	return r.LastGoodIndex() < len(r.Years)-1
}

// Year returns the record at index i.
func (r *Run) Year(i int) (YearRecord, bool) {
	if i < 0 || i >= len(r.Years) {
		return YearRecord{}, false
	}
	return r.Years[i], true
}

// SimulationResult is the read-only output of the upstream simulation engine
type SimulationResult struct {
	Name    string `json:"name" yaml:"name"`
	Horizon int    `json:"horizon" yaml:"horizon"` // nominal years per run
	Runs    []*Run `json:"runs" yaml:"runs"`
}

// SuccessRate returns the fraction of runs that never failed.
func (sr *SimulationResult) SuccessRate() decimal.Decimal {
	if len(sr.Runs) == 0 {
		return decimal.Zero
	}
	ok := 0
	for _, r := range sr.Runs {
		if !r.Failed() {
			ok++
		}
	}
	return decimal.NewFromInt(int64(ok)).Div(decimal.NewFromInt(int64(len(sr.Runs))))
}
