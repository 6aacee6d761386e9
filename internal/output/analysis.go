package output

import (
	"github.com/rpgo/simreport/internal/domain"
	"github.com/rpgo/simreport/internal/selection"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Distribution summarizes the terminal outcomes of every run, independent
// of the runs selected for the report.
type Distribution struct {
	Runs        int
	Failed      int
	SuccessRate decimal.Decimal
	Worst       decimal.Decimal
	Median      decimal.Decimal
	Mean        decimal.Decimal
	Best        decimal.Decimal
}

// AnalyzeOutcomes computes the outcome distribution. ok is false when the
// result holds no runs.
func AnalyzeOutcomes(result *domain.SimulationResult) (Distribution, bool) {
	if result == nil {
		return Distribution{}, false
	}
	ranking, err := selection.Rank(result.Runs)
	if err != nil {
		return Distribution{}, false
	}
	runs := lo.Compact(result.Runs)
	d := Distribution{
		Runs:        len(runs),
		Failed:      lo.CountBy(runs, func(r *domain.Run) bool { return r.Failed() }),
		SuccessRate: result.SuccessRate(),
	}
	worst, _ := ranking.At(0)
	median, _ := ranking.At(0.5)
	best, _ := ranking.At(1)
	d.Worst, d.Median, d.Best = worst.TerminalOutcome, median.TerminalOutcome, best.TerminalOutcome

	outcomes := lo.Map(runs, func(r *domain.Run, _ int) decimal.Decimal { return r.TerminalOutcome })
	d.Mean = decimal.Avg(outcomes[0], outcomes[1:]...)
	return d, true
}
