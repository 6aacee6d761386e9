// Package selection picks simulation runs for reporting, either by
// percentile rank of their terminal outcome or by original run index.
package selection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rpgo/simreport/internal/domain"
	"github.com/samber/lo"
)

// ErrArgument is matched by every *ArgumentError.
var ErrArgument = errors.New("invalid argument")

// ArgumentError reports an empty run set, an out-of-range percentile or a
// missing run index.
type ArgumentError struct {
	Op     string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// Ranking is a run set sorted ascending by terminal outcome, ties broken by
// original index.
type Ranking struct {
	runs []*domain.Run
}

// Rank sorts a copy of runs once so several percentiles can be read from it.
func Rank(runs []*domain.Run) (Ranking, error) {
	runs = lo.Compact(runs)
	if len(runs) == 0 {
		return Ranking{}, &ArgumentError{Op: "rank", Reason: "no runs"}
	}
	sorted := append([]*domain.Run(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].TerminalOutcome.Cmp(sorted[j].TerminalOutcome); c != 0 {
			return c < 0
		}
		return sorted[i].Index < sorted[j].Index
	})
	return Ranking{runs: sorted}, nil
}

// Len returns the number of ranked runs.
func (r Ranking) Len() int { return len(r.runs) }

// At returns the run at percentile p using nearest rank round(p*(n-1)).
func (r Ranking) At(p float64) (*domain.Run, error) {
	if len(r.runs) == 0 {
		return nil, &ArgumentError{Op: "percentile", Reason: "no runs"}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, &ArgumentError{Op: "percentile", Reason: fmt.Sprintf("p=%v outside [0, 1]", p)}
	}
	n := len(r.runs)
	k := int(math.Round(p * float64(n-1)))
	k = lo.Clamp(k, 0, n-1)
	return r.runs[k], nil
}

// Percentile returns the run at percentile p of runs ranked by terminal
// outcome. p = 0 is the worst run and p = 1 the best.
func Percentile(runs []*domain.Run, p float64) (*domain.Run, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, &ArgumentError{Op: "percentile", Reason: fmt.Sprintf("p=%v outside [0, 1]", p)}
	}
	ranking, err := Rank(runs)
	if err != nil {
		return nil, err
	}
	return ranking.At(p)
}

// Percentiles selects one run per requested percentile, in request order.
// Duplicate selections are kept.
func Percentiles(runs []*domain.Run, ps []float64) ([]*domain.Run, error) {
	ranking, err := Rank(runs)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Run, 0, len(ps))
	for _, p := range ps {
		run, err := ranking.At(p)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

// ByIndex returns the run whose original simulation index is i. It does
// not depend on any ranking.
func ByIndex(runs []*domain.Run, i int) (*domain.Run, error) {
	run, ok := lo.Find(runs, func(r *domain.Run) bool { return r != nil && r.Index == i })
	if !ok {
		return nil, &ArgumentError{Op: "by index", Reason: fmt.Sprintf("no run with index %d", i)}
	}
	return run, nil
}

// Label formats a percentile for display, e.g. 0.5 -> "P50", 0.025 -> "P2.5".
func Label(p float64) string {
	return "P" + trimFloat(p*100)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
