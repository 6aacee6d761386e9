// Package report turns a simulation result and a report request into the
// header, per-year and summary cells every renderer consumes.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/domain"
	"github.com/rpgo/simreport/internal/selection"
	"github.com/rpgo/simreport/internal/views"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DefaultPercentiles are selected when a request names no runs at all.
var DefaultPercentiles = []float64{0.1, 0.5, 0.9}

// Request describes what to report. Inputs are validated by Build.
type Request struct {
	View        string    `yaml:"view" json:"view"`
	Percentiles []float64 `yaml:"percentiles" json:"percentiles"`
	RunIndices  []int     `yaml:"runs" json:"runs"`
	Title       string    `yaml:"title" json:"title"`
}

// Selection is one run chosen for the report.
type Selection struct {
	Label      string
	Percentile float64 // meaningful only when ByRank is set
	ByRank     bool
	Run        *domain.Run
}

// Report is the assembled, immutable report model.
type Report struct {
	ID         string
	Title      string
	View       string
	Generated  time.Time
	Columns    []columns.Descriptor
	Selections []Selection
	Result     *domain.SimulationResult
}

// Cell is one rendered position. Text is set for header cells only; blank
// spacer columns are always empty.
type Cell struct {
	Column columns.ID
	Value  decimal.NullDecimal
	Text   string
	Color  columns.Color
}

// Empty reports whether the cell renders as an empty cell.
func (c Cell) Empty() bool { return c.Text == "" && !c.Value.Valid }

// Build resolves the view and selects runs. Percentile selections come
// first in request order, then explicit run indices. Duplicates are kept.
func Build(result *domain.SimulationResult, req Request, resolver *views.Resolver) (*Report, error) {
	if result == nil {
		return nil, &selection.ArgumentError{Op: "build report", Reason: "no simulation result"}
	}
	view := req.View
	if view == "" {
		view = views.DefaultView
	}
	ids, err := resolver.Resolve(view)
	if err != nil {
		return nil, err
	}

	ps := req.Percentiles
	if len(ps) == 0 && len(req.RunIndices) == 0 {
		ps = DefaultPercentiles
	}
	var sels []Selection
	if len(ps) > 0 {
		runs, err := selection.Percentiles(result.Runs, ps)
		if err != nil {
			return nil, err
		}
		for i, run := range runs {
			sels = append(sels, Selection{Label: selection.Label(ps[i]), Percentile: ps[i], ByRank: true, Run: run})
		}
	}
	for _, idx := range req.RunIndices {
		run, err := selection.ByIndex(result.Runs, idx)
		if err != nil {
			return nil, err
		}
		sels = append(sels, Selection{Label: fmt.Sprintf("Run %d", idx), Run: run})
	}

	title := req.Title
	if title == "" {
		title = result.Name
	}
	return &Report{
		ID:         uuid.NewString(),
		Title:      title,
		View:       view,
		Generated:  time.Now(),
		Columns:    lo.Map(ids, func(id columns.ID, _ int) columns.Descriptor { return columns.DescriptorFor(id) }),
		Selections: sels,
		Result:     result,
	}, nil
}

// Header returns one cell per column holding its display name.
func (r *Report) Header() []Cell {
	return lo.Map(r.Columns, func(d columns.Descriptor, _ int) Cell {
		return Cell{Column: d.ID, Text: d.Name}
	})
}

// YearRows returns one row per executed year of the selected run.
func (r *Report) YearRows(sel Selection) [][]Cell {
	if sel.Run == nil {
		return nil
	}
	rows := make([][]Cell, len(sel.Run.Years))
	for i := range sel.Run.Years {
		row := make([]Cell, len(r.Columns))
		for j, d := range r.Columns {
			row[j] = Cell{Column: d.ID}
			if d.ID.IsBlank() {
				continue
			}
			row[j].Value = columns.ValueAt(d.ID, i, sel.Run)
			row[j].Color = columns.ColorAt(d.ID, i, sel.Run)
		}
		rows[i] = row
	}
	return rows
}

// SummaryRow returns the whole-run aggregate of every column.
func (r *Report) SummaryRow(sel Selection) []Cell {
	row := make([]Cell, len(r.Columns))
	for j, d := range r.Columns {
		row[j] = Cell{Column: d.ID}
		if d.ID.IsBlank() || sel.Run == nil {
			continue
		}
		row[j].Value = columns.AggregateFor(d.ID, sel.Run)
		row[j].Color = columns.SummaryColor(d.ID, sel.Run)
	}
	return row
}

// SuccessRate is the share of all runs that never failed.
func (r *Report) SuccessRate() decimal.Decimal {
	if r.Result == nil {
		return decimal.Zero
	}
	return r.Result.SuccessRate()
}
