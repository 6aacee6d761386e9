package report

import (
	"errors"
	"testing"

	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/domain"
	"github.com/rpgo/simreport/internal/selection"
	"github.com/rpgo/simreport/internal/views"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func oneRunResult() *domain.SimulationResult {
	run := domain.NewRun(0, []domain.YearRecord{
		{Year: 2025, StartValue: d(1000), EndValue: d(1050)},
		{Year: 2026, StartValue: d(1050), EndValue: d(1100)},
		{Year: 2027, StartValue: d(1100), EndValue: d(1150)},
	})
	return &domain.SimulationResult{Name: "single", Horizon: 3, Runs: []*domain.Run{run}}
}

func spacedResolver() *views.Resolver {
	r := views.Default()
	r.Register("spaced", []columns.ID{columns.Year, columns.Blank, columns.Value})
	return r
}

func TestBuild_SpacerViewEndToEnd(t *testing.T) {
	rep, err := Build(oneRunResult(), Request{View: "spaced", Percentiles: []float64{0.5}}, spacedResolver())
	require.NoError(t, err)
	require.Len(t, rep.Selections, 1)

	header := rep.Header()
	rows := rep.YearRows(rep.Selections[0])
	grid := append([][]Cell{header}, rows...)

	require.Len(t, grid, 4)
	for _, row := range grid {
		require.Len(t, row, 3)
		assert.True(t, row[1].Empty(), "spacer column is empty")
		assert.Equal(t, columns.ColorNone, row[1].Color)
	}
	assert.Equal(t, "Year", header[0].Text)
	assert.Equal(t, "Portfolio Value", header[2].Text)
	assert.Equal(t, int64(2026), rows[1][0].Value.Decimal.IntPart())
	assert.True(t, rows[2][2].Value.Decimal.Equal(d(1150)))
}

func TestBuild_UnknownView(t *testing.T) {
	_, err := Build(oneRunResult(), Request{View: "nope"}, views.Default())
	assert.True(t, errors.Is(err, views.ErrConfiguration))
}

func TestBuild_SelectionOrder(t *testing.T) {
	var runs []*domain.Run
	for i, v := range []float64{30, 10, 50, 20, 40} {
		runs = append(runs, domain.NewRun(i, []domain.YearRecord{{Year: 2025, EndValue: d(v)}}))
	}
	result := &domain.SimulationResult{Runs: runs}

	rep, err := Build(result, Request{Percentiles: []float64{0, 0.5, 1, 0.5}, RunIndices: []int{3}}, views.Default())
	require.NoError(t, err)
	require.Len(t, rep.Selections, 5)

	labels := []string{}
	outcomes := []int64{}
	for _, s := range rep.Selections {
		labels = append(labels, s.Label)
		outcomes = append(outcomes, s.Run.TerminalOutcome.IntPart())
	}
	assert.Equal(t, []string{"P0", "P50", "P100", "P50", "Run 3"}, labels)
	assert.Equal(t, []int64{10, 30, 50, 30, 20}, outcomes)
	assert.False(t, rep.Selections[4].ByRank)
	assert.Equal(t, views.DefaultView, rep.View)
	assert.NotEmpty(t, rep.ID)
}

func TestBuild_DefaultPercentiles(t *testing.T) {
	rep, err := Build(oneRunResult(), Request{}, views.Default())
	require.NoError(t, err)
	assert.Len(t, rep.Selections, len(DefaultPercentiles))
	assert.Equal(t, "single", rep.Title)
}

func TestBuild_ArgumentErrors(t *testing.T) {
	_, err := Build(oneRunResult(), Request{Percentiles: []float64{1.5}}, views.Default())
	assert.True(t, errors.Is(err, selection.ErrArgument))

	_, err = Build(oneRunResult(), Request{RunIndices: []int{9}}, views.Default())
	assert.True(t, errors.Is(err, selection.ErrArgument))

	_, err = Build(&domain.SimulationResult{}, Request{}, views.Default())
	assert.True(t, errors.Is(err, selection.ErrArgument))

	_, err = Build(nil, Request{}, views.Default())
	assert.True(t, errors.Is(err, selection.ErrArgument))
}

func TestSummaryRow_FailedRun(t *testing.T) {
	run := domain.NewRun(4, []domain.YearRecord{
		{Year: 2025, StartValue: d(100), EndValue: d(60), Withdrawal: d(40)},
		{Year: 2026, StartValue: d(60), EndValue: d(0), Withdrawal: d(60), Failed: true},
	})
	result := &domain.SimulationResult{Runs: []*domain.Run{run}}
	r := views.New()
	r.Register("v", []columns.ID{columns.Year, columns.Blank, columns.Value, columns.Withdrawal, columns.YearsLasted})

	rep, err := Build(result, Request{View: "v", RunIndices: []int{4}}, r)
	require.NoError(t, err)

	row := rep.SummaryRow(rep.Selections[0])
	require.Len(t, row, 5)
	assert.Equal(t, int64(2025), row[0].Value.Decimal.IntPart())
	assert.True(t, row[1].Empty())
	assert.True(t, row[2].Value.Decimal.Equal(d(60)))
	assert.Equal(t, columns.ColorDanger, row[2].Color)
	assert.True(t, row[3].Value.Decimal.Equal(d(100)))
	assert.Equal(t, int64(1), row[4].Value.Decimal.IntPart())
	assert.True(t, rep.SuccessRate().IsZero())
}

func TestText(t *testing.T) {
	assert.Equal(t, "Year", Text(Cell{Column: columns.Year, Text: "Year"}))
	assert.Equal(t, "", Text(Cell{Column: columns.Value}))
	assert.Equal(t, "2025", Text(Cell{Column: columns.Year, Value: decimal.NewNullDecimal(decimal.NewFromInt(2025))}))
	assert.Equal(t, "$1,235", Text(Cell{Column: columns.Value, Value: decimal.NewNullDecimal(d(1234.5))}))
	assert.Equal(t, "5.1%", Text(Cell{Column: columns.Return, Value: decimal.NewNullDecimal(d(0.0512))}))
	assert.Equal(t, "$1.3", Text(Cell{Column: columns.Fees, Value: decimal.NewNullDecimal(d(1.25))}))
}
