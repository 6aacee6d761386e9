package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rpgo/simreport/internal/report"
	"github.com/shopspring/decimal"
)

// JSONFormatter serializes the report as pretty-printed JSON. Absent values
// are null.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }
func (j JSONFormatter) Ext() string  { return "json" }

type jsonColumn struct {
	Name    string `json:"name"`
	Tooltip string `json:"tooltip,omitempty"`
	Format  string `json:"format"`
}

type jsonSelection struct {
	Label      string               `json:"label"`
	Percentile *float64             `json:"percentile,omitempty"`
	RunIndex   int                  `json:"run_index"`
	Failed     bool                 `json:"failed"`
	Summary    []*decimal.Decimal   `json:"summary"`
	Years      [][]*decimal.Decimal `json:"years"`
}

type jsonReport struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	View        string          `json:"view"`
	Generated   time.Time       `json:"generated"`
	Runs        int             `json:"runs"`
	SuccessRate decimal.Decimal `json:"success_rate"`
	Columns     []jsonColumn    `json:"columns"`
	Selections  []jsonSelection `json:"selections"`
}

func (j JSONFormatter) Render(rep *report.Report, w io.Writer) error {
	out := jsonReport{
		ID:          rep.ID,
		Title:       rep.Title,
		View:        rep.View,
		Generated:   rep.Generated,
		SuccessRate: rep.SuccessRate(),
		Columns:     make([]jsonColumn, 0, len(rep.Columns)),
		Selections:  make([]jsonSelection, 0, len(rep.Selections)),
	}
	if rep.Result != nil {
		out.Runs = len(rep.Result.Runs)
	}
	for _, d := range rep.Columns {
		out.Columns = append(out.Columns, jsonColumn{Name: d.Name, Tooltip: d.Tooltip, Format: d.Format.Code()})
	}
	for _, sel := range rep.Selections {
		js := jsonSelection{Label: sel.Label, Summary: jsonValues(rep.SummaryRow(sel))}
		if sel.ByRank {
			p := sel.Percentile
			js.Percentile = &p
		}
		if sel.Run != nil {
			js.RunIndex = sel.Run.Index
			js.Failed = sel.Run.Failed()
		}
		for _, row := range rep.YearRows(sel) {
			js.Years = append(js.Years, jsonValues(row))
		}
		out.Selections = append(out.Selections, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func jsonValues(cells []report.Cell) []*decimal.Decimal {
	out := make([]*decimal.Decimal, len(cells))
	for i, c := range cells {
		if c.Value.Valid {
			v := c.Value.Decimal
			out[i] = &v
		}
	}
	return out
}
