package output

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/report"
	"github.com/samber/lo"
)

// HTMLFormatter produces a standalone HTML page: the summary table followed
// by one table per selected run.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }
func (h HTMLFormatter) Ext() string  { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateSource))

type htmlColumn struct {
	Name    string
	Tooltip string
	Blank   bool
}

type htmlCell struct {
	Text  string
	Class string
}

type htmlCard struct {
	Title string
	Value string
	Class string
}

type htmlSummaryRow struct {
	Label string
	Cells []htmlCell
}

type htmlSection struct {
	Label  string
	Anchor string
	Index  int
	Failed bool
	Rows   [][]htmlCell
}

func (h HTMLFormatter) Render(rep *report.Report, w io.Writer) error {
	rate := rep.SuccessRate()
	data := struct {
		ID          string
		Title       string
		View        string
		Generated   string
		Runs        int
		SuccessRate string
		RateClass   string
		Outcomes    []htmlCard
		Columns     []htmlColumn
		Summary     []htmlSummaryRow
		Sections    []htmlSection
	}{
		ID:          rep.ID,
		Title:       rep.Title,
		View:        rep.View,
		Generated:   rep.Generated.Format("2006-01-02 15:04"),
		SuccessRate: FormatSuccessRate(rate),
		RateClass:   RateColor(rate).String(),
		Columns: lo.Map(rep.Columns, func(d columns.Descriptor, _ int) htmlColumn {
			return htmlColumn{Name: d.Name, Tooltip: d.Tooltip, Blank: d.ID.IsBlank()}
		}),
	}
	if rep.Result != nil {
		data.Runs = len(rep.Result.Runs)
	}
	if dist, ok := AnalyzeOutcomes(rep.Result); ok {
		data.Outcomes = []htmlCard{
			{Title: "Median Outcome", Value: money(dist.Median)},
			{Title: "Mean Outcome", Value: money(dist.Mean)},
			{Title: "Worst Outcome", Value: money(dist.Worst), Class: "danger"},
			{Title: "Best Outcome", Value: money(dist.Best), Class: "success"},
			{Title: "Failed Runs", Value: fmt.Sprintf("%d of %d", dist.Failed, dist.Runs)},
		}
	}

	for i, sel := range rep.Selections {
		data.Summary = append(data.Summary, htmlSummaryRow{Label: sel.Label, Cells: htmlCells(rep.SummaryRow(sel))})
		sec := htmlSection{
			Label:  sel.Label,
			Anchor: fmt.Sprintf("sel-%d-%s", i, strings.ToLower(strings.ReplaceAll(sel.Label, " ", "-"))),
		}
		if sel.Run != nil {
			sec.Index = sel.Run.Index
			sec.Failed = sel.Run.Failed()
		}
		for _, row := range rep.YearRows(sel) {
			sec.Rows = append(sec.Rows, htmlCells(row))
		}
		data.Sections = append(data.Sections, sec)
	}
	return htmlTemplate.Execute(w, data)
}

func htmlCells(cells []report.Cell) []htmlCell {
	return lo.Map(cells, func(c report.Cell, _ int) htmlCell {
		return htmlCell{Text: report.Text(c), Class: cellClass(c)}
	})
}
