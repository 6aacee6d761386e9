package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpgo/simreport/internal/columns"
	"github.com/rpgo/simreport/internal/report"
)

// ConsoleFormatter prints the summary as a terminal table. Detailed adds a
// per-year table for every selected run. Colours are only emitted when w is
// a terminal that supports them.
type ConsoleFormatter struct {
	Detailed bool
}

func (c ConsoleFormatter) Name() string { return "console" }
func (c ConsoleFormatter) Ext() string  { return "txt" }

func (c ConsoleFormatter) Render(rep *report.Report, w io.Writer) error {
	re := lipgloss.NewRenderer(w)
	title := re.NewStyle().Bold(true).Foreground(lipgloss.Color("#2C3E50"))
	rate := rep.SuccessRate()

	runs := 0
	if rep.Result != nil {
		runs = len(rep.Result.Runs)
	}
	if _, err := fmt.Fprintln(w, title.Render(rep.Title)); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d runs, view %s\n", runs, rep.View)
	fmt.Fprintf(w, "Success Rate: %s\n",
		re.NewStyle().Bold(true).Foreground(termColor(RateColor(rate))).Render(FormatSuccessRate(rate)))
	if dist, ok := AnalyzeOutcomes(rep.Result); ok {
		fmt.Fprintf(w, "Outcomes: worst %s, median %s, mean %s, best %s (%d of %d runs failed)\n",
			money(dist.Worst), money(dist.Median), money(dist.Mean), money(dist.Best), dist.Failed, dist.Runs)
	}
	fmt.Fprintln(w)

	header := append([]string{"Selection"}, textRow(rep.Header())...)
	var rows [][]report.Cell
	var text [][]string
	for _, sel := range rep.Selections {
		cells := rep.SummaryRow(sel)
		rows = append(rows, cells)
		text = append(text, append([]string{sel.Label}, textRow(cells)...))
	}
	summary := newConsoleTable(re, header, text, func(row, col int) (report.Cell, bool) {
		if col == 0 {
			return report.Cell{}, false
		}
		return rows[row][col-1], true
	})
	if _, err := fmt.Fprintln(w, summary.String()); err != nil {
		return err
	}

	if !c.Detailed {
		return nil
	}
	for _, sel := range rep.Selections {
		label := sel.Label
		if sel.Run != nil {
			label = fmt.Sprintf("%s (run %d)", sel.Label, sel.Run.Index)
		}
		years := rep.YearRows(sel)
		body := make([][]string, len(years))
		for i, row := range years {
			body[i] = textRow(row)
		}
		t := newConsoleTable(re, textRow(rep.Header()), body, func(row, col int) (report.Cell, bool) {
			return years[row][col], true
		})
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", title.Render(label), t.String()); err != nil {
			return err
		}
	}
	return nil
}

// newConsoleTable builds a bordered table; cellAt maps a body position to
// the report cell whose alignment and colour hint style it.
func newConsoleTable(re *lipgloss.Renderer, header []string, rows [][]string, cellAt func(row, col int) (report.Cell, bool)) *table.Table {
	base := re.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("#6C757D"))).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return base.Bold(true).Align(lipgloss.Center)
			}
			c, ok := cellAt(row, col)
			if !ok {
				return base.Bold(true)
			}
			s := base.Align(termAlign(columns.DescriptorFor(c.Column).Align))
			if c.Color != columns.ColorNone {
				s = s.Foreground(termColor(c.Color))
			}
			return s
		})
}

func termColor(c columns.Color) lipgloss.TerminalColor {
	if c == columns.ColorNone {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color("#" + c.RGB())
}

func termAlign(a columns.Align) lipgloss.Position {
	switch a {
	case columns.AlignLeft:
		return lipgloss.Left
	case columns.AlignCenter:
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}
