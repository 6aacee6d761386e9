package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rpgo/simreport/internal/report"
)

// CSVFormatter flattens every selected run into one row per year. Values
// are written unformatted so the file re-imports losslessly.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }
func (c CSVFormatter) Ext() string  { return "csv" }

func (c CSVFormatter) Render(rep *report.Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"Selection", "Run"}
	for _, d := range rep.Columns {
		if d.ID.IsBlank() {
			continue
		}
		header = append(header, d.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, sel := range rep.Selections {
		idx := ""
		if sel.Run != nil {
			idx = strconv.Itoa(sel.Run.Index)
		}
		for _, row := range rep.YearRows(sel) {
			rec := []string{sel.Label, idx}
			for _, cell := range row {
				if cell.Column.IsBlank() {
					continue
				}
				v := ""
				if cell.Value.Valid {
					v = cell.Value.Decimal.String()
				}
				rec = append(rec, v)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
