package output

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/rpgo/simreport/internal/report"
)

// ErrUnsupportedFormat is returned for an unknown output format name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter renders a report into one output format. Implementations only
// read the report; several formatters may render the same report at once.
type Formatter interface {
	// Name returns the canonical format name.
	Name() string
	// Ext returns the file extension without the dot.
	Ext() string
	Render(rep *report.Report, w io.Writer) error
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID        string
	Extension string
	F         func(*report.Report, io.Writer) error
}

func (ff FormatterFunc) Name() string { return ff.ID }
func (ff FormatterFunc) Ext() string {
	if ff.Extension == "" {
		return ff.ID
	}
	return ff.Extension
}
func (ff FormatterFunc) Render(rep *report.Report, w io.Writer) error { return ff.F(rep, w) }

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	XLSXFormatter{},
	HTMLFormatter{},
	PDFFormatter{},
	ConsoleFormatter{},
	CSVFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter, nil if unknown.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"xls":         "xlsx",
	"excel":       "xlsx",
	"spreadsheet": "xlsx",
	"htm":         "html",
	"html-report": "html",
	"text":        "console",
	"tty":         "console",
	"txt":         "console",
	"json-pretty": "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
