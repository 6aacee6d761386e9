package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/simreport/internal/config"
	"github.com/rpgo/simreport/internal/output"
	"github.com/rpgo/simreport/internal/report"
	"github.com/rpgo/simreport/internal/views"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	results     string
	view        string
	percentiles []float64
	runs        []int
	formats     []string
	outDir      string
	baseName    string
	title       string
	viewsFile   string
	summary     bool
	detailed    bool
}

func newRenderCmd(g *globalOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [request.yaml]",
		Short: "Render simulation results into report files",
		Long: `Render reads simulation results and writes one report file per format.
Settings come from an optional request file; flags override it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.results, "results", "r", "", "simulation results file (.json or .yaml)")
	f.StringVarP(&opts.view, "view", "v", "", "column view name (default \"summary\")")
	f.Float64SliceVarP(&opts.percentiles, "percentiles", "p", nil, "percentiles to select, e.g. 0.1,0.5,0.9")
	f.IntSliceVar(&opts.runs, "runs", nil, "run indices to select")
	f.StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: "+strings.Join(output.AvailableFormatterNames(), ", "))
	f.StringVarP(&opts.outDir, "out", "o", "", "output directory (default \".\")")
	f.StringVar(&opts.baseName, "name", "", "output file base name (default: results name)")
	f.StringVar(&opts.title, "title", "", "report title (default: results name)")
	f.StringVar(&opts.viewsFile, "views", "", "YAML file with additional views")
	f.BoolVar(&opts.summary, "summary", false, "also print the summary table to stdout")
	f.BoolVar(&opts.detailed, "detailed", false, "with --summary, print every selected run year by year")
	return cmd
}

func runRender(cmd *cobra.Command, g *globalOptions, opts *renderOptions, args []string) error {
	logger, err := g.logger(cmd)
	if err != nil {
		return err
	}

	parser := config.NewInputParser()
	cfg := &config.RenderConfig{}
	if len(args) == 1 {
		if cfg, err = parser.LoadRequest(args[0]); err != nil {
			return err
		}
		logger.Debugf("loaded request %s", args[0])
	}
	opts.apply(cmd, cfg)
	if err := parser.ValidateRequest(cfg); err != nil {
		return err
	}
	if cfg.Results == "" {
		return fmt.Errorf("no results file: pass --results or set results in the request file")
	}

	resolver := views.Default()
	if len(cfg.Views) > 0 {
		if err := resolver.FromSpec(cfg.Views); err != nil {
			return err
		}
	}
	if opts.viewsFile != "" {
		if err := parser.LoadViews(opts.viewsFile, resolver); err != nil {
			return err
		}
	}

	result, err := parser.LoadResults(cfg.Results)
	if err != nil {
		return err
	}
	logger.Infof("loaded %d runs from %s", len(result.Runs), cfg.Results)

	rep, err := report.Build(result, cfg.Report, resolver)
	if err != nil {
		return err
	}
	logger.Infof("report %s: view %s, %d selections", rep.ID, rep.View, len(rep.Selections))

	if opts.summary {
		if err := (output.ConsoleFormatter{Detailed: opts.detailed}).Render(rep, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	formats := lo.Uniq(lo.Map(cfg.Formats, func(f string, _ int) string { return output.NormalizeFormatName(f) }))
	if len(formats) == 0 {
		formats = []string{"xlsx"}
	}
	base := cfg.BaseName
	if base == "" {
		base = fileBase(result.Name)
	}
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "."
	}

	var errs []error
	for _, res := range output.PublishAll(outDir, base, formats, rep, logger) {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Format, res.Err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", res.Format, res.Path)
	}
	return errors.Join(errs...)
}

// apply overrides request settings with explicitly set flags.
func (o *renderOptions) apply(cmd *cobra.Command, cfg *config.RenderConfig) {
	f := cmd.Flags()
	if f.Changed("results") {
		cfg.Results = o.results
	}
	if f.Changed("view") {
		cfg.Report.View = o.view
	}
	if f.Changed("percentiles") {
		cfg.Report.Percentiles = o.percentiles
	}
	if f.Changed("runs") {
		cfg.Report.RunIndices = o.runs
	}
	if f.Changed("format") {
		cfg.Formats = o.formats
	}
	if f.Changed("out") {
		cfg.OutputDir = o.outDir
	}
	if f.Changed("name") {
		cfg.BaseName = o.baseName
	}
	if f.Changed("title") {
		cfg.Report.Title = o.title
	}
}

// fileBase turns a results name into a file name without path separators.
func fileBase(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "report"
	}
	return name
}
