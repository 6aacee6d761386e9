package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpgo/simreport/internal/domain"
	"github.com/rpgo/simreport/internal/report"
	"github.com/rpgo/simreport/internal/views"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RenderConfig is a report request file: which results to read, what to
// report and where to write it.
type RenderConfig struct {
	Results   string              `yaml:"results"`
	Report    report.Request      `yaml:"report"`
	Formats   []string            `yaml:"formats"`
	OutputDir string              `yaml:"output_dir"`
	BaseName  string              `yaml:"base_name"`
	Views     map[string][]string `yaml:"views"`
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadRequest loads a report request from a YAML file. A relative results
// path is resolved against the request file's directory.
func (ip *InputParser) LoadRequest(filename string) (*RenderConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var cfg RenderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if cfg.Results != "" && !filepath.IsAbs(cfg.Results) {
		cfg.Results = filepath.Join(filepath.Dir(filename), cfg.Results)
	}

	if err := ip.ValidateRequest(&cfg); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &cfg, nil
}

// ValidateRequest checks the parts of a request that do not depend on the
// results being reported.
func (ip *InputParser) ValidateRequest(cfg *RenderConfig) error {
	for i, p := range cfg.Report.Percentiles {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("percentile %d (%v) must be between 0 and 1", i, p)
		}
	}
	for i, idx := range cfg.Report.RunIndices {
		if idx < 0 {
			return fmt.Errorf("run index %d (%d) cannot be negative", i, idx)
		}
	}
	for i, f := range cfg.Formats {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("format %d is empty", i)
		}
	}
	if len(cfg.Views) > 0 {
		if err := views.New().FromSpec(cfg.Views); err != nil {
			return err
		}
	}
	return nil
}

// LoadViews merges the views of a YAML file over the resolver's views.
// The file holds a top-level "views" map of view name to column names.
func (ip *InputParser) LoadViews(filename string, resolver *views.Resolver) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var file struct {
		Views map[string][]string `yaml:"views"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Views) == 0 {
		return fmt.Errorf("%s defines no views", filename)
	}
	return resolver.FromSpec(file.Views)
}

// rawRun mirrors domain.Run so an omitted terminal outcome can be told
// apart from an explicit zero.
type rawRun struct {
	Index           int                 `json:"index" yaml:"index"`
	Years           []domain.YearRecord `json:"years" yaml:"years"`
	TerminalOutcome *decimal.Decimal    `json:"terminal_outcome" yaml:"terminal_outcome"`
}

type rawResult struct {
	Name    string   `json:"name" yaml:"name"`
	Horizon int      `json:"horizon" yaml:"horizon"`
	Runs    []rawRun `json:"runs" yaml:"runs"`
}

// LoadResults loads simulation results from a JSON (.json) or YAML file.
func (ip *InputParser) LoadResults(filename string) (*domain.SimulationResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var raw rawResult
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	result := &domain.SimulationResult{Name: raw.Name, Horizon: raw.Horizon}
	for _, rr := range raw.Runs {
		run := domain.NewRun(rr.Index, rr.Years)
		if rr.TerminalOutcome != nil {
			run.TerminalOutcome = *rr.TerminalOutcome
		}
		result.Runs = append(result.Runs, run)
	}
	if result.Name == "" {
		result.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	if err := ip.ValidateResults(result); err != nil {
		return nil, fmt.Errorf("results validation failed: %w", err)
	}
	return result, nil
}

// ValidateResults checks that run indices are unique and every run has
// at least one year.
func (ip *InputParser) ValidateResults(result *domain.SimulationResult) error {
	if len(result.Runs) == 0 {
		return fmt.Errorf("no runs provided")
	}
	if result.Horizon < 0 {
		return fmt.Errorf("horizon cannot be negative")
	}
	seen := make(map[int]bool, len(result.Runs))
	for i, run := range result.Runs {
		if seen[run.Index] {
			return fmt.Errorf("run %d: duplicate index %d", i, run.Index)
		}
		seen[run.Index] = true
		if len(run.Years) == 0 {
			return fmt.Errorf("run %d has no years", run.Index)
		}
		if result.Horizon > 0 && len(run.Years) > result.Horizon {
			return fmt.Errorf("run %d has %d years, more than the horizon of %d", run.Index, len(run.Years), result.Horizon)
		}
	}
	return nil
}

// SaveRequest writes a request as YAML.
func (ip *InputParser) SaveRequest(cfg *RenderConfig, filename string) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	if err := os.WriteFile(filename, b, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleRequest returns a request covering the common options.
func (ip *InputParser) CreateExampleRequest() *RenderConfig {
	return &RenderConfig{
		Results: "results.json",
		Report: report.Request{
			View:        "detailed",
			Percentiles: []float64{0.1, 0.5, 0.9},
			RunIndices:  []int{0},
			Title:       "Retirement Monte Carlo",
		},
		Formats:   []string{"xlsx", "html"},
		OutputDir: "reports",
		BaseName:  "simulation",
		Views: map[string][]string{
			"spending": {"Year", "Age", "-", "Living Expense", "Withdrawal", "Tax Paid", "Tax Rate"},
		},
	}
}
