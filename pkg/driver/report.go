package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"asfront/pkg/errors"
	"asfront/pkg/parser"
)

// Report is the serializable summary of a batch of results.
type Report struct {
	Files    []FileReport `yaml:"files" json:"files"`
	Errors   int          `yaml:"errors" json:"errors"`
	Warnings int          `yaml:"warnings" json:"warnings"`

	results []*Result
}

// FileReport summarizes one parsed source.
type FileReport struct {
	Path        string             `yaml:"path" json:"path"`
	Packages    int                `yaml:"packages" json:"packages"`
	Directives  int                `yaml:"directives" json:"directives"`
	Diagnostics []DiagnosticReport `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
	AST         string             `yaml:"ast,omitempty" json:"ast,omitempty"`
}

// DiagnosticReport is a flattened diagnostic.
type DiagnosticReport struct {
	Severity string `yaml:"severity" json:"severity"`
	Kind     string `yaml:"kind" json:"kind"`
	Line     int    `yaml:"line" json:"line"`
	Column   int    `yaml:"column" json:"column"`
	Message  string `yaml:"message" json:"message"`
}

// NewReport builds a report from results. withAST includes the printed tree
// of every program.
func NewReport(results []*Result, withAST bool) *Report {
	report := &Report{Files: make([]FileReport, 0, len(results)), results: results}
	for _, r := range results {
		file := FileReport{
			Path:       r.Path(),
			Packages:   len(r.Program.Packages),
			Directives: len(r.Program.Directives),
		}
		for _, d := range r.Diagnostics {
			if d.IsWarning() {
				report.Warnings++
			} else {
				report.Errors++
			}
			pos := d.Pos()
			file.Diagnostics = append(file.Diagnostics, DiagnosticReport{
				Severity: d.Severity.String(),
				Kind:     d.Kind.String(),
				Line:     pos.Line,
				Column:   pos.Column,
				Message:  d.Message(),
			})
		}
		if withAST {
			file.AST = parser.NewPrinter().Print(r.Program)
		}
		report.Files = append(report.Files, file)
	}
	return report
}

// Write renders the report in format. Text output is the diagnostics with
// source excerpts followed by the trees when present.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	case FormatText:
		for i, result := range r.results {
			errors.DisplayDiagnostics(w, result.Diagnostics)
			if r.Files[i].AST != "" {
				fmt.Fprintf(w, ";; %s\n%s", r.Files[i].Path, r.Files[i].AST)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown report format %q", format)
}
