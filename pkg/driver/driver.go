package driver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"asfront/pkg/errors"
	"asfront/pkg/parser"
	"asfront/pkg/source"
)

// Result is the outcome of parsing one source.
type Result struct {
	Source      *source.SourceFile
	Program     *parser.Program
	Diagnostics []*errors.Diagnostic
	Duration    time.Duration
}

// Path returns the display path of the parsed source.
func (r *Result) Path() string {
	return r.Source.DisplayPath()
}

// Failed reports whether parsing stopped at a syntax error.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

// Driver parses sources according to a Config. A Driver holds no per-parse
// state and may be used from several goroutines.
type Driver struct {
	config *Config
	logger *slog.Logger
}

// New creates a driver. A nil config means DefaultConfig; a nil logger
// discards log output.
func New(cfg *Config, logger *slog.Logger) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{config: cfg, logger: logger}
}

// Config returns the driver configuration.
func (d *Driver) Config() *Config {
	return d.config
}

// ParseString parses sourceCode as an eval source with the default
// configuration.
func ParseString(sourceCode string) *Result {
	return New(nil, nil).ParseSource(source.NewEvalSource(sourceCode))
}

// ParseFile reads and parses filename with the default configuration.
func ParseFile(filename string) (*Result, error) {
	return New(nil, nil).ParseFile(filename)
}

// ParseSource parses src with a fresh collector and parser.
func (d *Driver) ParseSource(src *source.SourceFile) *Result {
	started := time.Now()
	collector := errors.NewCollector()
	p := parser.NewParser(src, collector, parser.WithAsDoc(d.config.Parser.AsDoc))
	program, _ := p.ParseProgram()

	result := &Result{
		Source:      src,
		Program:     program,
		Diagnostics: collector.Diagnostics(),
		Duration:    time.Since(started),
	}
	d.logger.Debug("parsed source",
		"path", src.DisplayPath(),
		"directives", len(program.Directives),
		"packages", len(program.Packages),
		"diagnostics", len(result.Diagnostics),
		"duration", result.Duration)
	return result
}

// ParseFile reads and parses filename. Only I/O problems are returned as
// errors; syntax errors are in the result.
func (d *Driver) ParseFile(filename string) (*Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", filename, err)
	}
	return d.ParseSource(source.FromFile(filename, string(content))), nil
}

// ParseFiles parses paths concurrently, at most Jobs at a time. Results are
// in the order of paths. The first I/O error cancels the remaining work.
func (d *Driver) ParseFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.config.Driver.Jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := d.ParseFile(path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.logger.Info("parsed files", "count", len(paths), "jobs", d.config.Driver.Jobs)
	return results, nil
}

// ExpandPaths replaces each directory in paths with the source files below
// it. Plain files are kept whatever their extension.
func (d *Driver) ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat '%s': %w", path, err)
		}
		if !info.IsDir() {
			out = append(out, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && d.config.HasSourceExtension(p) {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk '%s': %w", path, err)
		}
	}
	return out, nil
}
