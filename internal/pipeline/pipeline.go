// Package pipeline loads table definitions, builds their statements and
// writes the rendered output.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/electwix/sqlstmt/internal/config"
	"github.com/electwix/sqlstmt/internal/render"
	"github.com/electwix/sqlstmt/internal/tabledef"
	"github.com/electwix/sqlstmt/stmt"
)

// ErrNoTables is returned when neither the configuration nor the command line
// defines a table.
var ErrNoTables = errors.New("pipeline: no tables defined")

// Environment captures external dependencies used by the pipeline.
type Environment struct {
	Logger *slog.Logger
	Writer Writer
}

// Writer writes generated files to persistent storage.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Pipeline orchestrates configuration loading, statement building and output.
type Pipeline struct {
	Env Environment
}

// File is rendered output. An empty Path means standard output.
type File struct {
	Path    string
	Content []byte
}

// Summary captures what a run produced.
type Summary struct {
	Plan     config.Plan
	Entries  []render.Entry
	Output   File
	Warnings []string
	// Written is false for dry runs, standard output and unchanged files.
	Written bool
}

// RunOptions configures a pipeline execution. Non-empty override fields take
// precedence over the configuration file.
type RunOptions struct {
	ConfigPath   string
	Tables       []string
	Out          string
	Format       string
	Dialect      string
	Package      string
	DryRun       bool
	StrictConfig bool
}

// WriteError wraps failures encountered while writing generated files.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewOSWriter returns a Writer that performs atomic writes on the local filesystem.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sqlstmt-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// Run executes the pipeline according to the provided options.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	var summary Summary

	logger := p.Env.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	plan := config.DefaultPlan()
	if opts.ConfigPath != "" {
		res, err := config.Load(opts.ConfigPath, config.LoadOptions{Strict: opts.StrictConfig})
		if err != nil {
			return summary, err
		}
		for _, w := range res.Warnings {
			logger.Warn(w)
		}
		summary.Warnings = res.Warnings
		plan = res.Plan
		logger.Debug("loaded configuration", "path", opts.ConfigPath, "tables", len(plan.Tables))
	}

	inline, err := tabledef.ParseAll(opts.Tables)
	if err != nil {
		return summary, err
	}
	add := make([]config.Table, 0, len(inline))
	for _, t := range inline {
		add = append(add, config.Table{Table: t})
	}
	if plan.Tables, err = config.MergeTables(plan.Tables, add); err != nil {
		return summary, err
	}

	if err := applyOverrides(&plan, opts); err != nil {
		return summary, err
	}
	summary.Plan = plan

	if len(plan.Tables) == 0 {
		return summary, ErrNoTables
	}

	entries := make([]render.Entry, 0, len(plan.Tables))
	for _, t := range plan.Tables {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		set := t.Statements().Rebind(plan.Dialect)
		logger.Debug("built statements", "table", t.Name, "columns", len(t.Columns), "dialect", plan.Dialect.String())
		entries = append(entries, render.Entry{Table: t.Table, Set: set, Alias: t.Alias})
	}
	summary.Entries = entries

	var content []byte
	switch plan.Format {
	case config.FormatGo:
		content, err = render.Go(plan.Package, entries)
		if err != nil {
			return summary, err
		}
	default:
		content = render.Text(entries)
	}
	summary.Output = File{Path: plan.Out, Content: content}

	if opts.DryRun || plan.Out == "" {
		return summary, nil
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	same, cmpErr := fileMatches(plan.Out, content)
	if cmpErr != nil {
		return summary, &WriteError{Path: plan.Out, Err: cmpErr}
	}
	if same {
		logger.Debug("output unchanged", "path", plan.Out)
		return summary, nil
	}

	writer := p.Env.Writer
	if writer == nil {
		writer = NewOSWriter()
	}
	if err := writer.WriteFile(plan.Out, content); err != nil {
		return summary, &WriteError{Path: plan.Out, Err: err}
	}
	summary.Written = true
	logger.Info("wrote statements", "path", plan.Out, "tables", len(entries))
	return summary, nil
}

func applyOverrides(plan *config.Plan, opts RunOptions) error {
	var err error
	if opts.Out != "" {
		plan.Out = filepath.Clean(opts.Out)
	}
	if opts.Format != "" {
		if plan.Format, err = config.ParseFormat(opts.Format); err != nil {
			return err
		}
	}
	if opts.Dialect != "" {
		if plan.Dialect, err = stmt.ParseDialect(opts.Dialect); err != nil {
			return err
		}
	}
	if opts.Package != "" {
		plan.Package = opts.Package
	}
	return nil
}

func fileMatches(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(existing, content), nil
}
