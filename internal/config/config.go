// Package config loads and validates sqlstmt configuration files.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/electwix/sqlstmt/casing"
	"github.com/electwix/sqlstmt/internal/fileset"
	"github.com/electwix/sqlstmt/stmt"
)

// DefaultPackage is the Go package name used when none is configured.
const DefaultPackage = "queries"

// Format selects how statement sets are rendered.
type Format string

const (
	// FormatText renders a plain listing, one statement per line.
	FormatText Format = "text"
	// FormatGo renders a Go source file of string constants.
	FormatGo Format = "go"
)

// ParseFormat validates a format name. The empty string selects FormatText.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatGo:
		return FormatGo, nil
	default:
		return "", fmt.Errorf("unsupported format %q", name)
	}
}

// TableConfig mirrors one [[tables]] entry.
type TableConfig struct {
	Name       string   `toml:"name" yaml:"name"`
	Alias      *string  `toml:"alias" yaml:"alias"`
	PrimaryKey string   `toml:"primary_key" yaml:"primary_key"`
	Columns    []string `toml:"columns" yaml:"columns"`
	Fields     []string `toml:"fields" yaml:"fields"`
}

// Config mirrors the expected sqlstmt configuration schema.
type Config struct {
	Package string        `toml:"package" yaml:"package"`
	Out     string        `toml:"out" yaml:"out"`
	Format  string        `toml:"format" yaml:"format"`
	Dialect string        `toml:"dialect" yaml:"dialect"`
	Include []string      `toml:"include" yaml:"include"`
	Tables  []TableConfig `toml:"tables" yaml:"tables"`
}

// tableFile is the shape of an included table definition file.
type tableFile struct {
	Tables []TableConfig `toml:"tables" yaml:"tables"`
}

// Table is a validated table definition.
type Table struct {
	stmt.Table
	// Alias overrides the name generated identifiers are derived from.
	Alias *string
	// Source is the file the table was defined in; empty for inline tables.
	Source string
}

// Plan is the fully-resolved configuration used by the pipeline.
type Plan struct {
	Package string
	// Out is the output file path; empty writes to standard output.
	Out     string
	Format  Format
	Dialect stmt.Dialect
	Tables  []Table
}

// DefaultPlan returns the plan used when no configuration file is given.
func DefaultPlan() Plan {
	return Plan{Package: DefaultPackage, Format: FormatText, Dialect: stmt.Question}
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	Strict   bool
	Resolver *fileset.Resolver
}

// Result wraps a loaded plan alongside any non-fatal warnings.
type Result struct {
	Plan     Plan
	Warnings []string
}

var knownKeys = []string{"package", "out", "format", "dialect", "include", "tables"}

var knownTableKeys = []string{"name", "alias", "primary_key", "columns", "fields"}

// Load reads, validates, and resolves a sqlstmt configuration file. Files
// ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func Load(path string, opts LoadOptions) (Result, error) {
	var res Result

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := decode(path, data, &cfg); err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	warnings, err := unknownKeyWarnings(path, data, knownKeys)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if len(warnings) > 0 && opts.Strict {
		return res, errors.New(warnings[0])
	}
	res.Warnings = append(res.Warnings, warnings...)

	plan := DefaultPlan()

	if cfg.Package != "" {
		if err := validatePackage(path, cfg.Package); err != nil {
			return res, err
		}
		plan.Package = cfg.Package
	}

	plan.Out, err = resolveOut(path, cfg.Out)
	if err != nil {
		return res, err
	}

	plan.Format, err = ParseFormat(cfg.Format)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	plan.Dialect, err = stmt.ParseDialect(cfg.Dialect)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	tables, err := buildTables(path, cfg.Tables)
	if err != nil {
		return res, err
	}

	if len(cfg.Include) > 0 {
		included, warnings, err := loadIncludes(path, cfg.Include, opts)
		if err != nil {
			return res, err
		}
		res.Warnings = append(res.Warnings, warnings...)
		tables = append(tables, included...)
	}

	plan.Tables, err = MergeTables(nil, tables)
	if err != nil {
		return res, err
	}

	res.Plan = plan
	return res, nil
}

// MergeTables appends copies of add to dest, rejecting duplicate table names.
func MergeTables(dest, add []Table) ([]Table, error) {
	seen := make(map[string]Table, len(dest)+len(add))
	for _, t := range dest {
		seen[t.Name] = t
	}
	for _, t := range add {
		if prev, ok := seen[t.Name]; ok {
			return nil, fmt.Errorf("duplicate table %q (previous definition in %s)", t.Name, sourceName(prev.Source))
		}
		t.Table = t.Table.Clone()
		seen[t.Name] = t
		dest = append(dest, t)
	}
	return dest, nil
}

func sourceName(source string) string {
	if source == "" {
		return "command line"
	}
	return source
}

func loadIncludes(path string, patterns []string, opts LoadOptions) ([]Table, []string, error) {
	var resolver fileset.Resolver
	if opts.Resolver != nil {
		resolver = *opts.Resolver
	} else {
		var err error
		resolver, err = fileset.NewOSResolver(filepath.Dir(path))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	matches, err := resolver.Resolve(patterns)
	if err != nil {
		var noMatchErr fileset.NoMatchError
		if errors.As(err, &noMatchErr) {
			return nil, nil, fmt.Errorf("%s: include patterns matched no files: %s", path, strings.Join(noMatchErr.Patterns, ", "))
		}
		return nil, nil, fmt.Errorf("%s: include: %w", path, err)
	}

	var (
		tables   []Table
		warnings []string
	)
	for _, m := range matches {
		data, err := resolver.ReadFile(m)
		if err != nil {
			return nil, nil, err
		}
		var file tableFile
		if err := decode(m.Name, data, &file); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", m.Path, err)
		}
		found, err := unknownKeyWarnings(m.Path, data, []string{"tables"})
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", m.Path, err)
		}
		if len(found) > 0 && opts.Strict {
			return nil, nil, errors.New(found[0])
		}
		warnings = append(warnings, found...)

		built, err := buildTables(m.Path, file.Tables)
		if err != nil {
			return nil, nil, err
		}
		tables = append(tables, built...)
	}
	return tables, warnings, nil
}

func buildTables(path string, entries []TableConfig) ([]Table, error) {
	tables := make([]Table, 0, len(entries))
	for i, entry := range entries {
		if casing.IsBlank(entry.Name) {
			return nil, fmt.Errorf("%s: tables[%d]: name is required", path, i)
		}
		if entry.Alias != nil && casing.IsBlank(*entry.Alias) {
			return nil, fmt.Errorf("%s: table %q: alias must not be blank", path, entry.Name)
		}
		if entry.PrimaryKey != "" && casing.IsBlank(entry.PrimaryKey) {
			return nil, fmt.Errorf("%s: table %q: primary_key must not be blank", path, entry.Name)
		}

		columns := slices.Clone(entry.Columns)
		for _, field := range entry.Fields {
			columns = append(columns, strcase.ToSnake(field))
		}
		if columns == nil {
			columns = []string{}
		}
		if dup, ok := firstDuplicate(columns); ok {
			return nil, fmt.Errorf("%s: table %q: duplicate column %q", path, entry.Name, dup)
		}

		tables = append(tables, Table{
			Table: stmt.Table{
				Name:       entry.Name,
				PrimaryKey: entry.PrimaryKey,
				Columns:    columns,
			},
			Alias:  entry.Alias,
			Source: path,
		})
	}
	return tables, nil
}

func firstDuplicate(values []string) (string, bool) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v, true
		}
		seen[v] = struct{}{}
	}
	return "", false
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func decode(path string, data []byte, v any) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return toml.Unmarshal(data, v)
}

func unknownKeyWarnings(path string, data []byte, known []string) ([]string, error) {
	var raw map[string]any
	if err := decode(path, data, &raw); err != nil {
		return nil, err
	}

	var warnings []string
	if unknown := unknownKeys(raw, known); len(unknown) > 0 {
		warnings = append(warnings, fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknown, ", ")))
	}

	entries, _ := raw["tables"].([]any)
	for i, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if unknown := unknownKeys(record, knownTableKeys); len(unknown) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: unknown keys in tables[%d]: %s", path, i, strings.Join(unknown, ", ")))
		}
	}
	return warnings, nil
}

func unknownKeys(raw map[string]any, known []string) []string {
	unknown := make([]string, 0)
	for key := range raw {
		if !slices.Contains(known, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return unknown
}

func validatePackage(path, pkg string) error {
	if !token.IsIdentifier(pkg) || token.Lookup(pkg) != token.IDENT {
		return fmt.Errorf("%s: invalid package name %q", path, pkg)
	}
	return nil
}

func resolveOut(path, out string) (string, error) {
	if out == "" {
		return "", nil
	}
	if filepath.IsAbs(out) {
		return "", fmt.Errorf("%s: out must be a relative path", path)
	}

	cleaned := filepath.Clean(out)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: out must not traverse upwards", path)
	}

	return filepath.Join(filepath.Dir(path), cleaned), nil
}
