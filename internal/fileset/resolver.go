// Package fileset expands the include patterns of a configuration file into
// the table definition files they name.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoPatterns indicates that Resolve was invoked without any glob patterns.
var ErrNoPatterns = errors.New("fileset: no patterns provided")

// PatternError wraps syntax issues reported while evaluating a glob pattern.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e PatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e PatternError) Unwrap() error { return e.Err }

// NoMatchError lists the patterns that matched nothing.
type NoMatchError struct {
	Patterns []string
}

// Error implements the error interface.
func (e NoMatchError) Error() string {
	return "patterns matched no files: " + strings.Join(e.Patterns, ", ")
}

// Match is one resolved file. Name is relative to the resolver's filesystem
// and Path is the name callers should report.
type Match struct {
	Name string
	Path string
}

// Resolver evaluates glob patterns against an fs.FS.
type Resolver struct {
	fsys fs.FS
	join func(name string) string
}

// NewResolver returns a Resolver over fsys that reports names unchanged.
func NewResolver(fsys fs.FS) Resolver {
	return Resolver{fsys: fsys, join: func(name string) string { return name }}
}

// NewOSResolver returns a Resolver rooted at the directory base that reports
// absolute paths.
func NewOSResolver(base string) (Resolver, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return Resolver{}, fmt.Errorf("resolve base %q: %w", base, err)
	}
	info, err := os.Stat(absBase)
	if err != nil {
		return Resolver{}, fmt.Errorf("stat base %q: %w", absBase, err)
	}
	if !info.IsDir() {
		return Resolver{}, fmt.Errorf("base %q is not a directory", absBase)
	}
	return Resolver{
		fsys: os.DirFS(absBase),
		join: func(name string) string { return filepath.Join(absBase, filepath.FromSlash(name)) },
	}, nil
}

// Resolve expands patterns into a sorted, de-duplicated list of matches.
// Every pattern must match at least one file.
func (r Resolver) Resolve(patterns []string) ([]Match, error) {
	if r.fsys == nil {
		return nil, errors.New("fileset: resolver has no filesystem")
	}
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	var names, missing []string
	for _, pattern := range patterns {
		matches, err := fs.Glob(r.fsys, filepath.ToSlash(pattern))
		if err != nil {
			return nil, PatternError{Pattern: pattern, Err: err}
		}
		if len(matches) == 0 {
			missing = append(missing, pattern)
			continue
		}
		names = append(names, matches...)
	}
	if len(missing) > 0 {
		return nil, NoMatchError{Patterns: missing}
	}

	slices.Sort(names)
	names = slices.Compact(names)

	out := make([]Match, 0, len(names))
	for _, name := range names {
		out = append(out, Match{Name: name, Path: r.join(name)})
	}
	return out, nil
}

// ReadFile reads a matched file from the resolver's filesystem.
func (r Resolver) ReadFile(m Match) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, m.Name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", m.Path, err)
	}
	return data, nil
}
