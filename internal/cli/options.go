// Package cli parses sqlstmt command line flags.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// DefaultConfig is read when neither -config nor any table definition is given.
const DefaultConfig = "sqlstmt.toml"

// Options holds the parsed command line.
type Options struct {
	ConfigPath   string
	Tables       []string
	Out          string
	Format       string
	Dialect      string
	Package      string
	DryRun       bool
	StrictConfig bool
	Verbose      bool
	Quiet        bool
}

// Parse parses args. Positional arguments are inline table definitions, the
// same as repeated -table flags.
func Parse(args []string) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("sqlstmt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a TOML or YAML configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to a TOML or YAML configuration file")
	fs.Func("table", "Inline table definition such as 'users(id*, name)'; repeatable", func(v string) error {
		opts.Tables = append(opts.Tables, v)
		return nil
	})
	fs.StringVar(&opts.Out, "out", "", "Output file; standard output when empty")
	fs.StringVar(&opts.Format, "format", "", "Output format: text or go")
	fs.StringVar(&opts.Dialect, "dialect", "", "Placeholder dialect: question or dollar")
	fs.StringVar(&opts.Package, "package", "", "Go package name for -format go")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Render without writing the output file")
	fs.BoolVar(&opts.StrictConfig, "strict-config", false, "Treat configuration warnings as errors")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")
	fs.BoolVar(&opts.Quiet, "quiet", false, "Only log errors")
	fs.BoolVar(&opts.Quiet, "q", false, "Only log errors")

	if err := fs.Parse(args); err != nil {
		usage := Usage(fs)
		if errors.Is(err, flag.ErrHelp) {
			return Options{}, fmt.Errorf("%w\n\n%s", err, usage)
		}
		return Options{}, fmt.Errorf("%w\n\n%s", err, usage)
	}

	opts.Tables = append(opts.Tables, fs.Args()...)
	if opts.ConfigPath == "" && len(opts.Tables) == 0 {
		opts.ConfigPath = DefaultConfig
	}
	return opts, nil
}

// Usage renders the flag defaults of fs.
func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
