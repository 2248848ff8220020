// Package tabledef parses inline table definitions such as
//
//	users(id*, name, email)
//
// into stmt.Table values. A trailing '*' marks the primary key column; at most
// one column may carry it.
package tabledef

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/electwix/sqlstmt/stmt"
)

//nolint:govet // Participle struct tags are DSL, not reflect tags
type definition struct {
	Name    string    `@Ident`
	Columns []*column `"(" ( @@ ( "," @@ )* )? ")"`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type column struct {
	Name string `@Ident`
	Key  bool   `@"*"?`
}

//nolint:govet // Participle DSL uses unkeyed fields
var defLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Whitespace", `[ \t\r\n]+`},
	{"Ident", `[A-Za-z_][A-Za-z0-9_$.]*`},
	{"Symbol", `[(),*]`},
})

var parser = participle.MustBuild[definition](
	participle.Lexer(defLexer),
	participle.Elide("Whitespace"),
)

// Error reports a definition that could not be parsed or is inconsistent.
type Error struct {
	Definition string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("table definition %q: %v", e.Definition, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Parse converts one inline definition into a table.
func Parse(src string) (stmt.Table, error) {
	def, err := parser.ParseString("", strings.TrimSpace(src))
	if err != nil {
		return stmt.Table{}, &Error{Definition: src, Err: err}
	}

	table := stmt.Table{
		Name:    def.Name,
		Columns: make([]string, 0, len(def.Columns)),
	}
	seen := make(map[string]struct{}, len(def.Columns))
	for _, col := range def.Columns {
		if _, dup := seen[col.Name]; dup {
			return stmt.Table{}, &Error{Definition: src, Err: fmt.Errorf("duplicate column %q", col.Name)}
		}
		seen[col.Name] = struct{}{}
		table.Columns = append(table.Columns, col.Name)
		if !col.Key {
			continue
		}
		if table.PrimaryKey != "" {
			return stmt.Table{}, &Error{Definition: src, Err: fmt.Errorf("more than one primary key (%s, %s)", table.PrimaryKey, col.Name)}
		}
		table.PrimaryKey = col.Name
	}
	return table, nil
}

// ParseAll parses each definition in order, stopping at the first failure.
func ParseAll(srcs []string) ([]stmt.Table, error) {
	tables := make([]stmt.Table, 0, len(srcs))
	for _, src := range srcs {
		table, err := Parse(src)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}
