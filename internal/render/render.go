// Package render turns statement sets into a text listing or a Go source file.
package render

import (
	"bytes"
	"errors"
	"fmt"
	goast "go/ast"
	"go/printer"
	"go/token"
	"strconv"

	"golang.org/x/tools/imports"

	"github.com/electwix/sqlstmt/casing"
	"github.com/electwix/sqlstmt/stmt"
)

// GeneratedHeader opens every rendered Go file.
const GeneratedHeader = "// Code generated by sqlstmt. DO NOT EDIT.\n\n"

// Entry is one table and the statements built for it.
type Entry struct {
	Table stmt.Table
	Set   stmt.Set
	// Alias replaces the table name as the base of generated identifiers.
	Alias *string
}

// Names holds the Go identifiers generated for an entry.
type Names struct {
	Insert  string
	Update  string
	Delete  string
	Columns string
}

// ErrInvalidIdentifier reports a table whose name cannot form Go identifiers.
var ErrInvalidIdentifier = errors.New("render: invalid identifier")

// NamesFor derives the identifiers for e: InsertUserAccounts,
// UpdateUserAccounts, DeleteUserAccounts and userAccountsColumns for the
// table user_accounts.
func NamesFor(e Entry) (Names, error) {
	source := e.Table.Name
	if !casing.IsNullOrEmpty(e.Alias) {
		source = *e.Alias
	}
	base := casing.ToCamelCase(source)
	member := casing.ToMemberCase(source)

	names := Names{
		Insert:  "Insert" + base,
		Update:  "Update" + base,
		Delete:  "Delete" + base,
		Columns: member + "Columns",
	}
	if base == "" || !token.IsIdentifier(names.Insert) || !token.IsIdentifier(names.Columns) {
		return Names{}, fmt.Errorf("%w: table %q yields %q", ErrInvalidIdentifier, e.Table.Name, base)
	}
	return names, nil
}

// Text renders entries as a listing: a "-- table" heading followed by the
// table's statements, with a blank line between tables.
func Text(entries []Entry) []byte {
	var buf bytes.Buffer
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "-- %s\n", e.Table.Name)
		for _, query := range []string{e.Set.Insert, e.Set.Update, e.Set.Delete} {
			if query == "" {
				continue
			}
			buf.WriteString(query)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// Go renders entries as a gofmt-clean Go file in package pkg declaring one
// const block and one column slice per table. The slice lists the columns in
// the insert statement's bind order.
func Go(pkg string, entries []Entry) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("%w: package %q", ErrInvalidIdentifier, pkg)
	}

	file := &goast.File{Name: goast.NewIdent(pkg)}
	used := make(map[string]string, len(entries)*4)
	for _, e := range entries {
		names, err := NamesFor(e)
		if err != nil {
			return nil, err
		}
		for _, name := range []string{names.Insert, names.Columns} {
			if prev, ok := used[name]; ok {
				return nil, fmt.Errorf("render: tables %q and %q both generate %s", prev, e.Table.Name, name)
			}
			used[name] = e.Table.Name
		}
		file.Decls = append(file.Decls, constDecl(names, e.Set), columnsDecl(names.Columns, e.Table.Columns))
	}

	return formatFile(file)
}

func constDecl(names Names, set stmt.Set) *goast.GenDecl {
	decl := &goast.GenDecl{Tok: token.CONST, Lparen: 1}
	add := func(name, query string) {
		if query == "" {
			return
		}
		decl.Specs = append(decl.Specs, &goast.ValueSpec{
			Names:  []*goast.Ident{goast.NewIdent(name)},
			Values: []goast.Expr{stringLit(query)},
		})
	}
	add(names.Insert, set.Insert)
	add(names.Update, set.Update)
	add(names.Delete, set.Delete)
	return decl
}

// columnsDecl declares the table's columns in insert bind order. Update binds
// the key last, so callers binding an update use Table.UpdateColumns instead.
func columnsDecl(name string, columns []string) *goast.GenDecl {
	elts := make([]goast.Expr, 0, len(columns))
	for _, c := range columns {
		elts = append(elts, stringLit(c))
	}
	return &goast.GenDecl{
		Tok: token.VAR,
		Specs: []goast.Spec{&goast.ValueSpec{
			Names: []*goast.Ident{goast.NewIdent(name)},
			Values: []goast.Expr{&goast.CompositeLit{
				Type: &goast.ArrayType{Elt: goast.NewIdent("string")},
				Elts: elts,
			}},
		}},
	}
}

func stringLit(s string) *goast.BasicLit {
	return &goast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

func formatFile(file *goast.File) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(GeneratedHeader)
	cfg := &printer.Config{Mode: printer.TabIndent | printer.UseSpaces, Tabwidth: 8}
	if err := cfg.Fprint(&buf, token.NewFileSet(), file); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	formatted, err := imports.Process("", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("goimports: %w", err)
	}
	return formatted, nil
}
