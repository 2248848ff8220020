// Package stmt assembles INSERT, UPDATE and DELETE statement text for
// parameterized prepared statements.
//
// Table and column names are written verbatim: nothing is quoted, escaped or
// validated. Callers supply safe identifiers and bind one value per
// placeholder, in the order the placeholders appear.
package stmt
