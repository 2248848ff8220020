package stmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the placeholder syntax of emitted statements.
type Dialect int

const (
	// Question emits anonymous "?" markers (SQLite, MySQL, database/sql default).
	Question Dialect = iota
	// Dollar emits numbered "$1", "$2", ... markers (PostgreSQL).
	Dollar
)

// ErrUnknownDialect is returned by ParseDialect for unsupported names.
var ErrUnknownDialect = errors.New("stmt: unknown dialect")

// ParseDialect maps a configuration name onto a Dialect. The empty string
// selects Question.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "question", "sqlite", "mysql":
		return Question, nil
	case "dollar", "postgres", "postgresql":
		return Dollar, nil
	default:
		return Question, fmt.Errorf("%w %q", ErrUnknownDialect, name)
	}
}

// String returns the canonical configuration name.
func (d Dialect) String() string {
	switch d {
	case Question:
		return "question"
	case Dollar:
		return "dollar"
	default:
		return "Dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// Rebind rewrites each "?" marker of query, in order, into the placeholder
// syntax of d. Identifiers are not parsed, so a "?" inside a table or column
// name is rewritten as well.
func Rebind(query string, d Dialect) string {
	if d != Dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// CountPlaceholders reports how many "?" markers query carries, which is the
// number of arguments a caller must bind.
func CountPlaceholders(query string) int {
	return strings.Count(query, Placeholder)
}
