package stmt

import "slices"

// Table describes the columns statements are built from. Columns is in bind
// order and normally includes PrimaryKey.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []string
}

// Set holds the statements generated for one table. Update and Delete are
// empty when the table has no primary key, and Update is empty when the key
// is the only column.
type Set struct {
	Insert string
	Update string
	Delete string
}

// UpdateColumns returns the columns an update sets: every column except the
// primary key, in order.
func (t Table) UpdateColumns() []string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c == t.PrimaryKey {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// HasPrimaryKey reports whether update and delete statements can be built.
func (t Table) HasPrimaryKey() bool { return t.PrimaryKey != "" }

// Statements builds the insert, update and delete statements for t.
func (t Table) Statements() Set {
	set := Set{Insert: BuildInsertStatement(t.Name, t.Columns...)}
	if !t.HasPrimaryKey() {
		return set
	}
	if cols := t.UpdateColumns(); len(cols) > 0 {
		set.Update = BuildUpdateStatement(t.Name, t.PrimaryKey, cols...)
	}
	set.Delete = BuildDeleteStatement(t.Name, t.PrimaryKey)
	return set
}

// Rebind returns a copy of s with every statement rewritten for d.
func (s Set) Rebind(d Dialect) Set {
	return Set{
		Insert: Rebind(s.Insert, d),
		Update: Rebind(s.Update, d),
		Delete: Rebind(s.Delete, d),
	}
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	t.Columns = slices.Clone(t.Columns)
	return t
}
