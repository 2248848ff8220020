package stmt

import "strings"

// Placeholder is the positional bind marker emitted by the builders.
const Placeholder = "?"

const separator = ","

// BuildInsertStatement returns an INSERT statement binding every column, in
// order:
//
//	insert into users(id,name) values(?,?)
func BuildInsertStatement(table string, columns ...string) string {
	var b strings.Builder
	b.WriteString("insert into ")
	b.WriteString(table)
	b.WriteByte('(')
	b.WriteString(joinColumns(columns))
	b.WriteString(") values(")
	b.WriteString(placeholders(len(columns)))
	b.WriteByte(')')
	return b.String()
}

// BuildUpdateStatement returns an UPDATE statement that sets every column and
// matches on the primary key. The key is bound last:
//
//	update users set name=?,email=? where id=?
func BuildUpdateStatement(table, primaryKeyColumn string, columns ...string) string {
	var b strings.Builder
	b.WriteString("update ")
	b.WriteString(table)
	b.WriteString(" set ")
	b.WriteString(assignments(columns))
	b.WriteString(" where ")
	b.WriteString(assignments([]string{primaryKeyColumn}))
	return b.String()
}

// BuildDeleteStatement returns a DELETE statement matching on the primary key.
func BuildDeleteStatement(table, primaryKeyColumn string) string {
	var b strings.Builder
	b.WriteString("delete from ")
	b.WriteString(table)
	b.WriteString(" where ")
	b.WriteString(assignments([]string{primaryKeyColumn}))
	return b.String()
}

func joinColumns(columns []string) string {
	return strings.Join(columns, separator)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	marks := make([]string, n)
	for i := range marks {
		marks[i] = Placeholder
	}
	return strings.Join(marks, separator)
}

func assignments(columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, column+"="+Placeholder)
	}
	return strings.Join(parts, separator)
}
