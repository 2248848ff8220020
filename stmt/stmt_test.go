package stmt

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildInsertStatement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		table   string
		columns []string
		want    string
	}{
		{name: "no columns", table: "users", want: "insert into users() values()"},
		{name: "nil columns", table: "users", columns: nil, want: "insert into users() values()"},
		{name: "single column", table: "users", columns: []string{"id"}, want: "insert into users(id) values(?)"},
		{name: "two columns", table: "users", columns: []string{"id", "name"}, want: "insert into users(id,name) values(?,?)"},
		{name: "verbatim identifiers", table: "main.Users", columns: []string{"First Name", "x"}, want: "insert into main.Users(First Name,x) values(?,?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BuildInsertStatement(tt.table, tt.columns...); got != tt.want {
				t.Fatalf("BuildInsertStatement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildUpdateStatement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		columns []string
		want    string
	}{
		{name: "no columns", want: "update users set  where id=?"},
		{name: "single column", columns: []string{"name"}, want: "update users set name=? where id=?"},
		{name: "two columns", columns: []string{"name", "email"}, want: "update users set name=?,email=? where id=?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BuildUpdateStatement("users", "id", tt.columns...); got != tt.want {
				t.Fatalf("BuildUpdateStatement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildDeleteStatement(t *testing.T) {
	t.Parallel()

	if got, want := BuildDeleteStatement("users", "id"), "delete from users where id=?"; got != want {
		t.Fatalf("BuildDeleteStatement() = %q, want %q", got, want)
	}
}

func TestInsertPlaceholdersMatchColumns(t *testing.T) {
	t.Parallel()

	pool := []string{"a", "bb", "c_c", "d.d", "e"}
	for n := 1; n <= len(pool); n++ {
		columns := pool[:n]
		got := BuildInsertStatement("t", columns...)

		if c := CountPlaceholders(got); c != n {
			t.Fatalf("%d columns: %d placeholders in %q", n, c, got)
		}

		open := strings.Index(got, "(")
		closing := strings.Index(got, ")")
		listed := strings.Split(got[open+1:closing], ",")
		if diff := cmp.Diff(columns, listed); diff != "" {
			t.Fatalf("column list mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestNoDanglingSeparators(t *testing.T) {
	t.Parallel()

	inputs := [][]string{nil, {"a"}, {"a", "b"}, {"a", "b", "c"}}
	for _, cols := range inputs {
		for _, got := range []string{
			BuildInsertStatement("t", cols...),
			BuildUpdateStatement("t", "id", cols...),
			BuildDeleteStatement("t", "id"),
		} {
			if strings.Contains(got, ",,") {
				t.Fatalf("%q contains consecutive separators", got)
			}
			if strings.Contains(got, ",)") || strings.Contains(got, ", where") || strings.Contains(got, "(,") {
				t.Fatalf("%q contains a dangling separator", got)
			}
			if strings.HasSuffix(got, ",") {
				t.Fatalf("%q ends with a separator", got)
			}
		}
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	if got := joinColumns(nil); got != "" {
		t.Fatalf("joinColumns(nil) = %q", got)
	}
	if got := placeholders(0); got != "" {
		t.Fatalf("placeholders(0) = %q", got)
	}
	if got := placeholders(3); got != "?,?,?" {
		t.Fatalf("placeholders(3) = %q", got)
	}
	if got := assignments([]string{"a"}); got != "a=?" {
		t.Fatalf("assignments = %q", got)
	}
	if got := assignments([]string{"a", "b"}); got != "a=?,b=?" {
		t.Fatalf("assignments = %q", got)
	}
}
