package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/sqlstmt/internal/config"
	"github.com/electwix/sqlstmt/internal/tabledef"
	"github.com/electwix/sqlstmt/stmt"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunInlineTablesToStdout(t *testing.T) {
	t.Parallel()

	writer := &MemoryWriter{}
	p := Pipeline{Env: Environment{Writer: writer}}

	summary, err := p.Run(context.Background(), RunOptions{Tables: []string{"users(id*, name, email)"}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := `-- users
insert into users(id,name,email) values(?,?,?)
update users set name=?,email=? where id=?
delete from users where id=?
`
	if diff := cmp.Diff(want, string(summary.Output.Content)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if summary.Output.Path != "" || summary.Written {
		t.Fatalf("expected stdout output, got %+v", summary.Output.Path)
	}
	if writer.FileCount() != 0 {
		t.Fatalf("writer invoked for stdout output")
	}
}

func TestRunConfigWritesGoFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := writeFixture(t, dir, "sqlstmt.toml", `
package = "db"
out = "gen/statements.go"
format = "go"
dialect = "dollar"

[[tables]]
name = "user_accounts"
primary_key = "id"
columns = ["id", "email"]
`)

	writer := &MemoryWriter{}
	var logs bytes.Buffer
	p := Pipeline{Env: Environment{
		Writer: writer,
		Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}}

	summary, err := p.Run(context.Background(), RunOptions{
		ConfigPath: configPath,
		Tables:     []string{"audit_log(message)"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	outPath := filepath.Join(dir, "gen", "statements.go")
	content, ok := writer.GetFile(outPath)
	if !ok {
		t.Fatalf("expected %s to be written, have %d files", outPath, writer.FileCount())
	}
	if !summary.Written {
		t.Fatal("summary should report a write")
	}
	for _, want := range []string{
		"package db",
		`"update user_accounts set email=$1 where id=$2"`,
		"InsertAuditLog",
		"userAccountsColumns",
	} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("generated file missing %q:\n%s", want, content)
		}
	}
	if !strings.Contains(logs.String(), "built statements") {
		t.Fatalf("expected debug logging, got %q", logs.String())
	}
}

func TestRunOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := writeFixture(t, dir, "sqlstmt.yaml", `
format: go
tables:
  - name: users
    primary_key: id
    columns: [id, name]
`)

	p := Pipeline{Env: Environment{Writer: &MemoryWriter{}}}
	summary, err := p.Run(context.Background(), RunOptions{
		ConfigPath: configPath,
		Format:     "text",
		Dialect:    "postgres",
		Package:    "other",
		DryRun:     true,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Plan.Format != config.FormatText || summary.Plan.Dialect != stmt.Dollar || summary.Plan.Package != "other" {
		t.Fatalf("overrides not applied: %+v", summary.Plan)
	}
	if !strings.Contains(string(summary.Output.Content), "values($1,$2)") {
		t.Fatalf("unexpected output %q", summary.Output.Content)
	}
}

func TestRunDryRunSkipsWrite(t *testing.T) {
	t.Parallel()

	writer := &MemoryWriter{}
	p := Pipeline{Env: Environment{Writer: writer}}
	out := filepath.Join(t.TempDir(), "out.sql")

	summary, err := p.Run(context.Background(), RunOptions{Tables: []string{"t(a)"}, Out: out, DryRun: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Output.Path != out {
		t.Fatalf("Output.Path = %q, want %q", summary.Output.Path, out)
	}
	if writer.FileCount() != 0 || summary.Written {
		t.Fatal("dry run wrote output")
	}
}

func TestRunSkipsUnchangedFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.sql")
	if err := os.WriteFile(out, []byte("-- t\ninsert into t(a) values(?)\n"), 0o600); err != nil {
		t.Fatalf("write existing output: %v", err)
	}

	writer := &MemoryWriter{}
	p := Pipeline{Env: Environment{Writer: writer}}
	summary, err := p.Run(context.Background(), RunOptions{Tables: []string{"t(a)"}, Out: out})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if writer.FileCount() != 0 || summary.Written {
		t.Fatal("unchanged output was rewritten")
	}
}

func TestRunOSWriter(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "nested", "out.sql")
	p := Pipeline{}
	if _, err := p.Run(context.Background(), RunOptions{Tables: []string{"t(a*)"}, Out: out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "delete from t where a=?") {
		t.Fatalf("unexpected output %q", data)
	}
}

type failingWriter struct{}

func (failingWriter) WriteFile(string, []byte) error { return errors.New("disk full") }

func TestRunErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	p := Pipeline{Env: Environment{Writer: failingWriter{}}}
	_, err := p.Run(ctx, RunOptions{Tables: []string{"t(a)"}, Out: filepath.Join(t.TempDir(), "x.sql")})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected WriteError, got %v", err)
	}

	if _, err := p.Run(ctx, RunOptions{}); !errors.Is(err, ErrNoTables) {
		t.Fatalf("expected ErrNoTables, got %v", err)
	}

	var defErr *tabledef.Error
	if _, err := p.Run(ctx, RunOptions{Tables: []string{"t("}}); !errors.As(err, &defErr) {
		t.Fatalf("expected tabledef.Error, got %v", err)
	}

	if _, err := p.Run(ctx, RunOptions{Tables: []string{"t(a)", "t(b)"}}); err == nil || !strings.Contains(err.Error(), "duplicate table") {
		t.Fatalf("expected duplicate table error, got %v", err)
	}

	if _, err := p.Run(ctx, RunOptions{Tables: []string{"t(a)"}, Dialect: "oracle"}); !errors.Is(err, stmt.ErrUnknownDialect) {
		t.Fatalf("expected ErrUnknownDialect, got %v", err)
	}

	if _, err := p.Run(ctx, RunOptions{Tables: []string{"t(a)"}, Format: "go", Package: "not-valid"}); err == nil {
		t.Fatal("expected invalid package error")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := p.Run(canceled, RunOptions{Tables: []string{"t(a)"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
