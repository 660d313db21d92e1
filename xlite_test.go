package xlite

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
)

// newTestDB creates a DB backed by a real database file in a per-test
// temp directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"), WithLogger(slog.Default()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func mustExec(t *testing.T, d *DB, query string, args ...any) {
	t.Helper()
	if err := d.Exec(context.Background(), query, args...); err != nil {
		t.Fatalf("Exec %q: %v", query, err)
	}
}

func countRows(t *testing.T, d *DB, table string) int64 {
	t.Helper()
	rows, err := d.Query(context.Background(), "SELECT COUNT(*) AS n FROM "+EscapeIdentifier(table))
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	if len(rows) != 1 {
		t.Fatalf("count %s: %d rows", table, len(rows))
	}
	return rows[0].Int("n")
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_DoesNotTouchEngine(t *testing.T) {
	d := newTestDB(t)
	if d.st.handle != nil || d.st.mode != modeClosed {
		t.Fatalf("expected closed state after Open, got mode %d", d.st.mode)
	}
}

func TestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = d.Close() }()
	if d.Path() != path {
		t.Fatalf("Path=%q want %q", d.Path(), path)
	}
}

func TestClose_Idempotent(t *testing.T) {
	d := newTestDB(t)
	mustExec(t, d, `CREATE TABLE t (a INTEGER)`)
	if err := d.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestClose_RejectsLaterOperations(t *testing.T) {
	d := newTestDB(t)
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	err := d.Exec(context.Background(), `CREATE TABLE t (a INTEGER)`)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	p, err := DefaultPath("app.db")
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if filepath.Base(p) != "app.db" {
		t.Fatalf("unexpected path %q", p)
	}
}
