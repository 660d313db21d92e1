package xlite

import (
	"errors"
	"strings"
	"testing"
)

func TestBind_ValuesAndIdentifier(t *testing.T) {
	got, err := Bind(`INSERT INTO t (a, i?) VALUES (?, ?)`, Identifier("col"), 5, "x")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	want := `INSERT INTO t (a, "col") VALUES (5, 'x')`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBind_IdentifierAcceptsPlainString(t *testing.T) {
	got, err := Bind(`SELECT i? FROM t`, "name")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got != `SELECT "name" FROM t` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestBind_NoPlaceholders(t *testing.T) {
	got, err := Bind(`SELECT 1`)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got != `SELECT 1` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestBind_TooFewArguments(t *testing.T) {
	_, err := Bind(`SELECT * FROM t WHERE a = ? AND b = ?`, 1)
	if !errors.Is(err, ErrBindTooFew) {
		t.Fatalf("expected ErrBindTooFew, got %v", err)
	}
}

func TestBind_TooManyArguments(t *testing.T) {
	_, err := Bind(`SELECT * FROM t WHERE a = ?`, 1, 2)
	if !errors.Is(err, ErrBindTooMany) {
		t.Fatalf("expected ErrBindTooMany, got %v", err)
	}
}

func TestBind_IdentifierTypeError(t *testing.T) {
	_, err := Bind(`SELECT i? FROM t`, 5)
	if !errors.Is(err, ErrBindIdentifier) {
		t.Fatalf("expected ErrBindIdentifier, got %v", err)
	}
	// The zero-based argument index is reported.
	if !strings.Contains(err.Error(), "argument 0") {
		t.Fatalf("missing argument index: %v", err)
	}
}

func TestBind_InsideStringLiteral(t *testing.T) {
	// Substitution is purely textual: a ? inside a string literal is a
	// placeholder too.
	got, err := Bind(`SELECT '?'`, 1)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got != `SELECT '1'` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestBind_EscapesValueText(t *testing.T) {
	got, err := Bind(`INSERT INTO t (a) VALUES (?)`, "it's")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got != `INSERT INTO t (a) VALUES ('it''s')` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestBind_AdjacentPlaceholders(t *testing.T) {
	got, err := Bind(`??`, "hi", 5)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got != `'hi'5` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestBind_LeadingIdentifierToken(t *testing.T) {
	got, err := Bind(`i? = ?`, Identifier("a"), 3)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got != `"a" = 3` {
		t.Fatalf("unexpected: %q", got)
	}
}
