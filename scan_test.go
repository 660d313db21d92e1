package xlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

type user struct {
	ID      int64  `db:"id"`
	Email   string `db:"email"`
	Admin   bool   `db:"admin"`
	Balance float64
	Joined  time.Time `db:"joined"`
	Ignored string    `db:"-"`
}

func TestQueryAs_Struct(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	mustExec(t, d, `CREATE TABLE users (
		id INTEGER, email TEXT, admin BOOLEAN, balance REAL, joined DATETIME
	)`)
	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mustExec(t, d, `INSERT INTO users VALUES (?, ?, ?, ?, ?)`,
		1, "a@example.com", true, 2.5, joined)
	mustExec(t, d, `INSERT INTO users VALUES (?, ?, ?, ?, ?)`,
		2, "b@example.com", false, 0.0, joined)

	users, err := QueryAs[user](ctx, d, `SELECT * FROM users ORDER BY id`)
	if err != nil {
		t.Fatalf("QueryAs: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len=%d want 2", len(users))
	}
	u := users[0]
	if u.ID != 1 || u.Email != "a@example.com" || !u.Admin || u.Balance != 2.5 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Joined.Format(timeLayout) != joined.Format(timeLayout) {
		t.Fatalf("joined=%v", u.Joined)
	}
	if u.Ignored != "" {
		t.Fatalf("tagged-out field was set: %q", u.Ignored)
	}
}

func TestQueryAs_ExtraAndMissingColumns(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	mustExec(t, d, `CREATE TABLE users (id INTEGER, email TEXT, extra TEXT)`)
	mustExec(t, d, `INSERT INTO users VALUES (1, 'a@example.com', 'spare')`)

	users, err := QueryAs[user](ctx, d, `SELECT id, email, extra FROM users`)
	if err != nil {
		t.Fatalf("QueryAs: %v", err)
	}
	if users[0].ID != 1 || users[0].Email != "a@example.com" {
		t.Fatalf("unexpected: %+v", users[0])
	}
	if users[0].Balance != 0 {
		t.Fatal("missing column must leave the zero value")
	}
}

func TestQueryAs_EmbeddedStruct(t *testing.T) {
	type base struct {
		ID int64 `db:"id"`
	}
	type derived struct {
		base
		Name string `db:"name"`
	}

	d := newTestDB(t)
	ctx := context.Background()
	mustExec(t, d, `CREATE TABLE t (id INTEGER, name TEXT)`)
	mustExec(t, d, `INSERT INTO t VALUES (7, 'seven')`)

	got, err := QueryAs[derived](ctx, d, `SELECT * FROM t`)
	if err != nil {
		t.Fatalf("QueryAs: %v", err)
	}
	if got[0].ID != 7 || got[0].Name != "seven" {
		t.Fatalf("unexpected: %+v", got[0])
	}
}

func TestQueryAs_Primitive(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	mustExec(t, d, `CREATE TABLE t (a INTEGER)`)
	mustExec(t, d, `INSERT INTO t VALUES (1), (2), (3)`)

	ns, err := QueryAs[int64](ctx, d, `SELECT a FROM t ORDER BY a`)
	if err != nil {
		t.Fatalf("QueryAs: %v", err)
	}
	if len(ns) != 3 || ns[0] != 1 || ns[2] != 3 {
		t.Fatalf("unexpected: %v", ns)
	}
}

func TestQueryAs_PrimitiveRejectsMultipleColumns(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	if _, err := QueryAs[int64](ctx, d, `SELECT 1, 2`); err == nil {
		t.Fatal("expected mapping error")
	}
}

func TestGetAs_FirstRow(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	mustExec(t, d, `CREATE TABLE t (a TEXT)`)
	mustExec(t, d, `INSERT INTO t VALUES ('first'), ('second')`)

	got, err := GetAs[string](ctx, d, `SELECT a FROM t ORDER BY a`)
	if err != nil {
		t.Fatalf("GetAs: %v", err)
	}
	if got != "first" {
		t.Fatalf("got %q", got)
	}
}

func TestGetAs_NoRows(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	mustExec(t, d, `CREATE TABLE t (a TEXT)`)

	_, err := GetAs[string](ctx, d, `SELECT a FROM t`)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetAs_ValueField(t *testing.T) {
	type rec struct {
		A Value `db:"a"`
	}

	d := newTestDB(t)
	ctx := context.Background()
	mustExec(t, d, `CREATE TABLE t (a INTEGER)`)
	mustExec(t, d, `INSERT INTO t VALUES (9)`)

	got, err := GetAs[rec](ctx, d, `SELECT a FROM t`)
	if err != nil {
		t.Fatalf("GetAs: %v", err)
	}
	if got.A.Kind() != KindInteger || got.A.Int() != 9 {
		t.Fatalf("unexpected: %+v", got.A)
	}
}
