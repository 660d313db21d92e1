package xlite

import (
	"context"
	"fmt"
)

// Exec executes a statement that does not return rows (INSERT, UPDATE,
// DELETE, DDL). Placeholders in query are substituted from args by
// Bind before the statement reaches the engine.
//
// Example:
//
//	err := db.Exec(ctx, `INSERT INTO users (email, i?) VALUES (?, ?)`,
//	    xlite.Identifier("age"), "a@example.com", 34)
//
// The last-insert rowid and modified-row count are recorded and can be
// read afterwards with LastInsertRowID and RowsChanged.
func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	return d.run(ctx, func(ctx context.Context) error {
		return d.execOne(ctx, query, args)
	})
}

func (d *DB) execOne(ctx context.Context, query string, args []any) error {
	if err := d.openConn(ctx); err != nil {
		return err
	}
	defer d.closeConn()

	bound, err := bindArgs(d.log, query, args)
	if err != nil {
		return err
	}
	res, err := d.st.handle.ExecContext(ctx, bound)
	if err != nil {
		return d.engineErr("exec", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		d.st.lastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		d.st.rowsChanged = n
	}
	return nil
}

// ExecMany executes the statements in order as one unit of work,
// stopping at the first failure. The failing statement's index is
// logged and folded into the returned error; the error code is the
// engine's.
func (d *DB) ExecMany(ctx context.Context, queries []string) error {
	return d.run(ctx, func(ctx context.Context) error {
		if err := d.openConn(ctx); err != nil {
			return err
		}
		defer d.closeConn()

		for i, q := range queries {
			res, err := d.st.handle.ExecContext(ctx, q)
			if err != nil {
				d.log.Error("statement failed", "statement", i, "error", err)
				return fmt.Errorf("statement %d: %w", i, d.engineErr("exec", err))
			}
			if id, err := res.LastInsertId(); err == nil {
				d.st.lastInsertID = id
			}
			if n, err := res.RowsAffected(); err == nil {
				d.st.rowsChanged = n
			}
		}
		return nil
	})
}

// LastInsertRowID returns the rowid produced by the most recent
// successful Exec or ExecMany statement on this DB.
func (d *DB) LastInsertRowID(ctx context.Context) (int64, error) {
	var id int64
	err := d.run(ctx, func(context.Context) error {
		id = d.st.lastInsertID
		return nil
	})
	return id, err
}

// RowsChanged returns the number of rows modified by the most recent
// successful Exec or ExecMany statement on this DB.
func (d *DB) RowsChanged(ctx context.Context) (int64, error) {
	var n int64
	err := d.run(ctx, func(context.Context) error {
		n = d.st.rowsChanged
		return nil
	})
	return n, err
}
