package xlite

import (
	"context"
	"strconv"
)

// Transaction runs body inside an exclusive transaction. The body
// receives a scope-derived DB whose operations run inline; it returns
// true to commit and false to roll back.
//
// Transactions do not nest and cannot be started inside a savepoint or
// a custom-connection scope. If COMMIT fails a best-effort ROLLBACK is
// issued automatically and the commit error is surfaced. The
// connection is closed on exit unless an enclosing scope owns it.
func (d *DB) Transaction(ctx context.Context, body func(context.Context, *DB) bool) error {
	return d.run(ctx, func(ctx context.Context) error {
		st := d.st
		switch {
		case st.spDepth > 0:
			return ErrTxInSavepoint
		case st.txActive:
			return ErrTxInTransaction
		case st.mode == modeCustom:
			return ErrTxInCustom
		}
		if err := d.openConn(ctx); err != nil {
			return err
		}
		if _, err := st.handle.ExecContext(ctx, "BEGIN EXCLUSIVE"); err != nil {
			e := d.engineErr("begin transaction", err)
			d.closeConn()
			return e
		}
		st.txActive = true

		var err error
		if body(ctx, d.scoped()) {
			if _, cerr := st.handle.ExecContext(ctx, "COMMIT"); cerr != nil {
				err = d.engineErr("commit", cerr)
				if _, rerr := st.handle.ExecContext(ctx, "ROLLBACK"); rerr != nil {
					d.log.Warn("rollback after failed commit failed", "error", rerr)
				}
			}
		} else {
			if _, rerr := st.handle.ExecContext(ctx, "ROLLBACK"); rerr != nil {
				err = d.engineErr("rollback", rerr)
			}
		}

		st.txActive = false
		d.closeConn()
		return err
	})
}

// Savepoint runs body inside a named savepoint. Savepoints nest
// freely, inside transactions and inside other savepoints; each level
// is named savepointN where N is its depth. The body returns true to
// release the savepoint and false to roll back to it.
//
// Rolling back to a savepoint does not pop it, so the rollback path
// still releases on success. If the rollback itself fails, the
// release is skipped, the depth is decremented exactly once and the
// connection is closed; the rollback error is surfaced.
func (d *DB) Savepoint(ctx context.Context, body func(context.Context, *DB) bool) error {
	return d.run(ctx, func(ctx context.Context) error {
		st := d.st
		if st.mode == modeCustom {
			return ErrSavepointInCustom
		}
		if err := d.openConn(ctx); err != nil {
			return err
		}
		name := quoteText("savepoint" + strconv.Itoa(st.spDepth+1))
		if _, err := st.handle.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
			e := d.engineErr("savepoint", err)
			d.closeConn()
			return e
		}
		st.spDepth++

		var err error
		if body(ctx, d.scoped()) {
			if _, rerr := st.handle.ExecContext(ctx, "RELEASE "+name); rerr != nil {
				err = d.engineErr("release savepoint", rerr)
			}
			st.spDepth--
		} else {
			if _, rerr := st.handle.ExecContext(ctx, "ROLLBACK TO "+name); rerr != nil {
				err = d.engineErr("rollback to savepoint", rerr)
				st.spDepth--
				d.closeConn()
				return err
			}
			if _, rerr := st.handle.ExecContext(ctx, "RELEASE "+name); rerr != nil {
				err = d.engineErr("release savepoint", rerr)
			}
			st.spDepth--
		}

		d.closeConn()
		return err
	})
}
