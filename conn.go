package xlite

import (
	"context"
	"database/sql"
)

// dsn builds the driver DSN for the database file under the given
// access mode. The file: form is required for mode= to take effect.
func dsn(path string, access AccessMode) string {
	return "file:" + path + "?mode=" + access.dsnMode() + "&_pragma=busy_timeout(5000)"
}

// openConn opens the shared engine handle for a unit of work. If an
// enclosing transaction, savepoint or custom-connection scope already
// owns the handle this is a no-op, as it is when the handle is simply
// still present. Engine failures are returned with the engine's code
// unmodified.
func (d *DB) openConn(ctx context.Context) error {
	st := d.st
	if st.txActive || st.spDepth > 0 || st.mode == modeCustom {
		return nil
	}
	if st.handle != nil {
		return nil
	}
	h, err := d.openHandle(ctx, ReadWriteCreate)
	if err != nil {
		return err
	}
	st.handle = h
	st.mode = modeDefault
	return nil
}

// closeConn is the symmetric guard: a no-op while an enclosing scope
// still owns the handle, best-effort otherwise. A failing engine close
// is logged but the handle is cleared regardless.
func (d *DB) closeConn() {
	st := d.st
	if st.txActive || st.spDepth > 0 || st.mode == modeCustom {
		return
	}
	if st.handle == nil {
		return
	}
	if err := st.handle.Close(); err != nil {
		d.log.Warn("closing engine handle failed", "error", err)
	}
	st.handle = nil
	st.mode = modeClosed
}

// openCustom opens the handle under an explicit access mode. A custom
// connection is mutually exclusive with transactions, savepoints and
// other custom connections; violations are rejected before any native
// call.
func (d *DB) openCustom(ctx context.Context, access AccessMode) error {
	st := d.st
	switch {
	case st.txActive:
		return ErrCustomInTransaction
	case st.spDepth > 0:
		return ErrCustomInSavepoint
	case st.mode == modeCustom:
		return ErrCustomOpen
	}
	h, err := d.openHandle(ctx, access)
	if err != nil {
		return err
	}
	st.handle = h
	st.mode = modeCustom
	st.access = access
	return nil
}

// closeCustom closes a custom connection. The state is reset to
// Closed regardless of the engine close status; the status is still
// reported.
func (d *DB) closeCustom() error {
	st := d.st
	switch {
	case st.txActive:
		return ErrCustomCloseInTransaction
	case st.spDepth > 0:
		return ErrCustomCloseInSavepoint
	case st.mode != modeCustom:
		return ErrCustomNotOpen
	}
	err := st.handle.Close()
	st.handle = nil
	st.mode = modeClosed
	st.access = 0
	return d.engineErr("close custom connection", err)
}

// WithConnection opens a custom connection under the given access
// mode, runs body with a scope-derived DB, and closes the connection
// again. It cannot be invoked while a transaction, savepoint or
// another custom connection owns the handle, and cannot itself be
// nested.
//
// body's error is surfaced as returned; a close failure is surfaced
// only when body succeeded.
func (d *DB) WithConnection(ctx context.Context, access AccessMode, body func(context.Context, *DB) error) error {
	return d.run(ctx, func(ctx context.Context) error {
		if err := d.openCustom(ctx, access); err != nil {
			return err
		}
		bodyErr := body(ctx, d.scoped())
		if cerr := d.closeCustom(); cerr != nil && bodyErr == nil {
			return cerr
		}
		return bodyErr
	})
}

func (d *DB) openHandle(ctx context.Context, access AccessMode) (*sql.DB, error) {
	h, err := sql.Open("sqlite", dsn(d.st.path, access))
	if err != nil {
		return nil, d.engineErr("open", err)
	}
	// The pool is pinned to one connection: the *sql.DB is the single
	// native handle the mode flags guard.
	h.SetMaxOpenConns(1)
	if err := h.PingContext(ctx); err != nil {
		_ = h.Close()
		return nil, d.engineErr("open", err)
	}
	return h, nil
}
