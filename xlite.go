package xlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// connMode is the state of the shared connection handle.
type connMode int

const (
	modeClosed connMode = iota
	modeDefault
	modeCustom
)

// AccessMode selects how a custom connection opens the database file.
type AccessMode int

const (
	ReadOnly AccessMode = iota
	ReadWrite
	ReadWriteCreate
)

func (m AccessMode) dsnMode() string {
	switch m {
	case ReadOnly:
		return "ro"
	case ReadWrite:
		return "rw"
	default:
		return "rwc"
	}
}

// state is the connection-mode state machine. It is only ever touched
// from inside a scheduled unit of work or from a scope body holding
// the owner token, so it needs no lock of its own.
type state struct {
	path   string
	handle *sql.DB
	mode   connMode
	access AccessMode

	txActive bool
	spDepth  int

	lastInsertID int64
	rowsChanged  int64
}

// DB is a serialized safety layer over a single SQLite database file.
//
// Every public operation is a unit of work executed on the database's
// single logical executor, so at most one engine operation is in
// flight at a time and concurrent callers are ordered FIFO. The bodies
// of Transaction, Savepoint and WithConnection receive a derived *DB
// carrying an owner token; operations invoked through it bypass the
// queue and run inline, which is what makes nested calls inside a
// scope safe.
//
// A DB must be created with Open and released with Close. The engine
// connection itself is opened lazily per operation and held open for
// the duration of an enclosing scope.
type DB struct {
	st    *state
	sched *serializer
	log   *slog.Logger

	// owned marks a scope-derived handle; see scoped.
	owned bool
}

// Option configures a DB created by Open.
type Option func(*DB)

// WithLogger routes the database's diagnostics to l instead of
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *DB) {
		if l != nil {
			d.log = l
		}
	}
}

// Open creates a DB bound to the database file at path. The engine is
// not touched: the file is opened on first use and created then if it
// does not exist.
func Open(path string, opts ...Option) (*DB, error) {
	if path == "" {
		return nil, errors.New("xlite: empty database path")
	}
	d := &DB{
		st:    &state{path: path},
		sched: newSerializer(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DefaultPath returns a deterministic per-user location for a database
// named name, creating the parent directory if needed.
func DefaultPath(name string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "xlite")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.st.path }

// Close releases the engine handle if one is still open and stops the
// executor. Units submitted after Close fail with ErrClosed. Close is
// idempotent; it must not be called from inside a scope body.
func (d *DB) Close() error {
	if d.owned {
		return errors.New("xlite: cannot close from inside a connection scope")
	}
	var err error
	d.sched.stopOnce.Do(func() {
		err = d.run(context.Background(), func(context.Context) error {
			st := d.st
			if st.handle == nil {
				return nil
			}
			cerr := st.handle.Close()
			st.handle = nil
			st.mode = modeClosed
			st.txActive = false
			st.spDepth = 0
			if cerr != nil {
				d.log.Warn("closing engine handle failed", "error", cerr)
			}
			return nil
		})
		close(d.sched.quit)
	})
	return err
}

// scoped derives the owner-token view of d handed to scope bodies.
// It shares all state; only the token differs.
func (d *DB) scoped() *DB {
	c := *d
	c.owned = true
	return &c
}
