package xlite

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrClosed is returned by every operation submitted after Close.
var ErrClosed = errors.New("xlite: database is closed")

// Error is a failure with a numeric code. Codes are partitioned into
// bands: 0-101 are the engine's primary result codes, 2xx are binding
// errors, 3xx custom-connection errors, 4xx table/index errors and 5xx
// transaction/savepoint errors. Engine failures carry the engine's
// detail string; layer failures carry only the code.
//
// Errors compare by code, so errors.Is(err, ErrBindTooFew) matches any
// Error with code 201 no matter how it was wrapped.
type Error struct {
	Code   int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("xlite: %s: %s", ErrorMessage(e.Code), e.Detail)
	}
	return "xlite: " + ErrorMessage(e.Code)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Binding errors (band 2xx).
var (
	ErrBindTooFew     = &Error{Code: 201}
	ErrBindTooMany    = &Error{Code: 202}
	ErrBindIdentifier = &Error{Code: 203}
)

// Custom-connection errors (band 3xx).
var (
	ErrCustomOpen               = &Error{Code: 301}
	ErrCustomNotOpen            = &Error{Code: 302}
	ErrCustomInSavepoint        = &Error{Code: 303}
	ErrCustomInTransaction      = &Error{Code: 304}
	ErrCustomCloseInSavepoint   = &Error{Code: 305}
	ErrCustomCloseInTransaction = &Error{Code: 306}
)

// Table and index errors (band 4xx).
var (
	ErrNoColumns      = &Error{Code: 401}
	ErrIndexDiscovery = &Error{Code: 402}
	ErrTableDiscovery = &Error{Code: 403}
)

// Transaction and savepoint errors (band 5xx).
var (
	ErrTxInSavepoint     = &Error{Code: 501}
	ErrTxInTransaction   = &Error{Code: 502}
	ErrTxInCustom        = &Error{Code: 503}
	ErrSavepointInCustom = &Error{Code: 504}
)

// Code extracts the numeric code from an error returned by this
// package. It returns 0 for nil (success), the band code for *Error,
// the masked primary result code for raw engine errors, and
// CodeUnknown for anything else.
func Code(err error) int {
	if err == nil {
		return sqlite3.SQLITE_OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() & 0xff
	}
	return CodeUnknown
}

// CodeUnknown is reported by Code for errors that carry no band code,
// such as context cancellation.
const CodeUnknown = -1

var engineMessages = map[int]string{
	sqlite3.SQLITE_OK:         "not an error",
	sqlite3.SQLITE_ERROR:      "SQL logic error",
	sqlite3.SQLITE_INTERNAL:   "internal engine error",
	sqlite3.SQLITE_PERM:       "access permission denied",
	sqlite3.SQLITE_ABORT:      "query aborted",
	sqlite3.SQLITE_BUSY:       "database is locked",
	sqlite3.SQLITE_LOCKED:     "database table is locked",
	sqlite3.SQLITE_NOMEM:      "out of memory",
	sqlite3.SQLITE_READONLY:   "attempt to write a readonly database",
	sqlite3.SQLITE_INTERRUPT:  "interrupted",
	sqlite3.SQLITE_IOERR:      "disk I/O error",
	sqlite3.SQLITE_CORRUPT:    "database disk image is malformed",
	sqlite3.SQLITE_NOTFOUND:   "unknown operation",
	sqlite3.SQLITE_FULL:       "database or disk is full",
	sqlite3.SQLITE_CANTOPEN:   "unable to open database file",
	sqlite3.SQLITE_PROTOCOL:   "locking protocol",
	sqlite3.SQLITE_EMPTY:      "empty database",
	sqlite3.SQLITE_SCHEMA:     "database schema has changed",
	sqlite3.SQLITE_TOOBIG:     "string or blob too big",
	sqlite3.SQLITE_CONSTRAINT: "constraint failed",
	sqlite3.SQLITE_MISMATCH:   "datatype mismatch",
	sqlite3.SQLITE_MISUSE:     "bad parameter or other API misuse",
	sqlite3.SQLITE_NOLFS:      "large file support is disabled",
	sqlite3.SQLITE_AUTH:       "authorization denied",
	sqlite3.SQLITE_RANGE:      "column index out of range",
	sqlite3.SQLITE_NOTADB:     "file is not a database",
	sqlite3.SQLITE_ROW:        "another row available",
	sqlite3.SQLITE_DONE:       "no more rows available",
}

var layerMessages = map[int]string{
	201: "not enough arguments to bind",
	202: "too many arguments to bind",
	203: "argument bound as identifier must be a string",
	301: "a custom connection is already open",
	302: "no custom connection is open",
	303: "a custom connection cannot be opened within a savepoint",
	304: "a custom connection cannot be opened within a transaction",
	305: "a custom connection cannot be closed within a savepoint",
	306: "a custom connection cannot be closed within a transaction",
	401: "at least one column name must be provided",
	402: "error extracting index names from sqlite_master",
	403: "error extracting table names from sqlite_master",
	501: "cannot begin a transaction within a savepoint",
	502: "cannot begin a transaction within another transaction",
	503: "cannot begin a transaction within a custom connection",
	504: "cannot open a savepoint within a custom connection",
}

// ErrorMessage returns the static message for a result code, covering
// both the engine's primary result codes and this layer's own bands.
func ErrorMessage(code int) string {
	if m, ok := engineMessages[code]; ok {
		return m
	}
	if m, ok := layerMessages[code]; ok {
		return m
	}
	return "unknown error"
}

// engineErr captures a failing native call: it logs a structured
// diagnostic and converts engine errors into coded *Error values. The
// engine's own code is passed through unmodified (masked to its
// primary value, extended codes share the low byte).
func (d *DB) engineErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		d.log.Error("engine call failed", "op", op, "code", code, "detail", se.Error())
		return &Error{Code: code, Detail: se.Error()}
	}
	d.log.Error("engine call failed", "op", op, "error", err)
	return fmt.Errorf("xlite: %s: %w", op, err)
}
