/*
Package xlite is a small safety and convenience layer over a SQLite
database file (modernc.org/sqlite). It serializes all access to a
single shared connection, substitutes and escapes bound arguments into
SQL text, and decodes column storage back into typed values.

# Overview

A DB created by Open owns one logical connection and one executor.
Every public operation is a unit of work: it is queued on the executor
(FIFO across concurrent callers, at most one in flight), opens the
connection if needed, runs, and closes the connection again unless an
enclosing scope still owns it. The bodies passed to Transaction,
Savepoint and WithConnection receive a derived DB whose operations run
inline instead of queueing, so nested calls inside a scope cannot
deadlock the executor.

# Binding

Statements use two placeholder forms: ? binds an escaped literal value
and i? binds an escaped identifier. Substitution is purely textual and
strictly positional; see Bind for the exact contract. Supported value
types are string, bool, integers, floats, []byte, time.Time and nil;
anything else encodes to NULL with a logged warning.

# Values

Query returns rows of typed cells. A cell is decoded through the
column's declared type when the schema provides one (INTEGER, TEXT,
BLOB, REAL, BOOLEAN and DATE/DATETIME families), otherwise through the
engine-reported storage class. Timestamps use the fixed layout
"2006-01-02 15:04:05" in both directions. QueryAs and GetAs map rows
into structs by `db` tag or case-insensitive field name.

# Transactions

Transaction runs its body inside BEGIN EXCLUSIVE and commits or rolls
back on the body's say-so; a failed commit rolls back automatically.
Savepoint nests freely, inside transactions and inside itself, naming
levels savepoint1, savepoint2, … by depth. Transactions do not nest
and are mutually exclusive with custom connections.

# Error handling

Failures carry a numeric code partitioned into bands: engine result
codes below 200, then binding, custom-connection, table/index and
transaction/savepoint bands. Coded errors compare by code with
errors.Is, Code extracts the band code, and ErrorMessage returns the
static message for any code. Engine failures keep the engine's code
unmodified and are logged with a structured diagnostic at the failing
call.

# Concurrency

There is no cancellation of an in-flight unit of work: a statement
that never returns stalls every later caller. Contexts are honored
while waiting to enqueue and are threaded into engine calls. Rows
returned by Query are decoded copies and safe to use after the
connection closes.
*/
package xlite
