package xlite

import (
	"context"
	"fmt"
	"strings"
)

// DataType is the declared type keyword a table column is created
// with. Each variant maps to one SQL keyword, chosen so the value
// codec classifies it back into the matching affinity family.
type DataType int

const (
	TypeText DataType = iota
	TypeInteger
	TypeReal
	TypeBoolean
	TypeBlob
	TypeTimestamp
)

func (t DataType) String() string {
	switch t {
	case TypeText:
		return "TEXT"
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeBlob:
		return "BLOB"
	case TypeTimestamp:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// ColumnDef declares one column of a table created with CreateTable.
type ColumnDef struct {
	Name string
	Type DataType
}

// CreateTable creates the table if it does not already exist. At
// least one column is required.
func (d *DB) CreateTable(ctx context.Context, name string, cols []ColumnDef) error {
	if len(cols) == 0 {
		return ErrNoColumns
	}
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(EscapeIdentifier(name))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(EscapeIdentifier(c.Name))
		b.WriteByte(' ')
		b.WriteString(c.Type.String())
	}
	b.WriteByte(')')
	return d.Exec(ctx, b.String())
}

// DeleteTable drops the table if it exists.
func (d *DB) DeleteTable(ctx context.Context, name string) error {
	return d.Exec(ctx, "DROP TABLE IF EXISTS "+EscapeIdentifier(name))
}

// Tables returns the names of all user tables in the database.
func (d *DB) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.Query(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableDiscovery, err)
	}
	return nameColumn(rows), nil
}

// CreateIndex creates an index named name over the given columns of
// table, unique when requested. The column sequence must be non-empty.
func (d *DB) CreateIndex(ctx context.Context, name string, cols []string, table string, unique bool) error {
	if len(cols) == 0 {
		return ErrNoColumns
	}
	var b strings.Builder
	b.WriteString("CREATE ")
	if unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX IF NOT EXISTS ")
	b.WriteString(EscapeIdentifier(name))
	b.WriteString(" ON ")
	b.WriteString(EscapeIdentifier(table))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(EscapeIdentifier(c))
	}
	b.WriteByte(')')
	return d.Exec(ctx, b.String())
}

// RemoveIndex drops the index if it exists.
func (d *DB) RemoveIndex(ctx context.Context, name string) error {
	return d.Exec(ctx, "DROP INDEX IF EXISTS "+EscapeIdentifier(name))
}

// Indexes returns the names of all user indexes in the database.
func (d *DB) Indexes(ctx context.Context) ([]string, error) {
	rows, err := d.Query(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexDiscovery, err)
	}
	return nameColumn(rows), nil
}

// IndexesForTable returns the names of the user indexes on one table.
func (d *DB) IndexesForTable(ctx context.Context, table string) ([]string, error) {
	rows, err := d.Query(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name NOT LIKE 'sqlite_%' AND tbl_name = ?`,
		table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexDiscovery, err)
	}
	return nameColumn(rows), nil
}

func nameColumn(rows []Row) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Text("name"))
	}
	return names
}
