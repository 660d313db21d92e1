package xlite

import (
	"context"
	"time"
)

// ColumnValue is a decoded cell: the typed value together with the
// column's declared SQL type (empty for computed columns) and the
// engine-reported storage class of this particular cell.
type ColumnValue struct {
	Value        Value
	DeclaredType string
	Storage      StorageClass
}

// Row is an ordered mapping from column name to ColumnValue. Rows are
// decoded copies with no reference to the connection that produced
// them, so they are safe to keep after the connection closes.
type Row struct {
	columns []string
	cells   map[string]ColumnValue
}

// Columns returns the column names in result order.
func (r Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Cell returns the decoded cell for the named column.
func (r Row) Cell(name string) (ColumnValue, bool) {
	c, ok := r.cells[name]
	return c, ok
}

// Value returns the typed value for the named column, Null if the
// column is absent.
func (r Row) Value(name string) Value {
	return r.cells[name].Value
}

// Typed accessors with the Value type's usual coercions.
func (r Row) Int(name string) int64 { return r.Value(name).Int() }

func (r Row) Float(name string) float64 { return r.Value(name).Float() }

func (r Row) Bool(name string) bool { return r.Value(name).Bool() }

func (r Row) Text(name string) string { return r.Value(name).Text() }

func (r Row) Bytes(name string) []byte { return r.Value(name).Bytes() }

func (r Row) Time(name string) time.Time { return r.Value(name).Time() }

// Query executes a SQL query and decodes every result row. Args are
// substituted by Bind exactly as in Exec.
//
// Cells are decoded through the column's declared type when the schema
// provides one, falling back to the engine-reported storage class for
// computed columns; see ColumnValue.
//
// Example:
//
//	rows, err := db.Query(ctx, `SELECT id, email FROM users WHERE age > ?`, 21)
//	for _, r := range rows {
//	    fmt.Println(r.Int("id"), r.Text("email"))
//	}
func (d *DB) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	var out []Row
	err := d.run(ctx, func(ctx context.Context) (err error) {
		if err := d.openConn(ctx); err != nil {
			return err
		}
		defer d.closeConn()

		bound, err := bindArgs(d.log, query, args)
		if err != nil {
			return err
		}
		rows, err := d.st.handle.QueryContext(ctx, bound)
		if err != nil {
			return d.engineErr("query", err)
		}
		// Propagate rows.Close() error if nothing else failed.
		defer func() {
			if cerr := rows.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		types, err := rows.ColumnTypes()
		if err != nil {
			return d.engineErr("query", err)
		}
		names := make([]string, len(types))
		decls := make([]string, len(types))
		for i, t := range types {
			names[i] = t.Name()
			decls[i] = t.DatabaseTypeName()
		}

		for rows.Next() {
			raw := make([]any, len(names))
			ptrs := make([]any, len(names))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return d.engineErr("query", err)
			}
			r := Row{
				columns: append([]string(nil), names...),
				cells:   make(map[string]ColumnValue, len(names)),
			}
			for i, name := range names {
				r.cells[name] = ColumnValue{
					Value:        decodeColumn(raw[i], decls[i], d.log),
					DeclaredType: decls[i],
					Storage:      storageOf(raw[i]),
				}
			}
			out = append(out, r)
		}
		if ne := rows.Err(); ne != nil {
			return d.engineErr("query", ne)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
