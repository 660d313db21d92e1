package xlite

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// QueryAs executes the query and maps every row into a value of type
// T.
//
// T may be a struct or a primitive. Struct fields bind by `db:"name"`
// tag first, otherwise by case-insensitive field name; anonymous
// embedded structs are flattened. Extra columns are ignored and
// missing columns leave zero values. A primitive T requires a
// single-column result.
//
// Example:
//
//	type City struct {
//	    Name       string `db:"Name"`
//	    Population int64  `db:"Population"`
//	}
//	cities, err := xlite.QueryAs[City](ctx, db, `SELECT * FROM Cities`)
func QueryAs[T any](ctx context.Context, d *DB, query string, args ...any) ([]T, error) {
	rows, err := d.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := mapRow[T](r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetAs executes the query and maps the first row into a value of
// type T. It returns sql.ErrNoRows when the query yields no rows;
// additional rows are ignored.
func GetAs[T any](ctx context.Context, d *DB, query string, args ...any) (T, error) {
	var zero T
	rows, err := d.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, sql.ErrNoRows
	}
	return mapRow[T](rows[0])
}

// fieldIndexCache caches the column-name -> field-index-path table per
// struct type.
var fieldIndexCache sync.Map // reflect.Type -> map[string][]int

func fieldIndex(t reflect.Type) map[string][]int {
	if cached, ok := fieldIndexCache.Load(t); ok {
		return cached.(map[string][]int)
	}
	m := make(map[string][]int)
	addFieldIndexes(m, t, nil)
	fieldIndexCache.Store(t, m)
	return m
}

func addFieldIndexes(dst map[string][]int, t reflect.Type, prefix []int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			addFieldIndexes(dst, f.Type, append(append([]int(nil), prefix...), i))
			continue
		}
		name := f.Tag.Get("db")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		key := strings.ToLower(name)
		if _, exists := dst[key]; exists {
			continue // outermost field wins
		}
		dst[key] = append(append([]int(nil), prefix...), i)
	}
}

func mapRow[T any](r Row) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	if rv.Kind() == reflect.Struct && rv.Type() != reflect.TypeOf(time.Time{}) {
		idx := fieldIndex(rv.Type())
		for _, col := range r.columns {
			path, ok := idx[strings.ToLower(col)]
			if !ok {
				continue
			}
			if err := assignValue(rv.FieldByIndex(path), r.cells[col].Value); err != nil {
				return out, fmt.Errorf("xlite: column %q: %w", col, err)
			}
		}
		return out, nil
	}

	if len(r.columns) != 1 {
		return out, fmt.Errorf("xlite: cannot map %d columns into %s", len(r.columns), rv.Type())
	}
	if err := assignValue(rv, r.cells[r.columns[0]].Value); err != nil {
		return out, fmt.Errorf("xlite: column %q: %w", r.columns[0], err)
	}
	return out, nil
}

func assignValue(dst reflect.Value, v Value) error {
	if !dst.CanSet() {
		return fmt.Errorf("cannot set %s", dst.Type())
	}
	if dst.Type() == reflect.TypeOf(Value{}) {
		dst.Set(reflect.ValueOf(v))
		return nil
	}
	if dst.Type() == reflect.TypeOf(time.Time{}) {
		dst.Set(reflect.ValueOf(v.Time()))
		return nil
	}
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(v.Text())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst.SetUint(uint64(v.Int()))
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(v.Float())
	case reflect.Bool:
		dst.SetBool(v.Bool())
	case reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes(v.Bytes())
			return nil
		}
		return fmt.Errorf("unsupported destination %s", dst.Type())
	case reflect.Interface:
		if dst.NumMethod() == 0 {
			if v.IsNull() {
				dst.SetZero()
			} else {
				dst.Set(reflect.ValueOf(v.Any()))
			}
			return nil
		}
		return fmt.Errorf("unsupported destination %s", dst.Type())
	default:
		return fmt.Errorf("unsupported destination %s", dst.Type())
	}
	return nil
}
