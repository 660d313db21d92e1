package xlite

import (
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite/lib"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInteger
	KindReal
	KindBool
	KindBlob
	KindTime
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindBlob:
		return "blob"
	case KindTime:
		return "time"
	default:
		return "unsupported"
	}
}

// StorageClass is the runtime value category the engine reports for a
// cell, independent of the column's declared type. The values match
// the engine's own fundamental datatype constants.
type StorageClass int

const (
	StorageInteger StorageClass = sqlite3.SQLITE_INTEGER
	StorageFloat   StorageClass = sqlite3.SQLITE_FLOAT
	StorageText    StorageClass = sqlite3.SQLITE_TEXT
	StorageBlob    StorageClass = sqlite3.SQLITE_BLOB
	StorageNull    StorageClass = sqlite3.SQLITE_NULL
)

func (s StorageClass) String() string {
	switch s {
	case StorageInteger:
		return "integer"
	case StorageFloat:
		return "float"
	case StorageText:
		return "text"
	case StorageBlob:
		return "blob"
	case StorageNull:
		return "null"
	default:
		return "unknown"
	}
}

// Identifier marks a bind argument as a SQL identifier for an i?
// placeholder rather than a literal value.
type Identifier string

// Value is the closed union of scalar values this layer can encode to
// SQL literal text and decode from column storage. The zero Value is
// Null. Values produced by ValueOf from types outside the union are
// KindUnsupported and always encode to NULL.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	raw  []byte
	t    time.Time
	orig string // Go type name of an unsupported original
}

func textValue(s string) Value    { return Value{kind: KindText, s: s} }
func intValue(i int64) Value      { return Value{kind: KindInteger, i: i} }
func realValue(f float64) Value   { return Value{kind: KindReal, f: f} }
func boolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func blobValue(p []byte) Value    { return Value{kind: KindBlob, raw: p} }
func timeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

func unsupported(v any) Value {
	return Value{kind: KindUnsupported, orig: fmt.Sprintf("%T", v)}
}

// ValueOf converts a Go value into the Value union. Supported inputs
// are nil, Value itself, string (and Identifier), bool, all integer
// and float types, []byte, and time.Time. Anything else becomes
// KindUnsupported.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return textValue(x)
	case Identifier:
		return textValue(string(x))
	case bool:
		return boolValue(x)
	case int:
		return intValue(int64(x))
	case int8:
		return intValue(int64(x))
	case int16:
		return intValue(int64(x))
	case int32:
		return intValue(int64(x))
	case int64:
		return intValue(x)
	case uint:
		return intValue(int64(x))
	case uint8:
		return intValue(int64(x))
	case uint16:
		return intValue(int64(x))
	case uint32:
		return intValue(int64(x))
	case uint64:
		return intValue(int64(x))
	case float32:
		return realValue(float64(x))
	case float64:
		return realValue(x)
	case []byte:
		return blobValue(x)
	case time.Time:
		return timeValue(x)
	default:
		return unsupported(v)
	}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds the Null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the value as an int64. Real values truncate and bools
// map to 0/1; other variants return 0.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindReal:
		return int64(v.f)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Float returns the value as a float64. Integer values widen; other
// variants return 0.
func (v Value) Float() float64 {
	switch v.kind {
	case KindReal:
		return v.f
	case KindInteger:
		return float64(v.i)
	default:
		return 0
	}
}

// Bool returns the value as a bool. Integer values report non-zero;
// other variants return false.
func (v Value) Bool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInteger:
		return v.i != 0
	default:
		return false
	}
}

// Text returns the value rendered as text. Null and unsupported
// variants return "".
func (v Value) Text() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindInteger:
		return formatInt(v.i)
	case KindReal:
		return formatReal(v.f)
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindBlob:
		return string(v.raw)
	case KindTime:
		return v.t.Format(timeLayout)
	default:
		return ""
	}
}

// Bytes returns the blob contents, or the raw bytes of a text value.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindBlob:
		return v.raw
	case KindText:
		return []byte(v.s)
	default:
		return nil
	}
}

// Time returns the timestamp value. Text values are parsed with the
// canonical layout; the zero time is returned when nothing applies.
func (v Value) Time() time.Time {
	switch v.kind {
	case KindTime:
		return v.t
	case KindText:
		if t, err := time.Parse(timeLayout, v.s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Any returns the natural Go representation of the value: nil, string,
// int64, float64, bool, []byte, or time.Time.
func (v Value) Any() any {
	switch v.kind {
	case KindText:
		return v.s
	case KindInteger:
		return v.i
	case KindReal:
		return v.f
	case KindBool:
		return v.b
	case KindBlob:
		return v.raw
	case KindTime:
		return v.t
	default:
		return nil
	}
}
