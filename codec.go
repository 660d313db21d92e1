package xlite

import (
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// timeLayout is the wire format for timestamps, both when escaping a
// time.Time into a literal and when parsing stored DATE/DATETIME text.
const timeLayout = "2006-01-02 15:04:05"

func formatInt(i int64) string    { return strconv.FormatInt(i, 10) }
func formatReal(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
func quoteText(s string) string   { return "'" + strings.ReplaceAll(s, "'", "''") + "'" }

// EscapeValue renders v as a SQL literal: NULL for nil, single-quoted
// text with embedded quotes doubled, bare decimal for numbers, 1/0 for
// bools, X'…' for blobs and a quoted "2006-01-02 15:04:05" string for
// time.Time. Values outside the supported union encode to NULL and a
// warning is logged.
func EscapeValue(v any) string {
	return escapeValue(ValueOf(v), slog.Default())
}

// EscapeValue is the method form of the package function; warnings go
// to the database's logger.
func (d *DB) EscapeValue(v any) string {
	return escapeValue(ValueOf(v), d.log)
}

func escapeValue(v Value, log *slog.Logger) string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindText:
		return quoteText(v.s)
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
		return "X'" + strings.ToUpper(hex.EncodeToString(v.raw)) + "'"
	case KindTime:
		return quoteText(v.t.Format(timeLayout))
	default:
		log.Warn("value is not insertable, encoding NULL", "type", v.orig)
		return "NULL"
	}
}

// EscapeIdentifier renders name as a double-quoted SQL identifier with
// embedded double quotes doubled.
func EscapeIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// typeFamily is the affinity family a declared column type classifies
// into. famNone means no declared type was available and decoding
// falls back to the engine-reported storage class.
type typeFamily int

const (
	famNone typeFamily = iota
	famInteger
	famText
	famBlob
	famReal
	famBool
	famTime
)

// classifyDeclared maps a declared column type to its affinity family,
// case-insensitively, after stripping any parenthesized size such as
// VARCHAR(255). BOOLEAN and the date/time keywords are recognized
// before the engine's ordinary affinity rules.
func classifyDeclared(decl string) typeFamily {
	u := strings.ToUpper(strings.TrimSpace(decl))
	if i := strings.IndexByte(u, '('); i >= 0 {
		u = strings.TrimSpace(u[:i])
	}
	switch u {
	case "":
		return famNone
	case "BOOL", "BOOLEAN":
		return famBool
	case "DATE", "DATETIME", "TIMESTAMP":
		return famTime
	case "NONE":
		return famBlob
	}
	switch {
	case strings.Contains(u, "INT"):
		return famInteger
	case strings.Contains(u, "CHAR"), strings.Contains(u, "CLOB"), strings.Contains(u, "TEXT"):
		return famText
	case strings.Contains(u, "BLOB"):
		return famBlob
	default:
		// REAL, DOUBLE, FLOAT, NUMERIC, DECIMAL and anything else
		// the engine would give numeric affinity.
		return famReal
	}
}

// storageOf reports the engine storage class for a raw driver value.
func storageOf(raw any) StorageClass {
	switch raw.(type) {
	case nil:
		return StorageNull
	case int64:
		return StorageInteger
	case float64:
		return StorageFloat
	case string, time.Time:
		return StorageText
	case []byte:
		return StorageBlob
	default:
		return StorageText
	}
}

// decodeColumn converts a raw driver value into a typed Value using
// the column's declared type when one is available, falling back to a
// 1:1 storage-class mapping otherwise. NULL storage decodes to Null
// regardless of the declared type. A DATE/DATETIME cell whose text
// does not parse decodes to Null and logs a warning.
func decodeColumn(raw any, decl string, log *slog.Logger) Value {
	if raw == nil {
		return Value{}
	}
	switch classifyDeclared(decl) {
	case famInteger:
		return decodeInteger(raw, decl, log)
	case famText:
		return decodeText(raw)
	case famBlob:
		return decodeBlob(raw)
	case famReal:
		return decodeReal(raw, decl, log)
	case famBool:
		return decodeBool(raw)
	case famTime:
		return decodeTime(raw, decl, log)
	default:
		return decodeStorage(raw)
	}
}

// decodeStorage is the declared-type-free fallback: a direct mapping
// from the runtime storage class.
func decodeStorage(raw any) Value {
	switch x := raw.(type) {
	case int64:
		return intValue(x)
	case float64:
		return realValue(x)
	case string:
		return textValue(x)
	case []byte:
		return blobValue(x)
	case time.Time:
		return timeValue(x)
	default:
		return Value{}
	}
}

func decodeInteger(raw any, decl string, log *slog.Logger) Value {
	switch x := raw.(type) {
	case int64:
		return intValue(x)
	case float64:
		return intValue(int64(x))
	case string:
		if i, err := strconv.ParseInt(x, 10, 64); err == nil {
			return intValue(i)
		}
	case []byte:
		if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return intValue(i)
		}
	}
	log.Warn("cannot decode storage as integer", "declared", decl)
	return Value{}
}

func decodeText(raw any) Value {
	switch x := raw.(type) {
	case string:
		return textValue(x)
	case []byte:
		return textValue(string(x))
	case int64:
		return textValue(formatInt(x))
	case float64:
		return textValue(formatReal(x))
	case time.Time:
		return textValue(x.Format(timeLayout))
	default:
		return Value{}
	}
}

func decodeBlob(raw any) Value {
	switch x := raw.(type) {
	case []byte:
		return blobValue(x)
	case string:
		return blobValue([]byte(x))
	default:
		return decodeStorage(raw)
	}
}

func decodeReal(raw any, decl string, log *slog.Logger) Value {
	switch x := raw.(type) {
	case float64:
		return realValue(x)
	case int64:
		return realValue(float64(x))
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return realValue(f)
		}
	case []byte:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return realValue(f)
		}
	}
	log.Warn("cannot decode storage as real", "declared", decl)
	return Value{}
}

func decodeBool(raw any) Value {
	switch x := raw.(type) {
	case int64:
		return boolValue(x != 0)
	case float64:
		return boolValue(x != 0)
	case string:
		return boolValue(x == "1" || strings.EqualFold(x, "true"))
	default:
		return Value{}
	}
}

func decodeTime(raw any, decl string, log *slog.Logger) Value {
	switch x := raw.(type) {
	case time.Time:
		return timeValue(x)
	case string:
		t, err := time.Parse(timeLayout, x)
		if err != nil {
			log.Warn("cannot parse stored date", "declared", decl, "value", x)
			return Value{}
		}
		return timeValue(t)
	case []byte:
		return decodeTime(string(x), decl, log)
	default:
		log.Warn("cannot decode storage as date", "declared", decl)
		return Value{}
	}
}
