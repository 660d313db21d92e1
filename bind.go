package xlite

import (
	"fmt"
	"log/slog"
)

// Bind substitutes the arguments into the template's placeholders and
// returns the final SQL text.
//
// Two placeholder forms are recognized:
//
//   - ?   a value slot: the argument is escaped with EscapeValue and
//     spliced in place of the question mark.
//   - i?  an identifier slot: the argument must be an Identifier or a
//     string; it is escaped with EscapeIdentifier and spliced in place
//     of both characters.
//
// Arguments are consumed strictly in order. A placeholder with no
// argument left fails with ErrBindTooFew; leftover arguments fail with
// ErrBindTooMany; a non-string argument in an identifier slot fails
// with ErrBindIdentifier, reporting the zero-based argument index.
//
// Substitution is purely textual: the template is scanned character by
// character with a one-character lookback and no SQL tokenization, so
// a ? or i? inside a string literal or comment is substituted too.
// This is a documented characteristic of the protocol, not a defect.
//
// Example:
//
//	sql, err := xlite.Bind(
//	    `INSERT INTO t (a, i?) VALUES (?, ?)`,
//	    xlite.Identifier("col"), 5, "x",
//	)
//	// sql => INSERT INTO t (a, "col") VALUES (5, 'x')
func Bind(template string, args ...any) (string, error) {
	return bindArgs(slog.Default(), template, args)
}

func bindArgs(log *slog.Logger, template string, args []any) (string, error) {
	out := make([]byte, 0, len(template)+16)
	next := 0

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '?' {
			out = append(out, c)
			continue
		}
		if next >= len(args) {
			return "", fmt.Errorf("bind %q: %w", template, ErrBindTooFew)
		}
		arg := args[next]
		if i > 0 && template[i-1] == 'i' {
			name, ok := identifierArg(arg)
			if !ok {
				return "", fmt.Errorf("bind: argument %d: %w", next, ErrBindIdentifier)
			}
			out = out[:len(out)-1] // the i is part of the token
			out = append(out, EscapeIdentifier(name)...)
		} else {
			out = append(out, escapeValue(ValueOf(arg), log)...)
		}
		next++
	}

	if next < len(args) {
		return "", fmt.Errorf("bind %q: %w", template, ErrBindTooMany)
	}
	return string(out), nil
}

func identifierArg(arg any) (string, bool) {
	switch x := arg.(type) {
	case Identifier:
		return string(x), true
	case string:
		return x, true
	default:
		return "", false
	}
}
