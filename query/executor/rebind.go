package executor

import (
	"strconv"
	"strings"
)

// Rebind translates a compiled statement's `?n` placeholders into the
// backend's native syntax and returns the query plus the argument list in
// the order the backend will consume it.
//
//   - sqlite understands `?NNN` natively; query and args pass through.
//   - postgres renames `?n` to `$n`; the numbered form keeps its meaning, so
//     the argument order is untouched.
//   - mysql only has bare `?`, which binds strictly left to right, so each
//     `?n` becomes `?` and the arguments are reordered to the placeholders'
//     textual order. Numbered placeholders can reference arguments out of
//     textual order (an UPDATE's SET placeholders sit before its WHERE text
//     but are numbered after it), which is why the reorder is required.
//
// Placeholders inside single- or double-quoted runs are left alone.
func Rebind(provider, query string, args []any) (string, []any) {
	switch normalizeProvider(provider) {
	case ProviderPostgres:
		out, _ := rewritePlaceholders(query, args, func(sb *strings.Builder, n int) {
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(n))
		})
		return out, args
	case ProviderMySQL:
		return rewritePlaceholders(query, args, func(sb *strings.Builder, n int) {
			sb.WriteString("?")
		})
	default:
		return query, args
	}
}

// rewritePlaceholders walks the query, emitting each `?n` through emit and
// collecting the referenced arguments in textual order. Quoted runs are
// copied verbatim.
func rewritePlaceholders(query string, args []any, emit func(*strings.Builder, int)) (string, []any) {
	var (
		sb      strings.Builder
		ordered = make([]any, 0, len(args))
		quote   byte
	)
	sb.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]

		if quote != 0 {
			sb.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			sb.WriteByte(c)
		case c == '?' && i+1 < len(query) && isDigit(query[i+1]):
			j := i + 1
			for j < len(query) && isDigit(query[j]) {
				j++
			}
			n, _ := strconv.Atoi(query[i+1 : j])
			emit(&sb, n)
			if n >= 1 && n <= len(args) {
				ordered = append(ordered, args[n-1])
			}
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), ordered
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Canonical provider names.
const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
	ProviderMySQL    = "mysql"
)

func normalizeProvider(provider string) string {
	switch strings.ToLower(provider) {
	case "postgres", "postgresql", "pg":
		return ProviderPostgres
	case "mysql":
		return ProviderMySQL
	case "sqlite", "sqlite3":
		return ProviderSQLite
	default:
		return strings.ToLower(provider)
	}
}
