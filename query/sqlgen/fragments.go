package sqlgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/G4brym/workers-qb/query/ast"
)

// Fragment renderers turn one optional clause into SQL text. They never
// touch the argument accumulator; argument-bearing clauses expose counts so
// the statement compilers can assign placeholder ranges by prefix sum.

func renderFields(c ast.ColumnList) string {
	switch {
	case c.Expr != "":
		return c.Expr
	case len(c.List) > 0:
		return strings.Join(c.List, ", ")
	default:
		return "*"
	}
}

func whereText(w ast.Where) string {
	if w.Expr != "" {
		return w.Expr
	}
	return strings.Join(w.Conditions, " AND ")
}

func renderWhere(w ast.Where) string {
	if w.IsZero() {
		return ""
	}
	return " WHERE " + whereText(w)
}

// renderJoins emits the join items in the order supplied, each prefixed with
// a space. A nested SelectQuery target is compiled recursively and embedded
// as a parenthesized, aliased subquery; the subquery text is byte-identical
// to compiling the same descriptor on its own.
func renderJoins(joins []ast.Join) (string, error) {
	var sb strings.Builder
	for _, j := range joins {
		sb.WriteString(" ")
		if j.Type != "" {
			sb.WriteString(strings.ToUpper(j.Type))
			sb.WriteString(" ")
		}
		sb.WriteString("JOIN ")

		switch {
		case j.Sub != nil:
			if j.Alias == "" {
				return "", ErrJoinAlias
			}
			sub, err := CompileSelect(j.Sub)
			if err != nil {
				return "", fmt.Errorf("subquery join: %w", err)
			}
			sb.WriteString("(")
			sb.WriteString(sub.Query)
			sb.WriteString(") AS ")
			sb.WriteString(j.Alias)
		case j.Table != "":
			sb.WriteString(j.Table)
			if j.Alias != "" {
				sb.WriteString(" AS ")
				sb.WriteString(j.Alias)
			}
		default:
			return "", ErrJoinTable
		}

		if j.On != "" {
			sb.WriteString(" ON ")
			sb.WriteString(j.On)
		}
	}
	return sb.String(), nil
}

func renderGroupBy(c ast.ColumnList) string {
	switch {
	case c.Expr != "":
		return " GROUP BY " + c.Expr
	case len(c.List) > 0:
		return " GROUP BY " + strings.Join(c.List, ", ")
	default:
		return ""
	}
}

func renderHaving(c ast.Conditions) string {
	switch {
	case c.Expr != "":
		return " HAVING " + c.Expr
	case len(c.List) > 0:
		return " HAVING " + strings.Join(c.List, " AND ")
	default:
		return ""
	}
}

func renderOrderBy(o ast.OrderBy) string {
	switch {
	case o.Expr != "":
		return " ORDER BY " + o.Expr
	case len(o.List) > 0:
		return " ORDER BY " + strings.Join(o.List, ", ")
	case len(o.Pairs) > 0:
		parts := make([]string, len(o.Pairs))
		for i, p := range o.Pairs {
			dir := strings.ToUpper(p.Direction)
			if dir == "" {
				dir = "ASC"
			}
			parts[i] = p.Column + " " + dir
		}
		return " ORDER BY " + strings.Join(parts, ", ")
	default:
		return ""
	}
}

// renderLimit renders only for values greater than zero: a limit of exactly
// 0 is indistinguishable from absent.
func renderLimit(n int) string {
	if n > 0 {
		return fmt.Sprintf(" LIMIT %d", n)
	}
	return ""
}

func renderOffset(n int) string {
	if n > 0 {
		return fmt.Sprintf(" OFFSET %d", n)
	}
	return ""
}

func renderReturning(c ast.ColumnList) string {
	switch {
	case c.Expr != "":
		return " RETURNING " + c.Expr
	case len(c.List) > 0:
		return " RETURNING " + strings.Join(c.List, ", ")
	default:
		return ""
	}
}

// sortedColumns returns the row's column names in sorted order. Map
// iteration order is random, and compilation must be deterministic for the
// same descriptor to compile to the same statement every time.
func sortedColumns(row ast.Row) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// renderTuple emits one parenthesized VALUES tuple for the given column
// order. Bound values take the next placeholder number and are appended to
// args; Raw values splice their content and consume neither.
func renderTuple(cols []string, row ast.Row, next *int, args *[]any) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		v := row[col]
		if raw, ok := ast.AsRaw(v); ok {
			parts[i] = raw.Content
			continue
		}
		parts[i] = fmt.Sprintf("?%d", *next)
		*args = append(*args, v)
		*next++
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// renderAssignments emits "col = ?n" SET assignments in sorted column
// order, numbering from *next; Raw values splice inline.
func renderAssignments(data ast.Row, next *int, args *[]any) []string {
	cols := sortedColumns(data)
	parts := make([]string, len(cols))
	for i, col := range cols {
		v := data[col]
		if raw, ok := ast.AsRaw(v); ok {
			parts[i] = col + " = " + raw.Content
			continue
		}
		parts[i] = fmt.Sprintf("%s = ?%d", col, *next)
		*args = append(*args, v)
		*next++
	}
	return parts
}
