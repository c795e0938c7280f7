package ast

// ColumnList is a column-selection clause that accepts either a verbatim
// expression or a list of columns joined with ", ". Used for SELECT fields,
// GROUP BY and RETURNING.
type ColumnList struct {
	Expr string
	List []string
}

// IsZero reports whether the clause is absent.
func (c ColumnList) IsZero() bool {
	return c.Expr == "" && len(c.List) == 0
}

// Columns creates a ColumnList from individual column names.
func Columns(cols ...string) ColumnList {
	return ColumnList{List: cols}
}

// Where is a filtering clause in one of three shapes: a bare condition
// string, a list of condition strings joined with " AND ", or either of
// those paired with the values bound by the `?n` placeholders embedded in
// the condition text. A bare string or list without Params is fully literal.
//
// Placeholder numbers inside the condition text are authored by the caller,
// starting at ?1, and stay stable no matter which statement the clause ends
// up in; compilers number their own placeholders around them.
type Where struct {
	Expr       string
	Conditions []string
	Params     []any
}

// IsZero reports whether the clause is absent.
func (w Where) IsZero() bool {
	return w.Expr == "" && len(w.Conditions) == 0
}

// ParamCount returns the number of values the clause binds.
func (w Where) ParamCount() int {
	return len(w.Params)
}

// Cond creates a single-condition Where with its bound values.
func Cond(condition string, params ...any) Where {
	return Where{Expr: condition, Params: params}
}

// Conditions is a HAVING-style clause: a bare condition string or a list of
// condition strings joined with " AND ", carrying no bound values.
type Conditions struct {
	Expr string
	List []string
}

// IsZero reports whether the clause is absent.
func (c Conditions) IsZero() bool {
	return c.Expr == "" && len(c.List) == 0
}

// Join describes one JOIN item. The join target is either a plain table name
// or a nested SelectQuery compiled to a parenthesized, aliased subquery.
// Subqueries are compiled for their text only: their bound values are not
// merged into the outer argument list, so subquery conditions should be
// literal.
type Join struct {
	// Type is the literal join type prefixed before JOIN ("LEFT", "INNER",
	// ...). Empty renders a plain JOIN.
	Type  string
	Table string
	Sub   *SelectQuery
	Alias string
	On    string
}

// OrderPair is one ORDER BY column with an explicit direction.
type OrderPair struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// OrderBy is an ordering clause: a verbatim expression, a column list, or
// ordered column/direction pairs rendered as "col DIR" in the order given.
type OrderBy struct {
	Expr  string
	List  []string
	Pairs []OrderPair
}

// IsZero reports whether the clause is absent.
func (o OrderBy) IsZero() bool {
	return o.Expr == "" && len(o.List) == 0 && len(o.Pairs) == 0
}

// ConflictAction is a simple conflict-resolution keyword rendered as
// "INSERT OR <action> INTO" or "UPDATE OR <action>".
type ConflictAction string

const (
	ConflictIgnore  ConflictAction = "IGNORE"
	ConflictReplace ConflictAction = "REPLACE"
)

// Conflict is an insert's conflict-resolution clause: either a bare keyword
// or a structured upsert. Upsert takes precedence when both are set.
type Conflict struct {
	Action ConflictAction
	Upsert *ConflictUpsert
}

// IsZero reports whether the clause is absent.
func (c Conflict) IsZero() bool {
	return c.Action == "" && c.Upsert == nil
}

// ConflictUpsert turns an insert into
// "INSERT ... ON CONFLICT (<columns>) DO UPDATE SET <data> [WHERE <guard>]".
// Data values wrapped in Raw (for example excluded.col) are spliced inline
// and consume no placeholder.
type ConflictUpsert struct {
	Columns []string
	Data    Row
	Where   Where
}
