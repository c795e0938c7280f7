package sqlgen

import "errors"

// Sentinel errors for descriptor contract violations. Compilation fails
// fast: no partial SQL text is ever returned alongside one of these.
var (
	// ErrNoTable is returned when a descriptor has no table name.
	ErrNoTable = errors.New("sqlgen: missing table name")

	// ErrNoData is returned when an insert, update or upsert carries an
	// empty data map.
	ErrNoData = errors.New("sqlgen: empty data map")

	// ErrNoSchema is returned when a create-table descriptor has no column
	// definition text.
	ErrNoSchema = errors.New("sqlgen: missing table schema")

	// ErrJoinAlias is returned when a subquery join has no alias to bind
	// the parenthesized result to.
	ErrJoinAlias = errors.New("sqlgen: subquery join requires an alias")

	// ErrJoinTable is returned when a join names neither a table nor a
	// subquery.
	ErrJoinTable = errors.New("sqlgen: join requires a table or subquery")

	// ErrConflictTarget is returned when a structured upsert has no
	// conflict columns.
	ErrConflictTarget = errors.New("sqlgen: upsert requires conflict columns")

	// ErrUnsupported is returned by Compile for an unknown node type.
	ErrUnsupported = errors.New("sqlgen: unsupported query node")
)
