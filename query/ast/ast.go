// Package ast defines the inert descriptors that the sqlgen package compiles
// into executable statements. A descriptor describes one SQL operation's
// intent; it holds no connection state and is never mutated by compilation.
package ast

// QueryNode represents a single compilable operation.
type QueryNode interface {
	Type() NodeType
}

// NodeType identifies the kind of operation a descriptor stands for.
type NodeType string

const (
	NodeTypeSelect      NodeType = "select"
	NodeTypeSelectOne   NodeType = "selectOne"
	NodeTypeInsert      NodeType = "insert"
	NodeTypeUpdate      NodeType = "update"
	NodeTypeDelete      NodeType = "delete"
	NodeTypeCreateTable NodeType = "createTable"
	NodeTypeDropTable   NodeType = "dropTable"
)

// Row maps column names to values. A value may be any bindable Go value or a
// Raw, which is spliced into the statement verbatim instead of being bound.
type Row map[string]any

// SelectQuery describes a SELECT statement.
type SelectQuery struct {
	Table   string
	Fields  ColumnList
	Joins   []Join
	Where   Where
	GroupBy ColumnList
	Having  Conditions
	OrderBy OrderBy

	// Limit and Offset render only when greater than zero; a value of 0 is
	// indistinguishable from unset.
	Limit  int
	Offset int

	// One compiles the query with LIMIT 1 and a single-row fetch mode.
	One bool

	// Lazy asks the executor to stream rows through a cursor instead of
	// buffering the whole result. The compiler ignores it.
	Lazy bool
}

func (q *SelectQuery) Type() NodeType {
	if q.One {
		return NodeTypeSelectOne
	}
	return NodeTypeSelect
}

// InsertQuery describes an INSERT statement. Exactly one of Row or Rows must
// be set: Row inserts a single record and fetches one result row, Rows
// inserts a batch sharing one column list and fetches all result rows.
type InsertQuery struct {
	Table      string
	Row        Row
	Rows       []Row
	Returning  ColumnList
	OnConflict Conflict
}

func (q *InsertQuery) Type() NodeType { return NodeTypeInsert }

// UpdateQuery describes an UPDATE statement. Data values wrapped in Raw are
// spliced inline and consume no placeholder.
type UpdateQuery struct {
	Table      string
	Data       Row
	Where      Where
	Returning  ColumnList
	OnConflict ConflictAction
}

func (q *UpdateQuery) Type() NodeType { return NodeTypeUpdate }

// DeleteQuery describes a DELETE statement. Where is required by contract:
// the compiler accepts its absence but a DELETE without conditions is almost
// certainly a caller bug, and is logged as such.
type DeleteQuery struct {
	Table     string
	Where     Where
	Returning ColumnList
	OrderBy   OrderBy
	Limit     int
	Offset    int
}

func (q *DeleteQuery) Type() NodeType { return NodeTypeDelete }

// CreateTableQuery describes a CREATE TABLE statement. Schema is raw column
// definition text placed between the parentheses, unvalidated.
type CreateTableQuery struct {
	Table       string
	Schema      string
	IfNotExists bool
}

func (q *CreateTableQuery) Type() NodeType { return NodeTypeCreateTable }

// DropTableQuery describes a DROP TABLE statement.
type DropTableQuery struct {
	Table    string
	IfExists bool
}

func (q *DropTableQuery) Type() NodeType { return NodeTypeDropTable }
