package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON decoding for descriptors. Each clause that accepts several shapes
// (string, list, structured object) decodes all of them, so descriptors can
// be written as plain JSON documents:
//
//	{"kind": "insert", "tableName": "t", "data": {"a": "x"}}
//
// A value of the form {"$raw": "CURRENT_TIMESTAMP"} decodes to a Raw.

// DecodeQuery decodes a JSON descriptor carrying a "kind" discriminator into
// the matching QueryNode.
func DecodeQuery(data []byte) (QueryNode, error) {
	var head struct {
		Kind NodeType `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ast: invalid descriptor: %w", err)
	}

	var node QueryNode
	switch head.Kind {
	case NodeTypeSelect, NodeTypeSelectOne:
		q := &SelectQuery{One: head.Kind == NodeTypeSelectOne}
		node = q
	case NodeTypeInsert:
		node = &InsertQuery{}
	case NodeTypeUpdate:
		node = &UpdateQuery{}
	case NodeTypeDelete:
		node = &DeleteQuery{}
	case NodeTypeCreateTable:
		node = &CreateTableQuery{}
	case NodeTypeDropTable:
		node = &DropTableQuery{}
	case "":
		return nil, fmt.Errorf("ast: descriptor is missing a kind")
	default:
		return nil, fmt.Errorf("ast: unknown descriptor kind %q", head.Kind)
	}

	if err := json.Unmarshal(data, node); err != nil {
		return nil, fmt.Errorf("ast: invalid %s descriptor: %w", head.Kind, err)
	}
	return node, nil
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isJSONNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// UnmarshalJSON accepts a string or a list of strings.
func (c *ColumnList) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		c.Expr = ""
		return json.Unmarshal(data, &c.List)
	}
	c.List = nil
	return json.Unmarshal(data, &c.Expr)
}

// UnmarshalJSON accepts a string, a list of strings, or an object of the
// form {"conditions": ..., "params": [...]}.
func (w *Where) UnmarshalJSON(data []byte) error {
	*w = Where{}
	switch {
	case isJSONObject(data):
		var body struct {
			Conditions json.RawMessage `json:"conditions"`
			Params     []any           `json:"params"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return err
		}
		w.Params = body.Params
		if len(body.Conditions) == 0 {
			return nil
		}
		if isJSONArray(body.Conditions) {
			return json.Unmarshal(body.Conditions, &w.Conditions)
		}
		return json.Unmarshal(body.Conditions, &w.Expr)
	case isJSONArray(data):
		return json.Unmarshal(data, &w.Conditions)
	default:
		return json.Unmarshal(data, &w.Expr)
	}
}

// UnmarshalJSON accepts a string or a list of strings.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		c.Expr = ""
		return json.Unmarshal(data, &c.List)
	}
	c.List = nil
	return json.Unmarshal(data, &c.Expr)
}

// UnmarshalJSON accepts a string, a list of strings, or a list of
// {"column": ..., "direction": ...} pairs.
func (o *OrderBy) UnmarshalJSON(data []byte) error {
	*o = OrderBy{}
	if !isJSONArray(data) {
		return json.Unmarshal(data, &o.Expr)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	for _, item := range items {
		if isJSONObject(item) {
			var pair OrderPair
			if err := json.Unmarshal(item, &pair); err != nil {
				return err
			}
			o.Pairs = append(o.Pairs, pair)
			continue
		}
		var col string
		if err := json.Unmarshal(item, &col); err != nil {
			return err
		}
		o.List = append(o.List, col)
	}
	return nil
}

// UnmarshalJSON accepts a conflict keyword string or an upsert object.
func (c *Conflict) UnmarshalJSON(data []byte) error {
	*c = Conflict{}
	if isJSONObject(data) {
		c.Upsert = &ConflictUpsert{}
		return json.Unmarshal(data, c.Upsert)
	}
	var action string
	if err := json.Unmarshal(data, &action); err != nil {
		return err
	}
	c.Action = ConflictAction(action)
	return nil
}

// UnmarshalJSON accepts {"column": "k"} or {"columns": ["k1", "k2"]} for the
// conflict target, plus the update data and optional guard where.
func (u *ConflictUpsert) UnmarshalJSON(data []byte) error {
	var body struct {
		Column  string   `json:"column"`
		Columns []string `json:"columns"`
		Data    Row      `json:"data"`
		Where   Where    `json:"where"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	u.Columns = body.Columns
	if body.Column != "" {
		u.Columns = append([]string{body.Column}, u.Columns...)
	}
	u.Data = body.Data
	u.Where = body.Where
	return nil
}

// UnmarshalJSON accepts a plain table name or a nested select descriptor for
// the join target.
func (j *Join) UnmarshalJSON(data []byte) error {
	var body struct {
		Type  string          `json:"type"`
		Table json.RawMessage `json:"table"`
		Alias string          `json:"alias"`
		On    string          `json:"on"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*j = Join{Type: body.Type, Alias: body.Alias, On: body.On}
	if len(body.Table) == 0 || isJSONNull(body.Table) {
		return nil
	}
	if isJSONObject(body.Table) {
		j.Sub = &SelectQuery{}
		return json.Unmarshal(body.Table, j.Sub)
	}
	return json.Unmarshal(body.Table, &j.Table)
}

// UnmarshalJSON decodes row values, turning {"$raw": "..."} objects into Raw
// literals.
func (r *Row) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	row := make(Row, len(fields))
	for col, raw := range fields {
		if isJSONObject(raw) {
			var marker struct {
				Raw *string `json:"$raw"`
			}
			if err := json.Unmarshal(raw, &marker); err == nil && marker.Raw != nil {
				row[col] = NewRaw(*marker.Raw)
				continue
			}
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		row[col] = v
	}
	*r = row
	return nil
}

// UnmarshalJSON decodes an insert descriptor whose "data" is either a single
// row object or an array of rows.
func (q *InsertQuery) UnmarshalJSON(data []byte) error {
	var body struct {
		Table      string          `json:"tableName"`
		Data       json.RawMessage `json:"data"`
		Returning  ColumnList      `json:"returning"`
		OnConflict Conflict        `json:"onConflict"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*q = InsertQuery{Table: body.Table, Returning: body.Returning, OnConflict: body.OnConflict}
	if len(body.Data) == 0 || isJSONNull(body.Data) {
		return nil
	}
	if isJSONArray(body.Data) {
		return json.Unmarshal(body.Data, &q.Rows)
	}
	return json.Unmarshal(body.Data, &q.Row)
}

// UnmarshalJSON decodes a select descriptor; "join" may be a single join
// object or an array of joins.
func (q *SelectQuery) UnmarshalJSON(data []byte) error {
	var body struct {
		Table   string          `json:"tableName"`
		Fields  ColumnList      `json:"fields"`
		Join    json.RawMessage `json:"join"`
		Where   Where           `json:"where"`
		GroupBy ColumnList      `json:"groupBy"`
		Having  Conditions      `json:"having"`
		OrderBy OrderBy         `json:"orderBy"`
		Limit   int             `json:"limit"`
		Offset  int             `json:"offset"`
		Lazy    bool            `json:"lazy"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	var joins []Join
	if len(body.Join) > 0 && !isJSONNull(body.Join) {
		if isJSONArray(body.Join) {
			if err := json.Unmarshal(body.Join, &joins); err != nil {
				return err
			}
		} else {
			var one Join
			if err := json.Unmarshal(body.Join, &one); err != nil {
				return err
			}
			joins = []Join{one}
		}
	}

	one := q.One
	*q = SelectQuery{
		Table:   body.Table,
		Fields:  body.Fields,
		Joins:   joins,
		Where:   body.Where,
		GroupBy: body.GroupBy,
		Having:  body.Having,
		OrderBy: body.OrderBy,
		Limit:   body.Limit,
		Offset:  body.Offset,
		One:     one,
		Lazy:    body.Lazy,
	}
	return nil
}

// UnmarshalJSON decodes an update descriptor.
func (q *UpdateQuery) UnmarshalJSON(data []byte) error {
	var body struct {
		Table      string     `json:"tableName"`
		Data       Row        `json:"data"`
		Where      Where      `json:"where"`
		Returning  ColumnList `json:"returning"`
		OnConflict string     `json:"onConflict"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*q = UpdateQuery{
		Table:      body.Table,
		Data:       body.Data,
		Where:      body.Where,
		Returning:  body.Returning,
		OnConflict: ConflictAction(body.OnConflict),
	}
	return nil
}

// UnmarshalJSON decodes a delete descriptor.
func (q *DeleteQuery) UnmarshalJSON(data []byte) error {
	var body struct {
		Table     string     `json:"tableName"`
		Where     Where      `json:"where"`
		Returning ColumnList `json:"returning"`
		OrderBy   OrderBy    `json:"orderBy"`
		Limit     int        `json:"limit"`
		Offset    int        `json:"offset"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*q = DeleteQuery{
		Table:     body.Table,
		Where:     body.Where,
		Returning: body.Returning,
		OrderBy:   body.OrderBy,
		Limit:     body.Limit,
		Offset:    body.Offset,
	}
	return nil
}

// UnmarshalJSON decodes a create-table descriptor.
func (q *CreateTableQuery) UnmarshalJSON(data []byte) error {
	var body struct {
		Table       string `json:"tableName"`
		Schema      string `json:"schema"`
		IfNotExists bool   `json:"ifNotExists"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*q = CreateTableQuery{Table: body.Table, Schema: body.Schema, IfNotExists: body.IfNotExists}
	return nil
}

// UnmarshalJSON decodes a drop-table descriptor.
func (q *DropTableQuery) UnmarshalJSON(data []byte) error {
	var body struct {
		Table    string `json:"tableName"`
		IfExists bool   `json:"ifExists"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*q = DropTableQuery{Table: body.Table, IfExists: body.IfExists}
	return nil
}
