package ast

// Raw wraps SQL text that is spliced verbatim into the compiled statement
// where a value would otherwise be bound. A Raw never appears in the
// argument list and never consumes a placeholder.
//
// The content is rendered without escaping. Never pass user-controlled
// input; use a bound value for anything that is data rather than SQL.
type Raw struct {
	Content string
}

// NewRaw wraps expr as inline SQL text.
func NewRaw(expr string) Raw {
	return Raw{Content: expr}
}

// AsRaw reports whether v is a Raw (by value or pointer) and returns it.
func AsRaw(v any) (Raw, bool) {
	switch r := v.(type) {
	case Raw:
		return r, true
	case *Raw:
		if r != nil {
			return *r, true
		}
	}
	return Raw{}, false
}
