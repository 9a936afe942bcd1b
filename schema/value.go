package schema

import "encoding/json"

// Value wraps an arbitrary structured payload (decoded JSON, tool output
// structs, error bodies). Upstream message shapes are converted to Value at
// the trace boundary so downstream code never branches on the source shape.
type Value struct {
	v any
}

func NewValue(v any) Value {
	return Value{v: v}
}

func (v Value) Raw() any {
	return v.v
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.v)
}

func (v *Value) UnmarshalJSON(bs []byte) error {
	return json.Unmarshal(bs, &v.v)
}

// Map returns the payload as a map when it is one.
func (v Value) Map() (map[string]any, bool) {
	m, ok := v.v.(map[string]any)
	return m, ok
}
