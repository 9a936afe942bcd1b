package schema

import "encoding/json"

// Schema is the interface implemented by every message payload that can be
// appended to a trace: plain text, tool outputs, structured error bodies.
type Schema interface {
	// Raw returns the underlying value the schema carries.
	Raw() any
}

// Stringify renders a schema as the string the oracle sees.
func Stringify(s Schema) string {
	if s == nil {
		return ""
	}
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ToBytes renders a schema as raw bytes.
func ToBytes(s Schema) []byte {
	if v, ok := s.(String); ok {
		return []byte(v)
	}
	bs, _ := json.Marshal(s)
	return bs
}
