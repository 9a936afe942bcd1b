package tools

import (
	"context"

	"github.com/omakase-ai/concierge/schema"
)

type ITool interface {
	SetTitle(string)
	Title() string
	SetDescription(string)
	Description() string
}

// Tool is a typed external data source binding.
type Tool[I schema.Schema, O schema.Schema] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Emptier lets the worker loop distinguish a successful-but-empty payload
// from a populated one, which drives fallback tier selection.
type Emptier interface {
	IsEmpty() bool
}

// IsEmpty reports whether a tool output should trigger the fallback policy.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if e, ok := v.(Emptier); ok {
		return e.IsEmpty()
	}
	return false
}
