package agents

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/omakase-ai/concierge/oracle"
	"github.com/omakase-ai/concierge/tools"
)

var validate = validator.New()

// InvokeFunc runs one tool call. Arguments are the raw JSON string the oracle
// emitted.
type InvokeFunc func(ctx context.Context, arguments string) (any, error)

// Fallback is one alternative data-acquisition strategy of a binding, tried
// in order when the tier above errored or came back empty.
type Fallback struct {
	Name   string
	Invoke InvokeFunc
}

// Binding attaches a tool schema to its primary invocation and fallback
// tiers.
type Binding struct {
	Schema    oracle.ToolSchema
	Invoke    InvokeFunc
	Fallbacks []Fallback
}

// Bind adapts a typed tool method into an InvokeFunc. Arguments are decoded
// into I and validated before the call.
func Bind[I any, O any](fn func(context.Context, *I) (*O, error)) InvokeFunc {
	return func(ctx context.Context, arguments string) (any, error) {
		input := new(I)
		if arguments != "" && arguments != "null" {
			if err := json.Unmarshal([]byte(arguments), input); err != nil {
				return nil, tools.NewProviderError(tools.ErrMalformed, err)
			}
		}
		if err := validate.Struct(input); err != nil {
			return nil, tools.NewProviderError(tools.ErrMalformed, err)
		}
		out, err := fn(ctx, input)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, nil
		}
		return *out, nil
	}
}

// SchemaFor reflects a tool input type into the JSON schema the oracle sees.
func SchemaFor[I any](name, description string) oracle.ToolSchema {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	reflected := reflector.Reflect(new(I))
	bs, _ := json.Marshal(reflected)
	var params map[string]any
	_ = json.Unmarshal(bs, &params)
	delete(params, "$schema")
	delete(params, "$id")
	return oracle.ToolSchema{
		Name:        name,
		Description: description,
		Parameters:  params,
	}
}

// NewBinding builds a binding for a typed tool method.
func NewBinding[I any, O any](name, description string, fn func(context.Context, *I) (*O, error), fallbacks ...Fallback) *Binding {
	return &Binding{
		Schema:    SchemaFor[I](name, description),
		Invoke:    Bind(fn),
		Fallbacks: fallbacks,
	}
}

// NewFallback names a typed fallback tier.
func NewFallback[I any, O any](name string, fn func(context.Context, *I) (*O, error)) Fallback {
	return Fallback{Name: name, Invoke: Bind(fn)}
}
