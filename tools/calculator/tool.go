package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Knetic/govaluate"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// Input Tool for evaluating mathematical expressions. Supports arithmetic,
// exponentiation and a small function set (sqrt, abs, round, min, max).
type Input struct {
	schema.Base
	// Expression mathematical expression to evaluate, e.g. '2 + 2'.
	Expression string `json:"expression" jsonschema:"title=expression,description=Mathematical expression to evaluate. For example '2 + 2'." validate:"required"`
	// Params optional named parameters referenced by the expression.
	Params map[string]interface{} `json:"params,omitempty" jsonschema:"title=params,description=Parameters for the expression."`
}

func NewInput(exp string, params map[string]interface{}) *Input {
	return &Input{Expression: exp, Params: params}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output Schema for the output of the calculator tool.
type Output struct {
	schema.Base
	// Result result of the calculation.
	Result interface{} `json:"result,omitempty" jsonschema:"title=result,description=Result of the calculation."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

var exprFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt": func(args ...interface{}) (interface{}, error) {
		v, err := oneFloat("sqrt", args)
		if err != nil {
			return nil, err
		}
		return math.Sqrt(v), nil
	},
	"abs": func(args ...interface{}) (interface{}, error) {
		v, err := oneFloat("abs", args)
		if err != nil {
			return nil, err
		}
		return math.Abs(v), nil
	},
	"round": func(args ...interface{}) (interface{}, error) {
		v, err := oneFloat("round", args)
		if err != nil {
			return nil, err
		}
		return math.Round(v), nil
	},
	"min": func(args ...interface{}) (interface{}, error) {
		return fold("min", args, math.Min)
	},
	"max": func(args ...interface{}) (interface{}, error) {
		return fold("max", args, math.Max)
	},
}

func oneFloat(name string, args []interface{}) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s expects one argument", name)
	}
	v, ok := args[0].(float64)
	if !ok {
		return 0, fmt.Errorf("%s expects a number", name)
	}
	return v, nil
}

func fold(name string, args []interface{}, f func(a, b float64) float64) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s expects at least one argument", name)
	}
	acc, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("%s expects numbers", name)
	}
	for _, a := range args[1:] {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects numbers", name)
		}
		acc = f(acc, v)
	}
	return acc, nil
}

var constParams = map[string]interface{}{
	"pi": math.Pi,
	"e":  math.E,
}

type Tool struct {
	tools.Config
}

func New(opts ...tools.Option) *Tool {
	ret := new(Tool)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("CalculatorTool")
	}
	return ret
}

// Run evaluates the expression with the given parameters.
func (t *Tool) Run(ctx context.Context, input *Input) (*Output, error) {
	exp, err := govaluate.NewEvaluableExpressionWithFunctions(input.Expression, exprFunctions)
	if err != nil {
		return nil, err
	}
	params := make(map[string]interface{}, len(input.Params)+len(constParams))
	for k, v := range input.Params {
		params[k] = v
	}
	for k, v := range constParams {
		if _, ok := params[k]; !ok {
			params[k] = v
		}
	}
	result, err := exp.Evaluate(params)
	if err != nil {
		return nil, err
	}
	return &Output{Result: result}, nil
}

// BinaryInput Schema for the two-operand convenience operations.
type BinaryInput struct {
	schema.Base
	// A first operand.
	A float64 `json:"a" jsonschema:"title=a,description=First operand."`
	// B second operand.
	B float64 `json:"b" jsonschema:"title=b,description=Second operand."`
}

func (s BinaryInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Add returns a + b.
func (t *Tool) Add(ctx context.Context, input *BinaryInput) (*Output, error) {
	return &Output{Result: input.A + input.B}, nil
}

// Multiply returns a * b.
func (t *Tool) Multiply(ctx context.Context, input *BinaryInput) (*Output, error) {
	return &Output{Result: input.A * input.B}, nil
}
