package calculator

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunArithmetic(t *testing.T) {
	tool := New()
	cases := []struct {
		expression string
		params     map[string]interface{}
		want       float64
	}{
		{"2 + 2", nil, 4},
		{"(1 + 2) * 3", nil, 9},
		{"10 / 4", nil, 2.5},
		{"2 ** 10", nil, 1024},
		{"sqrt(16)", nil, 4},
		{"abs(-3.5)", nil, 3.5},
		{"round(2.4)", nil, 2},
		{"min(3, 1, 2)", nil, 1},
		{"max(3, 1, 2)", nil, 3},
		{"x * y", map[string]interface{}{"x": 6.0, "y": 7.0}, 42},
	}
	for _, tc := range cases {
		out, err := tool.Run(context.Background(), NewInput(tc.expression, tc.params))
		require.NoError(t, err, tc.expression)
		assert.InDelta(t, tc.want, out.Result, 1e-9, tc.expression)
	}
}

func TestRunConstants(t *testing.T) {
	tool := New()
	out, err := tool.Run(context.Background(), NewInput("pi * 2", nil))
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Pi, out.Result, 1e-9)

	// Caller-supplied params shadow the constants.
	out, err = tool.Run(context.Background(), NewInput("pi", map[string]interface{}{"pi": 3.0}))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out.Result, 1e-9)
}

func TestRunInvalidExpression(t *testing.T) {
	_, err := New().Run(context.Background(), NewInput("2 +* 2", nil))
	require.Error(t, err)
}

func TestAddMultiply(t *testing.T) {
	tool := New()
	out, err := tool.Add(context.Background(), &BinaryInput{A: 1.5, B: 2.5})
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Result)

	out, err = tool.Multiply(context.Background(), &BinaryInput{A: 6, B: 7})
	require.NoError(t, err)
	assert.Equal(t, 42.0, out.Result)
}
