package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

type validatedInput struct {
	schema.Base
	Location string `json:"location" jsonschema:"title=location,description=Place name." validate:"required"`
	Count    int    `json:"count,omitempty" jsonschema:"title=count,description=Result count."`
}

func TestBindDecodesAndCalls(t *testing.T) {
	invoke := Bind(func(ctx context.Context, input *validatedInput) (*stubOutput, error) {
		assert.Equal(t, "渋谷", input.Location)
		assert.Equal(t, 3, input.Count)
		return &stubOutput{Items: []map[string]any{{"ok": true}}}, nil
	})
	out, err := invoke(context.Background(), `{"location":"渋谷","count":3}`)
	require.NoError(t, err)
	payload, ok := out.(stubOutput)
	require.True(t, ok)
	assert.Len(t, payload.Items, 1)
}

func TestBindRejectsInvalidJSON(t *testing.T) {
	invoke := Bind(func(ctx context.Context, input *validatedInput) (*stubOutput, error) {
		t.Fatal("tool must not run")
		return nil, nil
	})
	_, err := invoke(context.Background(), `{"location":`)
	require.Error(t, err)
	var perr *tools.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, tools.ErrMalformed, perr.Kind)
}

func TestBindRejectsMissingRequiredField(t *testing.T) {
	invoke := Bind(func(ctx context.Context, input *validatedInput) (*stubOutput, error) {
		t.Fatal("tool must not run")
		return nil, nil
	})
	_, err := invoke(context.Background(), `{"count":3}`)
	require.Error(t, err)
	var perr *tools.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, tools.ErrMalformed, perr.Kind)
}

func TestBindEmptyArguments(t *testing.T) {
	invoke := Bind(func(ctx context.Context, input *stubInput) (*stubOutput, error) {
		assert.Empty(t, input.Query)
		return &stubOutput{}, nil
	})
	_, err := invoke(context.Background(), "")
	require.NoError(t, err)
	_, err = invoke(context.Background(), "null")
	require.NoError(t, err)
}

func TestBindPassesToolErrorThrough(t *testing.T) {
	want := errors.New("upstream down")
	invoke := Bind(func(ctx context.Context, input *stubInput) (*stubOutput, error) {
		return nil, want
	})
	_, err := invoke(context.Background(), `{}`)
	require.ErrorIs(t, err, want)
}

func TestSchemaFor(t *testing.T) {
	s := SchemaFor[validatedInput]("search_restaurants", "レストランを検索する")
	assert.Equal(t, "search_restaurants", s.Name)
	assert.Equal(t, "レストランを検索する", s.Description)

	assert.Equal(t, "object", s.Parameters["type"])
	assert.NotContains(t, s.Parameters, "$schema")
	assert.NotContains(t, s.Parameters, "$id")

	props, ok := s.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "location")
	assert.Contains(t, props, "count")
}
