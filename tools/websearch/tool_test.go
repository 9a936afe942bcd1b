package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tv-key", req.APIKey)
		assert.Equal(t, "東京 今日の天気", req.Query)
		assert.Equal(t, "basic", req.SearchDepth)
		assert.True(t, req.IncludeAnswer)

		json.NewEncoder(w).Encode(map[string]any{
			"answer": "東京は晴れです。",
			"results": []map[string]any{
				{"title": "天気予報", "url": "https://example.com/weather", "content": "晴れ", "score": 0.92},
			},
		})
	}))
	defer srv.Close()

	tool := NewSearch(WithAPIKey("tv-key"), WithBaseURL(srv.URL))
	out, err := tool.Run(context.Background(), NewInput("東京 今日の天気"))
	require.NoError(t, err)
	assert.Equal(t, "東京は晴れです。", out.Answer)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "天気予報", out.Results[0].Title)
	assert.Equal(t, 0.92, out.Results[0].Score)
	assert.False(t, out.IsEmpty())
}

func TestRunClampsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.MaxResults)
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	tool := NewSearch(WithAPIKey("tv-key"), WithBaseURL(srv.URL))
	_, err := tool.Run(context.Background(), &Input{Query: "x", MaxResults: 50})
	require.NoError(t, err)
}

func TestRunUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewSearch(WithAPIKey("bad"), WithBaseURL(srv.URL)).Run(context.Background(), NewInput("x"))
	require.Error(t, err)
}

func TestOutputIsEmpty(t *testing.T) {
	assert.True(t, Output{}.IsEmpty())
	assert.False(t, Output{Answer: "ans"}.IsEmpty())
	assert.False(t, Output{Results: []ResultItem{{Title: "t"}}}.IsEmpty())
}
