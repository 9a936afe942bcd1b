package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// DefaultBaseURL is the Tavily search endpoint.
const DefaultBaseURL = "https://api.tavily.com/search"

// Input Schema for input to a tool for searching the web for up-to-date
// information. Returns result snippets with URLs for further exploration.
type Input struct {
	schema.Base
	// Query search query.
	Query string `json:"query" jsonschema:"title=query,description=Search query." validate:"required"`
	// MaxResults maximum number of results to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"title=max_results,description=Maximum number of results to return."`
}

func NewInput(query string) *Input {
	return &Input{Query: query}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ResultItem represents a single web search result.
type ResultItem struct {
	schema.Base
	// Title result title.
	Title string `json:"title" jsonschema:"title=title,description=Result title."`
	// URL result URL.
	URL string `json:"url" jsonschema:"title=url,description=Result URL."`
	// Content content snippet.
	Content string `json:"content,omitempty" jsonschema:"title=content,description=Content snippet."`
	// Score upstream relevance score.
	Score float64 `json:"score,omitempty" jsonschema:"title=score,description=Upstream relevance score."`
}

func (s ResultItem) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the web search tool.
type Output struct {
	schema.Base
	// Results result items in relevance order.
	Results []ResultItem `json:"results,omitempty" jsonschema:"title=results,description=Result items in relevance order."`
	// Answer short synthesized answer when the upstream provides one.
	Answer string `json:"answer,omitempty" jsonschema:"title=answer,description=Short synthesized answer."`
	// Query the query searched.
	Query string `json:"query,omitempty" jsonschema:"title=query,description=The query searched."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func (s Output) IsEmpty() bool {
	return len(s.Results) == 0 && s.Answer == ""
}

type Config struct {
	tools.Config
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// Search is a tool for web search through the Tavily API.
type Search struct {
	Config
}

func NewSearch(opts ...Option) *Search {
	ret := new(Search)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("WebSearchTool")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.maxResults == 0 {
		ret.maxResults = 5
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Run executes the search synchronously.
func (t *Search) Run(ctx context.Context, input *Input) (*Output, error) {
	maxResults := input.MaxResults
	if maxResults <= 0 || maxResults > t.maxResults {
		maxResults = t.maxResults
	}
	payload, err := json.Marshal(searchRequest{
		APIKey:        t.apiKey,
		Query:         input.Query,
		MaxResults:    maxResults,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("web search: status %d", httpResp.StatusCode))
	}
	var body searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	out := &Output{Query: input.Query, Answer: body.Answer}
	for _, r := range body.Results {
		out.Results = append(out.Results, ResultItem{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return out, nil
}
