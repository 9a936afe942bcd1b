package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// DefaultBaseURL is the YouTube Data API search endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3/search"

// Input Schema for input to a tool for searching videos on YouTube.
type Input struct {
	schema.Base
	// Query video search query.
	Query string `json:"query" jsonschema:"title=query,description=Video search query." validate:"required"`
	// Limit maximum number of videos to return.
	Limit int `json:"limit,omitempty" jsonschema:"title=limit,description=Maximum number of videos to return."`
}

func NewInput(query string) *Input {
	return &Input{Query: query}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Video is one search hit.
type Video struct {
	schema.Base
	// Rank 1-based position in the result list.
	Rank int `json:"rank" jsonschema:"title=rank,description=1-based position in the result list."`
	// Title video title.
	Title string `json:"title" jsonschema:"title=title,description=Video title."`
	// Channel channel display name.
	Channel string `json:"channel,omitempty" jsonschema:"title=channel,description=Channel display name."`
	// VideoID upstream video identifier.
	VideoID string `json:"video_id" jsonschema:"title=video_id,description=Upstream video identifier."`
	// URL public watch URL.
	URL string `json:"url" jsonschema:"title=url,description=Public watch URL."`
	// Description snippet description.
	Description string `json:"description,omitempty" jsonschema:"title=description,description=Snippet description."`
	// PublishedAt publication timestamp.
	PublishedAt string `json:"published_at,omitempty" jsonschema:"title=published_at,description=Publication timestamp."`
	// Thumbnail thumbnail image URL.
	Thumbnail string `json:"thumbnail,omitempty" jsonschema:"title=thumbnail,description=Thumbnail image URL."`
}

func (s Video) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the YouTube search tool.
type Output struct {
	schema.Base
	// Videos matched videos in upstream order.
	Videos []Video `json:"videos,omitempty" jsonschema:"title=videos,description=Matched videos."`
	// Query the query searched.
	Query string `json:"query,omitempty" jsonschema:"title=query,description=The query searched."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func (s Output) IsEmpty() bool {
	return len(s.Videos) == 0
}

type Config struct {
	tools.Config
	apiKey     string
	baseURL    string
	limit      int
	httpClient *http.Client
}

// VideoSearch is a tool for searching videos through the YouTube Data API.
type VideoSearch struct {
	Config
}

func NewVideoSearch(opts ...Option) *VideoSearch {
	ret := new(VideoSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("YouTubeSearchTool")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.limit == 0 {
		ret.limit = 5
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Run executes the video search synchronously.
func (t *VideoSearch) Run(ctx context.Context, input *Input) (*Output, error) {
	limit := input.Limit
	if limit <= 0 || limit > t.limit {
		limit = t.limit
	}
	values := url.Values{}
	values.Set("key", t.apiKey)
	values.Set("part", "snippet")
	values.Set("type", "video")
	values.Set("q", input.Query)
	values.Set("maxResults", fmt.Sprintf("%d", limit))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("youtube search: status %d", httpResp.StatusCode))
	}
	var body searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	if body.Error != nil {
		return nil, tools.ClassifyHTTP(body.Error.Code, fmt.Errorf("youtube search: %s", body.Error.Message))
	}
	out := &Output{Query: input.Query}
	for i, item := range body.Items {
		if item.ID.VideoID == "" {
			continue
		}
		out.Videos = append(out.Videos, Video{
			Rank:        i + 1,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			VideoID:     item.ID.VideoID,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Description: item.Snippet.Description,
			PublishedAt: item.Snippet.PublishedAt,
			Thumbnail:   item.Snippet.Thumbnails.High.URL,
		})
	}
	return out, nil
}
