package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

const (
	// DefaultAPIBaseURL is the Spotify Web API root.
	DefaultAPIBaseURL = "https://api.spotify.com/v1"
	// DefaultTokenURL is the client-credentials token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Input Schema for input to a tool for searching tracks on Spotify.
type Input struct {
	schema.Base
	// Query track, artist or album query.
	Query string `json:"query" jsonschema:"title=query,description=Track, artist or album query." validate:"required"`
	// Limit maximum number of tracks to return.
	Limit int `json:"limit,omitempty" jsonschema:"title=limit,description=Maximum number of tracks to return."`
}

func NewInput(query string) *Input {
	return &Input{Query: query}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Track is one search hit.
type Track struct {
	schema.Base
	// Rank 1-based position in the result list.
	Rank int `json:"rank" jsonschema:"title=rank,description=1-based position in the result list."`
	// Name track title.
	Name string `json:"name" jsonschema:"title=name,description=Track title."`
	// Artist primary artist name.
	Artist string `json:"artist" jsonschema:"title=artist,description=Primary artist name."`
	// Album album title.
	Album string `json:"album,omitempty" jsonschema:"title=album,description=Album title."`
	// SpotifyURL public track URL.
	SpotifyURL string `json:"spotify_url,omitempty" jsonschema:"title=spotify_url,description=Public track URL."`
	// DurationMS track length in milliseconds.
	DurationMS int `json:"duration_ms,omitempty" jsonschema:"title=duration_ms,description=Track length in milliseconds."`
	// Popularity 0-100 popularity score.
	Popularity int `json:"popularity,omitempty" jsonschema:"title=popularity,description=0-100 popularity score."`
	// ReleaseDate album release date.
	ReleaseDate string `json:"release_date,omitempty" jsonschema:"title=release_date,description=Album release date."`
	// AlbumArt cover image URL.
	AlbumArt string `json:"album_art,omitempty" jsonschema:"title=album_art,description=Cover image URL."`
}

func (s Track) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the Spotify track search tool.
type Output struct {
	schema.Base
	// Tracks matched tracks in upstream order.
	Tracks []Track `json:"tracks,omitempty" jsonschema:"title=tracks,description=Matched tracks."`
	// Query the query searched.
	Query string `json:"query,omitempty" jsonschema:"title=query,description=The query searched."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func (s Output) IsEmpty() bool {
	return len(s.Tracks) == 0
}

type Config struct {
	tools.Config
	clientID     string
	clientSecret string
	apiBaseURL   string
	tokenURL     string
	limit        int
	httpClient   *http.Client
}

// TrackSearch is a tool for searching tracks through the Spotify Web API
// using the client-credentials flow. The bearer token is cached until
// shortly before expiry.
type TrackSearch struct {
	Config

	tokenMtx    sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewTrackSearch(opts ...Option) *TrackSearch {
	ret := new(TrackSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("SpotifySearchTool")
	}
	if ret.apiBaseURL == "" {
		ret.apiBaseURL = DefaultAPIBaseURL
	}
	if ret.tokenURL == "" {
		ret.tokenURL = DefaultTokenURL
	}
	if ret.limit == 0 {
		ret.limit = 5
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (t *TrackSearch) bearerToken(ctx context.Context) (string, error) {
	t.tokenMtx.Lock()
	defer t.tokenMtx.Unlock()
	if t.token != "" && time.Now().Before(t.tokenExpiry) {
		return t.token, nil
	}
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpReq.SetBasicAuth(t.clientID, t.clientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return "", tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return "", tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("spotify token: status %d", httpResp.StatusCode))
	}
	var body tokenResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return "", tools.NewProviderError(tools.ErrMalformed, err)
	}
	if body.AccessToken == "" {
		return "", tools.NewProviderError(tools.ErrMalformed, fmt.Errorf("spotify token: empty access_token"))
	}
	t.token = body.AccessToken
	t.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - 30*time.Second)
	return t.token, nil
}

type searchResponse struct {
	Tracks struct {
		Items []struct {
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name        string `json:"name"`
				ReleaseDate string `json:"release_date"`
				Images      []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
			DurationMS int `json:"duration_ms"`
			Popularity int `json:"popularity"`
		} `json:"items"`
	} `json:"tracks"`
}

// Run executes the track search synchronously.
func (t *TrackSearch) Run(ctx context.Context, input *Input) (*Output, error) {
	token, err := t.bearerToken(ctx)
	if err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit <= 0 || limit > t.limit {
		limit = t.limit
	}
	values := url.Values{}
	values.Set("q", input.Query)
	values.Set("type", "track")
	values.Set("limit", fmt.Sprintf("%d", limit))
	values.Set("market", "JP")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.apiBaseURL+"/search?"+values.Encode(), nil)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("spotify search: status %d", httpResp.StatusCode))
	}
	var body searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	out := &Output{Query: input.Query}
	for i, item := range body.Tracks.Items {
		track := Track{
			Rank:        i + 1,
			Name:        item.Name,
			Album:       item.Album.Name,
			SpotifyURL:  item.ExternalURLs.Spotify,
			DurationMS:  item.DurationMS,
			Popularity:  item.Popularity,
			ReleaseDate: item.Album.ReleaseDate,
		}
		if len(item.Artists) > 0 {
			track.Artist = item.Artists[0].Name
		}
		if len(item.Album.Images) > 0 {
			track.AlbumArt = item.Album.Images[0].URL
		}
		out.Tracks = append(out.Tracks, track)
	}
	return out, nil
}
