package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// ArtistInput Schema for searching artists.
type ArtistInput struct {
	schema.Base
	// Query artist name query.
	Query string `json:"query" jsonschema:"title=query,description=Artist name query." validate:"required"`
	// Limit maximum number of artists to return.
	Limit int `json:"limit,omitempty" jsonschema:"title=limit,description=Maximum number of artists to return."`
}

func (s ArtistInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Artist is one artist search hit.
type Artist struct {
	schema.Base
	// Name artist name.
	Name string `json:"name" jsonschema:"title=name,description=Artist name."`
	// Genres genre labels.
	Genres []string `json:"genres,omitempty" jsonschema:"title=genres,description=Genre labels."`
	// Followers follower count.
	Followers int `json:"followers,omitempty" jsonschema:"title=followers,description=Follower count."`
	// Popularity 0-100 popularity score.
	Popularity int `json:"popularity,omitempty" jsonschema:"title=popularity,description=0-100 popularity score."`
	// SpotifyURL public artist URL.
	SpotifyURL string `json:"spotify_url,omitempty" jsonschema:"title=spotify_url,description=Public artist URL."`
}

func (s Artist) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ArtistOutput represents the output of the artist search.
type ArtistOutput struct {
	schema.Base
	// Artists matched artists in upstream order.
	Artists []Artist `json:"artists,omitempty" jsonschema:"title=artists,description=Matched artists."`
	// Query the query searched.
	Query string `json:"query,omitempty" jsonschema:"title=query,description=The query searched."`
}

func (s ArtistOutput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func (s ArtistOutput) IsEmpty() bool {
	return len(s.Artists) == 0
}

type artistSearchResponse struct {
	Artists struct {
		Items []struct {
			Name      string   `json:"name"`
			Genres    []string `json:"genres"`
			Followers struct {
				Total int `json:"total"`
			} `json:"followers"`
			Popularity   int `json:"popularity"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"items"`
	} `json:"artists"`
}

// SearchArtists searches artists by name.
func (t *TrackSearch) SearchArtists(ctx context.Context, input *ArtistInput) (*ArtistOutput, error) {
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
	values.Set("type", "artist")
	values.Set("limit", fmt.Sprintf("%d", limit))
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
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("spotify artist search: status %d", httpResp.StatusCode))
	}
	var body artistSearchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	out := &ArtistOutput{Query: input.Query}
	for _, item := range body.Artists.Items {
		out.Artists = append(out.Artists, Artist{
			Name:       item.Name,
			Genres:     item.Genres,
			Followers:  item.Followers.Total,
			Popularity: item.Popularity,
			SpotifyURL: item.ExternalURLs.Spotify,
		})
	}
	return out, nil
}

// PlaylistInput Schema for fetching a playlist's tracks.
type PlaylistInput struct {
	schema.Base
	// PlaylistID Spotify playlist identifier.
	PlaylistID string `json:"playlist_id" jsonschema:"title=playlist_id,description=Spotify playlist identifier." validate:"required"`
	// Limit maximum number of tracks to return.
	Limit int `json:"limit,omitempty" jsonschema:"title=limit,description=Maximum number of tracks to return."`
}

func (s PlaylistInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type playlistResponse struct {
	Name   string `json:"name"`
	Tracks struct {
		Items []struct {
			Track struct {
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Name        string `json:"name"`
					ReleaseDate string `json:"release_date"`
				} `json:"album"`
				ExternalURLs struct {
					Spotify string `json:"spotify"`
				} `json:"external_urls"`
				DurationMS int `json:"duration_ms"`
				Popularity int `json:"popularity"`
			} `json:"track"`
		} `json:"items"`
	} `json:"tracks"`
}

// GetPlaylist fetches the tracks of one playlist.
func (t *TrackSearch) GetPlaylist(ctx context.Context, input *PlaylistInput) (*Output, error) {
	token, err := t.bearerToken(ctx)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/playlists/%s", t.apiBaseURL, url.PathEscape(input.PlaylistID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
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
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("spotify playlist: status %d", httpResp.StatusCode))
	}
	var body playlistResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	limit := input.Limit
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	out := &Output{Query: body.Name}
	for i, item := range body.Tracks.Items {
		if i >= limit {
			break
		}
		track := Track{
			Rank:        i + 1,
			Name:        item.Track.Name,
			Album:       item.Track.Album.Name,
			SpotifyURL:  item.Track.ExternalURLs.Spotify,
			DurationMS:  item.Track.DurationMS,
			Popularity:  item.Track.Popularity,
			ReleaseDate: item.Track.Album.ReleaseDate,
		}
		if len(item.Track.Artists) > 0 {
			track.Artist = item.Track.Artists[0].Name
		}
		out.Tracks = append(out.Tracks, track)
	}
	return out, nil
}
