package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// Input Schema for a Google Places text search used to enrich restaurant
// records with ratings and price levels.
type Input struct {
	schema.Base
	// Query free text place query, e.g. "渋谷 イタリアン レストラン".
	Query string `json:"query" jsonschema:"title=query,description=Free text place query." validate:"required"`
	// Location optional location name appended to the query.
	Location string `json:"location,omitempty" jsonschema:"title=location,description=Location name appended to the query."`
}

func NewInput(query, location string) *Input {
	return &Input{Query: query, Location: location}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Place is a single text-search result.
type Place struct {
	schema.Base
	// Name place display name.
	Name string `json:"name" jsonschema:"title=name,description=Place display name."`
	// Address formatted address.
	Address string `json:"address,omitempty" jsonschema:"title=address,description=Formatted address."`
	// Rating aggregate user rating, 0 when unrated.
	Rating float64 `json:"rating,omitempty" jsonschema:"title=rating,description=Aggregate user rating."`
	// UserRatingsTotal number of ratings behind Rating.
	UserRatingsTotal int `json:"user_ratings_total,omitempty" jsonschema:"title=user_ratings_total,description=Number of ratings."`
	// PriceLevel 0-4 price bucket, -1 when unknown.
	PriceLevel int `json:"price_level" jsonschema:"title=price_level,description=Price bucket 0-4, -1 when unknown."`
	// MapsURL deep link to the place on Google Maps.
	MapsURL string `json:"maps_url" jsonschema:"title=maps_url,description=Deep link to the place on Google Maps."`
}

func (s Place) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the Places search tool.
type Output struct {
	schema.Base
	// Places list of matched places in upstream order.
	Places []Place `json:"places,omitempty" jsonschema:"title=places,description=List of matched places."`
	// Query the effective query sent upstream.
	Query string `json:"query,omitempty" jsonschema:"title=query,description=The effective query sent upstream."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func (s Output) IsEmpty() bool {
	return len(s.Places) == 0
}

type Config struct {
	tools.Config
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// PlacesSearch is a tool for looking up places through the Google Places
// text-search endpoint.
type PlacesSearch struct {
	Config
}

func NewPlacesSearch(opts ...Option) *PlacesSearch {
	ret := new(PlacesSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("GoogleMapsSearchTool")
	}
	if ret.baseURL == "" {
		ret.baseURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	}
	if ret.maxResults == 0 {
		ret.maxResults = 5
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		PriceLevel       *int    `json:"price_level"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// Run executes the text search synchronously.
func (t *PlacesSearch) Run(ctx context.Context, input *Input) (*Output, error) {
	query := input.Query
	if input.Location != "" {
		query = input.Location + " " + query
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("key", t.apiKey)
	values.Set("language", "ja")
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
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("places search: status %d", httpResp.StatusCode))
	}
	var body placesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	switch body.Status {
	case "OK", "ZERO_RESULTS":
	case "OVER_QUERY_LIMIT":
		return nil, tools.NewProviderError(tools.ErrRateLimited, fmt.Errorf("places search: %s", body.Status))
	case "REQUEST_DENIED":
		return nil, tools.NewProviderError(tools.ErrUnauthorized, fmt.Errorf("places search: %s %s", body.Status, body.ErrorMessage))
	default:
		return nil, tools.NewProviderError(tools.ErrUnknown, fmt.Errorf("places search: %s %s", body.Status, body.ErrorMessage))
	}
	out := &Output{Query: query}
	for i, r := range body.Results {
		if i >= t.maxResults {
			break
		}
		priceLevel := -1
		if r.PriceLevel != nil {
			priceLevel = *r.PriceLevel
		}
		out.Places = append(out.Places, Place{
			Name:             r.Name,
			Address:          r.FormattedAddress,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PriceLevel:       priceLevel,
			MapsURL:          MapsURL(r.Name + " " + r.FormattedAddress),
		})
	}
	return out, nil
}
