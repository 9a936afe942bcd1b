package airbnb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// DefaultBaseURL is the public search page root.
const DefaultBaseURL = "https://www.airbnb.jp/s"

// Input Schema for input to a tool for searching vacation rentals on Airbnb.
type Input struct {
	schema.Base
	// Location place name to search listings around.
	Location string `json:"location" jsonschema:"title=location,description=Place name to search listings around." validate:"required"`
	// Guests party size.
	Guests int `json:"guests,omitempty" jsonschema:"title=guests,description=Party size."`
}

func NewInput(location string) *Input {
	return &Input{Location: location}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Listing is one vacation-rental card scraped from the results page.
type Listing struct {
	schema.Base
	// Title listing title.
	Title string `json:"title" jsonschema:"title=title,description=Listing title."`
	// Price nightly price text.
	Price string `json:"price,omitempty" jsonschema:"title=price,description=Nightly price text."`
	// Rating review score text.
	Rating string `json:"rating,omitempty" jsonschema:"title=rating,description=Review score text."`
	// URL listing page URL.
	URL string `json:"url,omitempty" jsonschema:"title=url,description=Listing page URL."`
	// Synthetic marks records fabricated when scraping failed.
	Synthetic bool `json:"synthetic,omitempty" jsonschema:"title=synthetic,description=True when the record is fabricated fallback data."`
}

func (s Listing) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the vacation-rental search tool.
type Output struct {
	schema.Base
	// Listings cards in page order.
	Listings []Listing `json:"listings,omitempty" jsonschema:"title=listings,description=Cards in page order."`
	// Location the location searched.
	Location string `json:"location,omitempty" jsonschema:"title=location,description=The location searched."`
	// Message human-readable summary.
	Message string `json:"message,omitempty" jsonschema:"title=message,description=Human-readable summary."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func (s Output) IsEmpty() bool {
	return len(s.Listings) == 0
}

type Config struct {
	tools.Config
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// RentalSearch is a tool that scrapes vacation-rental cards from the public
// search page. The markup is obfuscated and changes often, so the selectors
// target stable data attributes; SyntheticListings covers breakage as the
// final fallback tier.
type RentalSearch struct {
	Config
}

func NewRentalSearch(opts ...Option) *RentalSearch {
	ret := new(RentalSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("AirbnbSearchTool")
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

// Run scrapes the search page synchronously.
func (t *RentalSearch) Run(ctx context.Context, input *Input) (*Output, error) {
	values := url.Values{}
	if input.Guests > 0 {
		values.Set("adults", fmt.Sprintf("%d", input.Guests))
	}
	searchURL := fmt.Sprintf("%s/%s/homes?%s", t.baseURL, url.PathEscape(input.Location), values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)")
	httpReq.Header.Set("Accept-Language", "ja")
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("rental search: status %d", httpResp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(httpResp.Body)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}

	out := &Output{Location: input.Location}
	doc.Find(`[data-testid="card-container"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(out.Listings) >= t.maxResults {
			return false
		}
		title := strings.TrimSpace(sel.Find(`[data-testid="listing-card-title"]`).First().Text())
		if title == "" {
			return true
		}
		listing := Listing{
			Title:  title,
			Price:  strings.TrimSpace(sel.Find(`[data-testid="price-availability-row"] span`).First().Text()),
			Rating: strings.TrimSpace(sel.Find(`[aria-label*="評価"], .r1dxllyb`).First().Text()),
		}
		if href, ok := sel.Find("a").First().Attr("href"); ok {
			if strings.HasPrefix(href, "/") {
				href = "https://www.airbnb.jp" + href
			}
			listing.URL = href
		}
		out.Listings = append(out.Listings, listing)
		return true
	})
	if len(out.Listings) == 0 {
		out.Message = fmt.Sprintf("%sで民泊施設が見つかりませんでした。", input.Location)
		slog.Warn("rental scrape returned no listings", "location", input.Location)
	} else {
		out.Message = fmt.Sprintf("%sで%d件の民泊施設が見つかりました。", input.Location, len(out.Listings))
	}
	return out, nil
}

// SyntheticListings fabricates plausible listings for location. Every record
// is tagged so downstream display can disclose it.
func SyntheticListings(location string) []Listing {
	templates := []struct {
		title, price, rating string
	}{
		{"駅近のモダンな一軒家", "¥15,000 /泊", "4.8"},
		{"静かな住宅街のアパートメント", "¥9,500 /泊", "4.6"},
		{"眺めの良いデザイナーズルーム", "¥12,800 /泊", "4.7"},
	}
	ret := make([]Listing, 0, len(templates))
	for _, tpl := range templates {
		ret = append(ret, Listing{
			Title:     fmt.Sprintf("%s・%s", location, tpl.title),
			Price:     tpl.price,
			Rating:    tpl.rating,
			Synthetic: true,
		})
	}
	return ret
}
