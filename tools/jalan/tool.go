package jalan

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

// DefaultBaseURL is the hotel keyword-search page.
const DefaultBaseURL = "https://www.jalan.net/uw/uwp2011/uww2011init.do"

// Input Schema for input to a tool for searching hotels on Jalan.
type Input struct {
	schema.Base
	// Location place name to search hotels around.
	Location string `json:"location" jsonschema:"title=location,description=Place name to search hotels around." validate:"required"`
	// CheckIn optional check-in date, YYYY-MM-DD.
	CheckIn string `json:"check_in,omitempty" jsonschema:"title=check_in,description=Check-in date."`
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

// Hotel is one listing scraped from the results page.
type Hotel struct {
	schema.Base
	// Name hotel display name.
	Name string `json:"name" jsonschema:"title=name,description=Hotel display name."`
	// Price lowest listed price text.
	Price string `json:"price,omitempty" jsonschema:"title=price,description=Lowest listed price text."`
	// Rating review score text.
	Rating string `json:"rating,omitempty" jsonschema:"title=rating,description=Review score text."`
	// Area area or access description.
	Area string `json:"area,omitempty" jsonschema:"title=area,description=Area or access description."`
	// Amenities amenity labels listed on the card.
	Amenities []string `json:"amenities" jsonschema:"title=amenities,description=Amenity labels listed on the card."`
	// URL listing page URL.
	URL string `json:"url,omitempty" jsonschema:"title=url,description=Listing page URL."`
	// Synthetic marks records fabricated when scraping failed.
	Synthetic bool `json:"synthetic,omitempty" jsonschema:"title=synthetic,description=True when the record is fabricated fallback data."`
}

func (s Hotel) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the hotel search tool.
type Output struct {
	schema.Base
	// Hotels listings in page order.
	Hotels []Hotel `json:"hotels,omitempty" jsonschema:"title=hotels,description=Listings in page order."`
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
	return len(s.Hotels) == 0
}

type Config struct {
	tools.Config
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// HotelSearch is a tool that scrapes hotel listings from the Jalan results
// page. There is no public API, so markup changes can break the selectors;
// SyntheticHotels covers that case as the final fallback tier.
type HotelSearch struct {
	Config
}

func NewHotelSearch(opts ...Option) *HotelSearch {
	ret := new(HotelSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("JalanHotelSearchTool")
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

// Run scrapes the results page synchronously.
func (t *HotelSearch) Run(ctx context.Context, input *Input) (*Output, error) {
	values := url.Values{}
	values.Set("keyword", input.Location)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)")
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("hotel search: status %d", httpResp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(httpResp.Body)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}

	out := &Output{Location: input.Location}
	doc.Find(".p-searchResultItem, .yadoCassette").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(out.Hotels) >= t.maxResults {
			return false
		}
		name := strings.TrimSpace(sel.Find(".p-searchResultItem__facilityName, .hotelName a").First().Text())
		if name == "" {
			return true
		}
		hotel := Hotel{
			Name:      name,
			Price:     strings.TrimSpace(sel.Find(".p-searchResultItem__lowestPrice, .price").First().Text()),
			Rating:    strings.TrimSpace(sel.Find(".p-searchResultItem__kuchikomiPoint, .rate").First().Text()),
			Area:      strings.TrimSpace(sel.Find(".p-searchResultItem__area, .area").First().Text()),
			Amenities: []string{},
		}
		sel.Find(".p-searchResultItem__feature li, .feature li").Each(func(_ int, li *goquery.Selection) {
			if label := strings.TrimSpace(li.Text()); label != "" {
				hotel.Amenities = append(hotel.Amenities, label)
			}
		})
		if href, ok := sel.Find("a").First().Attr("href"); ok {
			hotel.URL = absoluteURL(t.baseURL, href)
		}
		out.Hotels = append(out.Hotels, hotel)
		return true
	})
	if len(out.Hotels) == 0 {
		out.Message = fmt.Sprintf("%sで宿泊施設が見つかりませんでした。", input.Location)
		slog.Warn("hotel scrape returned no listings", "location", input.Location)
	} else {
		out.Message = fmt.Sprintf("%sで%d件の宿泊施設が見つかりました。", input.Location, len(out.Hotels))
	}
	return out, nil
}

func absoluteURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}

// SyntheticHotels fabricates plausible listings for location. Every record is
// tagged so downstream display can disclose it.
func SyntheticHotels(location string) []Hotel {
	templates := []struct {
		name, price, rating string
		amenities           []string
	}{
		{"温泉旅館 さくら", "12000円～", "4.2", []string{"大浴場", "朝食あり"}},
		{"ビジネスホテル みどり", "7500円～", "3.8", []string{"Wi-Fi", "駅近"}},
		{"シティホテル あおば", "9800円～", "4.0", []string{"Wi-Fi", "朝食あり"}},
	}
	ret := make([]Hotel, 0, len(templates))
	for _, tpl := range templates {
		ret = append(ret, Hotel{
			Name:      fmt.Sprintf("%s %s", location, tpl.name),
			Price:     tpl.price,
			Rating:    tpl.rating,
			Area:      location,
			Amenities: tpl.amenities,
			Synthetic: true,
		})
	}
	return ret
}
