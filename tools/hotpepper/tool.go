package hotpepper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/omakase-ai/concierge/areacode"
	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// DefaultBaseURL is the upstream gourmet-search endpoint.
const DefaultBaseURL = "https://webservice.recruit.co.jp/hotpepper/gourmet/v1/"

// Input Schema for input to the restaurant search tool. Returns restaurants
// around a location optionally narrowed by cuisine and budget.
type Input struct {
	schema.Base
	// Location place name to search around, e.g. 渋谷.
	Location string `json:"location" jsonschema:"title=location,description=Place name to search around." validate:"required"`
	// Cuisine cuisine or genre name, e.g. イタリアン.
	Cuisine string `json:"cuisine,omitempty" jsonschema:"title=cuisine,description=Cuisine or genre name."`
	// Budget budget phrase, e.g. 3000円以下.
	Budget string `json:"budget,omitempty" jsonschema:"title=budget,description=Budget phrase."`
}

func NewInput(location, cuisine, budget string) *Input {
	return &Input{Location: location, Cuisine: cuisine, Budget: budget}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the restaurant search tool.
type Output struct {
	schema.Base
	// Restaurants matched restaurants in upstream order.
	Restaurants []Restaurant `json:"restaurants,omitempty" jsonschema:"title=restaurants,description=Matched restaurants."`
	// Location the location searched.
	Location string `json:"location,omitempty" jsonschema:"title=location,description=The location searched."`
	// Cuisine the cuisine filter applied.
	Cuisine string `json:"cuisine,omitempty" jsonschema:"title=cuisine,description=The cuisine filter applied."`
	// Budget the budget filter applied.
	Budget string `json:"budget,omitempty" jsonschema:"title=budget,description=The budget filter applied."`
	// TotalFound upstream total hit count.
	TotalFound int `json:"total_found,omitempty" jsonschema:"title=total_found,description=Upstream total hit count."`
	// SearchMethod how the area scope was obtained.
	SearchMethod string `json:"search_method,omitempty" jsonschema:"title=search_method,description=How the area scope was obtained."`
	// Message human-readable summary.
	Message string `json:"message,omitempty" jsonschema:"title=message,description=Human-readable summary."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func (s Output) IsEmpty() bool {
	return len(s.Restaurants) == 0
}

type Config struct {
	tools.Config
	apiKey     string
	baseURL    string
	count      int
	httpClient *http.Client
	resolver   *areacode.Resolver
}

// GourmetSearch is a tool for searching restaurants through the HotPepper
// gourmet API. Unknown place names are resolved against the small-area
// master before falling back to keyword search.
type GourmetSearch struct {
	Config
}

func NewGourmetSearch(opts ...Option) *GourmetSearch {
	ret := new(GourmetSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("RestaurantSearchTool")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.count == 0 {
		ret.count = 5
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	if ret.resolver == nil {
		ret.resolver = areacode.NewResolver(areacode.NewStore(), ret.apiKey, areacode.WithHTTPClient(ret.httpClient))
	}
	return ret
}

// Resolver exposes the area-code resolver, mainly for sharing one store
// across tools.
func (t *GourmetSearch) Resolver() *areacode.Resolver {
	return t.resolver
}

// areaScope is the resolved area constraint of one search.
type areaScope struct {
	param  string // query parameter name, large_area or middle_area
	code   string
	method string
}

func (t *GourmetSearch) resolveArea(ctx context.Context, location string) (*areaScope, string) {
	store := t.resolver.Store()
	if code, ok := store.LookupLarge(location); ok {
		return &areaScope{param: "large_area", code: code, method: MethodStaticMapping}, ""
	}
	if code, ok := store.LookupMiddle(location); ok {
		return &areaScope{param: "middle_area", code: code, method: MethodStaticMapping}, ""
	}
	found, err := t.resolver.Resolve(ctx, location)
	if err != nil {
		slog.Warn("area resolution failed, falling back to keyword search", "location", location, "error", err)
		return nil, MethodKeyword
	}
	best := found[0]
	scope := &areaScope{code: best.Code}
	switch best.Level {
	case areacode.LargeArea:
		scope.param = "large_area"
		scope.method = MethodDynamicLarge
	default:
		scope.param = "middle_area"
		scope.method = MethodDynamicMiddle
	}
	if best.Name != location {
		scope.method = MethodDynamicPartial
	}
	return scope, ""
}

// Run executes the restaurant search synchronously. An empty area-scoped
// result retries once as a keyword search before returning empty.
func (t *GourmetSearch) Run(ctx context.Context, input *Input) (*Output, error) {
	scope, fallbackMethod := t.resolveArea(ctx, input.Location)

	values := t.baseValues()
	method := fallbackMethod
	if scope != nil {
		values.Set(scope.param, scope.code)
		method = scope.method
	} else {
		values.Set("keyword", strings.TrimSpace(input.Location+" "+input.Cuisine))
	}
	if code, ok := genreCodes[input.Cuisine]; ok {
		values.Set("genre", code)
	} else if input.Cuisine != "" {
		keyword := values.Get("keyword")
		values.Set("keyword", strings.TrimSpace(keyword+" "+input.Cuisine))
	}
	if input.Budget != "" {
		for _, b := range budgetCodes {
			if strings.Contains(input.Budget, b.Phrase) {
				values.Set("budget", b.Code)
				break
			}
		}
	}

	shops, total, err := t.fetchShops(ctx, values)
	if err != nil {
		return nil, err
	}
	if len(shops) == 0 && scope != nil {
		// Area scope may be too narrow for the genre filter; retry wide.
		retry := t.baseValues()
		retry.Set("keyword", strings.TrimSpace(input.Location+" "+input.Cuisine))
		shops, total, err = t.fetchShops(ctx, retry)
		if err != nil {
			return nil, err
		}
		method = MethodKeywordFall
	}

	out := &Output{
		Location:     input.Location,
		Cuisine:      input.Cuisine,
		Budget:       input.Budget,
		TotalFound:   total,
		SearchMethod: method,
	}
	for i := range shops {
		out.Restaurants = append(out.Restaurants, shops[i].toRestaurant())
	}
	if len(out.Restaurants) == 0 {
		out.Message = fmt.Sprintf("%sで条件に合うレストランが見つかりませんでした。", input.Location)
	} else {
		out.Message = fmt.Sprintf("%sで%d件のレストランが見つかりました。", input.Location, len(out.Restaurants))
	}
	slog.Debug("restaurant search finished",
		"location", input.Location,
		"method", method,
		"count", len(out.Restaurants),
	)
	return out, nil
}

func (t *GourmetSearch) baseValues() url.Values {
	values := url.Values{}
	values.Set("key", t.apiKey)
	values.Set("format", "json")
	values.Set("count", fmt.Sprintf("%d", t.count))
	return values
}

type gourmetResponse struct {
	Results struct {
		ResultsAvailable int    `json:"results_available"`
		Shop             []shop `json:"shop"`
		Error            []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"results"`
}

func (t *GourmetSearch) fetchShops(ctx context.Context, values url.Values) ([]shop, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, 0, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, 0, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("gourmet search: status %d", httpResp.StatusCode))
	}
	var body gourmetResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, 0, tools.NewProviderError(tools.ErrMalformed, err)
	}
	if len(body.Results.Error) > 0 {
		return nil, 0, tools.NewProviderError(tools.ErrUnknown, fmt.Errorf("gourmet search: %s", body.Results.Error[0].Message))
	}
	return body.Results.Shop, body.Results.ResultsAvailable, nil
}
