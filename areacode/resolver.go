package areacode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/omakase-ai/concierge/tools"
)

// DefaultMasterURL is the upstream small-area master endpoint.
const DefaultMasterURL = "https://webservice.recruit.co.jp/hotpepper/small_area/v1/"

// ErrNotFound is returned when the live lookup produces no area whose name
// matches. Callers fall back to a keyword-only provider query.
var ErrNotFound = errors.New("areacode: no matching area")

// Resolver resolves unknown place names against the upstream small-area
// master list and merges discovered codes into the Store for the remainder
// of the process lifetime.
type Resolver struct {
	store      *Store
	apiKey     string
	masterURL  string
	httpClient *http.Client
}

type ResolverOption func(*Resolver)

func WithMasterURL(u string) ResolverOption {
	return func(r *Resolver) {
		r.masterURL = u
	}
}

func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.httpClient = c
	}
}

// NewResolver returns a Resolver bound to store.
func NewResolver(store *Store, apiKey string, opts ...ResolverOption) *Resolver {
	ret := &Resolver{
		store:     store,
		apiKey:    apiKey,
		masterURL: DefaultMasterURL,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Store returns the backing store.
func (r *Resolver) Store() *Store {
	return r.store
}

// Resolve finds the area codes matching name. A name already present in the
// store (seeded or merged by a previous call) is answered from memory
// without a live lookup. Otherwise the upstream master list is fetched once
// and every entry whose name contains name, or is contained by name, is
// selected. An exact name match wins over partial matches; ties fall back to
// upstream iteration order. Matches are merged into the store as a side
// effect.
func (r *Resolver) Resolve(ctx context.Context, name string) ([]Area, error) {
	if code, level, ok := r.store.Lookup(name); ok {
		return []Area{{Code: code, Name: name, Level: level}}, nil
	}
	found, err := r.liveLookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	// Exact name match takes precedence over partial matches.
	for i, a := range found {
		if a.Name == name {
			if i != 0 {
				found[0], found[i] = found[i], found[0]
			}
			break
		}
	}
	r.store.Merge(found)
	slog.Info("area codes discovered", "name", name, "matches", len(found))
	return found, nil
}

type masterResponse struct {
	Results struct {
		SmallArea []struct {
			Code       string `json:"code"`
			Name       string `json:"name"`
			MiddleArea struct {
				Code      string `json:"code"`
				Name      string `json:"name"`
				LargeArea struct {
					Code string `json:"code"`
					Name string `json:"name"`
				} `json:"large_area"`
			} `json:"middle_area"`
		} `json:"small_area"`
		Error []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"results"`
}

func (r *Resolver) liveLookup(ctx context.Context, name string) ([]Area, error) {
	values := url.Values{}
	values.Set("key", r.apiKey)
	values.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.masterURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, tools.Classify(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, tools.ClassifyHTTP(resp.StatusCode, fmt.Errorf("small area master: status %d", resp.StatusCode))
	}
	var body masterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	if len(body.Results.Error) > 0 {
		return nil, tools.NewProviderError(tools.ErrUnknown, fmt.Errorf("small area master: %s", body.Results.Error[0].Message))
	}
	var found []Area
	for _, sa := range body.Results.SmallArea {
		// Deliberately loose: bidirectional substring containment tolerates
		// partial place names at the cost of false positives on short ones.
		if !strings.Contains(sa.Name, name) && !strings.Contains(name, sa.Name) {
			continue
		}
		// The small area itself is addressed through its middle-area code.
		found = append(found, Area{
			Code:       sa.MiddleArea.Code,
			Name:       sa.Name,
			Level:      SmallArea,
			ParentName: sa.MiddleArea.Name,
			ParentCode: sa.MiddleArea.Code,
		})
		if sa.MiddleArea.Name != "" && sa.MiddleArea.Code != "" {
			found = append(found, Area{
				Code:       sa.MiddleArea.Code,
				Name:       sa.MiddleArea.Name,
				Level:      MiddleArea,
				ParentName: sa.MiddleArea.LargeArea.Name,
				ParentCode: sa.MiddleArea.LargeArea.Code,
			})
		}
		if la := sa.MiddleArea.LargeArea; la.Name != "" && la.Code != "" {
			found = append(found, Area{
				Code:  la.Code,
				Name:  la.Name,
				Level: LargeArea,
			})
		}
	}
	return found, nil
}
