package hotpepper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omakase-ai/concierge/areacode"
)

type fakeUpstream struct {
	srv *httptest.Server
	// gourmetRequests records the query values of every gourmet call.
	gourmetRequests []url.Values
	// shopsFor returns the shop payload for one gourmet request.
	shopsFor func(values url.Values) []map[string]any
	// smallAreas is the master list payload.
	smallAreas []map[string]any
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/gourmet/", func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()
		f.gourmetRequests = append(f.gourmetRequests, values)
		var shops []map[string]any
		if f.shopsFor != nil {
			shops = f.shopsFor(values)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": map[string]any{
				"results_available": len(shops),
				"shop":              shops,
			},
		})
	})
	mux.HandleFunc("/small_area/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": map[string]any{"small_area": f.smallAreas},
		})
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) tool() *GourmetSearch {
	store := areacode.NewStore()
	resolver := areacode.NewResolver(store, "test-key", areacode.WithMasterURL(f.srv.URL+"/small_area/"))
	return NewGourmetSearch(
		WithAPIKey("test-key"),
		WithBaseURL(f.srv.URL+"/gourmet/"),
		WithResolver(resolver),
	)
}

func sampleShop(name string) map[string]any {
	return map[string]any{
		"id":      "J001",
		"name":    name,
		"address": "東京都渋谷区道玄坂1-2-3",
		"access":  "渋谷駅徒歩3分",
		"catch":   "落ち着いた個室",
		"open":    "月～日 17:00～23:00",
		"genre":   map[string]any{"name": "イタリアン・フレンチ"},
		"budget":  map[string]any{"average": "3500円", "name": "3001～4000円"},
		"urls":    map[string]any{"pc": "https://example.com/shop"},
		"photo": map[string]any{
			"pc": map[string]any{"l": "https://example.com/photo.jpg"},
		},
		"wifi":         "あり",
		"card":         "利用可",
		"non_smoking":  "全面禁煙",
		"parking":      "なし",
		"private_room": "なし",
	}
}

func TestRunStaticMapping(t *testing.T) {
	f := newFakeUpstream(t)
	f.shopsFor = func(values url.Values) []map[string]any {
		return []map[string]any{sampleShop("トラットリア渋谷")}
	}

	out, err := f.tool().Run(context.Background(), NewInput("渋谷", "イタリアン", ""))
	require.NoError(t, err)
	assert.Equal(t, MethodStaticMapping, out.SearchMethod)
	require.Len(t, f.gourmetRequests, 1)
	req := f.gourmetRequests[0]
	assert.Equal(t, "Z011001", req.Get("middle_area"))
	assert.Equal(t, "G005", req.Get("genre"))
	assert.Empty(t, req.Get("keyword"))

	require.Len(t, out.Restaurants, 1)
	r := out.Restaurants[0]
	assert.Equal(t, "トラットリア渋谷", r.Name)
	assert.Equal(t, "イタリアン・フレンチ", r.Cuisine)
	assert.Equal(t, NoRating, r.Rating)
	assert.Equal(t, "3500円", r.Budget)
	assert.ElementsMatch(t, []string{"Wi-Fi", "禁煙席", "カード可"}, r.Features)
	assert.Contains(t, r.GoogleMapsURL, "maps")
	assert.False(t, r.Synthetic)
	assert.Contains(t, out.Message, "1件")
}

func TestRunLargeAreaMapping(t *testing.T) {
	f := newFakeUpstream(t)
	f.shopsFor = func(values url.Values) []map[string]any {
		return []map[string]any{sampleShop("店")}
	}

	out, err := f.tool().Run(context.Background(), NewInput("東京", "", ""))
	require.NoError(t, err)
	assert.Equal(t, MethodStaticMapping, out.SearchMethod)
	assert.Equal(t, "Z011", f.gourmetRequests[0].Get("large_area"))
}

func TestRunDynamicMiddleArea(t *testing.T) {
	f := newFakeUpstream(t)
	f.smallAreas = []map[string]any{
		{
			"code": "XA01",
			"name": "すすきの",
			"middle_area": map[string]any{
				"code": "Z051001",
				"name": "札幌駅・大通",
				"large_area": map[string]any{
					"code": "Z051",
					"name": "北海道",
				},
			},
		},
	}
	f.shopsFor = func(values url.Values) []map[string]any {
		return []map[string]any{sampleShop("ジンギスカン亭")}
	}

	tool := f.tool()
	out, err := tool.Run(context.Background(), NewInput("すすきの", "", ""))
	require.NoError(t, err)
	assert.Equal(t, MethodDynamicMiddle, out.SearchMethod)
	assert.Equal(t, "Z051001", f.gourmetRequests[0].Get("middle_area"))

	// The discovered code is answered from memory on the next search.
	_, _, ok := tool.Resolver().Store().Lookup("すすきの")
	assert.True(t, ok)
	out, err = tool.Run(context.Background(), NewInput("すすきの", "", ""))
	require.NoError(t, err)
	assert.Equal(t, MethodStaticMapping, out.SearchMethod)
}

func TestRunDynamicPartialMatch(t *testing.T) {
	f := newFakeUpstream(t)
	f.smallAreas = []map[string]any{
		{
			"code": "XA02",
			"name": "博多駅周辺",
			"middle_area": map[string]any{
				"code": "Z043001",
				"name": "博多",
				"large_area": map[string]any{
					"code": "Z043",
					"name": "福岡",
				},
			},
		},
	}
	f.shopsFor = func(values url.Values) []map[string]any {
		return []map[string]any{sampleShop("もつ鍋や")}
	}

	out, err := f.tool().Run(context.Background(), NewInput("博多駅", "", ""))
	require.NoError(t, err)
	assert.Equal(t, MethodDynamicPartial, out.SearchMethod)
	assert.Equal(t, "Z043001", f.gourmetRequests[0].Get("middle_area"))
}

func TestRunKeywordWhenResolutionFails(t *testing.T) {
	f := newFakeUpstream(t)
	f.shopsFor = func(values url.Values) []map[string]any {
		return []map[string]any{sampleShop("秘境の店")}
	}

	out, err := f.tool().Run(context.Background(), NewInput("ムー大陸", "和食", ""))
	require.NoError(t, err)
	assert.Equal(t, MethodKeyword, out.SearchMethod)
	req := f.gourmetRequests[0]
	assert.Empty(t, req.Get("middle_area"))
	assert.Empty(t, req.Get("large_area"))
	assert.Contains(t, req.Get("keyword"), "ムー大陸")
	assert.Equal(t, "G008", req.Get("genre"))
}

func TestRunKeywordFallbackOnEmptyAreaResult(t *testing.T) {
	f := newFakeUpstream(t)
	f.shopsFor = func(values url.Values) []map[string]any {
		if values.Get("middle_area") != "" {
			return nil
		}
		return []map[string]any{sampleShop("隠れ家バル")}
	}

	out, err := f.tool().Run(context.Background(), NewInput("渋谷", "", ""))
	require.NoError(t, err)
	assert.Equal(t, MethodKeywordFall, out.SearchMethod)
	require.Len(t, f.gourmetRequests, 2)
	assert.Contains(t, f.gourmetRequests[1].Get("keyword"), "渋谷")
	require.Len(t, out.Restaurants, 1)
}

func TestRunBudgetCode(t *testing.T) {
	f := newFakeUpstream(t)
	f.shopsFor = func(values url.Values) []map[string]any {
		return []map[string]any{sampleShop("店")}
	}

	_, err := f.tool().Run(context.Background(), NewInput("渋谷", "", "3000円以下でお願いします"))
	require.NoError(t, err)
	assert.Equal(t, "B002", f.gourmetRequests[0].Get("budget"))
}

func TestRunUnknownCuisineGoesToKeyword(t *testing.T) {
	f := newFakeUpstream(t)
	f.shopsFor = func(values url.Values) []map[string]any {
		return []map[string]any{sampleShop("店")}
	}

	_, err := f.tool().Run(context.Background(), NewInput("渋谷", "ジビエ", ""))
	require.NoError(t, err)
	req := f.gourmetRequests[0]
	assert.Empty(t, req.Get("genre"))
	assert.Contains(t, req.Get("keyword"), "ジビエ")
}

func TestSearchByName(t *testing.T) {
	f := newFakeUpstream(t)
	f.shopsFor = func(values url.Values) []map[string]any {
		assert.Equal(t, "渋谷 トラットリア渋谷", values.Get("keyword"))
		return []map[string]any{sampleShop("トラットリア渋谷")}
	}

	out, err := f.tool().SearchByName(context.Background(), &ByNameInput{Name: "トラットリア渋谷", Location: "渋谷"})
	require.NoError(t, err)
	assert.Equal(t, MethodKeyword, out.SearchMethod)
	require.Len(t, out.Restaurants, 1)
}

func TestCheckAvailabilityDeterministic(t *testing.T) {
	tool := NewGourmetSearch(WithAPIKey("test-key"))
	input := &AvailabilityInput{RestaurantName: "店A", Date: "明日", Time: "19:00", Guests: 4}

	first, err := tool.CheckAvailability(context.Background(), input)
	require.NoError(t, err)
	second, err := tool.CheckAvailability(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Contains(t, []string{"空席あり", "残りわずか", "満席"}, first.Status)
	if first.Status == "満席" {
		assert.NotEmpty(t, first.AlternativeTimes)
	}
}

func TestSyntheticRestaurantsTagged(t *testing.T) {
	records := SyntheticRestaurants("渋谷", "イタリアン")
	require.Len(t, records, 3)
	for _, r := range records {
		assert.True(t, r.Synthetic)
		assert.Equal(t, "イタリアン", r.Cuisine)
		assert.Contains(t, r.Name, "渋谷")
		assert.NotEmpty(t, r.GoogleMapsURL)
	}
}

func TestOutputIsEmpty(t *testing.T) {
	assert.True(t, Output{}.IsEmpty())
	assert.False(t, Output{Restaurants: []Restaurant{{Name: "店"}}}.IsEmpty())
}
