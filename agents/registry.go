package agents

import (
	"context"
	"encoding/json"

	"github.com/omakase-ai/concierge/oracle"
	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools/airbnb"
	"github.com/omakase-ai/concierge/tools/calculator"
	"github.com/omakase-ai/concierge/tools/clock"
	"github.com/omakase-ai/concierge/tools/gcal"
	"github.com/omakase-ai/concierge/tools/gmaps"
	"github.com/omakase-ai/concierge/tools/hotpepper"
	"github.com/omakase-ai/concierge/tools/jalan"
	"github.com/omakase-ai/concierge/tools/spotify"
	"github.com/omakase-ai/concierge/tools/websearch"
	"github.com/omakase-ai/concierge/tools/youtube"
)

// Toolset bundles the provider tools shared across the worker roster.
type Toolset struct {
	Spotify    *spotify.TrackSearch
	YouTube    *youtube.VideoSearch
	Hotpepper  *hotpepper.GourmetSearch
	Places     *gmaps.PlacesSearch
	Jalan      *jalan.HotelSearch
	Airbnb     *airbnb.RentalSearch
	Calendar   *gcal.EventCreator
	Clock      *clock.Clock
	Calculator *calculator.Tool
	WebSearch  *websearch.Search
}

// NewWorkers builds the seven domain workers over one toolset.
func NewWorkers(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) []*Worker {
	return []*Worker{
		NewMusicWorker(orc, ts, opts...),
		NewVideoWorker(orc, ts, opts...),
		NewTravelWorker(orc, ts, opts...),
		NewRestaurantWorker(orc, ts, opts...),
		NewSchedulerWorker(orc, ts, opts...),
		NewMathWorker(orc, ts, opts...),
		NewResearchWorker(orc, ts, opts...),
	}
}

func timeBinding(clk *clock.Clock) *Binding {
	return NewBinding("get_current_time", "現在時刻をISO 8601形式で返す", clk.Now)
}

// NewMusicWorker answers music requests. Track search falls back to video
// search, then web search, so the answer degrades rather than emptying.
func NewMusicWorker(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) *Worker {
	return NewWorker("music", "あなたは音楽担当のアシスタントです。楽曲・アーティスト・プレイリストの検索ツールを使って回答してください。結果はJSONのresultsフィールドとしても提示してください。", orc, []*Binding{
		NewBinding("search_tracks", "楽曲を検索する", ts.Spotify.Run,
			NewFallback("search_videos", ts.YouTube.Run),
			NewFallback("web_search", ts.WebSearch.Run),
		),
		NewBinding("search_artists", "アーティストを検索する", ts.Spotify.SearchArtists,
			NewFallback("web_search", ts.WebSearch.Run),
		),
		NewBinding("get_playlist", "プレイリストの収録曲を取得する", ts.Spotify.GetPlaylist),
		timeBinding(ts.Clock),
	}, opts...)
}

// NewVideoWorker answers video requests.
func NewVideoWorker(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) *Worker {
	return NewWorker("video", "あなたは動画担当のアシスタントです。動画検索ツールを使って回答してください。", orc, []*Binding{
		NewBinding("search_videos", "動画を検索する", ts.YouTube.Run,
			NewFallback("web_search", ts.WebSearch.Run),
		),
		NewBinding("get_video_info", "動画の詳細情報を取得する", func(ctx context.Context, input *youtube.Input) (*youtube.Output, error) {
			input.Limit = 1
			return ts.YouTube.Run(ctx, input)
		}),
		timeBinding(ts.Clock),
	}, opts...)
}

// NewTravelWorker answers accommodation requests. Each scrape falls back to
// the other site, then to a tagged synthetic record set.
func NewTravelWorker(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) *Worker {
	syntheticHotels := func(ctx context.Context, input *jalan.Input) (*jalan.Output, error) {
		return &jalan.Output{
			Location: input.Location,
			Hotels:   jalan.SyntheticHotels(input.Location),
			Message:  "実際の検索が行えなかったため、参考用の候補を表示しています。",
		}, nil
	}
	syntheticListings := func(ctx context.Context, input *airbnb.Input) (*airbnb.Output, error) {
		return &airbnb.Output{
			Location: input.Location,
			Listings: airbnb.SyntheticListings(input.Location),
			Message:  "実際の検索が行えなかったため、参考用の候補を表示しています。",
		}, nil
	}
	return NewWorker("travel", "あなたは旅行担当のアシスタントです。宿泊施設の検索ツールを使って回答してください。", orc, []*Binding{
		NewBinding("search_hotels", "ホテル・旅館を検索する", ts.Jalan.Run,
			NewFallback("search_accommodations", ts.Airbnb.Run),
			NewFallback("synthetic_hotels", syntheticHotels),
		),
		NewBinding("search_accommodations", "民泊・バケーションレンタルを検索する", ts.Airbnb.Run,
			NewFallback("search_hotels", ts.Jalan.Run),
			NewFallback("synthetic_listings", syntheticListings),
		),
		timeBinding(ts.Clock),
	}, opts...)
}

// NewRestaurantWorker answers restaurant requests. The primary search
// already degrades to keyword search internally; the loop-level tier adds a
// tagged synthetic record set.
func NewRestaurantWorker(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) *Worker {
	syntheticRestaurants := func(ctx context.Context, input *hotpepper.Input) (*hotpepper.Output, error) {
		return &hotpepper.Output{
			Location:     input.Location,
			Cuisine:      input.Cuisine,
			Restaurants:  hotpepper.SyntheticRestaurants(input.Location, input.Cuisine),
			SearchMethod: hotpepper.MethodSynthetic,
			Message:      "実際の検索が行えなかったため、参考用の候補を表示しています。",
		}, nil
	}
	return NewWorker("restaurant", "あなたはレストラン担当のアシスタントです。レストラン検索と地図ツールを使って回答してください。検索結果はJSONのresultsフィールドとしても提示してください。", orc, []*Binding{
		NewBinding("search_restaurants", "エリア・ジャンル・予算でレストランを検索する", ts.Hotpepper.Run,
			NewFallback("synthetic_restaurants", syntheticRestaurants),
		),
		NewBinding("search_restaurant_by_name", "店名でレストランを検索する", ts.Hotpepper.SearchByName),
		NewBinding("check_availability", "空席状況を確認する", ts.Hotpepper.CheckAvailability),
		NewBinding("search_places", "Googleプレイスで店舗情報を検索する", ts.Places.Run),
		NewBinding("get_maps_url", "地図URLを生成する", mapsURL),
		NewBinding("get_directions_url", "経路案内URLを生成する", directionsURL),
		timeBinding(ts.Clock),
	}, opts...)
}

// NewSchedulerWorker creates calendar events.
func NewSchedulerWorker(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) *Worker {
	return NewWorker("scheduler", "あなたは予定管理担当のアシスタントです。日時を解決してからカレンダーに予定を登録してください。", orc, []*Binding{
		NewBinding("add_event", "カレンダーに予定を登録する", ts.Calendar.Run),
		NewBinding("calculate_target_date", "「明日」「来週金曜日」などの表現を具体的な日時に変換する", ts.Clock.TargetDate),
		timeBinding(ts.Clock),
	}, opts...)
}

// NewMathWorker evaluates calculations.
func NewMathWorker(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) *Worker {
	return NewWorker("math", "あなたは計算担当のアシスタントです。計算ツールを使って正確に回答してください。", orc, []*Binding{
		NewBinding("calculate", "数式を評価する", ts.Calculator.Run),
		NewBinding("add", "2つの数を加算する", ts.Calculator.Add),
		NewBinding("multiply", "2つの数を乗算する", ts.Calculator.Multiply),
	}, opts...)
}

// NewResearchWorker answers general questions through web search.
func NewResearchWorker(orc oracle.Oracle, ts *Toolset, opts ...WorkerOption) *Worker {
	return NewWorker("research", "あなたは調査担当のアシスタントです。ウェブ検索ツールを使って最新の情報に基づいて回答してください。", orc, []*Binding{
		NewBinding("web_search", "ウェブを検索する", ts.WebSearch.Run),
		timeBinding(ts.Clock),
	}, opts...)
}

// mapsURLInput Schema for generating a map deep link.
type mapsURLInput struct {
	schema.Base
	// Destination place name, optionally with address.
	Destination string `json:"destination" jsonschema:"title=destination,description=Place name, optionally with address." validate:"required"`
}

func (s mapsURLInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// directionsInput Schema for generating a directions deep link.
type directionsInput struct {
	schema.Base
	// Destination place name, optionally with address.
	Destination string `json:"destination" jsonschema:"title=destination,description=Place name, optionally with address." validate:"required"`
	// Mode travel mode: 電車, 車, 徒歩 or 自転車.
	Mode string `json:"mode,omitempty" jsonschema:"title=mode,description=Travel mode: 電車 or 車 or 徒歩 or 自転車."`
}

func (s directionsInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// urlOutput carries one generated deep link.
type urlOutput struct {
	schema.Base
	// URL the generated link.
	URL string `json:"url" jsonschema:"title=url,description=The generated link."`
}

func (s urlOutput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

func mapsURL(ctx context.Context, input *mapsURLInput) (*urlOutput, error) {
	return &urlOutput{URL: gmaps.MapsURL(input.Destination)}, nil
}

func directionsURL(ctx context.Context, input *directionsInput) (*urlOutput, error) {
	return &urlOutput{URL: gmaps.DirectionsURL(input.Destination, input.Mode)}, nil
}
