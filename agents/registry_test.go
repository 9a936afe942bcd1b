package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omakase-ai/concierge/oracle"
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

func testToolset() *Toolset {
	return &Toolset{
		Spotify:    spotify.NewTrackSearch(),
		YouTube:    youtube.NewVideoSearch(),
		Hotpepper:  hotpepper.NewGourmetSearch(),
		Places:     gmaps.NewPlacesSearch(),
		Jalan:      jalan.NewHotelSearch(),
		Airbnb:     airbnb.NewRentalSearch(),
		Calendar:   gcal.NewEventCreator(),
		Clock:      clock.New(),
		Calculator: calculator.New(),
		WebSearch:  websearch.NewSearch(),
	}
}

func TestNewWorkersRoster(t *testing.T) {
	workers := NewWorkers(oracle.NewScripted(), testToolset())
	var names []string
	for _, w := range workers {
		names = append(names, w.Name())
	}
	assert.Equal(t, []string{"music", "video", "travel", "restaurant", "scheduler", "math", "research"}, names)
}

func TestWorkerToolSchemas(t *testing.T) {
	workers := NewWorkers(oracle.NewScripted(), testToolset())
	byName := make(map[string]*Worker, len(workers))
	for _, w := range workers {
		byName[w.Name()] = w
	}

	cases := map[string][]string{
		"music":      {"search_tracks", "search_artists", "get_playlist", "get_current_time"},
		"restaurant": {"search_restaurants", "search_restaurant_by_name", "check_availability", "search_places", "get_maps_url", "get_directions_url"},
		"travel":     {"search_hotels", "search_accommodations"},
		"scheduler":  {"add_event", "calculate_target_date"},
		"math":       {"calculate", "add", "multiply"},
		"research":   {"web_search"},
	}
	for worker, tools := range cases {
		w, ok := byName[worker]
		require.True(t, ok, worker)
		schemas := w.Schemas()
		names := make(map[string]bool, len(schemas))
		for _, s := range schemas {
			names[s.Name] = true
			assert.NotEmpty(t, s.Description, "%s/%s", worker, s.Name)
		}
		for _, tool := range tools {
			assert.True(t, names[tool], "%s missing %s", worker, tool)
		}
	}
}

func TestMapsURLBindings(t *testing.T) {
	out, err := mapsURL(context.Background(), &mapsURLInput{Destination: "すし処 さくら 渋谷"})
	require.NoError(t, err)
	assert.Contains(t, out.URL, "maps/search")

	dir, err := directionsURL(context.Background(), &directionsInput{Destination: "東京駅", Mode: "徒歩"})
	require.NoError(t, err)
	assert.Contains(t, dir.URL, "travelmode=walking")
}
