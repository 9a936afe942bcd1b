package gmaps

import (
	"net/url"
	"strings"
)

// travelModes maps Japanese mode words to Google Maps travel modes.
var travelModes = map[string]string{
	"電車":  "transit",
	"車":   "driving",
	"徒歩":  "walking",
	"自転車": "bicycling",
}

// MapsURL builds a place-search deep link for query (typically
// "name address").
func MapsURL(query string) string {
	values := url.Values{}
	values.Set("api", "1")
	values.Set("query", query)
	return "https://www.google.com/maps/search/?" + values.Encode()
}

// DirectionsURL builds a directions deep link to destination. The mode may be
// a Japanese word (電車, 車, 徒歩, 自転車) or a Google travel mode; anything
// unrecognized falls back to transit.
func DirectionsURL(destination, mode string) string {
	travel, ok := travelModes[mode]
	if !ok {
		switch strings.ToLower(mode) {
		case "transit", "driving", "walking", "bicycling":
			travel = strings.ToLower(mode)
		default:
			travel = "transit"
		}
	}
	values := url.Values{}
	values.Set("api", "1")
	values.Set("destination", destination)
	values.Set("travelmode", travel)
	return "https://www.google.com/maps/dir/?" + values.Encode()
}
