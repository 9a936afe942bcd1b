package hotpepper

import (
	"encoding/json"
	"fmt"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools/gmaps"
)

// Restaurant is one normalized restaurant record. Google* fields are blank
// until a merge with place-search results fills them.
type Restaurant struct {
	schema.Base
	// Name restaurant display name.
	Name string `json:"name" jsonschema:"title=name,description=Restaurant display name."`
	// Cuisine genre display name.
	Cuisine string `json:"cuisine,omitempty" jsonschema:"title=cuisine,description=Genre display name."`
	// Rating display rating, 評価なし when the provider reports none.
	Rating string `json:"rating,omitempty" jsonschema:"title=rating,description=Display rating."`
	// Budget dinner budget, 価格要問合せ when the provider reports none.
	Budget string `json:"budget,omitempty" jsonschema:"title=budget,description=Dinner budget."`
	// Address street address.
	Address string `json:"address,omitempty" jsonschema:"title=address,description=Street address."`
	// Access transit access description.
	Access string `json:"access,omitempty" jsonschema:"title=access,description=Transit access description."`
	// Catch one-line catch copy.
	Catch string `json:"catch,omitempty" jsonschema:"title=catch,description=One-line catch copy."`
	// Hours opening hours.
	Hours string `json:"hours,omitempty" jsonschema:"title=hours,description=Opening hours."`
	// Features amenity flags present on the shop (Wi-Fi, 駐車場, ...).
	Features []string `json:"features,omitempty" jsonschema:"title=features,description=Amenity flags present on the shop."`
	// URL shop page URL.
	URL string `json:"url,omitempty" jsonschema:"title=url,description=Shop page URL."`
	// PhotoURL lead photo URL.
	PhotoURL string `json:"photo_url,omitempty" jsonschema:"title=photo_url,description=Lead photo URL."`
	// GoogleMapsURL map deep link for the shop.
	GoogleMapsURL string `json:"google_maps_url,omitempty" jsonschema:"title=google_maps_url,description=Map deep link for the shop."`
	// DirectionsURL transit directions deep link for the shop.
	DirectionsURL string `json:"directions_url,omitempty" jsonschema:"title=directions_url,description=Transit directions deep link."`
	// GoogleRating rating from the place-search merge, 0 until merged.
	GoogleRating float64 `json:"google_rating,omitempty" jsonschema:"title=google_rating,description=Rating from the place-search merge."`
	// GooglePriceLevel price bucket from the place-search merge, 0 until merged.
	GooglePriceLevel int `json:"google_price_level,omitempty" jsonschema:"title=google_price_level,description=Price bucket from the place-search merge."`
	// Synthetic marks records fabricated when every provider tier failed.
	Synthetic bool `json:"synthetic,omitempty" jsonschema:"title=synthetic,description=True when the record is fabricated fallback data."`
}

func (s Restaurant) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// shop mirrors the gourmet-search response entry.
type shop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Access  string `json:"access"`
	Catch   string `json:"catch"`
	Open    string `json:"open"`
	Genre   struct {
		Name  string `json:"name"`
		Catch string `json:"catch"`
	} `json:"genre"`
	Budget struct {
		Name    string `json:"name"`
		Average string `json:"average"`
	} `json:"budget"`
	URLs struct {
		PC string `json:"pc"`
	} `json:"urls"`
	Photo struct {
		PC struct {
			L string `json:"l"`
		} `json:"pc"`
	} `json:"photo"`
	WiFi        string `json:"wifi"`
	Parking     string `json:"parking"`
	NonSmoking  string `json:"non_smoking"`
	Card        string `json:"card"`
	PrivateRoom string `json:"private_room"`
}

func (s *shop) toRestaurant() Restaurant {
	r := Restaurant{
		Name:     s.Name,
		Cuisine:  s.Genre.Name,
		Rating:   NoRating,
		Address:  s.Address,
		Access:   s.Access,
		Catch:    s.Catch,
		Hours:    s.Open,
		URL:      s.URLs.PC,
		PhotoURL: s.Photo.PC.L,
	}
	if s.Budget.Average != "" {
		r.Budget = s.Budget.Average
	} else if s.Budget.Name != "" {
		r.Budget = s.Budget.Name
	} else {
		r.Budget = NoBudget
	}
	for _, f := range []struct{ flag, label string }{
		{s.WiFi, "Wi-Fi"},
		{s.Parking, "駐車場"},
		{s.NonSmoking, "禁煙席"},
		{s.Card, "カード可"},
		{s.PrivateRoom, "個室"},
	} {
		if f.flag == "あり" || f.flag == "利用可" || f.flag == "全面禁煙" {
			r.Features = append(r.Features, f.label)
		}
	}
	dest := s.Name
	if s.Address != "" {
		dest += " " + s.Address
	}
	r.GoogleMapsURL = gmaps.MapsURL(dest)
	r.DirectionsURL = gmaps.DirectionsURL(dest, "電車")
	return r
}

// SyntheticRestaurants fabricates a plausible record set for location and
// cuisine. It is the last fallback tier when every live query failed; every
// record is tagged so downstream display can disclose it.
func SyntheticRestaurants(location, cuisine string) []Restaurant {
	if cuisine == "" {
		cuisine = "和食"
	}
	templates := []struct {
		name, budget, catchCopy string
	}{
		{"お食事処 やまだ", "2000～3000円", "地元で愛される定番の味"},
		{"ビストロ こみち", "3000～4000円", "落ち着いた雰囲気の隠れ家"},
		{"居酒屋 のんべえ", "2000～3000円", "気軽に立ち寄れる一軒"},
	}
	ret := make([]Restaurant, 0, len(templates))
	for _, t := range templates {
		name := fmt.Sprintf("%s %s", location, t.name)
		ret = append(ret, Restaurant{
			Name:          name,
			Cuisine:       cuisine,
			Rating:        NoRating,
			Budget:        t.budget,
			Address:       location,
			Catch:         t.catchCopy,
			GoogleMapsURL: gmaps.MapsURL(name + " " + location),
			DirectionsURL: gmaps.DirectionsURL(name+" "+location, "電車"),
			Synthetic:     true,
		})
	}
	return ret
}
