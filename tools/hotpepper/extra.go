package hotpepper

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/omakase-ai/concierge/schema"
)

// ByNameInput Schema for looking up one restaurant by its name.
type ByNameInput struct {
	schema.Base
	// Name restaurant name to look up.
	Name string `json:"name" jsonschema:"title=name,description=Restaurant name to look up." validate:"required"`
	// Location optional location hint.
	Location string `json:"location,omitempty" jsonschema:"title=location,description=Optional location hint."`
}

func (s ByNameInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// SearchByName looks a restaurant up by name through the keyword parameter.
func (t *GourmetSearch) SearchByName(ctx context.Context, input *ByNameInput) (*Output, error) {
	values := t.baseValues()
	keyword := input.Name
	if input.Location != "" {
		keyword = input.Location + " " + keyword
	}
	values.Set("keyword", keyword)
	shops, total, err := t.fetchShops(ctx, values)
	if err != nil {
		return nil, err
	}
	out := &Output{
		Location:     input.Location,
		TotalFound:   total,
		SearchMethod: MethodKeyword,
	}
	for i := range shops {
		out.Restaurants = append(out.Restaurants, shops[i].toRestaurant())
	}
	if len(out.Restaurants) == 0 {
		out.Message = fmt.Sprintf("「%s」に一致するお店が見つかりませんでした。", input.Name)
	} else {
		out.Message = fmt.Sprintf("「%s」の検索結果 %d件", input.Name, len(out.Restaurants))
	}
	return out, nil
}

// AvailabilityInput Schema for a seat-availability check.
type AvailabilityInput struct {
	schema.Base
	// RestaurantName restaurant to check.
	RestaurantName string `json:"restaurant_name" jsonschema:"title=restaurant_name,description=Restaurant to check." validate:"required"`
	// Date reservation date, e.g. 明日 or 2026-09-01.
	Date string `json:"date,omitempty" jsonschema:"title=date,description=Reservation date."`
	// Time reservation time, e.g. 19:00.
	Time string `json:"time,omitempty" jsonschema:"title=time,description=Reservation time."`
	// Guests party size.
	Guests int `json:"guests,omitempty" jsonschema:"title=guests,description=Party size."`
}

func (s AvailabilityInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// AvailabilityOutput represents the result of a seat-availability check.
type AvailabilityOutput struct {
	schema.Base
	// RestaurantName restaurant checked.
	RestaurantName string `json:"restaurant_name" jsonschema:"title=restaurant_name,description=Restaurant checked."`
	// Status 空席あり, 残りわずか or 満席.
	Status string `json:"status" jsonschema:"title=status,description=Availability status."`
	// AlternativeTimes nearby times offered when the slot is full.
	AlternativeTimes []string `json:"alternative_times,omitempty" jsonschema:"title=alternative_times,description=Nearby times offered when the slot is full."`
	// Message human-readable summary.
	Message string `json:"message,omitempty" jsonschema:"title=message,description=Human-readable summary."`
}

func (s AvailabilityOutput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// CheckAvailability reports a simulated seat-availability status. No public
// reservation API exists, so the status is derived from a hash of the request
// so repeated checks stay consistent within a conversation.
func (t *GourmetSearch) CheckAvailability(ctx context.Context, input *AvailabilityInput) (*AvailabilityOutput, error) {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s|%d", input.RestaurantName, input.Date, input.Time, input.Guests)
	statuses := []string{"空席あり", "空席あり", "残りわずか", "満席"}
	status := statuses[h.Sum32()%uint32(len(statuses))]
	out := &AvailabilityOutput{
		RestaurantName: input.RestaurantName,
		Status:         status,
	}
	switch status {
	case "満席":
		out.AlternativeTimes = []string{"17:30", "21:00"}
		out.Message = fmt.Sprintf("%sは満席です。別の時間帯はいかがでしょうか。", input.RestaurantName)
	case "残りわずか":
		out.Message = fmt.Sprintf("%sは残席わずかです。お早めのご予約をおすすめします。", input.RestaurantName)
	default:
		out.Message = fmt.Sprintf("%sは空席があります。", input.RestaurantName)
	}
	return out, nil
}
