package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
	"github.com/omakase-ai/concierge/tools/clock"
)

// Event is a calendar event body.
type Event struct {
	Summary     string    `json:"summary"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventTime is a timed event boundary.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// InsertedEvent is the upstream acknowledgment of a created event.
type InsertedEvent struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// EventInserter creates an event on a calendar. Implementations own
// authentication.
type EventInserter interface {
	InsertEvent(ctx context.Context, calendarID string, ev *Event) (*InsertedEvent, error)
}

// Input Schema for input to a tool for creating calendar events. Dates and
// times accept the same Japanese phrases as the clock tool.
type Input struct {
	schema.Base
	// Title event title.
	Title string `json:"title" jsonschema:"title=title,description=Event title." validate:"required"`
	// Date date phrase, e.g. 明日 or 来週金曜日 or 2026-09-01.
	Date string `json:"date" jsonschema:"title=date,description=Date phrase such as 明日 or 2026-09-01." validate:"required"`
	// Time time phrase, e.g. 19:00 or 19時.
	Time string `json:"time,omitempty" jsonschema:"title=time,description=Time phrase such as 19:00 or 19時."`
	// Location optional event location.
	Location string `json:"location,omitempty" jsonschema:"title=location,description=Event location."`
	// Description optional event description.
	Description string `json:"description,omitempty" jsonschema:"title=description,description=Event description."`
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output represents the output of the calendar tool.
type Output struct {
	schema.Base
	// EventID created event identifier.
	EventID string `json:"event_id,omitempty" jsonschema:"title=event_id,description=Created event identifier."`
	// HTMLLink event page URL.
	HTMLLink string `json:"html_link,omitempty" jsonschema:"title=html_link,description=Event page URL."`
	// Start event start, ISO 8601.
	Start string `json:"start" jsonschema:"title=start,description=Event start."`
	// End event end, ISO 8601.
	End string `json:"end" jsonschema:"title=end,description=Event end."`
	// Message human-readable confirmation.
	Message string `json:"message,omitempty" jsonschema:"title=message,description=Human-readable confirmation."`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type Config struct {
	tools.Config
	calendarID string
	inserter   EventInserter
	clock      *clock.Clock
	duration   time.Duration
}

// EventCreator is a tool for creating calendar events from natural-language
// date phrases.
type EventCreator struct {
	Config
}

func NewEventCreator(opts ...Option) *EventCreator {
	ret := new(EventCreator)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("CalendarEventTool")
	}
	if ret.calendarID == "" {
		ret.calendarID = "primary"
	}
	if ret.clock == nil {
		ret.clock = clock.New()
	}
	if ret.duration == 0 {
		ret.duration = time.Hour
	}
	return ret
}

// Run resolves the date phrase and inserts the event synchronously.
func (t *EventCreator) Run(ctx context.Context, input *Input) (*Output, error) {
	if t.inserter == nil {
		return nil, tools.NewProviderError(tools.ErrUnauthorized, fmt.Errorf("calendar: no event inserter configured"))
	}
	target, err := t.clock.TargetDate(ctx, &clock.TargetDateInput{
		RelativeDate: input.Date,
		Time:         input.Time,
	})
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(time.RFC3339, target.Target)
	if err != nil {
		return nil, err
	}
	end := start.Add(t.duration)
	ev := &Event{
		Summary:     input.Title,
		Location:    input.Location,
		Description: input.Description,
		Start:       EventTime{DateTime: start.Format(time.RFC3339), TimeZone: "Asia/Tokyo"},
		End:         EventTime{DateTime: end.Format(time.RFC3339), TimeZone: "Asia/Tokyo"},
	}
	inserted, err := t.inserter.InsertEvent(ctx, t.calendarID, ev)
	if err != nil {
		return nil, tools.Classify(err)
	}
	return &Output{
		EventID:  inserted.ID,
		HTMLLink: inserted.HTMLLink,
		Start:    ev.Start.DateTime,
		End:      ev.End.DateTime,
		Message:  fmt.Sprintf("「%s」を%s %sに登録しました。", input.Title, target.Date, target.Time),
	}, nil
}
