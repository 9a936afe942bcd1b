package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/omakase-ai/concierge/schema"
	"github.com/omakase-ai/concierge/tools"
)

// NowInput Schema for reading the current time. Takes no parameters.
type NowInput struct {
	schema.Base
}

func (s NowInput) String() string {
	return "{}"
}

// NowOutput carries the current wall-clock time.
type NowOutput struct {
	schema.Base
	// CurrentTime ISO 8601 timestamp with offset.
	CurrentTime string `json:"current_time" jsonschema:"title=current_time,description=ISO 8601 timestamp with offset."`
	// Weekday Japanese weekday name.
	Weekday string `json:"weekday" jsonschema:"title=weekday,description=Japanese weekday name."`
}

func (s NowOutput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type Config struct {
	tools.Config
	now      func() time.Time
	location *time.Location
}

// Clock reports the current time and resolves relative Japanese date phrases
// into concrete timestamps.
type Clock struct {
	Config
}

func New(opts ...Option) *Clock {
	ret := new(Clock)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("CurrentTimeTool")
	}
	if ret.location == nil {
		loc, err := time.LoadLocation("Asia/Tokyo")
		if err != nil {
			loc = time.FixedZone("JST", 9*60*60)
		}
		ret.location = loc
	}
	if ret.now == nil {
		ret.now = time.Now
	}
	return ret
}

var jaWeekdays = [...]string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"}

// Now returns the current time in the configured location.
func (t *Clock) Now(ctx context.Context, input *NowInput) (*NowOutput, error) {
	now := t.now().In(t.location)
	return &NowOutput{
		CurrentTime: now.Format(time.RFC3339),
		Weekday:     jaWeekdays[now.Weekday()],
	}, nil
}

// TargetDateInput Schema for resolving a relative date phrase and time phrase
// into a concrete timestamp.
type TargetDateInput struct {
	schema.Base
	// RelativeDate phrase such as 今日, 明日 or 来週金曜日.
	RelativeDate string `json:"relative_date" jsonschema:"title=relative_date,description=Phrase such as 今日 or 明日 or 来週金曜日." validate:"required"`
	// Time time phrase such as 19:00 or 19時30分.
	Time string `json:"time,omitempty" jsonschema:"title=time,description=Time phrase such as 19:00 or 19時30分."`
}

func (s TargetDateInput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// TargetDateOutput is the resolved timestamp.
type TargetDateOutput struct {
	schema.Base
	// Target ISO 8601 timestamp of the resolved moment.
	Target string `json:"target" jsonschema:"title=target,description=ISO 8601 timestamp of the resolved moment."`
	// Date resolved calendar date, YYYY-MM-DD.
	Date string `json:"date" jsonschema:"title=date,description=Resolved calendar date."`
	// Time resolved time of day, HH:MM.
	Time string `json:"time" jsonschema:"title=time,description=Resolved time of day."`
	// Weekday Japanese weekday name of the resolved date.
	Weekday string `json:"weekday" jsonschema:"title=weekday,description=Japanese weekday name of the resolved date."`
}

func (s TargetDateOutput) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

var (
	colonTimeRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	kanjiTimeRe  = regexp.MustCompile(`(\d{1,2})時(?:(\d{1,2})分)?`)
	weekdayNames = map[string]time.Weekday{
		"月": time.Monday, "火": time.Tuesday, "水": time.Wednesday,
		"木": time.Thursday, "金": time.Friday, "土": time.Saturday, "日": time.Sunday,
	}
)

// TargetDate resolves phrases like 明日 19時 into a timestamp. Unparseable
// time phrases default to 19:00, the typical dinner slot.
func (t *Clock) TargetDate(ctx context.Context, input *TargetDateInput) (*TargetDateOutput, error) {
	now := t.now().In(t.location)
	target := now

	phrase := strings.TrimSpace(input.RelativeDate)
	switch {
	case phrase == "今日" || phrase == "":
	case phrase == "明日":
		target = target.AddDate(0, 0, 1)
	case phrase == "明後日":
		target = target.AddDate(0, 0, 2)
	case strings.HasPrefix(phrase, "来週"):
		rest := strings.TrimPrefix(phrase, "来週")
		if wd, ok := parseWeekday(rest); ok {
			days := (int(wd) - int(now.Weekday()) + 7) % 7
			target = target.AddDate(0, 0, days+7)
		} else {
			target = target.AddDate(0, 0, 7)
		}
	default:
		if wd, ok := parseWeekday(phrase); ok {
			days := (int(wd) - int(now.Weekday()) + 7) % 7
			if days == 0 {
				days = 7
			}
			target = target.AddDate(0, 0, days)
		} else if d, err := time.ParseInLocation("2006-01-02", phrase, t.location); err == nil {
			target = d
		} else {
			return nil, fmt.Errorf("unrecognized date phrase: %q", phrase)
		}
	}

	hour, minute := parseTimePhrase(input.Time)
	target = time.Date(target.Year(), target.Month(), target.Day(), hour, minute, 0, 0, t.location)
	return &TargetDateOutput{
		Target:  target.Format(time.RFC3339),
		Date:    target.Format("2006-01-02"),
		Time:    target.Format("15:04"),
		Weekday: jaWeekdays[target.Weekday()],
	}, nil
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.TrimSuffix(strings.TrimSuffix(s, "曜日"), "曜")
	wd, ok := weekdayNames[s]
	return wd, ok
}

func parseTimePhrase(s string) (hour, minute int) {
	hour, minute = 19, 0
	if m := colonTimeRe.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return hour, minute
	}
	if m := kanjiTimeRe.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		} else {
			minute = 0
		}
		if strings.Contains(s, "半") {
			minute = 30
		}
	}
	return hour, minute
}
