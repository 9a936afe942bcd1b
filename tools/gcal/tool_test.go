package gcal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omakase-ai/concierge/tools"
	"github.com/omakase-ai/concierge/tools/clock"
)

type fakeInserter struct {
	calendarID string
	event      *Event
	err        error
}

func (f *fakeInserter) InsertEvent(ctx context.Context, calendarID string, ev *Event) (*InsertedEvent, error) {
	f.calendarID = calendarID
	f.event = ev
	if f.err != nil {
		return nil, f.err
	}
	return &InsertedEvent{ID: "evt_1", HTMLLink: "https://calendar.example/evt_1"}, nil
}

func fixedClock(t *testing.T) *clock.Clock {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// 2026-08-28 is a Friday.
	fixed := time.Date(2026, 8, 28, 10, 0, 0, 0, loc)
	return clock.New(clock.WithNow(func() time.Time { return fixed }), clock.WithLocation(loc))
}

func TestRunCreatesEvent(t *testing.T) {
	ins := &fakeInserter{}
	tool := NewEventCreator(WithInserter(ins), WithClock(fixedClock(t)))

	out, err := tool.Run(context.Background(), &Input{
		Title:    "夕食の予約",
		Date:     "明日",
		Time:     "19:00",
		Location: "渋谷",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt_1", out.EventID)
	assert.Equal(t, "https://calendar.example/evt_1", out.HTMLLink)
	assert.Equal(t, "2026-08-29T19:00:00+09:00", out.Start)
	assert.Equal(t, "2026-08-29T20:00:00+09:00", out.End)
	assert.Contains(t, out.Message, "夕食の予約")
	assert.Contains(t, out.Message, "2026-08-29")

	assert.Equal(t, "primary", ins.calendarID)
	assert.Equal(t, "渋谷", ins.event.Location)
	assert.Equal(t, "Asia/Tokyo", ins.event.Start.TimeZone)
}

func TestRunCustomCalendarAndDuration(t *testing.T) {
	ins := &fakeInserter{}
	tool := NewEventCreator(
		WithInserter(ins),
		WithClock(fixedClock(t)),
		WithCalendarID("team@example.com"),
		WithDuration(2*time.Hour),
	)

	out, err := tool.Run(context.Background(), &Input{Title: "会議", Date: "2026-09-01", Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", ins.calendarID)
	assert.Equal(t, "2026-09-01T12:00:00+09:00", out.End)
}

func TestRunWithoutInserter(t *testing.T) {
	tool := NewEventCreator(WithClock(fixedClock(t)))
	_, err := tool.Run(context.Background(), &Input{Title: "x", Date: "明日"})
	require.Error(t, err)
	var perr *tools.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, tools.ErrUnauthorized, perr.Kind)
}

func TestRunBadDatePhrase(t *testing.T) {
	tool := NewEventCreator(WithInserter(&fakeInserter{}), WithClock(fixedClock(t)))
	_, err := tool.Run(context.Background(), &Input{Title: "x", Date: "いつか"})
	require.Error(t, err)
}

func TestRunInserterFailure(t *testing.T) {
	ins := &fakeInserter{err: errors.New("insufficient scopes")}
	tool := NewEventCreator(WithInserter(ins), WithClock(fixedClock(t)))
	_, err := tool.Run(context.Background(), &Input{Title: "x", Date: "明日"})
	require.Error(t, err)
}
