package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omakase-ai/concierge/components"
	"github.com/omakase-ai/concierge/oracle"
	"github.com/omakase-ai/concierge/tools/clock"
)

type failingTimeSource struct{}

func (failingTimeSource) Now(ctx context.Context, input *clock.NowInput) (*clock.NowOutput, error) {
	return nil, errors.New("ntp unreachable")
}

func newTestClock() *clock.Clock {
	return clock.New()
}

func TestSupervisorTimeFailureIsFatal(t *testing.T) {
	sup := NewSupervisor(oracle.NewScripted(), failingTimeSource{}, nil)
	answer, err := sup.RunTurn(context.Background(), components.NewRequest("こんにちは"), "")
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	require.NotNil(t, answer)
	assert.Contains(t, answer.Text, "申し訳ありません")
	assert.Contains(t, answer.Text, "ntp unreachable")
	assert.NotNil(t, answer.Results)
}

func TestSupervisorDomainHintBypassesRouting(t *testing.T) {
	routing := oracle.NewScripted() // 呼ばれない
	workerOracle := oracle.NewScripted(oracle.FinalStep("答えは4です"))
	w := NewWorker("math", "", workerOracle, nil)
	sup := NewSupervisor(routing, newTestClock(), []*Worker{w})

	answer, err := sup.RunTurn(context.Background(), components.NewRequest("2+2は？"), "math")
	require.NoError(t, err)
	assert.Equal(t, "答えは4です", answer.Text)
	assert.Equal(t, 0, routing.Calls())
}

func TestSupervisorUnknownHint(t *testing.T) {
	sup := NewSupervisor(oracle.NewScripted(), newTestClock(), nil)
	_, err := sup.RunTurn(context.Background(), components.NewRequest("x"), "weather")
	require.ErrorIs(t, err, ErrUnknownWorker)
}

func TestSupervisorRoutesViaTransferCall(t *testing.T) {
	routing := oracle.NewScripted(
		oracle.CallStep(components.ToolCall{ID: "call_1", Name: "transfer_to_music"}),
	)
	workerOracle := oracle.NewScripted(oracle.FinalStep("音楽担当です"))
	w := NewWorker("music", "", workerOracle, nil)
	sup := NewSupervisor(routing, newTestClock(), []*Worker{w})

	answer, err := sup.RunTurn(context.Background(), components.NewRequest("Beatlesをかけて"), "")
	require.NoError(t, err)
	assert.Equal(t, "音楽担当です", answer.Text)
}

func TestSupervisorDirectAnswerWithoutTransfer(t *testing.T) {
	routing := oracle.NewScripted(oracle.FinalStep("こんにちは！"))
	sup := NewSupervisor(routing, newTestClock(), []*Worker{NewWorker("music", "", oracle.NewScripted(), nil)})

	answer, err := sup.RunTurn(context.Background(), components.NewRequest("こんにちは"), "")
	require.NoError(t, err)
	assert.Equal(t, "こんにちは！", answer.Text)
	assert.Empty(t, answer.Results)
}

func TestSupervisorAbortedWorkerStillAnswers(t *testing.T) {
	steps := make([]oracle.ScriptedStep, 0, 30)
	for i := 0; i < 30; i++ {
		steps = append(steps, oracle.CallStep(components.ToolCall{ID: "c", Name: "missing", Arguments: `{}`}))
	}
	w := NewWorker("research", "", oracle.NewScripted(steps...), nil)
	sup := NewSupervisor(oracle.NewScripted(), newTestClock(), []*Worker{w})

	answer, err := sup.RunTurn(context.Background(), components.NewRequest("調べて"), "research")
	require.ErrorIs(t, err, ErrIterationBudget)
	assert.NotEmpty(t, answer.Text)
	assert.NotEqual(t, NoAnswerText, answer.Text)
}

func TestSupervisorMergesRestaurantProviders(t *testing.T) {
	workerOracle := oracle.NewScripted(oracle.FinalStep(
		`次の結果が見つかりました {"results": [` +
			`{"name": "Restaurant X", "cuisine": "和食", "rating": "評価なし"},` +
			`{"name": "Restaurant X", "rating": 4.5, "price_level": 2, "maps_url": "https://maps.example/x"}` +
			`]} 以上です`,
	))
	w := NewWorker("restaurant", "", workerOracle, nil)
	sup := NewSupervisor(oracle.NewScripted(), newTestClock(), []*Worker{w})

	answer, err := sup.RunTurn(context.Background(), components.NewRequest("和食のお店"), "restaurant")
	require.NoError(t, err)
	require.Len(t, answer.Results, 1)
	out := answer.Results[0]
	assert.Equal(t, 4.5, out["rating"])
	assert.Equal(t, 4.5, out["google_rating"])
	assert.Equal(t, "https://maps.example/x", out["google_maps_url"])
	assert.Equal(t, "和食", out["cuisine"])
}

func TestSupervisorMusicReparseFillsResults(t *testing.T) {
	workerOracle := oracle.NewScripted(oracle.FinalStep("おすすめはLet It BeとHey Judeです"))
	w := NewWorker("music", "", workerOracle, nil)
	reparser := func(ctx context.Context, text string) ([]Record, error) {
		assert.Contains(t, text, "Let It Be")
		return []Record{
			{"name": "Let It Be", "artist": "Beatles"},
			{"name": "Hey Jude", "artist": "Beatles"},
		}, nil
	}
	sup := NewSupervisor(oracle.NewScripted(), newTestClock(), []*Worker{w}, WithTrackReparser(reparser))

	answer, err := sup.RunTurn(context.Background(), components.NewRequest("ビートルズのおすすめ"), "music")
	require.NoError(t, err)
	require.Len(t, answer.Results, 2)
	assert.Equal(t, "Let It Be", answer.Results[0]["name"])
}

func TestSupervisorMalformedRoutingFallsBackToDefault(t *testing.T) {
	routing := oracle.NewScripted(
		oracle.ScriptedStep{Err: oracle.ErrMalformed},
		oracle.ScriptedStep{Err: oracle.ErrMalformed},
	)
	w := NewWorker("research", "", oracle.NewScripted(oracle.FinalStep("調査しました")), nil)
	sup := NewSupervisor(routing, newTestClock(), []*Worker{w})

	answer, err := sup.RunTurn(context.Background(), components.NewRequest("何でもいいので"), "")
	require.NoError(t, err)
	assert.Equal(t, "調査しました", answer.Text)
}
