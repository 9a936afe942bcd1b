package agents

import (
	"context"

	instructor "github.com/bububa/instructor-go/pkg/instructor"
	openai "github.com/sashabaranov/go-openai"

	"github.com/omakase-ai/concierge/schema"
)

// trackList is the structured shape the re-parse coerces answer text into.
type trackList struct {
	schema.Base
	// Tracks every track mentioned in the text.
	Tracks []struct {
		// Name track title.
		Name string `json:"name" jsonschema:"title=name,description=Track title." validate:"required"`
		// Artist performing artist.
		Artist string `json:"artist,omitempty" jsonschema:"title=artist,description=Performing artist."`
		// SpotifyURL track URL when the text mentions one.
		SpotifyURL string `json:"spotify_url,omitempty" jsonschema:"title=spotify_url,description=Track URL when mentioned."`
	} `json:"tracks" jsonschema:"title=tracks,description=Every track mentioned in the text."`
}

const reparsePrompt = "次の文章に登場する楽曲をすべて抽出し、構造化して返してください。\n\n"

// NewInstructorReparser builds a TrackReparser that coerces free-form music
// answers into track records via a structured-output completion. Used when
// extraction recovered text but no records.
func NewInstructorReparser(clt *openai.Client, model string) TrackReparser {
	instr := instructor.FromOpenAI(clt,
		instructor.WithMode(instructor.ModeJSON),
		instructor.WithMaxRetries(2),
	)
	return func(ctx context.Context, text string) ([]Record, error) {
		var out trackList
		if _, err := instr.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: reparsePrompt + text},
			},
		}, &out); err != nil {
			return nil, err
		}
		records := make([]Record, 0, len(out.Tracks))
		for _, t := range out.Tracks {
			record := Record{"name": t.Name}
			if t.Artist != "" {
				record["artist"] = t.Artist
			}
			if t.SpotifyURL != "" {
				record["spotify_url"] = t.SpotifyURL
			}
			records = append(records, record)
		}
		return records, nil
	}
}
