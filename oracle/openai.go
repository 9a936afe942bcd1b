package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/omakase-ai/concierge/components"
)

// OpenAI adapts an OpenAI chat-completion client to the Oracle interface.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	encoder     *tiktoken.Tiktoken
}

type OpenAIOption func(*OpenAI)

func WithOpenAITemperature(t float32) OpenAIOption {
	return func(o *OpenAI) {
		o.temperature = t
	}
}

func WithOpenAIMaxTokens(n int) OpenAIOption {
	return func(o *OpenAI) {
		o.maxTokens = n
	}
}

// NewOpenAI returns an oracle backed by the given client and model.
func NewOpenAI(client *openai.Client, model string, opts ...OpenAIOption) *OpenAI {
	ret := &OpenAI{
		client: client,
		model:  model,
	}
	for _, opt := range opts {
		opt(ret)
	}
	// Token accounting is best effort; unknown models fall back to cl100k.
	if enc, err := tiktoken.EncodingForModel(model); err == nil {
		ret.encoder = enc
	} else if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
		ret.encoder = enc
	}
	return ret
}

var _ Oracle = (*OpenAI)(nil)

func (o *OpenAI) NextStep(ctx context.Context, trace *components.Trace, schemas []ToolSchema, apiResp *components.LLMResponse) (*Step, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Messages:    o.messages(trace),
		Tools:       o.tools(schemas),
	}
	if o.encoder != nil {
		prompt := 0
		for _, msg := range req.Messages {
			prompt += len(o.encoder.Encode(msg.Content, nil, nil))
		}
		slog.Debug("oracle step", "model", o.model, "messages", len(req.Messages), "prompt_tokens", prompt)
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("oracle openai: %w", err)
	}
	if apiResp != nil {
		apiResp.FromOpenAI(&resp)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrMalformed
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		step := &Step{ToolCalls: make([]components.ToolCall, 0, len(msg.ToolCalls))}
		for _, tc := range msg.ToolCalls {
			if tc.Type != openai.ToolTypeFunction {
				continue
			}
			step.ToolCalls = append(step.ToolCalls, components.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
		if len(step.ToolCalls) == 0 {
			return nil, ErrMalformed
		}
		return step, nil
	}
	if msg.Content == "" {
		return nil, ErrMalformed
	}
	return &Step{FinalText: msg.Content}, nil
}

func (o *OpenAI) messages(trace *components.Trace) []openai.ChatCompletionMessage {
	history := trace.Messages()
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		var v openai.ChatCompletionMessage
		switch {
		case len(msg.ToolCalls()) > 0:
			components.ToolCallsToOpenAI(msg.ToolCalls(), &v)
		case msg.Role() == components.ToolRole:
			components.ToolCallbackToOpenAI(components.ToolCallback{
				ID:      msg.ToolCallID(),
				Content: msg.StringifiedContent(),
			}, &v)
		default:
			v.Role = msg.Role()
			v.Content = msg.StringifiedContent()
		}
		out = append(out, v)
	}
	return out
}

func (o *OpenAI) tools(schemas []ToolSchema) []openai.Tool {
	if len(schemas) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return out
}
