package oracle

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/omakase-ai/concierge/components"
)

// Anthropic adapts an Anthropic messages client to the Oracle interface.
type Anthropic struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropic returns an oracle backed by the given client and model.
func NewAnthropic(client *anthropic.Client, model string, maxTokens int) *Anthropic {
	if maxTokens == 0 {
		maxTokens = 2048
	}
	return &Anthropic{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

var _ Oracle = (*Anthropic)(nil)

func (a *Anthropic) NextStep(ctx context.Context, trace *components.Trace, schemas []ToolSchema, apiResp *components.LLMResponse) (*Step, error) {
	system, messages := a.messages(trace)
	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    system,
		Messages:  messages,
		Tools:     a.tools(schemas),
	}
	resp, err := a.client.CreateMessages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("oracle anthropic: %w", err)
	}
	if apiResp != nil {
		apiResp.FromAnthropic(&resp)
	}
	step := new(Step)
	var text strings.Builder
	for _, c := range resp.Content {
		switch {
		case c.Type == anthropic.MessagesContentTypeToolUse && c.MessageContentToolUse != nil:
			step.ToolCalls = append(step.ToolCalls, components.ToolCall{
				ID:        c.MessageContentToolUse.ID,
				Name:      c.MessageContentToolUse.Name,
				Arguments: string(c.MessageContentToolUse.Input),
			})
		case c.Type == anthropic.MessagesContentTypeText:
			text.WriteString(c.GetText())
		}
	}
	if len(step.ToolCalls) > 0 {
		return step, nil
	}
	step.FinalText = text.String()
	if step.FinalText == "" {
		return nil, ErrMalformed
	}
	return step, nil
}

func (a *Anthropic) messages(trace *components.Trace) (string, []anthropic.Message) {
	history := trace.Messages()
	var system strings.Builder
	out := make([]anthropic.Message, 0, len(history))
	for _, msg := range history {
		switch {
		case msg.Role() == components.SystemRole:
			if system.Len() > 0 {
				system.WriteString("\n")
			}
			system.WriteString(msg.StringifiedContent())
		case len(msg.ToolCalls()) > 0:
			var v anthropic.Message
			components.ToolCallsToAnthropic(msg.ToolCalls(), &v)
			out = append(out, v)
		case msg.Role() == components.ToolRole:
			var v anthropic.Message
			components.ToolCallbacksToAnthropic([]components.ToolCallback{{
				ID:      msg.ToolCallID(),
				Content: msg.StringifiedContent(),
			}}, &v)
			out = append(out, v)
		case msg.Role() == components.AssistantRole:
			out = append(out, anthropic.NewAssistantTextMessage(msg.StringifiedContent()))
		default:
			out = append(out, anthropic.NewUserTextMessage(msg.StringifiedContent()))
		}
	}
	return system.String(), out
}

func (a *Anthropic) tools(schemas []ToolSchema) []anthropic.ToolDefinition {
	if len(schemas) == 0 {
		return nil
	}
	out := make([]anthropic.ToolDefinition, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, anthropic.ToolDefinition{
			Name:        s.Name,
			Description: s.Description,
			InputSchema: s.Parameters,
		})
	}
	return out
}
