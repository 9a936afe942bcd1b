package components

import (
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// ToolCall is one tool invocation requested by the oracle. Arguments are kept
// as the raw JSON string the oracle emitted; the bound tool decodes them.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolCallback is the payload a tool invocation folded back into the trace.
type ToolCallback struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

func ToolCallsToOpenAI(src []ToolCall, dist *openai.ChatCompletionMessage) {
	dist.Role = openai.ChatMessageRoleAssistant
	dist.ToolCalls = make([]openai.ToolCall, 0, len(src))
	for _, v := range src {
		dist.ToolCalls = append(dist.ToolCalls, openai.ToolCall{
			ID:   v.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      v.Name,
				Arguments: v.Arguments,
			},
		})
	}
}

func ToolCallsToAnthropic(src []ToolCall, dist *anthropic.Message) {
	list := make([]anthropic.MessageContent, 0, len(src))
	for _, v := range src {
		list = append(list, anthropic.NewToolUseMessageContent(v.ID, v.Name, []byte(v.Arguments)))
	}
	*dist = anthropic.Message{
		Role:    anthropic.RoleAssistant,
		Content: list,
	}
}

func ToolCallbackToOpenAI(src ToolCallback, dist *openai.ChatCompletionMessage) {
	dist.Role = openai.ChatMessageRoleTool
	dist.Content = src.Content
	dist.Name = src.Name
	dist.ToolCallID = src.ID
}

func ToolCallbacksToAnthropic(src []ToolCallback, dist *anthropic.Message) {
	list := make([]anthropic.MessageContent, 0, len(src))
	for _, v := range src {
		list = append(list, anthropic.NewToolResultMessageContent(v.ID, v.Content, v.IsError))
	}
	dist.Role = anthropic.RoleUser
	dist.Content = list
}
