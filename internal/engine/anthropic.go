package engine

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5"

const anthropicMaxTokens = 4096

// Anthropic streams chat completions from the Anthropic API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic streamer with the given API key. An
// empty model selects the default.
func NewAnthropic(apiKey, model string) *Anthropic {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{client: &client, model: model}
}

// StreamChat sends the conversation and streams back text deltas.
func (c *Anthropic) StreamChat(ctx context.Context, messages []Message) (<-chan StreamEvent, error) {
	msgs, system := convertAnthropicMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}

	stream := c.client.Messages.NewStreaming(ctx, params)
	ch := make(chan StreamEvent)

	go func() {
		defer close(ch)

		for stream.Next() {
			event := stream.Current()
			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" {
					ch <- StreamEvent{Delta: textDelta.Text}
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- StreamEvent{Err: err}
			return
		}
		ch <- StreamEvent{Done: true}
	}()

	return ch, nil
}

// convertAnthropicMessages splits out system prompts, which the Anthropic
// API takes as a separate parameter.
func convertAnthropicMessages(messages []Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var out []anthropic.MessageParam
	var system []anthropic.TextBlockParam
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out, system
}

var _ Streamer = (*Anthropic)(nil)
