package engine

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI streams chat completions from the OpenAI API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI streamer with the given API key. An empty
// model selects the default.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: &client, model: model}
}

// StreamChat sends the conversation and streams back text deltas.
func (c *OpenAI) StreamChat(ctx context.Context, messages []Message) (<-chan StreamEvent, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: convertOpenAIMessages(messages),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	ch := make(chan StreamEvent)

	go func() {
		defer close(ch)
		var acc openai.ChatCompletionAccumulator

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				ch <- StreamEvent{Delta: chunk.Choices[0].Delta.Content}
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

func convertOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

var _ Streamer = (*OpenAI)(nil)
