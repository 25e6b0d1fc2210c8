package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/internal/engine"
	"github.com/Timestep-AI/timestep-ai-sub001/server"
)

const systemPrompt = "You are a helpful assistant. Keep answers concise."

// Responder drives model turns for the demo server. Demo tools are keyword
// triggered: a "weather" question streams a widget alongside the model
// answer, and theme requests hand a tool call to the client.
type Responder struct {
	streamer  engine.Streamer
	demoTools bool
	log       *slog.Logger
}

// NewResponder creates the demo responder.
func NewResponder(streamer engine.Streamer, demoTools bool, log *slog.Logger) *Responder {
	return &Responder{streamer: streamer, demoTools: demoTools, log: log}
}

// Respond implements server.ResponderFunc.
func (r *Responder) Respond(ctx context.Context, actx *server.AgentContext, input *chatkit.UserMessageItem) <-chan server.Emission {
	out := make(chan server.Emission)
	go func() {
		defer close(out)
		if err := r.run(ctx, actx, input, out); err != nil {
			out <- server.Emission{Err: err}
		}
	}()
	return out
}

func (r *Responder) run(ctx context.Context, actx *server.AgentContext, input *chatkit.UserMessageItem, out chan<- server.Emission) error {
	// resuming after a client-side tool: acknowledge instead of calling
	// the model again
	if call := actx.ClientToolCall; call != nil {
		msg := chatkit.NewAssistantMessageItem(
			chatkit.NewAssistantText(fmt.Sprintf("Done. The %s tool reported: %v", call.Name, call.Output)))
		out <- server.Emission{Event: chatkit.NewItemDoneEvent(msg)}
		return nil
	}

	text := ""
	if input != nil {
		text = strings.ToLower(input.Text())
	}

	if r.demoTools && wantsThemeSwitch(text) {
		theme := "dark"
		if strings.Contains(text, "light") {
			theme = "light"
		}
		_, err := actx.RequireClientTool(ctx, "switch_theme", map[string]any{"theme": theme})
		return err
	}

	// the weather widget streams on the side channel while the model
	// answers on the primary stream
	widgetDone := make(chan error, 1)
	if r.demoTools && strings.Contains(text, "weather") {
		go func() {
			widgetDone <- streamWeatherWidget(ctx, actx)
		}()
	} else {
		widgetDone <- nil
	}

	if err := r.streamAssistant(ctx, actx, out); err != nil {
		<-widgetDone
		return err
	}
	return <-widgetDone
}

// streamAssistant runs one model call, relaying deltas as item updates.
func (r *Responder) streamAssistant(ctx context.Context, actx *server.AgentContext, out chan<- server.Emission) error {
	history, err := actx.LoadHistory(ctx)
	if err != nil {
		return err
	}
	messages := buildModelInput(history)

	events, err := r.streamer.StreamChat(ctx, messages)
	if err != nil {
		return err
	}

	id, err := actx.GenerateItemID(ctx, chatkit.ItemTypeAssistantMessage)
	if err != nil {
		return err
	}
	item := chatkit.NewAssistantMessageItem(chatkit.NewAssistantText(""))
	item.ID = id
	item.ThreadID = actx.Thread.ID
	out <- server.Emission{Event: chatkit.NewItemAddedEvent(item)}

	var full strings.Builder
	for ev := range events {
		if ev.Err != nil {
			return ev.Err
		}
		if ev.Delta != "" {
			full.WriteString(ev.Delta)
			out <- server.Emission{Event: chatkit.NewItemUpdatedEvent(id, chatkit.NewAssistantTextDelta(0, ev.Delta))}
		}
	}

	item.Content = []chatkit.AssistantMessageContent{chatkit.NewAssistantText(full.String())}
	out <- server.Emission{Event: chatkit.NewItemDoneEvent(item)}
	return nil
}

// buildModelInput converts thread history into the model conversation.
// Pending client tool calls are dropped; completed ones are replayed as
// plain text so the model sees their outcome.
func buildModelInput(history []chatkit.ThreadItem) []engine.Message {
	messages := []engine.Message{{Role: engine.RoleSystem, Content: systemPrompt}}
	for _, item := range history {
		switch it := item.(type) {
		case *chatkit.UserMessageItem:
			messages = append(messages, engine.Message{Role: engine.RoleUser, Content: it.Text()})
		case *chatkit.AssistantMessageItem:
			messages = append(messages, engine.Message{Role: engine.RoleAssistant, Content: it.Text()})
		case *chatkit.ClientToolCallItem:
			if it.Status == chatkit.ToolCallCompleted {
				messages = append(messages, engine.Message{
					Role:    engine.RoleAssistant,
					Content: fmt.Sprintf("[called tool %s, result: %v]", it.Name, it.Output),
				})
			}
		case *chatkit.HiddenContextItem:
			messages = append(messages, engine.Message{Role: engine.RoleSystem, Content: it.Content})
		}
	}
	return messages
}

func wantsThemeSwitch(text string) bool {
	return strings.Contains(text, "dark mode") ||
		strings.Contains(text, "light mode") ||
		strings.Contains(text, "switch theme")
}
