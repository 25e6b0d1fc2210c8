package server

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/store"
	"github.com/Timestep-AI/timestep-ai-sub001/widget"
)

func newAgentContext(t *testing.T) (*AgentContext, *EventQueue) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	thread := &chatkit.Thread{ID: "cthr_1", CreatedAt: chatkit.Now(), Status: chatkit.ActiveStatus()}
	require.NoError(t, mem.AddThread(ctx, nil, thread))

	queue := NewEventQueue()
	return &AgentContext{
		Thread: thread,
		store:  mem,
		queue:  queue,
		log:    slog.Default(),
	}, queue
}

func textCard(body string, streaming bool) widget.Card {
	return widget.Card{
		ComponentBase: widget.ComponentBase{ID: "card"},
		Type:          widget.TypeCard,
		Children: []widget.Component{
			widget.Markdown{
				ComponentBase: widget.ComponentBase{ID: "body"},
				Type:          widget.TypeMarkdown,
				Value:         body,
				Streaming:     streaming,
			},
		},
	}
}

func waitForEvent(t *testing.T, queue *EventQueue) chatkit.ThreadStreamEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev, ok, err := queue.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	return ev
}

func drainEvents(queue *EventQueue) []chatkit.ThreadStreamEvent {
	var events []chatkit.ThreadStreamEvent
	for {
		ev, ok := queue.TryGet()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

func TestStreamWidgetIncremental(t *testing.T) {
	actx, queue := newAgentContext(t)

	roots := make(chan widget.Root)
	result := make(chan *chatkit.WidgetItem, 1)
	errc := make(chan error, 1)
	go func() {
		item, err := actx.StreamWidget(context.Background(), roots, "The forecast is sunny.")
		result <- item
		errc <- err
	}()

	roots <- textCard("The", true)

	// the first snapshot must be announced before any further one arrives
	added := waitForEvent(t, queue).(chatkit.ItemAddedEvent)
	announced := added.Item.(*chatkit.WidgetItem)
	assert.Equal(t, textCard("The", true), announced.Widget)

	roots <- textCard("The forecast", true)
	roots <- textCard("The forecast is sunny.", false)
	close(roots)

	item := <-result
	require.NoError(t, <-errc)
	require.NotEmpty(t, item.ID)
	assert.Equal(t, item.ID, announced.ID)

	events := drainEvents(queue)
	require.Len(t, events, 3)

	first := events[0].(chatkit.ItemUpdatedEvent).Update.(chatkit.WidgetTextDelta)
	assert.Equal(t, "body", first.ComponentID)
	assert.Equal(t, " forecast", first.Delta)
	assert.False(t, first.Done)

	second := events[1].(chatkit.ItemUpdatedEvent).Update.(chatkit.WidgetTextDelta)
	assert.Equal(t, " is sunny.", second.Delta)
	assert.True(t, second.Done)

	done := events[2].(chatkit.ItemDoneEvent)
	final := done.Item.(*chatkit.WidgetItem)
	assert.Equal(t, "The forecast is sunny.", final.CopyText)
	card := final.Widget.(widget.Card)
	assert.Equal(t, "The forecast is sunny.", card.Children[0].(widget.Markdown).Value)
}

func TestStreamWidgetSingleSnapshot(t *testing.T) {
	actx, queue := newAgentContext(t)

	roots := make(chan widget.Root, 1)
	roots <- textCard("static content", false)
	close(roots)

	item, err := actx.StreamWidget(context.Background(), roots, "static content")
	require.NoError(t, err)

	events := drainEvents(queue)
	require.Len(t, events, 2)
	_, ok := events[0].(chatkit.ItemAddedEvent)
	require.True(t, ok)
	done, ok := events[1].(chatkit.ItemDoneEvent)
	require.True(t, ok)
	assert.Equal(t, item.ID, done.Item.GetBase().ID)
}

func TestWidgetShortCircuit(t *testing.T) {
	actx, queue := newAgentContext(t)

	item, err := actx.Widget(context.Background(), textCard("static content", false), "static content")
	require.NoError(t, err)

	// a finished root skips the streaming lifecycle entirely
	events := drainEvents(queue)
	require.Len(t, events, 1)
	done, ok := events[0].(chatkit.ItemDoneEvent)
	require.True(t, ok)
	assert.Equal(t, item.ID, done.Item.GetBase().ID)
}

func TestStreamWidgetStructuralReplace(t *testing.T) {
	actx, queue := newAgentContext(t)

	grown := textCard("hello", true)
	grown.Children = append(grown.Children, widget.Divider{Type: widget.TypeDivider})

	roots := make(chan widget.Root, 2)
	roots <- textCard("hello", true)
	roots <- grown
	close(roots)

	_, err := actx.StreamWidget(context.Background(), roots, "")
	require.NoError(t, err)

	events := drainEvents(queue)
	require.Len(t, events, 3)
	upd := events[1].(chatkit.ItemUpdatedEvent).Update.(chatkit.WidgetRootUpdated)
	assert.Equal(t, grown, upd.Widget)
}

func TestStreamWidgetErrors(t *testing.T) {
	t.Run("non-append text aborts", func(t *testing.T) {
		actx, _ := newAgentContext(t)

		roots := make(chan widget.Root, 2)
		roots <- textCard("hello", true)
		roots <- textCard("rewritten", true)
		close(roots)

		_, err := actx.StreamWidget(context.Background(), roots, "")
		assert.ErrorIs(t, err, widget.ErrTextNotAppend)
	})

	t.Run("empty stream is an error", func(t *testing.T) {
		actx, _ := newAgentContext(t)

		roots := make(chan widget.Root)
		close(roots)

		_, err := actx.StreamWidget(context.Background(), roots, "")
		assert.Error(t, err)
	})
}

func TestWorkflowLifecycle(t *testing.T) {
	actx, queue := newAgentContext(t)
	ctx := context.Background()

	require.NoError(t, actx.BeginWorkflow(ctx, chatkit.WorkflowCustom, "Researching"))
	require.NoError(t, actx.AddTask(chatkit.WorkflowTask{Title: "Searching"}))
	require.NoError(t, actx.AddTask(chatkit.WorkflowTask{Title: "Reading"}))
	require.NoError(t, actx.EndWorkflow(&chatkit.WorkflowSummary{Title: "Done"}))

	events := drainEvents(queue)
	require.Len(t, events, 4)

	added := events[0].(chatkit.ItemAddedEvent).Item.(*chatkit.WorkflowItem)
	assert.True(t, added.Expanded)
	assert.Equal(t, "Researching", added.Label)

	task := events[2].(chatkit.ItemUpdatedEvent).Update.(chatkit.WorkflowTaskAdded)
	assert.Equal(t, 1, task.TaskIndex)
	assert.Equal(t, "Reading", task.Task.Title)

	final := events[3].(chatkit.ItemDoneEvent).Item.(*chatkit.WorkflowItem)
	assert.False(t, final.Expanded)
	require.NotNil(t, final.Summary)
	assert.Equal(t, "Done", final.Summary.Title)
	assert.Len(t, final.Tasks, 2)

	t.Run("second begin while open fails", func(t *testing.T) {
		require.NoError(t, actx.BeginWorkflow(ctx, chatkit.WorkflowReasoning, ""))
		assert.Error(t, actx.BeginWorkflow(ctx, chatkit.WorkflowReasoning, ""))
	})

	t.Run("task without open workflow fails", func(t *testing.T) {
		other, _ := newAgentContext(t)
		assert.Error(t, other.AddTask(chatkit.WorkflowTask{Title: "orphan"}))
		assert.Error(t, other.EndWorkflow(nil))
	})
}
