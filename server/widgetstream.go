package server

import (
	"context"
	"fmt"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/widget"
)

// StreamWidget renders successive snapshots of one widget as incremental
// item events on the side channel. The first snapshot is announced with
// item.added the moment it arrives, each later snapshot is diffed against
// its predecessor and emitted as item.updated operations, and the final
// snapshot is sealed with item.done.
//
// Returns the finished widget item. Diff violations (a de-novo node id, a
// non-append text change) abort the stream and surface as errors.
func (a *AgentContext) StreamWidget(ctx context.Context, roots <-chan widget.Root, copyText string) (*chatkit.WidgetItem, error) {
	var item *chatkit.WidgetItem
	var prev widget.Root

	for {
		var next widget.Root
		var ok bool
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case next, ok = <-roots:
		}
		if !ok {
			break
		}
		if next == nil {
			continue
		}

		if item == nil {
			var err error
			if item, err = a.newWidgetItem(ctx, next, copyText); err != nil {
				return nil, err
			}
			a.Stream(chatkit.NewItemAddedEvent(item))
			prev = next
			continue
		}

		ops, err := widget.Diff(prev, next)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", item.ID, err)
		}
		for _, op := range ops {
			a.Stream(chatkit.NewItemUpdatedEvent(item.ID, widgetUpdateFor(op)))
		}
		prev = next
		item.Widget = next
	}

	if item == nil {
		return nil, fmt.Errorf("widget stream produced no snapshots")
	}
	a.Stream(chatkit.NewItemDoneEvent(item))
	return item, nil
}

// Widget emits a single finished widget as one item.done event, with no
// intermediate lifecycle events. Use StreamWidget for incremental sources.
func (a *AgentContext) Widget(ctx context.Context, root widget.Root, copyText string) (*chatkit.WidgetItem, error) {
	item, err := a.newWidgetItem(ctx, root, copyText)
	if err != nil {
		return nil, err
	}
	a.Stream(chatkit.NewItemDoneEvent(item))
	return item, nil
}

func (a *AgentContext) newWidgetItem(ctx context.Context, root widget.Root, copyText string) (*chatkit.WidgetItem, error) {
	id, err := a.GenerateItemID(ctx, chatkit.ItemTypeWidget)
	if err != nil {
		return nil, err
	}
	item := chatkit.NewWidgetItem(root, copyText)
	item.ID = id
	item.ThreadID = a.Thread.ID
	return item, nil
}

// widgetUpdateFor maps a diff operation to its wire update.
func widgetUpdateFor(op widget.Op) chatkit.ItemUpdate {
	switch o := op.(type) {
	case widget.ReplaceRoot:
		return chatkit.NewWidgetRootUpdated(o.Root)
	case widget.StreamingTextDelta:
		return chatkit.NewWidgetTextDelta(o.ComponentID, o.Delta, o.Done)
	default:
		// the op union is closed; this is unreachable
		return chatkit.NewWidgetRootUpdated(nil)
	}
}
