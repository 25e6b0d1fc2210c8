package server

import (
	"context"
	"fmt"
	"log/slog"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/store"
)

// AgentContext is handed to the responder and action hooks. It carries the
// request's thread snapshot and gives collaborator code (tools, agents) a
// side channel for emitting UI events while the primary stream is still
// producing.
type AgentContext struct {
	// Thread is the request's working snapshot. Hooks may mutate Title and
	// Metadata; the processor persists and announces changes after the
	// stream ends.
	Thread *chatkit.Thread

	// RequestContext is the integration's opaque per-request value.
	RequestContext chatkit.RequestContext

	// ClientToolCall is the completed call being resumed, set only while
	// processing an add-client-tool-output request.
	ClientToolCall *chatkit.ClientToolCallItem

	store    store.Store
	queue    *EventQueue
	log      *slog.Logger
	workflow *chatkit.WorkflowItem
}

// Stream emits an event on the side channel. Safe to call from a different
// goroutine than the one consuming the merged stream.
func (a *AgentContext) Stream(ev chatkit.ThreadStreamEvent) {
	a.queue.Put(ev)
}

// Progress emits a transient progress_update event.
func (a *AgentContext) Progress(text string) {
	a.Stream(chatkit.NewProgressUpdateEvent(text))
}

// Notice emits an informational banner event.
func (a *AgentContext) Notice(level, message string) {
	a.Stream(chatkit.NewNoticeEvent(level, message))
}

// GenerateItemID allocates a store id for an item the hook is about to emit.
func (a *AgentContext) GenerateItemID(ctx context.Context, itemType chatkit.ItemType) (string, error) {
	return a.store.GenerateItemID(ctx, a.RequestContext, itemType, a.Thread)
}

// LoadHistory returns the thread's full item history, oldest first. Hooks
// use it to rebuild the model conversation; filtering (dropping pending tool
// calls, replaying completed ones) is the hook's concern.
func (a *AgentContext) LoadHistory(ctx context.Context) ([]chatkit.ThreadItem, error) {
	var all []chatkit.ThreadItem
	after := ""
	for {
		page, err := a.store.LoadItems(ctx, a.RequestContext, a.Thread.ID, store.ThreadPageSize, after, chatkit.SortOrderAsc)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.HasMore {
			return all, nil
		}
		after = page.After
	}
}

// RequireClientTool emits a pending client tool call and returns it. The
// turn ends after the primary stream finishes; the client is expected to run
// the tool and submit its output in a follow-up request.
func (a *AgentContext) RequireClientTool(ctx context.Context, name string, arguments map[string]any) (*chatkit.ClientToolCallItem, error) {
	id, err := a.GenerateItemID(ctx, chatkit.ItemTypeClientToolCall)
	if err != nil {
		return nil, err
	}
	call := chatkit.NewClientToolCallItem(id, name, arguments)
	call.ID = id
	call.ThreadID = a.Thread.ID
	a.Stream(chatkit.NewItemDoneEvent(call))
	return call, nil
}

// BeginWorkflow opens a workflow item that groups subsequent tasks. Only one
// workflow can be open at a time.
func (a *AgentContext) BeginWorkflow(ctx context.Context, workflowType chatkit.WorkflowType, label string) error {
	if a.workflow != nil {
		return fmt.Errorf("workflow already open")
	}
	id, err := a.GenerateItemID(ctx, chatkit.ItemTypeWorkflow)
	if err != nil {
		return err
	}
	wf := chatkit.NewWorkflowItem(workflowType, label)
	wf.ID = id
	wf.ThreadID = a.Thread.ID
	wf.Expanded = true
	a.workflow = wf
	a.Stream(chatkit.NewItemAddedEvent(wf))
	return nil
}

// AddTask appends a task to the open workflow.
func (a *AgentContext) AddTask(task chatkit.WorkflowTask) error {
	if a.workflow == nil {
		return fmt.Errorf("no open workflow")
	}
	a.workflow.Tasks = append(a.workflow.Tasks, task)
	a.Stream(chatkit.NewItemUpdatedEvent(a.workflow.ID,
		chatkit.NewWorkflowTaskAdded(len(a.workflow.Tasks)-1, task)))
	return nil
}

// EndWorkflow collapses and finalizes the open workflow.
func (a *AgentContext) EndWorkflow(summary *chatkit.WorkflowSummary) error {
	if a.workflow == nil {
		return fmt.Errorf("no open workflow")
	}
	wf := a.workflow
	a.workflow = nil
	wf.Expanded = false
	wf.Summary = summary
	a.Stream(chatkit.NewItemDoneEvent(wf))
	return nil
}
