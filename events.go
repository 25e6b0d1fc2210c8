package chatkit

import "github.com/Timestep-AI/timestep-ai-sub001/widget"

// EventType discriminates stream events on the wire.
type EventType string

const (
	EventThreadCreated  EventType = "thread.created"
	EventThreadUpdated  EventType = "thread.updated"
	EventItemAdded      EventType = "thread.item.added"
	EventItemUpdated    EventType = "thread.item.updated"
	EventItemDone       EventType = "thread.item.done"
	EventItemRemoved    EventType = "thread.item.removed"
	EventItemReplaced   EventType = "thread.item.replaced"
	EventProgressUpdate EventType = "progress_update"
	EventNotice         EventType = "notice"
	EventError          EventType = "error"
)

// ThreadStreamEvent is one entry of the ordered event sequence a streaming
// request returns. The union is closed; the request processor switches
// exhaustively on the concrete types to decide persistence side effects.
type ThreadStreamEvent interface {
	streamEvent()
	GetType() EventType
}

// ThreadCreatedEvent announces a newly persisted thread. Always the first
// event of a create-thread request.
type ThreadCreatedEvent struct {
	Type   EventType `json:"type"`
	Thread *Thread   `json:"thread"`
}

func (ThreadCreatedEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ThreadCreatedEvent) GetType() EventType { return e.Type }

// ThreadUpdatedEvent reports that thread title, status or metadata changed
// during the request.
type ThreadUpdatedEvent struct {
	Type   EventType `json:"type"`
	Thread *Thread   `json:"thread"`
}

func (ThreadUpdatedEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ThreadUpdatedEvent) GetType() EventType { return e.Type }

// ItemAddedEvent introduces an item that will stream updates before it is
// done. The item carries its final id from the start.
type ItemAddedEvent struct {
	Type EventType  `json:"type"`
	Item ThreadItem `json:"item"`
}

func (ItemAddedEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ItemAddedEvent) GetType() EventType { return e.Type }

// ItemUpdatedEvent applies one incremental update to a previously added
// item.
type ItemUpdatedEvent struct {
	Type   EventType  `json:"type"`
	ItemID string     `json:"item_id"`
	Update ItemUpdate `json:"update"`
}

func (ItemUpdatedEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ItemUpdatedEvent) GetType() EventType { return e.Type }

// ItemDoneEvent carries the final form of an item. The request processor
// persists the item exactly when this event passes through the merged
// stream.
type ItemDoneEvent struct {
	Type EventType  `json:"type"`
	Item ThreadItem `json:"item"`
}

func (ItemDoneEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ItemDoneEvent) GetType() EventType { return e.Type }

// ItemRemovedEvent deletes an item from the thread and the UI.
type ItemRemovedEvent struct {
	Type   EventType `json:"type"`
	ItemID string    `json:"item_id"`
}

func (ItemRemovedEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ItemRemovedEvent) GetType() EventType { return e.Type }

// ItemReplacedEvent swaps an existing item for a new form with the same id.
type ItemReplacedEvent struct {
	Type EventType  `json:"type"`
	Item ThreadItem `json:"item"`
}

func (ItemReplacedEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ItemReplacedEvent) GetType() EventType { return e.Type }

// ProgressUpdateEvent shows transient progress copy while the engine works.
// It has no persistence side effect.
type ProgressUpdateEvent struct {
	Type EventType `json:"type"`
	Text string    `json:"text,omitempty"`
}

func (ProgressUpdateEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ProgressUpdateEvent) GetType() EventType { return e.Type }

// NoticeEvent surfaces an informational banner in the UI.
type NoticeEvent struct {
	Type    EventType `json:"type"`
	Level   string    `json:"level,omitempty"`
	Message string    `json:"message"`
}

func (NoticeEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e NoticeEvent) GetType() EventType { return e.Type }

// ErrorEvent terminates a stream after a failure. Code is set for coded
// errors, Message for integration-supplied ones; AllowRetry tells the UI
// whether to offer a retry action.
type ErrorEvent struct {
	Type       EventType `json:"type"`
	Code       ErrorCode `json:"code,omitempty"`
	Message    string    `json:"message,omitempty"`
	AllowRetry bool      `json:"allow_retry"`
}

func (ErrorEvent) streamEvent() {}

// GetType returns the event discriminator.
func (e ErrorEvent) GetType() EventType { return e.Type }

// Event constructors. Events are plain values; constructors exist to keep
// the type discriminators consistent.

// NewThreadCreatedEvent creates a thread.created event.
func NewThreadCreatedEvent(t *Thread) ThreadCreatedEvent {
	return ThreadCreatedEvent{Type: EventThreadCreated, Thread: t}
}

// NewThreadUpdatedEvent creates a thread.updated event.
func NewThreadUpdatedEvent(t *Thread) ThreadUpdatedEvent {
	return ThreadUpdatedEvent{Type: EventThreadUpdated, Thread: t}
}

// NewItemAddedEvent creates a thread.item.added event.
func NewItemAddedEvent(item ThreadItem) ItemAddedEvent {
	return ItemAddedEvent{Type: EventItemAdded, Item: item}
}

// NewItemUpdatedEvent creates a thread.item.updated event.
func NewItemUpdatedEvent(itemID string, update ItemUpdate) ItemUpdatedEvent {
	return ItemUpdatedEvent{Type: EventItemUpdated, ItemID: itemID, Update: update}
}

// NewItemDoneEvent creates a thread.item.done event.
func NewItemDoneEvent(item ThreadItem) ItemDoneEvent {
	return ItemDoneEvent{Type: EventItemDone, Item: item}
}

// NewItemRemovedEvent creates a thread.item.removed event.
func NewItemRemovedEvent(itemID string) ItemRemovedEvent {
	return ItemRemovedEvent{Type: EventItemRemoved, ItemID: itemID}
}

// NewItemReplacedEvent creates a thread.item.replaced event.
func NewItemReplacedEvent(item ThreadItem) ItemReplacedEvent {
	return ItemReplacedEvent{Type: EventItemReplaced, Item: item}
}

// NewProgressUpdateEvent creates a progress_update event.
func NewProgressUpdateEvent(text string) ProgressUpdateEvent {
	return ProgressUpdateEvent{Type: EventProgressUpdate, Text: text}
}

// NewNoticeEvent creates a notice event.
func NewNoticeEvent(level, message string) NoticeEvent {
	return NoticeEvent{Type: EventNotice, Level: level, Message: message}
}

// UpdateType discriminates item updates.
type UpdateType string

const (
	UpdateAssistantTextDelta UpdateType = "assistant_message.text_delta"
	UpdateWidgetRoot         UpdateType = "widget.root_updated"
	UpdateWidgetTextDelta    UpdateType = "widget.streaming_text_delta"
	UpdateWorkflowTaskAdded  UpdateType = "workflow.task_added"
	UpdateWorkflowChanged    UpdateType = "workflow.updated"
)

// ItemUpdate is the payload of an ItemUpdatedEvent: a closed union of the
// incremental mutations the UI knows how to apply in place.
type ItemUpdate interface {
	itemUpdate()
	GetUpdateType() UpdateType
}

// AssistantTextDelta appends text to one content part of a streaming
// assistant message.
type AssistantTextDelta struct {
	Type         UpdateType `json:"type"`
	ContentIndex int        `json:"content_index"`
	Delta        string     `json:"delta"`
}

func (AssistantTextDelta) itemUpdate() {}

// GetUpdateType returns the update discriminator.
func (u AssistantTextDelta) GetUpdateType() UpdateType { return u.Type }

// NewAssistantTextDelta creates an assistant text delta update.
func NewAssistantTextDelta(contentIndex int, delta string) AssistantTextDelta {
	return AssistantTextDelta{Type: UpdateAssistantTextDelta, ContentIndex: contentIndex, Delta: delta}
}

// WidgetRootUpdated replaces a widget item's whole rendered tree.
type WidgetRootUpdated struct {
	Type   UpdateType  `json:"type"`
	Widget widget.Root `json:"widget"`
}

func (WidgetRootUpdated) itemUpdate() {}

// GetUpdateType returns the update discriminator.
func (u WidgetRootUpdated) GetUpdateType() UpdateType { return u.Type }

// NewWidgetRootUpdated creates a widget full-replacement update.
func NewWidgetRootUpdated(root widget.Root) WidgetRootUpdated {
	return WidgetRootUpdated{Type: UpdateWidgetRoot, Widget: root}
}

// WidgetTextDelta appends text to a streaming text node inside a widget,
// addressed by the node's stable id. Done marks the node's final delta.
type WidgetTextDelta struct {
	Type        UpdateType `json:"type"`
	ComponentID string     `json:"component_id"`
	Delta       string     `json:"delta"`
	Done        bool       `json:"done"`
}

func (WidgetTextDelta) itemUpdate() {}

// GetUpdateType returns the update discriminator.
func (u WidgetTextDelta) GetUpdateType() UpdateType { return u.Type }

// NewWidgetTextDelta creates a widget streaming text delta update.
func NewWidgetTextDelta(componentID, delta string, done bool) WidgetTextDelta {
	return WidgetTextDelta{Type: UpdateWidgetTextDelta, ComponentID: componentID, Delta: delta, Done: done}
}

// WorkflowTaskAdded appends a task to a workflow item.
type WorkflowTaskAdded struct {
	Type      UpdateType   `json:"type"`
	TaskIndex int          `json:"task_index"`
	Task      WorkflowTask `json:"task"`
}

func (WorkflowTaskAdded) itemUpdate() {}

// GetUpdateType returns the update discriminator.
func (u WorkflowTaskAdded) GetUpdateType() UpdateType { return u.Type }

// NewWorkflowTaskAdded creates a workflow task-added update.
func NewWorkflowTaskAdded(index int, task WorkflowTask) WorkflowTaskAdded {
	return WorkflowTaskAdded{Type: UpdateWorkflowTaskAdded, TaskIndex: index, Task: task}
}

// WorkflowChanged updates a workflow's expanded state or summary.
type WorkflowChanged struct {
	Type     UpdateType       `json:"type"`
	Expanded *bool            `json:"expanded,omitempty"`
	Summary  *WorkflowSummary `json:"summary,omitempty"`
}

func (WorkflowChanged) itemUpdate() {}

// GetUpdateType returns the update discriminator.
func (u WorkflowChanged) GetUpdateType() UpdateType { return u.Type }

// NewWorkflowChanged creates a workflow state update.
func NewWorkflowChanged(expanded *bool, summary *WorkflowSummary) WorkflowChanged {
	return WorkflowChanged{Type: UpdateWorkflowChanged, Expanded: expanded, Summary: summary}
}
