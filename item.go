package chatkit

import (
	"encoding/json"
	"fmt"

	"github.com/Timestep-AI/timestep-ai-sub001/widget"
)

// ItemType discriminates thread items on the wire.
type ItemType string

const (
	ItemTypeUserMessage      ItemType = "user_message"
	ItemTypeAssistantMessage ItemType = "assistant_message"
	ItemTypeClientToolCall   ItemType = "client_tool_call"
	ItemTypeWidget           ItemType = "widget"
	ItemTypeWorkflow         ItemType = "workflow"
	ItemTypeTask             ItemType = "task"
	ItemTypeEndOfTurn        ItemType = "end_of_turn"
	ItemTypeHiddenContext    ItemType = "hidden_context_item"
)

// ItemBase holds the identity fields shared by every thread item.
type ItemBase struct {
	ID        string `json:"id"`
	ThreadID  string `json:"thread_id"`
	CreatedAt Time   `json:"created_at"`
}

// ThreadItem is one discrete entry in a thread's history. The union is
// closed: every implementation lives in this package, and consumers switch
// exhaustively on the concrete pointer types.
type ThreadItem interface {
	threadItem()
	GetType() ItemType
	// GetBase exposes the shared identity fields for mutation by the
	// request processor (id assignment, thread stamping).
	GetBase() *ItemBase
}

// UserMessageItem is a message authored by the end user.
type UserMessageItem struct {
	ItemBase
	Type             ItemType             `json:"type"`
	Content          []UserMessageContent `json:"content"`
	Attachments      []Attachment         `json:"attachments,omitempty"`
	QuotedText       string               `json:"quoted_text,omitempty"`
	InferenceOptions *InferenceOptions    `json:"inference_options,omitempty"`
}

func (*UserMessageItem) threadItem() {}

// GetType returns the item discriminator.
func (i *UserMessageItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *UserMessageItem) GetBase() *ItemBase { return &i.ItemBase }

// Text returns the concatenated plain text of the message's text parts.
func (i *UserMessageItem) Text() string {
	var out string
	for _, part := range i.Content {
		if t, ok := part.(UserMessageTextContent); ok {
			out += t.Text
		}
	}
	return out
}

// AssistantMessageItem is a message produced by the generation engine.
type AssistantMessageItem struct {
	ItemBase
	Type    ItemType                  `json:"type"`
	Content []AssistantMessageContent `json:"content"`
}

func (*AssistantMessageItem) threadItem() {}

// GetType returns the item discriminator.
func (i *AssistantMessageItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *AssistantMessageItem) GetBase() *ItemBase { return &i.ItemBase }

// Text returns the concatenated text of the message's content parts.
func (i *AssistantMessageItem) Text() string {
	var out string
	for _, part := range i.Content {
		out += part.Text
	}
	return out
}

// ToolCallStatus is the lifecycle state of a client tool call.
type ToolCallStatus string

const (
	// ToolCallPending marks a call whose result has not been submitted.
	// Pending calls are transient: they are never replayed to the
	// generation engine and are purged before the next generation.
	ToolCallPending ToolCallStatus = "pending"
	// ToolCallCompleted marks a call whose output has been recorded.
	ToolCallCompleted ToolCallStatus = "completed"
)

// ClientToolCallItem is a tool invocation executed by the UI client. The
// server records it pending, the client performs the work and submits the
// output, and generation resumes from the completed call.
type ClientToolCallItem struct {
	ItemBase
	Type      ItemType       `json:"type"`
	Status    ToolCallStatus `json:"status"`
	CallID    string         `json:"call_id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Output    any            `json:"output,omitempty"`
}

func (*ClientToolCallItem) threadItem() {}

// GetType returns the item discriminator.
func (i *ClientToolCallItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *ClientToolCallItem) GetBase() *ItemBase { return &i.ItemBase }

// WidgetItem embeds a widget tree snapshot in the thread. CopyText is the
// human-readable fallback used when the widget itself cannot be rendered or
// copied.
type WidgetItem struct {
	ItemBase
	Type     ItemType    `json:"type"`
	Widget   widget.Root `json:"widget"`
	CopyText string      `json:"copy_text,omitempty"`
}

func (*WidgetItem) threadItem() {}

// GetType returns the item discriminator.
func (i *WidgetItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *WidgetItem) GetBase() *ItemBase { return &i.ItemBase }

// UnmarshalJSON implements json.Unmarshaler. Widget is an interface and
// needs union dispatch.
func (i *WidgetItem) UnmarshalJSON(data []byte) error {
	type alias WidgetItem
	var tmp struct {
		alias
		Widget json.RawMessage `json:"widget"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*i = WidgetItem(tmp.alias)
	if len(tmp.Widget) > 0 {
		root, err := widget.UnmarshalRoot(tmp.Widget)
		if err != nil {
			return err
		}
		i.Widget = root
	}
	return nil
}

// WorkflowType discriminates workflow presentations.
type WorkflowType string

const (
	// WorkflowReasoning renders as a collapsible model-reasoning trace.
	WorkflowReasoning WorkflowType = "reasoning"
	// WorkflowCustom renders with the integration-supplied label.
	WorkflowCustom WorkflowType = "custom"
)

// WorkflowTask is one unit of work inside a workflow.
type WorkflowTask struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// WorkflowSummary describes a finished workflow: either a closing title or
// the elapsed duration in seconds.
type WorkflowSummary struct {
	Title    string  `json:"title,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// WorkflowItem groups an ordered list of sub-tasks performed while
// producing a response.
type WorkflowItem struct {
	ItemBase
	Type         ItemType         `json:"type"`
	WorkflowType WorkflowType     `json:"workflow_type"`
	Label        string           `json:"label,omitempty"`
	Tasks        []WorkflowTask   `json:"tasks"`
	Expanded     bool             `json:"expanded,omitempty"`
	Summary      *WorkflowSummary `json:"summary,omitempty"`
}

func (*WorkflowItem) threadItem() {}

// GetType returns the item discriminator.
func (i *WorkflowItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *WorkflowItem) GetBase() *ItemBase { return &i.ItemBase }

// TaskItem records a single labeled unit of work for history purposes.
type TaskItem struct {
	ItemBase
	Type    ItemType `json:"type"`
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
}

func (*TaskItem) threadItem() {}

// GetType returns the item discriminator.
func (i *TaskItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *TaskItem) GetBase() *ItemBase { return &i.ItemBase }

// EndOfTurnItem marks the end of one assistant turn. Invisible to the UI.
type EndOfTurnItem struct {
	ItemBase
	Type ItemType `json:"type"`
}

func (*EndOfTurnItem) threadItem() {}

// GetType returns the item discriminator.
func (i *EndOfTurnItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *EndOfTurnItem) GetBase() *ItemBase { return &i.ItemBase }

// HiddenContextItem carries context the generation engine should see but
// the UI never does. It is persisted like any other item, its done event is
// swallowed by the request processor, and it is stripped from item
// listings.
type HiddenContextItem struct {
	ItemBase
	Type    ItemType `json:"type"`
	Content string   `json:"content"`
}

func (*HiddenContextItem) threadItem() {}

// GetType returns the item discriminator.
func (i *HiddenContextItem) GetType() ItemType { return i.Type }

// GetBase returns the shared identity fields.
func (i *HiddenContextItem) GetBase() *ItemBase { return &i.ItemBase }

// UnmarshalJSON implements json.Unmarshaler for the content union.
func (i *UserMessageItem) UnmarshalJSON(data []byte) error {
	type alias UserMessageItem
	var tmp struct {
		alias
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*i = UserMessageItem(tmp.alias)
	i.Content = make([]UserMessageContent, 0, len(tmp.Content))
	for _, raw := range tmp.Content {
		part, err := UnmarshalUserContent(raw)
		if err != nil {
			return err
		}
		i.Content = append(i.Content, part)
	}
	return nil
}

// NewUserMessageItem creates a user message with the given content parts.
// The id and thread id are assigned by the request processor.
func NewUserMessageItem(content ...UserMessageContent) *UserMessageItem {
	return &UserMessageItem{
		ItemBase: ItemBase{CreatedAt: Now()},
		Type:     ItemTypeUserMessage,
		Content:  content,
	}
}

// NewAssistantMessageItem creates an assistant message.
func NewAssistantMessageItem(content ...AssistantMessageContent) *AssistantMessageItem {
	return &AssistantMessageItem{
		ItemBase: ItemBase{CreatedAt: Now()},
		Type:     ItemTypeAssistantMessage,
		Content:  content,
	}
}

// NewClientToolCallItem creates a pending client tool call.
func NewClientToolCallItem(callID, name string, arguments map[string]any) *ClientToolCallItem {
	return &ClientToolCallItem{
		ItemBase:  ItemBase{CreatedAt: Now()},
		Type:      ItemTypeClientToolCall,
		Status:    ToolCallPending,
		CallID:    callID,
		Name:      name,
		Arguments: arguments,
	}
}

// NewWidgetItem creates a widget item from a snapshot.
func NewWidgetItem(root widget.Root, copyText string) *WidgetItem {
	return &WidgetItem{
		ItemBase: ItemBase{CreatedAt: Now()},
		Type:     ItemTypeWidget,
		Widget:   root,
		CopyText: copyText,
	}
}

// NewWorkflowItem creates an empty workflow of the given type.
func NewWorkflowItem(wt WorkflowType, label string) *WorkflowItem {
	return &WorkflowItem{
		ItemBase:     ItemBase{CreatedAt: Now()},
		Type:         ItemTypeWorkflow,
		WorkflowType: wt,
		Label:        label,
		Tasks:        []WorkflowTask{},
	}
}

// NewTaskItem creates a task record.
func NewTaskItem(title, content string) *TaskItem {
	return &TaskItem{
		ItemBase: ItemBase{CreatedAt: Now()},
		Type:     ItemTypeTask,
		Title:    title,
		Content:  content,
	}
}

// NewEndOfTurnItem creates an end-of-turn marker.
func NewEndOfTurnItem() *EndOfTurnItem {
	return &EndOfTurnItem{ItemBase: ItemBase{CreatedAt: Now()}, Type: ItemTypeEndOfTurn}
}

// NewHiddenContextItem creates a hidden context item.
func NewHiddenContextItem(content string) *HiddenContextItem {
	return &HiddenContextItem{
		ItemBase: ItemBase{CreatedAt: Now()},
		Type:     ItemTypeHiddenContext,
		Content:  content,
	}
}

// UnmarshalItem decodes one thread item, dispatching on its type
// discriminator. Unknown types fail closed.
func UnmarshalItem(data []byte) (ThreadItem, error) {
	var probe struct {
		Type ItemType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	var item ThreadItem
	switch probe.Type {
	case ItemTypeUserMessage:
		item = &UserMessageItem{}
	case ItemTypeAssistantMessage:
		item = &AssistantMessageItem{}
	case ItemTypeClientToolCall:
		item = &ClientToolCallItem{}
	case ItemTypeWidget:
		item = &WidgetItem{}
	case ItemTypeWorkflow:
		item = &WorkflowItem{}
	case ItemTypeTask:
		item = &TaskItem{}
	case ItemTypeEndOfTurn:
		item = &EndOfTurnItem{}
	case ItemTypeHiddenContext:
		item = &HiddenContextItem{}
	default:
		return nil, fmt.Errorf("unknown thread item type %q", probe.Type)
	}
	if err := json.Unmarshal(data, item); err != nil {
		return nil, err
	}
	return item, nil
}
