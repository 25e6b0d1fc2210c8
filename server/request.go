package server

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

// RequestType discriminates wire requests.
type RequestType string

// Streaming request types. These return an SSE event sequence.
const (
	RequestThreadsCreate              RequestType = "threads.create"
	RequestThreadsAddUserMessage      RequestType = "threads.add_user_message"
	RequestThreadsRetryAfterItem      RequestType = "threads.retry_after_item"
	RequestThreadsCustomAction        RequestType = "threads.custom_action"
	RequestThreadsAddClientToolOutput RequestType = "threads.add_client_tool_output"
)

// Non-streaming request types. These return one JSON value.
const (
	RequestThreadsGetByID    RequestType = "threads.get_by_id"
	RequestThreadsList       RequestType = "threads.list"
	RequestThreadsUpdate     RequestType = "threads.update"
	RequestThreadsDelete     RequestType = "threads.delete"
	RequestItemsList         RequestType = "items.list"
	RequestItemsFeedback     RequestType = "items.feedback"
	RequestAttachmentsCreate RequestType = "attachments.create"
	RequestAttachmentsDelete RequestType = "attachments.delete"
)

// UserMessageInput is the caller-supplied portion of a user message.
// Attachments are referenced by id and resolved against the attachment
// store.
type UserMessageInput struct {
	Content          []chatkit.UserMessageContent `json:"content"`
	Attachments      []string                     `json:"attachments,omitempty"`
	QuotedText       string                       `json:"quoted_text,omitempty"`
	InferenceOptions *chatkit.InferenceOptions    `json:"inference_options,omitempty"`
}

// UnmarshalJSON decodes the content union parts.
func (in *UserMessageInput) UnmarshalJSON(data []byte) error {
	type alias UserMessageInput
	aux := &struct {
		*alias
		Content []json.RawMessage `json:"content"`
	}{alias: (*alias)(in)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	in.Content = make([]chatkit.UserMessageContent, 0, len(aux.Content))
	for _, raw := range aux.Content {
		part, err := chatkit.UnmarshalUserContent(raw)
		if err != nil {
			return err
		}
		in.Content = append(in.Content, part)
	}
	return nil
}

// ActionPayload is a widget-originated action: a discriminator chosen by the
// widget author plus free-form payload data.
type ActionPayload struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Request is a decoded wire request.
type Request interface {
	request()
	GetType() RequestType
	// Streaming reports whether processing returns an event stream.
	Streaming() bool
}

type streamingRequest struct{}

func (streamingRequest) request()        {}
func (streamingRequest) Streaming() bool { return true }

type nonStreamingRequest struct{}

func (nonStreamingRequest) request()        {}
func (nonStreamingRequest) Streaming() bool { return false }

// CreateThreadRequest starts a new thread from an initial user message.
type CreateThreadRequest struct {
	streamingRequest
	Type  RequestType      `json:"type"`
	Input UserMessageInput `json:"input"`
}

// GetType returns the request discriminator.
func (r *CreateThreadRequest) GetType() RequestType { return r.Type }

// AddUserMessageRequest appends a user message to an existing thread and
// runs the responder.
type AddUserMessageRequest struct {
	streamingRequest
	Type     RequestType      `json:"type"`
	ThreadID string           `json:"thread_id"`
	Input    UserMessageInput `json:"input"`
}

// GetType returns the request discriminator.
func (r *AddUserMessageRequest) GetType() RequestType { return r.Type }

// RetryAfterItemRequest deletes everything after the identified user message
// and re-runs the responder from it.
type RetryAfterItemRequest struct {
	streamingRequest
	Type     RequestType `json:"type"`
	ThreadID string      `json:"thread_id"`
	ItemID   string      `json:"item_id"`
}

// GetType returns the request discriminator.
func (r *RetryAfterItemRequest) GetType() RequestType { return r.Type }

// CustomActionRequest delivers a widget-originated action. ItemID optionally
// names the widget item the action came from.
type CustomActionRequest struct {
	streamingRequest
	Type     RequestType   `json:"type"`
	ThreadID string        `json:"thread_id"`
	ItemID   string        `json:"item_id,omitempty"`
	Action   ActionPayload `json:"action"`
}

// GetType returns the request discriminator.
func (r *CustomActionRequest) GetType() RequestType { return r.Type }

// AddClientToolOutputRequest completes the pending client tool call with the
// client-produced result and resumes the responder.
type AddClientToolOutputRequest struct {
	streamingRequest
	Type     RequestType `json:"type"`
	ThreadID string      `json:"thread_id"`
	Result   any         `json:"result"`
}

// GetType returns the request discriminator.
func (r *AddClientToolOutputRequest) GetType() RequestType { return r.Type }

// GetThreadRequest fetches one thread's metadata.
type GetThreadRequest struct {
	nonStreamingRequest
	Type     RequestType `json:"type"`
	ThreadID string      `json:"thread_id"`
}

// GetType returns the request discriminator.
func (r *GetThreadRequest) GetType() RequestType { return r.Type }

// ListThreadsRequest pages through threads.
type ListThreadsRequest struct {
	nonStreamingRequest
	Type  RequestType       `json:"type"`
	Limit int               `json:"limit,omitempty"`
	After string            `json:"after,omitempty"`
	Order chatkit.SortOrder `json:"order,omitempty"`
}

// GetType returns the request discriminator.
func (r *ListThreadsRequest) GetType() RequestType { return r.Type }

// UpdateThreadRequest renames a thread.
type UpdateThreadRequest struct {
	nonStreamingRequest
	Type     RequestType `json:"type"`
	ThreadID string      `json:"thread_id"`
	Title    string      `json:"title"`
}

// GetType returns the request discriminator.
func (r *UpdateThreadRequest) GetType() RequestType { return r.Type }

// DeleteThreadRequest removes a thread and its items.
type DeleteThreadRequest struct {
	nonStreamingRequest
	Type     RequestType `json:"type"`
	ThreadID string      `json:"thread_id"`
}

// GetType returns the request discriminator.
func (r *DeleteThreadRequest) GetType() RequestType { return r.Type }

// ListItemsRequest pages through a thread's items.
type ListItemsRequest struct {
	nonStreamingRequest
	Type     RequestType       `json:"type"`
	ThreadID string            `json:"thread_id"`
	Limit    int               `json:"limit,omitempty"`
	After    string            `json:"after,omitempty"`
	Order    chatkit.SortOrder `json:"order,omitempty"`
}

// GetType returns the request discriminator.
func (r *ListItemsRequest) GetType() RequestType { return r.Type }

// FeedbackRequest records caller feedback on one or more items.
type FeedbackRequest struct {
	nonStreamingRequest
	Type     RequestType          `json:"type"`
	ThreadID string               `json:"thread_id"`
	ItemIDs  []string             `json:"item_ids"`
	Kind     chatkit.FeedbackKind `json:"kind"`
}

// GetType returns the request discriminator.
func (r *FeedbackRequest) GetType() RequestType { return r.Type }

// CreateAttachmentRequest registers a pending upload.
type CreateAttachmentRequest struct {
	nonStreamingRequest
	Type     RequestType `json:"type"`
	Name     string      `json:"name"`
	MimeType string      `json:"mime_type"`
	Size     int64       `json:"size,omitempty"`
}

// GetType returns the request discriminator.
func (r *CreateAttachmentRequest) GetType() RequestType { return r.Type }

// DeleteAttachmentRequest removes an uploaded attachment.
type DeleteAttachmentRequest struct {
	nonStreamingRequest
	Type         RequestType `json:"type"`
	AttachmentID string      `json:"attachment_id"`
}

// GetType returns the request discriminator.
func (r *DeleteAttachmentRequest) GetType() RequestType { return r.Type }

// ParseRequest decodes a wire request, dispatching on the type field.
// Unknown types fail closed.
func ParseRequest(payload []byte) (Request, error) {
	t := gjson.GetBytes(payload, "type")
	if !t.Exists() {
		return nil, fmt.Errorf("request missing type field")
	}

	var req Request
	switch RequestType(t.String()) {
	case RequestThreadsCreate:
		req = &CreateThreadRequest{}
	case RequestThreadsAddUserMessage:
		req = &AddUserMessageRequest{}
	case RequestThreadsRetryAfterItem:
		req = &RetryAfterItemRequest{}
	case RequestThreadsCustomAction:
		req = &CustomActionRequest{}
	case RequestThreadsAddClientToolOutput:
		req = &AddClientToolOutputRequest{}
	case RequestThreadsGetByID:
		req = &GetThreadRequest{}
	case RequestThreadsList:
		req = &ListThreadsRequest{}
	case RequestThreadsUpdate:
		req = &UpdateThreadRequest{}
	case RequestThreadsDelete:
		req = &DeleteThreadRequest{}
	case RequestItemsList:
		req = &ListItemsRequest{}
	case RequestItemsFeedback:
		req = &FeedbackRequest{}
	case RequestAttachmentsCreate:
		req = &CreateAttachmentRequest{}
	case RequestAttachmentsDelete:
		req = &DeleteAttachmentRequest{}
	default:
		return nil, fmt.Errorf("unknown request type: %s", t.String())
	}

	if err := json.Unmarshal(payload, req); err != nil {
		return nil, fmt.Errorf("decode %s request: %w", t.String(), err)
	}
	return req, nil
}
