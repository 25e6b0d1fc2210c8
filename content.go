package chatkit

import (
	"encoding/json"
	"fmt"
)

// UserContentType discriminates user message content parts.
type UserContentType string

const (
	// UserContentText is plain typed text.
	UserContentText UserContentType = "input_text"
	// UserContentTag is a reference to an entity the user tagged inline.
	UserContentTag UserContentType = "input_tag"
)

// UserMessageContent is one ordered part of a user message. It is a closed
// union of [UserMessageTextContent] and [UserMessageTagContent].
type UserMessageContent interface {
	userContent()
	GetType() UserContentType
}

// UserMessageTextContent is a plain text part.
type UserMessageTextContent struct {
	Type UserContentType `json:"type"`
	Text string          `json:"text"`
}

func (UserMessageTextContent) userContent() {}

// GetType returns the content discriminator.
func (c UserMessageTextContent) GetType() UserContentType { return c.Type }

// NewUserText creates an input_text content part.
func NewUserText(text string) UserMessageTextContent {
	return UserMessageTextContent{Type: UserContentText, Text: text}
}

// UserMessageTagContent references an entity tagged by the user. Data
// carries integration-defined fields and is passed through untouched.
type UserMessageTagContent struct {
	Type UserContentType `json:"type"`
	ID   string          `json:"id"`
	Text string          `json:"text"`
	Data map[string]any  `json:"data,omitempty"`
}

func (UserMessageTagContent) userContent() {}

// GetType returns the content discriminator.
func (c UserMessageTagContent) GetType() UserContentType { return c.Type }

// NewUserTag creates an input_tag content part.
func NewUserTag(id, text string, data map[string]any) UserMessageTagContent {
	return UserMessageTagContent{Type: UserContentTag, ID: id, Text: text, Data: data}
}

// UnmarshalUserContent decodes one user message content part. Unknown types
// fail closed: the union is exhaustive by design.
func UnmarshalUserContent(data []byte) (UserMessageContent, error) {
	var probe struct {
		Type UserContentType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case UserContentText:
		var c UserMessageTextContent
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case UserContentTag:
		var c UserMessageTagContent
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown user content type %q", probe.Type)
	}
}

// AnnotationType discriminates assistant message source annotations.
type AnnotationType string

const (
	// AnnotationFileCitation cites an uploaded or referenced file.
	AnnotationFileCitation AnnotationType = "file_citation"
	// AnnotationURLCitation cites an external URL.
	AnnotationURLCitation AnnotationType = "url_citation"
)

// Annotation is a source citation attached to assistant text at a character
// offset. File citations set Filename, URL citations set URL.
type Annotation struct {
	Type     AnnotationType `json:"type"`
	Filename string         `json:"filename,omitempty"`
	URL      string         `json:"url,omitempty"`
	Index    int            `json:"index"`
}

// AssistantMessageContent is one ordered part of an assistant message.
type AssistantMessageContent struct {
	Type        string       `json:"type"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// NewAssistantText creates an output_text content part.
func NewAssistantText(text string) AssistantMessageContent {
	return AssistantMessageContent{Type: "output_text", Text: text}
}

// InferenceOptions carries per-message generation preferences the caller
// selected in the UI. Both fields are optional; the respond hook decides
// how to honor them.
type InferenceOptions struct {
	Model      string `json:"model,omitempty"`
	ToolChoice string `json:"tool_choice,omitempty"`
}
