package chatkit

import (
	"maps"
	"strings"
)

// RequestContext is the integration-supplied per-request value threaded
// through every store call and hook. The engine never inspects it; typical
// integrations carry authenticated user identity in it.
type RequestContext any

// ThreadStatusType enumerates the coarse lifecycle states of a thread.
type ThreadStatusType string

const (
	// ThreadStatusActive marks a thread that accepts new messages.
	ThreadStatusActive ThreadStatusType = "active"
	// ThreadStatusLocked marks a thread that is temporarily read-only.
	ThreadStatusLocked ThreadStatusType = "locked"
	// ThreadStatusClosed marks a thread that is permanently read-only.
	// The close reason is opaque to this core.
	ThreadStatusClosed ThreadStatusType = "closed"
)

// ThreadStatus is the mutable status of a thread. Reason is only set for
// closed threads and is passed through without interpretation.
type ThreadStatus struct {
	Type   ThreadStatusType `json:"type"`
	Reason string           `json:"reason,omitempty"`
}

// ActiveStatus returns the status of a freshly created thread.
func ActiveStatus() ThreadStatus {
	return ThreadStatus{Type: ThreadStatusActive}
}

// Thread is a single conversation session. The item history is owned by the
// store and loaded separately; a Thread value carries metadata only.
type Thread struct {
	ID        string         `json:"id"`
	CreatedAt Time           `json:"created_at"`
	Status    ThreadStatus   `json:"status"`
	Title     string         `json:"title,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep copy. The request processor snapshots the loaded
// thread with Clone so it can detect divergence before persisting.
func (t *Thread) Clone() *Thread {
	if t == nil {
		return nil
	}
	clone := *t
	if t.Metadata != nil {
		clone.Metadata = maps.Clone(t.Metadata)
	}
	return &clone
}

// SortOrder selects the direction of a paginated item listing.
type SortOrder string

const (
	// SortOrderAsc lists items oldest first.
	SortOrderAsc SortOrder = "asc"
	// SortOrderDesc lists items newest first.
	SortOrderDesc SortOrder = "desc"
)

// Page is one page of a cursor-paginated listing. After is an opaque cursor
// for the next page, valid only while HasMore is true.
type Page[T any] struct {
	Data    []T    `json:"data"`
	HasMore bool   `json:"has_more"`
	After   string `json:"after,omitempty"`
}

// AttachmentType distinguishes image attachments, which the UI previews
// inline, from opaque files.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

// Attachment is a file the user uploaded alongside a message. UploadURL is
// only populated while the upload is pending; PreviewURL is only set for
// images.
type Attachment struct {
	ID         string         `json:"id"`
	Type       AttachmentType `json:"type"`
	Name       string         `json:"name"`
	MimeType   string         `json:"mime_type"`
	PreviewURL string         `json:"preview_url,omitempty"`
	UploadURL  string         `json:"upload_url,omitempty"`
}

// NewAttachment creates an attachment record, classifying it as an image
// when the mime type says so.
func NewAttachment(name, mimeType string) Attachment {
	at := AttachmentFile
	if strings.HasPrefix(mimeType, "image/") {
		at = AttachmentImage
	}
	return Attachment{Type: at, Name: name, MimeType: mimeType}
}

// FeedbackKind classifies caller feedback on one or more items.
type FeedbackKind string

const (
	FeedbackPositive FeedbackKind = "positive"
	FeedbackNegative FeedbackKind = "negative"
)
