// Package store defines the persistence contract the thread engine runs
// against, plus an in-memory implementation suitable for tests and demos.
//
// All operations take a context.Context and the opaque per-request context
// value the integration passed to the server. Implementations may use the
// request context for tenancy scoping; the engine never inspects it.
// Failures propagate to the caller unchanged. The engine does not retry
// store operations; retry policy belongs to the implementation.
package store

import (
	"context"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

// ThreadPageSize is the default page size for thread and item listings when
// the caller does not specify a limit.
const ThreadPageSize = 20

// Store persists threads and their items.
type Store interface {
	// GenerateThreadID returns a fresh thread id. Ids must be unique across
	// the store's lifetime.
	GenerateThreadID(ctx context.Context, rc chatkit.RequestContext) (string, error)

	// GenerateItemID returns a fresh id for an item of the given type within
	// the thread. Item-kind prefixing is the implementation's concern.
	GenerateItemID(ctx context.Context, rc chatkit.RequestContext, itemType chatkit.ItemType, thread *chatkit.Thread) (string, error)

	// AddThread persists a new thread.
	AddThread(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread) error

	// SaveThread overwrites an existing thread's metadata.
	SaveThread(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread) error

	// LoadThread fetches a thread by id.
	LoadThread(ctx context.Context, rc chatkit.RequestContext, threadID string) (*chatkit.Thread, error)

	// DeleteThread removes a thread and all of its items.
	DeleteThread(ctx context.Context, rc chatkit.RequestContext, threadID string) error

	// LoadThreads pages through all threads, newest first. after is an
	// opaque cursor from a previous page, empty for the first page.
	LoadThreads(ctx context.Context, rc chatkit.RequestContext, limit int, after string, order chatkit.SortOrder) (chatkit.Page[*chatkit.Thread], error)

	// AddItem appends an item to a thread's history.
	AddItem(ctx context.Context, rc chatkit.RequestContext, threadID string, item chatkit.ThreadItem) error

	// SaveItem overwrites an existing item in place, keeping its position.
	SaveItem(ctx context.Context, rc chatkit.RequestContext, threadID string, item chatkit.ThreadItem) error

	// LoadItem fetches one item by id.
	LoadItem(ctx context.Context, rc chatkit.RequestContext, threadID, itemID string) (chatkit.ThreadItem, error)

	// DeleteItem removes one item from a thread's history.
	DeleteItem(ctx context.Context, rc chatkit.RequestContext, threadID, itemID string) error

	// LoadItems pages through a thread's items in insertion order. after is
	// an opaque cursor from a previous page, empty for the first page.
	LoadItems(ctx context.Context, rc chatkit.RequestContext, threadID string, limit int, after string, order chatkit.SortOrder) (chatkit.Page[chatkit.ThreadItem], error)
}

// AttachmentStore persists attachment records and their upload lifecycle.
// The engine treats it as optional: attachment requests against a server
// without one fail during setup.
type AttachmentStore interface {
	// GenerateAttachmentID returns a fresh attachment id.
	GenerateAttachmentID(ctx context.Context, rc chatkit.RequestContext, mimeType string) (string, error)

	// CreateAttachment registers a pending attachment and returns it with
	// its upload URL populated.
	CreateAttachment(ctx context.Context, rc chatkit.RequestContext, att chatkit.Attachment) (chatkit.Attachment, error)

	// LoadAttachment fetches an attachment record by id.
	LoadAttachment(ctx context.Context, rc chatkit.RequestContext, attachmentID string) (chatkit.Attachment, error)

	// DeleteAttachment removes an attachment record and its stored bytes.
	DeleteAttachment(ctx context.Context, rc chatkit.RequestContext, attachmentID string) error
}

// NotFoundError reports a missing thread, item or attachment.
type NotFoundError struct {
	Kind string // "thread", "item" or "attachment"
	ID   string
}

// Error returns the formatted message.
func (e *NotFoundError) Error() string {
	return e.Kind + " not found: " + e.ID
}
