package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

var itemIDPrefixes = map[chatkit.ItemType]string{
	chatkit.ItemTypeUserMessage:      "msg",
	chatkit.ItemTypeAssistantMessage: "msg",
	chatkit.ItemTypeClientToolCall:   "tc",
	chatkit.ItemTypeWidget:           "wdg",
	chatkit.ItemTypeWorkflow:         "wf",
	chatkit.ItemTypeTask:             "task",
	chatkit.ItemTypeEndOfTurn:        "eot",
	chatkit.ItemTypeHiddenContext:    "hid",
}

// ItemIDPrefix returns the id prefix for an item kind, "itm" for unknown
// kinds.
func ItemIDPrefix(itemType chatkit.ItemType) string {
	if p, ok := itemIDPrefixes[itemType]; ok {
		return p
	}
	return "itm"
}

// NewID returns a prefixed random identifier, e.g. "cthr_1f2e3d4c5b6a".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:12]
}

// Memory is an in-process Store and AttachmentStore keeping everything in
// maps. Items preserve insertion order per thread. Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	threads     map[string]*chatkit.Thread
	order       []string // thread ids, oldest first
	items       map[string][]chatkit.ThreadItem
	attachments map[string]chatkit.Attachment
	uploadBase  string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		threads:     make(map[string]*chatkit.Thread),
		items:       make(map[string][]chatkit.ThreadItem),
		attachments: make(map[string]chatkit.Attachment),
		uploadBase:  "memory://attachments/",
	}
}

// GenerateThreadID returns a fresh thread id.
func (m *Memory) GenerateThreadID(_ context.Context, _ chatkit.RequestContext) (string, error) {
	return NewID("cthr"), nil
}

// GenerateItemID returns a fresh item id prefixed by item kind.
func (m *Memory) GenerateItemID(_ context.Context, _ chatkit.RequestContext, itemType chatkit.ItemType, _ *chatkit.Thread) (string, error) {
	return NewID(ItemIDPrefix(itemType)), nil
}

// AddThread persists a new thread.
func (m *Memory) AddThread(_ context.Context, _ chatkit.RequestContext, thread *chatkit.Thread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.threads[thread.ID]; !exists {
		m.order = append(m.order, thread.ID)
	}
	m.threads[thread.ID] = thread.Clone()
	return nil
}

// SaveThread overwrites an existing thread.
func (m *Memory) SaveThread(_ context.Context, _ chatkit.RequestContext, thread *chatkit.Thread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.threads[thread.ID]; !exists {
		return &NotFoundError{Kind: "thread", ID: thread.ID}
	}
	m.threads[thread.ID] = thread.Clone()
	return nil
}

// LoadThread fetches a thread by id.
func (m *Memory) LoadThread(_ context.Context, _ chatkit.RequestContext, threadID string) (*chatkit.Thread, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.threads[threadID]
	if !ok {
		return nil, &NotFoundError{Kind: "thread", ID: threadID}
	}
	return t.Clone(), nil
}

// DeleteThread removes a thread and its items.
func (m *Memory) DeleteThread(_ context.Context, _ chatkit.RequestContext, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.threads[threadID]; !ok {
		return &NotFoundError{Kind: "thread", ID: threadID}
	}
	delete(m.threads, threadID)
	delete(m.items, threadID)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == threadID })
	return nil
}

// LoadThreads pages through threads. Order asc is creation order, desc is
// newest first. The cursor is the id of the last thread on the previous
// page.
func (m *Memory) LoadThreads(_ context.Context, _ chatkit.RequestContext, limit int, after string, order chatkit.SortOrder) (chatkit.Page[*chatkit.Thread], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := slices.Clone(m.order)
	if order == chatkit.SortOrderDesc {
		slices.Reverse(ids)
	}
	start, err := CursorOffset(ids, after)
	if err != nil {
		return chatkit.Page[*chatkit.Thread]{}, err
	}
	ids, hasMore := Window(ids, start, limit)

	page := chatkit.Page[*chatkit.Thread]{Data: make([]*chatkit.Thread, 0, len(ids)), HasMore: hasMore}
	for _, id := range ids {
		page.Data = append(page.Data, m.threads[id].Clone())
	}
	if hasMore && len(ids) > 0 {
		page.After = ids[len(ids)-1]
	}
	return page, nil
}

// AddItem appends an item to a thread.
func (m *Memory) AddItem(_ context.Context, _ chatkit.RequestContext, threadID string, item chatkit.ThreadItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.threads[threadID]; !ok {
		return &NotFoundError{Kind: "thread", ID: threadID}
	}
	m.items[threadID] = append(m.items[threadID], item)
	return nil
}

// SaveItem overwrites an existing item, keeping its position.
func (m *Memory) SaveItem(_ context.Context, _ chatkit.RequestContext, threadID string, item chatkit.ThreadItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.items[threadID]
	for i, existing := range list {
		if existing.GetBase().ID == item.GetBase().ID {
			list[i] = item
			return nil
		}
	}
	return &NotFoundError{Kind: "item", ID: item.GetBase().ID}
}

// LoadItem fetches one item by id.
func (m *Memory) LoadItem(_ context.Context, _ chatkit.RequestContext, threadID, itemID string) (chatkit.ThreadItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items[threadID] {
		if item.GetBase().ID == itemID {
			return item, nil
		}
	}
	return nil, &NotFoundError{Kind: "item", ID: itemID}
}

// DeleteItem removes one item from a thread.
func (m *Memory) DeleteItem(_ context.Context, _ chatkit.RequestContext, threadID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.items[threadID]
	for i, item := range list {
		if item.GetBase().ID == itemID {
			m.items[threadID] = slices.Delete(list, i, i+1)
			return nil
		}
	}
	return &NotFoundError{Kind: "item", ID: itemID}
}

// LoadItems pages through a thread's items in insertion order. The cursor is
// the id of the last item on the previous page.
func (m *Memory) LoadItems(_ context.Context, _ chatkit.RequestContext, threadID string, limit int, after string, order chatkit.SortOrder) (chatkit.Page[chatkit.ThreadItem], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.threads[threadID]; !ok {
		return chatkit.Page[chatkit.ThreadItem]{}, &NotFoundError{Kind: "thread", ID: threadID}
	}

	list := slices.Clone(m.items[threadID])
	if order == chatkit.SortOrderDesc {
		slices.Reverse(list)
	}
	ids := make([]string, len(list))
	for i, item := range list {
		ids[i] = item.GetBase().ID
	}
	start, err := CursorOffset(ids, after)
	if err != nil {
		return chatkit.Page[chatkit.ThreadItem]{}, err
	}
	list, hasMore := Window(list, start, limit)

	page := chatkit.Page[chatkit.ThreadItem]{Data: list, HasMore: hasMore}
	if hasMore && len(list) > 0 {
		page.After = list[len(list)-1].GetBase().ID
	}
	return page, nil
}

// GenerateAttachmentID returns a fresh attachment id.
func (m *Memory) GenerateAttachmentID(_ context.Context, _ chatkit.RequestContext, _ string) (string, error) {
	return NewID("atc"), nil
}

// CreateAttachment registers a pending attachment.
func (m *Memory) CreateAttachment(_ context.Context, _ chatkit.RequestContext, att chatkit.Attachment) (chatkit.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	att.UploadURL = m.uploadBase + att.ID
	if att.Type == chatkit.AttachmentImage {
		att.PreviewURL = m.uploadBase + att.ID + "/preview"
	}
	m.attachments[att.ID] = att
	return att, nil
}

// LoadAttachment fetches an attachment record.
func (m *Memory) LoadAttachment(_ context.Context, _ chatkit.RequestContext, attachmentID string) (chatkit.Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	att, ok := m.attachments[attachmentID]
	if !ok {
		return chatkit.Attachment{}, &NotFoundError{Kind: "attachment", ID: attachmentID}
	}
	return att, nil
}

// DeleteAttachment removes an attachment record.
func (m *Memory) DeleteAttachment(_ context.Context, _ chatkit.RequestContext, attachmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attachments[attachmentID]; !ok {
		return &NotFoundError{Kind: "attachment", ID: attachmentID}
	}
	delete(m.attachments, attachmentID)
	return nil
}
