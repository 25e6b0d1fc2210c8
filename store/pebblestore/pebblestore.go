// Package pebblestore implements the thread store on a local pebble
// database, giving the engine durable history without an external service.
//
// Key layout:
//
//	thread:<thread id>                      thread metadata JSON
//	thread:<thread id>:item:<seq>:<item id> item JSON, seq keeps insertion order
//	thread:<thread id>:idx:<item id>        item id -> full item key
//	att:<attachment id>                     attachment JSON
//
// seq is a zero-padded timestamp-plus-counter so lexicographic key order is
// insertion order within a thread.
package pebblestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/store"
)

// Store is a durable thread store backed by pebble. Safe for concurrent use;
// pebble serializes writes internally.
type Store struct {
	db  *pebble.DB
	seq uint64
}

// Open opens or creates a pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func threadKey(threadID string) []byte {
	return []byte("thread:" + threadID)
}

func itemPrefix(threadID string) []byte {
	return []byte("thread:" + threadID + ":item:")
}

func indexKey(threadID, itemID string) []byte {
	return []byte("thread:" + threadID + ":idx:" + itemID)
}

func attachmentKey(attachmentID string) []byte {
	return []byte("att:" + attachmentID)
}

// nextSeq returns a sortable sequence component. The counter breaks ties
// between items created in the same nanosecond.
func (s *Store) nextSeq() string {
	n := atomic.AddUint64(&s.seq, 1)
	return fmt.Sprintf("%020d-%06d", time.Now().UTC().UnixNano(), n)
}

// GenerateThreadID returns a fresh thread id.
func (s *Store) GenerateThreadID(_ context.Context, _ chatkit.RequestContext) (string, error) {
	return store.NewID("cthr"), nil
}

// GenerateItemID returns a fresh item id prefixed by item kind.
func (s *Store) GenerateItemID(_ context.Context, _ chatkit.RequestContext, itemType chatkit.ItemType, _ *chatkit.Thread) (string, error) {
	return store.NewID(store.ItemIDPrefix(itemType)), nil
}

// AddThread persists a new thread.
func (s *Store) AddThread(_ context.Context, _ chatkit.RequestContext, thread *chatkit.Thread) error {
	data, err := json.Marshal(thread)
	if err != nil {
		return fmt.Errorf("marshal thread %s: %w", thread.ID, err)
	}
	return s.db.Set(threadKey(thread.ID), data, pebble.Sync)
}

// SaveThread overwrites an existing thread.
func (s *Store) SaveThread(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread) error {
	if _, err := s.LoadThread(ctx, rc, thread.ID); err != nil {
		return err
	}
	return s.AddThread(ctx, rc, thread)
}

// LoadThread fetches a thread by id.
func (s *Store) LoadThread(_ context.Context, _ chatkit.RequestContext, threadID string) (*chatkit.Thread, error) {
	v, closer, err := s.db.Get(threadKey(threadID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, &store.NotFoundError{Kind: "thread", ID: threadID}
		}
		return nil, err
	}
	defer closer.Close()
	var t chatkit.Thread
	if err := json.Unmarshal(v, &t); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", threadID, err)
	}
	return &t, nil
}

// DeleteThread removes a thread, its items and its item index.
func (s *Store) DeleteThread(ctx context.Context, rc chatkit.RequestContext, threadID string) error {
	if _, err := s.LoadThread(ctx, rc, threadID); err != nil {
		return err
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(threadKey(threadID), nil); err != nil {
		return err
	}
	// thread:<id>: covers both the item and idx namespaces
	prefix := []byte("thread:" + threadID + ":")
	if err := batch.DeleteRange(prefix, append(prefix, 0xff), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// LoadThreads pages through threads ordered by creation time.
func (s *Store) LoadThreads(_ context.Context, _ chatkit.RequestContext, limit int, after string, order chatkit.SortOrder) (chatkit.Page[*chatkit.Thread], error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return chatkit.Page[*chatkit.Thread]{}, err
	}
	defer iter.Close()

	prefix := []byte("thread:")
	var all []*chatkit.Thread
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		// metadata keys have no second colon-delimited segment
		if bytes.Contains(iter.Key()[len(prefix):], []byte(":")) {
			continue
		}
		var t chatkit.Thread
		if err := json.Unmarshal(iter.Value(), &t); err != nil {
			return chatkit.Page[*chatkit.Thread]{}, fmt.Errorf("decode thread %s: %w", iter.Key(), err)
		}
		all = append(all, &t)
	}
	if err := iter.Error(); err != nil {
		return chatkit.Page[*chatkit.Thread]{}, err
	}

	slices.SortFunc(all, func(a, b *chatkit.Thread) int {
		return a.CreatedAt.Compare(b.CreatedAt.Time)
	})
	if order == chatkit.SortOrderDesc {
		slices.Reverse(all)
	}
	ids := make([]string, len(all))
	for i, t := range all {
		ids[i] = t.ID
	}
	start, err := store.CursorOffset(ids, after)
	if err != nil {
		return chatkit.Page[*chatkit.Thread]{}, err
	}
	data, hasMore := store.Window(all, start, limit)
	page := chatkit.Page[*chatkit.Thread]{Data: data, HasMore: hasMore}
	if hasMore && len(data) > 0 {
		page.After = data[len(data)-1].ID
	}
	return page, nil
}

// AddItem appends an item to a thread's history.
func (s *Store) AddItem(ctx context.Context, rc chatkit.RequestContext, threadID string, item chatkit.ThreadItem) error {
	if _, err := s.LoadThread(ctx, rc, threadID); err != nil {
		return err
	}
	itemID := item.GetBase().ID
	key := append(itemPrefix(threadID), []byte(s.nextSeq()+":"+itemID)...)
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", itemID, err)
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(key, data, nil); err != nil {
		return err
	}
	if err := batch.Set(indexKey(threadID, itemID), key, nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// SaveItem overwrites an existing item, keeping its position.
func (s *Store) SaveItem(_ context.Context, _ chatkit.RequestContext, threadID string, item chatkit.ThreadItem) error {
	itemID := item.GetBase().ID
	key, err := s.itemKey(threadID, itemID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", itemID, err)
	}
	return s.db.Set(key, data, pebble.Sync)
}

// LoadItem fetches one item by id.
func (s *Store) LoadItem(_ context.Context, _ chatkit.RequestContext, threadID, itemID string) (chatkit.ThreadItem, error) {
	key, err := s.itemKey(threadID, itemID)
	if err != nil {
		return nil, err
	}
	v, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, &store.NotFoundError{Kind: "item", ID: itemID}
		}
		return nil, err
	}
	defer closer.Close()
	return chatkit.UnmarshalItem(v)
}

// DeleteItem removes one item and its index entry.
func (s *Store) DeleteItem(_ context.Context, _ chatkit.RequestContext, threadID, itemID string) error {
	key, err := s.itemKey(threadID, itemID)
	if err != nil {
		return err
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(key, nil); err != nil {
		return err
	}
	if err := batch.Delete(indexKey(threadID, itemID), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// LoadItems pages through a thread's items in insertion order.
func (s *Store) LoadItems(ctx context.Context, rc chatkit.RequestContext, threadID string, limit int, after string, order chatkit.SortOrder) (chatkit.Page[chatkit.ThreadItem], error) {
	if _, err := s.LoadThread(ctx, rc, threadID); err != nil {
		return chatkit.Page[chatkit.ThreadItem]{}, err
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return chatkit.Page[chatkit.ThreadItem]{}, err
	}
	defer iter.Close()

	prefix := itemPrefix(threadID)
	var all []chatkit.ThreadItem
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		item, err := chatkit.UnmarshalItem(append([]byte(nil), iter.Value()...))
		if err != nil {
			return chatkit.Page[chatkit.ThreadItem]{}, fmt.Errorf("decode item %s: %w", iter.Key(), err)
		}
		all = append(all, item)
	}
	if err := iter.Error(); err != nil {
		return chatkit.Page[chatkit.ThreadItem]{}, err
	}

	if order == chatkit.SortOrderDesc {
		slices.Reverse(all)
	}
	ids := make([]string, len(all))
	for i, item := range all {
		ids[i] = item.GetBase().ID
	}
	start, err := store.CursorOffset(ids, after)
	if err != nil {
		return chatkit.Page[chatkit.ThreadItem]{}, err
	}
	data, hasMore := store.Window(all, start, limit)
	page := chatkit.Page[chatkit.ThreadItem]{Data: data, HasMore: hasMore}
	if hasMore && len(data) > 0 {
		page.After = data[len(data)-1].GetBase().ID
	}
	return page, nil
}

// GenerateAttachmentID returns a fresh attachment id.
func (s *Store) GenerateAttachmentID(_ context.Context, _ chatkit.RequestContext, _ string) (string, error) {
	return store.NewID("atc"), nil
}

// CreateAttachment registers a pending attachment.
func (s *Store) CreateAttachment(_ context.Context, _ chatkit.RequestContext, att chatkit.Attachment) (chatkit.Attachment, error) {
	att.UploadURL = "pebble://attachments/" + att.ID
	if att.Type == chatkit.AttachmentImage {
		att.PreviewURL = att.UploadURL + "/preview"
	}
	data, err := json.Marshal(att)
	if err != nil {
		return chatkit.Attachment{}, fmt.Errorf("marshal attachment %s: %w", att.ID, err)
	}
	if err := s.db.Set(attachmentKey(att.ID), data, pebble.Sync); err != nil {
		return chatkit.Attachment{}, err
	}
	return att, nil
}

// LoadAttachment fetches an attachment record.
func (s *Store) LoadAttachment(_ context.Context, _ chatkit.RequestContext, attachmentID string) (chatkit.Attachment, error) {
	v, closer, err := s.db.Get(attachmentKey(attachmentID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return chatkit.Attachment{}, &store.NotFoundError{Kind: "attachment", ID: attachmentID}
		}
		return chatkit.Attachment{}, err
	}
	defer closer.Close()
	var att chatkit.Attachment
	if err := json.Unmarshal(v, &att); err != nil {
		return chatkit.Attachment{}, fmt.Errorf("decode attachment %s: %w", attachmentID, err)
	}
	return att, nil
}

// DeleteAttachment removes an attachment record.
func (s *Store) DeleteAttachment(ctx context.Context, rc chatkit.RequestContext, attachmentID string) error {
	if _, err := s.LoadAttachment(ctx, rc, attachmentID); err != nil {
		return err
	}
	return s.db.Delete(attachmentKey(attachmentID), pebble.Sync)
}

// itemKey resolves an item id to its full storage key via the index.
func (s *Store) itemKey(threadID, itemID string) ([]byte, error) {
	v, closer, err := s.db.Get(indexKey(threadID, itemID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, &store.NotFoundError{Kind: "item", ID: itemID}
		}
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}
