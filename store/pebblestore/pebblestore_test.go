package pebblestore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/store"
)

var (
	_ store.Store           = (*Store)(nil)
	_ store.AttachmentStore = (*Store)(nil)
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestThreadPersistence(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	thread := &chatkit.Thread{
		ID:        "cthr_1",
		CreatedAt: chatkit.Now(),
		Status:    chatkit.ActiveStatus(),
		Title:     "First",
		Metadata:  map[string]any{"source": "test"},
	}
	require.NoError(t, s.AddThread(ctx, nil, thread))

	got, err := s.LoadThread(ctx, nil, "cthr_1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, chatkit.ThreadStatusActive, got.Status.Type)
	assert.Equal(t, map[string]any{"source": "test"}, got.Metadata)

	t.Run("save requires existing thread", func(t *testing.T) {
		var nf *store.NotFoundError
		err := s.SaveThread(ctx, nil, &chatkit.Thread{ID: "cthr_ghost"})
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "thread", nf.Kind)
	})

	t.Run("delete removes everything under the thread", func(t *testing.T) {
		item := chatkit.NewUserMessageItem(chatkit.NewUserText("hi"))
		item.ID = "msg_1"
		item.ThreadID = "cthr_1"
		require.NoError(t, s.AddItem(ctx, nil, "cthr_1", item))

		require.NoError(t, s.DeleteThread(ctx, nil, "cthr_1"))

		_, err := s.LoadThread(ctx, nil, "cthr_1")
		assert.Error(t, err)
		_, err = s.LoadItem(ctx, nil, "cthr_1", "msg_1")
		assert.Error(t, err)
	})
}

func TestThreadListing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= 4; i++ {
		thread := &chatkit.Thread{
			ID:        fmt.Sprintf("cthr_%d", i),
			CreatedAt: chatkit.NewTime(base.Add(time.Duration(i) * time.Minute)),
			Status:    chatkit.ActiveStatus(),
		}
		require.NoError(t, s.AddThread(ctx, nil, thread))
	}

	page, err := s.LoadThreads(ctx, nil, 3, "", chatkit.SortOrderDesc)
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "cthr_4", page.Data[0].ID)
	assert.Equal(t, "cthr_2", page.Data[2].ID)
	assert.True(t, page.HasMore)

	page, err = s.LoadThreads(ctx, nil, 3, page.After, chatkit.SortOrderDesc)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "cthr_1", page.Data[0].ID)
	assert.False(t, page.HasMore)
}

func TestItemOrderAndTypes(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	thread := &chatkit.Thread{ID: "cthr_1", CreatedAt: chatkit.Now(), Status: chatkit.ActiveStatus()}
	require.NoError(t, s.AddThread(ctx, nil, thread))

	user := chatkit.NewUserMessageItem(chatkit.NewUserText("what's the weather"))
	user.ID = "msg_u1"
	assistant := chatkit.NewAssistantMessageItem(chatkit.NewAssistantText("sunny"))
	assistant.ID = "msg_a1"
	call := chatkit.NewClientToolCallItem("call_1", "switch_theme", map[string]any{"theme": "dark"})
	call.ID = "tc_1"

	for _, item := range []chatkit.ThreadItem{user, assistant, call} {
		item.GetBase().ThreadID = "cthr_1"
		require.NoError(t, s.AddItem(ctx, nil, "cthr_1", item))
	}

	t.Run("insertion order survives reopen of iterator", func(t *testing.T) {
		page, err := s.LoadItems(ctx, nil, "cthr_1", 10, "", chatkit.SortOrderAsc)
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.Equal(t, "msg_u1", page.Data[0].GetBase().ID)
		assert.Equal(t, "msg_a1", page.Data[1].GetBase().ID)
		assert.Equal(t, "tc_1", page.Data[2].GetBase().ID)
	})

	t.Run("items decode to their concrete types", func(t *testing.T) {
		got, err := s.LoadItem(ctx, nil, "cthr_1", "tc_1")
		require.NoError(t, err)

		loaded, ok := got.(*chatkit.ClientToolCallItem)
		require.True(t, ok)
		assert.Equal(t, chatkit.ToolCallPending, loaded.Status)
		assert.Equal(t, map[string]any{"theme": "dark"}, loaded.Arguments)
	})

	t.Run("save keeps position", func(t *testing.T) {
		call.Status = chatkit.ToolCallCompleted
		call.Output = "ok"
		require.NoError(t, s.SaveItem(ctx, nil, "cthr_1", call))

		page, err := s.LoadItems(ctx, nil, "cthr_1", 10, "", chatkit.SortOrderAsc)
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.Equal(t, "tc_1", page.Data[2].GetBase().ID)
		assert.Equal(t, chatkit.ToolCallCompleted, page.Data[2].(*chatkit.ClientToolCallItem).Status)
	})

	t.Run("delete removes item and index", func(t *testing.T) {
		require.NoError(t, s.DeleteItem(ctx, nil, "cthr_1", "msg_a1"))

		_, err := s.LoadItem(ctx, nil, "cthr_1", "msg_a1")
		var nf *store.NotFoundError
		assert.ErrorAs(t, err, &nf)

		page, err := s.LoadItems(ctx, nil, "cthr_1", 10, "", chatkit.SortOrderAsc)
		require.NoError(t, err)
		assert.Len(t, page.Data, 2)
	})

	t.Run("desc pagination", func(t *testing.T) {
		page, err := s.LoadItems(ctx, nil, "cthr_1", 1, "", chatkit.SortOrderDesc)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "tc_1", page.Data[0].GetBase().ID)
		assert.True(t, page.HasMore)

		page, err = s.LoadItems(ctx, nil, "cthr_1", 1, page.After, chatkit.SortOrderDesc)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "msg_u1", page.Data[0].GetBase().ID)
		assert.False(t, page.HasMore)
	})
}

func TestAttachments(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	att := chatkit.NewAttachment("diagram.png", "image/png")
	att.ID = "atc_1"

	created, err := s.CreateAttachment(ctx, nil, att)
	require.NoError(t, err)
	assert.Equal(t, "pebble://attachments/atc_1", created.UploadURL)
	assert.NotEmpty(t, created.PreviewURL)

	loaded, err := s.LoadAttachment(ctx, nil, "atc_1")
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	require.NoError(t, s.DeleteAttachment(ctx, nil, "atc_1"))
	err = s.DeleteAttachment(ctx, nil, "atc_1")
	assert.Error(t, err)
}
