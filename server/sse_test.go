package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	srv, _ := newTestServer(t)
	return NewHandler(srv, nil)
}

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chatkit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerStreaming(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(h, `{"type": "threads.create", "input": {"content": [{"type": "input_text", "text": "Hi"}]}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	frames := strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n")
	require.GreaterOrEqual(t, len(frames), 3)

	var types []string
	for _, frame := range frames {
		// data-only framing: exactly one data line per frame, no event line
		require.True(t, strings.HasPrefix(frame, "data: "), "frame %q", frame)
		require.NotContains(t, frame, "event:")

		var probe struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &probe))
		types = append(types, probe.Type)
	}

	assert.Equal(t, "thread.created", types[0])
	assert.Equal(t, "thread.item.done", types[1])
	assert.Equal(t, "thread.item.done", types[len(types)-1])
}

func TestHandlerStreamingError(t *testing.T) {
	h := newTestHandler(t)

	// unknown thread fails inside the stream, transport still returns 200
	rec := postJSON(h, `{"type": "threads.add_user_message", "thread_id": "cthr_nope", "input": {"content": [{"type": "input_text", "text": "x"}]}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"type":"error"`)
	assert.Contains(t, body, `"code":"not_found"`)
}

func TestHandlerJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	h := NewHandler(srv, nil)

	threadID, _ := createThread(t, srv, "hello")

	rec := postJSON(h, `{"type": "threads.get_by_id", "thread_id": "`+threadID+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var thread chatkit.Thread
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))
	assert.Equal(t, threadID, thread.ID)
}

func TestHandlerErrors(t *testing.T) {
	h := newTestHandler(t)

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chatkit", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := postJSON(h, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown request type", func(t *testing.T) {
		rec := postJSON(h, `{"type": "threads.transmogrify"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "unknown request type")
	})

	t.Run("missing thread maps to 404", func(t *testing.T) {
		rec := postJSON(h, `{"type": "threads.get_by_id", "thread_id": "cthr_nope"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRequestContextFunc(t *testing.T) {
	mem := store.NewMemory()
	srv := New(mem)

	var gotRC chatkit.RequestContext
	srv.Respond = func(ctx context.Context, actx *AgentContext, input *chatkit.UserMessageItem) <-chan Emission {
		gotRC = actx.RequestContext
		out := make(chan Emission)
		close(out)
		return out
	}

	h := NewHandler(srv, func(r *http.Request) chatkit.RequestContext {
		return r.Header.Get("X-User")
	})

	req := httptest.NewRequest(http.MethodPost, "/chatkit",
		strings.NewReader(`{"type": "threads.create", "input": {"content": [{"type": "input_text", "text": "Hi"}]}}`))
	req.Header.Set("X-User", "user-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", gotRC)
}
