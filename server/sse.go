package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
)

// RequestContextFunc derives the opaque per-request context from the HTTP
// request, typically from auth headers.
type RequestContextFunc func(*http.Request) chatkit.RequestContext

// Handler serves the wire protocol over HTTP: one POST endpoint that answers
// streaming requests with SSE and everything else with a single JSON body.
type Handler struct {
	server    *Server
	contextFn RequestContextFunc
	log       *slog.Logger
}

// NewHandler wraps a Server for HTTP serving. contextFn may be nil when the
// integration needs no per-request context.
func NewHandler(s *Server, contextFn RequestContextFunc) *Handler {
	return &Handler{server: s, contextFn: contextFn, log: s.log}
}

// ServeHTTP handles POST requests carrying one wire request each.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		h.log.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := readBody(r)
	if err != nil {
		h.log.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var rc chatkit.RequestContext
	if h.contextFn != nil {
		rc = h.contextFn(r)
	}

	result, err := h.server.Process(r.Context(), rc, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}

	switch res := result.(type) {
	case StreamingResult:
		h.streamSSE(w, r, res, start)
	case JSONResult:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res.Value); err != nil {
			h.log.Error("failed to encode response", "error", err)
		}
	}
}

// streamSSE relays the event channel as server-sent events.
func (h *Handler) streamSSE(w http.ResponseWriter, r *http.Request, res StreamingResult, start time.Time) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var eventCount int
	for ev := range res.Events {
		eventCount++
		if err := WriteSSE(w, flusher, ev); err != nil {
			h.log.Error("failed to write SSE event", "error", err, "event_type", ev.GetType())
			// keep draining so the producer goroutine can finish
			for range res.Events {
			}
			return
		}
	}

	h.log.Info("stream completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// WriteSSE writes one event in SSE framing: a data line with the JSON body
// followed by a blank line.
func WriteSSE(w http.ResponseWriter, flusher http.Flusher, ev chatkit.ThreadStreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	flusher.Flush()
	return nil
}

// writeError sends a JSON error body with the error's HTTP status.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := chatkit.StatusCodeOf(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "error", err, "status", status)
	} else {
		h.log.Warn("request rejected", "error", err, "status", status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	var buf json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&buf); err != nil {
		return nil, err
	}
	return buf, nil
}
