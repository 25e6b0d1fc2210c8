// Package server implements the request processor for chat threads: it
// classifies wire requests, persists thread items exactly once as events
// flow, merges the responder's primary stream with the side-channel queue,
// and frames streaming results as SSE.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/store"
)

// ResponderFunc generates the model turn for a user message. input is nil
// when the turn resumes from a client tool output; the completed call is on
// actx.ClientToolCall. The hook starts its own producer goroutine and
// returns the primary event channel; a fatal failure is sent as a final
// Emission with Err set, then the channel is closed.
type ResponderFunc func(ctx context.Context, actx *AgentContext, input *chatkit.UserMessageItem) <-chan Emission

// ActionFunc handles a widget-originated action. sender is the widget item
// the action came from, nil when the action was not sent from an item.
type ActionFunc func(ctx context.Context, actx *AgentContext, action ActionPayload, sender chatkit.ThreadItem) <-chan Emission

// FeedbackFunc records caller feedback on items.
type FeedbackFunc func(ctx context.Context, rc chatkit.RequestContext, threadID string, itemIDs []string, kind chatkit.FeedbackKind) error

// Server is the protocol state machine. Configure the hook fields before
// serving; a nil Respond or Action hook fails the corresponding requests
// with an unsupported error, a nil Feedback hook makes feedback a no-op.
type Server struct {
	// Respond generates a turn after a user message or tool output.
	Respond ResponderFunc
	// Action handles widget-originated custom actions.
	Action ActionFunc
	// Feedback records item feedback.
	Feedback FeedbackFunc

	store       store.Store
	attachments store.AttachmentStore
	log         *slog.Logger
	pageSize    int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithAttachmentStore enables attachment requests.
func WithAttachmentStore(as store.AttachmentStore) Option {
	return func(s *Server) { s.attachments = as }
}

// WithPageSize sets the default page size for list operations.
func WithPageSize(n int) Option {
	return func(s *Server) { s.pageSize = n }
}

// New creates a Server over the given store.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:    st,
		log:      slog.Default(),
		pageSize: store.ThreadPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of Process: either a StreamingResult or a
// JSONResult.
type Result interface {
	result()
}

// StreamingResult carries the live event sequence of a streaming request.
// The channel is closed when the stream ends; an error event, if any, is the
// last entry.
type StreamingResult struct {
	Events <-chan chatkit.ThreadStreamEvent
}

func (StreamingResult) result() {}

// JSONResult carries the single response value of a non-streaming request.
type JSONResult struct {
	Value any
}

func (JSONResult) result() {}

// Process decodes and executes one wire request. Streaming requests return
// immediately with the event channel; work happens as the channel is
// consumed. Non-streaming failures return an error whose HTTP status is
// recoverable via chatkit.StatusCodeOf.
func (s *Server) Process(ctx context.Context, rc chatkit.RequestContext, payload []byte) (Result, error) {
	req, err := ParseRequest(payload)
	if err != nil {
		return nil, chatkit.NewStreamError(chatkit.ErrCodeInvalidRequest, err.Error()).WithCause(err)
	}

	log := s.log.With("request_type", req.GetType())
	log.Info("processing request")

	switch r := req.(type) {
	case *CreateThreadRequest:
		return s.stream(ctx, rc, log, func(ctx context.Context, out chan<- chatkit.ThreadStreamEvent) error {
			return s.runCreateThread(ctx, rc, r, out)
		}), nil
	case *AddUserMessageRequest:
		return s.stream(ctx, rc, log, func(ctx context.Context, out chan<- chatkit.ThreadStreamEvent) error {
			return s.runAddUserMessage(ctx, rc, r, out)
		}), nil
	case *RetryAfterItemRequest:
		return s.stream(ctx, rc, log, func(ctx context.Context, out chan<- chatkit.ThreadStreamEvent) error {
			return s.runRetryAfterItem(ctx, rc, r, out)
		}), nil
	case *CustomActionRequest:
		return s.stream(ctx, rc, log, func(ctx context.Context, out chan<- chatkit.ThreadStreamEvent) error {
			return s.runCustomAction(ctx, rc, r, out)
		}), nil
	case *AddClientToolOutputRequest:
		return s.stream(ctx, rc, log, func(ctx context.Context, out chan<- chatkit.ThreadStreamEvent) error {
			return s.runAddClientToolOutput(ctx, rc, r, out)
		}), nil
	case *GetThreadRequest:
		return s.getThread(ctx, rc, r)
	case *ListThreadsRequest:
		return s.listThreads(ctx, rc, r)
	case *UpdateThreadRequest:
		return s.updateThread(ctx, rc, r)
	case *DeleteThreadRequest:
		return s.deleteThread(ctx, rc, r)
	case *ListItemsRequest:
		return s.listItems(ctx, rc, r)
	case *FeedbackRequest:
		return s.feedback(ctx, rc, r)
	case *CreateAttachmentRequest:
		return s.createAttachment(ctx, rc, r)
	case *DeleteAttachmentRequest:
		return s.deleteAttachment(ctx, rc, r)
	default:
		return nil, chatkit.NewStreamError(chatkit.ErrCodeInvalidRequest,
			fmt.Sprintf("unhandled request type %s", req.GetType()))
	}
}

// stream runs one streaming request in a goroutine, converting any error
// into a terminal error event. The stream always ends with the channel
// close, never with a transport fault.
func (s *Server) stream(ctx context.Context, rc chatkit.RequestContext, log *slog.Logger, run func(context.Context, chan<- chatkit.ThreadStreamEvent) error) Result {
	out := make(chan chatkit.ThreadStreamEvent)
	go func() {
		defer close(out)
		if err := run(ctx, out); err != nil {
			log.Error("stream failed", "error", err)
			emit(ctx, out, chatkit.ErrorEventFor(err))
		}
	}()
	return StreamingResult{Events: out}
}

func (s *Server) runCreateThread(ctx context.Context, rc chatkit.RequestContext, req *CreateThreadRequest, out chan<- chatkit.ThreadStreamEvent) error {
	id, err := s.store.GenerateThreadID(ctx, rc)
	if err != nil {
		return err
	}
	thread := &chatkit.Thread{ID: id, CreatedAt: chatkit.Now(), Status: chatkit.ActiveStatus()}
	if err := s.store.AddThread(ctx, rc, thread); err != nil {
		return err
	}
	emit(ctx, out, chatkit.NewThreadCreatedEvent(thread))

	userItem, err := s.addUserItem(ctx, rc, thread, req.Input, out)
	if err != nil {
		return err
	}
	return s.respondTurn(ctx, rc, thread, userItem, nil, out)
}

func (s *Server) runAddUserMessage(ctx context.Context, rc chatkit.RequestContext, req *AddUserMessageRequest, out chan<- chatkit.ThreadStreamEvent) error {
	thread, err := s.loadActiveThread(ctx, rc, req.ThreadID)
	if err != nil {
		return err
	}

	userItem, err := s.addUserItem(ctx, rc, thread, req.Input, out)
	if err != nil {
		return err
	}

	// a new user message abandons any tool call still waiting on the client
	if err := s.purgePendingToolCalls(ctx, rc, thread, out); err != nil {
		return err
	}
	return s.respondTurn(ctx, rc, thread, userItem, nil, out)
}

func (s *Server) runRetryAfterItem(ctx context.Context, rc chatkit.RequestContext, req *RetryAfterItemRequest, out chan<- chatkit.ThreadStreamEvent) error {
	thread, err := s.loadActiveThread(ctx, rc, req.ThreadID)
	if err != nil {
		return err
	}

	// validate the target and collect everything after it before touching
	// the store, so a bad target deletes nothing
	items, err := s.loadAllItems(ctx, rc, thread.ID, chatkit.SortOrderDesc)
	if err != nil {
		return err
	}
	var target *chatkit.UserMessageItem
	var after []chatkit.ThreadItem
	for _, item := range items {
		if item.GetBase().ID == req.ItemID {
			um, ok := item.(*chatkit.UserMessageItem)
			if !ok {
				return chatkit.NewStreamError(chatkit.ErrCodeInvalidRequest,
					fmt.Sprintf("retry target %s is not a user message", req.ItemID))
			}
			target = um
			break
		}
		after = append(after, item)
	}
	if target == nil {
		return chatkit.NewStreamError(chatkit.ErrCodeNotFound,
			fmt.Sprintf("item %s not found in thread %s", req.ItemID, thread.ID))
	}

	for _, item := range after {
		if err := s.store.DeleteItem(ctx, rc, thread.ID, item.GetBase().ID); err != nil {
			return err
		}
		emit(ctx, out, chatkit.NewItemRemovedEvent(item.GetBase().ID))
	}
	return s.respondTurn(ctx, rc, thread, target, nil, out)
}

func (s *Server) runCustomAction(ctx context.Context, rc chatkit.RequestContext, req *CustomActionRequest, out chan<- chatkit.ThreadStreamEvent) error {
	if s.Action == nil {
		return chatkit.NewStreamError(chatkit.ErrCodeUnsupported, "custom actions not supported")
	}
	thread, err := s.loadActiveThread(ctx, rc, req.ThreadID)
	if err != nil {
		return err
	}
	var sender chatkit.ThreadItem
	if req.ItemID != "" {
		sender, err = s.store.LoadItem(ctx, rc, thread.ID, req.ItemID)
		if err != nil {
			return notFoundToStreamError(err)
		}
	}
	if err := s.purgePendingToolCalls(ctx, rc, thread, out); err != nil {
		return err
	}
	return s.consumeTurn(ctx, rc, thread, out, func(actx *AgentContext) <-chan Emission {
		return s.Action(ctx, actx, req.Action, sender)
	})
}

func (s *Server) runAddClientToolOutput(ctx context.Context, rc chatkit.RequestContext, req *AddClientToolOutputRequest, out chan<- chatkit.ThreadStreamEvent) error {
	thread, err := s.loadActiveThread(ctx, rc, req.ThreadID)
	if err != nil {
		return err
	}
	call, err := s.pendingToolCall(ctx, rc, thread.ID)
	if err != nil {
		return err
	}
	call.Status = chatkit.ToolCallCompleted
	call.Output = req.Result
	if err := s.store.SaveItem(ctx, rc, thread.ID, call); err != nil {
		return err
	}
	emit(ctx, out, chatkit.NewItemReplacedEvent(call))

	// any older call still pending cannot be replayed to the engine
	if err := s.purgePendingToolCalls(ctx, rc, thread, out); err != nil {
		return err
	}
	return s.respondTurn(ctx, rc, thread, nil, call, out)
}

// addUserItem builds, persists and announces the request's user message.
// User messages arrive complete, so the done event is immediate.
func (s *Server) addUserItem(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread, input UserMessageInput, out chan<- chatkit.ThreadStreamEvent) (*chatkit.UserMessageItem, error) {
	if len(input.Content) == 0 {
		return nil, chatkit.NewStreamError(chatkit.ErrCodeInvalidRequest, "user message has no content")
	}
	id, err := s.store.GenerateItemID(ctx, rc, chatkit.ItemTypeUserMessage, thread)
	if err != nil {
		return nil, err
	}

	item := chatkit.NewUserMessageItem(input.Content...)
	item.ID = id
	item.ThreadID = thread.ID
	item.QuotedText = input.QuotedText
	item.InferenceOptions = input.InferenceOptions

	for _, attID := range input.Attachments {
		if s.attachments == nil {
			return nil, fmt.Errorf("attachment %s referenced but no attachment store configured", attID)
		}
		att, err := s.attachments.LoadAttachment(ctx, rc, attID)
		if err != nil {
			return nil, notFoundToStreamError(err)
		}
		item.Attachments = append(item.Attachments, att)
	}

	if err := s.store.AddItem(ctx, rc, thread.ID, item); err != nil {
		return nil, err
	}
	emit(ctx, out, chatkit.NewItemDoneEvent(item))
	return item, nil
}

// respondTurn runs the Respond hook and relays its merged stream.
func (s *Server) respondTurn(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread, input *chatkit.UserMessageItem, call *chatkit.ClientToolCallItem, out chan<- chatkit.ThreadStreamEvent) error {
	if s.Respond == nil {
		return chatkit.NewStreamError(chatkit.ErrCodeUnsupported, "responder not configured")
	}
	return s.consumeTurn(ctx, rc, thread, out, func(actx *AgentContext) <-chan Emission {
		actx.ClientToolCall = call
		return s.Respond(ctx, actx, input)
	})
}

// consumeTurn merges a hook's primary stream with a fresh side channel and
// applies each event's persistence side effect exactly once as it passes
// through. Thread metadata mutated by the hook is diffed against the
// pre-turn snapshot and announced after each finished item, so mutations
// survive a later stream failure.
func (s *Server) consumeTurn(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread, out chan<- chatkit.ThreadStreamEvent, start func(*AgentContext) <-chan Emission) error {
	snapshot := thread.Clone()
	queue := NewEventQueue()
	actx := &AgentContext{
		Thread:         thread,
		RequestContext: rc,
		store:          s.store,
		queue:          queue,
		log:            s.log,
	}

	// returning before the merge goroutine finishes releases it
	mctx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := mergeStreams(mctx, start(actx), queue)
	pending := newPendingIDs()

	syncThread := func() error {
		if reflect.DeepEqual(thread, snapshot) {
			return nil
		}
		if err := s.store.SaveThread(ctx, rc, thread); err != nil {
			return err
		}
		emit(ctx, out, chatkit.NewThreadUpdatedEvent(thread))
		snapshot = thread.Clone()
		return nil
	}

	// during unwinding the turn's error wins over a failed thread save
	unwind := func(err error) error {
		drainQueue(queue)
		if saveErr := syncThread(); saveErr != nil {
			s.log.Error("thread save failed during unwind", "error", saveErr)
		}
		return err
	}

	for em := range merged {
		if em.Err != nil {
			return unwind(em.Err)
		}
		ev, err := s.applyEvent(ctx, rc, thread, em.Event, pending)
		if err != nil {
			return unwind(err)
		}
		if ev != nil {
			emit(ctx, out, ev)
		}
		switch ev.(type) {
		case chatkit.ThreadUpdatedEvent:
			// the hook announced the change itself
			snapshot = thread.Clone()
		case chatkit.ItemDoneEvent:
			if err := syncThread(); err != nil {
				return unwind(err)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		drainQueue(queue)
		return err
	}

	return syncThread()
}

// applyEvent performs one event's persistence side effect and returns the
// event to forward, nil to swallow it.
func (s *Server) applyEvent(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread, ev chatkit.ThreadStreamEvent, pending *pendingIDs) (chatkit.ThreadStreamEvent, error) {
	switch e := ev.(type) {
	case chatkit.ItemAddedEvent:
		if err := s.stampItem(ctx, rc, thread, e.Item, pending, true); err != nil {
			return nil, err
		}
		return e, nil

	case chatkit.ItemDoneEvent:
		if err := s.stampItem(ctx, rc, thread, e.Item, pending, false); err != nil {
			return nil, err
		}
		if err := s.store.AddItem(ctx, rc, thread.ID, e.Item); err != nil {
			return nil, err
		}
		// hidden context feeds the model on later turns but never renders
		if e.Item.GetType() == chatkit.ItemTypeHiddenContext {
			return nil, nil
		}
		return e, nil

	case chatkit.ItemReplacedEvent:
		if err := s.store.SaveItem(ctx, rc, thread.ID, e.Item); err != nil {
			return nil, err
		}
		return e, nil

	case chatkit.ItemRemovedEvent:
		if err := s.store.DeleteItem(ctx, rc, thread.ID, e.ItemID); err != nil {
			return nil, err
		}
		return e, nil

	case chatkit.ThreadUpdatedEvent:
		if err := s.store.SaveThread(ctx, rc, thread); err != nil {
			return nil, err
		}
		return e, nil

	default:
		return ev, nil
	}
}

// stampItem fills in the item's thread id and, when the hook left the id
// empty, assigns one. An added event's assigned id is remembered so the
// matching done event reuses it.
func (s *Server) stampItem(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread, item chatkit.ThreadItem, pending *pendingIDs, added bool) error {
	base := item.GetBase()
	base.ThreadID = thread.ID
	if base.ID != "" {
		if !added {
			pending.take(item.GetType(), base.ID)
		}
		return nil
	}
	if !added {
		if id, ok := pending.pop(item.GetType()); ok {
			base.ID = id
			return nil
		}
	}
	id, err := s.store.GenerateItemID(ctx, rc, item.GetType(), thread)
	if err != nil {
		return err
	}
	base.ID = id
	if added {
		pending.push(item.GetType(), id)
	}
	return nil
}

// loadActiveThread loads a thread and rejects new input on locked or closed
// threads.
func (s *Server) loadActiveThread(ctx context.Context, rc chatkit.RequestContext, threadID string) (*chatkit.Thread, error) {
	thread, err := s.store.LoadThread(ctx, rc, threadID)
	if err != nil {
		return nil, notFoundToStreamError(err)
	}
	if thread.Status.Type != chatkit.ThreadStatusActive {
		return nil, chatkit.NewStreamError(chatkit.ErrCodeThreadLocked,
			fmt.Sprintf("thread %s is %s", threadID, thread.Status.Type))
	}
	return thread, nil
}

// purgePendingToolCalls removes client tool calls still waiting on output.
func (s *Server) purgePendingToolCalls(ctx context.Context, rc chatkit.RequestContext, thread *chatkit.Thread, out chan<- chatkit.ThreadStreamEvent) error {
	items, err := s.loadAllItems(ctx, rc, thread.ID, chatkit.SortOrderDesc)
	if err != nil {
		return err
	}
	for _, item := range items {
		call, ok := item.(*chatkit.ClientToolCallItem)
		if !ok || call.Status != chatkit.ToolCallPending {
			continue
		}
		if err := s.store.DeleteItem(ctx, rc, thread.ID, call.ID); err != nil {
			return err
		}
		emit(ctx, out, chatkit.NewItemRemovedEvent(call.ID))
	}
	return nil
}

// pendingToolCall finds the most recent client tool call awaiting output.
func (s *Server) pendingToolCall(ctx context.Context, rc chatkit.RequestContext, threadID string) (*chatkit.ClientToolCallItem, error) {
	items, err := s.loadAllItems(ctx, rc, threadID, chatkit.SortOrderDesc)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if call, ok := item.(*chatkit.ClientToolCallItem); ok && call.Status == chatkit.ToolCallPending {
			return call, nil
		}
	}
	return nil, chatkit.NewStreamError(chatkit.ErrCodeInvalidRequest, "no pending client tool call")
}

// loadAllItems pages through a thread's entire history.
func (s *Server) loadAllItems(ctx context.Context, rc chatkit.RequestContext, threadID string, order chatkit.SortOrder) ([]chatkit.ThreadItem, error) {
	var all []chatkit.ThreadItem
	after := ""
	for {
		page, err := s.store.LoadItems(ctx, rc, threadID, s.pageSize, after, order)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.HasMore {
			return all, nil
		}
		after = page.After
	}
}

func (s *Server) getThread(ctx context.Context, rc chatkit.RequestContext, req *GetThreadRequest) (Result, error) {
	thread, err := s.store.LoadThread(ctx, rc, req.ThreadID)
	if err != nil {
		return nil, notFoundToStreamError(err)
	}
	return JSONResult{Value: thread}, nil
}

func (s *Server) listThreads(ctx context.Context, rc chatkit.RequestContext, req *ListThreadsRequest) (Result, error) {
	order := req.Order
	if order == "" {
		order = chatkit.SortOrderDesc
	}
	page, err := s.store.LoadThreads(ctx, rc, req.Limit, req.After, order)
	if err != nil {
		return nil, notFoundToStreamError(err)
	}
	return JSONResult{Value: page}, nil
}

func (s *Server) updateThread(ctx context.Context, rc chatkit.RequestContext, req *UpdateThreadRequest) (Result, error) {
	thread, err := s.store.LoadThread(ctx, rc, req.ThreadID)
	if err != nil {
		return nil, notFoundToStreamError(err)
	}
	thread.Title = req.Title
	if err := s.store.SaveThread(ctx, rc, thread); err != nil {
		return nil, err
	}
	return JSONResult{Value: thread}, nil
}

func (s *Server) deleteThread(ctx context.Context, rc chatkit.RequestContext, req *DeleteThreadRequest) (Result, error) {
	if err := s.store.DeleteThread(ctx, rc, req.ThreadID); err != nil {
		return nil, notFoundToStreamError(err)
	}
	return JSONResult{Value: struct{}{}}, nil
}

func (s *Server) listItems(ctx context.Context, rc chatkit.RequestContext, req *ListItemsRequest) (Result, error) {
	order := req.Order
	if order == "" {
		order = chatkit.SortOrderAsc
	}
	page, err := s.store.LoadItems(ctx, rc, req.ThreadID, req.Limit, req.After, order)
	if err != nil {
		return nil, notFoundToStreamError(err)
	}
	// hidden context items never leave the server
	visible := page.Data[:0:0]
	for _, item := range page.Data {
		if item.GetType() != chatkit.ItemTypeHiddenContext {
			visible = append(visible, item)
		}
	}
	page.Data = visible
	return JSONResult{Value: page}, nil
}

func (s *Server) feedback(ctx context.Context, rc chatkit.RequestContext, req *FeedbackRequest) (Result, error) {
	if s.Feedback != nil {
		if err := s.Feedback(ctx, rc, req.ThreadID, req.ItemIDs, req.Kind); err != nil {
			return nil, err
		}
	}
	return JSONResult{Value: struct{}{}}, nil
}

func (s *Server) createAttachment(ctx context.Context, rc chatkit.RequestContext, req *CreateAttachmentRequest) (Result, error) {
	if s.attachments == nil {
		return nil, chatkit.NewStreamError(chatkit.ErrCodeUnsupported, "no attachment store configured")
	}
	id, err := s.attachments.GenerateAttachmentID(ctx, rc, req.MimeType)
	if err != nil {
		return nil, err
	}
	att := chatkit.NewAttachment(req.Name, req.MimeType)
	att.ID = id
	created, err := s.attachments.CreateAttachment(ctx, rc, att)
	if err != nil {
		return nil, err
	}
	return JSONResult{Value: created}, nil
}

func (s *Server) deleteAttachment(ctx context.Context, rc chatkit.RequestContext, req *DeleteAttachmentRequest) (Result, error) {
	if s.attachments == nil {
		return nil, chatkit.NewStreamError(chatkit.ErrCodeUnsupported, "no attachment store configured")
	}
	if err := s.attachments.DeleteAttachment(ctx, rc, req.AttachmentID); err != nil {
		return nil, notFoundToStreamError(err)
	}
	return JSONResult{Value: struct{}{}}, nil
}

// emit forwards one event, giving up when the consumer is gone.
func emit(ctx context.Context, out chan<- chatkit.ThreadStreamEvent, ev chatkit.ThreadStreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// notFoundToStreamError maps a store miss to the coded not_found error so
// the wire status comes out right.
func notFoundToStreamError(err error) error {
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return chatkit.NewStreamError(chatkit.ErrCodeNotFound, nf.Error()).WithCause(err)
	}
	return err
}

// pendingIDs remembers ids assigned at item.added so the matching item.done
// reuses them. Tracked per item type in FIFO order.
type pendingIDs struct {
	ids map[chatkit.ItemType][]string
}

func newPendingIDs() *pendingIDs {
	return &pendingIDs{ids: make(map[chatkit.ItemType][]string)}
}

func (p *pendingIDs) push(t chatkit.ItemType, id string) {
	p.ids[t] = append(p.ids[t], id)
}

func (p *pendingIDs) pop(t chatkit.ItemType) (string, bool) {
	list := p.ids[t]
	if len(list) == 0 {
		return "", false
	}
	p.ids[t] = list[1:]
	return list[0], true
}

// take removes a specific id that the hook carried through itself.
func (p *pendingIDs) take(t chatkit.ItemType, id string) {
	list := p.ids[t]
	for i, have := range list {
		if have == id {
			p.ids[t] = append(list[:i], list[i+1:]...)
			return
		}
	}
}
