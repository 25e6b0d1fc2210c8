// Package chatkit implements the coordination core of a server-driven,
// incrementally-rendered chat UI: threads made of typed items, a stream of
// lifecycle events the client applies to reconstruct thread state, and the
// error taxonomy those streams surface.
//
// The root package holds the data model only. The moving parts live in
// subpackages:
//
//   - [github.com/Timestep-AI/timestep-ai-sub001/server]: the request
//     processor that turns caller requests into persisted items and event
//     streams, the event merge engine, and the per-request AgentContext
//     with its side channel.
//   - [github.com/Timestep-AI/timestep-ai-sub001/widget]: the declarative
//     widget component tree and the diff engine that computes incremental
//     update operations between snapshots.
//   - [github.com/Timestep-AI/timestep-ai-sub001/store]: the persistence
//     contract plus an in-memory implementation.
//   - [github.com/Timestep-AI/timestep-ai-sub001/store/pebblestore]: a
//     durable store on Pebble.
//
// # Threads and items
//
// A Thread is a conversation session owning an ordered history of
// ThreadItem values. ThreadItem is a closed union: user and assistant
// messages, client tool calls, widgets, workflows, tasks and lifecycle
// markers. Consumers switch exhaustively on the concrete types so adding
// a variant is a compile-time-visible change.
//
// # Stream events
//
// Streaming requests yield ThreadStreamEvent values in order:
//
//	thread.created, thread.item.added, thread.item.updated,
//	thread.item.done, thread.item.removed, thread.item.replaced,
//	thread.updated, progress_update, notice, error
//
// An item is done the instant it is durably stored; the server persists
// items exactly once as their done events pass through the merged stream.
//
// # Errors
//
// Stream failures end the stream with a single error event carrying either
// a stable code (with default HTTP status and retryability) or an
// integration-supplied message. See [StreamError] and [CustomStreamError].
package chatkit
