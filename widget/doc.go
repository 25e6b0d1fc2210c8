// Package widget defines the declarative UI component tree that can be
// attached to a thread item, and the diff engine that computes minimal
// incremental update operations between two snapshots of one widget.
//
// Components form a closed union rooted at [Root] (a Card or ListView).
// Every node optionally carries a stable id and a render key. Text and
// Markdown are the text-bearing node types: they carry a streaming flag
// and are the only nodes eligible for cumulative text-delta diffing.
//
// [Diff] compares an earlier snapshot against a later one and yields
// either a single full-replacement operation or a list of per-node text
// deltas. The append-only text invariant is load bearing: clients apply
// deltas to existing text rather than re-rendering whole strings, so a
// non-append mutation or a node id appearing mid-stream is a hard error,
// not a recoverable condition.
package widget
