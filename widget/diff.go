package widget

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Diff hard errors. These indicate integration bugs in the code producing
// widget snapshots, not runtime conditions; callers surface them as request
// failures rather than stream error events.
var (
	// ErrComponentIDIntroduced is returned when a text-bearing node id is
	// present in the later snapshot but absent from the earlier one. A
	// stable id must never be introduced mid-stream.
	ErrComponentIDIntroduced = errors.New("widget: component id introduced mid-stream")

	// ErrTextNotAppend is returned when a text-bearing node's value changed
	// in a way that is not a forward extension of the previous value.
	// Update operations are encoded as deltas applied to existing text, so
	// rewrites cannot be expressed.
	ErrTextNotAppend = errors.New("widget: text mutation is not an append")

	// ErrStreamingTextWithoutID is returned when changed text is found on a
	// node without a stable id. Deltas are addressed by id; an anonymous
	// node cannot receive one.
	ErrStreamingTextWithoutID = errors.New("widget: text changed on a component without an id")
)

// Op is a single update operation produced by Diff. The union is closed:
// either one ReplaceRoot, or any number of StreamingTextDelta ops.
type Op interface {
	op()
}

// ReplaceRoot replaces the whole rendered widget with Root. Emitted when no
// incremental relationship between the snapshots can be established.
type ReplaceRoot struct {
	Root Root
}

func (ReplaceRoot) op() {}

// StreamingTextDelta appends Delta to the text of the node identified by
// ComponentID. Done reports that the node finished streaming with this
// delta.
type StreamingTextDelta struct {
	ComponentID string
	Delta       string
	Done        bool
}

func (StreamingTextDelta) op() {}

// Diff computes the minimal operations that bring a renderer showing before
// up to after. Both snapshots must belong to the same logical widget
// instance. Identical snapshots produce an empty operation list.
//
// Any structural difference (node type, id or key, a changed non-text
// field, an array field changing length) yields a single ReplaceRoot and
// nothing else. Differences confined to the value of text-bearing nodes
// (Text, Markdown) are instead emitted as per-node text deltas, subject to
// the append-only invariant.
func Diff(before, after Root) ([]Op, error) {
	if needsReplace(before, after) {
		return []Op{ReplaceRoot{Root: after}}, nil
	}

	beforeText := map[string]textState{}
	collectText(before, func(id string, st textState) { beforeText[id] = st })

	var (
		ops     []Op
		diffErr error
	)
	collectText(after, func(id string, st textState) {
		if diffErr != nil {
			return
		}
		prev, ok := beforeText[id]
		if !ok {
			diffErr = fmt.Errorf("%w: %q", ErrComponentIDIntroduced, id)
			return
		}
		if st.value == prev.value {
			return
		}
		if !strings.HasPrefix(st.value, prev.value) {
			diffErr = fmt.Errorf("%w: component %q", ErrTextNotAppend, id)
			return
		}
		ops = append(ops, StreamingTextDelta{
			ComponentID: id,
			Delta:       st.value[len(prev.value):],
			Done:        !st.streaming,
		})
	})
	if diffErr != nil {
		return nil, diffErr
	}
	if err := checkAnonymousText(before, after); err != nil {
		return nil, err
	}
	return ops, nil
}

type textState struct {
	value     string
	streaming bool
}

// collectText visits every text-bearing descendant carrying a stable id,
// in tree order.
func collectText(c Component, visit func(id string, st textState)) {
	switch n := c.(type) {
	case Text:
		if n.ID != "" {
			visit(n.ID, textState{value: n.Value, streaming: n.Streaming})
		}
	case Markdown:
		if n.ID != "" {
			visit(n.ID, textState{value: n.Value, streaming: n.Streaming})
		}
	}
	if ct, ok := c.(container); ok {
		for _, child := range ct.childNodes() {
			collectText(child, visit)
		}
	}
}

// checkAnonymousText walks both trees in lockstep (their structures are
// known to match once needsReplace passed) and rejects text changes on
// nodes that have no id to address a delta to.
func checkAnonymousText(before, after Component) error {
	bText, bOK := textValue(before)
	aText, aOK := textValue(after)
	if bOK && aOK && after.GetID() == "" && bText != aText {
		return fmt.Errorf("%w: %s", ErrStreamingTextWithoutID, after.GetType())
	}
	bc, bIsContainer := before.(container)
	ac, aIsContainer := after.(container)
	if !bIsContainer || !aIsContainer {
		return nil
	}
	bChildren, aChildren := bc.childNodes(), ac.childNodes()
	for i := range aChildren {
		if err := checkAnonymousText(bChildren[i], aChildren[i]); err != nil {
			return err
		}
	}
	return nil
}

func textValue(c Component) (string, bool) {
	switch n := c.(type) {
	case Text:
		return n.Value, true
	case Markdown:
		return n.Value, true
	}
	return "", false
}

func isTextNode(c Component) bool {
	_, ok := textValue(c)
	return ok
}

// needsReplace reports whether the two nodes differ in a way that cannot be
// expressed incrementally.
func needsReplace(before, after Component) bool {
	if before == nil || after == nil {
		return before != nil || after != nil
	}
	bv := reflect.ValueOf(before)
	av := reflect.ValueOf(after)
	if bv.Type() != av.Type() {
		return true
	}
	if before.GetID() != after.GetID() || before.GetKey() != after.GetKey() {
		return true
	}

	text := isTextNode(before)
	t := bv.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Name
		if name == "ComponentBase" {
			continue // id and key compared above
		}
		// The text value and its streaming flag are the streaming
		// carve-out: their differences surface as delta ops, never as a
		// full replace.
		if text && (name == "Value" || name == "Streaming") {
			continue
		}
		if fieldNeedsReplace(bv.Field(i), av.Field(i)) {
			return true
		}
	}
	return false
}

func fieldNeedsReplace(bf, af reflect.Value) bool {
	switch bf.Kind() {
	case reflect.Slice:
		if bf.Len() != af.Len() {
			return true
		}
		for i := 0; i < bf.Len(); i++ {
			if elemNeedsReplace(bf.Index(i), af.Index(i)) {
				return true
			}
		}
		return false
	case reflect.Interface:
		return elemNeedsReplace(bf, af)
	default:
		return !reflect.DeepEqual(bf.Interface(), af.Interface())
	}
}

func elemNeedsReplace(bf, af reflect.Value) bool {
	bc, bOK := bf.Interface().(Component)
	ac, aOK := af.Interface().(Component)
	if bOK && aOK {
		return needsReplace(bc, ac)
	}
	if bOK != aOK {
		return true
	}
	return !reflect.DeepEqual(bf.Interface(), af.Interface())
}
