package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamingCard(body string, streaming bool) Card {
	return Card{
		ComponentBase: ComponentBase{ID: "card"},
		Type:          TypeCard,
		Children: []Component{
			Title{Type: TypeTitle, Value: "Report"},
			Markdown{
				ComponentBase: ComponentBase{ID: "body"},
				Type:          TypeMarkdown,
				Value:         body,
				Streaming:     streaming,
			},
		},
	}
}

func TestDiffIdenticalSnapshots(t *testing.T) {
	before := streamingCard("hello", true)
	after := streamingCard("hello", true)

	ops, err := Diff(before, after)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestDiffTextAppend(t *testing.T) {
	t.Run("append while streaming", func(t *testing.T) {
		ops, err := Diff(streamingCard("hello", true), streamingCard("hello world", true))
		require.NoError(t, err)
		require.Len(t, ops, 1)

		delta, ok := ops[0].(StreamingTextDelta)
		require.True(t, ok)
		assert.Equal(t, "body", delta.ComponentID)
		assert.Equal(t, " world", delta.Delta)
		assert.False(t, delta.Done)
	})

	t.Run("final append marks done", func(t *testing.T) {
		ops, err := Diff(streamingCard("hello", true), streamingCard("hello!", false))
		require.NoError(t, err)
		require.Len(t, ops, 1)

		delta := ops[0].(StreamingTextDelta)
		assert.Equal(t, "!", delta.Delta)
		assert.True(t, delta.Done)
	})

	t.Run("multiple text nodes yield one delta each", func(t *testing.T) {
		before := ListView{
			Type: TypeListView,
			Children: []Component{
				Text{ComponentBase: ComponentBase{ID: "a"}, Type: TypeText, Value: "foo", Streaming: true},
				Text{ComponentBase: ComponentBase{ID: "b"}, Type: TypeText, Value: "bar", Streaming: true},
			},
		}
		after := ListView{
			Type: TypeListView,
			Children: []Component{
				Text{ComponentBase: ComponentBase{ID: "a"}, Type: TypeText, Value: "food", Streaming: true},
				Text{ComponentBase: ComponentBase{ID: "b"}, Type: TypeText, Value: "barn", Streaming: true},
			},
		}

		ops, err := Diff(before, after)
		require.NoError(t, err)
		require.Len(t, ops, 2)
		assert.Equal(t, StreamingTextDelta{ComponentID: "a", Delta: "d"}, ops[0])
		assert.Equal(t, StreamingTextDelta{ComponentID: "b", Delta: "n"}, ops[1])
	})
}

func TestDiffStructuralChangeReplacesRoot(t *testing.T) {
	base := streamingCard("hello", true)

	tests := []struct {
		name  string
		after Root
	}{
		{
			name: "root type changed",
			after: ListView{
				ComponentBase: ComponentBase{ID: "card"},
				Type:          TypeListView,
				Children:      base.Children,
			},
		},
		{
			name: "root id changed",
			after: func() Root {
				c := streamingCard("hello", true)
				c.ID = "card-2"
				return c
			}(),
		},
		{
			name: "child key changed",
			after: func() Root {
				c := streamingCard("hello", true)
				md := c.Children[1].(Markdown)
				md.Key = "v2"
				c.Children[1] = md
				return c
			}(),
		},
		{
			name: "id introduced on child",
			after: func() Root {
				c := streamingCard("hello", true)
				title := c.Children[0].(Title)
				title.ID = "late"
				c.Children[0] = title
				return c
			}(),
		},
		{
			name: "child count changed",
			after: func() Root {
				c := streamingCard("hello", true)
				c.Children = append(c.Children, Divider{Type: TypeDivider})
				return c
			}(),
		},
		{
			name: "non-text field changed",
			after: func() Root {
				c := streamingCard("hello", true)
				c.Padding = 4
				return c
			}(),
		},
		{
			name: "title value changed",
			after: func() Root {
				c := streamingCard("hello", true)
				title := c.Children[0].(Title)
				title.Value = "Final report"
				c.Children[0] = title
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Diff(base, tt.after)
			require.NoError(t, err)
			require.Len(t, ops, 1)

			replace, ok := ops[0].(ReplaceRoot)
			require.True(t, ok)
			assert.Equal(t, tt.after, replace.Root)
		})
	}
}

func TestDiffErrors(t *testing.T) {
	t.Run("text rewrite is rejected", func(t *testing.T) {
		_, err := Diff(streamingCard("hello", true), streamingCard("goodbye", true))
		assert.ErrorIs(t, err, ErrTextNotAppend)
	})

	t.Run("truncation is rejected", func(t *testing.T) {
		_, err := Diff(streamingCard("hello world", true), streamingCard("hello", true))
		assert.ErrorIs(t, err, ErrTextNotAppend)
	})

	t.Run("anonymous text change is rejected", func(t *testing.T) {
		before := Card{
			Type: TypeCard,
			Children: []Component{
				Text{Type: TypeText, Value: "was"},
			},
		}
		after := Card{
			Type: TypeCard,
			Children: []Component{
				Text{Type: TypeText, Value: "was not"},
			},
		}

		_, err := Diff(before, after)
		assert.ErrorIs(t, err, ErrStreamingTextWithoutID)
	})
}

func TestDiffNestedContainers(t *testing.T) {
	build := func(body string) Card {
		return Card{
			ComponentBase: ComponentBase{ID: "outer"},
			Type:          TypeCard,
			Children: []Component{
				Row{
					Type: TypeRow,
					Children: []Component{
						Badge{Type: TypeBadge, Label: "live"},
						Col{
							Type: TypeCol,
							Children: []Component{
								Text{ComponentBase: ComponentBase{ID: "deep"}, Type: TypeText, Value: body, Streaming: true},
							},
						},
					},
				},
			},
		}
	}

	ops, err := Diff(build("a"), build("ab"))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, StreamingTextDelta{ComponentID: "deep", Delta: "b"}, ops[0])
}
