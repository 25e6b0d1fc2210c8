package widget

import (
	"encoding/json"
	"fmt"
)

// UnmarshalComponent decodes one widget node, dispatching on its type
// discriminator. Unknown types fail closed.
func UnmarshalComponent(data []byte) (Component, error) {
	var probe struct {
		Type ComponentType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	var (
		c   Component
		err error
	)
	switch probe.Type {
	case TypeCard:
		var v Card
		err = json.Unmarshal(data, &v)
		c = v
	case TypeListView:
		var v ListView
		err = json.Unmarshal(data, &v)
		c = v
	case TypeListViewItem:
		var v ListViewItem
		err = json.Unmarshal(data, &v)
		c = v
	case TypeBox:
		var v Box
		err = json.Unmarshal(data, &v)
		c = v
	case TypeRow:
		var v Row
		err = json.Unmarshal(data, &v)
		c = v
	case TypeCol:
		var v Col
		err = json.Unmarshal(data, &v)
		c = v
	case TypeDivider:
		var v Divider
		err = json.Unmarshal(data, &v)
		c = v
	case TypeImage:
		var v Image
		err = json.Unmarshal(data, &v)
		c = v
	case TypeBadge:
		var v Badge
		err = json.Unmarshal(data, &v)
		c = v
	case TypeButton:
		var v Button
		err = json.Unmarshal(data, &v)
		c = v
	case TypeTitle:
		var v Title
		err = json.Unmarshal(data, &v)
		c = v
	case TypeCaption:
		var v Caption
		err = json.Unmarshal(data, &v)
		c = v
	case TypeText:
		var v Text
		err = json.Unmarshal(data, &v)
		c = v
	case TypeMarkdown:
		var v Markdown
		err = json.Unmarshal(data, &v)
		c = v
	default:
		return nil, fmt.Errorf("unknown widget component type %q", probe.Type)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UnmarshalRoot decodes a widget root. Only Card and ListView are valid at
// the top of a tree.
func UnmarshalRoot(data []byte) (Root, error) {
	c, err := UnmarshalComponent(data)
	if err != nil {
		return nil, err
	}
	r, ok := c.(Root)
	if !ok {
		return nil, fmt.Errorf("component type %q is not a valid widget root", c.GetType())
	}
	return r, nil
}

func unmarshalChildren(raw []json.RawMessage) ([]Component, error) {
	if raw == nil {
		return nil, nil
	}
	children := make([]Component, 0, len(raw))
	for _, r := range raw {
		child, err := UnmarshalComponent(r)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// UnmarshalJSON implements json.Unmarshaler. Children is a []Component
// interface slice, which cannot be unmarshaled directly.
func (c *Card) UnmarshalJSON(data []byte) error {
	type alias Card
	var tmp struct {
		alias
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*c = Card(tmp.alias)
	children, err := unmarshalChildren(tmp.Children)
	if err != nil {
		return err
	}
	c.Children = children
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *ListView) UnmarshalJSON(data []byte) error {
	type alias ListView
	var tmp struct {
		alias
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*l = ListView(tmp.alias)
	children, err := unmarshalChildren(tmp.Children)
	if err != nil {
		return err
	}
	l.Children = children
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *ListViewItem) UnmarshalJSON(data []byte) error {
	type alias ListViewItem
	var tmp struct {
		alias
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*i = ListViewItem(tmp.alias)
	children, err := unmarshalChildren(tmp.Children)
	if err != nil {
		return err
	}
	i.Children = children
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Box) UnmarshalJSON(data []byte) error {
	type alias Box
	var tmp struct {
		alias
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*b = Box(tmp.alias)
	children, err := unmarshalChildren(tmp.Children)
	if err != nil {
		return err
	}
	b.Children = children
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Row) UnmarshalJSON(data []byte) error {
	type alias Row
	var tmp struct {
		alias
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*r = Row(tmp.alias)
	children, err := unmarshalChildren(tmp.Children)
	if err != nil {
		return err
	}
	r.Children = children
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Col) UnmarshalJSON(data []byte) error {
	type alias Col
	var tmp struct {
		alias
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*c = Col(tmp.alias)
	children, err := unmarshalChildren(tmp.Children)
	if err != nil {
		return err
	}
	c.Children = children
	return nil
}
