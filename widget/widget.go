package widget

// ComponentType discriminates widget tree nodes on the wire.
type ComponentType string

const (
	TypeCard         ComponentType = "Card"
	TypeListView     ComponentType = "ListView"
	TypeListViewItem ComponentType = "ListViewItem"
	TypeBox          ComponentType = "Box"
	TypeRow          ComponentType = "Row"
	TypeCol          ComponentType = "Col"
	TypeDivider      ComponentType = "Divider"
	TypeImage        ComponentType = "Image"
	TypeBadge        ComponentType = "Badge"
	TypeButton       ComponentType = "Button"
	TypeTitle        ComponentType = "Title"
	TypeCaption      ComponentType = "Caption"
	TypeText         ComponentType = "Text"
	TypeMarkdown     ComponentType = "Markdown"
)

// Component is one node of a widget tree. The union is closed: every
// implementation lives in this package.
//
// Once a node has been assigned an id, that id must persist across all
// subsequent snapshots of the same widget instance; the diff engine relies
// on it to correlate before/after nodes.
type Component interface {
	component()
	GetType() ComponentType
	GetID() string
	GetKey() string
}

// Root is a component allowed at the top of a widget tree: Card or
// ListView.
type Root interface {
	Component
	root()
}

// ComponentBase holds the identity fields shared by every node. ID is a
// stable identity used for incremental updates; Key is a render hint.
type ComponentBase struct {
	ID  string `json:"id,omitempty"`
	Key string `json:"key,omitempty"`
}

// GetID returns the node's stable id, if any.
func (b ComponentBase) GetID() string { return b.ID }

// GetKey returns the node's render key, if any.
func (b ComponentBase) GetKey() string { return b.Key }

// container is implemented by nodes that nest child components.
type container interface {
	childNodes() []Component
}

// CardAction pairs a button label with the action it fires.
type CardAction struct {
	Label  string       `json:"label"`
	Action ActionConfig `json:"action"`
}

// Card is a bordered surface, usable as a widget root. Confirm and Cancel,
// when set, render an action footer.
type Card struct {
	ComponentBase
	Type       ComponentType `json:"type"`
	Children   []Component   `json:"children"`
	Padding    int           `json:"padding,omitempty"`
	Background string        `json:"background,omitempty"`
	Confirm    *CardAction   `json:"confirm,omitempty"`
	Cancel     *CardAction   `json:"cancel,omitempty"`
}

func (Card) component()                {}
func (Card) root()                     {}
func (c Card) GetType() ComponentType  { return c.Type }
func (c Card) childNodes() []Component { return c.Children }

// ListView is a vertical list of items, usable as a widget root.
type ListView struct {
	ComponentBase
	Type     ComponentType `json:"type"`
	Children []Component   `json:"children"`
	Limit    int           `json:"limit,omitempty"`
}

func (ListView) component()                {}
func (ListView) root()                     {}
func (l ListView) GetType() ComponentType  { return l.Type }
func (l ListView) childNodes() []Component { return l.Children }

// ListViewItem is one row of a ListView.
type ListViewItem struct {
	ComponentBase
	Type     ComponentType `json:"type"`
	Children []Component   `json:"children"`
	Gap      int           `json:"gap,omitempty"`
}

func (ListViewItem) component()                {}
func (i ListViewItem) GetType() ComponentType  { return i.Type }
func (i ListViewItem) childNodes() []Component { return i.Children }

// Box is a generic layout container.
type Box struct {
	ComponentBase
	Type       ComponentType `json:"type"`
	Children   []Component   `json:"children"`
	Direction  string        `json:"direction,omitempty"`
	Padding    int           `json:"padding,omitempty"`
	Gap        int           `json:"gap,omitempty"`
	Background string        `json:"background,omitempty"`
	Radius     string        `json:"radius,omitempty"`
	Align      string        `json:"align,omitempty"`
	Justify    string        `json:"justify,omitempty"`
}

func (Box) component()                {}
func (b Box) GetType() ComponentType  { return b.Type }
func (b Box) childNodes() []Component { return b.Children }

// Row lays children out horizontally.
type Row struct {
	ComponentBase
	Type     ComponentType `json:"type"`
	Children []Component   `json:"children"`
	Gap      int           `json:"gap,omitempty"`
	Align    string        `json:"align,omitempty"`
	Justify  string        `json:"justify,omitempty"`
}

func (Row) component()                {}
func (r Row) GetType() ComponentType  { return r.Type }
func (r Row) childNodes() []Component { return r.Children }

// Col lays children out vertically.
type Col struct {
	ComponentBase
	Type     ComponentType `json:"type"`
	Children []Component   `json:"children"`
	Gap      int           `json:"gap,omitempty"`
	Align    string        `json:"align,omitempty"`
	Justify  string        `json:"justify,omitempty"`
}

func (Col) component()                {}
func (c Col) GetType() ComponentType  { return c.Type }
func (c Col) childNodes() []Component { return c.Children }

// Divider is a horizontal rule.
type Divider struct {
	ComponentBase
	Type    ComponentType `json:"type"`
	Spacing int           `json:"spacing,omitempty"`
}

func (Divider) component()               {}
func (d Divider) GetType() ComponentType { return d.Type }

// Image renders an image by URL.
type Image struct {
	ComponentBase
	Type   ComponentType `json:"type"`
	Src    string        `json:"src"`
	Alt    string        `json:"alt,omitempty"`
	Width  int           `json:"width,omitempty"`
	Height int           `json:"height,omitempty"`
	Radius string        `json:"radius,omitempty"`
}

func (Image) component()               {}
func (i Image) GetType() ComponentType { return i.Type }

// Badge is a small status label.
type Badge struct {
	ComponentBase
	Type  ComponentType `json:"type"`
	Label string        `json:"label"`
	Color string        `json:"color,omitempty"`
}

func (Badge) component()               {}
func (b Badge) GetType() ComponentType { return b.Type }

// Button fires an action when clicked.
type Button struct {
	ComponentBase
	Type    ComponentType `json:"type"`
	Label   string        `json:"label"`
	Style   string        `json:"style,omitempty"`
	OnClick *ActionConfig `json:"on_click,omitempty"`
}

func (Button) component()               {}
func (b Button) GetType() ComponentType { return b.Type }

// Title is a heading. It carries text but no streaming flag; changing its
// value replaces the widget.
type Title struct {
	ComponentBase
	Type   ComponentType `json:"type"`
	Value  string        `json:"value"`
	Size   string        `json:"size,omitempty"`
	Weight string        `json:"weight,omitempty"`
	Color  string        `json:"color,omitempty"`
}

func (Title) component()               {}
func (t Title) GetType() ComponentType { return t.Type }

// Caption is secondary text below or beside other content.
type Caption struct {
	ComponentBase
	Type  ComponentType `json:"type"`
	Value string        `json:"value"`
	Size  string        `json:"size,omitempty"`
	Color string        `json:"color,omitempty"`
}

func (Caption) component()               {}
func (c Caption) GetType() ComponentType { return c.Type }

// Text is body text. When Streaming is true the value may still grow; the
// diff engine emits cumulative deltas for it instead of replacing the
// widget.
type Text struct {
	ComponentBase
	Type      ComponentType `json:"type"`
	Value     string        `json:"value"`
	Streaming bool          `json:"streaming,omitempty"`
	Size      string        `json:"size,omitempty"`
	Weight    string        `json:"weight,omitempty"`
	Color     string        `json:"color,omitempty"`
}

func (Text) component()               {}
func (t Text) GetType() ComponentType { return t.Type }

// Markdown renders markdown source. Streaming behaves as on Text.
type Markdown struct {
	ComponentBase
	Type      ComponentType `json:"type"`
	Value     string        `json:"value"`
	Streaming bool          `json:"streaming,omitempty"`
}

func (Markdown) component()               {}
func (m Markdown) GetType() ComponentType { return m.Type }
