package board

import "fmt"

// Mode is the interaction mode of a Machine. Exactly one is active at a
// time; the concrete types below are the only implementations.
type Mode interface {
	fmt.Stringer
	mode()
}

type Idle struct{}

// Dragging moves IDs by the pointer delta. Points are in screen space.
type Dragging struct {
	IDs      []string
	Origin   Point
	Previous Point
}

// Panning shifts the viewport by the pointer delta. Points are in screen space.
type Panning struct {
	Origin   Point
	Previous Point
}

// BoxSelecting tracks a rubber band in canvas space. Base is the selection
// that was kept when the gesture started with the additive modifier.
type BoxSelecting struct {
	Anchor  Point
	Current Point
	Base    []Ref
}

// ConnectingFrom draws a preview edge from SourceID to Current (canvas space).
type ConnectingFrom struct {
	SourceID string
	Current  Point
}

// EditingContent is active while a card's content is typed. Original is the
// content to restore on cancel.
type EditingContent struct {
	CardID   string
	Original string
}

// Resizing grows or shrinks CardID by the pointer delta. Previous is in screen
// space.
type Resizing struct {
	CardID   string
	Previous Point
}

func (Idle) mode() {}
func (Dragging) mode() {}
func (Panning) mode() {}
func (BoxSelecting) mode() {}
func (ConnectingFrom) mode() {}
func (EditingContent) mode() {}
func (Resizing) mode() {}

func (Idle) String() string { return "idle" }
func (Dragging) String() string { return "dragging" }
func (Panning) String() string { return "panning" }
func (BoxSelecting) String() string { return "box-selecting" }
func (ConnectingFrom) String() string { return "connecting" }
func (EditingContent) String() string { return "editing" }
func (Resizing) String() string { return "resizing" }
