package board

import "fmt"

type Kind string

const (
	KindText    Kind = "text"
	KindNote    Kind = "note"
	KindImage   Kind = "image"
	KindWebpage Kind = "webpage"
	KindFile    Kind = "file"
)

// Kinds lists every card kind in display order.
var Kinds = []Kind{KindText, KindNote, KindImage, KindWebpage, KindFile}

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNote, KindImage, KindWebpage, KindFile:
		return true
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

type Card struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Content  string `json:"content"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
	Color    string `json:"color,omitempty"`
	Editing  bool   `json:"-"`
}

func (c Card) Bounds() Rect {
	return RectFrom(c.Position, c.Size)
}

func (c Card) Center() Point {
	return c.Bounds().Center()
}

// CardPatch carries the fields of an UpdateCard call; nil fields are left
// unchanged.
type CardPatch struct {
	Kind     *Kind
	Content  *string
	Position *Point
	Size     *Size
	Color    *string
	Editing  *bool
}

type Connection struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Label    string `json:"label,omitempty"`
	Color    string `json:"color,omitempty"`
}

type ConnectionPatch struct {
	Label *string
	Color *string
}

type Group struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Members  []string `json:"members"`
	Position Point    `json:"position"`
	Size     Size     `json:"size"`
	Color    string   `json:"color,omitempty"`
}

func (g Group) Bounds() Rect {
	return RectFrom(g.Position, g.Size)
}

// Header is the strip along the top edge of the group frame that carries its
// name and acts as its grab handle.
func (g Group) Header() Rect {
	return Rect{Min: g.Position, Max: Point{g.Position.X + g.Size.Width, g.Position.Y + 1}}
}

func (g Group) HasMember(id string) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}

type GroupPatch struct {
	Name  *string
	Color *string
}

// EntityKind tags an id with the collection it lives in.
type EntityKind int

const (
	EntityCard EntityKind = iota
	EntityConnection
	EntityGroup
)

func (k EntityKind) String() string {
	switch k {
	case EntityCard:
		return "card"
	case EntityConnection:
		return "connection"
	case EntityGroup:
		return "group"
	default:
		return "unknown"
	}
}

type Ref struct {
	Kind EntityKind
	ID   string
}

func CardRef(id string) Ref { return Ref{Kind: EntityCard, ID: id} }
func ConnectionRef(id string) Ref { return Ref{Kind: EntityConnection, ID: id} }
func GroupRef(id string) Ref { return Ref{Kind: EntityGroup, ID: id} }
