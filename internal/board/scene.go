package board

import (
	"net/url"
	"path"
	"strings"
)

// Scene is a drawable projection of a board in screen space. Painters draw
// groups first, then connections, then cards, then the overlays.
type Scene struct {
	Zoom        float64
	Groups      []GroupShape
	Connections []LineShape
	Cards       []CardShape
	Preview     *LineShape
	RubberBand  *Rect
}

type CardShape struct {
	ID       string
	Kind     Kind
	Badge    string
	Lines    []string
	Rect     Rect
	Handle   Rect
	Grip     Rect
	Color    string
	Selected bool
	Editing  bool
}

// LineShape runs from the centre of Source to the centre of Target. Preview
// lines have no ID or Target.
type LineShape struct {
	ID       string
	Source   string
	Target   string
	From     Point
	To       Point
	Label    string
	Color    string
	Selected bool
}

type GroupShape struct {
	ID       string
	Name     string
	Rect     Rect
	Color    string
	Selected bool
}

// Project maps board state to a Scene. It reads but never mutates.
func Project(store *Store, sel *Selection, mode Mode, view Viewport) Scene {
	scene := Scene{Zoom: view.Zoom}

	for _, g := range store.Groups() {
		scene.Groups = append(scene.Groups, GroupShape{
			ID:       g.ID,
			Name:     g.Name,
			Rect:     view.RectToScreen(g.Bounds()),
			Color:    g.Color,
			Selected: sel.Has(GroupRef(g.ID)),
		})
	}

	for _, conn := range store.Connections() {
		src, ok1 := store.Card(conn.SourceID)
		dst, ok2 := store.Card(conn.TargetID)
		if !ok1 || !ok2 {
			continue
		}
		scene.Connections = append(scene.Connections, LineShape{
			ID:       conn.ID,
			Source:   conn.SourceID,
			Target:   conn.TargetID,
			From:     view.ToScreen(src.Center()),
			To:       view.ToScreen(dst.Center()),
			Label:    conn.Label,
			Color:    conn.Color,
			Selected: sel.Has(ConnectionRef(conn.ID)),
		})
	}

	for _, c := range store.Cards() {
		badge, text := cardFace(c)
		if c.Editing {
			text = c.Content
		}
		scene.Cards = append(scene.Cards, CardShape{
			ID:       c.ID,
			Kind:     c.Kind,
			Badge:    badge,
			Lines:    strings.Split(text, "\n"),
			Rect:     view.RectToScreen(c.Bounds()),
			Handle:   view.RectToScreen(CardHandle(c)),
			Grip:     view.RectToScreen(CardGrip(c)),
			Color:    c.Color,
			Selected: sel.HasCard(c.ID),
			Editing:  c.Editing,
		})
	}

	switch mode := mode.(type) {
	case ConnectingFrom:
		if src, ok := store.Card(mode.SourceID); ok {
			scene.Preview = &LineShape{
				From: view.ToScreen(src.Center()),
				To:   view.ToScreen(mode.Current),
			}
		}
	case BoxSelecting:
		band := view.RectToScreen(NormalizeRect(mode.Anchor, mode.Current))
		scene.RubberBand = &band
	}
	return scene
}

// cardFace returns the badge and display text for a card's kind.
func cardFace(c Card) (badge, text string) {
	switch c.Kind {
	case KindText:
		return "", c.Content
	case KindNote:
		return "✎ ", c.Content
	case KindImage:
		return "[img] ", resourceName(c.Content)
	case KindWebpage:
		return "[www] ", pageHost(c.Content)
	case KindFile:
		return "[file] ", resourceName(c.Content)
	}
	return "", c.Content
}

func resourceName(ref string) string {
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(ref)
}

func pageHost(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ref
	}
	return u.Host + strings.TrimSuffix(u.Path, "/")
}
