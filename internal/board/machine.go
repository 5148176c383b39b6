package board

import (
	"math"

	"go.uber.org/zap"
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

type PointerEvent struct {
	Screen Point
	Button Button
	Mods   Modifiers
}

type Key int

const (
	KeyOther Key = iota
	KeyDelete
	KeyBackspace
	KeyEscape
	KeyCommit
)

type KeyEvent struct {
	Key  Key
	Mods Modifiers
	// InTextField is set by hosts when the key was typed into a text input
	// that sits outside the canvas.
	InTextField bool
}

// WheelEvent deltas are in wheel notches; negative Y scrolls up.
type WheelEvent struct {
	Screen Point
	DeltaX float64
	DeltaY float64
	Mods   Modifiers
}

const (
	defaultConnectionTolerance = 1.0
	defaultWheelPanStep        = 3.0
	handleSize                 = 1.0
)

var (
	DefaultCardSize = Size{Width: 16, Height: 4}
	MinCardSize     = Size{Width: 4, Height: 3}
)

// SaveFunc receives the board content on an explicit save.
type SaveFunc func(Snapshot) error

type Option func(*Machine) error

func WithLogger(log *zap.Logger) Option {
	return func(m *Machine) error {
		m.log = log
		return nil
	}
}

func WithZoomRange(lo, hi float64) Option {
	return func(m *Machine) error {
		if lo <= 0 || hi < lo {
			return ErrInvalidGeometry
		}
		m.zoomMin, m.zoomMax = lo, hi
		return nil
	}
}

func WithZoomStep(step float64) Option {
	return func(m *Machine) error {
		if step <= 1 {
			return ErrInvalidGeometry
		}
		m.zoomStep = step
		return nil
	}
}

func WithIDSource(ids IDSource) Option {
	return func(m *Machine) error {
		m.ids = ids
		return nil
	}
}

func WithOrigin(origin Point) Option {
	return func(m *Machine) error {
		m.view.Origin = origin
		return nil
	}
}

func WithCardSize(def, minimum Size) Option {
	return func(m *Machine) error {
		if !def.Valid() || !minimum.Valid() {
			return ErrInvalidGeometry
		}
		m.cardSize, m.minCardSize = def, minimum
		return nil
	}
}

// WithInitialData seeds the store.
func WithInitialData(snap Snapshot) Option {
	return func(m *Machine) error {
		m.initial = &snap
		return nil
	}
}

func WithSaveHandler(fn SaveFunc) Option {
	return func(m *Machine) error {
		m.onSave = fn
		return nil
	}
}

// Machine interprets pointer and keyboard events against the current mode and
// applies them to the store, selection and viewport. It is not safe for
// concurrent use; hosts deliver one event at a time.
type Machine struct {
	store *Store
	sel   *Selection
	mode  Mode
	view  Viewport

	zoomMin, zoomMax, zoomStep float64
	cardSize, minCardSize      Size
	ids                        IDSource
	initial                    *Snapshot
	onSave                     SaveFunc
	log                        *zap.Logger
}

func New(opts ...Option) (*Machine, error) {
	m := &Machine{
		mode:        Idle{},
		view:        DefaultViewport(),
		zoomMin:     DefaultZoomMin,
		zoomMax:     DefaultZoomMax,
		zoomStep:    DefaultZoomStep,
		cardSize:    DefaultCardSize,
		minCardSize: MinCardSize,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.store = NewStore(m.ids)
	m.sel = NewSelection()
	m.sel.Track(m.store)
	if m.initial != nil {
		if err := m.store.Restore(*m.initial); err != nil {
			return nil, err
		}
		m.initial = nil
	}
	return m, nil
}

// Store exposes the entity store for queries. Hosts must mutate the board
// only through Machine methods.
func (m *Machine) Store() *Store { return m.store }
func (m *Machine) Selection() *Selection { return m.sel }
func (m *Machine) Mode() Mode { return m.mode }
func (m *Machine) Viewport() Viewport { return m.view }

func (m *Machine) OnSave(fn SaveFunc) { m.onSave = fn }

// SetOrigin moves the canvas on screen, e.g. when host chrome appears.
func (m *Machine) SetOrigin(origin Point) { m.view.Origin = origin }

func (m *Machine) Scene() Scene {
	return Project(m.store, m.sel, m.mode, m.view)
}

func (m *Machine) setMode(next Mode) {
	if m.mode.String() != next.String() {
		m.log.Debug("mode transition",
			zap.Stringer("from", m.mode),
			zap.Stringer("to", next))
	}
	m.mode = next
}

func (m *Machine) swallow(op string, err error) {
	if err != nil {
		m.log.Debug("store operation ignored", zap.String("op", op), zap.Error(err))
	}
}

// CardHandle is the connection handle on the middle of a card's right edge.
func CardHandle(c Card) Rect {
	corner := Point{c.Position.X + c.Size.Width - handleSize, c.Position.Y + c.Size.Height/2 - handleSize/2}
	return Rect{Min: corner, Max: corner.Add(Point{handleSize, handleSize})}
}

// CardGrip is the resize grip in a card's bottom-right corner.
func CardGrip(c Card) Rect {
	corner := Point{c.Position.X + c.Size.Width - handleSize, c.Position.Y + c.Size.Height - handleSize}
	return Rect{Min: corner, Max: corner.Add(Point{handleSize, handleSize})}
}

func isPanTrigger(ev PointerEvent) bool {
	return ev.Button == ButtonMiddle || (ev.Button == ButtonPrimary && ev.Mods.Alt)
}

func (m *Machine) PointerDown(ev PointerEvent) {
	switch m.mode.(type) {
	case EditingContent:
		m.Blur()
		return
	case Idle:
	default:
		return
	}

	if isPanTrigger(ev) {
		m.setMode(Panning{Origin: ev.Screen, Previous: ev.Screen})
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	p := m.view.ToCanvas(ev.Screen)
	additive := ev.Mods.Shift

	if card, ok := m.store.FindCardAt(p); ok {
		switch {
		case CardHandle(card).Contains(p):
			m.setMode(ConnectingFrom{SourceID: card.ID, Current: card.Center()})
		case CardGrip(card).Contains(p):
			m.sel.SelectExact(CardRef(card.ID))
			m.setMode(Resizing{CardID: card.ID, Previous: ev.Screen})
		default:
			ref := CardRef(card.ID)
			if additive {
				m.sel.SelectAdditive(ref)
			} else if !m.sel.Has(ref) {
				m.sel.SelectExact(ref)
			}
			m.startDrag(ev.Screen)
		}
		return
	}

	if conn, ok := m.store.FindConnectionAt(p, defaultConnectionTolerance/m.view.Zoom); ok {
		if additive {
			m.sel.SelectAdditive(ConnectionRef(conn.ID))
		} else {
			m.sel.SelectExact(ConnectionRef(conn.ID))
		}
		return
	}

	if group, ok := m.store.FindGroupAt(p); ok {
		ref := GroupRef(group.ID)
		if additive {
			m.sel.SelectAdditive(ref)
		} else if !m.sel.Has(ref) {
			m.sel.SelectExact(ref)
		}
		m.startDrag(ev.Screen)
		return
	}

	var base []Ref
	if additive {
		base = m.sel.Refs()
	} else {
		m.sel.Clear()
	}
	m.setMode(BoxSelecting{Anchor: p, Current: p, Base: base})
}

// startDrag collects the selected cards plus the members of selected groups.
func (m *Machine) startDrag(screen Point) {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, id := range m.sel.Cards() {
		add(id)
	}
	for _, gid := range m.sel.Groups() {
		if g, ok := m.store.Group(gid); ok {
			for _, member := range g.Members {
				add(member)
			}
		}
	}
	m.setMode(Dragging{IDs: ids, Origin: screen, Previous: screen})
}

func (m *Machine) PointerMove(ev PointerEvent) {
	switch mode := m.mode.(type) {
	case BoxSelecting:
		mode.Current = m.view.ToCanvas(ev.Screen)
		refs := append(append([]Ref(nil), mode.Base...), BoxMembership(mode.Anchor, mode.Current, m.store.Cards())...)
		m.sel.SelectExact(refs...)
		m.mode = mode
	case Dragging:
		delta := ev.Screen.Sub(mode.Previous).Scale(1 / m.view.Zoom)
		for _, id := range mode.IDs {
			m.swallow("move card", m.store.MoveCard(id, delta))
		}
		mode.Previous = ev.Screen
		m.mode = mode
	case Panning:
		m.view.Pan = m.view.Pan.Add(ev.Screen.Sub(mode.Previous))
		mode.Previous = ev.Screen
		m.mode = mode
	case ConnectingFrom:
		mode.Current = m.view.ToCanvas(ev.Screen)
		m.mode = mode
	case Resizing:
		delta := ev.Screen.Sub(mode.Previous).Scale(1 / m.view.Zoom)
		if card, ok := m.store.Card(mode.CardID); ok {
			size := Size{
				Width:  math.Max(m.minCardSize.Width, card.Size.Width+delta.X),
				Height: math.Max(m.minCardSize.Height, card.Size.Height+delta.Y),
			}
			m.swallow("resize card", m.store.UpdateCard(mode.CardID, CardPatch{Size: &size}))
		}
		mode.Previous = ev.Screen
		m.mode = mode
	}
}

func (m *Machine) PointerUp(ev PointerEvent) {
	switch mode := m.mode.(type) {
	case BoxSelecting, Dragging, Panning, Resizing:
		m.setMode(Idle{})
	case ConnectingFrom:
		p := m.view.ToCanvas(ev.Screen)
		if target, ok := m.store.FindCardAt(p); ok && target.ID != mode.SourceID {
			conn, err := m.store.CreateConnection(mode.SourceID, target.ID)
			if err == nil {
				m.log.Debug("connection created",
					zap.String("connection", conn.ID),
					zap.String("source", conn.SourceID),
					zap.String("target", conn.TargetID))
			}
			m.swallow("create connection", err)
		}
		m.setMode(Idle{})
	}
}

func (m *Machine) DoubleClick(ev PointerEvent) {
	if _, ok := m.mode.(Idle); !ok {
		return
	}
	if card, ok := m.store.FindCardAt(m.view.ToCanvas(ev.Screen)); ok {
		m.beginEdit(card)
	}
}

func (m *Machine) beginEdit(card Card) {
	editing := true
	m.swallow("begin edit", m.store.UpdateCard(card.ID, CardPatch{Editing: &editing}))
	m.sel.SelectExact(CardRef(card.ID))
	m.setMode(EditingContent{CardID: card.ID, Original: card.Content})
}

// Blur ends an edit in progress, keeping the typed content.
func (m *Machine) Blur() {
	if mode, ok := m.mode.(EditingContent); ok {
		m.finishEdit(mode, nil)
	}
}

func (m *Machine) finishEdit(mode EditingContent, restore *string) {
	editing := false
	m.swallow("finish edit", m.store.UpdateCard(mode.CardID, CardPatch{Content: restore, Editing: &editing}))
	m.setMode(Idle{})
}

func (m *Machine) Key(ev KeyEvent) {
	switch ev.Key {
	case KeyEscape:
		switch mode := m.mode.(type) {
		case ConnectingFrom:
			m.setMode(Idle{})
		case EditingContent:
			m.finishEdit(mode, &mode.Original)
		}
	case KeyCommit:
		m.Blur()
	case KeyDelete, KeyBackspace:
		if _, editing := m.mode.(EditingContent); editing || ev.InTextField {
			return
		}
		if m.sel.Empty() {
			return
		}
		m.deleteSelected()
		m.setMode(Idle{})
	}
}

func (m *Machine) deleteSelected() int {
	refs := m.sel.Refs()
	n := 0
	for _, ref := range refs {
		if !m.store.Exists(ref) {
			continue
		}
		var err error
		switch ref.Kind {
		case EntityCard:
			err = m.store.DeleteCard(ref.ID)
		case EntityConnection:
			err = m.store.DeleteConnection(ref.ID)
		case EntityGroup:
			err = m.store.DeleteGroup(ref.ID)
		}
		if err == nil {
			n++
		}
		m.swallow("delete "+ref.Kind.String(), err)
	}
	m.sel.Clear()
	return n
}

func (m *Machine) Wheel(ev WheelEvent) {
	if ev.Mods.Ctrl || ev.Mods.Meta {
		switch {
		case ev.DeltaY < 0:
			m.ZoomIn()
		case ev.DeltaY > 0:
			m.ZoomOut()
		}
		return
	}
	if _, ok := m.mode.(Idle); !ok {
		return
	}
	dx, dy := ev.DeltaX, ev.DeltaY
	if ev.Mods.Shift {
		dx, dy = dy, dx
	}
	m.view.Pan = m.view.Pan.Sub(Point{dx * defaultWheelPanStep, dy * defaultWheelPanStep})
}
