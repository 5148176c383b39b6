package board

import (
	"fmt"

	"go.uber.org/zap"
)

// busy reports whether a pointer gesture is in progress. Commands issued from
// a toolbar never interrupt one.
func (m *Machine) busy() bool {
	switch m.mode.(type) {
	case Idle, EditingContent:
		return false
	}
	return true
}

// settle commits a pending edit so a command can run from Idle.
func (m *Machine) settle() error {
	if m.busy() {
		return ErrBusy
	}
	m.Blur()
	return nil
}

// AddCard creates an empty card at the canvas point and starts editing it.
func (m *Machine) AddCard(kind Kind, at Point) (Card, error) {
	if err := m.settle(); err != nil {
		return Card{}, err
	}
	card, err := m.store.CreateCard(kind, at, m.cardSize, "")
	if err != nil {
		return Card{}, err
	}
	m.log.Debug("card added", zap.String("card", card.ID), zap.String("kind", string(kind)))
	m.beginEdit(card)
	card, _ = m.store.Card(card.ID)
	return card, nil
}

// PlaceCard creates a card with content already filled in, e.g. from a paste.
// The new card becomes the selection.
func (m *Machine) PlaceCard(kind Kind, at Point, content string) (Card, error) {
	if err := m.settle(); err != nil {
		return Card{}, err
	}
	card, err := m.store.CreateCard(kind, at, m.cardSize, content)
	if err != nil {
		return Card{}, err
	}
	m.sel.SelectExact(CardRef(card.ID))
	return card, nil
}

// DeleteSelection removes every selected entity, cascading from cards, and
// returns how many were deleted.
func (m *Machine) DeleteSelection() (int, error) {
	if _, editing := m.mode.(EditingContent); editing {
		return 0, ErrBusy
	}
	if m.sel.Empty() {
		return 0, nil
	}
	n := m.deleteSelected()
	m.setMode(Idle{})
	return n, nil
}

// SetColor recolours a card, connection or group. An empty color restores
// the default.
func (m *Machine) SetColor(targetID, color string) error {
	switch {
	case m.store.Exists(CardRef(targetID)):
		return m.store.UpdateCard(targetID, CardPatch{Color: &color})
	case m.store.Exists(ConnectionRef(targetID)):
		return m.store.UpdateConnection(targetID, ConnectionPatch{Color: &color})
	case m.store.Exists(GroupRef(targetID)):
		return m.store.UpdateGroup(targetID, GroupPatch{Color: &color})
	}
	return fmt.Errorf("%w: %s", ErrNotFound, targetID)
}

// SetSelectionColor recolours everything selected.
func (m *Machine) SetSelectionColor(color string) {
	for _, ref := range m.sel.Refs() {
		m.swallow("set color", m.SetColor(ref.ID, color))
	}
}

func (m *Machine) SetLabel(connectionID, label string) error {
	return m.store.UpdateConnection(connectionID, ConnectionPatch{Label: &label})
}

func (m *Machine) ZoomIn() { m.setZoom(m.view.Zoom * m.zoomStep) }
func (m *Machine) ZoomOut() { m.setZoom(m.view.Zoom / m.zoomStep) }

func (m *Machine) setZoom(z float64) {
	m.view.Zoom = ClampZoom(z, m.zoomMin, m.zoomMax)
}

// ResetView restores zoom 1 and no pan. The canvas origin is kept.
func (m *Machine) ResetView() {
	m.view.Zoom = ClampZoom(1, m.zoomMin, m.zoomMax)
	m.view.Pan = Point{}
}

// PanBy shifts the viewport by a screen-space delta.
func (m *Machine) PanBy(delta Point) {
	m.view.Pan = m.view.Pan.Add(delta)
}

// BeginConnection starts a connection from a card without a pointer gesture.
// The connection completes on the next PointerUp.
func (m *Machine) BeginConnection(cardID string) error {
	if _, ok := m.mode.(Idle); !ok {
		return ErrBusy
	}
	card, ok := m.store.Card(cardID)
	if !ok {
		return fmt.Errorf("%w: card %s", ErrNotFound, cardID)
	}
	m.setMode(ConnectingFrom{SourceID: card.ID, Current: card.Center()})
	return nil
}

func (m *Machine) BeginEdit(cardID string) error {
	if _, ok := m.mode.(Idle); !ok {
		return ErrBusy
	}
	card, ok := m.store.Card(cardID)
	if !ok {
		return fmt.Errorf("%w: card %s", ErrNotFound, cardID)
	}
	m.beginEdit(card)
	return nil
}

// EditDraft replaces the content of the card being edited.
func (m *Machine) EditDraft(content string) error {
	mode, ok := m.mode.(EditingContent)
	if !ok {
		return ErrBusy
	}
	return m.store.UpdateCard(mode.CardID, CardPatch{Content: &content})
}

func (m *Machine) CommitEdit() { m.Key(KeyEvent{Key: KeyCommit}) }
func (m *Machine) CancelEdit() { m.Key(KeyEvent{Key: KeyEscape}) }

// GroupSelection clusters the selected cards into a new group.
func (m *Machine) GroupSelection(name string) (Group, error) {
	if err := m.settle(); err != nil {
		return Group{}, err
	}
	cards := m.sel.Cards()
	if len(cards) == 0 {
		return Group{}, fmt.Errorf("%w: no cards selected", ErrNotFound)
	}
	g, err := m.store.CreateGroup(name, cards)
	if err != nil {
		return Group{}, err
	}
	m.sel.SelectExact(GroupRef(g.ID))
	return g, nil
}

// Save hands a snapshot to the save handler. It returns ErrBusy unless the
// machine is idle.
func (m *Machine) Save() error {
	if _, ok := m.mode.(Idle); !ok {
		return ErrBusy
	}
	if m.onSave == nil {
		return nil
	}
	return m.onSave(m.store.Snapshot())
}

// Load replaces the board content. Ids that vanish are pruned from the
// selection.
func (m *Machine) Load(snap Snapshot) error {
	if _, ok := m.mode.(Idle); !ok {
		return ErrBusy
	}
	return m.store.Restore(snap)
}
