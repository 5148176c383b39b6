package board

import (
	"fmt"
	"slices"
)

// The mind-map view reads the board as a forest: a connection is an edge
// from parent (source) to child (target).

const (
	childGapX = 4
	childGapY = 1
)

// Children returns the targets of id's outgoing connections ordered top to
// bottom, then left to right. Parallel edges yield one child.
func (s *Store) Children(id string) []Card {
	seen := make(map[string]struct{})
	var out []Card
	for _, connID := range s.connOrder {
		conn := s.conns[connID]
		if conn.SourceID != id {
			continue
		}
		if _, ok := seen[conn.TargetID]; ok {
			continue
		}
		seen[conn.TargetID] = struct{}{}
		out = append(out, *s.cards[conn.TargetID])
	}
	sortByPosition(out)
	return out
}

// Roots returns the cards with no incoming connection, top to bottom.
func (s *Store) Roots() []Card {
	hasParent := make(map[string]bool)
	for _, conn := range s.conns {
		hasParent[conn.TargetID] = true
	}
	var out []Card
	for _, id := range s.cardOrder {
		if !hasParent[id] {
			out = append(out, *s.cards[id])
		}
	}
	sortByPosition(out)
	return out
}

// Subtree returns id and all its descendants in pre-order. Cycles are cut at
// the first revisit.
func (s *Store) Subtree(id string) []string {
	if _, ok := s.cards[id]; !ok {
		return nil
	}
	visited := make(map[string]bool)
	var out []string
	var walk func(string)
	walk = func(n string) {
		if visited[n] {
			return
		}
		visited[n] = true
		out = append(out, n)
		for _, child := range s.Children(n) {
			walk(child.ID)
		}
	}
	walk(id)
	return out
}

func sortByPosition(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		switch {
		case a.Position.Y < b.Position.Y:
			return -1
		case a.Position.Y > b.Position.Y:
			return 1
		case a.Position.X < b.Position.X:
			return -1
		case a.Position.X > b.Position.X:
			return 1
		}
		return 0
	})
}

// AddChild creates a card to the right of parent, below its last child, and
// connects parent to it. The new card is opened for editing.
func (m *Machine) AddChild(parentID string, kind Kind) (Card, error) {
	if err := m.settle(); err != nil {
		return Card{}, err
	}
	parent, ok := m.store.Card(parentID)
	if !ok {
		return Card{}, fmt.Errorf("%w: card %s", ErrNotFound, parentID)
	}
	at := Point{parent.Position.X + parent.Size.Width + childGapX, parent.Position.Y}
	if children := m.store.Children(parentID); len(children) > 0 {
		last := children[len(children)-1]
		at.Y = last.Position.Y + last.Size.Height + childGapY
	}
	child, err := m.store.CreateCard(kind, at, m.cardSize, "")
	if err != nil {
		return Card{}, err
	}
	if _, err := m.store.CreateConnection(parentID, child.ID); err != nil {
		m.swallow("delete orphan child", m.store.DeleteCard(child.ID))
		return Card{}, err
	}
	m.beginEdit(child)
	child, _ = m.store.Card(child.ID)
	return child, nil
}

// DeleteSubtree removes a card and every descendant.
func (m *Machine) DeleteSubtree(id string) (int, error) {
	if err := m.settle(); err != nil {
		return 0, err
	}
	ids := m.store.Subtree(id)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: card %s", ErrNotFound, id)
	}
	for _, n := range ids {
		m.swallow("delete subtree", m.store.DeleteCard(n))
	}
	return len(ids), nil
}
