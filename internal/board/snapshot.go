package board

import (
	"fmt"
	"slices"
)

// Snapshot is the serialisable content of a board. Viewport, selection and
// editing state are never part of it.
type Snapshot struct {
	Cards       []Card       `json:"cards"`
	Connections []Connection `json:"connections"`
	Groups      []Group      `json:"groups"`
}

func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Cards:       s.Cards(),
		Connections: s.Connections(),
		Groups:      s.Groups(),
	}
	for i := range snap.Cards {
		snap.Cards[i].Editing = false
	}
	return snap
}

// Restore replaces the store content with snap. The snapshot is validated as
// a whole first; on error the store is left untouched.
func (s *Store) Restore(snap Snapshot) error {
	next := NewStore(s.newID)
	for _, c := range snap.Cards {
		if err := next.claim(c.ID); err != nil {
			return err
		}
		if !c.Kind.Valid() {
			return fmt.Errorf("%w: card %s has kind %q", ErrInvalidKind, c.ID, c.Kind)
		}
		if !c.Size.Valid() {
			return fmt.Errorf("%w: card %s size %gx%g", ErrInvalidGeometry, c.ID, c.Size.Width, c.Size.Height)
		}
		card := c
		card.Editing = false
		next.cards[c.ID] = &card
		next.cardOrder = append(next.cardOrder, c.ID)
	}
	for _, c := range snap.Connections {
		if err := next.claim(c.ID); err != nil {
			return err
		}
		if _, ok := next.cards[c.SourceID]; !ok {
			return fmt.Errorf("%w: connection %s source %s", ErrInvalidEndpoint, c.ID, c.SourceID)
		}
		if _, ok := next.cards[c.TargetID]; !ok {
			return fmt.Errorf("%w: connection %s target %s", ErrInvalidEndpoint, c.ID, c.TargetID)
		}
		if c.SourceID == c.TargetID {
			return fmt.Errorf("%w: connection %s", ErrSelfLoop, c.ID)
		}
		conn := c
		next.conns[c.ID] = &conn
		next.connOrder = append(next.connOrder, c.ID)
	}
	for _, g := range snap.Groups {
		if err := next.claim(g.ID); err != nil {
			return err
		}
		for _, m := range g.Members {
			if _, ok := next.cards[m]; !ok {
				return fmt.Errorf("%w: group %s member %s", ErrNotFound, g.ID, m)
			}
		}
		group := g
		group.Members = dedupe(slices.Clone(g.Members))
		next.refreshGroup(&group)
		next.groups[g.ID] = &group
		next.groupOrder = append(next.groupOrder, g.ID)
	}

	previous := s.refs()
	s.cards, s.cardOrder = next.cards, next.cardOrder
	s.conns, s.connOrder = next.conns, next.connOrder
	s.groups, s.groupOrder = next.groups, next.groupOrder
	for id := range next.issued {
		s.issued[id] = struct{}{}
	}
	for _, ref := range previous {
		if !s.Exists(ref) {
			s.notifyDeleted(ref)
		}
	}
	return nil
}

func (s *Store) claim(id string) error {
	if _, dup := s.issued[id]; dup || id == "" {
		return fmt.Errorf("%w: %q", ErrIDCollision, id)
	}
	s.issued[id] = struct{}{}
	return nil
}

func (s *Store) refs() []Ref {
	refs := make([]Ref, 0, len(s.cardOrder)+len(s.connOrder)+len(s.groupOrder))
	for _, id := range s.cardOrder {
		refs = append(refs, CardRef(id))
	}
	for _, id := range s.connOrder {
		refs = append(refs, ConnectionRef(id))
	}
	for _, id := range s.groupOrder {
		refs = append(refs, GroupRef(id))
	}
	return refs
}
