package board

import (
	"slices"
)

// Selection holds ids of selected entities. It never owns the entities
// themselves; the store prunes it through a delete listener.
type Selection struct {
	sets map[EntityKind]map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{sets: map[EntityKind]map[string]struct{}{
		EntityCard:       {},
		EntityConnection: {},
		EntityGroup:      {},
	}}
}

// Track subscribes the selection to deletions in store.
func (s *Selection) Track(store *Store) {
	store.OnDelete(s.Forget)
}

func (s *Selection) SelectExact(refs ...Ref) {
	s.Clear()
	s.SelectAdditive(refs...)
}

func (s *Selection) SelectAdditive(refs ...Ref) {
	for _, ref := range refs {
		if set, ok := s.sets[ref.Kind]; ok {
			set[ref.ID] = struct{}{}
		}
	}
}

func (s *Selection) Clear() {
	for _, set := range s.sets {
		clear(set)
	}
}

func (s *Selection) Forget(ref Ref) {
	delete(s.sets[ref.Kind], ref.ID)
}

func (s *Selection) Has(ref Ref) bool {
	_, ok := s.sets[ref.Kind][ref.ID]
	return ok
}

func (s *Selection) HasCard(id string) bool { return s.Has(CardRef(id)) }

func (s *Selection) Empty() bool {
	for _, set := range s.sets {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

func (s *Selection) ids(kind EntityKind) []string {
	var ids []string
	for id := range s.sets[kind] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Cards returns the selected card ids, sorted.
func (s *Selection) Cards() []string { return s.ids(EntityCard) }
func (s *Selection) Connections() []string { return s.ids(EntityConnection) }
func (s *Selection) Groups() []string { return s.ids(EntityGroup) }

// Refs returns every selected entity.
func (s *Selection) Refs() []Ref {
	var refs []Ref
	for _, kind := range []EntityKind{EntityCard, EntityConnection, EntityGroup} {
		for _, id := range s.ids(kind) {
			refs = append(refs, Ref{Kind: kind, ID: id})
		}
	}
	return refs
}

// BoxMembership returns the cards lying entirely inside the box spanned by
// start and end. A card that only overlaps the box is not a member.
func BoxMembership(start, end Point, cards []Card) []Ref {
	box := NormalizeRect(start, end)
	var refs []Ref
	for _, c := range cards {
		if box.ContainsRect(c.Bounds()) {
			refs = append(refs, CardRef(c.ID))
		}
	}
	return refs
}
