package board

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
)

// groupPadding is the margin kept between a group frame and its members. The
// top margin is one unit larger to leave room for the header.
const groupPadding = 1

// IDSource produces entity ids. It must not return an id twice; the store
// checks and reports ErrIDCollision if it does.
type IDSource func() string

func UUIDSource() string {
	return uuid.New().String()
}

// DeleteListener is called synchronously for every entity the store removes,
// including cascaded removals.
type DeleteListener func(ref Ref)

// Store owns every card, connection and group of a board. It is the single
// writer of those entities; all accessors return copies.
type Store struct {
	cards      map[string]*Card
	cardOrder  []string
	conns      map[string]*Connection
	connOrder  []string
	groups     map[string]*Group
	groupOrder []string

	issued    map[string]struct{}
	newID     IDSource
	listeners []DeleteListener
}

func NewStore(ids IDSource) *Store {
	if ids == nil {
		ids = UUIDSource
	}
	return &Store{
		cards:  make(map[string]*Card),
		conns:  make(map[string]*Connection),
		groups: make(map[string]*Group),
		issued: make(map[string]struct{}),
		newID:  ids,
	}
}

func (s *Store) OnDelete(fn DeleteListener) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notifyDeleted(ref Ref) {
	for _, fn := range s.listeners {
		fn(ref)
	}
}

func (s *Store) issueID() (string, error) {
	id := s.newID()
	if _, dup := s.issued[id]; dup || id == "" {
		return "", fmt.Errorf("%w: %q", ErrIDCollision, id)
	}
	s.issued[id] = struct{}{}
	return id, nil
}

func (s *Store) CreateCard(kind Kind, pos Point, size Size, content string) (Card, error) {
	if !kind.Valid() {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if !size.Valid() {
		return Card{}, fmt.Errorf("%w: size %gx%g", ErrInvalidGeometry, size.Width, size.Height)
	}
	id, err := s.issueID()
	if err != nil {
		return Card{}, err
	}
	card := &Card{
		ID:       id,
		Kind:     kind,
		Content:  content,
		Position: pos,
		Size:     size,
	}
	s.cards[id] = card
	s.cardOrder = append(s.cardOrder, id)
	return *card, nil
}

func (s *Store) Card(id string) (Card, bool) {
	card, ok := s.cards[id]
	if !ok {
		return Card{}, false
	}
	return *card, true
}

// Cards returns every card in insertion order.
func (s *Store) Cards() []Card {
	out := make([]Card, 0, len(s.cardOrder))
	for _, id := range s.cardOrder {
		out = append(out, *s.cards[id])
	}
	return out
}

func (s *Store) UpdateCard(id string, patch CardPatch) error {
	card, ok := s.cards[id]
	if !ok {
		return fmt.Errorf("%w: card %s", ErrNotFound, id)
	}
	if patch.Size != nil && !patch.Size.Valid() {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidGeometry, patch.Size.Width, patch.Size.Height)
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, *patch.Kind)
	}
	if patch.Kind != nil {
		card.Kind = *patch.Kind
	}
	if patch.Content != nil {
		card.Content = *patch.Content
	}
	if patch.Color != nil {
		card.Color = *patch.Color
	}
	if patch.Editing != nil {
		card.Editing = *patch.Editing
	}
	if patch.Position != nil || patch.Size != nil {
		if patch.Position != nil {
			card.Position = *patch.Position
		}
		if patch.Size != nil {
			card.Size = *patch.Size
		}
		s.refreshGroupsOf(id)
	}
	return nil
}

// MoveCard translates a card by delta.
func (s *Store) MoveCard(id string, delta Point) error {
	card, ok := s.cards[id]
	if !ok {
		return fmt.Errorf("%w: card %s", ErrNotFound, id)
	}
	card.Position = card.Position.Add(delta)
	s.refreshGroupsOf(id)
	return nil
}

// DeleteCard removes a card together with every connection touching it and
// its membership in any group.
func (s *Store) DeleteCard(id string) error {
	if _, ok := s.cards[id]; !ok {
		return fmt.Errorf("%w: card %s", ErrNotFound, id)
	}
	for _, connID := range slices.Clone(s.connOrder) {
		conn := s.conns[connID]
		if conn.SourceID == id || conn.TargetID == id {
			s.removeConnection(connID)
		}
	}
	for _, gid := range s.groupOrder {
		g := s.groups[gid]
		if i := slices.Index(g.Members, id); i >= 0 {
			g.Members = slices.Delete(g.Members, i, i+1)
			s.refreshGroup(g)
		}
	}
	delete(s.cards, id)
	s.cardOrder = removeID(s.cardOrder, id)
	s.notifyDeleted(CardRef(id))
	return nil
}

// FindCardAt returns the first card, in insertion order, whose bounds contain
// p. With overlapping cards the oldest one wins.
func (s *Store) FindCardAt(p Point) (Card, bool) {
	for _, id := range s.cardOrder {
		card := s.cards[id]
		if card.Bounds().Contains(p) {
			return *card, true
		}
	}
	return Card{}, false
}

func (s *Store) CreateConnection(sourceID, targetID string) (Connection, error) {
	if _, ok := s.cards[sourceID]; !ok {
		return Connection{}, fmt.Errorf("%w: source %s", ErrInvalidEndpoint, sourceID)
	}
	if _, ok := s.cards[targetID]; !ok {
		return Connection{}, fmt.Errorf("%w: target %s", ErrInvalidEndpoint, targetID)
	}
	if sourceID == targetID {
		return Connection{}, fmt.Errorf("%w: %s", ErrSelfLoop, sourceID)
	}
	id, err := s.issueID()
	if err != nil {
		return Connection{}, err
	}
	conn := &Connection{ID: id, SourceID: sourceID, TargetID: targetID}
	s.conns[id] = conn
	s.connOrder = append(s.connOrder, id)
	return *conn, nil
}

func (s *Store) Connection(id string) (Connection, bool) {
	conn, ok := s.conns[id]
	if !ok {
		return Connection{}, false
	}
	return *conn, true
}

func (s *Store) Connections() []Connection {
	out := make([]Connection, 0, len(s.connOrder))
	for _, id := range s.connOrder {
		out = append(out, *s.conns[id])
	}
	return out
}

// ConnectionsOf returns the connections with the card as either endpoint.
func (s *Store) ConnectionsOf(cardID string) []Connection {
	var out []Connection
	for _, id := range s.connOrder {
		conn := s.conns[id]
		if conn.SourceID == cardID || conn.TargetID == cardID {
			out = append(out, *conn)
		}
	}
	return out
}

func (s *Store) UpdateConnection(id string, patch ConnectionPatch) error {
	conn, ok := s.conns[id]
	if !ok {
		return fmt.Errorf("%w: connection %s", ErrNotFound, id)
	}
	if patch.Label != nil {
		conn.Label = *patch.Label
	}
	if patch.Color != nil {
		conn.Color = *patch.Color
	}
	return nil
}

func (s *Store) DeleteConnection(id string) error {
	if _, ok := s.conns[id]; !ok {
		return fmt.Errorf("%w: connection %s", ErrNotFound, id)
	}
	s.removeConnection(id)
	return nil
}

func (s *Store) removeConnection(id string) {
	delete(s.conns, id)
	s.connOrder = removeID(s.connOrder, id)
	s.notifyDeleted(ConnectionRef(id))
}

// FindConnectionAt returns the connection whose center-to-center segment
// passes closest to p, provided it is within tolerance.
func (s *Store) FindConnectionAt(p Point, tolerance float64) (Connection, bool) {
	best := math.Inf(1)
	var found *Connection
	for _, id := range s.connOrder {
		conn := s.conns[id]
		src, dst := s.cards[conn.SourceID], s.cards[conn.TargetID]
		d := DistanceToSegment(p, src.Center(), dst.Center())
		if d <= tolerance && d < best {
			best = d
			found = conn
		}
	}
	if found == nil {
		return Connection{}, false
	}
	return *found, true
}

// CreateGroup clusters existing cards. The frame is sized around the members.
func (s *Store) CreateGroup(name string, members []string) (Group, error) {
	for _, m := range members {
		if _, ok := s.cards[m]; !ok {
			return Group{}, fmt.Errorf("%w: member card %s", ErrNotFound, m)
		}
	}
	id, err := s.issueID()
	if err != nil {
		return Group{}, err
	}
	g := &Group{ID: id, Name: name, Members: dedupe(members)}
	s.refreshGroup(g)
	s.groups[id] = g
	s.groupOrder = append(s.groupOrder, id)
	return cloneGroup(g), nil
}

func (s *Store) Group(id string) (Group, bool) {
	g, ok := s.groups[id]
	if !ok {
		return Group{}, false
	}
	return cloneGroup(g), true
}

func (s *Store) Groups() []Group {
	out := make([]Group, 0, len(s.groupOrder))
	for _, id := range s.groupOrder {
		out = append(out, cloneGroup(s.groups[id]))
	}
	return out
}

func (s *Store) UpdateGroup(id string, patch GroupPatch) error {
	g, ok := s.groups[id]
	if !ok {
		return fmt.Errorf("%w: group %s", ErrNotFound, id)
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Color != nil {
		g.Color = *patch.Color
	}
	return nil
}

func (s *Store) AddToGroup(groupID, cardID string) error {
	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}
	if _, ok := s.cards[cardID]; !ok {
		return fmt.Errorf("%w: card %s", ErrNotFound, cardID)
	}
	if !g.HasMember(cardID) {
		g.Members = append(g.Members, cardID)
		s.refreshGroup(g)
	}
	return nil
}

func (s *Store) RemoveFromGroup(groupID, cardID string) error {
	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}
	i := slices.Index(g.Members, cardID)
	if i < 0 {
		return fmt.Errorf("%w: card %s in group %s", ErrNotFound, cardID, groupID)
	}
	g.Members = slices.Delete(g.Members, i, i+1)
	s.refreshGroup(g)
	return nil
}

// DeleteGroup removes the group only; member cards stay on the board.
func (s *Store) DeleteGroup(id string) error {
	if _, ok := s.groups[id]; !ok {
		return fmt.Errorf("%w: group %s", ErrNotFound, id)
	}
	delete(s.groups, id)
	s.groupOrder = removeID(s.groupOrder, id)
	s.notifyDeleted(GroupRef(id))
	return nil
}

// FindGroupAt returns the group whose header strip contains p.
func (s *Store) FindGroupAt(p Point) (Group, bool) {
	for _, id := range s.groupOrder {
		g := s.groups[id]
		if g.Header().Contains(p) {
			return cloneGroup(g), true
		}
	}
	return Group{}, false
}

// GroupsOf returns the ids of the groups the card belongs to.
func (s *Store) GroupsOf(cardID string) []string {
	var out []string
	for _, id := range s.groupOrder {
		if s.groups[id].HasMember(cardID) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) refreshGroupsOf(cardID string) {
	for _, id := range s.groupOrder {
		if g := s.groups[id]; g.HasMember(cardID) {
			s.refreshGroup(g)
		}
	}
}

// refreshGroup recomputes the frame around the members. An empty group keeps
// the frame it last had.
func (s *Store) refreshGroup(g *Group) {
	if len(g.Members) == 0 {
		return
	}
	bounds := s.cards[g.Members[0]].Bounds()
	for _, m := range g.Members[1:] {
		bounds = bounds.Union(s.cards[m].Bounds())
	}
	g.Position = Point{bounds.Min.X - groupPadding, bounds.Min.Y - groupPadding - 1}
	g.Size = Size{
		Width:  bounds.Width() + 2*groupPadding,
		Height: bounds.Height() + 2*groupPadding + 1,
	}
}

// Bounds is the smallest rect holding every card and group frame. It reports
// false for an empty board.
func (s *Store) Bounds() (Rect, bool) {
	var out Rect
	found := false
	add := func(r Rect) {
		if !found {
			out, found = r, true
			return
		}
		out = out.Union(r)
	}
	for _, id := range s.cardOrder {
		add(s.cards[id].Bounds())
	}
	for _, id := range s.groupOrder {
		add(s.groups[id].Bounds())
	}
	return out, found
}

func (s *Store) Len() (cards, connections, groups int) {
	return len(s.cardOrder), len(s.connOrder), len(s.groupOrder)
}

func (s *Store) Exists(ref Ref) bool {
	switch ref.Kind {
	case EntityCard:
		_, ok := s.cards[ref.ID]
		return ok
	case EntityConnection:
		_, ok := s.conns[ref.ID]
		return ok
	case EntityGroup:
		_, ok := s.groups[ref.ID]
		return ok
	}
	return false
}

func cloneGroup(g *Group) Group {
	out := *g
	out.Members = slices.Clone(g.Members)
	return out
}

func removeID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
