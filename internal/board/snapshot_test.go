package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBoard(t *testing.T) *Store {
	t.Helper()
	s := newTestStore()
	a := mustCard(t, s, 0, 0, 10, 4)
	b := mustCard(t, s, 20, 0, 10, 4)
	_, err := s.CreateConnection(a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.CreateGroup("pair", []string{a.ID, b.ID})
	require.NoError(t, err)
	return s
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	src := sampleBoard(t)
	snap := src.Snapshot()

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	dst := NewStore(nil)
	require.NoError(t, dst.Restore(decoded))
	assert.Equal(t, snap, dst.Snapshot())
}

func TestSnapshotDropsEditingFlag(t *testing.T) {
	s := newTestStore()
	c := mustCard(t, s, 0, 0, 10, 4)
	editing := true
	require.NoError(t, s.UpdateCard(c.ID, CardPatch{Editing: &editing}))

	snap := s.Snapshot()
	require.Len(t, snap.Cards, 1)
	assert.False(t, snap.Cards[0].Editing)

	live, _ := s.Card(c.ID)
	assert.True(t, live.Editing, "the store itself is unchanged")
}

func TestRestoreRejectsInvalid(t *testing.T) {
	card := func(id string) Card {
		return Card{ID: id, Kind: KindText, Size: Size{4, 4}}
	}
	tests := []struct {
		name string
		snap Snapshot
		want error
	}{
		{"duplicate id", Snapshot{Cards: []Card{card("a"), card("a")}}, ErrIDCollision},
		{"empty id", Snapshot{Cards: []Card{card("")}}, ErrIDCollision},
		{"bad kind", Snapshot{Cards: []Card{{ID: "a", Kind: "video", Size: Size{4, 4}}}}, ErrInvalidKind},
		{"bad size", Snapshot{Cards: []Card{{ID: "a", Kind: KindNote}}}, ErrInvalidGeometry},
		{"dangling endpoint", Snapshot{
			Cards:       []Card{card("a")},
			Connections: []Connection{{ID: "c", SourceID: "a", TargetID: "b"}},
		}, ErrInvalidEndpoint},
		{"self loop", Snapshot{
			Cards:       []Card{card("a")},
			Connections: []Connection{{ID: "c", SourceID: "a", TargetID: "a"}},
		}, ErrSelfLoop},
		{"missing member", Snapshot{
			Cards:  []Card{card("a")},
			Groups: []Group{{ID: "g", Members: []string{"a", "b"}}},
		}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleBoard(t)
			before := s.Snapshot()

			err := s.Restore(tt.snap)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, s.Snapshot(), "store left untouched")
		})
	}
}

func TestRestoreNotifiesVanished(t *testing.T) {
	s := sampleBoard(t)
	sel := NewSelection()
	sel.Track(s)
	sel.SelectExact(s.refs()...)

	keep := Card{ID: "id-1", Kind: KindText, Size: Size{10, 4}}
	require.NoError(t, s.Restore(Snapshot{Cards: []Card{keep}}))

	assert.Equal(t, []string{"id-1"}, sel.Cards())
	assert.Empty(t, sel.Connections())
	assert.Empty(t, sel.Groups())
}

func TestRestoreRecomputesGroupFrame(t *testing.T) {
	s := NewStore(nil)
	snap := Snapshot{
		Cards: []Card{{ID: "a", Kind: KindText, Position: Point{10, 10}, Size: Size{10, 5}}},
		Groups: []Group{{
			ID:       "g",
			Name:     "stale",
			Members:  []string{"a", "a"},
			Position: Point{999, 999},
			Size:     Size{1, 1},
		}},
	}
	require.NoError(t, s.Restore(snap))

	g, ok := s.Group("g")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, g.Members)
	assert.Equal(t, Point{9, 8}, g.Position)
	assert.Equal(t, Size{12, 8}, g.Size)
}

func TestRestoredIDsAreNotReissued(t *testing.T) {
	s := NewStore(func() string { return "taken" })
	require.NoError(t, s.Restore(Snapshot{Cards: []Card{{ID: "taken", Kind: KindText, Size: Size{4, 4}}}}))

	_, err := s.CreateCard(KindText, Point{}, Size{4, 4}, "")
	assert.ErrorIs(t, err, ErrIDCollision)
}
