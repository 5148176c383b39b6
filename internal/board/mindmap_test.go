package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, s *Store, from, to Card) {
	t.Helper()
	_, err := s.CreateConnection(from.ID, to.ID)
	require.NoError(t, err)
}

func ids(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestChildrenOrderedByPosition(t *testing.T) {
	s := newTestStore()
	root := mustCard(t, s, 0, 0, 10, 4)
	low := mustCard(t, s, 20, 10, 10, 4)
	high := mustCard(t, s, 20, 0, 10, 4)
	connect(t, s, root, low)
	connect(t, s, root, high)
	connect(t, s, root, high)

	assert.Equal(t, []string{high.ID, low.ID}, ids(s.Children(root.ID)))
	assert.Empty(t, s.Children(low.ID))
}

func TestRootsAndSubtree(t *testing.T) {
	s := newTestStore()
	a := mustCard(t, s, 0, 0, 10, 4)
	b := mustCard(t, s, 20, 0, 10, 4)
	c := mustCard(t, s, 40, 0, 10, 4)
	lone := mustCard(t, s, 0, 20, 10, 4)
	connect(t, s, a, b)
	connect(t, s, b, c)

	assert.Equal(t, []string{a.ID, lone.ID}, ids(s.Roots()))
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, s.Subtree(a.ID))
	assert.Nil(t, s.Subtree("ghost"))
}

func TestSubtreeSurvivesCycles(t *testing.T) {
	s := newTestStore()
	a := mustCard(t, s, 0, 0, 10, 4)
	b := mustCard(t, s, 20, 0, 10, 4)
	connect(t, s, a, b)
	connect(t, s, b, a)

	assert.Equal(t, []string{a.ID, b.ID}, s.Subtree(a.ID))
	assert.Empty(t, s.Roots())
}

func TestAddChildLayout(t *testing.T) {
	m := newTestMachine(t)
	parent := placeCard(t, m, 0, 0, 16, 4)

	first, err := m.AddChild(parent.ID, KindNote)
	require.NoError(t, err)
	assert.Equal(t, Point{20, 0}, first.Position)
	assert.True(t, first.Editing)
	assert.IsType(t, EditingContent{}, m.Mode())

	second, err := m.AddChild(parent.ID, KindText)
	require.NoError(t, err)
	assert.Equal(t, Point{20, 5}, second.Position)

	got, _ := m.Store().Card(first.ID)
	assert.False(t, got.Editing, "adding a sibling commits the previous edit")
	assert.Equal(t, []string{first.ID, second.ID}, ids(m.Store().Children(parent.ID)))
}

func TestAddChildErrors(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.AddChild("ghost", KindText)
	assert.ErrorIs(t, err, ErrNotFound)

	parent := placeCard(t, m, 0, 0, 16, 4)
	_, err = m.AddChild(parent.ID, "video")
	assert.ErrorIs(t, err, ErrInvalidKind)

	m.PointerDown(press(1, 1))
	_, err = m.AddChild(parent.ID, KindText)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestDeleteSubtree(t *testing.T) {
	m := newTestMachine(t)
	s := m.Store()
	a := placeCard(t, m, 0, 0, 10, 4)
	b := placeCard(t, m, 20, 0, 10, 4)
	c := placeCard(t, m, 40, 0, 10, 4)
	other := placeCard(t, m, 0, 20, 10, 4)
	connect(t, s, a, b)
	connect(t, s, b, c)
	connect(t, s, other, a)

	n, err := m.DeleteSubtree(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cards, conns, _ := s.Len()
	assert.Equal(t, 2, cards)
	assert.Equal(t, 1, conns)

	_, err = m.DeleteSubtree(b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
