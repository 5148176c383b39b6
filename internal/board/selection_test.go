package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectExactIsIdempotent(t *testing.T) {
	sel := NewSelection()
	refs := []Ref{CardRef("a"), CardRef("b"), ConnectionRef("c")}

	sel.SelectExact(refs...)
	once := sel.Refs()
	sel.SelectExact(refs...)

	assert.Equal(t, once, sel.Refs())
	assert.Equal(t, []string{"a", "b"}, sel.Cards())
	assert.Equal(t, []string{"c"}, sel.Connections())
}

func TestSelectExactReplaces(t *testing.T) {
	sel := NewSelection()
	sel.SelectExact(CardRef("a"), GroupRef("g"))
	sel.SelectExact(CardRef("b"))

	assert.Equal(t, []string{"b"}, sel.Cards())
	assert.Empty(t, sel.Groups())
}

func TestSelectAdditiveUnions(t *testing.T) {
	sel := NewSelection()
	sel.SelectExact(CardRef("a"))
	sel.SelectAdditive(CardRef("b"), CardRef("a"))

	assert.Equal(t, []string{"a", "b"}, sel.Cards())
}

func TestClear(t *testing.T) {
	sel := NewSelection()
	sel.SelectExact(CardRef("a"), ConnectionRef("c"), GroupRef("g"))
	require.False(t, sel.Empty())

	sel.Clear()
	assert.True(t, sel.Empty())
}

func TestBoxMembershipIsStrictContainment(t *testing.T) {
	cards := []Card{
		{ID: "inside", Position: Point{10, 10}, Size: Size{50, 50}},
		{ID: "too-big", Position: Point{10, 10}, Size: Size{200, 200}},
		{ID: "overlap", Position: Point{140, 90}, Size: Size{20, 20}},
		{ID: "edge", Position: Point{0, 0}, Size: Size{150, 100}},
		{ID: "outside", Position: Point{300, 300}, Size: Size{5, 5}},
	}

	got := BoxMembership(Point{0, 0}, Point{150, 100}, cards)
	assert.ElementsMatch(t, []Ref{CardRef("inside"), CardRef("edge")}, got)
}

func TestBoxMembershipAnyDirection(t *testing.T) {
	cards := []Card{{ID: "a", Position: Point{10, 10}, Size: Size{5, 5}}}

	got := BoxMembership(Point{20, 20}, Point{0, 0}, cards)
	assert.Equal(t, []Ref{CardRef("a")}, got)
}

func TestSelectionPrunedOnDelete(t *testing.T) {
	s := newTestStore()
	sel := NewSelection()
	sel.Track(s)

	a := mustCard(t, s, 0, 0, 10, 10)
	b := mustCard(t, s, 20, 0, 10, 10)
	conn, err := s.CreateConnection(a.ID, b.ID)
	require.NoError(t, err)
	sel.SelectExact(CardRef(a.ID), CardRef(b.ID), ConnectionRef(conn.ID))

	require.NoError(t, s.DeleteCard(a.ID))

	assert.Equal(t, []string{b.ID}, sel.Cards())
	assert.Empty(t, sel.Connections(), "cascaded connection leaves the selection too")
}
