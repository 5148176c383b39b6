package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectAppliesViewport(t *testing.T) {
	s := newTestStore()
	a := mustCard(t, s, 0, 0, 10, 4)
	b := mustCard(t, s, 20, 0, 10, 4)
	conn, err := s.CreateConnection(a.ID, b.ID)
	require.NoError(t, err)
	sel := NewSelection()
	sel.SelectExact(CardRef(b.ID), ConnectionRef(conn.ID))
	view := Viewport{Zoom: 2, Pan: Point{5, 0}, Origin: Point{0, 1}}

	scene := Project(s, sel, Idle{}, view)

	require.Len(t, scene.Cards, 2)
	assert.Equal(t, Rect{Min: Point{5, 1}, Max: Point{25, 9}}, scene.Cards[0].Rect)
	assert.False(t, scene.Cards[0].Selected)
	assert.True(t, scene.Cards[1].Selected)
	require.Len(t, scene.Connections, 1)
	assert.Equal(t, Point{15, 5}, scene.Connections[0].From)
	assert.Equal(t, Point{55, 5}, scene.Connections[0].To)
	assert.True(t, scene.Connections[0].Selected)
	assert.Nil(t, scene.Preview)
	assert.Nil(t, scene.RubberBand)
}

func TestProjectCardFaces(t *testing.T) {
	tests := []struct {
		kind    Kind
		content string
		badge   string
		lines   []string
	}{
		{KindText, "one\ntwo", "", []string{"one", "two"}},
		{KindNote, "remember", "✎ ", []string{"remember"}},
		{KindImage, "/tmp/pics/cat.png", "[img] ", []string{"cat.png"}},
		{KindImage, "https://example.com/a/dog.jpg?size=2", "[img] ", []string{"dog.jpg"}},
		{KindWebpage, "https://example.com/docs/", "[www] ", []string{"example.com/docs"}},
		{KindWebpage, "not a url", "[www] ", []string{"not a url"}},
		{KindFile, "reports/q3.pdf", "[file] ", []string{"q3.pdf"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+" "+tt.content, func(t *testing.T) {
			s := newTestStore()
			_, err := s.CreateCard(tt.kind, Point{}, Size{10, 4}, tt.content)
			require.NoError(t, err)

			scene := Project(s, NewSelection(), Idle{}, DefaultViewport())

			require.Len(t, scene.Cards, 1)
			assert.Equal(t, tt.badge, scene.Cards[0].Badge)
			assert.Equal(t, tt.lines, scene.Cards[0].Lines)
		})
	}
}

func TestProjectGroupsAndOverlays(t *testing.T) {
	s := newTestStore()
	a := mustCard(t, s, 10, 10, 10, 5)
	g, err := s.CreateGroup("ideas", []string{a.ID})
	require.NoError(t, err)

	scene := Project(s, NewSelection(), BoxSelecting{Anchor: Point{4, 4}, Current: Point{1, 2}}, DefaultViewport())
	require.Len(t, scene.Groups, 1)
	assert.Equal(t, g.ID, scene.Groups[0].ID)
	assert.Equal(t, Rect{Min: Point{9, 8}, Max: Point{21, 16}}, scene.Groups[0].Rect)
	require.NotNil(t, scene.RubberBand)
	assert.Equal(t, Rect{Min: Point{1, 2}, Max: Point{4, 4}}, *scene.RubberBand)

	scene = Project(s, NewSelection(), ConnectingFrom{SourceID: a.ID, Current: Point{40, 40}}, DefaultViewport())
	require.NotNil(t, scene.Preview)
	assert.Equal(t, a.Center(), scene.Preview.From)
	assert.Equal(t, Point{40, 40}, scene.Preview.To)
}

func TestProjectEditingShowsRawContent(t *testing.T) {
	s := newTestStore()
	c, err := s.CreateCard(KindWebpage, Point{}, Size{20, 4}, "https://example.com/a")
	require.NoError(t, err)
	editing := true
	require.NoError(t, s.UpdateCard(c.ID, CardPatch{Editing: &editing}))

	scene := Project(s, NewSelection(), EditingContent{CardID: c.ID}, DefaultViewport())

	require.Len(t, scene.Cards, 1)
	assert.True(t, scene.Cards[0].Editing)
	assert.Equal(t, []string{"https://example.com/a"}, scene.Cards[0].Lines)
}
