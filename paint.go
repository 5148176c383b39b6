package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ideaboard/internal/board"
)

// glyph is one painted terminal cell.
type glyph struct {
	ch    rune
	color string
	bold  bool
}

type grid struct {
	width, height int
	cells         [][]glyph
}

func newGrid(width, height int) *grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &grid{width: width, height: height, cells: make([][]glyph, height)}
	for y := range g.cells {
		g.cells[y] = make([]glyph, width)
		for x := range g.cells[y] {
			g.cells[y][x] = glyph{ch: ' '}
		}
	}
	return g
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *grid) set(x, y int, ch rune, color string, bold bool) {
	if g.inside(x, y) {
		g.cells[y][x] = glyph{ch: ch, color: color, bold: bold}
	}
}

func (g *grid) at(x, y int) rune {
	if !g.inside(x, y) {
		return ' '
	}
	return g.cells[y][x].ch
}

// text writes s from (x, y) and stops before column limit.
func (g *grid) text(x, y int, s string, limit int, color string, bold bool) {
	for _, r := range s {
		if x >= limit {
			return
		}
		g.set(x, y, r, color, bold)
		x++
	}
}

// lines renders the grid. Styled output colours runs of cells with lipgloss.
func (g *grid) lines(styled bool) []string {
	out := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		if !styled {
			for _, c := range row {
				b.WriteRune(c.ch)
			}
			out[y] = b.String()
			continue
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].color == row[start].color && row[x].bold == row[start].bold {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.ch)
			}
			b.WriteString(styleFor(row[start]).Render(run.String()))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

func styleFor(c glyph) lipgloss.Style {
	style := lipgloss.NewStyle()
	if sw, ok := swatchFor(c.color); ok {
		style = style.Foreground(sw.ansi)
	}
	if c.bold {
		style = style.Bold(true)
	}
	return style
}

// span returns the first and last cell whose centre lies in [lo, hi).
func span(lo, hi float64) (int, int) {
	return int(math.Ceil(lo - 0.5)), int(math.Ceil(hi-0.5)) - 1
}

// box is the inclusive cell range covered by a screen rect.
type box struct {
	x0, y0, x1, y1 int
}

func cellBox(r board.Rect) box {
	x0, x1 := span(r.Min.X, r.Max.X)
	y0, y1 := span(r.Min.Y, r.Max.Y)
	return box{x0, y0, x1, y1}
}

func (b box) empty() bool { return b.x1 < b.x0 || b.y1 < b.y0 }

func (b box) has(x, y int) bool {
	return x >= b.x0 && x <= b.x1 && y >= b.y0 && y <= b.y1
}

type frameStyle struct {
	corner, horizontal, vertical rune
}

var (
	cardFrame     = frameStyle{'+', '-', '|'}
	selectedFrame = frameStyle{'#', '#', '#'}
	groupFrame    = frameStyle{'.', '.', ':'}
	bandFrame     = frameStyle{'.', '.', '.'}
)

// clip is the part of b inside the grid.
func (b box) clip(g *grid) box {
	return box{max(b.x0, 0), max(b.y0, 0), min(b.x1, g.width-1), min(b.y1, g.height-1)}
}

// frame draws the outline of b, walking only its visible part.
func (g *grid) frame(b box, fs frameStyle, color string, bold bool) {
	if b.empty() {
		return
	}
	v := b.clip(g)
	if v.empty() {
		return
	}
	for x := v.x0; x <= v.x1; x++ {
		ch := fs.horizontal
		if x == b.x0 || x == b.x1 {
			ch = fs.corner
		}
		if v.y0 == b.y0 {
			g.set(x, b.y0, ch, color, bold)
		}
		if v.y1 == b.y1 {
			g.set(x, b.y1, ch, color, bold)
		}
	}
	for y := max(b.y0+1, v.y0); y <= min(b.y1-1, v.y1); y++ {
		if v.x0 == b.x0 {
			g.set(b.x0, y, fs.vertical, color, bold)
		}
		if v.x1 == b.x1 {
			g.set(b.x1, y, fs.vertical, color, bold)
		}
	}
}

func (g *grid) fill(b box) {
	v := b.clip(g)
	for y := v.y0; y <= v.y1; y++ {
		for x := v.x0; x <= v.x1; x++ {
			g.set(x, y, ' ', "", false)
		}
	}
}

// caret marks the insertion point of the card being edited.
type caret struct {
	cardID string
	offset int // in runes of the content
}

// paintScene draws groups, connections, cards and overlays onto g in that
// order. Card interiors are cleared so lines pass underneath them.
func paintScene(g *grid, scene board.Scene, edit *caret) {
	for _, s := range scene.Groups {
		paintGroup(g, s)
	}

	cards := make([]box, len(scene.Cards))
	for i, c := range scene.Cards {
		cards[i] = cellBox(c.Rect)
	}
	for _, l := range scene.Connections {
		paintLine(g, l, cards, false)
	}

	// Hit-testing picks the oldest card under a point, so the oldest card is
	// painted last and ends up on top.
	for i := len(scene.Cards) - 1; i >= 0; i-- {
		paintCard(g, scene.Cards[i], cards[i], edit)
	}

	if scene.Preview != nil {
		paintLine(g, *scene.Preview, cards, true)
	}
	if scene.RubberBand != nil {
		g.frame(cellBox(*scene.RubberBand), bandFrame, "", true)
	}
}

func paintGroup(g *grid, s board.GroupShape) {
	b := cellBox(s.Rect)
	fs := groupFrame
	if s.Selected {
		fs = selectedFrame
	}
	g.frame(b, fs, s.Color, s.Selected)
	if s.Name != "" {
		g.text(b.x0+2, b.y0, " "+s.Name+" ", b.x1-1, s.Color, true)
	}
}

func paintCard(g *grid, c board.CardShape, b box, edit *caret) {
	if b.empty() {
		return
	}
	g.fill(b)
	fs := cardFrame
	if c.Selected {
		fs = selectedFrame
	}
	g.frame(b, fs, c.Color, c.Selected)

	for i, line := range c.Lines {
		y := b.y0 + 1 + i
		if y >= b.y1 {
			break
		}
		if i == 0 {
			line = c.Badge + line
		}
		g.text(b.x0+1, y, line, b.x1, c.Color, false)
	}

	if hb := cellBox(c.Handle); !hb.empty() {
		g.set(hb.x0, hb.y0, 'o', c.Color, true)
	}

	if edit != nil && c.Editing && edit.cardID == c.ID {
		x, y := caretCell(c, b, edit.offset)
		if y < b.y1 && x < b.x1 {
			g.set(x, y, '█', c.Color, false)
		}
	}
}

// caretCell locates a rune offset of the content inside the card frame.
func caretCell(c board.CardShape, b box, offset int) (int, int) {
	row := 0
	col := len([]rune(c.Badge))
	seen := 0
	for i, line := range c.Lines {
		n := len([]rune(line))
		if offset <= seen+n || i == len(c.Lines)-1 {
			row = i
			col += min(offset-seen, n)
			break
		}
		seen += n + 1
		col = 0
	}
	return b.x0 + 1 + col, b.y0 + 1 + row
}

// paintLine draws an elbow connector: horizontal from the source, then
// vertical into the target, with an arrowhead on the last cell no card
// covers.
func paintLine(g *grid, l board.LineShape, cards []box, preview bool) {
	path := newElbow(l.From, l.To)
	horizontal, vertical := '-', '|'
	color, bold := l.Color, l.Selected
	if l.Selected {
		horizontal, vertical = '#', '#'
	}
	if preview {
		horizontal, vertical = '.', '.'
	}

	path.visit(g, func(i int, c cell) {
		if !preview && covering(cards, c) != nil {
			return
		}
		g.set(c.X, c.Y, path.glyph(i, horizontal, vertical), color, bold)
	})

	if !preview {
		if i, ok := path.lastUncovered(cards); ok && i > 0 {
			tip := path.at(i)
			g.set(tip.X, tip.Y, arrowHead(path.at(i-1), tip), color, true)
		}
	}

	if l.Label != "" {
		mid := path.at(path.len() / 2)
		g.text(mid.X+1, mid.Y, l.Label, g.width, color, false)
	}
}

// covering returns the first card box containing c.
func covering(cards []box, c cell) *box {
	for i := range cards {
		if cards[i].has(c.X, c.Y) {
			return &cards[i]
		}
	}
	return nil
}

func arrowHead(from, to cell) rune {
	switch {
	case to.X > from.X:
		return '>'
	case to.X < from.X:
		return '<'
	case to.Y > from.Y:
		return 'v'
	}
	return '^'
}

// elbowPath is the cell path from a to b going horizontally first. Cells are
// addressed by index; the path is never listed.
type elbowPath struct {
	ax, ay, bx, by int
	sx, sy         int
	hlen, vlen     int
}

func newElbow(a, b board.Point) elbowPath {
	p := elbowPath{
		ax: int(math.Floor(a.X)), ay: int(math.Floor(a.Y)),
		bx: int(math.Floor(b.X)), by: int(math.Floor(b.Y)),
	}
	p.sx, p.sy = sign(p.bx-p.ax), sign(p.by-p.ay)
	p.hlen, p.vlen = (p.bx-p.ax)*p.sx, (p.by-p.ay)*p.sy
	return p
}

func (p elbowPath) len() int { return p.hlen + p.vlen + 1 }

// at is the cell at index i. Indices up to hlen are the horizontal run, the
// corner included.
func (p elbowPath) at(i int) cell {
	if i <= p.hlen {
		return cell{p.ax + i*p.sx, p.ay}
	}
	return cell{p.bx, p.ay + (i-p.hlen)*p.sy}
}

func (p elbowPath) glyph(i int, horizontal, vertical rune) rune {
	switch {
	case i > p.hlen:
		return vertical
	case i == p.hlen && p.vlen > 0 && p.hlen == 0:
		return vertical
	case i == p.hlen && p.vlen > 0:
		return '+'
	}
	return horizontal
}

// visit calls fn for every index whose cell lies inside g.
func (p elbowPath) visit(g *grid, fn func(i int, c cell)) {
	if p.ay >= 0 && p.ay < g.height {
		lo, hi := clipRun(p.ax, p.sx, p.hlen, g.width-1)
		for i := lo; i <= hi; i++ {
			fn(i, p.at(i))
		}
	}
	if p.vlen > 0 && p.bx >= 0 && p.bx < g.width {
		lo, hi := clipRun(p.ay+p.sy, p.sy, p.vlen-1, g.height-1)
		for k := lo; k <= hi; k++ {
			i := p.hlen + 1 + k
			fn(i, p.at(i))
		}
	}
}

// clipRun returns the range of k in [0, last] for which start+k*step lies in
// [0, limit].
func clipRun(start, step, last, limit int) (int, int) {
	switch {
	case step > 0:
		return max(0, -start), min(last, limit-start)
	case step < 0:
		return max(0, start-limit), min(last, start)
	case start >= 0 && start <= limit:
		return 0, last
	}
	return 0, -1
}

// lastUncovered finds the highest index whose cell no card covers. It jumps
// over each covering box in one step.
func (p elbowPath) lastUncovered(cards []box) (int, bool) {
	for i := p.len() - 1; i >= 0; {
		b := covering(cards, p.at(i))
		if b == nil {
			return i, true
		}
		i = p.exitBackward(i, *b)
	}
	return 0, false
}

// exitBackward is the first index below i, walking back along the path,
// whose cell leaves b. The at(i) cell must lie in b.
func (p elbowPath) exitBackward(i int, b box) int {
	if i > p.hlen {
		y := b.y0 - 1
		if p.sy < 0 {
			y = b.y1 + 1
		}
		return max(p.hlen+(y-p.ay)*p.sy, p.hlen)
	}
	switch {
	case p.sx > 0:
		return b.x0 - 1 - p.ax
	case p.sx < 0:
		return p.ax - b.x1 - 1
	}
	return -1
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
