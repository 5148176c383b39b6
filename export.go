package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"ideaboard/internal/board"
)

var errNothingToExport = errors.New("nothing to export")

const (
	charWidth  = 8.0
	charHeight = 16.0
)

// exportScene projects the whole board at zoom 1 with its content bounds,
// padded, starting at the top-left cell. Selection and modes are left out.
func exportScene(store *board.Store) (board.Scene, int, int, error) {
	bounds, ok := store.Bounds()
	if !ok {
		return board.Scene{}, 0, 0, errNothingToExport
	}
	pad := board.Point{X: exportPadding, Y: exportPadding}
	view := board.Viewport{Zoom: 1, Pan: bounds.Min.Sub(pad).Scale(-1)}
	width := int(math.Ceil(bounds.Width())) + 2*exportPadding
	height := int(math.Ceil(bounds.Height())) + 2*exportPadding
	return board.Project(store, board.NewSelection(), board.Idle{}, view), width, height, nil
}

func renderVisualTXT(store *board.Store) ([]string, error) {
	scene, width, height, err := exportScene(store)
	if err != nil {
		return nil, err
	}
	g := newGrid(width, height)
	paintScene(g, scene, nil)
	lines := g.lines(false)
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines, nil
}

func exportVisualTXT(store *board.Store, filename string) error {
	lines, err := renderVisualTXT(store)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range lines {
		fmt.Fprintln(file, line)
	}
	return nil
}

func exportPNG(store *board.Store, filename string) error {
	scene, width, height, err := exportScene(store)
	if err != nil {
		return err
	}

	dc := gg.NewContext(int(float64(width)*charWidth), int(float64(height)*charHeight))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, g := range scene.Groups {
		drawGroupPNG(dc, g)
	}
	cards := make(map[string]board.Rect, len(scene.Cards))
	for _, c := range scene.Cards {
		cards[c.ID] = c.Rect
	}
	for _, l := range scene.Connections {
		drawConnectionPNG(dc, l, cards[l.Target])
	}
	for i := len(scene.Cards) - 1; i >= 0; i-- {
		drawCardPNG(dc, scene.Cards[i])
	}

	return dc.SavePNG(filename)
}

func px(p board.Point) (float64, float64) {
	return p.X * charWidth, p.Y * charHeight
}

func inkFor(name string) color.Color {
	if sw, ok := swatchFor(name); ok {
		return color.RGBA{sw.fill.R / 2, sw.fill.G / 2, sw.fill.B / 2, 255}
	}
	return color.Black
}

func drawGroupPNG(dc *gg.Context, g board.GroupShape) {
	x, y := px(g.Rect.Min)
	dc.SetLineWidth(1.0)
	dc.SetColor(inkFor(g.Color))
	dc.SetDash(4, 3)
	dc.DrawRectangle(x, y, g.Rect.Width()*charWidth, g.Rect.Height()*charHeight)
	dc.Stroke()
	dc.SetDash()
	if g.Name != "" {
		dc.DrawString(g.Name, x+2*charWidth, y+charHeight*0.8)
	}
}

func drawConnectionPNG(dc *gg.Context, l board.LineShape, target board.Rect) {
	tip := enterPoint(l.From, l.To, target)
	x1, y1 := px(l.From)
	x2, y2 := px(tip)

	dc.SetLineWidth(1.0)
	dc.SetColor(inkFor(l.Color))
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	drawArrowPNG(dc, x1, y1, x2, y2)

	if l.Label != "" {
		dc.DrawStringAnchored(l.Label, (x1+x2)/2, (y1+y2)/2-4, 0.5, 0)
	}
}

// enterPoint is where the segment from a to b first touches r. A segment
// that never reaches r ends at b.
func enterPoint(a, b board.Point, r board.Rect) board.Point {
	d := b.Sub(a)
	entry := 0.0
	slab := func(start, delta, lo, hi float64) {
		if delta == 0 {
			return
		}
		edge := lo
		if delta < 0 {
			edge = hi
		}
		entry = math.Max(entry, (edge-start)/delta)
	}
	slab(a.X, d.X, r.Min.X, r.Max.X)
	slab(a.Y, d.Y, r.Min.Y, r.Max.Y)
	if entry <= 0 || entry > 1 {
		return b
	}
	return a.Add(d.Scale(entry))
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 6.0
	arrowAngle := 0.5

	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawCardPNG(dc *gg.Context, c board.CardShape) {
	x, y := px(c.Rect.Min)
	width := c.Rect.Width() * charWidth
	height := c.Rect.Height() * charHeight

	if sw, ok := swatchFor(c.Color); ok {
		dc.SetColor(sw.fill)
	} else {
		dc.SetColor(color.White)
	}
	dc.DrawRectangle(x, y, width, height)
	dc.Fill()

	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	dc.DrawRectangle(x, y, width, height)
	dc.Stroke()

	for i, line := range c.Lines {
		if float64(i+2)*charHeight > height {
			break
		}
		if i == 0 {
			line = c.Badge + line
		}
		dc.DrawString(line, x+charWidth, y+charHeight*float64(i+2)-4)
	}
}
