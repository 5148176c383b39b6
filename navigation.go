package main

import "ideaboard/internal/board"

func (m *model) handleNavigation(key string, speed int) {
	if m.zPanMode {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

// handlePan drags the canvas under a fixed cursor.
func (m *model) handlePan(key string, speed int) {
	step := float64(speed)
	switch key {
	case "h", "left", "H", "shift+left":
		m.machine.PanBy(board.Point{X: -step})
	case "l", "right", "L", "shift+right":
		m.machine.PanBy(board.Point{X: step})
	case "k", "up", "K", "shift+up":
		m.machine.PanBy(board.Point{Y: -step})
	case "j", "down", "J", "shift+down":
		m.machine.PanBy(board.Point{Y: step})
	}
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
	// A connection started from the keyboard follows the cursor.
	if _, ok := m.machine.Mode().(board.ConnectingFrom); ok {
		m.machine.PointerMove(board.PointerEvent{Screen: m.cursorPoint()})
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	// Leave room for status line
	maxY := m.height - 2
	if maxY < 0 {
		maxY = 0
	}
	if m.cursorY > maxY {
		m.cursorY = maxY
	}
}

// cellCenter is the screen point a terminal cell stands for.
func cellCenter(x, y int) board.Point {
	return board.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

func (m *model) cursorPoint() board.Point {
	return cellCenter(m.cursorX, m.cursorY)
}

// cursorCanvas is the canvas point under the keyboard cursor.
func (m *model) cursorCanvas() board.Point {
	return m.machine.Viewport().ToCanvas(m.cursorPoint())
}

// cardAtCursor is the card under the cursor, or else the only selected card.
func (m *model) cardAtCursor() (board.Card, bool) {
	if card, ok := m.machine.Store().FindCardAt(m.cursorCanvas()); ok {
		return card, true
	}
	if ids := m.machine.Selection().Cards(); len(ids) == 1 {
		return m.machine.Store().Card(ids[0])
	}
	return board.Card{}, false
}
