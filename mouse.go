package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"ideaboard/internal/board"
)

// handleMouse turns terminal mouse reports into pointer events at cell
// centres. Wheel reports arrive as presses of the wheel buttons.
func (m *model) handleMouse(msg tea.MouseMsg) {
	screen := cellCenter(msg.X, msg.Y)
	mods := board.Modifiers{Shift: msg.Shift, Alt: msg.Alt, Ctrl: msg.Ctrl}
	ev := board.PointerEvent{Screen: screen, Mods: mods}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.machine.Wheel(board.WheelEvent{Screen: screen, DeltaY: -1, Mods: mods})
			return
		case tea.MouseButtonWheelDown:
			m.machine.Wheel(board.WheelEvent{Screen: screen, DeltaY: 1, Mods: mods})
			return
		case tea.MouseButtonWheelLeft:
			m.machine.Wheel(board.WheelEvent{Screen: screen, DeltaX: -1, Mods: mods})
			return
		case tea.MouseButtonWheelRight:
			m.machine.Wheel(board.WheelEvent{Screen: screen, DeltaX: 1, Mods: mods})
			return
		case tea.MouseButtonLeft:
			ev.Button = board.ButtonPrimary
		case tea.MouseButtonMiddle:
			ev.Button = board.ButtonMiddle
		case tea.MouseButtonRight:
			ev.Button = board.ButtonSecondary
		default:
			return
		}
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.ensureCursorInBounds()
		if ev.Button == board.ButtonPrimary && m.isDoubleClick(msg.X, msg.Y) {
			m.machine.DoubleClick(ev)
			return
		}
		m.machine.PointerDown(ev)

	case tea.MouseActionMotion:
		m.machine.PointerMove(ev)

	case tea.MouseActionRelease:
		m.machine.PointerUp(ev)
	}
}

// isDoubleClick records a primary press and reports whether it completes a
// double click: a second press on the same cell within the window.
func (m *model) isDoubleClick(x, y int) bool {
	now := m.now()
	at := cell{x, y}
	if !m.lastClick.IsZero() && at == m.lastClickCell && now.Sub(m.lastClick) <= doubleClickWindow {
		m.lastClick = now.Add(-2 * doubleClickWindow)
		return true
	}
	m.lastClick = now
	m.lastClickCell = at
	return false
}
