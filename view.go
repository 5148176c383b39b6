package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ideaboard/internal/board"
)

var (
	statusStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var helpLines = []string{
	"Ideaboard Help",
	"==============",
	"",
	"Navigation:",
	"-----------",
	"  h/←/j/↓/k/↑/l/→  Move cursor around the screen",
	"  Shift+h/j/k/l    Move cursor 2x faster",
	"  z                Toggle pan mode (hjkl drags the canvas)",
	"  +/-/0            Zoom in, zoom out, reset view",
	"  Mouse wheel      Pan; Ctrl+wheel zooms",
	"",
	"Cards:",
	"------",
	"  t/n/i/w/f        Add text/note/image/webpage/file card at cursor",
	"  e                Edit card under cursor (double-click works too)",
	"  space            Select card under cursor",
	"  d                Delete selection",
	"  Delete/Backspace Delete selection without asking",
	"  c                Copy card under cursor",
	"  p                Paste clipboard as a card at cursor",
	"  1-8              Colour the selection",
	"  g                Group selected cards",
	"",
	"Editing:",
	"--------",
	"  Enter            New line",
	"  Ctrl+S           Finish editing",
	"  Esc              Cancel and restore the old text",
	"",
	"Connections:",
	"------------",
	"  a                Start a connection on a card, press again on the target",
	"  Drag the o       Drag from a card's handle onto another card",
	"  Esc              Cancel a connection",
	"",
	"Mind map:",
	"---------",
	"  A                Add a child card under the card at cursor",
	"  D                Delete the card at cursor and all its children",
	"",
	"Mouse:",
	"------",
	"  Drag a card      Move it (and the rest of the selection)",
	"  Shift+click      Add to selection",
	"  Drag empty space Box select; Shift keeps the current selection",
	"  Drag the corner  Resize a card",
	"  Middle/Alt+drag  Pan",
	"",
	"Files:",
	"------",
	"  s                Save board",
	"  S                Export as PNG image",
	"  X                Export as text",
	"",
	"General:",
	"  Esc              Clear selection/cancel current operation",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	renderWidth := max(m.width, 1)
	renderHeight := max(m.height-1, 1)

	g := newGrid(renderWidth, renderHeight)
	var edit *caret
	if m.editingID != "" {
		edit = &caret{cardID: m.editingID, offset: m.editCursor}
	}
	paintScene(g, m.machine.Scene(), edit)

	if edit == nil && m.mode != ModeFileInput {
		g.set(m.cursorX, m.cursorY, '█', "", false)
	}

	var result strings.Builder
	for i, line := range g.lines(true) {
		result.WriteString(line)
		if i < renderHeight-1 {
			result.WriteString("\n")
		}
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpSave:
			opStr = "Save board as"
		case FileOpSavePNG:
			opStr = "Export PNG"
		case FileOpSaveVisualTXT:
			opStr = "Export TXT"
		}
		status := fmt.Sprintf("Mode: FILE | %s: %s█ | Enter=confirm, Esc=cancel", opStr, m.filename)
		if m.errorMessage != "" {
			status = fmt.Sprintf("Mode: FILE | %s | %s: %s█ | Enter=retry, Esc=cancel",
				errorStyle.Render("ERROR: "+m.errorMessage), opStr, m.filename)
		}
		return status
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit? Unsaved changes will be lost. (y/n)"
		case ConfirmDeleteSelection:
			message = "Delete the selection? (y/n)"
		case ConfirmDeleteSubtree:
			message = "Delete this card and all its children? (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.confirmTarget)
		}
		return statusStyle.Render(fmt.Sprintf("Mode: CONFIRM | %s", message))
	}

	mode := m.machine.Mode()
	if edit, ok := mode.(board.EditingContent); ok {
		return fmt.Sprintf("Mode: EDIT | Card %s | ←/→=move cursor, Enter=newline, Ctrl+S=save, Esc=cancel", shortID(edit.CardID))
	}

	modeStr := m.modeString()
	if m.zPanMode {
		modeStr = "PAN"
	}
	name := m.session.name
	if name == "" {
		name = "[unsaved]"
	}
	status := fmt.Sprintf("Mode: %s | %s | Cursor: (%d,%d) | Zoom: %d%%",
		modeStr, name, m.cursorX, m.cursorY, int(m.machine.Viewport().Zoom*100+0.5))
	if mode, ok := mode.(board.ConnectingFrom); ok {
		status += fmt.Sprintf(" | Connection from card %s (select target)", shortID(mode.SourceID))
	}
	if sel := m.selectionSummary(); sel != "" {
		status += " | Selected: " + sel
	}
	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

func (m model) modeString() string {
	switch m.machine.Mode().(type) {
	case board.Idle:
		return "NORMAL"
	case board.Dragging:
		return "MOVE"
	case board.Panning:
		return "PAN"
	case board.BoxSelecting:
		return "SELECT"
	case board.ConnectingFrom:
		return "CONNECT"
	case board.EditingContent:
		return "EDIT"
	case board.Resizing:
		return "RESIZE"
	default:
		return "UNKNOWN"
	}
}

func (m model) selectionSummary() string {
	sel := m.machine.Selection()
	var parts []string
	count := func(n int, noun string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+noun)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", n, noun))
		}
	}
	count(len(sel.Cards()), "card")
	count(len(sel.Connections()), "connection")
	count(len(sel.Groups()), "group")
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m model) maxHelpScroll() int {
	visibleHeight := max(m.height-1, 1)
	return max(len(helpLines)-visibleHeight, 0)
}

func (m model) helpView() string {
	visibleHeight := max(m.height-1, 1)
	startLine := min(m.helpScroll, m.maxHelpScroll())
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
