package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"ideaboard/internal/board"
	"ideaboard/internal/storage"
)

var cardKeys = map[string]board.Kind{
	"t": board.KindText,
	"n": board.KindNote,
	"i": board.KindImage,
	"w": board.KindWebpage,
	"f": board.KindFile,
}

func newModel(machine *board.Machine, repo storage.Repository, config *Config, name string, log *zap.Logger) model {
	if log == nil {
		log = zap.NewNop()
	}
	s := &session{name: name}
	machine.OnSave(func(snap board.Snapshot) error {
		return repo.Save(context.Background(), s.name, snap)
	})
	return model{
		machine: machine,
		repo:    repo,
		config:  config,
		log:     log,
		session: s,
		now:     time.Now,
		mode:    ModeNormal,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
			m.syncEditing()
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.handleHelpKey(msg.String())
			return m, nil
		}
		switch m.mode {
		case ModeFileInput:
			return m.handleFileInput(msg)
		case ModeConfirm:
			return m.handleConfirm(msg)
		}
		if _, editing := m.machine.Mode().(board.EditingContent); editing {
			m.handleEditKey(msg)
			m.syncEditing()
			return m, nil
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "j", "down":
		if m.helpScroll < m.maxHelpScroll() {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config.Confirmations {
			m.confirm(ConfirmQuit, "")
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "h", "j", "k", "l", "left", "right", "up", "down",
		"H", "J", "K", "L", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))
	case "z":
		m.zPanMode = !m.zPanMode
	case " ":
		m.machine.PointerDown(board.PointerEvent{Screen: m.cursorPoint(), Button: board.ButtonPrimary})
		m.machine.PointerUp(board.PointerEvent{Screen: m.cursorPoint()})
	case "t", "n", "i", "w", "f":
		m.report(m.machine.AddCard(cardKeys[key], m.cursorCanvas()))
	case "e":
		if card, ok := m.cardAtCursor(); ok {
			m.reportErr(m.machine.BeginEdit(card.ID))
		} else {
			m.errorMessage = "no card under cursor"
		}
	case "a":
		m.toggleConnection()
	case "A":
		if card, ok := m.cardAtCursor(); ok {
			m.report(m.machine.AddChild(card.ID, board.KindText))
		} else {
			m.errorMessage = "no card under cursor"
		}
	case "delete", "backspace":
		m.machine.Key(board.KeyEvent{Key: board.KeyDelete})
	case "d":
		m.deleteSelection()
	case "D":
		if card, ok := m.cardAtCursor(); ok {
			m.confirmOr(ConfirmDeleteSubtree, card.ID)
		}
	case "g":
		_, _, groups := m.machine.Store().Len()
		if _, err := m.machine.GroupSelection(fmt.Sprintf("group %d", groups+1)); err != nil {
			m.reportErr(err)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.recolor(palette[key[0]-'1'].name)
	case "+", "=":
		m.machine.ZoomIn()
	case "-":
		m.machine.ZoomOut()
	case "0":
		m.machine.ResetView()
	case "c":
		m.copyCard()
	case "p":
		m.paste()
	case "s":
		if m.session.name == "" {
			m.promptFile(FileOpSave, "")
		} else {
			m.save()
		}
	case "S":
		m.promptFile(FileOpSavePNG, m.defaultExportName(".png"))
	case "X":
		m.promptFile(FileOpSaveVisualTXT, m.defaultExportName(".txt"))
	case "esc":
		m.zPanMode = false
		if _, idle := m.machine.Mode().(board.Idle); idle {
			m.machine.Selection().Clear()
		} else {
			m.machine.Key(board.KeyEvent{Key: board.KeyEscape})
		}
	}
	m.syncEditing()
	return m, nil
}

func (m *model) handleEditKey(msg tea.KeyMsg) {
	mode := m.machine.Mode().(board.EditingContent)
	card, ok := m.machine.Store().Card(mode.CardID)
	if !ok {
		return
	}
	text := []rune(card.Content)
	pos := min(max(m.editCursor, 0), len(text))
	edited := false

	insert := func(rs []rune) {
		text = append(text[:pos], append(rs, text[pos:]...)...)
		pos += len(rs)
		edited = true
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.machine.CancelEdit()
		return
	case tea.KeyCtrlS:
		m.machine.CommitEdit()
		return
	case tea.KeyEnter:
		insert([]rune{'\n'})
	case tea.KeySpace:
		insert([]rune{' '})
	case tea.KeyRunes:
		insert(msg.Runes)
	case tea.KeyBackspace:
		if pos > 0 {
			text = append(text[:pos-1], text[pos:]...)
			pos--
			edited = true
		}
	case tea.KeyDelete:
		if pos < len(text) {
			text = append(text[:pos], text[pos+1:]...)
			edited = true
		}
	case tea.KeyLeft:
		pos = max(pos-1, 0)
	case tea.KeyRight:
		pos = min(pos+1, len(text))
	case tea.KeyHome:
		pos = 0
	case tea.KeyEnd:
		pos = len(text)
	}

	m.editCursor = pos
	if edited {
		m.reportErr(m.machine.EditDraft(string(text)))
	}
}

// syncEditing places the text cursor at the end of a card that just entered
// editing, however the edit was started.
func (m *model) syncEditing() {
	mode, ok := m.machine.Mode().(board.EditingContent)
	if !ok {
		m.editingID = ""
		return
	}
	if mode.CardID == m.editingID {
		return
	}
	m.editingID = mode.CardID
	card, _ := m.machine.Store().Card(mode.CardID)
	m.editCursor = len([]rune(card.Content))
}

func (m *model) toggleConnection() {
	if _, ok := m.machine.Mode().(board.ConnectingFrom); ok {
		_, before, _ := m.machine.Store().Len()
		m.machine.PointerUp(board.PointerEvent{Screen: m.cursorPoint()})
		if _, after, _ := m.machine.Store().Len(); after > before {
			m.successMessage = "Connected"
		}
		return
	}
	card, ok := m.machine.Store().FindCardAt(m.cursorCanvas())
	if !ok {
		m.errorMessage = "no card under cursor"
		return
	}
	m.reportErr(m.machine.BeginConnection(card.ID))
}

func (m *model) deleteSelection() {
	if m.machine.Selection().Empty() {
		card, ok := m.machine.Store().FindCardAt(m.cursorCanvas())
		if !ok {
			return
		}
		m.machine.Selection().SelectExact(board.CardRef(card.ID))
	}
	m.confirmOr(ConfirmDeleteSelection, "")
}

func (m *model) recolor(color string) {
	if m.machine.Selection().Empty() {
		if card, ok := m.machine.Store().FindCardAt(m.cursorCanvas()); ok {
			m.reportErr(m.machine.SetColor(card.ID, color))
		}
		return
	}
	m.machine.SetSelectionColor(color)
}

func (m *model) copyCard() {
	card, ok := m.cardAtCursor()
	if !ok {
		m.errorMessage = "no card under cursor"
		return
	}
	m.clipboard = &card
	if err := writeClipboardText(card.Content); err != nil {
		m.log.Debug("system clipboard unavailable", zap.Error(err))
	}
	m.successMessage = "Copied"
}

func (m *model) paste() {
	kind, content, color := board.KindText, "", ""
	text, err := readClipboardText()
	if err == nil {
		text = cleanClipboardText(text)
	}
	switch {
	case err == nil && strings.TrimSpace(text) != "" && (m.clipboard == nil || text != m.clipboard.Content):
		kind, content = classifyPaste(text), strings.TrimSpace(text)
	case m.clipboard != nil:
		kind, content, color = m.clipboard.Kind, m.clipboard.Content, m.clipboard.Color
	default:
		m.errorMessage = "clipboard is empty"
		return
	}
	card, err := m.machine.PlaceCard(kind, m.cursorCanvas(), content)
	if err != nil {
		m.reportErr(err)
		return
	}
	if color != "" {
		m.reportErr(m.machine.SetColor(card.ID, color))
	}
	m.successMessage = "Pasted " + string(kind) + " card"
}

func (m *model) save() {
	if err := m.machine.Save(); err != nil {
		m.reportErr(err)
		return
	}
	m.log.Info("board saved", zap.String("board", m.session.name))
	m.successMessage = "Saved " + m.session.name
}

func (m *model) defaultExportName(ext string) string {
	name := m.session.name
	if name == "" {
		name = "board"
	}
	return name + ext
}

func (m *model) promptFile(op FileOperation, filename string) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = filename
}

func (m model) handleFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.errorMessage = ""
	case tea.KeyEnter:
		m.errorMessage = ""
		m.submitFile()
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.filename += " "
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

func (m *model) submitFile() {
	name := strings.TrimSpace(m.filename)
	switch m.fileOp {
	case FileOpSave:
		if err := storage.ValidateName(name); err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.session.name = name
		m.mode = ModeNormal
		m.save()
	case FileOpSavePNG, FileOpSaveVisualTXT:
		ext := ".png"
		if m.fileOp == FileOpSaveVisualTXT {
			ext = ".txt"
		}
		if name == "" {
			m.errorMessage = "filename is empty"
			return
		}
		if !strings.EqualFold(filepath.Ext(name), ext) {
			name += ext
		}
		m.filename = name
		if _, err := os.Stat(m.config.GetSavePath(name)); err == nil && m.config.Confirmations {
			m.confirm(ConfirmOverwriteFile, name)
			return
		}
		m.mode = ModeNormal
		m.export(name)
	}
}

func (m *model) export(name string) {
	path := m.config.GetSavePath(name)
	var err error
	if m.fileOp == FileOpSavePNG {
		err = exportPNG(m.machine.Store(), path)
	} else {
		err = exportVisualTXT(m.machine.Store(), path)
	}
	if err != nil {
		m.reportErr(err)
		return
	}
	m.log.Info("board exported", zap.String("path", path))
	m.successMessage = "Exported " + path
}

func (m *model) confirm(action ConfirmAction, target string) {
	m.mode = ModeConfirm
	m.confirmAction = action
	m.confirmTarget = target
}

// confirmOr asks first when confirmations are on and acts right away
// otherwise.
func (m *model) confirmOr(action ConfirmAction, target string) {
	if m.config.Confirmations {
		m.confirm(action, target)
		return
	}
	m.confirmTarget = target
	m.confirmAction = action
	m.perform()
}

func (m model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	switch msg.String() {
	case "y", "Y":
		if m.confirmAction == ConfirmQuit {
			return m, tea.Quit
		}
		m.perform()
	default:
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
		}
	}
	return m, nil
}

func (m *model) perform() {
	switch m.confirmAction {
	case ConfirmDeleteSelection:
		n, err := m.machine.DeleteSelection()
		if err != nil {
			m.reportErr(err)
			return
		}
		m.successMessage = fmt.Sprintf("Deleted %d", n)
	case ConfirmDeleteSubtree:
		n, err := m.machine.DeleteSubtree(m.confirmTarget)
		if err != nil {
			m.reportErr(err)
			return
		}
		m.successMessage = fmt.Sprintf("Deleted %d cards", n)
	case ConfirmOverwriteFile:
		m.export(m.confirmTarget)
	}
}

func (m *model) report(_ board.Card, err error) {
	m.reportErr(err)
}

func (m *model) reportErr(err error) {
	if err == nil {
		return
	}
	m.log.Debug("command failed", zap.Error(err))
	switch {
	case errors.Is(err, board.ErrBusy):
		m.errorMessage = "finish the current gesture first"
	default:
		m.errorMessage = err.Error()
	}
}
