package main

import (
	"time"

	"go.uber.org/zap"

	"ideaboard/internal/board"
	"ideaboard/internal/storage"
)

type model struct {
	width    int
	height   int
	cursorX  int
	cursorY  int
	zPanMode bool

	machine *board.Machine
	repo    storage.Repository
	config  *Config
	log     *zap.Logger
	session *session
	now     func() time.Time

	mode          Mode
	help          bool
	helpScroll    int
	fileOp        FileOperation
	filename      string
	confirmAction ConfirmAction
	confirmTarget string

	editingID  string
	editCursor int

	lastClick     time.Time
	lastClickCell cell

	clipboard      *board.Card
	errorMessage   string
	successMessage string
}

// session is shared by every copy of the model, including the save handler
// registered with the machine.
type session struct {
	name string
}

// cell is a terminal cell position.
type cell struct {
	X, Y int
}
