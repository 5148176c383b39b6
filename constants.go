package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmDeleteSelection
	ConfirmDeleteSubtree
	ConfirmOverwriteFile
)

const (
	numColors         = 8
	exportPadding     = 2
	doubleClickWindow = 400 * time.Millisecond
)
