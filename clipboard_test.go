package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaboard/internal/board"
)

func TestClassifyPaste(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.md")
	pic := filepath.Join(dir, "photo.PNG")
	require.NoError(t, os.WriteFile(doc, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(pic, []byte("x"), 0644))

	tests := []struct {
		text string
		want board.Kind
	}{
		{"https://example.com/page", board.KindWebpage},
		{"  http://example.com  ", board.KindWebpage},
		{"https://example.com/cat.jpg", board.KindImage},
		{doc, board.KindFile},
		{"file://" + doc, board.KindFile},
		{pic, board.KindImage},
		{filepath.Join(dir, "missing.txt"), board.KindText},
		{"just some words", board.KindText},
		{"https://example.com\nsecond line", board.KindText},
		{"ftp://example.com/file", board.KindText},
		{"", board.KindText},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyPaste(tt.text), "classifyPaste(%q)", tt.text)
	}
}

func TestCleanClipboardText(t *testing.T) {
	assert.Equal(t, "a\nb\nc", cleanClipboardText("a\r\nb\rc"))
	assert.Equal(t, "tab\tkept", cleanClipboardText("tab\tkept\x07"))
	assert.Equal(t, "", cleanClipboardText(""))
}

func TestCleanClipboardHTML(t *testing.T) {
	html := `<html><body><div>Fish &amp; chips</div></body></html>`
	assert.Equal(t, "Fish & chips", cleanClipboardText(html))
}

func TestStripRTF(t *testing.T) {
	rtf := `{\rtf1\ansi\deff0 {\b Bold} text\par second \{line\}\tab end}`
	assert.Equal(t, "Bold text\nsecond {line}\tend", stripRTF(rtf))
}
