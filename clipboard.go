package main

import (
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"ideaboard/internal/board"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true, ".bmp": true,
}

// classifyPaste picks the card kind for pasted text: links become webpage
// cards, image paths or links image cards, existing paths file cards.
func classifyPaste(text string) board.Kind {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, "\n\t") {
		return board.KindText
	}
	if u, err := url.Parse(text); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		if imageExtensions[strings.ToLower(filepath.Ext(u.Path))] {
			return board.KindImage
		}
		return board.KindWebpage
	}
	path := strings.TrimPrefix(text, "file://")
	if _, err := os.Stat(path); err == nil {
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return board.KindImage
		}
		return board.KindFile
	}
	return board.KindText
}

// cleanClipboardText strips rich-text markup and control characters and
// normalises line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = stripHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 {
			return r
		}
		return -1
	}, text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div"))
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'", "&nbsp;", " ",
)

func stripHTML(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return htmlEntities.Replace(b.String())
}

// stripRTF drops groups' braces and control words, keeping escaped literals
// and turning \par and \line into newlines.
func stripRTF(text string) string {
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' || r == '}':
			continue
		case r != '\\':
			b.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]
		if next == '\\' || next == '{' || next == '}' {
			b.WriteRune(next)
			i++
			continue
		}
		if !isLetter(next) {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && isLetter(runes[j]) {
			j++
		}
		word := string(runes[i+1 : j])
		for j < len(runes) && (runes[j] == '-' || (runes[j] >= '0' && runes[j] <= '9')) {
			j++
		}
		if j < len(runes) && runes[j] == ' ' {
			j++
		}
		switch word {
		case "par", "line":
			b.WriteRune('\n')
		case "tab":
			b.WriteRune('\t')
		}
		i = j - 1
	}
	return b.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
