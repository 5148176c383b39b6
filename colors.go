package main

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// swatch is one of the highlight colours a card, connection or group can
// carry. Boards store the name.
type swatch struct {
	name string
	ansi lipgloss.Color
	fill color.RGBA
}

var palette = [numColors]swatch{
	{"gray", lipgloss.Color("8"), color.RGBA{200, 200, 200, 255}},
	{"red", lipgloss.Color("1"), color.RGBA{244, 167, 167, 255}},
	{"green", lipgloss.Color("2"), color.RGBA{170, 222, 170, 255}},
	{"yellow", lipgloss.Color("3"), color.RGBA{250, 235, 150, 255}},
	{"blue", lipgloss.Color("4"), color.RGBA{165, 195, 245, 255}},
	{"magenta", lipgloss.Color("5"), color.RGBA{230, 170, 230, 255}},
	{"cyan", lipgloss.Color("6"), color.RGBA{160, 225, 230, 255}},
	{"white", lipgloss.Color("7"), color.RGBA{255, 255, 255, 255}},
}

func swatchFor(name string) (swatch, bool) {
	for _, sw := range palette {
		if sw.name == name {
			return sw, true
		}
	}
	return swatch{}, false
}
