package crossword

import (
	"fmt"
	"strings"
)

const (
	fillBlock = "0,0,0"
	fillLight = "255,255,255"
)

// Thumbnail draws a blank grid as SVG: one square of squareSize pixels per
// cell, black where blocks holds the cell and white elsewhere. Squares are
// written row by row.
func Thumbnail(size int, blocks []Point, squareSize int) string {
	isBlock := make(map[Point]bool, len(blocks))
	for _, p := range blocks {
		isBlock[p] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d">`, size*squareSize, size*squareSize)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fill := fillLight
			if isBlock[Point{X: x, Y: y}] {
				fill = fillBlock
			}
			fmt.Fprintf(&b, `<rect y="%d" x="%d" width="%d" height="%d" `,
				y*squareSize, x*squareSize, squareSize, squareSize)
			fmt.Fprintf(&b, `style="fill:rgb(%s);stroke-width:1;stroke:rgb(0,0,0)" />`, fill)
		}
	}
	b.WriteString(`</svg>`)
	return b.String()
}
