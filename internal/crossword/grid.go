package crossword

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	TypeBlock = "block"
	TypeLight = "light"

	markTopmost  = " topmost"
	markLeftmost = " leftmost"
)

// Cell describes one square of a built grid. Type is "block" or "light",
// with " topmost" and " leftmost" appended on the first row and column.
// Number is zero for unnumbered squares and Letter is empty for blocks and
// placeholder lights.
type Cell struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Type   string `json:"type"`
	Number int    `json:"number,omitempty"`
	Letter string `json:"letter,omitempty"`
}

// Grid is indexed [row][col].
type Grid [][]Cell

// IsLight reports whether the square is playable.
func (c Cell) IsLight() bool {
	return strings.HasPrefix(c.Type, TypeLight)
}

// BuildGrid lays entries out on a size x size grid. Start squares are
// numbered in reading order; an across and a down entry sharing a start
// square share its number.
func BuildGrid(entries []Entry, size int) (Grid, error) {
	if size < 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrGridSize, size)
	}

	grid := make(Grid, size)
	for row := range grid {
		grid[row] = make([]Cell, size)
		for col := range grid[row] {
			grid[row][col] = Cell{Row: row, Col: col, Type: TypeBlock}
		}
	}

	number := 1
	for _, e := range sortedEntries(entries) {
		letters := []rune(StripFormatting(e.Answer))
		if len(letters) == 0 {
			return nil, fmt.Errorf("entry %q at (%d,%d): %w", e.Clue, e.X, e.Y, ErrEmptyAnswer)
		}

		dx, dy := 1, 0
		if e.Down {
			dx, dy = 0, 1
		}
		lastX, lastY := e.X+dx*(len(letters)-1), e.Y+dy*(len(letters)-1)
		if e.X < 0 || e.Y < 0 || lastX >= size || lastY >= size {
			return nil, fmt.Errorf("entry %q at (%d,%d) with %d letters in %dx%d grid: %w",
				e.Clue, e.X, e.Y, len(letters), size, size, ErrOutOfBounds)
		}

		if grid[e.Y][e.X].Number == 0 {
			grid[e.Y][e.X].Number = number
			number++
		}

		row, col := e.Y, e.X
		for _, r := range letters {
			cell := &grid[row][col]
			cell.Type = TypeLight
			if r != Placeholder {
				cell.Letter = string(unicode.ToUpper(r))
			}
			row += dy
			col += dx
		}
	}

	for i := 0; i < size; i++ {
		grid[0][i].Type += markTopmost
		grid[i][0].Type += markLeftmost
	}

	return grid, nil
}

// WithoutLetters returns a copy of the grid with every letter removed, for
// showing a puzzle without its solution.
func (g Grid) WithoutLetters() Grid {
	out := make(Grid, len(g))
	for row := range g {
		out[row] = make([]Cell, len(g[row]))
		for col, c := range g[row] {
			c.Letter = ""
			out[row][col] = c
		}
	}
	return out
}
