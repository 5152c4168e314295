// Package crossword turns a flat list of clue entries into a numbered grid,
// ordered clue lists and blank-grid thumbnails. It is pure: no I/O, no state
// kept between calls.
package crossword

import (
	"cmp"
	"errors"
	"slices"
)

// Placeholder marks a light that is deliberately left without a letter.
const Placeholder = '.'

// MaxSize is the largest grid dimension accepted anywhere a grid is built.
const MaxSize = 64

var (
	ErrOutOfBounds = errors.New("entry runs off the grid")
	ErrEmptyAnswer = errors.New("answer has no letters")
	ErrNotNumbered = errors.New("entry start is not numbered in grid")
	ErrGridSize    = errors.New("grid size out of range")
)

// Entry is one clue/answer placement. X and Y are zero-based and locate the
// first letter of the answer.
type Entry struct {
	Clue   string `json:"clue"`
	Answer string `json:"answer"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Down   bool   `json:"down"`
}

// Point is a zero-based grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Puzzle is a square grid size plus the entries placed on it.
type Puzzle struct {
	Size    int     `json:"size"`
	Entries []Entry `json:"entries"`
}

// sortedEntries returns a copy of entries in reading order of their start cell.
func sortedEntries(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return sorted
}
