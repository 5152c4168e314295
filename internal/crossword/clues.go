package crossword

import "fmt"

// Clue is one line of an across or down clue list.
type Clue struct {
	Number     int    `json:"number"`
	Clue       string `json:"clue"`
	Numeration string `json:"numeration"`
}

// ListClues returns the across (down=false) or down clues in reading order.
// Numbers are read back from grid, which must have been built from the same
// entries.
func ListClues(entries []Entry, grid Grid, down bool) ([]Clue, error) {
	var clues []Clue
	for _, e := range sortedEntries(entries) {
		if e.Down != down {
			continue
		}
		if e.Y < 0 || e.Y >= len(grid) || e.X < 0 || e.X >= len(grid[e.Y]) {
			return nil, fmt.Errorf("clue %q at (%d,%d): %w", e.Clue, e.X, e.Y, ErrOutOfBounds)
		}
		n := grid[e.Y][e.X].Number
		if n == 0 {
			return nil, fmt.Errorf("clue %q at (%d,%d): %w", e.Clue, e.X, e.Y, ErrNotNumbered)
		}
		clues = append(clues, Clue{
			Number:     n,
			Clue:       e.Clue,
			Numeration: Numeration(e.Answer),
		})
	}
	return clues, nil
}

// Page is everything needed to draw one puzzle.
type Page struct {
	Grid   Grid   `json:"grid"`
	Across []Clue `json:"across"`
	Down   []Clue `json:"down"`
}

// Render builds the grid and both clue lists for a puzzle.
func Render(p Puzzle) (Page, error) {
	grid, err := BuildGrid(p.Entries, p.Size)
	if err != nil {
		return Page{}, err
	}
	across, err := ListClues(p.Entries, grid, false)
	if err != nil {
		return Page{}, err
	}
	down, err := ListClues(p.Entries, grid, true)
	if err != nil {
		return Page{}, err
	}
	if across == nil {
		across = []Clue{}
	}
	if down == nil {
		down = []Clue{}
	}
	return Page{Grid: grid, Across: across, Down: down}, nil
}
