package ipuz

import (
	"html"

	"github.com/threepins/xword/internal/crossword"
)

// Export writes a puzzle as an ipuz document. Enumerations are derived from
// the stored answers, so Import(Export(p)) gives back the same answers
// (upper-cased).
func Export(p crossword.Puzzle) (*Document, error) {
	grid, err := crossword.BuildGrid(p.Entries, p.Size)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:          Version,
		Kind:             []string{Kind},
		Dimensions:       Dimensions{Width: p.Size, Height: p.Size},
		ShowEnumerations: true,
		Puzzle:           make([][]Cell, p.Size),
		Solution:         make([][]Cell, p.Size),
		Clues:            Clues{Across: []Clue{}, Down: []Clue{}},
	}
	for y, row := range grid {
		doc.Puzzle[y] = make([]Cell, len(row))
		doc.Solution[y] = make([]Cell, len(row))
		for x, c := range row {
			switch {
			case !c.IsLight():
				doc.Puzzle[y][x] = TextCell(DefaultBlock)
				doc.Solution[y][x] = TextCell(DefaultBlock)
				continue
			case c.Number > 0:
				doc.Puzzle[y][x] = NumberCell(c.Number)
			default:
				doc.Puzzle[y][x] = NumberCell(0)
			}
			if c.Letter == "" {
				doc.Solution[y][x] = NumberCell(0)
			} else {
				doc.Solution[y][x] = TextCell(c.Letter)
			}
		}
	}

	for _, down := range []bool{false, true} {
		clues, err := crossword.ListClues(p.Entries, grid, down)
		if err != nil {
			return nil, err
		}
		for _, c := range clues {
			ic := Clue{Number: c.Number, Clue: html.UnescapeString(c.Clue), Enumeration: c.Numeration}
			if down {
				doc.Clues.Down = append(doc.Clues.Down, ic)
			} else {
				doc.Clues.Across = append(doc.Clues.Across, ic)
			}
		}
	}
	return doc, nil
}
