package ipuz

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/threepins/xword/internal/crossword"
)

// Import converts a document into puzzle entries. Each clue's answer is read
// from the solution matrix, starting at the square numbered with the clue
// number and stopping at a block or the edge of the grid. Separators from
// the clue's enumeration are put back into the answer.
func Import(doc *Document) (crossword.Puzzle, error) {
	block := doc.BlockMarker()
	p := crossword.Puzzle{Size: doc.Dimensions.Width}

	for _, dir := range []struct {
		name  string
		down  bool
		clues []Clue
	}{
		{"Across", false, doc.Clues.Across},
		{"Down", true, doc.Clues.Down},
	} {
		for _, c := range dir.clues {
			start, ok := doc.startOf(c.Number)
			if !ok {
				return crossword.Puzzle{}, fmt.Errorf("%s clue %d: %w", dir.name, c.Number, ErrClueNotFound)
			}
			answer, err := doc.answer(c, dir.down, start, block)
			if err != nil {
				return crossword.Puzzle{}, fmt.Errorf("%s clue %d: %w", dir.name, c.Number, err)
			}
			p.Entries = append(p.Entries, crossword.Entry{
				Clue:   html.EscapeString(c.Clue),
				Answer: answer,
				X:      start.X,
				Y:      start.Y,
				Down:   dir.down,
			})
		}
	}
	return p, nil
}

// ImportBlank returns the grid size and block squares of a document's
// puzzle matrix, for use as an empty grid template.
func ImportBlank(doc *Document) (int, []crossword.Point) {
	block := doc.BlockMarker()
	var blocks []crossword.Point
	for y, row := range doc.Puzzle {
		for x, cell := range row {
			if cell.is(block) {
				blocks = append(blocks, crossword.Point{X: x, Y: y})
			}
		}
	}
	return doc.Dimensions.Width, blocks
}

// startOf finds the first square, in reading order, labelled number.
func (d *Document) startOf(number int) (crossword.Point, bool) {
	for y, row := range d.Puzzle {
		for x, cell := range row {
			if n, ok := cell.Number(); ok && n == number && !cell.isZero() {
				return crossword.Point{X: x, Y: y}, true
			}
		}
	}
	return crossword.Point{}, false
}

func (d *Document) answer(c Clue, down bool, start crossword.Point, block string) (string, error) {
	lengths, seps, err := parseEnumeration(c.Enumeration)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	total, inGroup, group := 0, 0, 0
	x, y := start.X, start.Y
	for x < d.Dimensions.Width && y < d.height() && y < len(d.Solution) && x < len(d.Solution[y]) {
		cell := d.Solution[y][x]
		if cell.IsNull() || cell.is(block) {
			break
		}
		switch {
		case cell.isZero():
			b.WriteRune(crossword.Placeholder)
		case cell.kind == cellText && utf8.RuneCountInString(cell.text) == 1:
			b.WriteString(cell.text)
		default:
			return "", fmt.Errorf("%w: solution at (%d,%d) is not a single letter", ErrMalformed, x, y)
		}
		total++
		inGroup++

		if group < len(seps) && inGroup == lengths[group] {
			b.WriteByte(seps[group])
			group++
			inGroup = 0
		}

		if down {
			y++
		} else {
			x++
		}
	}

	if total == 0 {
		return "", fmt.Errorf("%w: empty answer", ErrMalformed)
	}
	return strings.TrimRight(b.String(), " -"), nil
}

// parseEnumeration splits "2,1" or "1-2" into word lengths and the
// separators that follow each word but the last: ' ' for a comma, '-' for a
// hyphen. Spaces and parentheses are ignored; an empty enumeration means a
// single word.
func parseEnumeration(enum string) ([]int, []byte, error) {
	enum = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '(', ')':
			return -1
		}
		return r
	}, enum)
	if enum == "" {
		return nil, nil, nil
	}

	var (
		lengths []int
		seps    []byte
	)
	start := 0
	for i := 0; i <= len(enum); i++ {
		if i < len(enum) && enum[i] != ',' && enum[i] != '-' {
			continue
		}
		n, err := strconv.Atoi(enum[start:i])
		if err != nil || n <= 0 {
			return nil, nil, fmt.Errorf("%w: enumeration %q", ErrMalformed, enum)
		}
		lengths = append(lengths, n)
		if i < len(enum) {
			sep := byte(' ')
			if enum[i] == '-' {
				sep = '-'
			}
			seps = append(seps, sep)
		}
		start = i + 1
	}
	return lengths, seps, nil
}
