// Package ccxml imports puzzles saved in Crossword Compiler's XML format.
package ccxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/threepins/xword/internal/crossword"
)

// Namespace is the XML namespace of the rectangular-puzzle elements.
const Namespace = "http://crossword.info/xml/rectangular-puzzle"

var (
	ErrMalformed    = errors.New("malformed crossword xml")
	ErrClueNotFound = errors.New("no clue for word")
	ErrCellNotFound = errors.New("no cell for word square")
)

type crosswordElem struct {
	Grid  gridElem    `xml:"http://crossword.info/xml/rectangular-puzzle grid"`
	Words []wordElem  `xml:"http://crossword.info/xml/rectangular-puzzle word"`
	Clues []cluesElem `xml:"http://crossword.info/xml/rectangular-puzzle clues"`
}

type gridElem struct {
	Width  int        `xml:"width,attr"`
	Height int        `xml:"height,attr"`
	Cells  []cellElem `xml:"http://crossword.info/xml/rectangular-puzzle cell"`
}

type cellElem struct {
	X        int    `xml:"x,attr"`
	Y        int    `xml:"y,attr"`
	Solution string `xml:"solution,attr"`
}

type wordElem struct {
	ID       string  `xml:"id,attr"`
	X        string  `xml:"x,attr"`
	Y        string  `xml:"y,attr"`
	Solution *string `xml:"solution,attr"`
}

type cluesElem struct {
	Clues []clueElem `xml:"http://crossword.info/xml/rectangular-puzzle clue"`
}

type clueElem struct {
	Word string `xml:"word,attr"`
	Text string `xml:",chardata"`
}

// Import reads a Crossword Compiler document and returns its entries with
// zero-based coordinates. A word without an inline solution takes its
// letters, lower-cased, from the grid cells it covers.
func Import(r io.Reader) (crossword.Puzzle, error) {
	cw, err := decodeCrossword(r)
	if err != nil {
		return crossword.Puzzle{}, err
	}

	if w, h := cw.Grid.Width, cw.Grid.Height; w < 1 || w > crossword.MaxSize || h < 0 || h > crossword.MaxSize {
		return crossword.Puzzle{}, fmt.Errorf("%w: grid %dx%d", ErrMalformed, w, h)
	}

	clues := make(map[string]string)
	for _, list := range cw.Clues {
		for _, c := range list.Clues {
			clues[c.Word] = strings.TrimSpace(c.Text)
		}
	}
	cells := make(map[crossword.Point]string, len(cw.Grid.Cells))
	for _, c := range cw.Grid.Cells {
		cells[crossword.Point{X: c.X, Y: c.Y}] = c.Solution
	}

	p := crossword.Puzzle{Size: cw.Grid.Width}
	for _, w := range cw.Words {
		xStart, xEnd, err := parseRange(w.X)
		if err != nil {
			return crossword.Puzzle{}, fmt.Errorf("word %s: %w", w.ID, err)
		}
		yStart, yEnd, err := parseRange(w.Y)
		if err != nil {
			return crossword.Puzzle{}, fmt.Errorf("word %s: %w", w.ID, err)
		}
		down := yEnd > yStart

		clue, ok := clues[w.ID]
		if !ok {
			return crossword.Puzzle{}, fmt.Errorf("word %s: %w", w.ID, ErrClueNotFound)
		}

		var answer string
		if w.Solution != nil {
			answer = *w.Solution
		} else {
			var b strings.Builder
			x, y := xStart, yStart
			for x <= xEnd && y <= yEnd {
				letter, ok := cells[crossword.Point{X: x, Y: y}]
				if !ok {
					return crossword.Puzzle{}, fmt.Errorf("word %s at (%d,%d): %w", w.ID, x, y, ErrCellNotFound)
				}
				b.WriteString(strings.ToLower(letter))
				if down {
					y++
				} else {
					x++
				}
			}
			answer = b.String()
		}

		p.Entries = append(p.Entries, crossword.Entry{
			Clue:   html.EscapeString(clue),
			Answer: answer,
			X:      xStart - 1,
			Y:      yStart - 1,
			Down:   down,
		})
	}
	return p, nil
}

// decodeCrossword finds the crossword element, wherever it sits under the
// document root, and decodes it.
func decodeCrossword(r io.Reader) (*crosswordElem, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no crossword element", ErrMalformed)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != Namespace || start.Name.Local != "crossword" {
			continue
		}
		var cw crosswordElem
		if err := dec.DecodeElement(&cw, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return &cw, nil
	}
}

// parseRange reads "3" or "3-7" as an inclusive one-based range.
func parseRange(s string) (int, int, error) {
	first, last, isRange := strings.Cut(s, "-")
	start, err := strconv.Atoi(first)
	if err != nil || start < 1 {
		return 0, 0, fmt.Errorf("%w: coordinate %q", ErrMalformed, s)
	}
	if !isRange {
		return start, start, nil
	}
	end, err := strconv.Atoi(last)
	if err != nil || end < start {
		return 0, 0, fmt.Errorf("%w: coordinate %q", ErrMalformed, s)
	}
	return start, end, nil
}
