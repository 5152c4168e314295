// Package ipuz reads and writes crossword puzzles in the ipuz JSON format.
package ipuz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/threepins/xword/internal/crossword"
)

const (
	Version = "http://ipuz.org/v2"
	Kind    = "http://ipuz.org/crossword#1"

	// DefaultBlock is the block marker used when a document names none.
	DefaultBlock = "#"
)

var (
	ErrMalformed    = errors.New("malformed ipuz document")
	ErrClueNotFound = errors.New("clue number not found in puzzle grid")
)

// Document is the subset of an ipuz crossword this package understands.
type Document struct {
	Version          string     `json:"version"`
	Kind             []string   `json:"kind"`
	Dimensions       Dimensions `json:"dimensions"`
	Block            string     `json:"block,omitempty"`
	ShowEnumerations bool       `json:"showenumerations,omitempty"`
	Puzzle           [][]Cell   `json:"puzzle"`
	Solution         [][]Cell   `json:"solution"`
	Clues            Clues      `json:"clues"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Parse decodes and sanity-checks an ipuz document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Dimensions.Width <= 0 {
		return nil, fmt.Errorf("%w: width must be positive", ErrMalformed)
	}
	if doc.Dimensions.Width > crossword.MaxSize || doc.Dimensions.Height > crossword.MaxSize {
		return nil, fmt.Errorf("%w: dimensions %dx%d exceed %d", ErrMalformed,
			doc.Dimensions.Width, doc.Dimensions.Height, crossword.MaxSize)
	}
	if err := doc.checkShape("puzzle", doc.Puzzle); err != nil {
		return nil, err
	}
	if err := doc.checkShape("solution", doc.Solution); err != nil {
		return nil, err
	}
	return &doc, nil
}

// checkShape rejects a non-empty matrix that disagrees with the dimensions.
func (d *Document) checkShape(name string, rows [][]Cell) error {
	if len(rows) == 0 {
		return nil
	}
	if len(rows) != d.height() {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrMalformed, name, len(rows), d.height())
	}
	for y, row := range rows {
		if len(row) != d.Dimensions.Width {
			return fmt.Errorf("%w: %s row %d has %d cells, want %d", ErrMalformed, name, y, len(row), d.Dimensions.Width)
		}
	}
	return nil
}

// BlockMarker is the document's block character, or DefaultBlock.
func (d *Document) BlockMarker() string {
	if d.Block != "" {
		return d.Block
	}
	return DefaultBlock
}

func (d *Document) height() int {
	if d.Dimensions.Height > 0 {
		return d.Dimensions.Height
	}
	return d.Dimensions.Width
}

type cellKind int

const (
	cellNull cellKind = iota
	cellNumber
	cellText
)

// Cell is one square of a puzzle or solution matrix. ipuz allows a number,
// a string, null (an omitted square) or an object carrying the value under
// "cell" (puzzle) or "value" (solution).
type Cell struct {
	kind   cellKind
	number int
	text   string
}

func NumberCell(n int) Cell { return Cell{kind: cellNumber, number: n} }

func TextCell(s string) Cell { return Cell{kind: cellText, text: s} }

func (c Cell) IsNull() bool { return c.kind == cellNull }

func (c Cell) Text() string { return c.text }

// Number returns the cell's value as a clue number. Numeric strings count.
func (c Cell) Number() (int, bool) {
	switch c.kind {
	case cellNumber:
		return c.number, true
	case cellText:
		n, err := strconv.Atoi(c.text)
		return n, err == nil
	}
	return 0, false
}

// is reports whether the cell holds the string marker.
func (c Cell) is(marker string) bool {
	return c.kind == cellText && c.text == marker
}

// isZero reports whether the cell is the numeric empty marker 0.
func (c Cell) isZero() bool {
	return c.kind == cellNumber && c.number == 0
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = Cell{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextCell(s)
		return nil
	case len(data) > 0 && data[0] == '{':
		var obj struct {
			Cell  *Cell `json:"cell"`
			Value *Cell `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.Cell != nil:
			*c = *obj.Cell
		case obj.Value != nil:
			*c = *obj.Value
		default:
			*c = Cell{}
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported cell %s", data)
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("unsupported cell %s", data)
	}
	*c = NumberCell(i)
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case cellNumber:
		return []byte(strconv.Itoa(c.number)), nil
	case cellText:
		return json.Marshal(c.text)
	}
	return []byte("null"), nil
}

// Clue is one entry of an ipuz clue list.
type Clue struct {
	Number      int    `json:"number"`
	Clue        string `json:"clue"`
	Enumeration string `json:"enumeration,omitempty"`
}

// UnmarshalJSON accepts both the object form and the [number, "clue"] pair.
// Clue numbers may be given as strings.
func (c *Clue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) < 2 {
			return fmt.Errorf("clue pair %s needs a number and text", data)
		}
		var num Cell
		if err := json.Unmarshal(pair[0], &num); err != nil {
			return err
		}
		n, ok := num.Number()
		if !ok {
			return fmt.Errorf("clue number %s is not numeric", pair[0])
		}
		*c = Clue{Number: n}
		return json.Unmarshal(pair[1], &c.Clue)
	}

	var obj struct {
		Number      Cell   `json:"number"`
		Clue        string `json:"clue"`
		Enumeration string `json:"enumeration"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	n, ok := obj.Number.Number()
	if !ok {
		return fmt.Errorf("clue number in %s is not numeric", data)
	}
	*c = Clue{Number: n, Clue: obj.Clue, Enumeration: obj.Enumeration}
	return nil
}

// Clues holds the across and down lists. Direction keys may carry a
// display name after a colon, e.g. "Across:Horizontal".
type Clues struct {
	Across []Clue `json:"Across"`
	Down   []Clue `json:"Down"`
}

func (c *Clues) UnmarshalJSON(data []byte) error {
	var lists map[string][]Clue
	if err := json.Unmarshal(data, &lists); err != nil {
		return err
	}
	*c = Clues{}
	for key, list := range lists {
		direction, _, _ := strings.Cut(key, ":")
		switch direction {
		case "Across":
			c.Across = append(c.Across, list...)
		case "Down":
			c.Down = append(c.Down, list...)
		}
	}
	return nil
}
