package server

import (
	"context"
	"errors"
	"time"

	"github.com/threepins/xword/internal/crossword"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrForbidden     = errors.New("forbidden")
)

// DraftPubDate is the publication date given to puzzles saved as private.
var DraftPubDate = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

type Author struct {
	ID           string
	Username     string
	PasswordHash string
	IsStaff      bool
}

// PuzzleRecord is a stored puzzle together with its entries.
type PuzzleRecord struct {
	ID       string
	AuthorID string
	Author   string
	Number   int
	Size     int
	PubDate  time.Time
	Comments string
	Entries  []crossword.Entry
}

func (p PuzzleRecord) Published(now time.Time) bool {
	return !p.PubDate.After(now)
}

type PuzzleSummary struct {
	Number  int
	PubDate time.Time
}

// AuthorPuzzles is an author with their published puzzles, newest number
// first.
type AuthorPuzzles struct {
	Username string
	Puzzles  []PuzzleSummary
}

type Blank struct {
	ID           string
	Size         int
	DisplayOrder int
	Blocks       []crossword.Point
}

type Store interface {
	AuthorByUsername(ctx context.Context, username string) (Author, error)
	CreateAuthor(ctx context.Context, username, passwordHash string, staff bool) (Author, error)
	HasStaff(ctx context.Context) (bool, error)

	// SavePuzzle replaces any puzzle stored under (authorID, number), and all
	// of its entries, in one transaction. A zero number takes the author's
	// next free number, allocated inside the same transaction. It returns the
	// number used.
	SavePuzzle(ctx context.Context, authorID string, number int, p crossword.Puzzle, pubDate time.Time) (int, error)
	// ReplaceEntries swaps the entries of an existing puzzle in one
	// transaction. A positive size also updates the puzzle's size.
	ReplaceEntries(ctx context.Context, authorID string, number int, p crossword.Puzzle) error
	GetPuzzle(ctx context.Context, username string, number int) (PuzzleRecord, error)
	// LatestPuzzle returns the most recently published puzzle by a staff author.
	LatestPuzzle(ctx context.Context, now time.Time) (PuzzleRecord, error)
	// ListPuzzles returns every puzzle of the author, lowest number first.
	ListPuzzles(ctx context.Context, username string) ([]PuzzleSummary, error)
	// ListAuthors returns, by username, every author with at least one
	// puzzle published by now.
	ListAuthors(ctx context.Context, now time.Time) ([]AuthorPuzzles, error)

	CreateBlank(ctx context.Context, size, displayOrder int, blocks []crossword.Point) (Blank, error)
	// ListBlanks orders blanks by display order, then creation.
	ListBlanks(ctx context.Context) ([]Blank, error)
	GetBlank(ctx context.Context, id string) (Blank, error)
}
