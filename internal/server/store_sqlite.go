package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/threepins/xword/internal/crossword"
	"github.com/threepins/xword/internal/database"
)

const timeFormat = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime reads a stored timestamp. The driver hands TEXT timestamps back
// as RFC 3339 with trailing zero fractions dropped.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

type SQLiteStore struct {
	db    *sql.DB
	locks *keyedMutex
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, locks: newKeyedMutex()}
}

// boolInt stores booleans as SQLite integers.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Authors

func (s *SQLiteStore) AuthorByUsername(ctx context.Context, username string) (Author, error) {
	var a Author
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_staff
		FROM authors
		WHERE username = ?
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.IsStaff)
	if errors.Is(err, sql.ErrNoRows) {
		return Author{}, ErrNotFound
	}
	return a, err
}

func (s *SQLiteStore) CreateAuthor(ctx context.Context, username, passwordHash string, staff bool) (Author, error) {
	a := Author{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash, IsStaff: staff}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO authors (id, username, password_hash, is_staff, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.Username, a.PasswordHash, boolInt(a.IsStaff), formatTime(time.Now()))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return Author{}, ErrUsernameTaken
	}
	if err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *SQLiteStore) HasStaff(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM authors WHERE is_staff = 1)`,
	).Scan(&exists)
	return exists, err
}

// Puzzles

func nextPuzzleNumber(ctx context.Context, tx *sql.Tx, authorID string) (int, error) {
	var next int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM puzzles WHERE author_id = ?`, authorID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("allocating puzzle number: %w", err)
	}
	return next, nil
}

func (s *SQLiteStore) SavePuzzle(ctx context.Context, authorID string, number int, p crossword.Puzzle, pubDate time.Time) (int, error) {
	unlock := s.locks.lock(authorID)
	defer unlock()

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if number == 0 {
			var err error
			if number, err = nextPuzzleNumber(ctx, tx, authorID); err != nil {
				return err
			}
		}

		// Entries are removed explicitly: foreign_keys is a per-connection
		// PRAGMA and pooled connections may not have it set.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM entries
			WHERE puzzle_id IN (SELECT id FROM puzzles WHERE author_id = ? AND number = ?)
		`, authorID, number); err != nil {
			return fmt.Errorf("deleting old entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM puzzles WHERE author_id = ? AND number = ?`, authorID, number,
		); err != nil {
			return fmt.Errorf("deleting old puzzle: %w", err)
		}

		id := uuid.NewString()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO puzzles (id, author_id, number, size, pub_date)
			VALUES (?, ?, ?, ?, ?)
		`, id, authorID, number, p.Size, formatTime(pubDate)); err != nil {
			return fmt.Errorf("inserting puzzle: %w", err)
		}
		return insertEntries(ctx, tx, id, p.Entries)
	})
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (s *SQLiteStore) ReplaceEntries(ctx context.Context, authorID string, number int, p crossword.Puzzle) error {
	unlock := s.locks.lock(authorID)
	defer unlock()

	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM puzzles WHERE author_id = ? AND number = ?`, authorID, number,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if p.Size > 0 {
			if _, err := tx.ExecContext(ctx, `UPDATE puzzles SET size = ? WHERE id = ?`, p.Size, id); err != nil {
				return fmt.Errorf("updating size: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE puzzle_id = ?`, id); err != nil {
			return fmt.Errorf("deleting old entries: %w", err)
		}
		return insertEntries(ctx, tx, id, p.Entries)
	})
}

func insertEntries(ctx context.Context, tx *sql.Tx, puzzleID string, entries []crossword.Entry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, puzzle_id, clue, answer, x, y, down)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), puzzleID, e.Clue, e.Answer, e.X, e.Y, boolInt(e.Down)); err != nil {
			return fmt.Errorf("inserting entry %q: %w", e.Clue, err)
		}
	}
	return nil
}

const selectPuzzle = `
	SELECT p.id, p.author_id, a.username, p.number, p.size, p.pub_date, p.comments
	FROM puzzles p
	JOIN authors a ON a.id = p.author_id
`

func (s *SQLiteStore) GetPuzzle(ctx context.Context, username string, number int) (PuzzleRecord, error) {
	row := s.db.QueryRowContext(ctx, selectPuzzle+`WHERE a.username = ? AND p.number = ?`, username, number)
	return s.loadPuzzle(ctx, row)
}

func (s *SQLiteStore) LatestPuzzle(ctx context.Context, now time.Time) (PuzzleRecord, error) {
	row := s.db.QueryRowContext(ctx, selectPuzzle+`
		WHERE a.is_staff = 1 AND p.pub_date <= ?
		ORDER BY p.pub_date DESC, p.number DESC
		LIMIT 1
	`, formatTime(now))
	return s.loadPuzzle(ctx, row)
}

func (s *SQLiteStore) loadPuzzle(ctx context.Context, row *sql.Row) (PuzzleRecord, error) {
	var (
		p       PuzzleRecord
		pubDate string
	)
	err := row.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Number, &p.Size, &pubDate, &p.Comments)
	if errors.Is(err, sql.ErrNoRows) {
		return PuzzleRecord{}, ErrNotFound
	}
	if err != nil {
		return PuzzleRecord{}, err
	}
	if p.PubDate, err = parseTime(pubDate); err != nil {
		return PuzzleRecord{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT clue, answer, x, y, down
		FROM entries
		WHERE puzzle_id = ?
		ORDER BY down, y, x
	`, p.ID)
	if err != nil {
		return PuzzleRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var e crossword.Entry
		if err := rows.Scan(&e.Clue, &e.Answer, &e.X, &e.Y, &e.Down); err != nil {
			return PuzzleRecord{}, err
		}
		p.Entries = append(p.Entries, e)
	}
	return p, rows.Err()
}

func (s *SQLiteStore) ListPuzzles(ctx context.Context, username string) ([]PuzzleSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.number, p.pub_date
		FROM puzzles p
		JOIN authors a ON a.id = p.author_id
		WHERE a.username = ?
		ORDER BY p.number
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []PuzzleSummary
	for rows.Next() {
		var (
			ps      PuzzleSummary
			pubDate string
		)
		if err := rows.Scan(&ps.Number, &pubDate); err != nil {
			return nil, err
		}
		if ps.PubDate, err = parseTime(pubDate); err != nil {
			return nil, err
		}
		list = append(list, ps)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) ListAuthors(ctx context.Context, now time.Time) ([]AuthorPuzzles, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.username, p.number, p.pub_date
		FROM puzzles p
		JOIN authors a ON a.id = p.author_id
		WHERE p.pub_date <= ?
		ORDER BY a.username, p.number DESC
	`, formatTime(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []AuthorPuzzles
	for rows.Next() {
		var (
			username string
			ps       PuzzleSummary
			pubDate  string
		)
		if err := rows.Scan(&username, &ps.Number, &pubDate); err != nil {
			return nil, err
		}
		if ps.PubDate, err = parseTime(pubDate); err != nil {
			return nil, err
		}
		if n := len(authors); n == 0 || authors[n-1].Username != username {
			authors = append(authors, AuthorPuzzles{Username: username})
		}
		last := &authors[len(authors)-1]
		last.Puzzles = append(last.Puzzles, ps)
	}
	return authors, rows.Err()
}

// Blank grids

func (s *SQLiteStore) CreateBlank(ctx context.Context, size, displayOrder int, blocks []crossword.Point) (Blank, error) {
	b := Blank{ID: uuid.NewString(), Size: size, DisplayOrder: displayOrder, Blocks: blocks}
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blanks (id, size, display_order, created_at)
			VALUES (?, ?, ?, ?)
		`, b.ID, b.Size, b.DisplayOrder, formatTime(time.Now())); err != nil {
			return fmt.Errorf("inserting blank: %w", err)
		}
		for _, p := range blocks {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO blocks (blank_id, x, y) VALUES (?, ?, ?)`, b.ID, p.X, p.Y,
			); err != nil {
				return fmt.Errorf("inserting block: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Blank{}, err
	}
	return b, nil
}

func (s *SQLiteStore) ListBlanks(ctx context.Context) ([]Blank, error) {
	// Materialize blanks first; SQLite can't have concurrent cursors.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, size, display_order
		FROM blanks
		ORDER BY display_order, created_at, id
	`)
	if err != nil {
		return nil, err
	}
	var blanks []Blank
	index := make(map[string]int)
	for rows.Next() {
		var b Blank
		if err := rows.Scan(&b.ID, &b.Size, &b.DisplayOrder); err != nil {
			rows.Close()
			return nil, err
		}
		index[b.ID] = len(blanks)
		blanks = append(blanks, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT blank_id, x, y FROM blocks ORDER BY blank_id, y, x`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id string
			p  crossword.Point
		)
		if err := rows.Scan(&id, &p.X, &p.Y); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			blanks[i].Blocks = append(blanks[i].Blocks, p)
		}
	}
	return blanks, rows.Err()
}

func (s *SQLiteStore) GetBlank(ctx context.Context, id string) (Blank, error) {
	var b Blank
	err := s.db.QueryRowContext(ctx,
		`SELECT id, size, display_order FROM blanks WHERE id = ?`, id,
	).Scan(&b.ID, &b.Size, &b.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return Blank{}, ErrNotFound
	}
	if err != nil {
		return Blank{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT x, y FROM blocks WHERE blank_id = ? ORDER BY y, x`, id)
	if err != nil {
		return Blank{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var p crossword.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return Blank{}, err
		}
		b.Blocks = append(b.Blocks, p)
	}
	return b, rows.Err()
}
