package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/threepins/xword/internal/crossword"
	"github.com/threepins/xword/internal/ipuz"
)

const pubDateLayout = "02 Jan 2006"

type PuzzleResponse struct {
	Author  string           `json:"author"`
	Number  int              `json:"number"`
	Size    int              `json:"size"`
	PubDate string           `json:"pub_date"`
	Draft   bool             `json:"draft"`
	Grid    crossword.Grid   `json:"grid"`
	Across  []crossword.Clue `json:"across"`
	Down    []crossword.Clue `json:"down"`
	Prev    *int             `json:"prev,omitempty"`
	Next    *int             `json:"next,omitempty"`
}

type PuzzleListItem struct {
	Number  int    `json:"number"`
	PubDate string `json:"pub_date"`
	Draft   bool   `json:"draft"`
}

type PuzzleListResponse struct {
	Author  string           `json:"author"`
	Puzzles []PuzzleListItem `json:"puzzles"`
}

type AuthorListItem struct {
	Author  string           `json:"author"`
	Puzzles []PuzzleListItem `json:"puzzles"`
}

// canView reports whether viewer may see rec. Drafts are visible to their
// author and to staff only.
func canView(rec PuzzleRecord, viewer Author, identified bool, now time.Time) bool {
	if rec.Published(now) {
		return true
	}
	return identified && (viewer.ID == rec.AuthorID || viewer.IsStaff)
}

func puzzleOf(rec PuzzleRecord, gridSize int) crossword.Puzzle {
	size := rec.Size
	if size <= 0 {
		size = gridSize
	}
	return crossword.Puzzle{Size: size, Entries: rec.Entries}
}

func renderPuzzle(rec PuzzleRecord, opts Options, withLetters bool) (PuzzleResponse, error) {
	p := puzzleOf(rec, opts.GridSize)
	page, err := crossword.Render(p)
	if err != nil {
		return PuzzleResponse{}, fmt.Errorf("rendering %s/%d: %w", rec.Author, rec.Number, err)
	}
	if !withLetters {
		page.Grid = page.Grid.WithoutLetters()
	}
	return PuzzleResponse{
		Author:  rec.Author,
		Number:  rec.Number,
		Size:    p.Size,
		PubDate: rec.PubDate.Format(pubDateLayout),
		Draft:   !rec.Published(opts.Now()),
		Grid:    page.Grid,
		Across:  page.Across,
		Down:    page.Down,
	}, nil
}

func parseNumber(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	return n, err == nil && n > 0
}

// loadVisiblePuzzle fetches the puzzle named in the URL and writes the
// error response itself when it cannot be shown.
func loadVisiblePuzzle(w http.ResponseWriter, r *http.Request, logger *slog.Logger, store Store, opts Options) (PuzzleRecord, bool) {
	author := chi.URLParam(r, "author")
	number, ok := parseNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid puzzle number")
		return PuzzleRecord{}, false
	}

	rec, err := store.GetPuzzle(r.Context(), author, number)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return PuzzleRecord{}, false
	}
	if err != nil {
		logger.Error("loading puzzle", "author", author, "number", number, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return PuzzleRecord{}, false
	}

	viewer, identified := viewerFrom(r, store)
	if !canView(rec, viewer, identified, opts.Now()) {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return PuzzleRecord{}, false
	}
	return rec, true
}

// neighbours finds the closest visible puzzle numbers either side of number.
func neighbours(list []PuzzleSummary, number int, visible func(PuzzleSummary) bool) (prev, next *int) {
	for _, ps := range list {
		if !visible(ps) {
			continue
		}
		n := ps.Number
		switch {
		case n < number:
			prev = &n
		case n > number && next == nil:
			next = &n
		}
	}
	return prev, next
}

func handleGetPuzzle(logger *slog.Logger, store Store, opts Options, withLetters bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := loadVisiblePuzzle(w, r, logger, store, opts)
		if !ok {
			return
		}

		resp, err := renderPuzzle(rec, opts, withLetters)
		if err != nil {
			logger.Error("rendering puzzle", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		list, err := store.ListPuzzles(r.Context(), rec.Author)
		if err != nil {
			logger.Error("listing puzzles", "author", rec.Author, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		viewer, identified := viewerFrom(r, store)
		now := opts.Now()
		resp.Prev, resp.Next = neighbours(list, rec.Number, func(ps PuzzleSummary) bool {
			return canView(PuzzleRecord{AuthorID: rec.AuthorID, PubDate: ps.PubDate}, viewer, identified, now)
		})

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleLatestPuzzle(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.LatestPuzzle(r.Context(), opts.Now())
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no published puzzles")
			return
		}
		if err != nil {
			logger.Error("loading latest puzzle", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp, err := renderPuzzle(rec, opts, false)
		if err != nil {
			logger.Error("rendering puzzle", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleListPuzzles(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "author")
		author, err := store.AuthorByUsername(r.Context(), username)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "author not found")
			return
		}
		if err != nil {
			logger.Error("loading author", "author", username, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		list, err := store.ListPuzzles(r.Context(), username)
		if err != nil {
			logger.Error("listing puzzles", "author", username, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		viewer, identified := viewerFrom(r, store)
		now := opts.Now()
		resp := PuzzleListResponse{Author: username, Puzzles: []PuzzleListItem{}}
		for _, ps := range list {
			if !canView(PuzzleRecord{AuthorID: author.ID, PubDate: ps.PubDate}, viewer, identified, now) {
				continue
			}
			resp.Puzzles = append(resp.Puzzles, PuzzleListItem{
				Number:  ps.Number,
				PubDate: ps.PubDate.Format(pubDateLayout),
				Draft:   ps.PubDate.After(now),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleExportIpuz(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := loadVisiblePuzzle(w, r, logger, store, opts)
		if !ok {
			return
		}

		doc, err := ipuz.Export(puzzleOf(rec, opts.GridSize))
		if err != nil {
			logger.Error("exporting ipuz", "author", rec.Author, "number", rec.Number, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s-%d.ipuz"`, rec.Author, rec.Number))
		writeJSON(w, http.StatusOK, doc)
	}
}

// handleListAuthors lists every author with published puzzles. Drafts are
// never included, whoever asks.
func handleListAuthors(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authors, err := store.ListAuthors(r.Context(), opts.Now())
		if err != nil {
			logger.Error("listing authors", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items := make([]AuthorListItem, 0, len(authors))
		for _, a := range authors {
			item := AuthorListItem{Author: a.Username, Puzzles: make([]PuzzleListItem, 0, len(a.Puzzles))}
			for _, ps := range a.Puzzles {
				item.Puzzles = append(item.Puzzles, PuzzleListItem{
					Number:  ps.Number,
					PubDate: ps.PubDate.Format(pubDateLayout),
				})
			}
			items = append(items, item)
		}
		writeJSON(w, http.StatusOK, items)
	}
}
