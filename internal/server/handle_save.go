package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/threepins/xword/internal/crossword"
	"github.com/threepins/xword/internal/ipuz"
)

type SavePuzzleRequest struct {
	// Author defaults to the authenticated user. Any other name is refused.
	Author string `json:"author,omitempty"`
	// Number defaults to the author's next free number.
	Number int  `json:"number,omitempty"`
	Public bool `json:"public"`
	// Ipuz is the puzzle document, inline or as a JSON string.
	Ipuz json.RawMessage `json:"ipuz"`
}

type SavePuzzleResponse struct {
	Author  string `json:"author"`
	Number  int    `json:"number"`
	PubDate string `json:"pub_date"`
	Draft   bool   `json:"draft"`
}

// ipuzBytes unwraps a document that was sent as a JSON string.
func ipuzBytes(raw json.RawMessage) ([]byte, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
	return raw, nil
}

func handleSavePuzzle(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author := authorFrom(r)

		var req SavePuzzleRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Author != "" && req.Author != author.Username {
			writeError(w, http.StatusForbidden, ErrForbidden.Error())
			return
		}
		if req.Number < 0 {
			writeError(w, http.StatusBadRequest, "number must be positive")
			return
		}
		if len(req.Ipuz) == 0 {
			writeError(w, http.StatusBadRequest, "ipuz is required")
			return
		}

		data, err := ipuzBytes(req.Ipuz)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid ipuz string")
			return
		}
		doc, err := ipuz.Parse(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := ipuz.Import(doc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := crossword.BuildGrid(p.Entries, p.Size); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		pubDate := DraftPubDate
		if req.Public {
			pubDate = opts.Now().UTC()
		}
		number, err := store.SavePuzzle(r.Context(), author.ID, req.Number, p, pubDate)
		if err != nil {
			logger.Error("saving puzzle", "author", author.Username, "number", req.Number, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("puzzle saved",
			"author", author.Username,
			"number", number,
			"entries", len(p.Entries),
			"public", req.Public,
		)
		writeJSON(w, http.StatusCreated, SavePuzzleResponse{
			Author:  author.Username,
			Number:  number,
			PubDate: pubDate.Format(pubDateLayout),
			Draft:   !req.Public,
		})
	}
}

// errStatus maps store errors that reach a handler to a status code.
func errStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
