package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/threepins/xword/internal/ccxml"
	"github.com/threepins/xword/internal/crossword"
)

type ImportXMLResponse struct {
	Author  string `json:"author"`
	Number  int    `json:"number"`
	Size    int    `json:"size"`
	Entries int    `json:"entries"`
}

// handleImportXML replaces the entries of an existing puzzle with those of
// a Crossword Compiler document.
func handleImportXML(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := authorFrom(r)
		username := chi.URLParam(r, "author")
		number, ok := parseNumber(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid puzzle number")
			return
		}
		if caller.Username != username && !caller.IsStaff {
			writeError(w, http.StatusForbidden, ErrForbidden.Error())
			return
		}

		owner, err := store.AuthorByUsername(r.Context(), username)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logger.Error("loading author", "author", username, "error", err)
			}
			writeError(w, errStatus(err), "puzzle not found")
			return
		}

		body, err := readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := ccxml.Import(bytes.NewReader(body))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := crossword.BuildGrid(p.Entries, p.Size); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.ReplaceEntries(r.Context(), owner.ID, number, p); err != nil {
			status := errStatus(err)
			if status == http.StatusInternalServerError {
				logger.Error("replacing entries", "author", username, "number", number, "error", err)
				writeError(w, status, "internal error")
				return
			}
			writeError(w, status, "puzzle not found")
			return
		}

		logger.Info("puzzle imported from xml", "author", username, "number", number, "entries", len(p.Entries))
		writeJSON(w, http.StatusOK, ImportXMLResponse{
			Author:  username,
			Number:  number,
			Size:    p.Size,
			Entries: len(p.Entries),
		})
	}
}
