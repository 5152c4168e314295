package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/threepins/xword/internal/crossword"
	"github.com/threepins/xword/internal/ipuz"
)

const defaultDisplayOrder = 100

type BlankItem struct {
	ID           string `json:"id"`
	Size         int    `json:"size"`
	DisplayOrder int    `json:"display_order"`
	Blocks       int    `json:"blocks"`
	Thumbnail    string `json:"thumbnail"`
}

func blankItem(b Blank, square int) BlankItem {
	return BlankItem{
		ID:           b.ID,
		Size:         b.Size,
		DisplayOrder: b.DisplayOrder,
		Blocks:       len(b.Blocks),
		Thumbnail:    crossword.Thumbnail(b.Size, b.Blocks, square),
	}
}

func handleListBlanks(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blanks, err := store.ListBlanks(r.Context())
		if err != nil {
			logger.Error("listing blanks", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items := make([]BlankItem, 0, len(blanks))
		for _, b := range blanks {
			items = append(items, blankItem(b, opts.ThumbnailSquare))
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleBlankThumbnail(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := store.GetBlank(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "blank not found")
			return
		}
		if err != nil {
			logger.Error("loading blank", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(crossword.Thumbnail(b.Size, b.Blocks, opts.ThumbnailSquare)))
	}
}

// handleCreateBlank stores the block squares of an uploaded ipuz document
// as a new blank grid.
func handleCreateBlank(logger *slog.Logger, store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order := defaultDisplayOrder
		if v := r.URL.Query().Get("display_order"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid display_order")
				return
			}
			order = n
		}

		body, err := readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		doc, err := ipuz.Parse(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		size, blocks := ipuz.ImportBlank(doc)
		b, err := store.CreateBlank(r.Context(), size, order, blocks)
		if err != nil {
			logger.Error("creating blank", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("blank created", "id", b.ID, "size", b.Size, "blocks", len(b.Blocks))
		writeJSON(w, http.StatusCreated, blankItem(b, opts.ThumbnailSquare))
	}
}
