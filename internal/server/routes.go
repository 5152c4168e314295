package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Three Pins API", "/openapi.json", "/docs"))

	r.Get("/api/authors", handleListAuthors(logger, store, opts))

	r.Route("/api/puzzles", func(r chi.Router) {
		r.With(authorMiddleware(logger, store, true)).Post("/", handleSavePuzzle(logger, store, opts))

		r.Get("/latest", handleLatestPuzzle(logger, store, opts))
		r.Get("/{author}", handleListPuzzles(logger, store, opts))
		r.Get("/{author}/{number}", handleGetPuzzle(logger, store, opts, false))
		r.Get("/{author}/{number}/solution", handleGetPuzzle(logger, store, opts, true))
		r.Get("/{author}/{number}/ipuz", handleExportIpuz(logger, store, opts))

		// Author or staff only; checked in the handler.
		r.With(authorMiddleware(logger, store, false)).Post("/{author}/{number}/xml", handleImportXML(logger, store))
	})

	r.Route("/api/blanks", func(r chi.Router) {
		r.Get("/", handleListBlanks(logger, store, opts))
		r.Get("/{id}/thumbnail.svg", handleBlankThumbnail(logger, store, opts))

		r.Group(func(r chi.Router) {
			r.Use(authorMiddleware(logger, store, false))
			r.Use(staffOnly)
			r.Post("/", handleCreateBlank(logger, store, opts))
		})
	})
}
