package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/threepins/xword/internal/handler/health"
	"github.com/threepins/xword/internal/ipuz"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type authorPath struct {
	Author string `path:"author"`
}

type puzzlePath struct {
	Author string `path:"author"`
	Number int    `path:"number"`
}

type blankPath struct {
	ID string `path:"id"`
}

type createBlankRequest struct {
	DisplayOrder int `query:"display_order" default:"100"`
	ipuz.Document
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Three Pins API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Crossword puzzles, blank grids and ipuz interchange.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/authors
	listAuthors, _ := r.NewOperationContext(http.MethodGet, "/api/authors")
	listAuthors.SetSummary("List authors")
	listAuthors.SetDescription("Authors with published puzzles, by username, newest puzzle first.")
	listAuthors.AddRespStructure([]AuthorListItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listAuthors)

	// GET /api/puzzles/latest
	getLatest, _ := r.NewOperationContext(http.MethodGet, "/api/puzzles/latest")
	getLatest.SetSummary("Latest puzzle")
	getLatest.SetDescription("The most recently published puzzle by a staff author, without letters.")
	getLatest.AddRespStructure(PuzzleResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getLatest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getLatest)

	// GET /api/puzzles/{author}
	listPuzzles, _ := r.NewOperationContext(http.MethodGet, "/api/puzzles/{author}")
	listPuzzles.SetSummary("List puzzles")
	listPuzzles.SetDescription("Published puzzles of an author. Drafts are included for the author and staff (Basic auth).")
	listPuzzles.AddReqStructure(authorPath{})
	listPuzzles.AddRespStructure(PuzzleListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listPuzzles.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(listPuzzles)

	// GET /api/puzzles/{author}/{number}
	getPuzzle, _ := r.NewOperationContext(http.MethodGet, "/api/puzzles/{author}/{number}")
	getPuzzle.SetSummary("Get puzzle")
	getPuzzle.SetDescription("Numbered grid with letters hidden, across and down clues, and neighbouring puzzle numbers.")
	getPuzzle.AddReqStructure(puzzlePath{})
	getPuzzle.AddRespStructure(PuzzleResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPuzzle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPuzzle)

	// GET /api/puzzles/{author}/{number}/solution
	getSolution, _ := r.NewOperationContext(http.MethodGet, "/api/puzzles/{author}/{number}/solution")
	getSolution.SetSummary("Get solution")
	getSolution.SetDescription("Same as Get puzzle, with the letters filled in.")
	getSolution.AddReqStructure(puzzlePath{})
	getSolution.AddRespStructure(PuzzleResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSolution.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSolution)

	// GET /api/puzzles/{author}/{number}/ipuz
	getIpuz, _ := r.NewOperationContext(http.MethodGet, "/api/puzzles/{author}/{number}/ipuz")
	getIpuz.SetSummary("Export ipuz")
	getIpuz.SetDescription("The puzzle as an ipuz v2 crossword document.")
	getIpuz.AddReqStructure(puzzlePath{})
	getIpuz.AddRespStructure(ipuz.Document{}, openapi.WithHTTPStatus(http.StatusOK))
	getIpuz.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getIpuz)

	// POST /api/puzzles
	savePuzzle, _ := r.NewOperationContext(http.MethodPost, "/api/puzzles")
	savePuzzle.SetSummary("Save puzzle")
	savePuzzle.SetDescription("Imports an ipuz document and replaces the puzzle stored under the number. " +
		"Basic auth; unknown usernames are registered on first use.")
	savePuzzle.AddReqStructure(SavePuzzleRequest{})
	savePuzzle.AddRespStructure(SavePuzzleResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	savePuzzle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	savePuzzle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	savePuzzle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(savePuzzle)

	// POST /api/puzzles/{author}/{number}/xml
	importXML, _ := r.NewOperationContext(http.MethodPost, "/api/puzzles/{author}/{number}/xml")
	importXML.SetSummary("Import Crossword Compiler XML")
	importXML.SetDescription("Replaces the entries of an existing puzzle. The body is a Crossword Compiler " +
		"XML document. Basic auth as the author or staff.")
	importXML.AddReqStructure(puzzlePath{})
	importXML.AddRespStructure(ImportXMLResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	importXML.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	importXML.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	importXML.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	importXML.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(importXML)

	// GET /api/blanks
	listBlanks, _ := r.NewOperationContext(http.MethodGet, "/api/blanks")
	listBlanks.SetSummary("List blank grids")
	listBlanks.SetDescription("Blank grids in display order, each with an SVG thumbnail.")
	listBlanks.AddRespStructure([]BlankItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listBlanks)

	// GET /api/blanks/{id}/thumbnail.svg
	getThumb, _ := r.NewOperationContext(http.MethodGet, "/api/blanks/{id}/thumbnail.svg")
	getThumb.SetSummary("Blank thumbnail")
	getThumb.AddReqStructure(blankPath{})
	getThumb.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/svg+xml"))
	getThumb.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getThumb)

	// POST /api/blanks
	createBlank, _ := r.NewOperationContext(http.MethodPost, "/api/blanks")
	createBlank.SetSummary("Create blank grid")
	createBlank.SetDescription("Stores the block cells of an ipuz puzzle matrix as a blank grid. Staff only.")
	createBlank.AddReqStructure(createBlankRequest{})
	createBlank.AddRespStructure(BlankItem{}, openapi.WithHTTPStatus(http.StatusCreated))
	createBlank.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createBlank.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	createBlank.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(createBlank)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
