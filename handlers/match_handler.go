package handlers

import (
	"net/http"
	"strconv"

	"github.com/Nikachu96/Ready-2-Dink-sub000/middleware"
	"github.com/Nikachu96/Ready-2-Dink-sub000/services"
	"github.com/go-chi/chi/v5"
)

// Score sheet photos are capped well below the R2 single-put limit.
const maxScoreSheetBytes = 10 << 20

type MatchHandler struct {
	resultService services.ResultService
	matchService  services.MatchService
}

func NewMatchHandler(resultService services.ResultService, matchService services.MatchService) *MatchHandler {
	return &MatchHandler{resultService: resultService, matchService: matchService}
}

func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	playerID, err := middleware.PlayerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "authentication required")
		return
	}

	var input services.SubmitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID
	input.SubmitterID = playerID

	summary, err := h.resultService.SubmitResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UploadScoreSheet(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	playerID, err := middleware.PlayerIDFromContext(r.Context())
	if err != nil {
		forbiddenResponse(w, r, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxScoreSheetBytes); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("score_sheet")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	match, err := h.matchService.AttachScoreSheet(r.Context(), matchID, playerID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
