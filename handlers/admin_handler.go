package handlers

import (
	"net/http"
	"strconv"

	"github.com/Nikachu96/Ready-2-Dink-sub000/services"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WinnerID int    `json:"winner_id"`
		Score    string `json:"score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.adminService.CompleteMatchManually(r.Context(), matchID, input.WinnerID, input.Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
