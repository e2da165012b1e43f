package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nikachu96/Ready-2-Dink-sub000/services"
	"github.com/stretchr/testify/assert"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrAlreadySubmitted, http.StatusConflict},
		{services.ErrBracketAlreadyGenerated, http.StatusConflict},
		{services.ErrTiedResult, http.StatusBadRequest},
		{services.ErrInsufficientEntrants, http.StatusBadRequest},
		{services.ErrMatchNotReady, http.StatusBadRequest},
		{services.ErrInvalidWinner, http.StatusBadRequest},
		{services.ErrScoreSheetNotAllowed, http.StatusBadRequest},
		{services.ErrNotAParticipant, http.StatusForbidden},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			mapServiceErrorToHTTP(rec, req, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestReadJSONRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "body must not be empty"},
		{"unknown field", `{"nope": 1}`, `body contains unknown key "nope"`},
		{"trailing value", `{}{}`, "body must only contain a single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst struct{}
			err := readJSON(httptest.NewRecorder(), req, &dst)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
