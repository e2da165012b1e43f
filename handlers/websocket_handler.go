package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Nikachu96/Ready-2-Dink-sub000/brackets"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from the mobile webview; origin
		// enforcement happens at the CORS layer.
		return true
	},
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// TournamentFeed upgrades the connection and subscribes the client to the
// tournament's live bracket events.
func (h *WebSocketHandler) TournamentFeed(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "id")
	if tournamentID == "" {
		badRequestResponse(w, r, errors.New("tournament id required"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.hub.Register(brackets.NewClient(h.hub, conn, tournamentID))
}
