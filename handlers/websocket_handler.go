package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fairwaylabs/trip-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it has a fixed domain.
		return true
	},
}

// WebSocketHandler upgrades connections into live rooms. Match rooms carry
// hole-by-hole scoring, session rooms carry round-wide updates, trip rooms
// carry draft picks.
type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// ServeMatch handles GET /ws/matches/{matchID}.
func (h *WebSocketHandler) ServeMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, live.MatchRoom(matchID))
}

// ServeSession handles GET /ws/sessions/{sessionID}.
func (h *WebSocketHandler) ServeSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, live.SessionRoom(sessionID))
}

// ServeTrip handles GET /ws/trips/{tripID}.
func (h *WebSocketHandler) ServeTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, live.TripRoom(tripID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error to the client.
		log.Printf("failed to upgrade connection for room %s: %v", room, err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: room,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
