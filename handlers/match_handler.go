package handlers

import (
	"net/http"

	"github.com/fairwaylabs/trip-system/middleware"
	"github.com/fairwaylabs/trip-system/services"
)

// MatchHandler is the scoring surface: seeding matches into a session,
// reading match detail, and recording or undoing holes.
type MatchHandler struct {
	scoringService services.ScoringService
}

func NewMatchHandler(ss services.ScoringService) *MatchHandler {
	return &MatchHandler{
		scoringService: ss,
	}
}

// SeedMatchesHandler handles POST /sessions/{sessionID}/matches. The body
// carries the full set of matchups for the round.
func (h *MatchHandler) SeedMatchesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to seed matches")
		return
	}

	var input services.SeedMatchesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.scoringService.SeedMatches(r.Context(), sessionID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /matches/{matchID}: players, strokes, the hole
// ledger, presses with their standings.
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scoringService.GetMatchDetail(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordHoleHandler handles POST /matches/{matchID}/holes.
func (h *MatchHandler) RecordHoleHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to record a hole")
		return
	}

	var input services.RecordHoleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scoringService.RecordHole(r.Context(), matchID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UndoHoleHandler handles DELETE /matches/{matchID}/holes/latest. Only the
// most recent hole can be taken back; the match state is recomputed from the
// results that remain.
func (h *MatchHandler) UndoHoleHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to undo a hole")
		return
	}

	match, err := h.scoringService.UndoHole(r.Context(), matchID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RefreshStrokesHandler handles POST /matches/{matchID}/strokes/refresh,
// recomputing course handicaps and allocations from current handicap indexes.
// Only allowed while the match is still scheduled.
func (h *MatchHandler) RefreshStrokesHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to refresh strokes")
		return
	}

	players, err := h.scoringService.RefreshStrokes(r.Context(), matchID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
