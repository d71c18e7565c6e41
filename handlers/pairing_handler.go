package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fairwaylabs/trip-system/services"
)

type PairingHandler struct {
	pairingService services.PairingService
}

func NewPairingHandler(ps services.PairingService) *PairingHandler {
	return &PairingHandler{
		pairingService: ps,
	}
}

// SuggestHandler handles GET /sessions/{sessionID}/pairings/suggestions with
// an optional limit query parameter.
func (h *PairingHandler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		} else {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
	}

	suggestions, err := h.pairingService.Suggest(r.Context(), sessionID, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"suggestions": suggestions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AnalyzeHandler handles GET /sessions/{sessionID}/pairings/analysis,
// scoring the matchups that are already seeded.
func (h *PairingHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	analysis, err := h.pairingService.AnalyzeSession(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"analysis": analysis}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
