package handlers

import (
	"net/http"

	"github.com/fairwaylabs/trip-system/middleware"
	"github.com/fairwaylabs/trip-system/services"
)

// StandingsHandler serves the trip scoreboard and the workbook export.
type StandingsHandler struct {
	standingsService services.StandingsService
	exportService    services.ExportService
}

func NewStandingsHandler(ss services.StandingsService, es services.ExportService) *StandingsHandler {
	return &StandingsHandler{
		standingsService: ss,
		exportService:    es,
	}
}

// GetTripStandingsHandler handles GET /trips/{tripID}/standings.
func (h *StandingsHandler) GetTripStandingsHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GetTripStandings(r.Context(), tripID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportTripHandler handles POST /trips/{tripID}/export: builds the trip
// workbook, uploads it, and returns the download URL.
func (h *StandingsHandler) ExportTripHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to export a trip")
		return
	}

	result, err := h.exportService.ExportTripWorkbook(r.Context(), tripID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
