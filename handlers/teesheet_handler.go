package handlers

import (
	"net/http"

	"github.com/fairwaylabs/trip-system/middleware"
	"github.com/fairwaylabs/trip-system/services"
)

type TeeSheetHandler struct {
	teeSheetService services.TeeSheetService
}

func NewTeeSheetHandler(ts services.TeeSheetService) *TeeSheetHandler {
	return &TeeSheetHandler{
		teeSheetService: ts,
	}
}

// BuildHandler handles POST /sessions/{sessionID}/teesheet. Rebuilding
// replaces any existing sheet.
func (h *TeeSheetHandler) BuildHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to build a tee sheet")
		return
	}

	var input services.BuildTeeSheetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slots, err := h.teeSheetService.Build(r.Context(), sessionID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tee_sheet": slots}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler handles GET /sessions/{sessionID}/teesheet.
func (h *TeeSheetHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slots, err := h.teeSheetService.Get(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tee_sheet": slots}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearHandler handles DELETE /sessions/{sessionID}/teesheet.
func (h *TeeSheetHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to clear a tee sheet")
		return
	}

	if err := h.teeSheetService.Clear(r.Context(), sessionID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
