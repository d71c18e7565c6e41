package handlers

import (
	"net/http"

	"github.com/fairwaylabs/trip-system/middleware"
	"github.com/fairwaylabs/trip-system/services"
)

type PressHandler struct {
	pressService services.PressService
}

func NewPressHandler(ps services.PressService) *PressHandler {
	return &PressHandler{
		pressService: ps,
	}
}

// OpenHandler handles POST /matches/{matchID}/presses. Eligibility runs
// through the match-play engine; rejections come back as 422.
func (h *PressHandler) OpenHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to open a press")
		return
	}

	var input services.OpenPressInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	press, err := h.pressService.Open(r.Context(), matchID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"press": press}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByMatchHandler handles GET /matches/{matchID}/presses, each press with
// its replayed standing.
func (h *PressHandler) ListByMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	presses, err := h.pressService.ListByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"presses": presses}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /presses/{pressID}, for presses opened by
// mistake. Organizer only.
func (h *PressHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	pressID, err := getIDFromURL(r, "pressID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to delete a press")
		return
	}

	if err := h.pressService.Delete(r.Context(), pressID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
