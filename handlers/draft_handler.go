package handlers

import (
	"net/http"

	"github.com/fairwaylabs/trip-system/middleware"
	"github.com/fairwaylabs/trip-system/services"
)

type DraftHandler struct {
	draftService services.DraftService
}

func NewDraftHandler(ds services.DraftService) *DraftHandler {
	return &DraftHandler{
		draftService: ds,
	}
}

// StartHandler handles POST /trips/{tripID}/draft. Random and balanced modes
// assign everyone immediately; snake and auction open an interactive board.
func (h *DraftHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to start a draft")
		return
	}

	var input services.StartDraftInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.draftService.Start(r.Context(), tripID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"draft": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBoardHandler handles GET /trips/{tripID}/draft and returns the latest
// draft of the trip with its pick ledger, clock and remaining budgets.
func (h *DraftHandler) GetBoardHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.draftService.GetBoard(r.Context(), tripID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draft": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MakePickHandler handles POST /drafts/{draftID}/picks.
func (h *DraftHandler) MakePickHandler(w http.ResponseWriter, r *http.Request) {
	draftID, err := getIDFromURL(r, "draftID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to make a pick")
		return
	}

	var input services.MakePickInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.draftService.MakePick(r.Context(), draftID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"draft": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AutoPickHandler handles POST /drafts/{draftID}/autopick: the organizer
// picks for a stalled team, lowest handicap first.
func (h *DraftHandler) AutoPickHandler(w http.ResponseWriter, r *http.Request) {
	draftID, err := getIDFromURL(r, "draftID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to auto-pick")
		return
	}

	board, err := h.draftService.AutoPick(r.Context(), draftID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"draft": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CompleteHandler handles POST /drafts/{draftID}/complete, for wrapping up a
// draft whose pool shrank below the remaining picks.
func (h *DraftHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	draftID, err := getIDFromURL(r, "draftID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to complete a draft")
		return
	}

	board, err := h.draftService.Complete(r.Context(), draftID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draft": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelHandler handles DELETE /drafts/{draftID}.
func (h *DraftHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	draftID, err := getIDFromURL(r, "draftID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to cancel a draft")
		return
	}

	if err := h.draftService.Cancel(r.Context(), draftID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
