package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fairwaylabs/trip-system/services"
)

// AdminHandler sits behind the admin role guard in the router.
type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(as services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: as,
	}
}

// GetStatsHandler handles GET /admin/stats.
func (h *AdminHandler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListUsersHandler handles GET /admin/users with limit and offset query
// parameters.
func (h *AdminHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
		limit = parsed
	}

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
		offset = parsed
	}

	page, err := h.adminService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": page}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteUserHandler handles DELETE /admin/users/{userID}.
func (h *AdminHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
