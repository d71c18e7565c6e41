package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylabs/trip-system/middleware"
	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/services"
)

// RosterHandler covers trip membership and the invite flow.
type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rs services.RosterService) *RosterHandler {
	return &RosterHandler{
		rosterService: rs,
	}
}

// ListMembersHandler handles GET /trips/{tripID}/members.
func (h *RosterHandler) ListMembersHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	members, err := h.rosterService.ListMembers(r.Context(), tripID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"members": members}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetMemberRoleHandler handles PATCH /trips/{tripID}/members/{memberID}/role.
func (h *RosterHandler) SetMemberRoleHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to change a member role")
		return
	}

	var input struct {
		Role models.MemberRole `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	member, err := h.rosterService.SetMemberRole(r.Context(), tripID, memberID, currentUserID, input.Role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignTeamHandler handles PATCH /trips/{tripID}/members/{memberID}/team.
// A null team_id takes the member off every team.
func (h *RosterHandler) AssignTeamHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to assign a team")
		return
	}

	var input struct {
		TeamID *int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	member, err := h.rosterService.AssignTeam(r.Context(), tripID, memberID, currentUserID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveMemberHandler handles DELETE /trips/{tripID}/members/{memberID}.
func (h *RosterHandler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to remove a member")
		return
	}

	if err := h.rosterService.RemoveMember(r.Context(), tripID, memberID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InviteHandler handles POST /trips/{tripID}/invites.
func (h *RosterHandler) InviteHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to invite players")
		return
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" {
		badRequestResponse(w, r, errors.New("email is required"))
		return
	}

	invite, err := h.rosterService.InviteByEmail(r.Context(), tripID, currentUserID, input.Email)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListInvitesHandler handles GET /trips/{tripID}/invites.
func (h *RosterHandler) ListInvitesHandler(w http.ResponseWriter, r *http.Request) {
	tripID, err := getIDFromURL(r, "tripID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to list invites")
		return
	}

	invites, err := h.rosterService.ListInvites(r.Context(), tripID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invites": invites}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetInviteHandler handles GET /invites/{token}. Public, so the landing page
// can show trip details before the invitee logs in.
func (h *RosterHandler) GetInviteHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		badRequestResponse(w, r, errors.New("missing invite token in URL path"))
		return
	}

	invite, err := h.rosterService.GetInviteByToken(r.Context(), token)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AcceptInviteHandler handles POST /invites/{token}/accept.
func (h *RosterHandler) AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		badRequestResponse(w, r, errors.New("missing invite token in URL path"))
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to accept an invite")
		return
	}

	member, err := h.rosterService.AcceptInvite(r.Context(), token, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeclineInviteHandler handles POST /invites/{token}/decline.
func (h *RosterHandler) DeclineInviteHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		badRequestResponse(w, r, errors.New("missing invite token in URL path"))
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to decline an invite")
		return
	}

	if err := h.rosterService.DeclineInvite(r.Context(), token, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "invite declined"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RevokeInviteHandler handles DELETE /invites/{inviteID}.
func (h *RosterHandler) RevokeInviteHandler(w http.ResponseWriter, r *http.Request) {
	inviteID, err := getIDFromURL(r, "inviteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to revoke an invite")
		return
	}

	if err := h.rosterService.RevokeInvite(r.Context(), inviteID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
