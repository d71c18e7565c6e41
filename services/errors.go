package services

import "errors"

// Errors shared between services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrTripNameRequired     = errors.New("trip name is required")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrCourseNameRequired   = errors.New("course name is required")
	ErrInviteExpired        = errors.New("invite has expired")
	ErrInviteAlreadyHandled = errors.New("invite has already been accepted or declined")
	ErrMemberAlreadyInTrip  = errors.New("user is already a member of this trip")
	ErrMemberHasTeam        = errors.New("member is already assigned to a team")
	ErrTripNotInPlanning    = errors.New("trip is no longer in planning")
	ErrSessionNotEditable   = errors.New("session can no longer be changed")
	ErrSessionAlreadySeeded = errors.New("session already has matches")
	ErrMatchNotScoreable    = errors.New("match is not open for scoring")
	ErrRosterTooSmall       = errors.New("not enough players on the roster")
	ErrSidesUneven          = errors.New("both teams must field the same number of players")
	ErrDraftNotOpen         = errors.New("draft is no longer open")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserNicknameConflict = errors.New("nickname is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrRoundNumberConflict  = errors.New("round number is already in use for this trip")
	ErrInviteEmailConflict  = errors.New("a pending invite already exists for this email")
	ErrHoleAlreadyRecorded  = errors.New("hole has already been recorded for this match")
	ErrDraftAlreadyOpen     = errors.New("trip already has an open draft")

	// Authentication and authorization
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrOrganizerOnly          = errors.New("only the trip organizer can perform this action")
	ErrCaptainActionForbidden = errors.New("only a team captain can perform this action")

	// Returned when the deployment has no object store configured.
	ErrStorageUnavailable = errors.New("file storage is not configured")

	// Entity-specific not-found errors
	ErrUserNotFound    = errors.New("user not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrMemberNotFound  = errors.New("trip member not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrTeeSetNotFound  = errors.New("tee set not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrPressNotFound   = errors.New("press not found")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrInviteNotFound  = errors.New("invite not found")

	// Trip lifecycle
	ErrTripDatesRequired           = errors.New("trip start and end dates are required")
	ErrTripInvalidDateRange        = errors.New("trip end date must be after start date")
	ErrTripInvalidStatus           = errors.New("invalid trip status provided")
	ErrTripInvalidStatusTransition = errors.New("invalid trip status transition")
	ErrSessionInvalidStatusChange  = errors.New("invalid session status transition")
)
