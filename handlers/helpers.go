package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylabs/trip-system/draft"
	"github.com/fairwaylabs/trip-system/matchplay"
	"github.com/fairwaylabs/trip-system/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			// Programmer error: dst was not a pointer.
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}

	return nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	err := writeJSON(w, status, env, nil)
	if err != nil {
		log.Printf("error writing error JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("internal server error: %s %s: %v", r.Method, r.URL.Path, err)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, message interface{}) {
	errorResponse(w, r, http.StatusUnprocessableEntity, message)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// getIDFromURL pulls a positive integer path parameter, falling back to the
// generic "id" name when the specific one is absent.
func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		idStr = chi.URLParam(r, "id")
		if idStr == "" {
			return 0, fmt.Errorf("missing %s or id in URL path", paramName)
		}
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s value in URL path", paramName)
	}

	return id, nil
}

// mapServiceErrorToHTTP translates service and engine errors into HTTP
// responses. Rules rejections land on 422: the request was well-formed, the
// golf just doesn't allow it.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTripNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrTeeSetNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrPressNotFound),
		errors.Is(err, services.ErrDraftNotFound),
		errors.Is(err, services.ErrInviteNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrAuthEmailTaken),
		errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrUserNicknameConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrRoundNumberConflict),
		errors.Is(err, services.ErrInviteEmailConflict),
		errors.Is(err, services.ErrHoleAlreadyRecorded),
		errors.Is(err, services.ErrDraftAlreadyOpen),
		errors.Is(err, services.ErrSessionAlreadySeeded),
		errors.Is(err, services.ErrMemberAlreadyInTrip),
		errors.Is(err, services.ErrInviteAlreadyHandled):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrTripNameRequired),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrCourseNameRequired),
		errors.Is(err, services.ErrInviteExpired),
		errors.Is(err, services.ErrMemberHasTeam),
		errors.Is(err, services.ErrTripNotInPlanning),
		errors.Is(err, services.ErrSessionNotEditable),
		errors.Is(err, services.ErrMatchNotScoreable),
		errors.Is(err, services.ErrRosterTooSmall),
		errors.Is(err, services.ErrSidesUneven),
		errors.Is(err, services.ErrDraftNotOpen),
		errors.Is(err, services.ErrTripDatesRequired),
		errors.Is(err, services.ErrTripInvalidDateRange),
		errors.Is(err, services.ErrTripInvalidStatus),
		errors.Is(err, services.ErrTripInvalidStatusTransition),
		errors.Is(err, services.ErrSessionInvalidStatusChange):
		failedValidationResponse(w, r, err.Error())

	// Engine rejections: course data, hole results, press eligibility,
	// draft rules.
	case errors.Is(err, matchplay.ErrInvalidCourseData),
		errors.Is(err, matchplay.ErrInconsistentHoleResult),
		errors.Is(err, matchplay.ErrPressNotEligible),
		errors.Is(err, draft.ErrDraftAlreadyComplete),
		errors.Is(err, draft.ErrInsufficientBudget),
		errors.Is(err, draft.ErrNotOnClock),
		errors.Is(err, draft.ErrPlayerUnavailable),
		errors.Is(err, draft.ErrAutomaticMode),
		errors.Is(err, draft.ErrUnknownMode):
		failedValidationResponse(w, r, err.Error())

	case errors.Is(err, services.ErrAuthenticationFailed),
		errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrOrganizerOnly),
		errors.Is(err, services.ErrCaptainActionForbidden):
		forbiddenResponse(w, r, err.Error())

	case errors.Is(err, services.ErrStorageUnavailable):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
