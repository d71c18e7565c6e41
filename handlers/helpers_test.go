package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/trip-system/draft"
	"github.com/fairwaylabs/trip-system/matchplay"
	"github.com/fairwaylabs/trip-system/services"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid body",
			body: `{"name": "Pinehurst", "count": 2}`,
		},
		{
			name:    "badly formed",
			body:    `{"name":`,
			wantErr: "badly-formed JSON",
		},
		{
			name:    "wrong field type",
			body:    `{"name": 3}`,
			wantErr: `incorrect JSON type for field "name"`,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: "must not be empty",
		},
		{
			name:    "unknown field",
			body:    `{"bogus": 1}`,
			wantErr: "unknown key",
		},
		{
			name:    "trailing second value",
			body:    `{"name": "a"}{"name": "b"}`,
			wantErr: "single JSON value",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			var dst payload
			err := readJSON(rec, req, &dst)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Pinehurst", dst.Name)
			assert.Equal(t, 2, dst.Count)
		})
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: services.ErrTripNotFound, wantStatus: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("loading session: %w", services.ErrSessionNotFound), wantStatus: http.StatusNotFound},
		{name: "email taken", err: services.ErrAuthEmailTaken, wantStatus: http.StatusConflict},
		{name: "team name conflict", err: services.ErrTeamNameConflict, wantStatus: http.StatusConflict},
		{name: "already seeded", err: services.ErrSessionAlreadySeeded, wantStatus: http.StatusConflict},
		{name: "validation", err: fmt.Errorf("%w: round 0", services.ErrValidationFailed), wantStatus: http.StatusUnprocessableEntity},
		{name: "press rules", err: matchplay.ErrPressNotEligible, wantStatus: http.StatusUnprocessableEntity},
		{name: "draft turn order", err: draft.ErrNotOnClock, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad credentials", err: services.ErrAuthInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "organizer only", err: services.ErrOrganizerOnly, wantStatus: http.StatusForbidden},
		{name: "no object store", err: services.ErrStorageUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "unknown error", err: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/trips/5", nil)
			rec := httptest.NewRecorder()

			mapServiceErrorToHTTP(rec, req, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, "error")
			if tc.wantStatus == http.StatusInternalServerError {
				// Internal details stay in the log, not the response.
				assert.NotContains(t, body["error"], "pq:")
			}
		})
	}
}

func TestGetIDFromURL(t *testing.T) {
	withParams := func(pairs ...string) *http.Request {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(pairs); i += 2 {
			rctx.URLParams.Add(pairs[i], pairs[i+1])
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("named parameter", func(t *testing.T) {
		id, err := getIDFromURL(withParams("tripID", "7"), "tripID")
		require.NoError(t, err)
		assert.Equal(t, 7, id)
	})

	t.Run("falls back to id", func(t *testing.T) {
		id, err := getIDFromURL(withParams("id", "12"), "tripID")
		require.NoError(t, err)
		assert.Equal(t, 12, id)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := getIDFromURL(withParams(), "tripID")
		assert.Error(t, err)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := getIDFromURL(withParams("tripID", "seven"), "tripID")
		assert.Error(t, err)
	})

	t.Run("non-positive", func(t *testing.T) {
		_, err := getIDFromURL(withParams("tripID", "0"), "tripID")
		assert.Error(t, err)
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := writeJSON(rec, http.StatusCreated, jsonResponse{"trip": "ok"}, http.Header{"Location": []string{"/trips/9"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "/trips/9", rec.Header().Get("Location"))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "\n"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["trip"])
}
