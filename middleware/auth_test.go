package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/trip-system/models"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func loginClaims(userID int, role string, ttl time.Duration) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}
}

func TestRequireAuth(t *testing.T) {
	var gotUserID int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(testSecret)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong signing secret",
			authHeader: "Bearer " + signedToken(t, "other-secret", loginClaims(42, models.RolePlayer, time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + signedToken(t, testSecret, loginClaims(42, models.RolePlayer, -time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + signedToken(t, testSecret, loginClaims(42, models.RolePlayer, time.Hour)),
			wantStatus: http.StatusOK,
		},
		{
			name:       "lowercase bearer scheme",
			authHeader: "bearer " + signedToken(t, testSecret, loginClaims(42, models.RolePlayer, time.Hour)),
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotUserID = 0
			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, 42, gotUserID)
			} else {
				assert.Zero(t, gotUserID, "next handler must not run")
				assert.Contains(t, rec.Body.String(), "error")
			}
		})
	}
}

func TestRequireAuthRejectsUnexpectedAlgorithm(t *testing.T) {
	// A token announcing alg "none" must not pass however it is signed.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, loginClaims(42, models.RolePlayer, time.Hour))
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()

	called := false
	RequireAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func contextWithClaims(claims jwt.MapClaims) context.Context {
	return context.WithValue(context.Background(), userContextKey, claims)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleOrganizer, models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	t.Run("no claims in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/users/3", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("role not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/users/3", nil)
		req = req.WithContext(contextWithClaims(jwt.MapClaims{"user_id": float64(7), "role": models.RolePlayer}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/users/3", nil)
		req = req.WithContext(contextWithClaims(jwt.MapClaims{"user_id": float64(7), "role": models.RoleAdmin}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		want    int
		wantErr bool
	}{
		{
			name: "valid claim",
			ctx:  contextWithClaims(jwt.MapClaims{"user_id": float64(42)}),
			want: 42,
		},
		{
			name:    "no claims",
			ctx:     context.Background(),
			wantErr: true,
		},
		{
			name:    "missing claim",
			ctx:     contextWithClaims(jwt.MapClaims{"role": models.RolePlayer}),
			wantErr: true,
		},
		{
			name:    "wrong claim type",
			ctx:     contextWithClaims(jwt.MapClaims{"user_id": "42"}),
			wantErr: true,
		},
		{
			name:    "fractional id",
			ctx:     contextWithClaims(jwt.MapClaims{"user_id": 41.5}),
			wantErr: true,
		},
		{
			name:    "non-positive id",
			ctx:     contextWithClaims(jwt.MapClaims{"user_id": float64(0)}),
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GetUserIDFromContext(tc.ctx)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetUserRoleFromContext(t *testing.T) {
	role, err := GetUserRoleFromContext(contextWithClaims(jwt.MapClaims{"role": models.RoleOrganizer}))
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, role)

	_, err = GetUserRoleFromContext(contextWithClaims(jwt.MapClaims{"role": "superuser"}))
	assert.Error(t, err, "unknown role values are rejected")

	_, err = GetUserRoleFromContext(context.Background())
	assert.Error(t, err)
}
