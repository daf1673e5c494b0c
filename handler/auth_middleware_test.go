package handler

import (
	"auth-service/model"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoIdentity writes back what AuthMiddleware stored in the context.
func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(UserIDKey).(int)
		role, _ := r.Context().Value(UserRoleKey).(model.Role)
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": userID, "role": role})
	})
}

func accessToken(t *testing.T, userID int, role model.Role) string {
	t.Helper()
	token, _, err := testTokens.GenerateAccessToken(model.TokenPayload{UserID: userID, Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	mw := AuthMiddleware(testTokens)(echoIdentity())
	refreshToken, _, err := testTokens.GenerateRefreshToken(model.TokenPayload{UserID: 4, Role: model.RoleCustomer}, 11)
	require.NoError(t, err)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name: "bearer header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+accessToken(t, 4, model.RoleCustomer))
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":4,"role":"customer"}`,
		},
		{
			name: "lowercase scheme",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "bearer "+accessToken(t, 4, model.RoleAdmin))
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":4,"role":"admin"}`,
		},
		{
			name: "cookie fallback",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: accessToken(t, 9, model.RoleCustomer)})
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":9,"role":"customer"}`,
		},
		{
			name:       "no credentials",
			prepare:    func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":401,"message":"Authorization header or accessToken cookie is required"}`,
		},
		{
			name: "malformed header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Token abc")
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":401,"message":"Invalid authorization header format"}`,
		},
		{
			name: "garbage token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.jwt")
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":401,"message":"Invalid or expired token"}`,
		},
		{
			name: "refresh token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+refreshToken)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"code":401,"message":"Invalid or expired token"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/self", nil)
			tc.prepare(req)
			rr := httptest.NewRecorder()

			mw.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.JSONEq(t, tc.wantBody, rr.Body.String())
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	chain := AuthMiddleware(testTokens)(AdminMiddleware(next))

	t.Run("customer is forbidden", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/1/sessions", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken(t, 1, model.RoleCustomer))
		rr := httptest.NewRecorder()

		chain.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.False(t, reached)
	})

	t.Run("admin passes", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/1/sessions", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken(t, 2, model.RoleAdmin))
		rr := httptest.NewRecorder()

		chain.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.True(t, reached)
	})

	t.Run("no identity in context", func(t *testing.T) {
		reached = false
		rr := httptest.NewRecorder()

		AdminMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.False(t, reached)
	})
}
