package common

import (
	"auth-service/model"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
}

func TestValidateAndDecode_Valid(t *testing.T) {
	var req model.RegisterRequest
	appErr := ValidateAndDecode(newJSONRequest(`{"firstName":" A ","lastName":"B","email":" a@b.com ","password":"password123"}`), &req)

	require.Nil(t, appErr)
	assert.Equal(t, "A", req.FirstName)
	assert.Equal(t, "a@b.com", req.Email)
}

func TestValidateAndDecode_PasswordAtByteLimit(t *testing.T) {
	var req model.RegisterRequest
	body := `{"firstName":"A","lastName":"B","email":"a@b.com","password":"` + strings.Repeat("p", 72) + `"}`

	appErr := ValidateAndDecode(newJSONRequest(body), &req)

	assert.Nil(t, appErr)
}

func TestValidateAndDecode_InvalidJSON(t *testing.T) {
	var req model.RegisterRequest
	appErr := ValidateAndDecode(newJSONRequest(`{"firstName":`), &req)

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Invalid request body", appErr.Message)
}

func TestValidateAndDecode_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"missing email", `{"firstName":"A","lastName":"B","email":"","password":"password123"}`, "email", "email is required"},
		{"bad email", `{"firstName":"A","lastName":"B","email":"nikk@.com","password":"password123"}`, "email", "email must be a valid email"},
		{"missing first name", `{"lastName":"B","email":"a@b.com","password":"password123"}`, "firstName", "firstName is required"},
		{"missing last name", `{"firstName":"A","email":"a@b.com","password":"password123"}`, "lastName", "lastName is required"},
		{"short password", `{"firstName":"A","lastName":"B","email":"a@b.com","password":"123"}`, "password", "password must be at least 8 characters long"},
		{"password over 72 bytes", `{"firstName":"A","lastName":"B","email":"a@b.com","password":"` + strings.Repeat("p", 73) + `"}`, "password", "password must be at most 72 bytes long"},
		{"multibyte password over 72 bytes", `{"firstName":"A","lastName":"B","email":"a@b.com","password":"` + strings.Repeat("é", 37) + `"}`, "password", "password must be at most 72 bytes long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req model.RegisterRequest
			appErr := ValidateAndDecode(newJSONRequest(tc.body), &req)

			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			require.Len(t, appErr.Errors, 1)
			assert.Equal(t, tc.field, appErr.Errors[0].Field)
			assert.Equal(t, tc.message, appErr.Errors[0].Message)
		})
	}
}

func TestAppError_Send(t *testing.T) {
	rr := httptest.NewRecorder()
	NewValidationError([]FieldError{{Field: "email", Message: "email is required"}}).Send(rr)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"code":400,"message":"Validation failed","errors":[{"field":"email","message":"email is required"}]}`, rr.Body.String())
}
