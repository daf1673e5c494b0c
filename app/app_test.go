package app

import (
	"auth-service/config"
	"auth-service/logger"
	"auth-service/service"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() config.Config {
	var cfg config.Config
	cfg.JWT.Issuer = service.DefaultIssuer
	cfg.Cookie.Domain = "localhost"
	cfg.Cookie.Secure = true
	return cfg
}

func newTestKeys(t *testing.T) *service.KeyProvider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys, err := service.NewKeyProvider(key)
	require.NoError(t, err)
	return keys
}

func TestBuild_RegisterAgainstPostgres(t *testing.T) {
	logger.Init("error")
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, first_name, last_name, email, password, role, created_at FROM users WHERE email = $1`)).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password", "role", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (first_name, last_name, email, password, role) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`)).
		WithArgs("A", "B", "a@b.com", sqlmock.AnyArg(), "customer").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_tokens (user_id, expires_at) VALUES ($1, $2) RETURNING id, created_at`)).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, now))

	keys := newTestKeys(t)
	r := Build(db, nil, keys, newTestConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"firstName":"A","lastName":"B","email":"a@b.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":1}`, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())

	var refresh string
	for _, c := range rr.Result().Cookies() {
		if c.Name == "refreshToken" {
			refresh = c.Value
		}
	}
	claims, err := service.NewTokenService(keys, service.DefaultIssuer).ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "5", claims.ID)
	assert.Equal(t, "1", claims.Subject)
}

func TestBuild_HealthNeedsNoDatabase(t *testing.T) {
	logger.Init("error")
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := Build(db, nil, newTestKeys(t), newTestConfig())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
