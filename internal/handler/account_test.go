package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

func newAccountTest(t *testing.T) (*AccountHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		JWTSecret:      "secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // minimum cost keeps the test fast
		BaseURL:        "http://127.0.0.1",
	}
	return NewAccountHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func postJSON(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const userCols = "u.id, u.email, u.password_hash, u.group_id, g.name, u.is_active, u.created_at, u.updated_at"

func TestRegisterRejectsWeakPassword(t *testing.T) {
	h, _ := newAccountTest(t)
	c, rec := postJSON("/v1/accounts/register/", `{"email":"a@b.com","password":"short"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	h, mock := newAccountTest(t)
	c, rec := postJSON("/v1/accounts/login/", `{"email":"ghost@b.com","password":"sup3rsecret"}`)

	mock.ExpectQuery(`SELECT ` + userCols).
		WithArgs("ghost@b.com").
		WillReturnRows(sqlmock.NewRows(strings.Split(userCols, ", ")))

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
}

func TestLoginInactiveAccount(t *testing.T) {
	h, mock := newAccountTest(t)
	c, rec := postJSON("/v1/accounts/login/", `{"email":"a@b.com","password":"sup3rsecret"}`)

	hash, err := utils.HashPassword("sup3rsecret", 4)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`SELECT ` + userCols).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(strings.Split(userCols, ", ")).
			AddRow(1, "a@b.com", hash, 1, "user", false, now, now))

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "User account is not activated.")
}

func TestLoginIssuesTokenPair(t *testing.T) {
	h, mock := newAccountTest(t)
	c, rec := postJSON("/v1/accounts/login/", `{"email":"a@b.com","password":"sup3rsecret"}`)

	hash, err := utils.HashPassword("sup3rsecret", 4)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`SELECT ` + userCols).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(strings.Split(userCols, ", ")).
			AddRow(1, "a@b.com", hash, 1, "user", true, now, now))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "access_token")
	assert.Contains(t, body, "refresh_token")
	assert.Contains(t, body, `"token_type":"bearer"`)
}

func TestRefreshUnknownToken(t *testing.T) {
	h, mock := newAccountTest(t)
	c, rec := postJSON("/v1/accounts/refresh/", `{"refresh_token":"deadbeef"}`)

	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Refresh token not found.")
}

func TestPasswordResetRequestNeverLeaks(t *testing.T) {
	h, mock := newAccountTest(t)
	c, rec := postJSON("/v1/accounts/password-reset/request/", `{"email":"ghost@b.com"}`)

	mock.ExpectQuery(`SELECT ` + userCols).
		WithArgs("ghost@b.com").
		WillReturnRows(sqlmock.NewRows(strings.Split(userCols, ", ")))

	require.NoError(t, h.RequestPasswordReset(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "If you are registered, you will receive an email with instructions.")
}
