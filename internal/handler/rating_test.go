package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/repository"
)

func newRatingTestCtx(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder, sqlmock.Sqlmock, *RatingHandler) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/cinema/movies/42/ratings/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("movie_id")
	c.SetParamValues("42")
	c.Set("user_id", float64(7)) // as JWTAuth stores it after JSON decode

	h := NewRatingHandler(repository.NewMovieRepo(db), repository.NewRatingRepo(db))
	return c, rec, mock, h
}

func TestRatingToggleInvalidValue(t *testing.T) {
	c, rec, _, h := newRatingTestCtx(t, `{"rating": 11}`)

	require.NoError(t, h.Toggle(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid input data.")
}

func TestRatingToggleMovieMissing(t *testing.T) {
	c, rec, mock, h := newRatingTestCtx(t, `{"rating": 8}`)

	mock.ExpectQuery(`SELECT 1 FROM movies WHERE id=\?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	require.NoError(t, h.Toggle(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie with the given ID was not found.")
}

func TestRatingToggleCreate(t *testing.T) {
	c, rec, mock, h := newRatingTestCtx(t, `{"rating": 8}`)

	mock.ExpectQuery(`SELECT 1 FROM movies WHERE id=\?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT rating FROM ratings`).
		WithArgs(7, 42).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}))
	mock.ExpectExec(`INSERT INTO ratings`).
		WithArgs(7, 42, 8).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, h.Toggle(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "You gave this movie 8")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingToggleRemove(t *testing.T) {
	c, rec, mock, h := newRatingTestCtx(t, `{"rating": 8}`)

	mock.ExpectQuery(`SELECT 1 FROM movies WHERE id=\?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT rating FROM ratings`).
		WithArgs(7, 42).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(8))
	mock.ExpectExec(`DELETE FROM ratings`).
		WithArgs(7, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, h.Toggle(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your rating was removed")
	assert.Contains(t, rec.Body.String(), `"rating":null`)
}
