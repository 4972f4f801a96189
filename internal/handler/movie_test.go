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

func newMovieTestHandler(t *testing.T) (*MovieHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMovieHandler(
		repository.NewMovieRepo(db),
		repository.NewCommentRepo(db),
		repository.NewRatingRepo(db),
		repository.NewReactionRepo(db),
	), mock
}

func listCtx(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestMovieListNoMovies(t *testing.T) {
	h, mock := newMovieTestHandler(t)
	c, rec := listCtx("/v1/cinema/movies/?search=nope")

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No movies found.")
}

func TestMovieListPageOutOfRange(t *testing.T) {
	h, mock := newMovieTestHandler(t)
	c, rec := listCtx("/v1/cinema/movies/?page=9&per_page=10")

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page out of range.")
}

func TestMovieListRejectsBadPerPage(t *testing.T) {
	h, _ := newMovieTestHandler(t)
	c, rec := listCtx("/v1/cinema/movies/?per_page=50")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid input data.")
}

func TestMovieListLinks(t *testing.T) {
	h, mock := newMovieTestHandler(t)
	c, rec := listCtx("/v1/cinema/movies/?page=2&per_page=10")

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`GROUP BY m\.id ORDER BY m\.id DESC`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(15))
	mock.ExpectQuery(`ORDER BY FIELD\(m\.id`).
		WithArgs(15, 15).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "imdb", "description"}).
			AddRow(15, "O", 2015, 7.0, "o"))

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"total_items":25`)
	assert.Contains(t, body, `"total_pages":3`)
	assert.Contains(t, body, "page=1") // prev link
	assert.Contains(t, body, "page=3") // next link
}

func TestMovieCreateDuplicateNameYear(t *testing.T) {
	h, mock := newMovieTestHandler(t)

	e := echo.New()
	body := `{"name":"X","year":2020,"duration":100,"description":"x","certification":"PG","country":"US"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cinema/movies/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mock.ExpectQuery(`SELECT 1 FROM movies WHERE name=\? AND year=\?`).
		WithArgs("X", 2020).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(),
		"A movie with the name 'X' and release year '2020' already exists.")
}

func TestMovieDeleteMissing(t *testing.T) {
	h, mock := newMovieTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/cinema/movies/42/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("movie_id")
	c.SetParamValues("42")

	mock.ExpectExec(`DELETE FROM movies WHERE id=\?`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie with the given ID was not found.")
}

func TestMovieDeleteNoBody(t *testing.T) {
	h, mock := newMovieTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/cinema/movies/42/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("movie_id")
	c.SetParamValues("42")

	mock.ExpectExec(`DELETE FROM movies WHERE id=\?`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
