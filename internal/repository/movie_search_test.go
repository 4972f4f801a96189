package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMovieRepo(t *testing.T) (*MovieRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMovieRepo(db), mock
}

func TestSearchNoMovies(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := repo.Search(context.Background(), MovieSearchQuery{Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, ErrNoMovies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPageOutOfRange(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	// 25 movies at 10 per page yield 3 pages; page 4 is out of range.
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	_, err := repo.Search(context.Background(), MovieSearchQuery{Page: 4, PerPage: 10})
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEmptyBeatsPageCheck(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	// An absurd page number still reports "no movies" when nothing matches.
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := repo.Search(context.Background(), MovieSearchQuery{Page: 999, PerPage: 10})
	assert.ErrorIs(t, err, ErrNoMovies)
}

func TestSearchLastPartialPage(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	// Page 3 of 25 movies holds the last 5 ids; GROUP BY dedupes the joins
	// and the default order is id DESC.
	mock.ExpectQuery(`GROUP BY m\.id ORDER BY m\.id DESC LIMIT \? OFFSET \?`).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(5).AddRow(4).AddRow(3).AddRow(2).AddRow(1))

	mock.ExpectQuery(`ORDER BY FIELD\(m\.id`).
		WithArgs(5, 4, 3, 2, 1, 5, 4, 3, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "imdb", "description"}).
			AddRow(5, "E", 2005, 7.5, "e").
			AddRow(4, "D", 2004, 7.4, "d").
			AddRow(3, "C", 2003, 7.3, "c").
			AddRow(2, "B", 2002, 7.2, "b").
			AddRow(1, "A", 2001, 7.1, "a"))

	page, err := repo.Search(context.Background(), MovieSearchQuery{Page: 3, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 5)
	assert.Equal(t, uint64(5), page.Items[0].ID)
	assert.Equal(t, uint64(1), page.Items[4].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFiltersAndSort(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	year := 1999
	imdb := 8.0

	// Search pattern is lowercased and wrapped, year is exact, imdb is a
	// lower bound; four placeholders cover name/description/actor/director.
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WithArgs("%matrix%", "%matrix%", "%matrix%", "%matrix%", 1999, 8.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`GROUP BY m\.id ORDER BY m\.price DESC, m\.id DESC LIMIT \? OFFSET \?`).
		WithArgs("%matrix%", "%matrix%", "%matrix%", "%matrix%", 1999, 8.0, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	mock.ExpectQuery(`ORDER BY FIELD\(m\.id`).
		WithArgs(42, 42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "imdb", "description"}).
			AddRow(42, "The Matrix", 1999, 8.7, "neo"))

	page, err := repo.Search(context.Background(), MovieSearchQuery{
		Search:    "Matrix",
		Year:      &year,
		IMDB:      &imdb,
		SortBy:    "price",
		SortOrder: "desc",
		Page:      1,
		PerPage:   10,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "The Matrix", page.Items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUnknownSortFallsBack(t *testing.T) {
	repo, mock := newMockMovieRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT m\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// "imdb" is not in the sort map, so only the id tie-break orders the page.
	mock.ExpectQuery(`GROUP BY m\.id ORDER BY m\.id DESC LIMIT \? OFFSET \?`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	mock.ExpectQuery(`ORDER BY FIELD\(m\.id`).
		WithArgs(7, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "imdb", "description"}).
			AddRow(7, "G", 2007, 6.0, "g"))

	_, err := repo.Search(context.Background(), MovieSearchQuery{SortBy: "imdb", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
