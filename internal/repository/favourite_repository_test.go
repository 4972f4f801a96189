package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavouriteAddCreatesListOnFirstUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFavouriteRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM favourites WHERE user_id=\?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"})) // no list yet
	mock.ExpectExec(`INSERT INTO favourites \(user_id\)`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(`INSERT INTO favourites_movies`).
		WithArgs(11, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(context.Background(), 3, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavouriteAddDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFavouriteRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM favourites WHERE user_id=\?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`INSERT INTO favourites_movies`).
		WithArgs(11, 42).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))
	mock.ExpectRollback()

	err = repo.Add(context.Background(), 3, 42)
	assert.ErrorIs(t, err, ErrAlreadyFavourite)
}

func TestFavouriteRemoveWithoutList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFavouriteRepo(db)

	mock.ExpectQuery(`SELECT id FROM favourites WHERE user_id=\?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err = repo.Remove(context.Background(), 3, 42)
	assert.ErrorIs(t, err, ErrNoFavourites)
}

func TestFavouriteRemoveMovieNotOnList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFavouriteRepo(db)

	mock.ExpectQuery(`SELECT id FROM favourites WHERE user_id=\?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`DELETE FROM favourites_movies`).
		WithArgs(11, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Remove(context.Background(), 3, 42)
	assert.ErrorIs(t, err, ErrNotInFavourites)
}
