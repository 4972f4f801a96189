package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingToggleCreates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRatingRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT rating FROM ratings WHERE user_id=\? AND movie_id=\?`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"rating"})) // no prior rating
	mock.ExpectExec(`INSERT INTO ratings \(user_id, movie_id, rating\)`).
		WithArgs(1, 2, 8).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	outcome, err := repo.Toggle(context.Background(), 1, 2, 8)
	require.NoError(t, err)
	assert.Equal(t, ToggleCreated, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingToggleRemovesOnSameValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRatingRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT rating FROM ratings`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(8))
	mock.ExpectExec(`DELETE FROM ratings WHERE user_id=\? AND movie_id=\?`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := repo.Toggle(context.Background(), 1, 2, 8)
	require.NoError(t, err)
	assert.Equal(t, ToggleRemoved, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingToggleUpdatesOnDifferentValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRatingRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT rating FROM ratings`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(8))
	mock.ExpectExec(`UPDATE ratings SET rating=\? WHERE user_id=\? AND movie_id=\?`).
		WithArgs(3, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := repo.Toggle(context.Background(), 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, ToggleUpdated, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionToggleFlips(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReactionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT reaction FROM movie_reactions`).
		WithArgs(5, 9).
		WillReturnRows(sqlmock.NewRows([]string{"reaction"}).AddRow("like"))
	mock.ExpectExec(`UPDATE movie_reactions SET reaction=\?`).
		WithArgs("dislike", 5, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := repo.Toggle(context.Background(), 5, 9, "dislike")
	require.NoError(t, err)
	assert.Equal(t, ToggleUpdated, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionToggleRemoves(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReactionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT reaction FROM movie_reactions`).
		WithArgs(5, 9).
		WillReturnRows(sqlmock.NewRows([]string{"reaction"}).AddRow("like"))
	mock.ExpectExec(`DELETE FROM movie_reactions`).
		WithArgs(5, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := repo.Toggle(context.Background(), 5, 9, "like")
	require.NoError(t, err)
	assert.Equal(t, ToggleRemoved, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}
