// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to touch a resource owned by someone else, while
// ErrConflict signals a uniqueness violation such as adding the
// same movie to favourites twice.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidInput is returned when the database rejects a write with a
// constraint violation that is the caller's fault (bad enum value,
// missing referenced row). Handlers translate this into HTTP 400.
var ErrInvalidInput = errors.New("invalid input data")

// ErrEmailExists is returned by user creation when the email column's
// unique index rejects the insert.
var ErrEmailExists = errors.New("email already exists")

// ErrMovieExists is returned when a movie with the same name, year and
// duration already exists.
var ErrMovieExists = errors.New("movie already exists")

// ErrNoMovies is returned by the movie search when no movie satisfies
// the requested filters. Checked before ErrPageOutOfRange.
var ErrNoMovies = errors.New("no movies found")

// ErrPageOutOfRange is returned by the movie search when the requested
// page exceeds the total page count of a non-empty result.
var ErrPageOutOfRange = errors.New("page out of range")

// ErrNoGenres is returned by the genre listing when the requested page
// holds no genres.
var ErrNoGenres = errors.New("no genres found")

// Favourites sentinels. ErrNoFavourites means the user never favourited
// anything; ErrNotInFavourites means the list exists but lacks the movie.
var (
	ErrAlreadyFavourite = errors.New("movie already in favourites")
	ErrNoFavourites     = errors.New("no favourites found")
	ErrNotInFavourites  = errors.New("movie not in favourites")
)

// isDuplicateErr reports whether err is a MySQL duplicate-key violation
// (error 1062). Races between check-then-insert sequences surface here
// rather than as application-level state.
func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isConstraintErr reports whether err is any MySQL constraint violation
// a caller could have provoked: duplicate key (1062), bad foreign key
// (1452), check violation (3819) or bad enum/data value (1265).
func isConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, code := range []string{"1062", "1452", "3819", "1265"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}
