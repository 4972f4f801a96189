package repository

import (
	"context"
	"database/sql"
)

// FavouriteRepo manages each user's favourites list. The list row itself
// (favourites) is created lazily on the first add; the movies hang off it
// in favourites_movies.
type FavouriteRepo struct{ DB *sql.DB }

func NewFavouriteRepo(db *sql.DB) *FavouriteRepo { return &FavouriteRepo{DB: db} }

// Add puts a movie on the user's favourites list, creating the list if
// this is the user's first favourite. Adding a movie twice maps to
// ErrAlreadyFavourite.
func (r *FavouriteRepo) Add(ctx context.Context, userID, movieID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var favID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM favourites WHERE user_id=? LIMIT 1", userID).Scan(&favID)
	if err == sql.ErrNoRows {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO favourites (user_id) VALUES (?)", userID)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		favID = uint64(id)
	} else if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO favourites_movies (favourite_id, movie_id) VALUES (?,?)",
		favID, movieID); err != nil {
		if isDuplicateErr(err) {
			return ErrAlreadyFavourite
		}
		return err
	}
	return tx.Commit()
}

// List returns the user's favourite movies, newest favourite first.
// A user with no list at all maps to ErrNoFavourites.
func (r *FavouriteRepo) List(ctx context.Context, userID uint64) ([]MovieListItem, error) {
	var favID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM favourites WHERE user_id=? LIMIT 1", userID).Scan(&favID)
	if err == sql.ErrNoRows {
		return nil, ErrNoFavourites
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.name, m.year, m.imdb, m.description
		 FROM movies m JOIN favourites_movies fm ON fm.movie_id = m.id
		 WHERE fm.favourite_id=? ORDER BY m.id DESC`, favID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MovieListItem{}
	for rows.Next() {
		var it MovieListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Year, &it.IMDB, &it.Description); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Remove takes a movie off the user's favourites list. A user without a
// list maps to ErrNoFavourites; a list that lacks the movie maps to
// ErrNotInFavourites.
func (r *FavouriteRepo) Remove(ctx context.Context, userID, movieID uint64) error {
	var favID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM favourites WHERE user_id=? LIMIT 1", userID).Scan(&favID)
	if err == sql.ErrNoRows {
		return ErrNoFavourites
	}
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favourites_movies WHERE favourite_id=? AND movie_id=?", favID, movieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotInFavourites
	}
	return nil
}
