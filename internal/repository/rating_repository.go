package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// RatingRepo stores per-user movie ratings.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Toggle applies the rating toggle for one user and movie: no prior
// rating inserts, the same value removes it, a different value replaces
// it.
func (r *RatingRepo) Toggle(ctx context.Context, userID, movieID uint64, rating int) (ToggleOutcome, error) {
	return toggleKeyedValue(ctx, r.DB, "ratings", "rating", userID, movieID, rating)
}

// ListByMovie returns all ratings for one movie, newest first.
func (r *RatingRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Rating, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, movie_id, rating, created_at FROM ratings WHERE movie_id=? ORDER BY id DESC",
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rating
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.MovieID, &rt.Rating, &rt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}
