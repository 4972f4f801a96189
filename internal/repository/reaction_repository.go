package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ReactionRepo stores per-user like/dislike reactions.
type ReactionRepo struct{ DB *sql.DB }

func NewReactionRepo(db *sql.DB) *ReactionRepo { return &ReactionRepo{DB: db} }

// Toggle applies the reaction toggle for one user and movie: no prior
// reaction inserts, the same value removes it, the opposite value flips
// it.
func (r *ReactionRepo) Toggle(ctx context.Context, userID, movieID uint64, reaction string) (ToggleOutcome, error) {
	return toggleKeyedValue(ctx, r.DB, "movie_reactions", "reaction", userID, movieID, reaction)
}

// ListByMovie returns all reactions for one movie, newest first.
func (r *ReactionRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Reaction, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, movie_id, reaction, created_at FROM movie_reactions WHERE movie_id=? ORDER BY id DESC",
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reaction
	for rows.Next() {
		var rc model.Reaction
		if err := rows.Scan(&rc.ID, &rc.UserID, &rc.MovieID, &rc.Reaction, &rc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
