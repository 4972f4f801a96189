package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// CommentRepo stores user comments on movies.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and returns the stored row.
func (r *CommentRepo) Create(ctx context.Context, userID, movieID uint64, text string) (model.Comment, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (user_id, movie_id, comment) VALUES (?,?,?)",
		userID, movieID, text)
	if err != nil {
		if isConstraintErr(err) {
			return model.Comment{}, ErrInvalidInput
		}
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one comment. Missing comments map to sql.ErrNoRows.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, movie_id, comment, created_at, updated_at FROM comments WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.UserID, &c.MovieID, &c.Comment, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListByMovie returns all comments on one movie, newest first.
func (r *CommentRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, movie_id, comment, created_at, updated_at FROM comments WHERE movie_id=? ORDER BY id DESC",
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.MovieID, &c.Comment, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites a comment's text. The author may always edit their own
// comment; staff callers pass isStaff to edit anyone's. A mismatch maps
// to ErrForbidden, a missing comment to sql.ErrNoRows.
func (r *CommentRepo) Update(ctx context.Context, id, userID uint64, isStaff bool, text string) (model.Comment, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Comment{}, err
	}
	if c.UserID != userID && !isStaff {
		return model.Comment{}, ErrForbidden
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET comment=? WHERE id=?", text, id); err != nil {
		return model.Comment{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a comment. The author may always delete their own
// comment; staff callers pass isStaff to delete anyone's. A mismatch
// maps to ErrForbidden, a missing comment to sql.ErrNoRows.
func (r *CommentRepo) Delete(ctx context.Context, id, userID uint64, isStaff bool) error {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID && !isStaff {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	return err
}
