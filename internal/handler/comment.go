package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// CommentHandler serves the per-movie comment endpoints.
type CommentHandler struct {
	Movies   *repository.MovieRepo
	Comments *repository.CommentRepo
}

func NewCommentHandler(m *repository.MovieRepo, c *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Movies: m, Comments: c}
}

type commentReq struct {
	Comment string `json:"comment"`
}

type commentResp struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	MovieID   uint64    `json:"movie_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCommentResp(c model.Comment) commentResp {
	return commentResp{
		ID:        c.ID,
		UserID:    c.UserID,
		MovieID:   c.MovieID,
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// requireMovie responds 404 when the movie does not exist and reports
// whether the handler should continue.
func (h *CommentHandler) requireMovie(c echo.Context, ctx context.Context, movieID uint64) (bool, error) {
	ok, err := h.Movies.Exists(ctx, movieID)
	if err != nil {
		return false, jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching the movie.")
	}
	if !ok {
		return false, jsonDetail(c, http.StatusNotFound, movieNotFoundMsg)
	}
	return true, nil
}

// Create posts a comment on a movie.
func (h *CommentHandler) Create(c echo.Context) error {
	movieID, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if ok, err := h.requireMovie(c, ctx, movieID); !ok {
		return err
	}

	cm, err := h.Comments.Create(ctx, uid, movieID, strings.TrimSpace(req.Comment))
	if err != nil {
		if err == repository.ErrInvalidInput {
			return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while creating the comment.")
	}
	return c.JSON(http.StatusCreated, toCommentResp(cm))
}

// List returns all comments on a movie, newest first.
func (h *CommentHandler) List(c echo.Context) error {
	movieID, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if ok, err := h.requireMovie(c, ctx, movieID); !ok {
		return err
	}

	comments, err := h.Comments.ListByMovie(ctx, movieID)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching comments.")
	}
	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResp(cm))
	}
	return c.JSON(http.StatusOK, out)
}

// Update rewrites a comment. Authors edit their own; staff edit anyone's.
func (h *CommentHandler) Update(c echo.Context) error {
	commentID, err := paramUint(c, "comment_id", "Comment not found.")
	if err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	cm, err := h.Comments.Update(ctx, commentID, uid, isStaff(c), strings.TrimSpace(req.Comment))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return jsonDetail(c, http.StatusNotFound, "Comment not found.")
		case repository.ErrForbidden:
			return jsonDetail(c, http.StatusForbidden, "You can't update this comment.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while updating the comment.")
	}
	return c.JSON(http.StatusOK, toCommentResp(cm))
}

// Delete removes a comment. Authors delete their own; staff delete anyone's.
func (h *CommentHandler) Delete(c echo.Context) error {
	commentID, err := paramUint(c, "comment_id", "Comment not found.")
	if err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Comments.Delete(ctx, commentID, uid, isStaff(c)); err != nil {
		switch err {
		case sql.ErrNoRows:
			return jsonDetail(c, http.StatusNotFound, "Comment not found.")
		case repository.ErrForbidden:
			return jsonDetail(c, http.StatusForbidden, "You can't delete this comment.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while deleting the comment.")
	}
	return c.NoContent(http.StatusNoContent)
}
