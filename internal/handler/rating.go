package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// RatingHandler serves the rating toggle endpoint.
type RatingHandler struct {
	Movies  *repository.MovieRepo
	Ratings *repository.RatingRepo
}

func NewRatingHandler(m *repository.MovieRepo, r *repository.RatingRepo) *RatingHandler {
	return &RatingHandler{Movies: m, Ratings: r}
}

type ratingReq struct {
	Rating int `json:"rating"`
}

type ratingToggleResp struct {
	MovieID uint64 `json:"movie_id"`
	UserID  uint64 `json:"user_id"`
	Rating  *int   `json:"rating"`
	Detail  string `json:"detail"`
}

// Toggle rates a movie: a first rating creates, the same value removes,
// a different value replaces.
func (h *RatingHandler) Toggle(c echo.Context) error {
	movieID, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}
	var req ratingReq
	if err := c.Bind(&req); err != nil || req.Rating < model.RatingMin || req.Rating > model.RatingMax {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	ok, err := h.Movies.Exists(ctx, movieID)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while rating the movie.")
	}
	if !ok {
		return jsonDetail(c, http.StatusNotFound, movieNotFoundMsg)
	}

	outcome, err := h.Ratings.Toggle(ctx, uid, movieID, req.Rating)
	if err != nil {
		if err == repository.ErrInvalidInput {
			return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while rating the movie.")
	}

	resp := ratingToggleResp{MovieID: movieID, UserID: uid}
	if outcome == repository.ToggleRemoved {
		resp.Detail = "Your rating was removed"
	} else {
		r := req.Rating
		resp.Rating = &r
		resp.Detail = fmt.Sprintf("You gave this movie %d", req.Rating)
	}
	return c.JSON(http.StatusCreated, resp)
}
