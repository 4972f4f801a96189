package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// ReactionHandler serves the like/dislike toggle endpoint.
type ReactionHandler struct {
	Movies    *repository.MovieRepo
	Reactions *repository.ReactionRepo
}

func NewReactionHandler(m *repository.MovieRepo, r *repository.ReactionRepo) *ReactionHandler {
	return &ReactionHandler{Movies: m, Reactions: r}
}

type reactionReq struct {
	Reaction string `json:"reaction"`
}

type reactionToggleResp struct {
	MovieID  uint64  `json:"movie_id"`
	UserID   uint64  `json:"user_id"`
	Reaction *string `json:"reaction"`
	Detail   string  `json:"detail"`
}

// Toggle reacts to a movie: a first reaction creates, the same reaction
// removes, the opposite reaction flips.
func (h *ReactionHandler) Toggle(c echo.Context) error {
	movieID, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}
	var req reactionReq
	if err := c.Bind(&req); err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}
	reaction := strings.ToLower(strings.TrimSpace(req.Reaction))
	if !model.ValidReaction(reaction) {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	ok, err := h.Movies.Exists(ctx, movieID)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while reacting to the movie.")
	}
	if !ok {
		return jsonDetail(c, http.StatusNotFound, movieNotFoundMsg)
	}

	outcome, err := h.Reactions.Toggle(ctx, uid, movieID, reaction)
	if err != nil {
		if err == repository.ErrInvalidInput {
			return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while reacting to the movie.")
	}

	resp := reactionToggleResp{MovieID: movieID, UserID: uid}
	if outcome == repository.ToggleRemoved {
		resp.Detail = "Your reaction was removed"
	} else {
		r := reaction
		resp.Reaction = &r
		if reaction == model.ReactionLike {
			resp.Detail = "You liked this movie"
		} else {
			resp.Detail = "You disliked this movie"
		}
	}
	return c.JSON(http.StatusCreated, resp)
}
