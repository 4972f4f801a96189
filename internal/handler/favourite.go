package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/repository"
)

// FavouriteHandler serves the per-user favourites endpoints.
type FavouriteHandler struct {
	Movies     *repository.MovieRepo
	Favourites *repository.FavouriteRepo
}

func NewFavouriteHandler(m *repository.MovieRepo, f *repository.FavouriteRepo) *FavouriteHandler {
	return &FavouriteHandler{Movies: m, Favourites: f}
}

// Add puts a movie on the caller's favourites list.
func (h *FavouriteHandler) Add(c echo.Context) error {
	movieID, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	ok, err := h.Movies.Exists(ctx, movieID)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while adding to favourites.")
	}
	if !ok {
		return jsonDetail(c, http.StatusNotFound, movieNotFoundMsg)
	}

	if err := h.Favourites.Add(ctx, uid, movieID); err != nil {
		if err == repository.ErrAlreadyFavourite {
			return jsonDetail(c, http.StatusConflict, "Movie already in favourites.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while adding to favourites.")
	}
	return jsonDetail(c, http.StatusCreated, "Movie added to favourites successfully.")
}

// List returns the caller's favourite movies. A user who never
// favourited anything gets an empty list, not an error.
func (h *FavouriteHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	movies, err := h.Favourites.List(ctx, uid)
	if err != nil {
		if err == repository.ErrNoFavourites {
			movies = []repository.MovieListItem{}
		} else {
			return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching favourites.")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// Remove takes a movie off the caller's favourites list.
func (h *FavouriteHandler) Remove(c echo.Context) error {
	movieID, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}
	uid, err := getUserID(c)
	if err != nil {
		return jsonDetail(c, http.StatusUnauthorized, "Invalid or expired token.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Favourites.Remove(ctx, uid, movieID); err != nil {
		switch err {
		case repository.ErrNoFavourites:
			return jsonDetail(c, http.StatusNotFound, "No favourites found.")
		case repository.ErrNotInFavourites:
			return jsonDetail(c, http.StatusNotFound, "Movie not in favourites.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while removing from favourites.")
	}
	return c.NoContent(http.StatusNoContent)
}
