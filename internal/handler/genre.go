package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/repository"
)

// GenreHandler serves the genre listing and detail endpoints.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(g *repository.GenreRepo) *GenreHandler {
	return &GenreHandler{Genres: g}
}

type genreListResp struct {
	Genres     []repository.GenreListItem `json:"genres"`
	PrevPage   *string                    `json:"prev_page"`
	NextPage   *string                    `json:"next_page"`
	TotalPages int                        `json:"total_pages"`
	TotalItems int64                      `json:"total_items"`
}

type genreDetailResp struct {
	ID     uint64                     `json:"id"`
	Name   string                     `json:"name"`
	Movies []repository.MovieListItem `json:"movies"`
}

// List returns one page of genres with their movie counts.
func (h *GenreHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", repository.DefaultPerPage)
	if page < 1 || perPage < 1 || perPage > repository.MaxPerPage {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	res, err := h.Genres.List(ctx, page, perPage)
	if err != nil {
		switch err {
		case repository.ErrNoGenres:
			return jsonDetail(c, http.StatusNotFound, "No genres found.")
		case repository.ErrPageOutOfRange:
			return jsonDetail(c, http.StatusNotFound, "Page out of range.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching genres.")
	}

	return c.JSON(http.StatusOK, genreListResp{
		Genres:     res.Items,
		PrevPage:   pageLink(c, page-1, res.TotalPages),
		NextPage:   pageLink(c, page+1, res.TotalPages),
		TotalPages: res.TotalPages,
		TotalItems: res.TotalItems,
	})
}

// Detail returns one genre with the movies carrying it.
func (h *GenreHandler) Detail(c echo.Context) error {
	id, err := paramUint(c, "genre_id", "Genre with the given ID was not found.")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	d, err := h.Genres.Detail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonDetail(c, http.StatusNotFound, "Genre with the given ID was not found.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching the genre.")
	}
	return c.JSON(http.StatusOK, genreDetailResp{ID: d.ID, Name: d.Name, Movies: d.Movies})
}
