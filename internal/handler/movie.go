package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

const movieNotFoundMsg = "Movie with the given ID was not found."

// MovieHandler bundles repositories for the movie catalogue endpoints.
type MovieHandler struct {
	Movies    *repository.MovieRepo
	Comments  *repository.CommentRepo
	Ratings   *repository.RatingRepo
	Reactions *repository.ReactionRepo
}

func NewMovieHandler(m *repository.MovieRepo, c *repository.CommentRepo, r *repository.RatingRepo, re *repository.ReactionRepo) *MovieHandler {
	if m == nil || c == nil || r == nil || re == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: m, Comments: c, Ratings: r, Reactions: re}
}

// ----- DTOs -----

type createMovieReq struct {
	UUID          string   `json:"uuid"`
	Name          string   `json:"name"`
	Year          int      `json:"year"`
	Duration      int      `json:"duration"`
	IMDB          float64  `json:"imdb"`
	IMDBVotes     int      `json:"imdb_votes"`
	Description   string   `json:"description"`
	Budget        float64  `json:"budget"`
	Revenue       float64  `json:"revenue"`
	Certification string   `json:"certification"`
	Price         float64  `json:"price"`
	Country       string   `json:"country"`
	Genres        []string `json:"genres"`
	Actors        []string `json:"actors"`
	Directors     []string `json:"directors"`
	Languages     []string `json:"languages"`
}

type updateMovieReq struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget"`
	Revenue     *float64 `json:"revenue"`
}

type movieListResp struct {
	Movies     []repository.MovieListItem `json:"movies"`
	PrevPage   *string                    `json:"prev_page"`
	NextPage   *string                    `json:"next_page"`
	TotalPages int                        `json:"total_pages"`
	TotalItems int64                      `json:"total_items"`
}

type movieDetailResp struct {
	ID            uint64         `json:"id"`
	UUID          string         `json:"uuid"`
	Name          string         `json:"name"`
	Year          int            `json:"year"`
	Duration      int            `json:"duration"`
	IMDB          float64        `json:"imdb"`
	IMDBVotes     int            `json:"imdb_votes"`
	Description   string         `json:"description"`
	Budget        float64        `json:"budget"`
	Revenue       float64        `json:"revenue"`
	Certification string         `json:"certification"`
	Price         float64        `json:"price"`
	Country       countryPart    `json:"country"`
	Genres        []string       `json:"genres"`
	Actors        []string       `json:"actors"`
	Directors     []string       `json:"directors"`
	Languages     []string       `json:"languages"`
	Comments      []commentResp  `json:"comments"`
	Ratings       []ratingPart   `json:"ratings"`
	Reactions     []reactionPart `json:"reactions"`
}

type countryPart struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
type ratingPart struct {
	UserID uint64 `json:"user_id"`
	Rating int    `json:"rating"`
}
type reactionPart struct {
	UserID   uint64 `json:"user_id"`
	Reaction string `json:"reaction"`
}

// pageLink rebuilds the request URL with the page parameter swapped,
// keeping every filter the client sent. Returns nil when page is out of
// [1, totalPages].
func pageLink(c echo.Context, page, totalPages int) *string {
	if page < 1 || page > totalPages {
		return nil
	}
	q := c.Request().URL.Query()
	q.Set("page", strconv.Itoa(page))
	link := c.Request().URL.Path + "?" + q.Encode()
	return &link
}

// List serves the searchable, filterable, sortable movie listing.
func (h *MovieHandler) List(c echo.Context) error {
	q := repository.MovieSearchQuery{
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Page:      queryInt(c, "page", 1),
		PerPage:   queryInt(c, "per_page", repository.DefaultPerPage),
	}
	if s := c.QueryParam("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
		}
		q.Year = &y
	}
	if s := c.QueryParam("imdb"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
		}
		q.IMDB = &v
	}
	if q.Page < 1 || q.PerPage < 1 || q.PerPage > repository.MaxPerPage {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	page, err := h.Movies.Search(ctx, q)
	if err != nil {
		switch err {
		case repository.ErrNoMovies:
			return jsonDetail(c, http.StatusNotFound, "No movies found.")
		case repository.ErrPageOutOfRange:
			return jsonDetail(c, http.StatusNotFound, "Page out of range.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching movies.")
	}

	return c.JSON(http.StatusOK, movieListResp{
		Movies:     page.Items,
		PrevPage:   pageLink(c, q.Page-1, page.TotalPages),
		NextPage:   pageLink(c, q.Page+1, page.TotalPages),
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
	})
}

// Create adds a movie to the catalogue (staff only).
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	if req.Name == "" || req.Year == 0 || req.Duration <= 0 || req.Country == "" ||
		req.Description == "" || !model.ValidCertification(req.Certification) {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}
	if req.UUID == "" {
		req.UUID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	exists, err := h.Movies.ExistsByNameYear(ctx, req.Name, req.Year)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while creating the movie.")
	}
	if exists {
		return jsonDetail(c, http.StatusConflict,
			fmt.Sprintf("A movie with the name '%s' and release year '%d' already exists.", req.Name, req.Year))
	}

	id, err := h.Movies.Create(ctx, repository.MovieInput{
		UUID:          req.UUID,
		Name:          req.Name,
		Year:          req.Year,
		Duration:      req.Duration,
		IMDB:          req.IMDB,
		IMDBVotes:     req.IMDBVotes,
		Description:   req.Description,
		Budget:        req.Budget,
		Revenue:       req.Revenue,
		Certification: req.Certification,
		Price:         req.Price,
		CountryCode:   req.Country,
		Genres:        req.Genres,
		Actors:        req.Actors,
		Directors:     req.Directors,
		Languages:     req.Languages,
	})
	if err != nil {
		switch err {
		case repository.ErrMovieExists:
			return jsonDetail(c, http.StatusConflict,
				fmt.Sprintf("A movie with the name '%s' and release year '%d' already exists.", req.Name, req.Year))
		case repository.ErrInvalidInput:
			return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while creating the movie.")
	}

	return h.respondDetail(c, ctx, id, http.StatusCreated)
}

// Detail serves one movie with every related entity resolved.
func (h *MovieHandler) Detail(c echo.Context) error {
	id, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	return h.respondDetail(c, ctx, id, http.StatusOK)
}

// respondDetail assembles the full movie payload shared by Detail and Create.
func (h *MovieHandler) respondDetail(c echo.Context, ctx context.Context, id uint64, status int) error {
	d, err := h.Movies.GetDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonDetail(c, http.StatusNotFound, movieNotFoundMsg)
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching the movie.")
	}

	comments, err := h.Comments.ListByMovie(ctx, id)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching the movie.")
	}
	ratings, err := h.Ratings.ListByMovie(ctx, id)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching the movie.")
	}
	reactions, err := h.Reactions.ListByMovie(ctx, id)
	if err != nil {
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while fetching the movie.")
	}

	resp := movieDetailResp{
		ID:            d.ID,
		UUID:          d.UUID,
		Name:          d.Name,
		Year:          d.Year,
		Duration:      d.Duration,
		IMDB:          d.IMDB,
		IMDBVotes:     d.IMDBVotes,
		Description:   d.Description,
		Budget:        d.Budget,
		Revenue:       d.Revenue,
		Certification: d.Certification,
		Price:         d.Price,
		Country:       countryPart{Code: d.Country.Code, Name: d.Country.Name},
		Genres:        []string{},
		Actors:        []string{},
		Directors:     []string{},
		Languages:     []string{},
		Comments:      []commentResp{},
		Ratings:       []ratingPart{},
		Reactions:     []reactionPart{},
	}
	for _, g := range d.Genres {
		resp.Genres = append(resp.Genres, g.Name)
	}
	for _, a := range d.Actors {
		resp.Actors = append(resp.Actors, a.Name)
	}
	for _, dr := range d.Directors {
		resp.Directors = append(resp.Directors, dr.Name)
	}
	for _, l := range d.Languages {
		resp.Languages = append(resp.Languages, l.Name)
	}
	for _, cm := range comments {
		resp.Comments = append(resp.Comments, toCommentResp(cm))
	}
	for _, rt := range ratings {
		resp.Ratings = append(resp.Ratings, ratingPart{UserID: rt.UserID, Rating: rt.Rating})
	}
	for _, rc := range reactions {
		resp.Reactions = append(resp.Reactions, reactionPart{UserID: rc.UserID, Reaction: rc.Reaction})
	}
	return c.JSON(status, resp)
}

// Update applies a partial movie update (staff only).
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}
	var req updateMovieReq
	if err := c.Bind(&req); err != nil {
		return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	err = h.Movies.UpdatePartial(ctx, id, repository.MoviePatch{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Budget:      req.Budget,
		Revenue:     req.Revenue,
	})
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return jsonDetail(c, http.StatusNotFound, movieNotFoundMsg)
		case repository.ErrMovieExists, repository.ErrInvalidInput:
			return jsonDetail(c, http.StatusBadRequest, "Invalid input data.")
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while updating the movie.")
	}
	return jsonDetail(c, http.StatusOK, "Movie updated successfully.")
}

// Delete removes a movie (staff only).
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := paramUint(c, "movie_id", movieNotFoundMsg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return jsonDetail(c, http.StatusNotFound, movieNotFoundMsg)
		}
		return jsonDetail(c, http.StatusInternalServerError, "An error occurred while deleting the movie.")
	}
	return c.NoContent(http.StatusNoContent)
}
