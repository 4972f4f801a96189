package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// GenreRepo reads the genres catalogue.
type GenreRepo struct{ DB *sql.DB }

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{DB: db} }

// GenreListItem is one row of the genre listing with its movie count.
type GenreListItem struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	MoviesCount int64  `json:"movies_count"`
}

// GenrePage is one page of genres plus the totals for pagination links.
type GenrePage struct {
	Items      []GenreListItem
	TotalItems int64
	TotalPages int
}

// List returns one page of genres ordered by name, each with the number
// of movies carrying it. Returns ErrNoGenres on an empty catalogue and
// ErrPageOutOfRange past the last page.
func (r *GenreRepo) List(ctx context.Context, page, perPage int) (GenrePage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM genres").Scan(&total); err != nil {
		return GenrePage{}, err
	}
	if total == 0 {
		return GenrePage{}, ErrNoGenres
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if page > totalPages {
		return GenrePage{}, ErrPageOutOfRange
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT g.id, g.name, COUNT(mg.movie_id)
		 FROM genres g LEFT JOIN movies_genres mg ON mg.genre_id = g.id
		 GROUP BY g.id, g.name ORDER BY g.name LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage)
	if err != nil {
		return GenrePage{}, err
	}
	defer rows.Close()

	items := make([]GenreListItem, 0, perPage)
	for rows.Next() {
		var it GenreListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.MoviesCount); err != nil {
			return GenrePage{}, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return GenrePage{}, err
	}
	return GenrePage{Items: items, TotalItems: total, TotalPages: totalPages}, nil
}

// GenreDetail is a genre with the movies that carry it.
type GenreDetail struct {
	model.Genre
	Movies []MovieListItem
}

// Detail loads one genre and its movies, newest movie first. Missing
// genres map to sql.ErrNoRows.
func (r *GenreRepo) Detail(ctx context.Context, id uint64) (GenreDetail, error) {
	var d GenreDetail
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM genres WHERE id=? LIMIT 1", id).Scan(&d.ID, &d.Name)
	if err != nil {
		return GenreDetail{}, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.name, m.year, m.imdb, m.description
		 FROM movies m JOIN movies_genres mg ON mg.movie_id = m.id
		 WHERE mg.genre_id=? ORDER BY m.id DESC`, id)
	if err != nil {
		return GenreDetail{}, err
	}
	defer rows.Close()

	d.Movies = []MovieListItem{}
	for rows.Next() {
		var it MovieListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Year, &it.IMDB, &it.Description); err != nil {
			return GenreDetail{}, err
		}
		d.Movies = append(d.Movies, it)
	}
	return d, rows.Err()
}
