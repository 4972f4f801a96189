package repository

import (
	"context"
	"strings"
)

// Pagination bounds for the movie listing.
const (
	DefaultPerPage = 10
	MaxPerPage     = 20
)

// sortColumns is the closed set of sortable movie columns. Mapping the
// request key through this table keeps the sortable surface explicit
// instead of reaching into arbitrary columns.
var sortColumns = map[string]string{
	"price":    "m.price",
	"budget":   "m.budget",
	"duration": "m.duration",
}

// MovieSearchQuery defines search, filters, sorting & pagination for the
// movie listing. Nil pointer filters mean "not set".
type MovieSearchQuery struct {
	Search    string
	Year      *int
	IMDB      *float64
	SortBy    string // price | budget | duration (anything else: no explicit sort)
	SortOrder string // asc (default) | desc
	Page      int
	PerPage   int
}

// MovieListItem is one row of the movie listing.
type MovieListItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	IMDB        float64 `json:"imdb"`
	Description string  `json:"description"`
}

// MoviePage is one page of results plus the totals the handler needs to
// build prev/next links.
type MoviePage struct {
	Items      []MovieListItem
	TotalItems int64
	TotalPages int
}

// movieSearchJoins left-joins actors and directors so the free-text search
// can match their names. The joins multiply rows per movie, which is why
// every aggregate below runs over DISTINCT movie ids.
const movieSearchJoins = ` FROM movies m
	LEFT JOIN actors_movies am ON am.movie_id = m.id
	LEFT JOIN actors a ON a.id = am.actor_id
	LEFT JOIN directors_movies dm ON dm.movie_id = m.id
	LEFT JOIN directors d ON d.id = dm.director_id`

// Search produces exactly one page of movies for the given query.
//
// The page is computed in two phases: first the ids of the page are taken
// from the deduplicated, filtered, ordered join (GROUP BY m.id collapses
// the actor/director row multiplication), then the full rows are fetched
// by primary key and the page order is re-imposed with ORDER BY FIELD,
// because a bare IN() fetch returns rows in storage order.
//
// Returns ErrNoMovies when nothing matches and ErrPageOutOfRange when the
// requested page exceeds the total — checked in that order.
func (r *MovieRepo) Search(ctx context.Context, q MovieSearchQuery) (MoviePage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}

	where := []string{}
	args := []any{}

	if s := strings.TrimSpace(q.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		where = append(where,
			"(LOWER(m.name) LIKE ? OR LOWER(m.description) LIKE ? OR LOWER(a.name) LIKE ? OR LOWER(d.name) LIKE ?)")
		args = append(args, pat, pat, pat, pat)
	}
	if q.Year != nil {
		where = append(where, "m.year = ?")
		args = append(args, *q.Year)
	}
	if q.IMDB != nil {
		where = append(where, "m.imdb >= ?")
		args = append(args, *q.IMDB)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	// Count distinct movies before paginating; counting raw join rows
	// would overcount movies with several actors or directors.
	var total int64
	countSQL := "SELECT COUNT(DISTINCT m.id)" + movieSearchJoins + " WHERE " + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return MoviePage{}, err
	}
	if total == 0 {
		return MoviePage{}, ErrNoMovies
	}

	totalPages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if q.Page > totalPages {
		return MoviePage{}, ErrPageOutOfRange
	}

	// Explicit sort column first when requested; id DESC is always the
	// final tie-break so identical filters yield a stable page sequence.
	order := "m.id DESC"
	if col, ok := sortColumns[q.SortBy]; ok {
		dir := "ASC"
		if strings.EqualFold(q.SortOrder, "desc") {
			dir = "DESC"
		}
		order = col + " " + dir + ", m.id DESC"
	}

	offset := (q.Page - 1) * q.PerPage
	idsSQL := "SELECT m.id" + movieSearchJoins + " WHERE " + cond +
		" GROUP BY m.id ORDER BY " + order + " LIMIT ? OFFSET ?"
	idArgs := append(append([]any{}, args...), q.PerPage, offset)

	rows, err := r.DB.QueryContext(ctx, idsSQL, idArgs...)
	if err != nil {
		return MoviePage{}, err
	}
	defer rows.Close()

	ids := make([]uint64, 0, q.PerPage)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return MoviePage{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return MoviePage{}, err
	}
	if len(ids) == 0 {
		// shouldn't happen after the count, but keeps behavior stable
		return MoviePage{}, ErrNoMovies
	}

	items, err := r.listItemsByIDs(ctx, ids)
	if err != nil {
		return MoviePage{}, err
	}
	return MoviePage{Items: items, TotalItems: total, TotalPages: totalPages}, nil
}

// listItemsByIDs fetches listing rows for the given ids and re-imposes the
// ids' order via ORDER BY FIELD.
func (r *MovieRepo) listItemsByIDs(ctx context.Context, ids []uint64) ([]MovieListItem, error) {
	ph := placeholders(len(ids))
	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, id)
	}
	for _, id := range ids {
		args = append(args, id)
	}

	query := "SELECT m.id, m.name, m.year, m.imdb, m.description FROM movies m WHERE m.id IN (" +
		ph + ") ORDER BY FIELD(m.id, " + ph + ")"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MovieListItem, 0, len(ids))
	for rows.Next() {
		var it MovieListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Year, &it.IMDB, &it.Description); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// placeholders returns "?,?,…" with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
