package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo provides access to the movies table and the lookup tables a
// movie references (country, genres, actors, directors, languages).
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// MovieInput is the payload for creating a movie. The related entities
// are given by name (country by ISO code) and get-or-created on insert.
type MovieInput struct {
	UUID          string
	Name          string
	Year          int
	Duration      int
	IMDB          float64
	IMDBVotes     int
	Description   string
	Budget        float64
	Revenue       float64
	Certification string
	Price         float64
	CountryCode   string
	Genres        []string
	Actors        []string
	Directors     []string
	Languages     []string
}

// MoviePatch carries the optional fields of a partial movie update. Nil
// means "leave as is".
type MoviePatch struct {
	Name        *string
	Year        *int
	Description *string
	Budget      *float64
	Revenue     *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p MoviePatch) IsEmpty() bool {
	return p.Name == nil && p.Year == nil && p.Description == nil &&
		p.Budget == nil && p.Revenue == nil
}

// MovieDetail is a movie with all of its related entities resolved.
type MovieDetail struct {
	model.Movie
	Country   model.Country
	Genres    []model.Genre
	Actors    []model.Actor
	Directors []model.Director
	Languages []model.Language
}

// ExistsByNameYear reports whether a movie with the given name and release
// year is already catalogued.
func (r *MovieRepo) ExistsByNameYear(ctx context.Context, name string, year int) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM movies WHERE name=? AND year=? LIMIT 1", name, year).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Exists reports whether a movie row with the given id exists.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM movies WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a movie together with its related rows in one
// transaction. Lookup entities (country, genres, actors, directors,
// languages) are created on first use and reused afterwards. A duplicate
// (name, year, duration) maps to ErrMovieExists; other constraint
// violations, e.g. a bad certification value, map to ErrInvalidInput.
func (r *MovieRepo) Create(ctx context.Context, in MovieInput) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	countryID, err := getOrCreate(ctx, tx, "countries", "code", in.CountryCode)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO movies
		 (uuid, name, year, duration, imdb, imdb_votes, description, budget, revenue, certification, price, country_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		in.UUID, in.Name, in.Year, in.Duration, in.IMDB, in.IMDBVotes,
		in.Description, in.Budget, in.Revenue, in.Certification, in.Price, countryID)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrMovieExists
		}
		if isConstraintErr(err) {
			return 0, ErrInvalidInput
		}
		return 0, err
	}
	movieID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	links := []struct {
		table, nameCol, joinTable, joinCol string
		names                              []string
	}{
		{"genres", "name", "movies_genres", "genre_id", in.Genres},
		{"actors", "name", "actors_movies", "actor_id", in.Actors},
		{"directors", "name", "directors_movies", "director_id", in.Directors},
		{"languages", "name", "movies_languages", "language_id", in.Languages},
	}
	for _, l := range links {
		for _, name := range l.names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			id, err := getOrCreate(ctx, tx, l.table, l.nameCol, name)
			if err != nil {
				return 0, err
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT IGNORE INTO "+l.joinTable+" (movie_id, "+l.joinCol+") VALUES (?,?)",
				movieID, id); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(movieID), nil
}

// getOrCreate resolves a lookup row id by unique column value, inserting
// the row when it does not exist yet. Runs inside the caller's tx.
func getOrCreate(ctx context.Context, tx *sql.Tx, table, col, value string) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM "+table+" WHERE "+col+"=? LIMIT 1", value).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO "+table+" ("+col+") VALUES (?)", value)
	if err != nil {
		return 0, err
	}
	n, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// GetDetail loads one movie with country, genres, actors, directors and
// languages resolved. Missing movies map to sql.ErrNoRows.
func (r *MovieRepo) GetDetail(ctx context.Context, id uint64) (MovieDetail, error) {
	var d MovieDetail
	err := r.DB.QueryRowContext(ctx,
		`SELECT m.id, m.uuid, m.name, m.year, m.duration, m.imdb, m.imdb_votes,
		        m.description, m.budget, m.revenue, m.certification, m.price,
		        m.country_id, c.code, COALESCE(c.name, '')
		 FROM movies m JOIN countries c ON c.id = m.country_id
		 WHERE m.id=? LIMIT 1`, id).
		Scan(&d.ID, &d.UUID, &d.Name, &d.Year, &d.Duration, &d.IMDB, &d.IMDBVotes,
			&d.Description, &d.Budget, &d.Revenue, &d.Certification, &d.Price,
			&d.CountryID, &d.Country.Code, &d.Country.Name)
	if err != nil {
		return MovieDetail{}, err
	}
	d.Country.ID = d.CountryID

	if err := r.loadNames(ctx, id,
		"SELECT g.id, g.name FROM genres g JOIN movies_genres j ON j.genre_id=g.id WHERE j.movie_id=? ORDER BY g.name",
		func(id uint64, name string) { d.Genres = append(d.Genres, model.Genre{ID: id, Name: name}) }); err != nil {
		return MovieDetail{}, err
	}
	if err := r.loadNames(ctx, id,
		"SELECT a.id, a.name FROM actors a JOIN actors_movies j ON j.actor_id=a.id WHERE j.movie_id=? ORDER BY a.name",
		func(id uint64, name string) { d.Actors = append(d.Actors, model.Actor{ID: id, Name: name}) }); err != nil {
		return MovieDetail{}, err
	}
	if err := r.loadNames(ctx, id,
		"SELECT d.id, d.name FROM directors d JOIN directors_movies j ON j.director_id=d.id WHERE j.movie_id=? ORDER BY d.name",
		func(id uint64, name string) { d.Directors = append(d.Directors, model.Director{ID: id, Name: name}) }); err != nil {
		return MovieDetail{}, err
	}
	if err := r.loadNames(ctx, id,
		"SELECT l.id, l.name FROM languages l JOIN movies_languages j ON j.language_id=l.id WHERE j.movie_id=? ORDER BY l.name",
		func(id uint64, name string) { d.Languages = append(d.Languages, model.Language{ID: id, Name: name}) }); err != nil {
		return MovieDetail{}, err
	}
	return d, nil
}

// loadNames runs an (id, name) query for one movie and feeds each row to
// the collector.
func (r *MovieRepo) loadNames(ctx context.Context, movieID uint64, query string, collect func(uint64, string)) error {
	rows, err := r.DB.QueryContext(ctx, query, movieID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   uint64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		collect(id, name)
	}
	return rows.Err()
}

// UpdatePartial applies a patch to one movie. Missing movies map to
// sql.ErrNoRows; a patch that collides with another movie's (name, year,
// duration) maps to ErrMovieExists.
func (r *MovieRepo) UpdatePartial(ctx context.Context, id uint64, p MoviePatch) error {
	if p.IsEmpty() {
		return nil
	}
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return sql.ErrNoRows
	}

	sets := []string{}
	args := []any{}
	if p.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *p.Name)
	}
	if p.Year != nil {
		sets = append(sets, "year=?")
		args = append(args, *p.Year)
	}
	if p.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *p.Description)
	}
	if p.Budget != nil {
		sets = append(sets, "budget=?")
		args = append(args, *p.Budget)
	}
	if p.Revenue != nil {
		sets = append(sets, "revenue=?")
		args = append(args, *p.Revenue)
	}
	args = append(args, id)

	_, err = r.DB.ExecContext(ctx,
		"UPDATE movies SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrMovieExists
		}
		if isConstraintErr(err) {
			return ErrInvalidInput
		}
		return err
	}
	return nil
}

// Delete removes one movie; related join rows, comments, ratings and
// reactions go with it via ON DELETE CASCADE. Missing movies map to
// sql.ErrNoRows.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
