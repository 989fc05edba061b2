// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/database/schema"
	"github.com/dramirezb/cinemateca/internal/platform/dberr"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

type PostgresRepository struct {
	db    *pgxpool.Pool
	links *genrelink.Manager
}

func NewPostgresRepository(db *pgxpool.Pool, links *genrelink.Manager) *PostgresRepository {
	return &PostgresRepository{db: db, links: links}
}

// movieColumns is the stable select list shared by every movie query.
func movieColumns(alias string) string {
	t := schema.CatalogMovie
	columns := []string{
		t.ID, t.Title, t.Synopsis, t.ReleaseYear, t.Director, t.Duration,
		t.Classification, t.Rating, t.CoverURL, t.TrailerURL, t.MovieURL,
		t.CreatedAt, t.UpdatedAt,
	}
	for index, column := range columns {
		columns[index] = alias + column
	}
	return strings.Join(columns, ", ")
}

func scanMovie(row interface{ Scan(dest ...any) error }) (*Movie, error) {
	m := &Movie{Genres: make([]genrelink.GenreRef, 0)}
	err := row.Scan(
		&m.ID, &m.Title, &m.Synopsis, &m.ReleaseYear, &m.Director, &m.Duration,
		&m.Classification, &m.Rating, &m.CoverURL, &m.TrailerURL, &m.MovieURL,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (repository *PostgresRepository) ListMovies(context context.Context, filter Filter, page pagination.Params) ([]*Movie, int, error) {

	where := ""
	args := []any{}

	if filter.GenreID != nil {
		where = fmt.Sprintf(`WHERE EXISTS (
			SELECT 1 FROM %s l WHERE l.%s = m.%s AND l.%s = $1
		)`,
			schema.MovieGenre.Table, schema.MovieGenre.OwnerID,
			schema.CatalogMovie.ID, schema.MovieGenre.GenreID,
		)
		args = append(args, *filter.GenreID)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s m %s;`, schema.CatalogMovie.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_movies")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s m
		%s
		ORDER BY m.%s DESC NULLS LAST, m.%s DESC
		LIMIT $%d OFFSET $%d;
	`,
		movieColumns("m."),
		schema.CatalogMovie.Table,
		where,
		schema.CatalogMovie.ReleaseYear, schema.CatalogMovie.CreatedAt,
		len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_movies")
	}
	defer rows.Close()

	movies := make([]*Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_movie")
		}
		movies = append(movies, m)
	}

	return movies, total, nil
}

func (repository *PostgresRepository) GetMovieByID(context context.Context, id string) (*Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s m WHERE m.%s = $1;`,
		movieColumns("m."), schema.CatalogMovie.Table, schema.CatalogMovie.ID)

	m, err := scanMovie(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Movie")
		}
		return nil, dberr.Wrap(err, "get_movie")
	}

	return m, nil
}

func (repository *PostgresRepository) CreateMovie(context context.Context, movie *Movie, genreIDs []int, syncGenres bool) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_movie")
	}
	defer transaction.Rollback(context)

	t := schema.CatalogMovie
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`,
		t.Table,
		t.ID, t.Title, t.Synopsis, t.ReleaseYear, t.Director, t.Duration,
		t.Classification, t.Rating, t.CoverURL, t.TrailerURL, t.MovieURL,
		t.CreatedAt, t.UpdatedAt,
	)

	_, err = transaction.Exec(context, query,
		movie.ID, movie.Title, movie.Synopsis, movie.ReleaseYear, movie.Director,
		movie.Duration, movie.Classification, movie.Rating, movie.CoverURL,
		movie.TrailerURL, movie.MovieURL, movie.CreatedAt, movie.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_movie")
	}

	if syncGenres {
		if err := repository.links.ReplaceAll(context, transaction, movie.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_movie")
	}

	return nil
}

func (repository *PostgresRepository) UpdateMovie(context context.Context, movie *Movie, genreIDs []int, syncGenres bool) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_movie")
	}
	defer transaction.Rollback(context)

	t := schema.CatalogMovie
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
		    %s = $8, %s = $9, %s = $10, %s = NOW()
		WHERE %s = $11;
	`,
		t.Table,
		t.Title, t.Synopsis, t.ReleaseYear, t.Director, t.Duration,
		t.Classification, t.Rating, t.CoverURL, t.TrailerURL, t.MovieURL,
		t.UpdatedAt,
		t.ID,
	)

	tag, err := transaction.Exec(context, query,
		movie.Title, movie.Synopsis, movie.ReleaseYear, movie.Director,
		movie.Duration, movie.Classification, movie.Rating, movie.CoverURL,
		movie.TrailerURL, movie.MovieURL, movie.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_movie")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Movie")
	}

	if syncGenres {
		if err := repository.links.ReplaceAll(context, transaction, movie.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_movie")
	}

	return nil
}

func (repository *PostgresRepository) DeleteMovie(context context.Context, id string) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_movie")
	}
	defer transaction.Rollback(context)

	linkQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.MovieGenre.Table, schema.MovieGenre.OwnerID)
	if _, err := transaction.Exec(context, linkQuery, id); err != nil {
		return dberr.Wrap(err, "delete_movie_links")
	}

	rowQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.CatalogMovie.Table, schema.CatalogMovie.ID)

	tag, err := transaction.Exec(context, rowQuery, id)
	if err != nil {
		return dberr.Wrap(err, "delete_movie")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Movie")
	}

	return dberr.Wrap(transaction.Commit(context), "commit_delete_movie")
}

func (repository *PostgresRepository) MissingGenres(context context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT wanted.id
		FROM unnest($1::int[]) AS wanted(id)
		LEFT JOIN %s g ON g.%s = wanted.id
		WHERE g.%s IS NULL;
	`,
		schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.CatalogGenre.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "check_genres_exist")
	}
	defer rows.Close()

	var missing []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_missing_genre")
		}
		missing = append(missing, id)
	}

	return missing, nil
}
