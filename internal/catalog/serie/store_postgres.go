// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package serie

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

// serieColumns is the stable select list shared by every serie query.
func serieColumns(alias string) string {
	t := schema.CatalogSerie
	columns := []string{
		t.ID, t.Title, t.Synopsis, t.ReleaseYear, t.Director,
		t.Classification, t.Rating, t.CoverURL, t.CreatedAt, t.UpdatedAt,
	}
	for index, column := range columns {
		columns[index] = alias + column
	}
	return strings.Join(columns, ", ")
}

func scanSerie(row interface{ Scan(dest ...any) error }) (*Serie, error) {
	s := &Serie{Genres: make([]genrelink.GenreRef, 0)}
	err := row.Scan(
		&s.ID, &s.Title, &s.Synopsis, &s.ReleaseYear, &s.Director,
		&s.Classification, &s.Rating, &s.CoverURL, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (repository *PostgresRepository) ListSeries(context context.Context, filter Filter, page pagination.Params) ([]*Serie, int, error) {

	where := ""
	args := []any{}

	if filter.GenreID != nil {
		where = fmt.Sprintf(`WHERE EXISTS (
			SELECT 1 FROM %s l WHERE l.%s = s.%s AND l.%s = $1
		)`,
			schema.SerieGenre.Table, schema.SerieGenre.OwnerID,
			schema.CatalogSerie.ID, schema.SerieGenre.GenreID,
		)
		args = append(args, *filter.GenreID)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s s %s;`, schema.CatalogSerie.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_series")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s s
		%s
		ORDER BY s.%s DESC NULLS LAST, s.%s DESC
		LIMIT $%d OFFSET $%d;
	`,
		serieColumns("s."),
		schema.CatalogSerie.Table,
		where,
		schema.CatalogSerie.ReleaseYear, schema.CatalogSerie.CreatedAt,
		len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_series")
	}
	defer rows.Close()

	series := make([]*Serie, 0)
	for rows.Next() {
		s, err := scanSerie(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_serie")
		}
		series = append(series, s)
	}

	return series, total, nil
}

func (repository *PostgresRepository) GetSerieByID(context context.Context, id string) (*Serie, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s s WHERE s.%s = $1;`,
		serieColumns("s."), schema.CatalogSerie.Table, schema.CatalogSerie.ID)

	s, err := scanSerie(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Serie")
		}
		return nil, dberr.Wrap(err, "get_serie")
	}

	return s, nil
}

func (repository *PostgresRepository) CreateSerie(context context.Context, serie *Serie, genreIDs []int, syncGenres bool) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_serie")
	}
	defer transaction.Rollback(context)

	t := schema.CatalogSerie
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		t.Table,
		t.ID, t.Title, t.Synopsis, t.ReleaseYear, t.Director,
		t.Classification, t.Rating, t.CoverURL, t.CreatedAt, t.UpdatedAt,
	)

	_, err = transaction.Exec(context, query,
		serie.ID, serie.Title, serie.Synopsis, serie.ReleaseYear, serie.Director,
		serie.Classification, serie.Rating, serie.CoverURL, serie.CreatedAt, serie.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_serie")
	}

	if syncGenres {
		if err := repository.links.ReplaceAll(context, transaction, serie.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_serie")
	}

	return nil
}

func (repository *PostgresRepository) UpdateSerie(context context.Context, serie *Serie, genreIDs []int, syncGenres bool) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_serie")
	}
	defer transaction.Rollback(context)

	t := schema.CatalogSerie
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
		    %s = NOW()
		WHERE %s = $8;
	`,
		t.Table,
		t.Title, t.Synopsis, t.ReleaseYear, t.Director,
		t.Classification, t.Rating, t.CoverURL,
		t.UpdatedAt,
		t.ID,
	)

	tag, err := transaction.Exec(context, query,
		serie.Title, serie.Synopsis, serie.ReleaseYear, serie.Director,
		serie.Classification, serie.Rating, serie.CoverURL, serie.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_serie")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Serie")
	}

	if syncGenres {
		if err := repository.links.ReplaceAll(context, transaction, serie.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_serie")
	}

	return nil
}

/*
DeleteSerie cascades through the subtree in one transaction.

The child media URLs are read first, while the rows still exist, then
episodes, seasons, genre links and finally the serie row are deleted.
The URLs are only returned once the commit succeeded; nothing is removed
from storage here.
*/
func (repository *PostgresRepository) DeleteSerie(context context.Context, id string) ([]string, error) {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_delete_serie")
	}
	defer transaction.Rollback(context)

	childBlobs, err := collectChildBlobs(context, transaction, id)
	if err != nil {
		return nil, err
	}

	season := schema.CatalogSeason
	episode := schema.CatalogEpisode

	episodeQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s IN (SELECT %s FROM %s WHERE %s = $1);
	`,
		episode.Table, episode.SeasonID,
		season.ID, season.Table, season.SerieID,
	)
	if _, err := transaction.Exec(context, episodeQuery, id); err != nil {
		return nil, dberr.Wrap(err, "delete_serie_episodes")
	}

	seasonQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`, season.Table, season.SerieID)
	if _, err := transaction.Exec(context, seasonQuery, id); err != nil {
		return nil, dberr.Wrap(err, "delete_serie_seasons")
	}

	linkQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.SerieGenre.Table, schema.SerieGenre.OwnerID)
	if _, err := transaction.Exec(context, linkQuery, id); err != nil {
		return nil, dberr.Wrap(err, "delete_serie_links")
	}

	rowQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.CatalogSerie.Table, schema.CatalogSerie.ID)

	tag, err := transaction.Exec(context, rowQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "delete_serie")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("Serie")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_delete_serie")
	}

	return childBlobs, nil
}

// collectChildBlobs gathers the non-null media URLs of every season and
// episode under the serie.
func collectChildBlobs(context context.Context, transaction pgx.Tx, serieID string) ([]string, error) {
	season := schema.CatalogSeason
	episode := schema.CatalogEpisode

	query := fmt.Sprintf(`
		SELECT url FROM (
			SELECT s.%s AS url FROM %s s WHERE s.%s = $1
			UNION ALL
			SELECT s.%s FROM %s s WHERE s.%s = $1
			UNION ALL
			SELECT e.%s FROM %s e
			JOIN %s s ON s.%s = e.%s
			WHERE s.%s = $1
			UNION ALL
			SELECT e.%s FROM %s e
			JOIN %s s ON s.%s = e.%s
			WHERE s.%s = $1
		) blobs
		WHERE url IS NOT NULL AND url <> '';
	`,
		season.CoverURL, season.Table, season.SerieID,
		season.TrailerURL, season.Table, season.SerieID,
		episode.CoverURL, episode.Table, season.Table, season.ID, episode.SeasonID, season.SerieID,
		episode.EpisodeURL, episode.Table, season.Table, season.ID, episode.SeasonID, season.SerieID,
	)

	rows, err := transaction.Query(context, query, serieID)
	if err != nil {
		return nil, dberr.Wrap(err, "collect_serie_blobs")
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, dberr.Wrap(err, "scan_serie_blob")
		}
		urls = append(urls, url)
	}

	return urls, nil
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
