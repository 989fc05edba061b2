// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package season

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/database/schema"
	"github.com/dramirezb/cinemateca/internal/platform/dberr"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// seasonColumns is the stable select list shared by every season query.
func seasonColumns(alias string) string {
	t := schema.CatalogSeason
	columns := []string{
		t.ID, t.SerieID, t.Title, t.SeasonNumber, t.ReleaseYear,
		t.CoverURL, t.TrailerURL, t.CreatedAt, t.UpdatedAt,
	}
	for index, column := range columns {
		columns[index] = alias + column
	}
	return strings.Join(columns, ", ")
}

func scanSeason(row interface{ Scan(dest ...any) error }) (*Season, error) {
	s := &Season{}
	err := row.Scan(
		&s.ID, &s.SerieID, &s.Title, &s.SeasonNumber, &s.ReleaseYear,
		&s.CoverURL, &s.TrailerURL, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (repository *PostgresRepository) ListSeasons(context context.Context, filter Filter, page pagination.Params) ([]*Season, int, error) {

	where := ""
	args := []any{}

	if filter.SerieID != nil {
		where = fmt.Sprintf(`WHERE s.%s = $1`, schema.CatalogSeason.SerieID)
		args = append(args, *filter.SerieID)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s s %s;`, schema.CatalogSeason.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_seasons")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s s
		%s
		ORDER BY s.%s, s.%s
		LIMIT $%d OFFSET $%d;
	`,
		seasonColumns("s."),
		schema.CatalogSeason.Table,
		where,
		schema.CatalogSeason.SerieID, schema.CatalogSeason.SeasonNumber,
		len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_seasons")
	}
	defer rows.Close()

	seasons := make([]*Season, 0)
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_season")
		}
		seasons = append(seasons, s)
	}

	return seasons, total, nil
}

func (repository *PostgresRepository) GetSeasonByID(context context.Context, id string) (*Season, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s s WHERE s.%s = $1;`,
		seasonColumns("s."), schema.CatalogSeason.Table, schema.CatalogSeason.ID)

	s, err := scanSeason(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Season")
		}
		return nil, dberr.Wrap(err, "get_season")
	}

	return s, nil
}

func (repository *PostgresRepository) CreateSeason(context context.Context, season *Season) error {
	t := schema.CatalogSeason
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		t.Table,
		t.ID, t.SerieID, t.Title, t.SeasonNumber, t.ReleaseYear,
		t.CoverURL, t.TrailerURL, t.CreatedAt, t.UpdatedAt,
	)

	_, err := repository.db.Exec(context, query,
		season.ID, season.SerieID, season.Title, season.SeasonNumber, season.ReleaseYear,
		season.CoverURL, season.TrailerURL, season.CreatedAt, season.UpdatedAt,
	)
	return dberr.Wrap(err, "create_season")
}

func (repository *PostgresRepository) UpdateSeason(context context.Context, season *Season) error {
	t := schema.CatalogSeason
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6;
	`,
		t.Table,
		t.Title, t.SeasonNumber, t.ReleaseYear, t.CoverURL, t.TrailerURL,
		t.UpdatedAt,
		t.ID,
	)

	tag, err := repository.db.Exec(context, query,
		season.Title, season.SeasonNumber, season.ReleaseYear,
		season.CoverURL, season.TrailerURL, season.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_season")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Season")
	}

	return nil
}

/*
DeleteSeason removes the season and its episodes in one transaction,
collecting the episode media URLs while the rows still exist.
*/
func (repository *PostgresRepository) DeleteSeason(context context.Context, id string) ([]string, error) {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_delete_season")
	}
	defer transaction.Rollback(context)

	episode := schema.CatalogEpisode

	blobQuery := fmt.Sprintf(`
		SELECT url FROM (
			SELECT e.%s AS url FROM %s e WHERE e.%s = $1
			UNION ALL
			SELECT e.%s FROM %s e WHERE e.%s = $1
		) blobs
		WHERE url IS NOT NULL AND url <> '';
	`,
		episode.CoverURL, episode.Table, episode.SeasonID,
		episode.EpisodeURL, episode.Table, episode.SeasonID,
	)

	rows, err := transaction.Query(context, blobQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "collect_season_blobs")
	}

	var childBlobs []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			rows.Close()
			return nil, dberr.Wrap(err, "scan_season_blob")
		}
		childBlobs = append(childBlobs, url)
	}
	rows.Close()

	episodeQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`, episode.Table, episode.SeasonID)
	if _, err := transaction.Exec(context, episodeQuery, id); err != nil {
		return nil, dberr.Wrap(err, "delete_season_episodes")
	}

	rowQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.CatalogSeason.Table, schema.CatalogSeason.ID)

	tag, err := transaction.Exec(context, rowQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "delete_season")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("Season")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_delete_season")
	}

	return childBlobs, nil
}

func (repository *PostgresRepository) SerieExists(context context.Context, serieID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1);`,
		schema.CatalogSerie.Table, schema.CatalogSerie.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, serieID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_serie_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) SeasonNumberTaken(context context.Context, serieID string, number int, excludeID string) (bool, error) {
	t := schema.CatalogSeason
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s = $2 AND %s <> $3
		);
	`,
		t.Table, t.SerieID, t.SeasonNumber, t.ID,
	)

	var taken bool
	if err := repository.db.QueryRow(context, query, serieID, number, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_season_number")
	}
	return taken, nil
}
