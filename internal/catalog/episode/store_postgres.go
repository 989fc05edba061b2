// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package episode

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

// episodeColumns is the stable select list shared by every episode query.
func episodeColumns(alias string) string {
	t := schema.CatalogEpisode
	columns := []string{
		t.ID, t.SeasonID, t.Title, t.Synopsis, t.EpisodeNumber,
		t.Duration, t.CoverURL, t.EpisodeURL, t.CreatedAt, t.UpdatedAt,
	}
	for index, column := range columns {
		columns[index] = alias + column
	}
	return strings.Join(columns, ", ")
}

func scanEpisode(row interface{ Scan(dest ...any) error }) (*Episode, error) {
	e := &Episode{}
	err := row.Scan(
		&e.ID, &e.SeasonID, &e.Title, &e.Synopsis, &e.EpisodeNumber,
		&e.Duration, &e.CoverURL, &e.EpisodeURL, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (repository *PostgresRepository) ListEpisodes(context context.Context, filter Filter, page pagination.Params) ([]*Episode, int, error) {

	where := ""
	args := []any{}

	if filter.SeasonID != nil {
		where = fmt.Sprintf(`WHERE e.%s = $1`, schema.CatalogEpisode.SeasonID)
		args = append(args, *filter.SeasonID)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s e %s;`, schema.CatalogEpisode.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_episodes")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s e
		%s
		ORDER BY e.%s, e.%s
		LIMIT $%d OFFSET $%d;
	`,
		episodeColumns("e."),
		schema.CatalogEpisode.Table,
		where,
		schema.CatalogEpisode.SeasonID, schema.CatalogEpisode.EpisodeNumber,
		len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_episodes")
	}
	defer rows.Close()

	episodes := make([]*Episode, 0)
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_episode")
		}
		episodes = append(episodes, e)
	}

	return episodes, total, nil
}

func (repository *PostgresRepository) GetEpisodeByID(context context.Context, id string) (*Episode, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s e WHERE e.%s = $1;`,
		episodeColumns("e."), schema.CatalogEpisode.Table, schema.CatalogEpisode.ID)

	e, err := scanEpisode(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Episode")
		}
		return nil, dberr.Wrap(err, "get_episode")
	}

	return e, nil
}

func (repository *PostgresRepository) CreateEpisode(context context.Context, episode *Episode) error {
	t := schema.CatalogEpisode
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		t.Table,
		t.ID, t.SeasonID, t.Title, t.Synopsis, t.EpisodeNumber,
		t.Duration, t.CoverURL, t.EpisodeURL, t.CreatedAt, t.UpdatedAt,
	)

	_, err := repository.db.Exec(context, query,
		episode.ID, episode.SeasonID, episode.Title, episode.Synopsis, episode.EpisodeNumber,
		episode.Duration, episode.CoverURL, episode.EpisodeURL, episode.CreatedAt, episode.UpdatedAt,
	)
	return dberr.Wrap(err, "create_episode")
}

func (repository *PostgresRepository) UpdateEpisode(context context.Context, episode *Episode) error {
	t := schema.CatalogEpisode
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $7;
	`,
		t.Table,
		t.Title, t.Synopsis, t.EpisodeNumber, t.Duration, t.CoverURL, t.EpisodeURL,
		t.UpdatedAt,
		t.ID,
	)

	tag, err := repository.db.Exec(context, query,
		episode.Title, episode.Synopsis, episode.EpisodeNumber, episode.Duration,
		episode.CoverURL, episode.EpisodeURL, episode.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_episode")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Episode")
	}

	return nil
}

func (repository *PostgresRepository) DeleteEpisode(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.CatalogEpisode.Table, schema.CatalogEpisode.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_episode")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Episode")
	}

	return nil
}

func (repository *PostgresRepository) SeasonExists(context context.Context, seasonID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1);`,
		schema.CatalogSeason.Table, schema.CatalogSeason.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, seasonID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_season_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) EpisodeNumberTaken(context context.Context, seasonID string, number int, excludeID string) (bool, error) {
	t := schema.CatalogEpisode
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s = $2 AND %s <> $3
		);
	`,
		t.Table, t.SeasonID, t.EpisodeNumber, t.ID,
	)

	var taken bool
	if err := repository.db.QueryRow(context, query, seasonID, number, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_episode_number")
	}
	return taken, nil
}
