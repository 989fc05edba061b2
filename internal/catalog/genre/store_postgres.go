// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramirezb/cinemateca/internal/platform/database/schema"
	"github.com/dramirezb/cinemateca/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListGenres(context context.Context) ([]*Genre, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.CreatedAt,
		schema.CatalogGenre.UpdatedAt,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	return genres, nil
}

func (repository *PostgresRepository) GetGenreByID(context context.Context, id int) (*Genre, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.CreatedAt,
		schema.CatalogGenre.UpdatedAt,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.ID,
	)

	g := &Genre{}
	err := repository.db.QueryRow(context, query, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre")
	}

	return g, nil
}

func (repository *PostgresRepository) GetGenreByName(context context.Context, name string) (*Genre, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE LOWER(%s) = LOWER($1);
	`,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.CreatedAt,
		schema.CatalogGenre.UpdatedAt,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
	)

	g := &Genre{}
	err := repository.db.QueryRow(context, query, name).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre_by_name")
	}

	return g, nil
}

func (repository *PostgresRepository) CreateGenre(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1)
		RETURNING %s, %s, %s;
	`,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.CreatedAt,
		schema.CatalogGenre.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, genre.Name).
		Scan(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt)
	return dberr.Wrap(err, "create_genre")
}

func (repository *PostgresRepository) UpdateGenre(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW()
		WHERE %s = $2
		RETURNING %s;
	`,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.UpdatedAt,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, genre.Name, genre.ID).Scan(&genre.UpdatedAt)
	return dberr.Wrap(err, "update_genre")
}

func (repository *PostgresRepository) DeleteGenre(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.CatalogGenre.Table, schema.CatalogGenre.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(dberr.ErrNotFound, "delete_genre")
	}

	return nil
}

func (repository *PostgresRepository) CountReferences(context context.Context, id int) (int, error) {
	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s WHERE %s = $1) +
			(SELECT COUNT(*) FROM %s WHERE %s = $1);
	`,
		schema.MovieGenre.Table, schema.MovieGenre.GenreID,
		schema.SerieGenre.Table, schema.SerieGenre.GenreID,
	)

	var count int
	if err := repository.db.QueryRow(context, query, id).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_genre_references")
	}

	return count, nil
}
