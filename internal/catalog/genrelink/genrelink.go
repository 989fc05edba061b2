// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package genrelink manages the many-to-many associations between catalog
content (movies, series) and genres.

A single Manager is parameterized by a [schema.LinkTable] and the table of
the owning entity, so the same code serves both catalog.movie_genre and
catalog.serie_genre. ReplaceAll runs inside the caller's transaction so a
genre sync commits or rolls back together with the entity row it belongs to.
*/
package genrelink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/database/schema"
	"github.com/dramirezb/cinemateca/internal/platform/dberr"
)

// GenreRef is the genre projection returned for an owner's associations.
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Association is one persisted (owner, genre) pair.
type Association struct {
	OwnerID string `json:"ownerId"`
	GenreID int    `json:"genreId"`
}

// Manager implements the association operations over one link table.
type Manager struct {
	db         *pgxpool.Pool
	link       schema.LinkTable
	ownerTable string
	ownerIDCol string
	ownerName  string
	logger     *slog.Logger
}

// NewManager builds a manager for one junction table.
//
// # Parameters
//   - db: Shared connection pool.
//   - link: Junction table definition (table, owner column, genre column).
//   - ownerTable / ownerIDCol: Owning entity table used for existence checks.
//   - ownerName: Resource name used in NotFound messages, e.g. "Movie".
func NewManager(db *pgxpool.Pool, link schema.LinkTable, ownerTable, ownerIDCol, ownerName string, logger *slog.Logger) *Manager {
	return &Manager{
		db:         db,
		link:       link,
		ownerTable: ownerTable,
		ownerIDCol: ownerIDCol,
		ownerName:  ownerName,
		logger:     logger,
	}
}

// List returns the genres associated with an owner, ordered by name.
// An unknown owner yields NotFound rather than an empty list.
func (manager *Manager) List(context context.Context, ownerID string) ([]GenreRef, error) {

	if err := manager.ensureOwnerExists(context, ownerID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT g.%s, g.%s
		FROM %s g
		JOIN %s l ON g.%s = l.%s
		WHERE l.%s = $1
		ORDER BY g.%s ASC;
	`,
		schema.CatalogGenre.ID, schema.CatalogGenre.Name,
		schema.CatalogGenre.Table,
		manager.link.Table, schema.CatalogGenre.ID, manager.link.GenreID,
		manager.link.OwnerID,
		schema.CatalogGenre.Name,
	)

	rows, err := manager.db.Query(context, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_genre_links")
	}
	defer rows.Close()

	genres := make([]GenreRef, 0)
	for rows.Next() {
		var ref GenreRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_genre_link")
		}
		genres = append(genres, ref)
	}

	return genres, nil
}

/*
Add associates a genre with an owner.

# Returns
  - *Association: The created pair.
  - error: NotFound when owner or genre is absent, Conflict when the pair
    already exists.
*/
func (manager *Manager) Add(context context.Context, ownerID string, genreID int) (*Association, error) {

	if err := manager.ensureOwnerExists(context, ownerID); err != nil {
		return nil, err
	}
	if err := manager.ensureGenreExists(context, genreID); err != nil {
		return nil, err
	}

	exists, err := manager.pairExists(context, ownerID, genreID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Genre is already associated with this " + manager.ownerName)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2);`,
		manager.link.Table, manager.link.OwnerID, manager.link.GenreID)

	if _, err := manager.db.Exec(context, query, ownerID, genreID); err != nil {
		// The unique pair index backstops concurrent adds.
		return nil, dberr.Wrap(err, "add_genre_link")
	}

	manager.logger.InfoContext(context, "genre_link_added",
		slog.String("owner_id", ownerID),
		slog.Int("genre_id", genreID),
		slog.String("link_table", manager.link.Table),
	)

	return &Association{OwnerID: ownerID, GenreID: genreID}, nil
}

// Remove deletes one association pair. A missing pair is NotFound.
func (manager *Manager) Remove(context context.Context, ownerID string, genreID int) error {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2;`,
		manager.link.Table, manager.link.OwnerID, manager.link.GenreID)

	tag, err := manager.db.Exec(context, query, ownerID, genreID)
	if err != nil {
		return dberr.Wrap(err, "remove_genre_link")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre association")
	}

	return nil
}

/*
ReplaceAll swaps the owner's full association set inside the caller's
transaction: existing pairs are deleted, then the new set is inserted.
An empty id list clears all associations. Unknown genre ids fail the
whole transaction with a validation error.
*/
func (manager *Manager) ReplaceAll(context context.Context, tx pgx.Tx, ownerID string, genreIDs []int) error {

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		manager.link.Table, manager.link.OwnerID)

	if _, err := tx.Exec(context, deleteQuery, ownerID); err != nil {
		return dberr.Wrap(err, "clear_genre_links")
	}

	unique := dedupe(genreIDs)
	if len(unique) == 0 {
		return nil
	}

	// INSERT...SELECT keeps a single round trip per genre and lets the
	// row count reveal unknown ids.
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, %s FROM %s WHERE %s = $2;
	`,
		manager.link.Table, manager.link.OwnerID, manager.link.GenreID,
		schema.CatalogGenre.ID, schema.CatalogGenre.Table, schema.CatalogGenre.ID,
	)

	for _, genreID := range unique {
		tag, err := tx.Exec(context, insertQuery, ownerID, genreID)
		if err != nil {
			return dberr.Wrap(err, "insert_genre_link")
		}
		if tag.RowsAffected() == 0 {
			return apperr.ValidationError("Unknown genre id").
				WithFields(map[string]string{"genres": fmt.Sprintf("Genre %d does not exist", genreID)})
		}
	}

	return nil
}

// # Internals

func (manager *Manager) ensureOwnerExists(context context.Context, ownerID string) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1);`,
		manager.ownerTable, manager.ownerIDCol)

	var exists bool
	if err := manager.db.QueryRow(context, query, ownerID).Scan(&exists); err != nil {
		return dberr.Wrap(err, "check_owner_exists")
	}
	if !exists {
		return apperr.NotFound(manager.ownerName)
	}

	return nil
}

func (manager *Manager) ensureGenreExists(context context.Context, genreID int) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1);`,
		schema.CatalogGenre.Table, schema.CatalogGenre.ID)

	var exists bool
	if err := manager.db.QueryRow(context, query, genreID).Scan(&exists); err != nil {
		return dberr.Wrap(err, "check_genre_exists")
	}
	if !exists {
		return apperr.NotFound("Genre")
	}

	return nil
}

func (manager *Manager) pairExists(context context.Context, ownerID string, genreID int) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2);`,
		manager.link.Table, manager.link.OwnerID, manager.link.GenreID)

	var exists bool
	if err := manager.db.QueryRow(context, query, ownerID, genreID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_genre_link")
	}

	return exists, nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
