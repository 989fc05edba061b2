// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package serie

import (
	"context"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// Repository abstracts serie persistence.
type Repository interface {
	ListSeries(context context.Context, filter Filter, page pagination.Params) ([]*Serie, int, error)
	GetSerieByID(context context.Context, id string) (*Serie, error)
	CreateSerie(context context.Context, serie *Serie, genreIDs []int, syncGenres bool) error
	UpdateSerie(context context.Context, serie *Serie, genreIDs []int, syncGenres bool) error

	// DeleteSerie removes the serie, its genre links, its seasons and
	// their episodes in one transaction. It returns the media URLs of
	// the deleted child rows so the caller can clean up storage.
	DeleteSerie(context context.Context, id string) ([]string, error)

	MissingGenres(context context.Context, ids []int) ([]int, error)
}

// GenreLister loads the genre associations of one serie.
type GenreLister interface {
	List(context context.Context, ownerID string) ([]genrelink.GenreRef, error)
}
