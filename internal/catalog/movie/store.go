// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package movie

import (
	"context"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// Repository defines the data access contract.
type Repository interface {
	ListMovies(context context.Context, filter Filter, page pagination.Params) ([]*Movie, int, error)
	GetMovieByID(context context.Context, id string) (*Movie, error)

	// CreateMovie inserts the row and, when syncGenres is set, replaces
	// the genre associations inside the same transaction.
	CreateMovie(context context.Context, movie *Movie, genreIDs []int, syncGenres bool) error

	// UpdateMovie writes the full row state under the same transactional
	// genre-sync contract as CreateMovie.
	UpdateMovie(context context.Context, movie *Movie, genreIDs []int, syncGenres bool) error

	// DeleteMovie removes the genre links and the row in one transaction.
	DeleteMovie(context context.Context, id string) error

	// MissingGenres reports which of the given genre ids do not exist.
	// Services call it before any upload is attempted.
	MissingGenres(context context.Context, ids []int) ([]int, error)
}

// GenreLister loads the association set for API responses.
// *genrelink.Manager satisfies it.
type GenreLister interface {
	List(context context.Context, ownerID string) ([]genrelink.GenreRef, error)
}
