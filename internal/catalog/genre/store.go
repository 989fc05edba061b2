// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package genre

import "context"

// Repository defines the data access contract.
type Repository interface {
	ListGenres(context context.Context) ([]*Genre, error)
	GetGenreByID(context context.Context, id int) (*Genre, error)
	GetGenreByName(context context.Context, name string) (*Genre, error)
	CreateGenre(context context.Context, genre *Genre) error
	UpdateGenre(context context.Context, genre *Genre) error
	DeleteGenre(context context.Context, id int) error

	// CountReferences reports how many movie and serie associations point
	// at the genre. A referenced genre cannot be deleted.
	CountReferences(context context.Context, id int) (int, error)
}
