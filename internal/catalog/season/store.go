// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package season

import (
	"context"

	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// Repository abstracts season persistence.
type Repository interface {
	ListSeasons(context context.Context, filter Filter, page pagination.Params) ([]*Season, int, error)
	GetSeasonByID(context context.Context, id string) (*Season, error)
	CreateSeason(context context.Context, season *Season) error
	UpdateSeason(context context.Context, season *Season) error

	// DeleteSeason removes the season and its episodes in one
	// transaction, returning the media URLs of the deleted episode rows
	// so the caller can clean up storage.
	DeleteSeason(context context.Context, id string) ([]string, error)

	SerieExists(context context.Context, serieID string) (bool, error)

	// SeasonNumberTaken reports whether another season of the serie
	// already carries the number; excludeID skips the season being
	// updated.
	SeasonNumberTaken(context context.Context, serieID string, number int, excludeID string) (bool, error)
}
