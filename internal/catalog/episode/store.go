// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package episode

import (
	"context"

	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// Repository abstracts episode persistence.
type Repository interface {
	ListEpisodes(context context.Context, filter Filter, page pagination.Params) ([]*Episode, int, error)
	GetEpisodeByID(context context.Context, id string) (*Episode, error)
	CreateEpisode(context context.Context, episode *Episode) error
	UpdateEpisode(context context.Context, episode *Episode) error
	DeleteEpisode(context context.Context, id string) error

	SeasonExists(context context.Context, seasonID string) (bool, error)

	// EpisodeNumberTaken reports whether another episode of the season
	// already carries the number; excludeID skips the episode being
	// updated.
	EpisodeNumberTaken(context context.Context, seasonID string, number int, excludeID string) (bool, error)
}
