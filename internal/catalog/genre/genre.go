// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

// Package genre implements the integer-keyed genre catalog and its
// referential deletion guard.
package genre

import "time"

// Genre is a classification label attachable to movies and series.
type Genre struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateGenreRequest is the JSON payload for creating a genre.
type CreateGenreRequest struct {
	Name string `json:"name"`
}

// UpdateGenreRequest is the JSON payload for renaming a genre.
type UpdateGenreRequest struct {
	Name string `json:"name"`
}

// fieldRequirements documents the expected input shape; it is attached to
// every 4xx response of this module.
var fieldRequirements = map[string]string{
	"name": "String (2-100 chars), unique - REQUIRED",
}
