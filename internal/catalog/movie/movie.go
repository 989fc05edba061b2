// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package movie implements the movie catalog: CRUD over catalog.movie, media
uploads for cover, trailer and full video, and genre association sync.

Mutations follow the shared workflow: validate and pre-check against the
database first, then upload media, then persist inside one transaction.
A failed persist compensates by discarding the fresh blobs; a successful
update discards the blobs it replaced.
*/
package movie

import (
	"time"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/internal/upload"
)

// Movie is one catalog entry.
type Movie struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Synopsis       *string              `json:"synopsis"`
	ReleaseYear    *int                 `json:"releaseYear"`
	Director       *string              `json:"director"`
	Duration       *int                 `json:"duration"`
	Classification *string              `json:"classification"`
	Rating         *float64             `json:"rating"`
	CoverURL       *string              `json:"coverUrl"`
	TrailerURL     *string              `json:"trailerUrl"`
	MovieURL       *string              `json:"movieUrl"`
	Genres         []genrelink.GenreRef `json:"genres"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// currentURLs exposes the stored media fields to the upload coordinator.
func (m *Movie) currentURLs() map[string]*string {
	return map[string]*string{
		"coverUrl":   m.CoverURL,
		"trailerUrl": m.TrailerURL,
		"movieUrl":   m.MovieURL,
	}
}

// blobURLs lists every blob the movie owns, for deletion cleanup.
func (m *Movie) blobURLs() []string {
	var urls []string
	for _, url := range []*string{m.CoverURL, m.TrailerURL, m.MovieURL} {
		if url != nil && *url != "" {
			urls = append(urls, *url)
		}
	}
	return urls
}

// CreateMovieInput is the parsed multipart payload for creating a movie.
type CreateMovieInput struct {
	Title          string
	Synopsis       *string
	ReleaseYear    *int
	Director       *string
	Duration       *int
	Classification *string
	Rating         *float64

	// GenreIDs is applied only when HasGenres is set; an empty provided
	// list clears all associations.
	GenreIDs  []int
	HasGenres bool

	// Files holds the multipart file parts keyed by field name; a nil
	// value is the delete sentinel.
	Files map[string]*upload.FileInput
}

// UpdateMovieInput is the partial-update variant; nil pointers leave the
// stored value untouched.
type UpdateMovieInput struct {
	Title          *string
	Synopsis       *string
	ReleaseYear    *int
	Director       *string
	Duration       *int
	Classification *string
	Rating         *float64

	GenreIDs  []int
	HasGenres bool

	Files map[string]*upload.FileInput
}

// Filter narrows list queries.
type Filter struct {
	GenreID *int
}

// fileSpecs are the upload policies of the movie media fields.
var fileSpecs = []upload.FieldSpec{
	{Name: "coverUrl", Folder: "movies/covers", Kind: upload.KindImage},
	{Name: "trailerUrl", Folder: "movies/trailers", Kind: upload.KindVideo},
	{Name: "movieUrl", Folder: "movies/videos", Kind: upload.KindVideo},
}

// fieldRequirements documents the expected input shape; it is attached to
// every 4xx response of this module.
var fieldRequirements = map[string]string{
	"title":          "String (1-255 chars) - REQUIRED",
	"synopsis":       "String - OPTIONAL",
	"releaseYear":    "Integer (>= 1878) - OPTIONAL",
	"director":       "String (2-100 chars) - OPTIONAL",
	"duration":       "Integer minutes (>= 1) - OPTIONAL",
	"classification": "String - OPTIONAL",
	"rating":         "Float (0-10) - OPTIONAL",
	"genres":         "List of existing genre ids - OPTIONAL",
	"coverUrl":       "Image file (jpg, png, webp, gif; max 10MB) - OPTIONAL",
	"trailerUrl":     "Video file (mp4, webm, mov; max 50MB) - OPTIONAL",
	"movieUrl":       "Video file (mp4, webm, mov; max 50MB) - OPTIONAL",
}
