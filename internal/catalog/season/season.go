// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package season implements the season catalog level between series and
episodes. Season numbers are unique within their serie, and deleting a
season cascades to its episodes.
*/
package season

import (
	"time"

	"github.com/dramirezb/cinemateca/internal/upload"
)

// Season is one season of a serie.
type Season struct {
	ID           string    `json:"id"`
	SerieID      string    `json:"serieId"`
	Title        string    `json:"title"`
	SeasonNumber int       `json:"seasonNumber"`
	ReleaseYear  *int      `json:"releaseYear"`
	CoverURL     *string   `json:"coverUrl"`
	TrailerURL   *string   `json:"trailerUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// currentURLs exposes the stored media fields to the upload coordinator.
func (s *Season) currentURLs() map[string]*string {
	return map[string]*string{
		"coverUrl":   s.CoverURL,
		"trailerUrl": s.TrailerURL,
	}
}

// blobURLs lists the blobs owned by the season row itself; episode blobs
// are collected by the repository during cascade deletion.
func (s *Season) blobURLs() []string {
	var urls []string
	for _, url := range []*string{s.CoverURL, s.TrailerURL} {
		if url != nil && *url != "" {
			urls = append(urls, *url)
		}
	}
	return urls
}

// CreateSeasonInput is the parsed multipart payload for creating a season.
type CreateSeasonInput struct {
	SerieID      string
	Title        string
	SeasonNumber int
	ReleaseYear  *int

	// Files holds the multipart file parts keyed by field name; a nil
	// value is the delete sentinel.
	Files map[string]*upload.FileInput
}

// UpdateSeasonInput is the partial-update variant; nil pointers leave the
// stored value untouched. The parent serie is immutable.
type UpdateSeasonInput struct {
	Title        *string
	SeasonNumber *int
	ReleaseYear  *int

	Files map[string]*upload.FileInput
}

// Filter narrows list queries.
type Filter struct {
	SerieID *string
}

// fileSpecs are the upload policies of the season media fields.
var fileSpecs = []upload.FieldSpec{
	{Name: "coverUrl", Folder: "seasons/covers", Kind: upload.KindImage},
	{Name: "trailerUrl", Folder: "seasons/trailers", Kind: upload.KindVideo},
}

// fieldRequirements documents the expected input shape; it is attached to
// every 4xx response of this module.
var fieldRequirements = map[string]string{
	"serieId":      "Existing serie id - REQUIRED",
	"title":        "String (1-255 chars) - REQUIRED",
	"seasonNumber": "Integer (>= 1), unique within the serie - REQUIRED",
	"releaseYear":  "Integer (>= 1878) - OPTIONAL",
	"coverUrl":     "Image file (jpg, png, webp, gif; max 10MB) - OPTIONAL",
	"trailerUrl":   "Video file (mp4, webm, mov; max 50MB) - OPTIONAL",
}
