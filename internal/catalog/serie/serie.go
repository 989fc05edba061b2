// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package serie implements the series catalog: CRUD over catalog.serie,
cover uploads, genre association sync, and cascade deletion down to
seasons and episodes.

Deleting a serie removes every child season and episode row in the same
transaction; the media blobs of the whole subtree are collected first
and deleted best-effort after the commit.
*/
package serie

import (
	"time"

	"github.com/dramirezb/cinemateca/internal/catalog/genrelink"
	"github.com/dramirezb/cinemateca/internal/upload"
)

// Serie is one catalog entry; episodes hang off its seasons.
type Serie struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Synopsis       *string              `json:"synopsis"`
	ReleaseYear    *int                 `json:"releaseYear"`
	Director       *string              `json:"director"`
	Classification *string              `json:"classification"`
	Rating         *float64             `json:"rating"`
	CoverURL       *string              `json:"coverUrl"`
	Genres         []genrelink.GenreRef `json:"genres"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// currentURLs exposes the stored media fields to the upload coordinator.
func (s *Serie) currentURLs() map[string]*string {
	return map[string]*string{
		"coverUrl": s.CoverURL,
	}
}

// blobURLs lists the blobs owned by the serie row itself; child blobs
// are collected by the repository during cascade deletion.
func (s *Serie) blobURLs() []string {
	var urls []string
	if s.CoverURL != nil && *s.CoverURL != "" {
		urls = append(urls, *s.CoverURL)
	}
	return urls
}

// CreateSerieInput is the parsed multipart payload for creating a serie.
type CreateSerieInput struct {
	Title          string
	Synopsis       *string
	ReleaseYear    *int
	Director       *string
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

// UpdateSerieInput is the partial-update variant; nil pointers leave the
// stored value untouched.
type UpdateSerieInput struct {
	Title          *string
	Synopsis       *string
	ReleaseYear    *int
	Director       *string
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

// fileSpecs are the upload policies of the serie media fields.
var fileSpecs = []upload.FieldSpec{
	{Name: "coverUrl", Folder: "series/covers", Kind: upload.KindImage},
}

// fieldRequirements documents the expected input shape; it is attached to
// every 4xx response of this module.
var fieldRequirements = map[string]string{
	"title":          "String (1-255 chars) - REQUIRED",
	"synopsis":       "String - OPTIONAL",
	"releaseYear":    "Integer (>= 1878) - OPTIONAL",
	"director":       "String (2-100 chars) - OPTIONAL",
	"classification": "String - OPTIONAL",
	"rating":         "Float (0-10) - OPTIONAL",
	"genres":         "List of existing genre ids - OPTIONAL",
	"coverUrl":       "Image file (jpg, png, webp, gif; max 10MB) - OPTIONAL",
}
