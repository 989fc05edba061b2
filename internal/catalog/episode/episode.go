// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package episode implements the leaf level of the series catalog. Episode
numbers are unique within their season.
*/
package episode

import (
	"time"

	"github.com/dramirezb/cinemateca/internal/upload"
)

// Episode is one episode of a season.
type Episode struct {
	ID            string    `json:"id"`
	SeasonID      string    `json:"seasonId"`
	Title         string    `json:"title"`
	Synopsis      *string   `json:"synopsis"`
	EpisodeNumber int       `json:"episodeNumber"`
	Duration      *int      `json:"duration"`
	CoverURL      *string   `json:"coverUrl"`
	EpisodeURL    *string   `json:"episodeUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// currentURLs exposes the stored media fields to the upload coordinator.
func (e *Episode) currentURLs() map[string]*string {
	return map[string]*string{
		"coverUrl":   e.CoverURL,
		"episodeUrl": e.EpisodeURL,
	}
}

// blobURLs lists every blob the episode owns, for deletion cleanup.
func (e *Episode) blobURLs() []string {
	var urls []string
	for _, url := range []*string{e.CoverURL, e.EpisodeURL} {
		if url != nil && *url != "" {
			urls = append(urls, *url)
		}
	}
	return urls
}

// CreateEpisodeInput is the parsed multipart payload for creating an
// episode.
type CreateEpisodeInput struct {
	SeasonID      string
	Title         string
	Synopsis      *string
	EpisodeNumber int
	Duration      *int

	// Files holds the multipart file parts keyed by field name; a nil
	// value is the delete sentinel.
	Files map[string]*upload.FileInput
}

// UpdateEpisodeInput is the partial-update variant; nil pointers leave
// the stored value untouched. The parent season is immutable.
type UpdateEpisodeInput struct {
	Title         *string
	Synopsis      *string
	EpisodeNumber *int
	Duration      *int

	Files map[string]*upload.FileInput
}

// Filter narrows list queries.
type Filter struct {
	SeasonID *string
}

// fileSpecs are the upload policies of the episode media fields.
var fileSpecs = []upload.FieldSpec{
	{Name: "coverUrl", Folder: "episodes/covers", Kind: upload.KindImage},
	{Name: "episodeUrl", Folder: "episodes/videos", Kind: upload.KindVideo},
}

// fieldRequirements documents the expected input shape; it is attached to
// every 4xx response of this module.
var fieldRequirements = map[string]string{
	"seasonId":      "Existing season id - REQUIRED",
	"title":         "String (1-255 chars) - REQUIRED",
	"synopsis":      "String - OPTIONAL",
	"episodeNumber": "Integer (>= 1), unique within the season - REQUIRED",
	"duration":      "Integer minutes (>= 1) - OPTIONAL",
	"coverUrl":      "Image file (jpg, png, webp, gif; max 10MB) - OPTIONAL",
	"episodeUrl":    "Video file (mp4, webm, mov; max 50MB) - OPTIONAL",
}
