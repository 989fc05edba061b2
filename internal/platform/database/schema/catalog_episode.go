package schema

// CatalogEpisodeTable represents the 'catalog.episode' table
type CatalogEpisodeTable struct {
	Table         string
	ID            string
	SeasonID      string
	Title         string
	Synopsis      string
	EpisodeNumber string
	Duration      string
	CoverURL      string
	EpisodeURL    string
	CreatedAt     string
	UpdatedAt     string
}

// CatalogEpisode is the schema definition for catalog.episode
var CatalogEpisode = CatalogEpisodeTable{
	Table:         "catalog.episode",
	ID:            "id",
	SeasonID:      "seasonid",
	Title:         "title",
	Synopsis:      "synopsis",
	EpisodeNumber: "episodenumber",
	Duration:      "duration",
	CoverURL:      "coverurl",
	EpisodeURL:    "episodeurl",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t CatalogEpisodeTable) Columns() []string {
	return []string{
		t.ID, t.SeasonID, t.Title, t.Synopsis, t.EpisodeNumber,
		t.Duration, t.CoverURL, t.EpisodeURL, t.CreatedAt, t.UpdatedAt,
	}
}
