package schema

// CatalogSeasonTable represents the 'catalog.season' table
type CatalogSeasonTable struct {
	Table        string
	ID           string
	SerieID      string
	Title        string
	SeasonNumber string
	ReleaseYear  string
	CoverURL     string
	TrailerURL   string
	CreatedAt    string
	UpdatedAt    string
}

// CatalogSeason is the schema definition for catalog.season
var CatalogSeason = CatalogSeasonTable{
	Table:        "catalog.season",
	ID:           "id",
	SerieID:      "serieid",
	Title:        "title",
	SeasonNumber: "seasonnumber",
	ReleaseYear:  "releaseyear",
	CoverURL:     "coverurl",
	TrailerURL:   "trailerurl",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t CatalogSeasonTable) Columns() []string {
	return []string{
		t.ID, t.SerieID, t.Title, t.SeasonNumber, t.ReleaseYear,
		t.CoverURL, t.TrailerURL, t.CreatedAt, t.UpdatedAt,
	}
}
