package schema

// CatalogMovieTable represents the 'catalog.movie' table
type CatalogMovieTable struct {
	Table          string
	ID             string
	Title          string
	Synopsis       string
	ReleaseYear    string
	Director       string
	Duration       string
	Classification string
	Rating         string
	CoverURL       string
	TrailerURL     string
	MovieURL       string
	CreatedAt      string
	UpdatedAt      string
}

// CatalogMovie is the schema definition for catalog.movie
var CatalogMovie = CatalogMovieTable{
	Table:          "catalog.movie",
	ID:             "id",
	Title:          "title",
	Synopsis:       "synopsis",
	ReleaseYear:    "releaseyear",
	Director:       "director",
	Duration:       "duration",
	Classification: "classification",
	Rating:         "rating",
	CoverURL:       "coverurl",
	TrailerURL:     "trailerurl",
	MovieURL:       "movieurl",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t CatalogMovieTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Synopsis, t.ReleaseYear, t.Director, t.Duration,
		t.Classification, t.Rating, t.CoverURL, t.TrailerURL, t.MovieURL,
		t.CreatedAt, t.UpdatedAt,
	}
}
