package schema

// CatalogSerieTable represents the 'catalog.serie' table
type CatalogSerieTable struct {
	Table          string
	ID             string
	Title          string
	Synopsis       string
	ReleaseYear    string
	Director       string
	Classification string
	Rating         string
	CoverURL       string
	CreatedAt      string
	UpdatedAt      string
}

// CatalogSerie is the schema definition for catalog.serie
var CatalogSerie = CatalogSerieTable{
	Table:          "catalog.serie",
	ID:             "id",
	Title:          "title",
	Synopsis:       "synopsis",
	ReleaseYear:    "releaseyear",
	Director:       "director",
	Classification: "classification",
	Rating:         "rating",
	CoverURL:       "coverurl",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t CatalogSerieTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Synopsis, t.ReleaseYear, t.Director,
		t.Classification, t.Rating, t.CoverURL, t.CreatedAt, t.UpdatedAt,
	}
}
