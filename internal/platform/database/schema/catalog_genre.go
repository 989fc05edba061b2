package schema

// CatalogGenreTable represents the 'catalog.genre' table
type CatalogGenreTable struct {
	Table     string
	ID        string
	Name      string
	CreatedAt string
	UpdatedAt string
}

// CatalogGenre is the schema definition for catalog.genre
var CatalogGenre = CatalogGenreTable{
	Table:     "catalog.genre",
	ID:        "id",
	Name:      "name",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t CatalogGenreTable) Columns() []string {
	return []string{t.ID, t.Name, t.CreatedAt, t.UpdatedAt}
}
