// Package schema centralizes table and column names so that SQL in the
// repository layer never hardcodes identifiers.
package schema

// LinkTable describes a two-column junction table between a content row
// and a genre.
type LinkTable struct {
	Table   string
	OwnerID string
	GenreID string
}
