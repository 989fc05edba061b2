package schema

// MovieGenre is the schema definition for the catalog.movie_genre junction
var MovieGenre = LinkTable{
	Table:   "catalog.movie_genre",
	OwnerID: "movieid",
	GenreID: "genreid",
}

// SerieGenre is the schema definition for the catalog.serie_genre junction
var SerieGenre = LinkTable{
	Table:   "catalog.serie_genre",
	OwnerID: "serieid",
	GenreID: "genreid",
}
