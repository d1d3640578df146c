package catalog

// Artist is a catalog artist as returned by the artist search.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Album is a catalog album summary from an artist's album listing.
type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

// Track is a catalog track summary from an album's track listing.
type Track struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// page is the catalog service's list envelope. Next carries the absolute URL
// of the following page, empty on the last one.
type page[T any] struct {
	Data  []T    `json:"data"`
	Total int    `json:"total"`
	Next  string `json:"next"`
}

// apiError is the error object the service embeds in an otherwise 200 body.
type apiError struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}
