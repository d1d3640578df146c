package store

// User is a synthetic listener. Ids are locally assigned, dense from 1.
type User struct {
	ID         int64
	Email      string
	Birthday   string
	Country    string
	Gender     string
	SignupDate string
}

// Artist carries the remote catalog's id verbatim.
type Artist struct {
	ID   int64
	Name string
}

// Album carries the remote catalog's id verbatim. ArtistID must already be
// committed when the album is written.
type Album struct {
	ID          int64
	Title       string
	ReleaseDate string
	ArtistID    int64
}

// Song carries the remote catalog's id verbatim. AlbumID and ArtistID must
// already be committed; ReleaseDate is inherited from the owning album.
type Song struct {
	ID          int64
	Title       string
	AlbumID     int64
	ArtistID    int64
	ReleaseDate string
}

// Stream is an append-only playback event. It has no identity beyond its
// attribute tuple.
type Stream struct {
	SongID          int64
	UserID          int64
	OfferID         int
	OfferBundled    bool
	Country         string
	Context         string
	DurationSeconds int
	StreamDate      string
}
