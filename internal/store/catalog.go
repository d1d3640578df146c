package store

import (
	"context"
	"fmt"
)

// Catalog rows are keyed by the remote service; a conflicting id on re-run
// means the row is already loaded, so every upsert is insert-or-ignore.

// UpsertArtist inserts an artist unless its id already exists. Returns
// whether a new row was written.
func (s *Store) UpsertArtist(ctx context.Context, artist Artist) (bool, error) {
	ct, err := s.pool.Exec(ctx,
		`INSERT INTO artists (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		artist.ID, artist.Name,
	)
	if err != nil {
		return false, fmt.Errorf("upserting artist %d: %w", artist.ID, classify(err))
	}
	return ct.RowsAffected() > 0, nil
}

// UpsertAlbum inserts an album unless its id already exists. The referenced
// artist must be committed first.
func (s *Store) UpsertAlbum(ctx context.Context, album Album) (bool, error) {
	ct, err := s.pool.Exec(ctx,
		`INSERT INTO albums (id, title, release_date, artist_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		album.ID, album.Title, album.ReleaseDate, album.ArtistID,
	)
	if err != nil {
		return false, fmt.Errorf("upserting album %d: %w", album.ID, classify(err))
	}
	return ct.RowsAffected() > 0, nil
}

// UpsertSong inserts a song unless its id already exists. The referenced
// album and artist must be committed first.
func (s *Store) UpsertSong(ctx context.Context, song Song) (bool, error) {
	ct, err := s.pool.Exec(ctx,
		`INSERT INTO songs (id, title, album_id, artist_id, release_date)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		song.ID, song.Title, song.AlbumID, song.ArtistID, song.ReleaseDate,
	)
	if err != nil {
		return false, fmt.Errorf("upserting song %d: %w", song.ID, classify(err))
	}
	return ct.RowsAffected() > 0, nil
}
