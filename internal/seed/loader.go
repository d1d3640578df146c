// Package seed drives the warehouse provisioning run: catalog ingestion,
// synthetic user generation, and stream-event synthesis.
package seed

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mpetit/musicdb-seeder/internal/catalog"
	"github.com/mpetit/musicdb-seeder/internal/store"
)

// Catalog is the remote-fetch surface the loader consumes.
type Catalog interface {
	ResolveArtist(ctx context.Context, name string) (catalog.Artist, error)
	Albums(ctx context.Context, artistID int64) iter.Seq2[catalog.Album, error]
	Tracks(ctx context.Context, albumID int64) iter.Seq2[catalog.Track, error]
}

// CatalogStore is the persistence surface the loader writes through.
type CatalogStore interface {
	UpsertArtist(ctx context.Context, artist store.Artist) (bool, error)
	UpsertAlbum(ctx context.Context, album store.Album) (bool, error)
	UpsertSong(ctx context.Context, song store.Song) (bool, error)
}

// ArtistResult is the outcome of loading one artist's catalog subtree.
type ArtistResult struct {
	Name          string
	ArtistID      int64
	CanonicalName string
	NewAlbums     int
	NewSongs      int

	// Err is set when the subtree was abandoned partway; rows committed
	// before the failure stay committed.
	Err error
}

// Loader ingests artist catalogs into the store, one committed level at a
// time: artist, then each album, then that album's songs.
type Loader struct {
	catalog     Catalog
	store       CatalogStore
	concurrency int
	log         logrus.FieldLogger
}

// NewLoader creates a catalog loader. Concurrency caps how many artists load
// in parallel; values below 1 mean sequential.
func NewLoader(cat Catalog, st CatalogStore, concurrency int, log logrus.FieldLogger) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		catalog:     cat,
		store:       st,
		concurrency: concurrency,
		log:         log,
	}
}

// LoadArtists loads every named artist's catalog, fanning out up to the
// configured concurrency. Artists are independent: one artist's failure never
// stops the others. The returned results are positionally aligned with names.
func (l *Loader) LoadArtists(ctx context.Context, names []string) []ArtistResult {
	results := make([]ArtistResult, len(names))

	g := new(errgroup.Group)
	g.SetLimit(l.concurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = l.loadArtist(ctx, name)
			return nil
		})
	}
	// Outcomes travel in results; no goroutine returns an error.
	_ = g.Wait()

	return results
}

// loadArtist resolves one artist and walks its album/track hierarchy. The
// first error abandons the rest of the subtree: an album row is committed
// before any of its songs, and the artist row before any album, so every row
// written so far satisfies its foreign keys.
func (l *Loader) loadArtist(ctx context.Context, name string) ArtistResult {
	res := ArtistResult{Name: name}

	artist, err := l.catalog.ResolveArtist(ctx, name)
	if err != nil {
		res.Err = fmt.Errorf("resolving artist: %w", err)
		return res
	}
	res.ArtistID = artist.ID
	res.CanonicalName = artist.Name

	if _, err := l.store.UpsertArtist(ctx, store.Artist{ID: artist.ID, Name: artist.Name}); err != nil {
		res.Err = fmt.Errorf("writing artist %d: %w", artist.ID, err)
		return res
	}

	for album, err := range l.catalog.Albums(ctx, artist.ID) {
		if err != nil {
			res.Err = fmt.Errorf("listing albums: %w", err)
			return res
		}

		release := normalizeReleaseDate(album.ReleaseDate)
		newAlbum, err := l.store.UpsertAlbum(ctx, store.Album{
			ID:          album.ID,
			Title:       album.Title,
			ReleaseDate: release,
			ArtistID:    artist.ID,
		})
		if err != nil {
			res.Err = fmt.Errorf("writing album %d: %w", album.ID, err)
			return res
		}
		if newAlbum {
			res.NewAlbums++
		}

		for track, err := range l.catalog.Tracks(ctx, album.ID) {
			if err != nil {
				res.Err = fmt.Errorf("listing tracks of album %d: %w", album.ID, err)
				return res
			}

			newSong, err := l.store.UpsertSong(ctx, store.Song{
				ID:          track.ID,
				Title:       track.Title,
				AlbumID:     album.ID,
				ArtistID:    artist.ID,
				ReleaseDate: release,
			})
			if err != nil {
				res.Err = fmt.Errorf("writing song %d: %w", track.ID, err)
				return res
			}
			if newSong {
				res.NewSongs++
			}
		}
	}

	l.log.WithFields(logrus.Fields{
		"artist": res.CanonicalName,
		"albums": res.NewAlbums,
		"songs":  res.NewSongs,
	}).Info("artist catalog loaded")
	return res
}

// unknownReleaseDate stands in for catalog dates the date column cannot
// hold, like the service's "0000-00-00" placeholder.
const unknownReleaseDate = "1900-01-01"

func normalizeReleaseDate(date string) string {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return unknownReleaseDate
	}
	return date
}
