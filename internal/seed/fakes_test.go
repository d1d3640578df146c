package seed

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mpetit/musicdb-seeder/internal/catalog"
	"github.com/mpetit/musicdb-seeder/internal/store"
)

// seqOf yields items then, if set, a terminal error.
func seqOf[T any](items []T, err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

type fakeCatalog struct {
	artists    map[string]catalog.Artist
	resolveErr map[string]error
	albums     map[int64][]catalog.Album
	albumsErr  map[int64]error
	tracks     map[int64][]catalog.Track
	tracksErr  map[int64]error

	// Concurrency observation.
	resolveDelay time.Duration
	inflight     atomic.Int32
	maxInflight  atomic.Int32
}

func (f *fakeCatalog) ResolveArtist(ctx context.Context, name string) (catalog.Artist, error) {
	cur := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		old := f.maxInflight.Load()
		if cur <= old || f.maxInflight.CompareAndSwap(old, cur) {
			break
		}
	}
	if f.resolveDelay > 0 {
		time.Sleep(f.resolveDelay)
	}

	if err := f.resolveErr[name]; err != nil {
		return catalog.Artist{}, err
	}
	artist, ok := f.artists[name]
	if !ok {
		return catalog.Artist{}, fmt.Errorf("%w: %q", catalog.ErrNotFound, name)
	}
	return artist, nil
}

func (f *fakeCatalog) Albums(ctx context.Context, artistID int64) iter.Seq2[catalog.Album, error] {
	return seqOf(f.albums[artistID], f.albumsErr[artistID])
}

func (f *fakeCatalog) Tracks(ctx context.Context, albumID int64) iter.Seq2[catalog.Track, error] {
	return seqOf(f.tracks[albumID], f.tracksErr[albumID])
}

// fakeStore is an in-memory WarehouseStore enforcing the same referential
// rules as the real schema: child rows fail unless their parents exist.
type fakeStore struct {
	mu      sync.Mutex
	artists map[int64]store.Artist
	albums  map[int64]store.Album
	songs   map[int64]store.Song
	users   []store.User
	streams []store.Stream

	// order records writes as "artist:13570", "album:1", "song:100",
	// "users", "streams".
	order []string

	schemaErr  error
	songErr    map[int64]error
	usersErr   error
	usersN     int64
	streamsErr error
	streamsN   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		artists: make(map[int64]store.Artist),
		albums:  make(map[int64]store.Album),
		songs:   make(map[int64]store.Song),
		songErr: make(map[int64]error),
	}
}

func (f *fakeStore) EnsureSchema(ctx context.Context) error {
	return f.schemaErr
}

func (f *fakeStore) UpsertArtist(ctx context.Context, artist store.Artist) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, fmt.Sprintf("artist:%d", artist.ID))
	if _, ok := f.artists[artist.ID]; ok {
		return false, nil
	}
	f.artists[artist.ID] = artist
	return true, nil
}

func (f *fakeStore) UpsertAlbum(ctx context.Context, album store.Album) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, fmt.Sprintf("album:%d", album.ID))
	if _, ok := f.artists[album.ArtistID]; !ok {
		return false, fmt.Errorf("%w: album %d references missing artist %d", store.ErrIntegrityViolation, album.ID, album.ArtistID)
	}
	if _, ok := f.albums[album.ID]; ok {
		return false, nil
	}
	f.albums[album.ID] = album
	return true, nil
}

func (f *fakeStore) UpsertSong(ctx context.Context, song store.Song) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, fmt.Sprintf("song:%d", song.ID))
	if err := f.songErr[song.ID]; err != nil {
		return false, err
	}
	if _, ok := f.albums[song.AlbumID]; !ok {
		return false, fmt.Errorf("%w: song %d references missing album %d", store.ErrIntegrityViolation, song.ID, song.AlbumID)
	}
	if _, ok := f.artists[song.ArtistID]; !ok {
		return false, fmt.Errorf("%w: song %d references missing artist %d", store.ErrIntegrityViolation, song.ID, song.ArtistID)
	}
	if _, ok := f.songs[song.ID]; ok {
		return false, nil
	}
	f.songs[song.ID] = song
	return true, nil
}

func (f *fakeStore) InsertUsers(ctx context.Context, users []store.User, batchSize int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, "users")
	if f.usersErr != nil {
		return f.usersN, f.usersErr
	}
	f.users = append(f.users, users...)
	return int64(len(users)), nil
}

func (f *fakeStore) InsertStreams(ctx context.Context, streams []store.Stream, batchSize int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, "streams")
	if f.streamsErr != nil {
		return f.streamsN, f.streamsErr
	}
	for _, ev := range streams {
		if _, ok := f.songs[ev.SongID]; !ok {
			return int64(len(f.streams)), fmt.Errorf("%w: stream references missing song %d", store.ErrIntegrityViolation, ev.SongID)
		}
	}
	f.streams = append(f.streams, streams...)
	return int64(len(streams)), nil
}

func (f *fakeStore) SongIDs(ctx context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id := range f.songs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) UserIDs(ctx context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, u := range f.users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
