package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Report is the run-level outcome: what committed and what failed. A run
// never ends in partial silent success; every collected failure is listed.
type Report struct {
	RunID   uuid.UUID
	Elapsed time.Duration

	UsersCommitted   int64
	StreamsCommitted int64
	Artists          []ArtistResult

	// Errs holds phase-level failures outside the per-artist results:
	// user batches, stream batches, unmet generator preconditions.
	Errs []error
}

// FailedArtists returns the artists whose subtree load was abandoned.
func (r *Report) FailedArtists() []ArtistResult {
	var failed []ArtistResult
	for _, a := range r.Artists {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

// OK reports whether the run completed without any collected failure.
func (r *Report) OK() bool {
	return len(r.Errs) == 0 && len(r.FailedArtists()) == 0
}

// Summary renders the final human-readable outcome.
func (r *Report) Summary() string {
	var albums, songs int
	loaded := 0
	for _, a := range r.Artists {
		albums += a.NewAlbums
		songs += a.NewSongs
		if a.Err == nil {
			loaded++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "run %s finished in %s: users=%d artists=%d/%d albums=%d songs=%d streams=%d",
		r.RunID, r.Elapsed.Round(time.Millisecond),
		r.UsersCommitted, loaded, len(r.Artists), albums, songs, r.StreamsCommitted)

	for _, a := range r.FailedArtists() {
		fmt.Fprintf(&b, "\n  artist %q failed: %v", a.Name, a.Err)
	}
	for _, err := range r.Errs {
		fmt.Fprintf(&b, "\n  %v", err)
	}
	return b.String()
}
