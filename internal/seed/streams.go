package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mpetit/musicdb-seeder/internal/store"
)

// ErrPreconditionNotMet is returned when the event generator is invoked
// before any songs or users exist to reference.
var ErrPreconditionNotMet = errors.New("precondition not met")

// Snapshots provides the id sets the event generator samples from.
type Snapshots interface {
	SongIDs(ctx context.Context) ([]int64, error)
	UserIDs(ctx context.Context) ([]int64, error)
}

// StreamWriter is the bulk-write surface the event generator needs.
type StreamWriter interface {
	InsertStreams(ctx context.Context, streams []store.Stream, batchSize int) (int64, error)
}

// StreamConfig bounds the synthetic stream events.
type StreamConfig struct {
	Count              int
	Countries          []string
	Contexts           []string
	OfferIDMax         int
	MaxDurationSeconds int
	StreamYearMin      int
	StreamYearMax      int
	BatchSize          int
}

// GenerateStreams writes cfg.Count stream events referencing song and user
// ids snapshotted once at the start; concurrent writes after the snapshot are
// not sampled. If either snapshot is empty it fails with ErrPreconditionNotMet
// and writes nothing. Returns the number of rows committed.
func GenerateStreams(ctx context.Context, snaps Snapshots, w StreamWriter, cfg StreamConfig, rng *rand.Rand) (int64, error) {
	songIDs, err := snaps.SongIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshotting song ids: %w", err)
	}
	userIDs, err := snaps.UserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshotting user ids: %w", err)
	}
	if len(songIDs) == 0 {
		return 0, fmt.Errorf("%w: no songs loaded", ErrPreconditionNotMet)
	}
	if len(userIDs) == 0 {
		return 0, fmt.Errorf("%w: no users loaded", ErrPreconditionNotMet)
	}

	streams := make([]store.Stream, cfg.Count)
	for i := range streams {
		streams[i] = store.Stream{
			SongID:          pick(rng, songIDs),
			UserID:          pick(rng, userIDs),
			OfferID:         rng.IntN(cfg.OfferIDMax + 1),
			OfferBundled:    rng.IntN(2) == 1,
			Country:         pick(rng, cfg.Countries),
			Context:         pick(rng, cfg.Contexts),
			DurationSeconds: 1 + rng.IntN(cfg.MaxDurationSeconds),
			StreamDate:      streamDate(rng, cfg.StreamYearMin, cfg.StreamYearMax),
		}
	}
	return w.InsertStreams(ctx, streams, cfg.BatchSize)
}

// streamDate samples a date within the configured years. Days stop at 27 so
// every month is valid.
func streamDate(rng *rand.Rand, yearMin, yearMax int) string {
	year := yearBetween(rng, yearMin, yearMax)
	month := 1 + rng.IntN(12)
	day := 1 + rng.IntN(27)
	return fmt.Sprintf("%d-%02d-%02d", year, month, day)
}
