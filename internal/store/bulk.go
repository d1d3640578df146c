package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const (
	defaultBatchSize = 5_000

	// maxBindParams is PostgreSQL's limit on bind parameters in one
	// statement; chunks are capped so a batch never exceeds it.
	maxBindParams = 65_535

	userCols   = 6
	streamCols = 8
)

// InsertUsers writes generated users in batches of batchSize rows, each batch
// one transaction. It returns the number of rows durably committed; on error
// that count marks the resumption offset, and the failed batch left no rows
// behind.
func (s *Store) InsertUsers(ctx context.Context, users []User, batchSize int) (int64, error) {
	n, err := insertChunks(ctx, users, clampBatchSize(batchSize, userCols), s.insertUserChunk)
	if err != nil {
		return n, fmt.Errorf("inserting users: %w", err)
	}
	return n, nil
}

// InsertStreams writes generated stream events with the same batching and
// commit contract as InsertUsers.
func (s *Store) InsertStreams(ctx context.Context, streams []Stream, batchSize int) (int64, error) {
	n, err := insertChunks(ctx, streams, clampBatchSize(batchSize, streamCols), s.insertStreamChunk)
	if err != nil {
		return n, fmt.Errorf("inserting streams: %w", err)
	}
	return n, nil
}

// insertChunks writes rows through exec in batches, each batch one atomic
// unit. The returned count is the rows durably committed; a failed batch
// stops the loop and leaves no rows of its own behind.
func insertChunks[T any](ctx context.Context, rows []T, batchSize int, exec func(context.Context, []T) error) (int64, error) {
	var committed int64
	for chunk := range slices.Chunk(rows, batchSize) {
		if err := ctx.Err(); err != nil {
			return committed, err
		}
		if err := exec(ctx, chunk); err != nil {
			return committed, fmt.Errorf("batch failed after %d committed rows: %w", committed, err)
		}
		committed += int64(len(chunk))
	}
	return committed, nil
}

// clampBatchSize bounds a configured batch size to what one statement's bind
// parameters can carry for a row of cols columns.
func clampBatchSize(batchSize, cols int) int {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if limit := maxBindParams / cols; batchSize > limit {
		return limit
	}
	return batchSize
}

func (s *Store) insertUserChunk(ctx context.Context, chunk []User) error {
	query := `INSERT INTO users (id, email, birthday, country, gender, signup_date) VALUES ` +
		placeholders(len(chunk), userCols)

	args := make([]any, 0, len(chunk)*userCols)
	for _, u := range chunk {
		args = append(args, u.ID, u.Email, u.Birthday, u.Country, u.Gender, u.SignupDate)
	}
	return s.execInTx(ctx, query, args)
}

func (s *Store) insertStreamChunk(ctx context.Context, chunk []Stream) error {
	query := `INSERT INTO streams (song_id, user_id, offer_id, offer_bundled, country, context, duration_seconds, stream_date) VALUES ` +
		placeholders(len(chunk), streamCols)

	args := make([]any, 0, len(chunk)*streamCols)
	for _, ev := range chunk {
		args = append(args,
			ev.SongID, ev.UserID, ev.OfferID, ev.OfferBundled,
			ev.Country, ev.Context, ev.DurationSeconds, ev.StreamDate,
		)
	}
	return s.execInTx(ctx, query, args)
}

// execInTx runs one statement in its own transaction so a failed batch rolls
// back as a unit.
func (s *Store) execInTx(ctx context.Context, query string, args []any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// placeholders renders "($1,$2,...),($...),..." groups for a multi-row
// insert of rows x cols parameters.
func placeholders(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
