package store

import (
	"context"
	"fmt"
)

// SongIDs returns all loaded song ids as a point-in-time snapshot.
func (s *Store) SongIDs(ctx context.Context) ([]int64, error) {
	return s.idSnapshot(ctx, `SELECT id FROM songs`)
}

// UserIDs returns all loaded user ids as a point-in-time snapshot.
func (s *Store) UserIDs(ctx context.Context) ([]int64, error) {
	return s.idSnapshot(ctx, `SELECT id FROM users`)
}

func (s *Store) idSnapshot(ctx context.Context, query string) ([]int64, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying id snapshot: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
