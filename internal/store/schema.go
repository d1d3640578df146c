package store

import (
	"context"
	"fmt"
)

// warehouseTables are the five tables the seeder owns, in dependency order.
var warehouseTables = []string{"users", "artists", "albums", "songs", "streams"}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id bigint PRIMARY KEY,
	email varchar(50) NOT NULL,
	birthday date NOT NULL,
	country char(2) NOT NULL,
	gender char(1) NOT NULL,
	signup_date date NOT NULL
);

CREATE TABLE IF NOT EXISTS artists (
	id bigint PRIMARY KEY,
	name varchar(150) NOT NULL
);

CREATE TABLE IF NOT EXISTS albums (
	id bigint PRIMARY KEY,
	title varchar(150) NOT NULL,
	release_date date NOT NULL,
	artist_id bigint NOT NULL REFERENCES artists(id)
);

CREATE TABLE IF NOT EXISTS songs (
	id bigint PRIMARY KEY,
	title varchar(150) NOT NULL,
	album_id bigint NOT NULL REFERENCES albums(id),
	artist_id bigint NOT NULL REFERENCES artists(id),
	release_date date NOT NULL
);

CREATE TABLE IF NOT EXISTS streams (
	song_id bigint NOT NULL REFERENCES songs(id),
	user_id bigint NOT NULL REFERENCES users(id),
	offer_id int NOT NULL,
	offer_bundled boolean NOT NULL,
	country char(2) NOT NULL,
	context varchar(50) NOT NULL,
	duration_seconds int NOT NULL CHECK (duration_seconds > 0),
	stream_date date NOT NULL
);
`

// EnsureSchema creates the warehouse tables if they do not exist. Running it
// against an initialized database is a no-op.
func (s *Store) EnsureSchema(ctx context.Context) error {
	var existing int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_tables WHERE schemaname = 'public' AND tablename = ANY($1)`,
		warehouseTables,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("checking existing schema: %w", err)
	}
	if existing == len(warehouseTables) {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}
