package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/mpetit/musicdb-seeder/internal/store"
)

// UserWriter is the bulk-write surface the population generator needs.
type UserWriter interface {
	InsertUsers(ctx context.Context, users []store.User, batchSize int) (int64, error)
}

// UserConfig bounds the synthetic user population.
type UserConfig struct {
	Count         int
	Countries     []string
	Genders       []string
	BirthYearMin  int
	BirthYearMax  int
	SignupYearMin int
	SignupYearMax int
	BatchSize     int
}

// GenerateUsers writes cfg.Count synthetic users with ids 1..Count. Emails
// are a deterministic function of the id; all other attributes are sampled
// uniformly from the configured bounds. Returns the number of rows committed.
func GenerateUsers(ctx context.Context, w UserWriter, cfg UserConfig, rng *rand.Rand) (int64, error) {
	users := make([]store.User, cfg.Count)
	for i := range users {
		id := int64(i + 1)
		users[i] = store.User{
			ID:         id,
			Email:      fmt.Sprintf("email%d@gmail.com", id),
			Birthday:   fmt.Sprintf("%d-01-01", yearBetween(rng, cfg.BirthYearMin, cfg.BirthYearMax)),
			Country:    pick(rng, cfg.Countries),
			Gender:     pick(rng, cfg.Genders),
			SignupDate: fmt.Sprintf("%d-01-01", yearBetween(rng, cfg.SignupYearMin, cfg.SignupYearMax)),
		}
	}
	return w.InsertUsers(ctx, users, cfg.BatchSize)
}

// pick samples one element uniformly.
func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}

// yearBetween samples uniformly from [lo, hi].
func yearBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
