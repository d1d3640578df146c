// Package config reads the seeder's run configuration from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("missing DATABASE_URL environment variable")

// Config holds everything a single seeding run needs.
type Config struct {
	DatabaseURL    string
	CatalogBaseURL string

	// Artist names to ingest from the remote catalog.
	Artists []string

	UserCount   int
	StreamCount int

	// BatchSize is the number of rows committed per transaction during bulk
	// generation.
	BatchSize int

	// ArtistConcurrency caps how many artist catalogs load in parallel.
	ArtistConcurrency int

	HTTPTimeout    time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration

	// Enumerations sampled by the generators.
	Countries      []string
	Genders        []string
	StreamContexts []string

	BirthYearMin  int
	BirthYearMax  int
	SignupYearMin int
	SignupYearMax int
	StreamYearMin int
	StreamYearMax int

	OfferIDMax         int
	MaxDurationSeconds int
}

// Parse builds a Config from the environment, applying defaults for every
// value except DATABASE_URL, which is required.
func Parse() (Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}

	return Config{
		DatabaseURL:    dbURL,
		CatalogBaseURL: getString("CATALOG_BASE_URL", "https://api.deezer.com"),

		Artists: getCSV("ARTISTS", []string{"Metronomy", "joy_division"}),

		UserCount:   getInt("USER_COUNT", 100),
		StreamCount: getInt("STREAM_COUNT", 100_000),

		BatchSize:         getInt("BATCH_SIZE", 5_000),
		ArtistConcurrency: getInt("ARTIST_CONCURRENCY", 4),

		HTTPTimeout:    time.Duration(getInt("HTTP_TIMEOUT_MS", 10_000)) * time.Millisecond,
		MaxRetries:     getInt("MAX_RETRIES", 3),
		RetryBaseDelay: time.Duration(getInt("RETRY_BASE_DELAY_MS", 1_000)) * time.Millisecond,

		Countries:      getCSV("COUNTRIES", []string{"FR", "GB", "DE", "BR"}),
		Genders:        getCSV("GENDERS", []string{"M", "F"}),
		StreamContexts: getCSV("STREAM_CONTEXTS", []string{"home page", "playlist", "artist", "radio", "flow", "library"}),

		BirthYearMin:  getInt("BIRTH_YEAR_MIN", 1975),
		BirthYearMax:  getInt("BIRTH_YEAR_MAX", 2000),
		SignupYearMin: getInt("SIGNUP_YEAR_MIN", 2010),
		SignupYearMax: getInt("SIGNUP_YEAR_MAX", 2019),
		StreamYearMin: getInt("STREAM_YEAR_MIN", 2016),
		StreamYearMax: getInt("STREAM_YEAR_MAX", 2019),

		OfferIDMax:         getInt("OFFER_ID_MAX", 4),
		MaxDurationSeconds: getInt("MAX_DURATION_SECONDS", 320),
	}, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getCSV(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
