// Command musicdb-seeder provisions the music warehouse: it creates the
// schema, ingests artist catalogs from the remote service, generates a
// synthetic user population, and synthesizes stream events referencing both.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mpetit/musicdb-seeder/internal/catalog"
	"github.com/mpetit/musicdb-seeder/internal/config"
	"github.com/mpetit/musicdb-seeder/internal/seed"
	"github.com/mpetit/musicdb-seeder/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	client := catalog.NewClient(&catalog.Config{
		BaseURL:        cfg.CatalogBaseURL,
		Timeout:        cfg.HTTPTimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
	})

	runner := seed.NewRunner(st, client, seed.RunConfig{
		Artists:     cfg.Artists,
		Concurrency: cfg.ArtistConcurrency,
		Users: seed.UserConfig{
			Count:         cfg.UserCount,
			Countries:     cfg.Countries,
			Genders:       cfg.Genders,
			BirthYearMin:  cfg.BirthYearMin,
			BirthYearMax:  cfg.BirthYearMax,
			SignupYearMin: cfg.SignupYearMin,
			SignupYearMax: cfg.SignupYearMax,
			BatchSize:     cfg.BatchSize,
		},
		Streams: seed.StreamConfig{
			Count:              cfg.StreamCount,
			Countries:          cfg.Countries,
			Contexts:           cfg.StreamContexts,
			OfferIDMax:         cfg.OfferIDMax,
			MaxDurationSeconds: cfg.MaxDurationSeconds,
			StreamYearMin:      cfg.StreamYearMin,
			StreamYearMax:      cfg.StreamYearMax,
			BatchSize:          cfg.BatchSize,
		},
	}, seed.WithLogger(log))

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(report.Summary())
	if !report.OK() {
		return fmt.Errorf("run finished with failures")
	}
	return nil
}
