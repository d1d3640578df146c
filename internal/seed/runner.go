package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WarehouseStore is the full persistence surface one run needs. *store.Store
// satisfies it.
type WarehouseStore interface {
	EnsureSchema(ctx context.Context) error
	CatalogStore
	UserWriter
	StreamWriter
	Snapshots
}

// RunConfig holds the per-run parameters.
type RunConfig struct {
	Artists     []string
	Concurrency int
	Users       UserConfig
	Streams     StreamConfig
}

// Runner sequences one provisioning run: schema, users, catalog, streams.
// Stream generation runs strictly after the loads it samples from.
type Runner struct {
	store   WarehouseStore
	catalog Catalog
	cfg     RunConfig
	log     logrus.FieldLogger
	rng     *rand.Rand
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the run logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithRand sets the sampling source, useful for reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) {
		r.rng = rng
	}
}

// NewRunner creates a runner over the given store and catalog client.
func NewRunner(st WarehouseStore, cat Catalog, cfg RunConfig, opts ...Option) *Runner {
	r := &Runner{
		store:   st,
		catalog: cat,
		cfg:     cfg,
		log:     logrus.StandardLogger(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the pipeline and returns what committed and what failed. The
// error return is reserved for setup failures where nothing ran; unit-level
// failures are collected on the report instead.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.New()}
	log := r.log.WithField("run_id", report.RunID)
	start := time.Now()

	if err := r.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	log.Info("schema ready")

	// Users and the catalog are independent populations; users go first,
	// matching the catalog-free path's cheaper failure mode.
	n, err := GenerateUsers(ctx, r.store, r.cfg.Users, r.rng)
	report.UsersCommitted = n
	if err != nil {
		report.Errs = append(report.Errs, fmt.Errorf("generating users: %w", err))
		log.WithError(err).WithField("committed", n).Warn("user generation incomplete")
	} else {
		log.WithField("users", n).Info("user population generated")
	}

	if done(ctx, report, start) {
		return report, nil
	}

	loader := NewLoader(r.catalog, r.store, r.cfg.Concurrency, log)
	report.Artists = loader.LoadArtists(ctx, r.cfg.Artists)
	for _, a := range report.Artists {
		if a.Err != nil {
			log.WithField("artist", a.Name).WithError(a.Err).Warn("artist load abandoned")
		}
	}

	if done(ctx, report, start) {
		return report, nil
	}

	streams, err := GenerateStreams(ctx, r.store, r.store, r.cfg.Streams, r.rng)
	report.StreamsCommitted = streams
	if err != nil {
		report.Errs = append(report.Errs, fmt.Errorf("generating streams: %w", err))
		log.WithError(err).WithField("committed", streams).Warn("stream generation incomplete")
	} else {
		log.WithField("streams", streams).Info("stream events generated")
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// done records run cancellation on the report and stops issuing new work.
// In-flight batches have already committed or rolled back by the time the
// current phase returns.
func done(ctx context.Context, report *Report, start time.Time) bool {
	if err := ctx.Err(); err != nil {
		report.Errs = append(report.Errs, fmt.Errorf("run canceled: %w", err))
		report.Elapsed = time.Since(start)
		return true
	}
	return false
}
