package actor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

// Executor runs actor workers in the background.
type Executor interface {
	// Go runs fn in the background and returns immediately.
	Go(fn func())
}

// ExecutorFunc is an Executor backed by a function.
type ExecutorFunc func(fn func())

// Go implements Executor.
func (f ExecutorFunc) Go(fn func()) {
	f(fn)
}

// DefaultExecutor runs every worker in its own goroutine.
var DefaultExecutor Executor = ExecutorFunc(func(fn func()) {
	go fn()
})

// Group is an Executor that keeps track of the workers it started, so they can be waited on.
// The zero value is ready to use.
type Group struct {
	eg errgroup.Group
}

// Go implements Executor.
func (g *Group) Go(fn func()) {
	g.eg.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until all workers started by the group have stopped.
func (g *Group) Wait() {
	_ = g.eg.Wait()
}

// SpawnOption configures Spawn.
type SpawnOption func(*spawnOptions)

// WithExecutor sets the executor that runs the worker.
// Defaults to DefaultExecutor.
func WithExecutor(e Executor) SpawnOption {
	return func(o *spawnOptions) { o.executor = e }
}

// WithLogger sets the instance of the slog logger
func WithLogger(logger *slog.Logger) SpawnOption {
	return func(o *spawnOptions) { o.logger = logger }
}

// WithClock sets the clock used to measure the worker's lifetime.
func WithClock(cl clock.PassiveClock) SpawnOption {
	return func(o *spawnOptions) { o.clock = cl }
}

// WithMetrics sets the collectors that track the worker.
func WithMetrics(m *Metrics) SpawnOption {
	return func(o *spawnOptions) { o.metrics = m }
}

type spawnOptions struct {
	executor Executor
	logger   *slog.Logger
	clock    clock.PassiveClock
	metrics  *Metrics
}

// Spawn starts the worker loop run on the configured executor, and returns without waiting for it to start.
// name is the actor type, used for logging.
// The context passed to run is ctx; canceling it stops the worker.
func Spawn(ctx context.Context, name string, run func(ctx context.Context), opts ...SpawnOption) {
	o := spawnOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.executor == nil {
		o.executor = DefaultExecutor
	}
	// Set a default logger, which sends logs to /dev/null, if none is passed
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.clock == nil {
		o.clock = &clock.RealClock{}
	}

	log := o.logger.With(
		slog.String("actorType", name),
		slog.String("actorID", uuid.NewString()),
	)

	o.executor.Go(func() {
		start := o.clock.Now()
		o.metrics.workerStarted(name)
		log.DebugContext(ctx, "Actor worker started")

		run(ctx)

		lifetime := o.clock.Since(start)
		o.metrics.workerStopped(name, lifetime)
		log.DebugContext(ctx, "Actor worker stopped",
			slog.Duration("lifetime", lifetime),
			slog.Bool("canceled", ctx.Err() != nil),
		)
	})
}
