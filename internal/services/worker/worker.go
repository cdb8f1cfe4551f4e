// Package worker implements the fixed-size goroutine pool that claims
// CommandQueueItems and resumes their business effect (spec §5), grounded on
// components/ledger/internal/bootstrap/redis.consumer.go's ticker-poll +
// bounded-concurrency fan-out shape, adapted from a Redis queue scan to a
// database ListClaimable poll.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/ledgerd/coreengine/internal/app"
	commanddomain "github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/mcontext"
	"github.com/ledgerd/coreengine/internal/services/command"
	"github.com/ledgerd/coreengine/internal/services/queue"
)

// Pool polls the command queue on an interval and resumes every claimable
// item concurrently, bounded by Concurrency in-flight at a time. Each Pool is
// one named app.App registered with the Launcher; deployments that want more
// throughput run more Pools, not bigger ones (spec §5: "no per-worker
// affinity to commands").
type Pool struct {
	ID          string
	CommandRepo commanddomain.Repository
	Queue       *queue.Service
	Handlers    *command.Handlers

	PollInterval time.Duration
	BatchSize    int
	Concurrency  int
	Tracer       trace.Tracer
}

// Run implements app.App: poll on every tick for as long as the process
// runs. The loop has no exit of its own; the Launcher stops waiting on it
// when the process receives SIGINT/SIGTERM.
func (p *Pool) Run(launcher *app.Launcher) error {
	logger := launcher.Logger
	ctx := mcontext.WithLogger(context.Background(), logger)

	if p.Tracer != nil {
		ctx = mcontext.WithTracer(ctx, p.Tracer)
	}

	interval := p.PollInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Infof("worker %s started", p.ID)

	for range ticker.C {
		p.poll(ctx)
	}

	return nil
}

func (p *Pool) poll(ctx context.Context) {
	logger := mcontext.Logger(ctx)

	batch := p.BatchSize
	if batch <= 0 {
		batch = 10
	}

	items, err := p.Queue.ListClaimable(ctx, batch)
	if err != nil {
		logger.Errorf("worker %s: list claimable failed: %v", p.ID, err)
		return
	}

	if len(items) == 0 {
		return
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = batch
	}

	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup

	for _, item := range items {
		sem <- struct{}{}
		wg.Add(1)

		go func(commandID uuid.UUID) {
			defer func() {
				<-sem
				wg.Done()
			}()

			p.claimAndResume(ctx, commandID)
		}(item.CommandID)
	}

	wg.Wait()
}

// claimAndResume claims one queue item and resumes its Command's business
// effect. A claim failure (another worker already took it, or it isn't
// claimable anymore) is expected under contention and logged at debug level,
// not an error.
func (p *Pool) claimAndResume(ctx context.Context, commandID uuid.UUID) {
	logger := mcontext.Logger(ctx)

	if _, err := p.Queue.Claim(ctx, commandID, p.ID); err != nil {
		logger.Debugf("worker %s: claim %s skipped: %v", p.ID, commandID, err)
		return
	}

	cmd, err := p.CommandRepo.FindByID(ctx, commandID)
	if err != nil {
		logger.Errorf("worker %s: load command %s failed: %v", p.ID, commandID, err)
		return
	}

	if err := p.Handlers.Resume(ctx, cmd); err != nil {
		logger.Warnf("worker %s: command %s failed: %v", p.ID, commandID, err)
	}
}
