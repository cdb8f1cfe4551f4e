// Package occ implements the retry-and-rebuild processor around any write
// that touches account row_versions (spec §4.2).
package occ

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/mcontext"
)

// UnitOfWork is rebuilt from scratch on every attempt: it re-reads whatever
// accounts it needs and performs the write. A stale version surfaces as
// apperr.StaleVersionError.
type UnitOfWork func(ctx context.Context, attempt int) error

// FinalTimeoutHandler is invoked once every attempt (the initial one plus
// MaxRetries retries, MaxRetries+1 consecutive collisions) has collided. It
// receives the number of retries made, equal to MaxRetries.
type FinalTimeoutHandler func(ctx context.Context, retries int) error

// AttemptErrorHandler is invoked once per collision that is about to be
// retried (spec §4.2 step 1), so a caller can bump a durable occ_retry_count
// alongside whatever it logs. It is not called for the final collision, since
// that one goes to onFinalTimeout instead of another attempt.
type AttemptErrorHandler func(ctx context.Context, attempt int, err error)

// Processor retries a UnitOfWork on OCC collisions, sleeping with a small
// increasing delay between attempts (spec §4.2).
type Processor struct {
	MaxRetries    int
	BackoffBaseMS int
}

// Run executes work once, then retries it on apperr.StaleVersionError up to
// MaxRetries times, calling onAttemptError before every retry and
// onFinalTimeout if all MaxRetries+1 attempts collide.
func (p *Processor) Run(ctx context.Context, work UnitOfWork, onAttemptError AttemptErrorHandler, onFinalTimeout FinalTimeoutHandler) error {
	tracer := mcontext.Tracer(ctx)
	logger := mcontext.Logger(ctx)

	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		_, span := tracer.Start(ctx, "occ.attempt")

		err := work(ctx, attempt)

		span.End()

		if err == nil {
			return nil
		}

		var stale apperr.StaleVersionError
		if !errors.As(err, &stale) {
			// Not an OCC collision: surface immediately, no retry.
			return err
		}

		lastErr = err
		logger.Debugf("occ collision on attempt %d: %v", attempt, err)

		if attempt == p.MaxRetries {
			break
		}

		if onAttemptError != nil {
			onAttemptError(ctx, attempt, err)
		}

		time.Sleep(p.backoff(attempt))
	}

	if onFinalTimeout != nil {
		if err := onFinalTimeout(ctx, p.MaxRetries); err != nil {
			return err
		}
	}

	return apperr.ValidateBusinessError(apperr.ErrOCCRetriesExhausted, "Account", lastErr)
}

func (p *Processor) backoff(attempt int) time.Duration {
	base := p.BackoffBaseMS
	if base <= 0 {
		base = 25
	}

	ms := base << attempt //nolint:gosec // small, bounded shift

	return time.Duration(ms) * time.Millisecond
}
