// Package queue implements the Command Queue & Lifecycle service (spec §4.1):
// enqueue, claim, and the terminal/retry transitions of a CommandQueueItem.
package queue

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/command"
	"github.com/ledgerd/coreengine/internal/mcontext"
)

// Service drives a Command's CommandQueueItem through its lifecycle.
type Service struct {
	CommandRepo command.Repository
	QueueRepo   command.QueueRepository

	MaxRetries       int
	RetryIntervalMS  int
	OCCBackoffBaseMS int
}

// Backoff computes the exponential-with-jitter retry delay for the given
// retry count (spec §4.1: base * 2^retry_count, capped, with jitter).
func (s *Service) Backoff(retryCount int) time.Duration {
	const capMS = 60_000

	base := float64(s.RetryIntervalMS)
	if base <= 0 {
		base = 1000
	}

	delay := base * math.Pow(2, float64(retryCount))
	if delay > capMS {
		delay = capMS
	}

	jitter := 1 + (rand.Float64()-0.5)*0.2 //nolint:gosec // jitter only, not security sensitive

	return time.Duration(delay*jitter) * time.Millisecond
}

// Claim atomically moves a queue item into processing (spec §4.1).
func (s *Service) Claim(ctx context.Context, commandID uuid.UUID, processorID string) (*command.CommandQueueItem, error) {
	logger := mcontext.Logger(ctx)

	item, err := s.QueueRepo.Claim(ctx, commandID, processorID, time.Now().UTC())
	if err != nil {
		logger.Debugf("claim failed for command %s: %v", commandID, err)
		return nil, apperr.ValidateBusinessError(err, "CommandQueueItem")
	}

	return item, nil
}

// MarkProcessed transitions a queue item to its terminal success state.
func (s *Service) MarkProcessed(ctx context.Context, commandID uuid.UUID) error {
	return s.QueueRepo.MarkProcessed(ctx, commandID, time.Now().UTC())
}

// MarkFailed appends an error and retries or dead-letters the item depending
// on whether retry_count has reached max_retries (spec §4.1).
func (s *Service) MarkFailed(ctx context.Context, commandID uuid.UUID, reason string, kind command.QueueStatus) error {
	now := time.Now().UTC()

	item, err := s.QueueRepo.FindByCommandID(ctx, commandID)
	if err != nil {
		return apperr.ValidateBusinessError(err, "CommandQueueItem")
	}

	if item.RetryCount+1 >= s.MaxRetries {
		return s.MarkDeadLetter(ctx, commandID, reason)
	}

	next := now.Add(s.Backoff(item.RetryCount))

	return s.QueueRepo.MarkFailed(ctx, commandID, reason, kind, now, next, s.MaxRetries)
}

// MarkDeadLetter terminally fails a queue item.
func (s *Service) MarkDeadLetter(ctx context.Context, commandID uuid.UUID, reason string) error {
	return s.QueueRepo.MarkDeadLetter(ctx, commandID, reason, time.Now().UTC())
}

// RevertToPending returns an update command to pending without counting
// against retry_count, used when its create predecessor isn't processed yet
// (spec §4.1, §4.6).
func (s *Service) RevertToPending(ctx context.Context, commandID uuid.UUID, reason string) error {
	now := time.Now().UTC()
	next := now.Add(s.Backoff(0))

	return s.QueueRepo.RevertToPending(ctx, commandID, reason, now, next)
}

// OCCFinalTimeout is invoked by the OCC processor once the initial attempt
// and all max_occ_retries retries have collided (spec §4.2).
func (s *Service) OCCFinalTimeout(ctx context.Context, commandID uuid.UUID, retries int) error {
	reason := fmt.Sprintf("OCC conflict: Max number of %d retries reached", retries)
	return s.MarkFailed(ctx, commandID, reason, command.QueueStatusOCCTimeout)
}

// IncrementOCCRetry bumps the queue item's occ_retry_count by one. It is
// called once per collision the OCC processor retries, so occ_retry_count
// reaches exactly max_occ_retries by the time OCCFinalTimeout fires.
func (s *Service) IncrementOCCRetry(ctx context.Context, commandID uuid.UUID) {
	if _, err := s.QueueRepo.IncrementOCCRetry(ctx, commandID); err != nil {
		mcontext.Logger(ctx).Debugf("increment occ_retry_count for %s: %v", commandID, err)
	}
}

// ReclaimStale exposes the external-scheduler hook from spec §9: returns
// items stuck in processing, with no internal caller or policy.
func (s *Service) ReclaimStale(ctx context.Context, olderThan time.Time) ([]*command.CommandQueueItem, error) {
	return s.QueueRepo.ReclaimStale(ctx, olderThan)
}

// ListClaimable returns queue items a worker can currently claim.
func (s *Service) ListClaimable(ctx context.Context, limit int) ([]*command.CommandQueueItem, error) {
	return s.QueueRepo.ListClaimable(ctx, time.Now().UTC(), limit)
}
