package command

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Command is the durable record of an external request: the verbatim
// validated CommandMap plus the fields the idempotency and dependency models
// key on.
type Command struct {
	ID              uuid.UUID
	InstanceID      uuid.UUID
	CommandMap      *CommandMap
	Action          Action
	Source          string
	SourceIdempk    string
	UpdateIdempk    string
	UpdateSource    string
	CreatedAt       time.Time
}

// QueueStatus is a CommandQueueItem's processing state.
type QueueStatus string

const (
	QueueStatusPending     QueueStatus = "pending"
	QueueStatusProcessing  QueueStatus = "processing"
	QueueStatusProcessed   QueueStatus = "processed"
	QueueStatusFailed      QueueStatus = "failed"
	QueueStatusOCCTimeout  QueueStatus = "occ_timeout"
	QueueStatusDeadLetter  QueueStatus = "dead_letter"
)

// validTransitions enumerates the legal CommandQueueItem state transitions
// (spec §4.1 state machine table), grounded on the outbox state machine's
// ValidOutboxTransitions/CanTransitionTo shape.
var validTransitions = map[QueueStatus][]QueueStatus{
	QueueStatusPending:    {QueueStatusProcessing},
	QueueStatusFailed:     {QueueStatusProcessing},
	QueueStatusOCCTimeout: {QueueStatusProcessing},
	QueueStatusProcessing: {
		QueueStatusProcessed,
		QueueStatusFailed,
		QueueStatusOCCTimeout,
		QueueStatusDeadLetter,
		QueueStatusPending,
	},
	QueueStatusProcessed:  {},
	QueueStatusDeadLetter: {},
}

// CanTransitionTo reports whether moving a CommandQueueItem from from to to
// is a legal transition.
func CanTransitionTo(from, to QueueStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// IsTerminal reports whether s accepts no further transitions.
func IsTerminal(s QueueStatus) bool {
	return s == QueueStatusProcessed || s == QueueStatusDeadLetter
}

// QueueError is one entry in a CommandQueueItem's append-only error log.
type QueueError struct {
	Message    string
	InsertedAt time.Time
}

// CommandQueueItem is the processing sidecar for a Command: one-to-one,
// carrying retry counters, backoff scheduling, and the claim lease fields.
type CommandQueueItem struct {
	CommandID             uuid.UUID
	Status                QueueStatus
	RetryCount            int
	OCCRetryCount         int
	NextRetryAfter        *time.Time
	ProcessorID           *string
	ProcessingStartedAt   *time.Time
	ProcessingCompletedAt *time.Time
	Errors                []QueueError
	LockVersion           int64
}

// Repository persists Commands.
type Repository interface {
	Create(ctx context.Context, c *Command) (*Command, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Command, error)
	// FindBySourceIdempk locates the Command matching the given idempotency
	// coordinates. UpdateTransaction does not use it: it finds its create
	// predecessor through the PendingTransactionLookup (idempotency package)
	// and the predecessor's queue item.
	FindBySourceIdempk(ctx context.Context, instanceID uuid.UUID, source, sourceIdempk string) (*Command, error)
}

// QueueRepository persists CommandQueueItems and implements the atomic claim
// compare-and-set (spec §4.1).
type QueueRepository interface {
	Create(ctx context.Context, item *CommandQueueItem) (*CommandQueueItem, error)
	FindByCommandID(ctx context.Context, commandID uuid.UUID) (*CommandQueueItem, error)

	// Claim atomically moves the queue item identified by commandID from
	// {pending, failed, occ_timeout} (with next_retry_after <= now, when set)
	// to processing, stamping processorID and now, and bumping lock_version.
	// Returns apperr.ErrAlreadyClaimed / apperr.ErrNotClaimable on failure.
	Claim(ctx context.Context, commandID uuid.UUID, processorID string, now time.Time) (*CommandQueueItem, error)

	MarkProcessed(ctx context.Context, commandID uuid.UUID, now time.Time) error

	// MarkFailed appends an error, moves to failed or occ_timeout per kind and
	// bumps that kind's counter. It never promotes to dead_letter itself:
	// queue.Service.MarkFailed decides that and calls MarkDeadLetter instead.
	MarkFailed(ctx context.Context, commandID uuid.UUID, reason string, kind QueueStatus, now time.Time, nextRetryAfter time.Time, maxRetries int) error

	MarkDeadLetter(ctx context.Context, commandID uuid.UUID, reason string, now time.Time) error

	// RevertToPending puts the item back to pending without incrementing
	// retry_count (spec §4.1, used for dependency-not-ready updates).
	RevertToPending(ctx context.Context, commandID uuid.UUID, reason string, now time.Time, nextRetryAfter time.Time) error

	// AppendError records an error without transitioning status. The OCC
	// retry path does not call it: a collision that is retried only bumps
	// occ_retry_count (IncrementOCCRetry) and adds no entry to errors.
	AppendError(ctx context.Context, commandID uuid.UUID, message string, now time.Time) error

	// IncrementOCCRetry bumps occ_retry_count without a status transition.
	IncrementOCCRetry(ctx context.Context, commandID uuid.UUID) (int, error)

	// ReclaimStale returns queue items stuck in processing, for an external
	// scheduler to act on (spec §9 open question; no policy enforced here).
	ReclaimStale(ctx context.Context, olderThan time.Time) ([]*CommandQueueItem, error)

	// ListClaimable returns pending/failed/occ_timeout items eligible for
	// claim right now, in FIFO order, for the worker loop to pop from.
	ListClaimable(ctx context.Context, now time.Time, limit int) ([]*CommandQueueItem, error)
}
