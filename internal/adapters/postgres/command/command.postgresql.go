// Package command adapts the command domain's Repository and QueueRepository
// to Postgres. The queue-item claim is the one genuinely bespoke query here:
// an atomic compare-and-set on (status, next_retry_after) (spec §4.1, §5).
package command

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/command"
)

const (
	commandsTable   = "commands"
	queueItemsTable = "command_queue_items"
)

// Repository is the Postgres-backed command.Repository implementation.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository bound to db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *command.Command) (*command.Command, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV7())
	}

	c.CreatedAt = time.Now().UTC()

	mapJSON, err := json.Marshal(c.CommandMap)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO ` + commandsTable + ` (
			id, instance_id, command_map, action, source, source_idempk, update_idempk, update_source, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = dbtx.Conn(ctx, r.db).ExecContext(ctx, q,
		c.ID, c.InstanceID, mapJSON, c.Action, c.Source, c.SourceIdempk, c.UpdateIdempk, c.UpdateSource, c.CreatedAt,
	)

	return c, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*command.Command, error) {
	const q = `
		SELECT id, instance_id, command_map, action, source, source_idempk, update_idempk, update_source, created_at
		FROM ` + commandsTable + ` WHERE id = $1`

	return r.scanOne(dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *Repository) FindBySourceIdempk(ctx context.Context, instanceID uuid.UUID, source, sourceIdempk string) (*command.Command, error) {
	const q = `
		SELECT id, instance_id, command_map, action, source, source_idempk, update_idempk, update_source, created_at
		FROM ` + commandsTable + ` WHERE instance_id = $1 AND source = $2 AND source_idempk = $3`

	return r.scanOne(dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, instanceID, source, sourceIdempk))
}

func (r *Repository) scanOne(row *sql.Row) (*command.Command, error) {
	var c command.Command
	var mapJSON []byte

	err := row.Scan(&c.ID, &c.InstanceID, &mapJSON, &c.Action, &c.Source, &c.SourceIdempk, &c.UpdateIdempk, &c.UpdateSource, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ValidateBusinessError(apperr.ErrCreateCommandNotFound, "Command")
		}

		return nil, err
	}

	var cm command.CommandMap
	if err := json.Unmarshal(mapJSON, &cm); err != nil {
		return nil, err
	}

	c.CommandMap = &cm

	return &c, nil
}

// QueueRepository is the Postgres-backed command.QueueRepository implementation.
type QueueRepository struct {
	db *sql.DB
}

// NewQueueRepository constructs a QueueRepository bound to db.
func NewQueueRepository(db *sql.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) Create(ctx context.Context, item *command.CommandQueueItem) (*command.CommandQueueItem, error) {
	item.Status = command.QueueStatusPending
	item.LockVersion = 1

	const q = `
		INSERT INTO ` + queueItemsTable + ` (
			command_id, status, retry_count, occ_retry_count, lock_version, errors
		) VALUES ($1,$2,0,0,$3,'[]')`

	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, item.CommandID, item.Status, item.LockVersion)

	return item, err
}

func (r *QueueRepository) FindByCommandID(ctx context.Context, commandID uuid.UUID) (*command.CommandQueueItem, error) {
	const q = `
		SELECT command_id, status, retry_count, occ_retry_count, next_retry_after,
			processor_id, processing_started_at, processing_completed_at, errors, lock_version
		FROM ` + queueItemsTable + ` WHERE command_id = $1`

	return scanOne(dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, commandID))
}

// Claim implements the atomic compare-and-set: it only matches rows whose
// status is still claimable and whose backoff window has elapsed, so two
// concurrent claimers can never both succeed for the same command_id (spec §4.1, §5).
func (r *QueueRepository) Claim(ctx context.Context, commandID uuid.UUID, processorID string, now time.Time) (*command.CommandQueueItem, error) {
	const q = `
		UPDATE ` + queueItemsTable + ` SET
			status = 'processing', processor_id = $1, processing_started_at = $2, lock_version = lock_version + 1
		WHERE command_id = $3
			AND status IN ('pending', 'failed', 'occ_timeout')
			AND (next_retry_after IS NULL OR next_retry_after <= $2)`

	res, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, processorID, now, commandID)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if n == 0 {
		existing, ferr := r.FindByCommandID(ctx, commandID)
		if ferr == nil && existing.Status == command.QueueStatusProcessing {
			return nil, apperr.ErrAlreadyClaimed
		}

		return nil, apperr.ErrNotClaimable
	}

	return r.FindByCommandID(ctx, commandID)
}

func (r *QueueRepository) MarkProcessed(ctx context.Context, commandID uuid.UUID, now time.Time) error {
	const q = `
		UPDATE ` + queueItemsTable + ` SET status = 'processed', processing_completed_at = $1, next_retry_after = NULL
		WHERE command_id = $2`

	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, now, commandID)

	return err
}

func (r *QueueRepository) MarkFailed(ctx context.Context, commandID uuid.UUID, reason string, kind command.QueueStatus, now time.Time, nextRetryAfter time.Time, maxRetries int) error {
	if err := r.appendError(ctx, commandID, reason, now); err != nil {
		return err
	}

	counterColumn := "retry_count"
	if kind == command.QueueStatusOCCTimeout {
		counterColumn = "occ_retry_count"
	}

	q := `
		UPDATE ` + queueItemsTable + ` SET
			status = $1, ` + counterColumn + ` = ` + counterColumn + ` + 1, next_retry_after = $2
		WHERE command_id = $3`

	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, kind, nextRetryAfter, commandID)

	return err
}

func (r *QueueRepository) MarkDeadLetter(ctx context.Context, commandID uuid.UUID, reason string, now time.Time) error {
	if err := r.appendError(ctx, commandID, reason, now); err != nil {
		return err
	}

	const q = `UPDATE ` + queueItemsTable + ` SET status = 'dead_letter', next_retry_after = NULL WHERE command_id = $1`
	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, commandID)

	return err
}

func (r *QueueRepository) RevertToPending(ctx context.Context, commandID uuid.UUID, reason string, now time.Time, nextRetryAfter time.Time) error {
	if err := r.appendError(ctx, commandID, reason, now); err != nil {
		return err
	}

	const q = `UPDATE ` + queueItemsTable + ` SET status = 'pending', next_retry_after = $1 WHERE command_id = $2`
	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, nextRetryAfter, commandID)

	return err
}

func (r *QueueRepository) AppendError(ctx context.Context, commandID uuid.UUID, message string, now time.Time) error {
	return r.appendError(ctx, commandID, message, now)
}

func (r *QueueRepository) appendError(ctx context.Context, commandID uuid.UUID, message string, now time.Time) error {
	entry, err := json.Marshal(command.QueueError{Message: message, InsertedAt: now})
	if err != nil {
		return err
	}

	const q = `UPDATE ` + queueItemsTable + ` SET errors = errors || $1::jsonb WHERE command_id = $2`
	_, err = dbtx.Conn(ctx, r.db).ExecContext(ctx, q, entry, commandID)

	return err
}

func (r *QueueRepository) IncrementOCCRetry(ctx context.Context, commandID uuid.UUID) (int, error) {
	const q = `UPDATE ` + queueItemsTable + ` SET occ_retry_count = occ_retry_count + 1 WHERE command_id = $1 RETURNING occ_retry_count`

	var n int
	err := dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, commandID).Scan(&n)

	return n, err
}

func (r *QueueRepository) ReclaimStale(ctx context.Context, olderThan time.Time) ([]*command.CommandQueueItem, error) {
	const q = `
		SELECT command_id, status, retry_count, occ_retry_count, next_retry_after,
			processor_id, processing_started_at, processing_completed_at, errors, lock_version
		FROM ` + queueItemsTable + ` WHERE status = 'processing' AND processing_started_at <= $1`

	return scanMany(dbtx.Conn(ctx, r.db).QueryContext(ctx, q, olderThan))
}

func (r *QueueRepository) ListClaimable(ctx context.Context, now time.Time, limit int) ([]*command.CommandQueueItem, error) {
	const q = `
		SELECT command_id, status, retry_count, occ_retry_count, next_retry_after,
			processor_id, processing_started_at, processing_completed_at, errors, lock_version
		FROM ` + queueItemsTable + `
		WHERE status IN ('pending', 'failed', 'occ_timeout')
			AND (next_retry_after IS NULL OR next_retry_after <= $1)
		ORDER BY command_id ASC
		LIMIT $2`

	return scanMany(dbtx.Conn(ctx, r.db).QueryContext(ctx, q, now, limit))
}

func scanOne(row *sql.Row) (*command.CommandQueueItem, error) {
	var item command.CommandQueueItem
	var errorsJSON []byte

	err := row.Scan(&item.CommandID, &item.Status, &item.RetryCount, &item.OCCRetryCount, &item.NextRetryAfter,
		&item.ProcessorID, &item.ProcessingStartedAt, &item.ProcessingCompletedAt, &errorsJSON, &item.LockVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ValidateBusinessError(apperr.ErrNotClaimable, "CommandQueueItem")
		}

		return nil, err
	}

	if err := json.Unmarshal(errorsJSON, &item.Errors); err != nil {
		return nil, err
	}

	return &item, nil
}

func scanMany(rows *sql.Rows, err error) ([]*command.CommandQueueItem, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*command.CommandQueueItem

	for rows.Next() {
		var item command.CommandQueueItem
		var errorsJSON []byte

		if err := rows.Scan(&item.CommandID, &item.Status, &item.RetryCount, &item.OCCRetryCount, &item.NextRetryAfter,
			&item.ProcessorID, &item.ProcessingStartedAt, &item.ProcessingCompletedAt, &errorsJSON, &item.LockVersion); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(errorsJSON, &item.Errors); err != nil {
			return nil, err
		}

		out = append(out, &item)
	}

	return out, rows.Err()
}
