// Package idempotency adapts the idempotency domain repositories to Postgres.
// Both tables enforce uniqueness purely through a unique index; a pgconn
// "23505" collision is the only signal either Create method needs to map.
package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/idempotency"
)

const (
	keysTable           = "idempotency_keys"
	pendingLookupsTable = "pending_transaction_lookups"
)

// KeyRepository is the Postgres-backed idempotency.KeyRepository implementation.
type KeyRepository struct {
	db *sql.DB
}

// NewKeyRepository constructs a KeyRepository bound to db.
func NewKeyRepository(db *sql.DB) *KeyRepository {
	return &KeyRepository{db: db}
}

func (r *KeyRepository) Create(ctx context.Context, k *idempotency.Key) (*idempotency.Key, error) {
	k.FirstSeenAt = time.Now().UTC()

	const q = `INSERT INTO ` + keysTable + ` (instance_id, key_hash, first_seen_at) VALUES ($1,$2,$3)`

	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, k.InstanceID, k.KeyHash, k.FirstSeenAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.ErrIdempotencyViolation
		}

		return nil, err
	}

	return k, nil
}

func (r *KeyRepository) Exists(ctx context.Context, instanceID uuid.UUID, keyHash []byte) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM ` + keysTable + ` WHERE instance_id = $1 AND key_hash = $2)`

	var exists bool
	err := dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, instanceID, keyHash).Scan(&exists)

	return exists, err
}

// PendingLookupRepository is the Postgres-backed idempotency.PendingLookupRepository implementation.
type PendingLookupRepository struct {
	db *sql.DB
}

// NewPendingLookupRepository constructs a PendingLookupRepository bound to db.
func NewPendingLookupRepository(db *sql.DB) *PendingLookupRepository {
	return &PendingLookupRepository{db: db}
}

func (r *PendingLookupRepository) Create(ctx context.Context, l *idempotency.PendingLookup) (*idempotency.PendingLookup, error) {
	const q = `
		INSERT INTO ` + pendingLookupsTable + ` (instance_id, source, source_idempk, command_id)
		VALUES ($1,$2,$3,$4)`

	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, l.InstanceID, l.Source, l.SourceIdempk, l.CommandID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.ErrPendingLookupConflict
		}

		return nil, err
	}

	return l, nil
}

func (r *PendingLookupRepository) FindByCoordinates(ctx context.Context, instanceID uuid.UUID, source, sourceIdempk string) (*idempotency.PendingLookup, error) {
	const q = `
		SELECT instance_id, source, source_idempk, command_id, transaction_id
		FROM ` + pendingLookupsTable + `
		WHERE instance_id = $1 AND source = $2 AND source_idempk = $3`

	var l idempotency.PendingLookup

	err := dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, instanceID, source, sourceIdempk).
		Scan(&l.InstanceID, &l.Source, &l.SourceIdempk, &l.CommandID, &l.TransactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &l, nil
}

// SetTransactionID records the Transaction a pending lookup's predecessor
// command produced, so a later update_transaction can resolve it without
// re-deriving it from the command_map.
func (r *PendingLookupRepository) SetTransactionID(ctx context.Context, commandID, transactionID uuid.UUID) error {
	const q = `UPDATE ` + pendingLookupsTable + ` SET transaction_id = $1 WHERE command_id = $2`
	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, transactionID, commandID)

	return err
}
