// Package idempotency implements the HMAC-keyed uniqueness check that
// guarantees at most one Command exists per (instance, action, source,
// source_idempk[, update_idempk]) tuple, and the PendingTransactionLookup
// that lets an update command find its create predecessor.
package idempotency

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/google/uuid"
)

// Key is the uniqueness-enforcement row: key_hash is unique per instance.
type Key struct {
	InstanceID  uuid.UUID
	KeyHash     []byte
	FirstSeenAt time.Time
}

// HashKey computes the HMAC-SHA256 over "action|source|source_idempk" (plus a
// trailing "|update_idempk" when non-empty), keyed by secret (spec §6).
func HashKey(secret []byte, action, source, sourceIdempk, updateIdempk string) []byte {
	material := action + "|" + source + "|" + sourceIdempk
	if updateIdempk != "" {
		material += "|" + updateIdempk
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(material))

	return mac.Sum(nil)
}

// PendingLookup maps (instance, source, source_idempk) to the command_id of
// the pending create_transaction, so an update command can locate its
// predecessor (spec §3, §4.6). TransactionID is nil until the predecessor's
// CreateTransaction handler finishes inserting the Transaction row; an
// update arriving before then finds CommandID but a nil TransactionID, which
// is fine since its queue-status check (not yet processed) short-circuits
// before the transaction is ever needed.
type PendingLookup struct {
	InstanceID    uuid.UUID
	Source        string
	SourceIdempk  string
	CommandID     uuid.UUID
	TransactionID *uuid.UUID
}

// KeyRepository enforces the idempotency unique index.
type KeyRepository interface {
	// Create inserts the key, returning apperr.ErrIdempotencyViolation if one
	// already exists for (instance_id, key_hash).
	Create(ctx context.Context, k *Key) (*Key, error)
	Exists(ctx context.Context, instanceID uuid.UUID, keyHash []byte) (bool, error)
}

// PendingLookupRepository manages PendingTransactionLookup rows.
type PendingLookupRepository interface {
	// Create inserts the lookup row, returning apperr.ErrPendingLookupConflict
	// on a duplicate (instance_id, source, source_idempk).
	Create(ctx context.Context, l *PendingLookup) (*PendingLookup, error)
	FindByCoordinates(ctx context.Context, instanceID uuid.UUID, source, sourceIdempk string) (*PendingLookup, error)

	// SetTransactionID records the Transaction a pending lookup's predecessor
	// command produced, called once by CreateTransaction right after its
	// Transaction insert (spec §4.6 step 2).
	SetTransactionID(ctx context.Context, commandID, transactionID uuid.UUID) error
}
