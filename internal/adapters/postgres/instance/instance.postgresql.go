// Package instance adapts the instance domain repository to Postgres,
// grounded on adapters/postgres/account.postgresql.go's CRUD shape.
package instance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/instance"
)

const tableName = "instances"

// Repository is the Postgres-backed instance.Repository implementation.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository bound to db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, i *instance.Instance) (*instance.Instance, error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.Must(uuid.NewV7())
	}

	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now

	const q = `INSERT INTO ` + tableName + ` (id, address, created_at, updated_at) VALUES ($1, $2, $3, $4)`

	if _, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q, i.ID, i.Address, i.CreatedAt, i.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.ValidateBusinessError(apperr.ErrInstanceAddressTaken, "Instance", i.Address)
		}

		return nil, err
	}

	return i, nil
}

func (r *Repository) FindByAddress(ctx context.Context, address string) (*instance.Instance, error) {
	const q = `SELECT id, address, created_at, updated_at FROM ` + tableName + ` WHERE address = $1`

	return r.scanOne(dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, address))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*instance.Instance, error) {
	const q = `SELECT id, address, created_at, updated_at FROM ` + tableName + ` WHERE id = $1`

	return r.scanOne(dbtx.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *Repository) scanOne(row *sql.Row) (*instance.Instance, error) {
	var i instance.Instance

	if err := row.Scan(&i.ID, &i.Address, &i.CreatedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ValidateBusinessError(apperr.ErrInstanceNotFound, "Instance")
		}

		return nil, err
	}

	return &i, nil
}
