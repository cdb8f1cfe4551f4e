// Package account adapts the account domain repository to Postgres. CRUD
// shape and pgconn.PgError handling grounded on
// adapters/postgres/account.postgresql.go; the OCC-guarded UpdateWithVersion
// is new, grounded on the stale-version detection pattern exercised by
// update-balance_stale_test.go.
package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/dbtx"
	"github.com/ledgerd/coreengine/internal/apperr"
	"github.com/ledgerd/coreengine/internal/domain/account"
)

const tableName = "accounts"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repository is the Postgres-backed account.Repository implementation.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository bound to db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *account.Account) (*account.Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.Must(uuid.NewV7())
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.RowVersion = 1

	const q = `
		INSERT INTO ` + tableName + ` (
			id, instance_id, address, name, description, type, currency, normal_balance,
			posted_debit, posted_credit, pending_debit, pending_credit, row_version,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`

	_, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q,
		a.ID, a.InstanceID, a.Address, a.Name, a.Description, a.Type, a.Currency, a.NormalBalance,
		a.Posted.Debit, a.Posted.Credit, a.Pending.Debit, a.Pending.Credit, a.RowVersion,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.ValidateBusinessError(apperr.ErrAccountAddressTaken, "Account", a.Address)
		}

		return nil, err
	}

	return a, nil
}

func (r *Repository) FindByAddress(ctx context.Context, instanceID uuid.UUID, address string) (*account.Account, error) {
	query, args, err := psql.Select(columns()...).
		From(tableName).
		Where(sq.Eq{"instance_id": instanceID, "address": address}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanOne(dbtx.Conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query, args, err := psql.Select(columns()...).
		From(tableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanOne(dbtx.Conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

func (r *Repository) FindByAddresses(ctx context.Context, instanceID uuid.UUID, addresses []string) ([]*account.Account, error) {
	query, args, err := psql.Select(columns()...).
		From(tableName).
		Where(sq.Eq{"instance_id": instanceID}).
		Where("address = ANY(?)", pq.Array(addresses)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := dbtx.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*account.Account

	for rows.Next() {
		a, err := scanRow(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *Repository) UpdateFields(ctx context.Context, a *account.Account) (*account.Account, error) {
	update := psql.Update(tableName).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": a.ID})

	update = update.Set("name", a.Name).Set("description", a.Description)

	query, args, err := update.ToSql()
	if err != nil {
		return nil, err
	}

	res, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ValidateBusinessError(apperr.ErrAccountNotFound, "Account")
	}

	return a, nil
}

// UpdateWithVersion performs the OCC-guarded balance write: the UPDATE only
// applies WHERE row_version = a.RowVersion, and a zero-rows-affected result
// is reported as a stale version, not a not-found (account.Repository doc).
func (r *Repository) UpdateWithVersion(ctx context.Context, a *account.Account) (*account.Account, error) {
	const q = `
		UPDATE ` + tableName + ` SET
			posted_debit = $1, posted_credit = $2,
			pending_debit = $3, pending_credit = $4,
			row_version = row_version + 1,
			updated_at = $5
		WHERE id = $6 AND row_version = $7`

	newVersion := a.RowVersion

	res, err := dbtx.Conn(ctx, r.db).ExecContext(ctx, q,
		a.Posted.Debit, a.Posted.Credit, a.Pending.Debit, a.Pending.Credit,
		time.Now().UTC(), a.ID, newVersion,
	)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, apperr.StaleVersionError{EntityType: "Account", EntityID: a.ID.String()}
	}

	a.RowVersion++

	return a, nil
}

func columns() []string {
	return []string{
		"id", "instance_id", "address", "name", "description", "type", "currency", "normal_balance",
		"posted_debit", "posted_credit", "pending_debit", "pending_credit", "row_version",
		"created_at", "updated_at",
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (*account.Account, error) {
	a, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ValidateBusinessError(apperr.ErrAccountNotFound, "Account")
		}

		return nil, err
	}

	return a, nil
}

func scanRow(s rowScanner) (*account.Account, error) {
	var a account.Account

	err := s.Scan(
		&a.ID, &a.InstanceID, &a.Address, &a.Name, &a.Description, &a.Type, &a.Currency, &a.NormalBalance,
		&a.Posted.Debit, &a.Posted.Credit, &a.Pending.Debit, &a.Pending.Credit, &a.RowVersion,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}
