// Package mpostgres wraps the pooled primary/replica Postgres connection the
// way common/mpostgres/postgres.go does, built on pgx as the driver and
// dbresolver for primary/replica routing.
package mpostgres

import (
	"database/sql"
	"fmt"

	"github.com/bxcodec/dbresolver/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Connection holds the primary/replica connection strings and the resolved
// pool. Claims and writes go to the primary; list/read queries may be routed
// to a replica when one is configured.
type Connection struct {
	ConnectionStringPrimary string
	ConnectionStringReplica string
	MigrationsPath          string

	DB        dbresolver.DB
	Connected bool

	// Primary is the raw primary-only handle the command engine's
	// repositories and txstep.RunSteps are built on: every write here is a
	// transaction, and dbresolver.DB's read/write split has no role in a
	// single-writer worker process.
	Primary *sql.DB
}

// Connect opens the primary (and, if configured, replica) connections, wires
// them into a dbresolver.DB with round-robin read routing, and runs pending
// migrations against the primary.
func (c *Connection) Connect() error {
	primaryDB, err := sql.Open("pgx", c.ConnectionStringPrimary)
	if err != nil {
		return fmt.Errorf("open primary db: %w", err)
	}

	if err := primaryDB.Ping(); err != nil {
		return fmt.Errorf("ping primary db: %w", err)
	}

	opts := []dbresolver.OptionFunc{
		dbresolver.WithPrimaryDBs(primaryDB),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB),
	}

	if c.ConnectionStringReplica != "" {
		replicaDB, err := sql.Open("pgx", c.ConnectionStringReplica)
		if err != nil {
			return fmt.Errorf("open replica db: %w", err)
		}

		if err := replicaDB.Ping(); err != nil {
			return fmt.Errorf("ping replica db: %w", err)
		}

		opts = append(opts, dbresolver.WithReplicaDBs(replicaDB))
	}

	c.DB = dbresolver.New(opts...)
	c.Primary = primaryDB
	c.Connected = true

	if c.MigrationsPath != "" {
		if err := c.migrate(primaryDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	return nil
}

func (c *Connection) migrate(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+c.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

// GetDB returns the resolved pool, erroring if Connect hasn't run.
//
//nolint:ireturn
func (c *Connection) GetDB() (dbresolver.DB, error) {
	if !c.Connected {
		return nil, fmt.Errorf("mpostgres: connection not established")
	}

	return c.DB, nil
}
