package main

import (
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ledgerd/coreengine/internal/adapters/postgres/account"
	"github.com/ledgerd/coreengine/internal/adapters/postgres/balancehistory"
	"github.com/ledgerd/coreengine/internal/adapters/postgres/command"
	"github.com/ledgerd/coreengine/internal/adapters/postgres/idempotency"
	"github.com/ledgerd/coreengine/internal/adapters/postgres/instance"
	"github.com/ledgerd/coreengine/internal/adapters/postgres/journalevent"
	"github.com/ledgerd/coreengine/internal/adapters/postgres/transaction"
	"github.com/ledgerd/coreengine/internal/app"
	"github.com/ledgerd/coreengine/internal/config"
	"github.com/ledgerd/coreengine/internal/mlog"
	"github.com/ledgerd/coreengine/internal/mpostgres"
	commandsvc "github.com/ledgerd/coreengine/internal/services/command"
	"github.com/ledgerd/coreengine/internal/services/occ"
	"github.com/ledgerd/coreengine/internal/services/queue"
	"github.com/ledgerd/coreengine/internal/services/transformer"
	"github.com/ledgerd/coreengine/internal/services/worker"
)

// main wires the command engine's full dependency graph and runs its claim
// worker pool, mirroring components/ledger/cmd/app/main.go's shape: load
// config, build a logger, build the service, run it.
func main() {
	cfg := config.NewConfig()

	logger, err := mlog.NewZapLogger(cfg.EnvName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	defer func() { _ = logger.Sync() }()

	conn := &mpostgres.Connection{
		ConnectionStringPrimary: primaryDSN(cfg),
		ConnectionStringReplica: replicaDSN(cfg),
		MigrationsPath:          "migrations",
	}

	if err := conn.Connect(); err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		os.Exit(1)
	}

	db := conn.Primary

	handlers := &commandsvc.Handlers{
		DB: db,

		InstanceRepo:    instance.NewRepository(db),
		AccountRepo:     account.NewRepository(db),
		TransactionRepo: transaction.NewRepository(db),
		BalanceHistRepo: balancehistory.NewRepository(db),
		CommandRepo:     command.NewRepository(db),
		QueueRepo:       command.NewQueueRepository(db),
		KeyRepo:         idempotency.NewKeyRepository(db),
		PendingRepo:     idempotency.NewPendingLookupRepository(db),
		JournalRepo:     journalevent.NewRepository(db),

		Transformer: &transformer.Transformer{AccountRepo: account.NewRepository(db)},

		IdempotencySecret: []byte(cfg.IdempotencySecret),
	}

	queueSvc := &queue.Service{
		CommandRepo:      handlers.CommandRepo,
		QueueRepo:        handlers.QueueRepo,
		MaxRetries:       cfg.MaxRetries,
		RetryIntervalMS:  cfg.RetryIntervalMS,
		OCCBackoffBaseMS: cfg.OCCBackoffBaseMS,
	}
	handlers.Queue = queueSvc

	handlers.OCC = &occ.Processor{
		MaxRetries:    cfg.MaxOCCRetries,
		BackoffBaseMS: cfg.OCCBackoffBaseMS,
	}

	launcher := app.NewLauncher(app.WithLogger(logger))

	tracer := otel.Tracer("coreengine")

	for i := 0; i < cfg.WorkerCount; i++ {
		pool := &worker.Pool{
			ID:          fmt.Sprintf("worker-%d", i),
			CommandRepo: handlers.CommandRepo,
			Queue:       queueSvc,
			Handlers:    handlers,

			PollInterval: time.Duration(cfg.ClaimPollMS) * time.Millisecond,
			BatchSize:    10,
			Concurrency:  10,
			Tracer:       tracer,
		}

		launcher.Add(pool.ID, pool)
	}

	launcher.Run()
}

func primaryDSN(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.PrimaryDBUser, cfg.PrimaryDBPassword, cfg.PrimaryDBHost, cfg.PrimaryDBPort, cfg.PrimaryDBName, cfg.PrimaryDBSSLMode)
}

func replicaDSN(cfg *config.Config) string {
	if cfg.ReplicaDBHost == "" {
		return ""
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.ReplicaDBUser, cfg.ReplicaDBPassword, cfg.ReplicaDBHost, cfg.ReplicaDBPort, cfg.ReplicaDBName)
}
