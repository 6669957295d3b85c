// Package store provides the atomic unit the match coordinator writes
// through: a match row plus its channel must be created together or not at
// all, so no reader ever observes a match without a channel.
package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	channelstore "amora/internal/channel/store/channel"
	matchstore "amora/internal/match/store/match"
	dErrors "amora/pkg/domain-errors"
)

// Unit bundles the stores participating in one match-formation write.
type Unit struct {
	Matches  matchstore.Store
	Channels channelstore.Store
}

// Runner executes fn against a Unit with atomicity appropriate to the
// backing store. If fn returns an error every write it performed is rolled
// back (postgres) or never became visible mid-flight (memory).
type Runner interface {
	RunInTx(ctx context.Context, fn func(Unit) error) error
}

// MemoryRunner serializes formation attempts behind a single mutex. That is
// enough for the in-memory stores because the coordinator re-checks the pair
// inside fn, so no partial state can be observed or left behind.
type MemoryRunner struct {
	mu   sync.Mutex
	unit Unit
}

// NewMemoryRunner wraps the given in-memory stores.
func NewMemoryRunner(matches *matchstore.InMemory, channels *channelstore.InMemory) *MemoryRunner {
	return &MemoryRunner{unit: Unit{Matches: matches, Channels: channels}}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(Unit) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "match formation aborted: context cancelled")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.unit)
}

const defaultTxTimeout = 5 * time.Second

// PostgresRunner runs fn inside one database transaction with tx-bound
// stores, so the channel inserts and the match insert commit or roll back
// together.
type PostgresRunner struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresRunner constructs a transactional runner over the pool.
func NewPostgresRunner(db *sql.DB) *PostgresRunner {
	return &PostgresRunner{db: db, timeout: defaultTxTimeout}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, fn func(Unit) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "match formation aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	unit := Unit{
		Matches:  matchstore.NewPostgresTx(tx),
		Channels: channelstore.NewPostgresTx(tx),
	}
	if err := fn(unit); err != nil {
		return err
	}

	return tx.Commit()
}
