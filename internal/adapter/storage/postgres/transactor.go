package postgres

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
)

// consecutiveConnErrorsBeforeShutdown is the burst of consecutive
// connection errors that escalates to a graceful shutdown signal. A
// database that refuses every connection attempt five times in a row is
// treated as down for the process, not merely slow.
const consecutiveConnErrorsBeforeShutdown = 5

// Transactor implements ports.DBTransactor using a Pool. It also tracks
// consecutive connection-acquisition failures and signals ShutdownCh when
// the burst threshold is reached, so main can trigger a graceful
// shutdown instead of spinning forever against a dead database.
type Transactor struct {
	pool         Pool
	shutdownCh   chan struct{}
	consecFails  atomic.Int32
	shutdownOnce atomic.Bool
}

// NewTransactor creates a new Transactor wrapping the connection pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{
		pool:       pool,
		shutdownCh: make(chan struct{}),
	}
}

// ShutdownCh is closed exactly once, the moment consecutive connection
// failures reach the threshold. Callers (typically main's shutdown
// goroutine) select on it alongside the OS signal channel.
func (t *Transactor) ShutdownCh() <-chan struct{} {
	return t.shutdownCh
}

func (t *Transactor) recordConnOutcome(err error) {
	if err == nil {
		t.consecFails.Store(0)
		return
	}
	if t.consecFails.Add(1) >= consecutiveConnErrorsBeforeShutdown {
		if t.shutdownOnce.CompareAndSwap(false, true) {
			close(t.shutdownCh)
		}
	}
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (t *Transactor) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := t.pool.Begin(ctx)
	t.recordConnOutcome(err)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// WithAdvisoryLock runs fn inside a transaction that holds a
// transaction-scoped advisory lock keyed by lockKey. The key is hashed
// to a 63-bit integer (FNV-1a, masked to fit signed bigint) since
// Postgres advisory locks are keyed by int64.
func (t *Transactor) WithAdvisoryLock(ctx context.Context, lockKey string, fn func(tx pgx.Tx) error) error {
	lockID := hashLockKey(lockKey)
	return t.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", lockID); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		return fn(tx)
	})
}

// hashLockKey hashes an arbitrary string to a 63-bit signed integer
// suitable for pg_advisory_xact_lock, which takes a bigint.
func hashLockKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	// Mask off the sign bit so the result is always representable as a
	// positive bigint, regardless of platform int64 wraparound rules.
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}
