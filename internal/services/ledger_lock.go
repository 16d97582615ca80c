package services

import (
	"context"
	"sync"
)

// LedgerLock serializes writers whose outcome depends on the current balance.
// It only covers a single process; the service runs as one instance per ledger.
type LedgerLock struct {
	mu sync.Mutex
}

// NewLedgerLock creates a new ledger lock
func NewLedgerLock() *LedgerLock {
	return &LedgerLock{}
}

// WithLock runs fn while holding the lock. A context cancelled while waiting
// aborts before fn runs.
func (l *LedgerLock) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
