package wallet

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/fanarena/contest-engine/internal/domain/wallet"
)

// MemoryLedger keeps balances in process. Debit rejects overdrafts;
// unknown users start at zero.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]int64)}
}

func (l *MemoryLedger) Credit(_ context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount cannot be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[userID] += amount
	return nil
}

func (l *MemoryLedger) Debit(_ context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("debit amount cannot be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[userID] < amount {
		return fmt.Errorf("%w: user %s", domain.ErrInsufficientBalance, userID)
	}
	l.balances[userID] -= amount
	return nil
}

func (l *MemoryLedger) Balance(_ context.Context, userID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID], nil
}

// SetBalance is a test and seeding hook.
func (l *MemoryLedger) SetBalance(userID string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = amount
}
