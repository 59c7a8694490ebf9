package wallet

import (
	"context"
	"errors"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrUnavailable         = errors.New("wallet unavailable")
)

// Ledger is the balance contract exposed by the identity collaborator.
// Amounts are platform tokens; both calls are synchronous and final.
type Ledger interface {
	Credit(ctx context.Context, userID string, amount int64) error
	Debit(ctx context.Context, userID string, amount int64) error
}
