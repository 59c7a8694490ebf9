package reward

import (
	"context"
	"time"
)

type PoolRepository interface {
	GetByContest(ctx context.Context, contestID string) (PrizePool, bool, error)
	Create(ctx context.Context, pool PrizePool) error
	MarkDistributed(ctx context.Context, contestID string) error
}

type RewardRepository interface {
	GetByID(ctx context.Context, id string) (UserReward, bool, error)
	ListByUser(ctx context.Context, userID string) ([]UserReward, error)
	ListByContest(ctx context.Context, contestID string) ([]UserReward, error)
	Create(ctx context.Context, r UserReward) error
	// UpdateStatus sets status and, when claimed, the claim timestamp.
	UpdateStatus(ctx context.Context, id string, status RewardStatus, claimedAt *time.Time) error
}

type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (Transaction, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
	Create(ctx context.Context, tx Transaction) error
	Count(ctx context.Context) (int, error)
}
