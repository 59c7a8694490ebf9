package reward

import (
	"errors"
	"time"
)

var (
	ErrAlreadyDistributed = errors.New("prize pool already distributed")
	ErrNotClaimable       = errors.New("reward is not claimable")
)

type RewardStatus string

const (
	RewardPending RewardStatus = "pending"
	RewardClaimed RewardStatus = "claimed"
	RewardFailed  RewardStatus = "failed"
)

// PrizeSlice assigns a percentage of the pool to a rank.
type PrizeSlice struct {
	Rank       int
	Percentage float64
}

// PrizePool holds one contest's pot and its payout table. Distributed flips
// once, after payout records are written, and never resets.
type PrizePool struct {
	ContestID    string
	TotalAmount  int64
	Distribution []PrizeSlice
	Distributed  bool
}

// UserReward is one user's claimable payout for one contest.
type UserReward struct {
	ID        string
	UserID    string
	ContestID string
	Amount    int64
	Rank      int
	Status    RewardStatus
	CreatedAt time.Time
	ClaimedAt *time.Time
}

type TransactionType string

const (
	TxContestWin   TransactionType = "contest_win"
	TxContestEntry TransactionType = "contest_entry"
	TxWithdrawal   TransactionType = "withdrawal"
	TxDeposit      TransactionType = "deposit"
	TxRefund       TransactionType = "refund"
	TxBonus        TransactionType = "bonus"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is a ledger line for audit. It is append-mostly; only Status
// and CompletedAt change after creation.
type Transaction struct {
	ID          string
	UserID      string
	Amount      int64
	Type        TransactionType
	Status      TransactionStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}
