package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/reward"
)

type PrizePoolRepository struct {
	mu        sync.RWMutex
	byContest map[string]reward.PrizePool
}

func NewPrizePoolRepository() *PrizePoolRepository {
	return &PrizePoolRepository{byContest: make(map[string]reward.PrizePool)}
}

func (r *PrizePoolRepository) GetByContest(_ context.Context, contestID string) (reward.PrizePool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byContest[contestID]
	return clonePool(p), ok, nil
}

func (r *PrizePoolRepository) Create(_ context.Context, pool reward.PrizePool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byContest[pool.ContestID]; ok {
		return fmt.Errorf("prize pool for contest %s already exists", pool.ContestID)
	}
	r.byContest[pool.ContestID] = clonePool(pool)
	return nil
}

func (r *PrizePoolRepository) MarkDistributed(_ context.Context, contestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byContest[contestID]
	if !ok {
		return fmt.Errorf("prize pool for contest %s not found", contestID)
	}
	p.Distributed = true
	r.byContest[contestID] = p
	return nil
}

type UserRewardRepository struct {
	mu        sync.RWMutex
	byID      map[string]reward.UserReward
	byUser    map[string][]string
	byContest map[string][]string
}

func NewUserRewardRepository() *UserRewardRepository {
	return &UserRewardRepository{
		byID:      make(map[string]reward.UserReward),
		byUser:    make(map[string][]string),
		byContest: make(map[string][]string),
	}
}

func (r *UserRewardRepository) GetByID(_ context.Context, id string) (reward.UserReward, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ur, ok := r.byID[id]
	return cloneReward(ur), ok, nil
}

func (r *UserRewardRepository) ListByUser(_ context.Context, userID string) ([]reward.UserReward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	out := make([]reward.UserReward, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneReward(r.byID[id]))
	}
	return out, nil
}

func (r *UserRewardRepository) ListByContest(_ context.Context, contestID string) ([]reward.UserReward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byContest[contestID]
	out := make([]reward.UserReward, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneReward(r.byID[id]))
	}
	return out, nil
}

func (r *UserRewardRepository) Create(_ context.Context, ur reward.UserReward) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[ur.ID]; ok {
		return fmt.Errorf("reward %s already exists", ur.ID)
	}
	r.byID[ur.ID] = cloneReward(ur)
	r.byUser[ur.UserID] = append(r.byUser[ur.UserID], ur.ID)
	r.byContest[ur.ContestID] = append(r.byContest[ur.ContestID], ur.ID)
	return nil
}

func (r *UserRewardRepository) UpdateStatus(_ context.Context, id string, status reward.RewardStatus, claimedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ur, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("reward %s not found", id)
	}
	ur.Status = status
	if claimedAt != nil {
		v := *claimedAt
		ur.ClaimedAt = &v
	}
	r.byID[id] = ur
	return nil
}

type TransactionRepository struct {
	mu     sync.RWMutex
	byID   map[string]reward.Transaction
	byUser map[string][]string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		byID:   make(map[string]reward.Transaction),
		byUser: make(map[string][]string),
	}
}

func (r *TransactionRepository) GetByID(_ context.Context, id string) (reward.Transaction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.byID[id]
	return tx, ok, nil
}

func (r *TransactionRepository) ListByUser(_ context.Context, userID string) ([]reward.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	out := make([]reward.Transaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *TransactionRepository) Create(_ context.Context, tx reward.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[tx.ID]; ok {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}
	r.byID[tx.ID] = tx
	r.byUser[tx.UserID] = append(r.byUser[tx.UserID], tx.ID)
	return nil
}

func (r *TransactionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func clonePool(p reward.PrizePool) reward.PrizePool {
	out := p
	out.Distribution = append([]reward.PrizeSlice(nil), p.Distribution...)
	return out
}

func cloneReward(ur reward.UserReward) reward.UserReward {
	out := ur
	if ur.ClaimedAt != nil {
		v := *ur.ClaimedAt
		out.ClaimedAt = &v
	}
	return out
}
