package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/contest"
	"github.com/fanarena/contest-engine/internal/domain/reward"
	"github.com/fanarena/contest-engine/internal/domain/wallet"
	"github.com/fanarena/contest-engine/internal/platform/sequence"
)

type RewardService struct {
	rewardRepo  reward.RewardRepository
	poolRepo    reward.PoolRepository
	contestRepo contest.Repository
	txRepo      reward.TransactionRepository
	ledger      wallet.Ledger
	seq         sequence.Source
	logger      *slog.Logger
	now         func() time.Time

	// claimMu serializes claims so a reward cannot be credited twice.
	claimMu sync.Mutex
	// distributeMu does the same for distribution per process.
	distributeMu sync.Mutex
}

func NewRewardService(
	rewardRepo reward.RewardRepository,
	poolRepo reward.PoolRepository,
	contestRepo contest.Repository,
	txRepo reward.TransactionRepository,
	ledger wallet.Ledger,
	seq sequence.Source,
	logger *slog.Logger,
) *RewardService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RewardService{
		rewardRepo:  rewardRepo,
		poolRepo:    poolRepo,
		contestRepo: contestRepo,
		txRepo:      txRepo,
		ledger:      ledger,
		seq:         seq,
		logger:      logger,
		now:         time.Now,
	}
}

// CreatePrizePoolInput describes a standalone pool for a contest that was
// created without one.
type CreatePrizePoolInput struct {
	ContestID    string
	TotalAmount  int64
	Distribution []reward.PrizeSlice
}

// CreatePrizePool attaches a payout table to an existing contest. Contest
// creation normally does this in the same step; this path covers pools set
// up after the fact, before the contest completes.
func (s *RewardService) CreatePrizePool(ctx context.Context, input CreatePrizePoolInput) (reward.PrizePool, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.CreatePrizePool")
	defer span.End()

	input.ContestID = strings.TrimSpace(input.ContestID)
	if input.ContestID == "" {
		return reward.PrizePool{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}
	if input.TotalAmount <= 0 {
		return reward.PrizePool{}, fmt.Errorf("%w: pool amount must be positive", ErrInvalidInput)
	}
	if err := validateDistribution(input.Distribution); err != nil {
		return reward.PrizePool{}, err
	}

	c, found, err := s.contestRepo.GetByID(ctx, input.ContestID)
	if err != nil {
		return reward.PrizePool{}, fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return reward.PrizePool{}, fmt.Errorf("%w: contest %s", ErrNotFound, input.ContestID)
	}
	if c.Status == contest.StatusCompleted || c.Status == contest.StatusCancelled {
		return reward.PrizePool{}, fmt.Errorf("%w: contest %s is %s", ErrStateConflict, c.ID, c.Status)
	}
	if _, exists, err := s.poolRepo.GetByContest(ctx, input.ContestID); err != nil {
		return reward.PrizePool{}, fmt.Errorf("get prize pool: %w", err)
	} else if exists {
		return reward.PrizePool{}, fmt.Errorf("%w: contest %s already has a prize pool", ErrStateConflict, input.ContestID)
	}

	pool := reward.PrizePool{
		ContestID:    input.ContestID,
		TotalAmount:  input.TotalAmount,
		Distribution: input.Distribution,
	}
	if err := s.poolRepo.Create(ctx, pool); err != nil {
		return reward.PrizePool{}, fmt.Errorf("create prize pool: %w", err)
	}

	s.logger.InfoContext(ctx, "prize pool created",
		"contest_id", pool.ContestID,
		"total_amount", pool.TotalAmount,
	)

	return pool, nil
}

// DistributeRewards writes a pending reward for every winning rank of a
// completed contest. The pool flips to distributed exactly once, even when
// no rank matched an entry.
func (s *RewardService) DistributeRewards(ctx context.Context, contestID string) ([]reward.UserReward, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.DistributeRewards")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	s.distributeMu.Lock()
	defer s.distributeMu.Unlock()

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: contest %s", ErrNotFound, contestID)
	}
	if c.Status != contest.StatusCompleted {
		return nil, fmt.Errorf("%w: contest %s is %s, expected completed", ErrStateConflict, c.ID, c.Status)
	}

	pool, found, err := s.poolRepo.GetByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("get prize pool: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: prize pool for contest %s", ErrNotFound, contestID)
	}
	if pool.Distributed {
		return nil, fmt.Errorf("%w: %v", ErrStateConflict, reward.ErrAlreadyDistributed)
	}

	entries, err := s.contestRepo.ListEntriesByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	entryByRank := make(map[int]contest.Entry, len(entries))
	for _, entry := range entries {
		if entry.Rank != nil {
			entryByRank[*entry.Rank] = entry
		}
	}

	rewards := make([]reward.UserReward, 0, len(pool.Distribution))
	for _, slice := range pool.Distribution {
		entry, ok := entryByRank[slice.Rank]
		if !ok {
			continue
		}

		amount := int64(math.Floor(float64(pool.TotalAmount) * slice.Percentage / 100))
		rewardID, err := nextID(ctx, s.seq, counterReward)
		if err != nil {
			return nil, err
		}

		ur := reward.UserReward{
			ID:        rewardID,
			UserID:    entry.UserID,
			ContestID: contestID,
			Amount:    amount,
			Rank:      slice.Rank,
			Status:    reward.RewardPending,
			CreatedAt: s.now().UTC(),
		}
		if err := s.rewardRepo.Create(ctx, ur); err != nil {
			return nil, fmt.Errorf("create reward: %w", err)
		}
		if err := s.contestRepo.UpdateEntryResult(ctx, entry.ID, slice.Rank, &amount); err != nil {
			return nil, fmt.Errorf("record entry prize: %w", err)
		}
		rewards = append(rewards, ur)
	}

	if err := s.poolRepo.MarkDistributed(ctx, contestID); err != nil {
		return nil, fmt.Errorf("mark pool distributed: %w", err)
	}

	s.logger.InfoContext(ctx, "rewards distributed",
		"contest_id", contestID,
		"rewards", len(rewards),
	)

	return rewards, nil
}

// ClaimReward credits a pending reward to its owner's balance. The credit
// lands before the status flips; a failed credit leaves the reward pending
// and claimable again.
func (s *RewardService) ClaimReward(ctx context.Context, userID, rewardID string) (reward.UserReward, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.ClaimReward")
	defer span.End()

	userID = strings.TrimSpace(userID)
	rewardID = strings.TrimSpace(rewardID)
	if userID == "" || rewardID == "" {
		return reward.UserReward{}, fmt.Errorf("%w: user id and reward id are required", ErrInvalidInput)
	}

	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	ur, found, err := s.rewardRepo.GetByID(ctx, rewardID)
	if err != nil {
		return reward.UserReward{}, fmt.Errorf("get reward: %w", err)
	}
	if !found {
		return reward.UserReward{}, fmt.Errorf("%w: reward %s", ErrNotFound, rewardID)
	}
	if ur.UserID != userID {
		return reward.UserReward{}, fmt.Errorf("%w: reward %s does not belong to user", ErrUnauthorized, rewardID)
	}
	if ur.Status != reward.RewardPending {
		return reward.UserReward{}, fmt.Errorf("%w: reward %s is %s", ErrStateConflict, rewardID, ur.Status)
	}

	if err := s.ledger.Credit(ctx, userID, ur.Amount); err != nil {
		if errors.Is(err, wallet.ErrUnavailable) {
			return reward.UserReward{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return reward.UserReward{}, fmt.Errorf("credit reward: %w", err)
	}

	claimedAt := s.now().UTC()
	if err := s.rewardRepo.UpdateStatus(ctx, rewardID, reward.RewardClaimed, &claimedAt); err != nil {
		// The credit landed but the flip failed. Surface loudly; the reward
		// stays pending and a retry would double-credit.
		s.logger.ErrorContext(ctx, "reward status flip failed after credit",
			"reward_id", rewardID,
			"user_id", userID,
			"error", err,
		)
		return reward.UserReward{}, fmt.Errorf("update reward status: %w", err)
	}

	txType := reward.TxContestWin
	if ur.ContestID == "" {
		txType = reward.TxBonus
	}
	s.recordTransaction(ctx, userID, ur.Amount, txType)

	ur.Status = reward.RewardClaimed
	ur.ClaimedAt = &claimedAt

	s.logger.InfoContext(ctx, "reward claimed",
		"reward_id", rewardID,
		"user_id", userID,
		"amount", ur.Amount,
	)

	return ur, nil
}

func (s *RewardService) ListUserRewards(ctx context.Context, userID string) ([]reward.UserReward, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.ListUserRewards")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	return s.rewardRepo.ListByUser(ctx, userID)
}

// ListPendingRewards returns the user's rewards still waiting to be claimed.
func (s *RewardService) ListPendingRewards(ctx context.Context, userID string) ([]reward.UserReward, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.ListPendingRewards")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	all, err := s.rewardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending := make([]reward.UserReward, 0, len(all))
	for _, ur := range all {
		if ur.Status == reward.RewardPending {
			pending = append(pending, ur)
		}
	}

	return pending, nil
}

// ContestRewardTotal sums the amounts distributed for one contest,
// regardless of claim status.
func (s *RewardService) ContestRewardTotal(ctx context.Context, contestID string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.ContestRewardTotal")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return 0, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	rewards, err := s.rewardRepo.ListByContest(ctx, contestID)
	if err != nil {
		return 0, fmt.Errorf("list contest rewards: %w", err)
	}

	var total int64
	for _, ur := range rewards {
		total += ur.Amount
	}

	return total, nil
}

func (s *RewardService) GetPrizePool(ctx context.Context, contestID string) (reward.PrizePool, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.GetPrizePool")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return reward.PrizePool{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	pool, found, err := s.poolRepo.GetByContest(ctx, contestID)
	if err != nil {
		return reward.PrizePool{}, fmt.Errorf("get prize pool: %w", err)
	}
	if !found {
		return reward.PrizePool{}, fmt.Errorf("%w: prize pool for contest %s", ErrNotFound, contestID)
	}

	return pool, nil
}

// CreateBonusReward grants an out-of-contest bonus as a pending reward.
func (s *RewardService) CreateBonusReward(ctx context.Context, userID string, amount int64) (reward.UserReward, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.CreateBonusReward")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return reward.UserReward{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if amount <= 0 {
		return reward.UserReward{}, fmt.Errorf("%w: bonus amount must be positive", ErrInvalidInput)
	}

	rewardID, err := nextID(ctx, s.seq, counterReward)
	if err != nil {
		return reward.UserReward{}, err
	}

	ur := reward.UserReward{
		ID:        rewardID,
		UserID:    userID,
		Amount:    amount,
		Status:    reward.RewardPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.rewardRepo.Create(ctx, ur); err != nil {
		return reward.UserReward{}, fmt.Errorf("create bonus reward: %w", err)
	}

	s.logger.InfoContext(ctx, "bonus reward created",
		"reward_id", ur.ID,
		"user_id", userID,
		"amount", amount,
	)

	return ur, nil
}

func (s *RewardService) ListUserTransactions(ctx context.Context, userID string) ([]reward.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "RewardService.ListUserTransactions")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	return s.txRepo.ListByUser(ctx, userID)
}

func (s *RewardService) recordTransaction(ctx context.Context, userID string, amount int64, txType reward.TransactionType) {
	txID, err := nextID(ctx, s.seq, counterTransaction)
	if err != nil {
		s.logger.WarnContext(ctx, "skip transaction record", "error", err)
		return
	}
	now := s.now().UTC()
	tx := reward.Transaction{
		ID:          txID,
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Status:      reward.TxCompleted,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		s.logger.WarnContext(ctx, "transaction record failed",
			"user_id", userID,
			"type", txType,
			"error", err,
		)
	}
}
