package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/contest"
	"github.com/fanarena/contest-engine/internal/domain/reward"
)

// failingLedger rejects credits to simulate a wallet outage.
type failingLedger struct{}

func (failingLedger) Credit(context.Context, string, int64) error {
	return errors.New("wallet unavailable")
}

func (failingLedger) Debit(context.Context, string, int64) error {
	return errors.New("wallet unavailable")
}

func settleScoredContest(t *testing.T, env *testEnv, scores []int) string {
	t.Helper()
	ctx := context.Background()

	c := seedScoredContest(t, env, scores)
	if err := env.contests.MarkLive(ctx, c.ID); err != nil {
		t.Fatalf("MarkLive: %v", err)
	}
	if _, err := env.settlement.FinalizeContest(ctx, c.ID); err != nil {
		t.Fatalf("FinalizeContest: %v", err)
	}
	return c.ID
}

func TestDistributeRewardsCreatesPendingRewards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contestID := settleScoredContest(t, env, []int{30, 50, 10})

	rewards, err := env.rewards.DistributeRewards(ctx, contestID)
	if err != nil {
		t.Fatalf("DistributeRewards: %v", err)
	}
	if len(rewards) != 3 {
		t.Fatalf("created %d rewards, want 3", len(rewards))
	}

	// Pool of 100 with the default 50/30/20 split; rank 1 is u2.
	wantByUser := map[string]int64{"u2": 50, "u1": 30, "u3": 20}
	for _, r := range rewards {
		if r.Status != reward.RewardPending {
			t.Fatalf("reward %s status = %s, want pending", r.ID, r.Status)
		}
		if want := wantByUser[r.UserID]; r.Amount != want {
			t.Fatalf("reward for %s = %d, want %d", r.UserID, r.Amount, want)
		}
	}

	pool, err := env.rewards.GetPrizePool(ctx, contestID)
	if err != nil {
		t.Fatalf("GetPrizePool: %v", err)
	}
	if !pool.Distributed {
		t.Fatal("pool not marked distributed")
	}
}

func TestDistributeRewardsIsOneShot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contestID := settleScoredContest(t, env, []int{30, 50, 10})
	if _, err := env.rewards.DistributeRewards(ctx, contestID); err != nil {
		t.Fatalf("DistributeRewards: %v", err)
	}

	_, err := env.rewards.DistributeRewards(ctx, contestID)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("second distribute err = %v, want ErrStateConflict", err)
	}
}

func TestDistributeRewardsRequiresCompletedContest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := seedScoredContest(t, env, []int{30})
	_, err := env.rewards.DistributeRewards(ctx, c.ID)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("err = %v, want ErrStateConflict", err)
	}
}

func TestDistributeRewardsMarksEmptyPoolDistributed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	players := env.seedPlayers(t, 11, 8)

	// Payouts start at rank 5, but the contest only ever ranks one entry,
	// so no reward matches.
	c, err := env.contests.CreateContest(ctx, CreateContestInput{
		Name:         "Top Five Only",
		MatchID:      "mt-1",
		EntryFee:     10,
		TotalSpots:   8,
		PrizePool:    100,
		Type:         contest.TypeMultiPlayer,
		Distribution: []reward.PrizeSlice{{Rank: 5, Percentage: 100}},
	})
	if err != nil {
		t.Fatalf("CreateContest: %v", err)
	}

	env.ledger.SetBalance("u1", 100)
	team := env.createTeam(t, "u1", players)
	if _, err := env.join(t, c.ID, "u1", team); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := env.contests.MarkLive(ctx, c.ID); err != nil {
		t.Fatalf("MarkLive: %v", err)
	}
	if _, err := env.settlement.FinalizeContest(ctx, c.ID); err != nil {
		t.Fatalf("FinalizeContest: %v", err)
	}

	rewards, err := env.rewards.DistributeRewards(ctx, c.ID)
	if err != nil {
		t.Fatalf("DistributeRewards: %v", err)
	}
	if len(rewards) != 0 {
		t.Fatalf("created %d rewards, want 0", len(rewards))
	}

	pool, _ := env.rewards.GetPrizePool(ctx, c.ID)
	if !pool.Distributed {
		t.Fatal("zero-winner pool not marked distributed")
	}
}

func TestClaimRewardCreditsBalanceOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contestID := settleScoredContest(t, env, []int{30, 50, 10})
	rewards, err := env.rewards.DistributeRewards(ctx, contestID)
	if err != nil {
		t.Fatalf("DistributeRewards: %v", err)
	}

	var winner reward.UserReward
	for _, r := range rewards {
		if r.Rank == 1 {
			winner = r
		}
	}
	before, _ := env.ledger.Balance(ctx, winner.UserID)

	claimed, err := env.rewards.ClaimReward(ctx, winner.UserID, winner.ID)
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if claimed.Status != reward.RewardClaimed || claimed.ClaimedAt == nil {
		t.Fatalf("claimed reward = %+v", claimed)
	}

	after, _ := env.ledger.Balance(ctx, winner.UserID)
	if after != before+winner.Amount {
		t.Fatalf("balance = %d, want %d", after, before+winner.Amount)
	}

	// A claimed reward stays claimed.
	if _, err := env.rewards.ClaimReward(ctx, winner.UserID, winner.ID); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("second claim err = %v, want ErrStateConflict", err)
	}
	final, _ := env.ledger.Balance(ctx, winner.UserID)
	if final != after {
		t.Fatalf("double claim changed balance: %d", final)
	}
}

func TestClaimRewardRejectsForeignReward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contestID := settleScoredContest(t, env, []int{30, 50})
	rewards, _ := env.rewards.DistributeRewards(ctx, contestID)

	r := rewards[0]
	if _, err := env.rewards.ClaimReward(ctx, "intruder", r.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestClaimRewardCreditFailureLeavesRewardPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contestID := settleScoredContest(t, env, []int{30, 50})
	rewards, _ := env.rewards.DistributeRewards(ctx, contestID)
	r := rewards[0]

	env.rewards.ledger = failingLedger{}
	if _, err := env.rewards.ClaimReward(ctx, r.UserID, r.ID); err == nil {
		t.Fatal("expected claim to fail when credit fails")
	}

	stored, found, err := env.rewardRepo.GetByID(ctx, r.ID)
	if err != nil || !found {
		t.Fatalf("reward lookup: found=%v err=%v", found, err)
	}
	if stored.Status != reward.RewardPending {
		t.Fatalf("status = %s, want pending after failed credit", stored.Status)
	}

	// A later claim with a healthy wallet succeeds.
	env.rewards.ledger = env.ledger
	if _, err := env.rewards.ClaimReward(ctx, r.UserID, r.ID); err != nil {
		t.Fatalf("retry claim: %v", err)
	}
}

func TestCreatePrizePoolAttachesToBareContest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A contest written by an external importer arrives without a pool.
	bare := contest.Contest{
		ID:         "ct-import-1",
		Name:       "Imported Contest",
		MatchID:    "mt-1",
		EntryFee:   10,
		TotalSpots: 3,
		Status:     contest.StatusOpen,
		CreatedAt:  env.now,
		StartTime:  env.now.Add(2 * time.Hour),
	}
	if err := env.contestRepo.Create(ctx, bare); err != nil {
		t.Fatalf("seed contest: %v", err)
	}

	pool, err := env.rewards.CreatePrizePool(ctx, CreatePrizePoolInput{
		ContestID:   bare.ID,
		TotalAmount: 200,
		Distribution: []reward.PrizeSlice{
			{Rank: 1, Percentage: 70},
			{Rank: 2, Percentage: 30},
		},
	})
	if err != nil {
		t.Fatalf("CreatePrizePool: %v", err)
	}
	if pool.Distributed {
		t.Fatal("new pool already distributed")
	}

	got, err := env.rewards.GetPrizePool(ctx, bare.ID)
	if err != nil {
		t.Fatalf("GetPrizePool: %v", err)
	}
	if got.TotalAmount != 200 || len(got.Distribution) != 2 {
		t.Fatalf("stored pool = %+v", got)
	}

	// The second attach is rejected.
	if _, err := env.rewards.CreatePrizePool(ctx, CreatePrizePoolInput{
		ContestID:    bare.ID,
		TotalAmount:  100,
		Distribution: []reward.PrizeSlice{{Rank: 1, Percentage: 100}},
	}); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("duplicate pool err = %v, want ErrStateConflict", err)
	}
}

func TestCreatePrizePoolRejectsExistingPool(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayers(t, 11, 8)

	c := env.createContest(t, 3, 10, 100)
	_, err := env.rewards.CreatePrizePool(ctx, CreatePrizePoolInput{
		ContestID:    c.ID,
		TotalAmount:  100,
		Distribution: []reward.PrizeSlice{{Rank: 1, Percentage: 100}},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("err = %v, want ErrStateConflict", err)
	}
}

func TestListPendingRewardsExcludesClaimed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contestID := settleScoredContest(t, env, []int{30, 50})
	rewards, err := env.rewards.DistributeRewards(ctx, contestID)
	if err != nil {
		t.Fatalf("DistributeRewards: %v", err)
	}

	r := rewards[0]
	pending, err := env.rewards.ListPendingRewards(ctx, r.UserID)
	if err != nil {
		t.Fatalf("ListPendingRewards: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	if _, err := env.rewards.ClaimReward(ctx, r.UserID, r.ID); err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	pending, _ = env.rewards.ListPendingRewards(ctx, r.UserID)
	if len(pending) != 0 {
		t.Fatalf("pending after claim = %d, want 0", len(pending))
	}
}

func TestContestRewardTotalSumsAllRewards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contestID := settleScoredContest(t, env, []int{30, 50, 10})
	if _, err := env.rewards.DistributeRewards(ctx, contestID); err != nil {
		t.Fatalf("DistributeRewards: %v", err)
	}

	total, err := env.rewards.ContestRewardTotal(ctx, contestID)
	if err != nil {
		t.Fatalf("ContestRewardTotal: %v", err)
	}
	// Pool of 100 split 50/30/20.
	if total != 100 {
		t.Fatalf("total = %d, want 100", total)
	}
}

func TestCreateBonusRewardIsClaimable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bonus, err := env.rewards.CreateBonusReward(ctx, "u1", 500)
	if err != nil {
		t.Fatalf("CreateBonusReward: %v", err)
	}
	if bonus.Status != reward.RewardPending {
		t.Fatalf("status = %s, want pending", bonus.Status)
	}

	if _, err := env.rewards.ClaimReward(ctx, "u1", bonus.ID); err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	balance, _ := env.ledger.Balance(ctx, "u1")
	if balance != 500 {
		t.Fatalf("balance = %d, want 500", balance)
	}

	// A claimed bonus is booked as a bonus transaction, not a contest win.
	transactions, err := env.rewards.ListUserTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListUserTransactions: %v", err)
	}
	if len(transactions) != 1 || transactions[0].Type != reward.TxBonus {
		t.Fatalf("transactions = %+v, want one bonus", transactions)
	}
}
