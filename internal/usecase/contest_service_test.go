package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/contest"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/domain/reward"
)

func (env *testEnv) join(t *testing.T, contestID, userID string, team fantasy.Team) (contest.Entry, error) {
	t.Helper()
	return env.contests.JoinContest(context.Background(), JoinContestInput{
		ContestID: contestID,
		UserID:    userID,
		TeamID:    team.ID,
	})
}

func TestJoinContestDebitsFeeAndFillsSpot(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)
	team := env.createTeam(t, "u1", players)
	c := env.createContest(t, 3, 10, 100)
	env.ledger.SetBalance("u1", 25)

	entry, err := env.join(t, c.ID, "u1", team)
	if err != nil {
		t.Fatalf("JoinContest: %v", err)
	}
	if entry.ContestID != c.ID || entry.UserID != "u1" {
		t.Fatalf("entry = %+v", entry)
	}

	balance, _ := env.ledger.Balance(context.Background(), "u1")
	if balance != 15 {
		t.Fatalf("balance after join = %d, want 15", balance)
	}

	got, err := env.contests.GetContest(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetContest: %v", err)
	}
	if got.FilledSpots != 1 || got.Status != contest.StatusOpen {
		t.Fatalf("filled=%d status=%s", got.FilledSpots, got.Status)
	}
}

func TestJoinContestFlipsToFullAtCapacity(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)
	c := env.createContest(t, 2, 10, 100)

	for i, userID := range []string{"u1", "u2"} {
		env.ledger.SetBalance(userID, 50)
		team := env.createTeam(t, userID, players)
		if _, err := env.join(t, c.ID, userID, team); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	got, _ := env.contests.GetContest(context.Background(), c.ID)
	if got.Status != contest.StatusFull || got.FilledSpots != 2 {
		t.Fatalf("filled=%d status=%s, want 2/full", got.FilledSpots, got.Status)
	}

	env.ledger.SetBalance("u3", 50)
	team3 := env.createTeam(t, "u3", players)
	_, err := env.join(t, c.ID, "u3", team3)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("third join err = %v, want ErrStateConflict", err)
	}
	balance, _ := env.ledger.Balance(context.Background(), "u3")
	if balance != 50 {
		t.Fatalf("rejected join debited fee: balance = %d", balance)
	}
}

func TestJoinContestRejectsSecondEntryBySameUser(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)
	team := env.createTeam(t, "u1", players)
	c := env.createContest(t, 5, 10, 100)
	env.ledger.SetBalance("u1", 100)

	if _, err := env.join(t, c.ID, "u1", team); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, err := env.join(t, c.ID, "u1", team)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("second join err = %v, want ErrStateConflict", err)
	}

	balance, _ := env.ledger.Balance(context.Background(), "u1")
	if balance != 90 {
		t.Fatalf("duplicate join changed balance: %d", balance)
	}
	got, _ := env.contests.GetContest(context.Background(), c.ID)
	if got.FilledSpots != 1 {
		t.Fatalf("duplicate join changed filled spots: %d", got.FilledSpots)
	}
}

func TestJoinContestInsufficientBalanceLeavesContestUntouched(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)
	team := env.createTeam(t, "u1", players)
	c := env.createContest(t, 3, 10, 100)
	env.ledger.SetBalance("u1", 5)

	_, err := env.join(t, c.ID, "u1", team)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	got, _ := env.contests.GetContest(context.Background(), c.ID)
	if got.FilledSpots != 0 {
		t.Fatalf("failed debit mutated filled spots: %d", got.FilledSpots)
	}
	balance, _ := env.ledger.Balance(context.Background(), "u1")
	if balance != 5 {
		t.Fatalf("balance = %d, want 5", balance)
	}
}

func TestJoinContestRejectsForeignTeam(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)
	team := env.createTeam(t, "u1", players)
	c := env.createContest(t, 3, 10, 100)
	env.ledger.SetBalance("u2", 50)

	_, err := env.join(t, c.ID, "u2", team)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestJoinContestRefundsWhenCommitRejected(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)
	team := env.createTeam(t, "u1", players)
	c := env.createContest(t, 3, 10, 100)
	env.ledger.SetBalance("u1", 50)

	// Fail the commit after the debit by making the entry id collide.
	if _, err := env.contestRepo.AddEntry(context.Background(), contest.Entry{
		ID:        "1", // the first value the entry counter will mint
		ContestID: c.ID,
		UserID:    "u9",
	}); err != nil {
		t.Fatalf("pre-seed colliding entry: %v", err)
	}

	_, err := env.join(t, c.ID, "u1", team)
	if err == nil {
		t.Fatal("expected join to fail on entry collision")
	}

	balance, _ := env.ledger.Balance(context.Background(), "u1")
	if balance != 50 {
		t.Fatalf("debit was not refunded: balance = %d", balance)
	}
}

func TestCancelContestRefundsEveryEntry(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)
	c := env.createContest(t, 5, 10, 100)

	for i := 1; i <= 3; i++ {
		userID := fmt.Sprintf("u%d", i)
		env.ledger.SetBalance(userID, 10)
		team := env.createTeam(t, userID, players)
		if _, err := env.join(t, c.ID, userID, team); err != nil {
			t.Fatalf("join %s: %v", userID, err)
		}
	}

	if err := env.contests.CancelContest(context.Background(), c.ID); err != nil {
		t.Fatalf("CancelContest: %v", err)
	}

	got, _ := env.contests.GetContest(context.Background(), c.ID)
	if got.Status != contest.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}
	for i := 1; i <= 3; i++ {
		userID := fmt.Sprintf("u%d", i)
		balance, _ := env.ledger.Balance(context.Background(), userID)
		if balance != 10 {
			t.Fatalf("user %s balance = %d, want 10", userID, balance)
		}

		transactions, err := env.txRepo.ListByUser(context.Background(), userID)
		if err != nil {
			t.Fatalf("list transactions for %s: %v", userID, err)
		}
		var entries, refunds int
		for _, tx := range transactions {
			switch tx.Type {
			case reward.TxContestEntry:
				entries++
			case reward.TxRefund:
				refunds++
			}
		}
		if entries != 1 || refunds != 1 {
			t.Fatalf("user %s transactions: %d entry / %d refund, want 1 / 1", userID, entries, refunds)
		}
	}

	// Cancelled is terminal for joins.
	env.ledger.SetBalance("u4", 50)
	team4 := env.createTeam(t, "u4", players)
	if _, err := env.join(t, c.ID, "u4", team4); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("join after cancel err = %v, want ErrStateConflict", err)
	}
}

func TestCancelContestRejectsLiveContest(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlayers(t, 11, 8)
	c := env.createContest(t, 3, 10, 100)

	if err := env.contests.MarkLive(context.Background(), c.ID); err != nil {
		t.Fatalf("MarkLive: %v", err)
	}
	if err := env.contests.CancelContest(context.Background(), c.ID); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("cancel live err = %v, want ErrStateConflict", err)
	}
}

func TestPromoteDueContestsFlipsStartedContests(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlayers(t, 11, 8)
	c := env.createContest(t, 3, 10, 100)

	// Before kickoff nothing is due.
	promoted, err := env.contests.PromoteDueContests(context.Background())
	if err != nil {
		t.Fatalf("PromoteDueContests: %v", err)
	}
	if promoted != 0 {
		t.Fatalf("promoted = %d, want 0 before kickoff", promoted)
	}

	env.now = env.now.Add(3 * time.Hour)
	promoted, err = env.contests.PromoteDueContests(context.Background())
	if err != nil {
		t.Fatalf("PromoteDueContests after kickoff: %v", err)
	}
	if promoted != 1 {
		t.Fatalf("promoted = %d, want 1", promoted)
	}

	got, err := env.contests.GetContest(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetContest: %v", err)
	}
	if got.Status != contest.StatusLive {
		t.Fatalf("status = %s, want live", got.Status)
	}

	// Rerun is a no-op; live contests are not listed again.
	promoted, err = env.contests.PromoteDueContests(context.Background())
	if err != nil {
		t.Fatalf("PromoteDueContests rerun: %v", err)
	}
	if promoted != 0 {
		t.Fatalf("promoted = %d on rerun, want 0", promoted)
	}
}

func TestListOpenContestsExcludesOtherStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayers(t, 11, 8)

	open := env.createContest(t, 3, 10, 100)
	live := env.createContest(t, 3, 10, 100)
	if err := env.contests.MarkLive(ctx, live.ID); err != nil {
		t.Fatalf("MarkLive: %v", err)
	}

	contests, err := env.contests.ListOpenContests(ctx)
	if err != nil {
		t.Fatalf("ListOpenContests: %v", err)
	}
	if len(contests) != 1 || contests[0].ID != open.ID {
		t.Fatalf("open contests = %+v, want only %s", contests, open.ID)
	}
}
