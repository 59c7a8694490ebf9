package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/contest"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/infrastructure/repository/memory"
	"github.com/fanarena/contest-engine/internal/infrastructure/wallet"
	"github.com/fanarena/contest-engine/internal/platform/cache"
	"github.com/fanarena/contest-engine/internal/platform/sequence"
)

// testEnv wires every service against in-memory collaborators with a
// frozen clock.
type testEnv struct {
	teamRepo    *memory.FantasyTeamRepository
	playerRepo  *memory.PlayerRepository
	matchRepo   *memory.MatchRepository
	contestRepo *memory.ContestRepository
	poolRepo    *memory.PrizePoolRepository
	rewardRepo  *memory.UserRewardRepository
	txRepo      *memory.TransactionRepository
	scoreRepo   *memory.ScoreRepository
	ledger      *wallet.MemoryLedger

	teams      *TeamService
	contests   *ContestService
	scoring    *ScoringService
	settlement *SettlementService
	rewards    *RewardService
	catalog    *CatalogService

	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		teamRepo:    memory.NewFantasyTeamRepository(),
		playerRepo:  memory.NewPlayerRepository(),
		matchRepo:   memory.NewMatchRepository(),
		contestRepo: memory.NewContestRepository(),
		poolRepo:    memory.NewPrizePoolRepository(),
		rewardRepo:  memory.NewUserRewardRepository(),
		txRepo:      memory.NewTransactionRepository(),
		scoreRepo:   memory.NewScoreRepository(),
		ledger:      wallet.NewMemoryLedger(),
		now:         time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	seq := sequence.NewMemorySource()
	logger := slog.New(slog.DiscardHandler)
	ruleRepo := memory.NewRuleRepository()
	tournamentRepo := memory.NewTournamentRepository()
	teamCatalogRepo := memory.NewTeamRepository()

	env.teams = NewTeamService(env.teamRepo, env.playerRepo, fantasy.DefaultRules(), seq, logger)
	env.teams.now = func() time.Time { return env.now }

	env.contests = NewContestService(env.contestRepo, env.teamRepo, env.matchRepo, env.poolRepo, env.txRepo, env.ledger, seq, logger)
	env.contests.now = func() time.Time { return env.now }

	env.scoring = NewScoringService(env.scoreRepo, ruleRepo, env.teamRepo, logger)
	env.scoring.now = func() time.Time { return env.now }

	env.settlement = NewSettlementService(env.contestRepo, env.teamRepo, env.scoring, logger)

	env.rewards = NewRewardService(env.rewardRepo, env.poolRepo, env.contestRepo, env.txRepo, env.ledger, seq, logger)
	env.rewards.now = func() time.Time { return env.now }

	env.catalog = NewCatalogService(tournamentRepo, teamCatalogRepo, env.playerRepo, env.matchRepo, cache.NewStore(time.Minute), logger)

	seedMatch := catalog.Match{
		ID:           "mt-1",
		TournamentID: "tr-1",
		Team1ID:      "tm-a",
		Team2ID:      "tm-b",
		StartTime:    env.now.Add(2 * time.Hour),
		Status:       catalog.MatchScheduled,
	}
	if err := env.matchRepo.Upsert(context.Background(), seedMatch); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	return env
}

// seedPlayers registers n players priced so that any 11 of them satisfy
// the salary cap window.
func (env *testEnv) seedPlayers(t *testing.T, n int, price int64) []string {
	t.Helper()

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("pl-%02d", i+1)
		p := catalog.Player{
			ID:        id,
			Name:      fmt.Sprintf("Player %02d", i+1),
			TeamID:    "tm-a",
			Position:  catalog.PositionBatsman,
			Price:     price,
			IsPlaying: true,
		}
		if err := env.playerRepo.Upsert(context.Background(), p); err != nil {
			t.Fatalf("seed player %s: %v", id, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func (env *testEnv) createTeam(t *testing.T, ownerID string, playerIDs []string) fantasy.Team {
	t.Helper()

	team, err := env.teams.CreateTeam(context.Background(), CreateTeamInput{
		OwnerID:       ownerID,
		Name:          ownerID + " XI",
		PlayerIDs:     playerIDs,
		CaptainID:     playerIDs[0],
		ViceCaptainID: playerIDs[1],
	})
	if err != nil {
		t.Fatalf("create team for %s: %v", ownerID, err)
	}
	return team
}

func (env *testEnv) createContest(t *testing.T, spots int, fee, pool int64) contest.Contest {
	t.Helper()

	c, err := env.contests.CreateContest(context.Background(), CreateContestInput{
		Name:       "Test Contest",
		MatchID:    "mt-1",
		EntryFee:   fee,
		TotalSpots: spots,
		PrizePool:  pool,
		Type:       contest.TypeMultiPlayer,
	})
	if err != nil {
		t.Fatalf("create contest: %v", err)
	}
	return c
}
