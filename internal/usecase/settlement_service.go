package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/fanarena/contest-engine/internal/domain/contest"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
)

type SettlementService struct {
	contestRepo contest.Repository
	teamRepo    fantasy.Repository
	scorer      *ScoringService
	logger      *slog.Logger

	// finalizeMu keeps concurrent finalize calls for the same process from
	// interleaving rank assignment.
	finalizeMu sync.Mutex
}

func NewSettlementService(
	contestRepo contest.Repository,
	teamRepo fantasy.Repository,
	scorer *ScoringService,
	logger *slog.Logger,
) *SettlementService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SettlementService{
		contestRepo: contestRepo,
		teamRepo:    teamRepo,
		scorer:      scorer,
		logger:      logger,
	}
}

// FinalizeContest scores every entry, assigns dense 1-based ranks ordered
// by points descending, and completes the contest. Entries tied on points
// keep their join order.
func (s *SettlementService) FinalizeContest(ctx context.Context, contestID string) ([]contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "SettlementService.FinalizeContest")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	s.finalizeMu.Lock()
	defer s.finalizeMu.Unlock()

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: contest %s", ErrNotFound, contestID)
	}
	if c.Status != contest.StatusLive {
		return nil, fmt.Errorf("%w: contest %s is %s, expected live", ErrStateConflict, c.ID, c.Status)
	}

	entries, err := s.contestRepo.ListEntriesByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrStateConflict, contest.ErrNoEntries)
	}

	for i := range entries {
		points, err := s.scorer.TeamPointsForRoster(ctx, entries[i].Team, c.MatchID)
		if err != nil {
			return nil, fmt.Errorf("score entry %s: %w", entries[i].ID, err)
		}
		entries[i].Points = points

		if err := s.contestRepo.UpdateEntryPoints(ctx, entries[i].ID, points); err != nil {
			return nil, fmt.Errorf("update entry points: %w", err)
		}
		if err := s.teamRepo.UpdateTotalPoints(ctx, entries[i].Team.ID, points); err != nil {
			return nil, fmt.Errorf("update team points: %w", err)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})

	for i := range entries {
		rank := i + 1
		entries[i].Rank = &rank
		if err := s.contestRepo.UpdateEntryResult(ctx, entries[i].ID, rank, nil); err != nil {
			return nil, fmt.Errorf("update entry rank: %w", err)
		}
	}

	if err := s.contestRepo.UpdateStatus(ctx, contestID, contest.StatusCompleted); err != nil {
		return nil, fmt.Errorf("complete contest: %w", err)
	}

	s.logger.InfoContext(ctx, "contest finalized",
		"contest_id", contestID,
		"ranked_entries", len(entries),
	)

	return entries, nil
}

// SyncEntryPoints recomputes and stores every entry's points for a live
// contest so leaderboard reads stay current between stat ingests. Ranks are
// untouched; only finalization assigns them.
func (s *SettlementService) SyncEntryPoints(ctx context.Context, contestID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "SettlementService.SyncEntryPoints")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return 0, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return 0, fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("%w: contest %s", ErrNotFound, contestID)
	}
	if c.Status != contest.StatusLive {
		return 0, fmt.Errorf("%w: contest %s is %s, expected live", ErrStateConflict, c.ID, c.Status)
	}

	entries, err := s.contestRepo.ListEntriesByContest(ctx, contestID)
	if err != nil {
		return 0, fmt.Errorf("list entries: %w", err)
	}

	synced := 0
	for _, entry := range entries {
		points, err := s.scorer.TeamPointsForRoster(ctx, entry.Team, c.MatchID)
		if err != nil {
			return synced, fmt.Errorf("score entry %s: %w", entry.ID, err)
		}
		if err := s.contestRepo.UpdateEntryPoints(ctx, entry.ID, points); err != nil {
			return synced, fmt.Errorf("update entry points: %w", err)
		}
		synced++
	}

	return synced, nil
}

// Leaderboard returns the entries of a contest ordered by points
// descending, with join order as the tie-breaker. Works on live contests
// before finalization as well.
func (s *SettlementService) Leaderboard(ctx context.Context, contestID string) ([]contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "SettlementService.Leaderboard")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	if _, found, err := s.contestRepo.GetByID(ctx, contestID); err != nil {
		return nil, fmt.Errorf("get contest: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: contest %s", ErrNotFound, contestID)
	}

	entries, err := s.contestRepo.ListEntriesByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})

	return entries, nil
}
