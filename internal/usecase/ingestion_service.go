package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/scoring"
)

// PlayerMatchStats is one player's stat line as reported by the feed.
type PlayerMatchStats struct {
	PlayerID string        `json:"player_id"`
	Stats    scoring.Stats `json:"stats"`
}

// MatchStats is the feed payload for one match.
type MatchStats struct {
	MatchID string             `json:"match_id"`
	Players []PlayerMatchStats `json:"players"`
}

// StatsFeed abstracts the external scoring feed.
type StatsFeed interface {
	FetchMatchStats(ctx context.Context, matchID string) (MatchStats, error)
	FetchManyMatchStats(ctx context.Context, matchIDs []string) ([]MatchStats, error)
}

type IngestionResult struct {
	Matches        int `json:"matches"`
	RecordedScores int `json:"recorded_scores"`
	Failed         int `json:"failed"`
}

// IngestionService pulls stat lines from the feed and records them through
// the scoring pipeline with a bounded worker pool.
type IngestionService struct {
	feed       StatsFeed
	scoring    *ScoringService
	matchRepo  catalog.MatchRepository
	maxWorkers int
	logger     *slog.Logger
}

func NewIngestionService(
	feed StatsFeed,
	scoring *ScoringService,
	matchRepo catalog.MatchRepository,
	maxWorkers int,
	logger *slog.Logger,
) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = 8
	}

	return &IngestionService{
		feed:       feed,
		scoring:    scoring,
		matchRepo:  matchRepo,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// IngestMatch pulls one match's stat lines and records them. Safe to rerun;
// re-recorded lines replace the previous ones.
func (s *IngestionService) IngestMatch(ctx context.Context, matchID string) (IngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestMatch")
	defer span.End()

	if s.feed == nil {
		return IngestionResult{}, fmt.Errorf("%w: stats feed is not configured", ErrDependencyUnavailable)
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return IngestionResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	stats, err := s.feed.FetchMatchStats(ctx, matchID)
	if err != nil {
		return IngestionResult{}, fmt.Errorf("fetch match stats: %w", err)
	}

	result := IngestionResult{Matches: 1}
	recorded, failed := s.recordLines(ctx, stats)
	result.RecordedScores += recorded
	result.Failed += failed

	return result, nil
}

// IngestLiveMatches syncs every live match in one pass.
func (s *IngestionService) IngestLiveMatches(ctx context.Context) (IngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.IngestLiveMatches")
	defer span.End()

	if s.feed == nil {
		return IngestionResult{}, fmt.Errorf("%w: stats feed is not configured", ErrDependencyUnavailable)
	}
	matches, err := s.matchRepo.ListByStatus(ctx, catalog.MatchLive)
	if err != nil {
		return IngestionResult{}, fmt.Errorf("list live matches: %w", err)
	}
	if len(matches) == 0 {
		return IngestionResult{}, nil
	}

	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}

	batches, err := s.feed.FetchManyMatchStats(ctx, matchIDs)
	if err != nil {
		return IngestionResult{}, fmt.Errorf("fetch live match stats: %w", err)
	}

	result := IngestionResult{Matches: len(batches)}
	for _, stats := range batches {
		recorded, failed := s.recordLines(ctx, stats)
		result.RecordedScores += recorded
		result.Failed += failed
	}

	s.logger.InfoContext(ctx, "live matches ingested",
		"matches", result.Matches,
		"recorded_scores", result.RecordedScores,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *IngestionService) recordLines(ctx context.Context, stats MatchStats) (recorded, failed int) {
	workerCount := s.maxWorkers
	if len(stats.Players) < workerCount {
		workerCount = len(stats.Players)
	}
	if workerCount < 1 {
		return 0, 0
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		s.logger.ErrorContext(ctx, "create ingestion worker pool", "error", err)
		return 0, len(stats.Players)
	}
	defer pool.Release()

	var mu sync.Mutex
	var workers sync.WaitGroup
	for _, line := range stats.Players {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			_, recordErr := s.scoring.RecordPlayerStats(ctx, RecordPlayerStatsInput{
				PlayerID: line.PlayerID,
				MatchID:  stats.MatchID,
				Stats:    line.Stats,
			})

			mu.Lock()
			if recordErr != nil {
				failed++
			} else {
				recorded++
			}
			mu.Unlock()

			if recordErr != nil {
				s.logger.WarnContext(ctx, "record stat line failed",
					"player_id", line.PlayerID,
					"match_id", stats.MatchID,
					"error", recordErr,
				)
			}
		}); err != nil {
			workers.Done()
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}
	workers.Wait()

	return recorded, failed
}
