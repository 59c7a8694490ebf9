package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/domain/scoring"
)

// RecordPlayerStatsInput carries one player's stat line for one match.
type RecordPlayerStatsInput struct {
	PlayerID string
	MatchID  string
	Stats    scoring.Stats
}

type ScoringService struct {
	scoreRepo scoring.ScoreRepository
	ruleRepo  scoring.RuleRepository
	teamRepo  fantasy.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewScoringService(
	scoreRepo scoring.ScoreRepository,
	ruleRepo scoring.RuleRepository,
	teamRepo fantasy.Repository,
	logger *slog.Logger,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoringService{
		scoreRepo: scoreRepo,
		ruleRepo:  ruleRepo,
		teamRepo:  teamRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordPlayerStats computes and stores the points for one (player, match)
// pair. Re-recording replaces the previous stat line and recomputes points
// from scratch, so repeated feeds never accumulate.
func (s *ScoringService) RecordPlayerStats(ctx context.Context, input RecordPlayerStatsInput) (scoring.PlayerScore, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.RecordPlayerStats")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.MatchID = strings.TrimSpace(input.MatchID)

	if input.PlayerID == "" {
		return scoring.PlayerScore{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.MatchID == "" {
		return scoring.PlayerScore{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	score := scoring.PlayerScore{
		PlayerID:  input.PlayerID,
		MatchID:   input.MatchID,
		Points:    scoring.CalculatePoints(input.Stats),
		Stats:     input.Stats,
		UpdatedAt: s.now().UTC(),
	}

	if err := s.scoreRepo.Upsert(ctx, score); err != nil {
		return scoring.PlayerScore{}, fmt.Errorf("upsert player score: %w", err)
	}

	s.logger.DebugContext(ctx, "player stats recorded",
		"player_id", score.PlayerID,
		"match_id", score.MatchID,
		"points", score.Points,
	)

	return score, nil
}

func (s *ScoringService) GetPlayerScore(ctx context.Context, playerID, matchID string) (scoring.PlayerScore, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.GetPlayerScore")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	matchID = strings.TrimSpace(matchID)
	if playerID == "" || matchID == "" {
		return scoring.PlayerScore{}, fmt.Errorf("%w: player id and match id are required", ErrInvalidInput)
	}

	score, found, err := s.scoreRepo.Get(ctx, playerID, matchID)
	if err != nil {
		return scoring.PlayerScore{}, fmt.Errorf("get player score: %w", err)
	}
	if !found {
		return scoring.PlayerScore{}, fmt.Errorf("%w: no score for player %s in match %s", ErrNotFound, playerID, matchID)
	}

	return score, nil
}

// TeamPoints sums a roster's match points with the captain doubled and the
// vice-captain at one and a half. Players without a recorded score
// contribute zero.
func (s *ScoringService) TeamPoints(ctx context.Context, teamID, matchID string) (float64, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.TeamPoints")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	matchID = strings.TrimSpace(matchID)
	if teamID == "" || matchID == "" {
		return 0, fmt.Errorf("%w: team id and match id are required", ErrInvalidInput)
	}

	team, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return 0, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	return s.TeamPointsForRoster(ctx, team, matchID)
}

// TeamPointsForRoster scores a roster snapshot directly, without a team
// repository lookup. Settlement uses it on entry snapshots.
func (s *ScoringService) TeamPointsForRoster(ctx context.Context, team fantasy.Team, matchID string) (float64, error) {
	var total float64
	for _, playerID := range team.PlayerIDs {
		score, found, err := s.scoreRepo.Get(ctx, playerID, matchID)
		if err != nil {
			return 0, fmt.Errorf("get score for player %s: %w", playerID, err)
		}
		if !found {
			continue
		}

		points := score.Points
		switch playerID {
		case team.CaptainID:
			points *= 2
		case team.ViceCaptainID:
			points *= 1.5
		}
		total += points
	}

	return total, nil
}

// ListMatchScores returns every recorded player score for a match.
func (s *ScoringService) ListMatchScores(ctx context.Context, matchID string) ([]scoring.PlayerScore, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ListMatchScores")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	scores, err := s.scoreRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match scores: %w", err)
	}

	return scores, nil
}

// AddScoringRule upserts one (sport, action) row in the rule table.
func (s *ScoringService) AddScoringRule(ctx context.Context, rule scoring.Rule) error {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.AddScoringRule")
	defer span.End()

	rule.Action = strings.TrimSpace(rule.Action)
	if rule.Action == "" {
		return fmt.Errorf("%w: rule action is required", ErrInvalidInput)
	}
	if _, ok := catalog.AllSports[rule.Sport]; !ok {
		return fmt.Errorf("%w: unknown sport %q", ErrInvalidInput, rule.Sport)
	}

	if err := s.ruleRepo.Put(ctx, rule); err != nil {
		return fmt.Errorf("put scoring rule: %w", err)
	}

	s.logger.InfoContext(ctx, "scoring rule upserted",
		"sport", string(rule.Sport),
		"action", rule.Action,
		"points", rule.Points,
	)

	return nil
}

func (s *ScoringService) ListRules(ctx context.Context, sport catalog.Sport) ([]scoring.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ListRules")
	defer span.End()

	if sport == "" {
		return s.ruleRepo.List(ctx)
	}
	if _, ok := catalog.AllSports[sport]; !ok {
		return nil, fmt.Errorf("%w: unknown sport %q", ErrInvalidInput, sport)
	}

	return s.ruleRepo.ListBySport(ctx, sport)
}
