package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/platform/cache"
)

// CatalogService manages the sports reference data contests hang off:
// tournaments, teams, players and matches.
type CatalogService struct {
	tournamentRepo catalog.TournamentRepository
	teamRepo       catalog.TeamRepository
	playerRepo     catalog.PlayerRepository
	matchRepo      catalog.MatchRepository
	cache          *cache.Store
	logger         *slog.Logger
}

func NewCatalogService(
	tournamentRepo catalog.TournamentRepository,
	teamRepo catalog.TeamRepository,
	playerRepo catalog.PlayerRepository,
	matchRepo catalog.MatchRepository,
	store *cache.Store,
	logger *slog.Logger,
) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		cache:          store,
		logger:         logger,
	}
}

func (s *CatalogService) UpsertTournament(ctx context.Context, t catalog.Tournament) error {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.UpsertTournament")
	defer span.End()

	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if _, ok := catalog.AllSports[t.Sport]; !ok {
		return fmt.Errorf("%w: unknown sport %q", ErrInvalidInput, t.Sport)
	}
	if !t.EndTime.IsZero() && t.EndTime.Before(t.StartTime) {
		return fmt.Errorf("%w: tournament ends before it starts", ErrInvalidInput)
	}

	if err := s.tournamentRepo.Upsert(ctx, t); err != nil {
		return fmt.Errorf("upsert tournament: %w", err)
	}
	s.cache.DeletePrefix(ctx, "tournaments:")
	return nil
}

func (s *CatalogService) ListTournaments(ctx context.Context, status catalog.TournamentStatus) ([]catalog.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListTournaments")
	defer span.End()

	key := "tournaments:" + string(status)
	out, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		if status == "" {
			return s.tournamentRepo.List(ctx)
		}
		return s.tournamentRepo.ListByStatus(ctx, status)
	})
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	return out.([]catalog.Tournament), nil
}

func (s *CatalogService) UpsertTeam(ctx context.Context, t catalog.Team) error {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.UpsertTeam")
	defer span.End()

	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	if err := s.teamRepo.Upsert(ctx, t); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]catalog.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListTeams")
	defer span.End()

	return s.teamRepo.List(ctx)
}

func (s *CatalogService) UpsertPlayer(ctx context.Context, p catalog.Player) error {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.UpsertPlayer")
	defer span.End()

	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: player price cannot be negative", ErrInvalidInput)
	}
	if p.TeamID != "" {
		if _, found, err := s.teamRepo.GetByID(ctx, p.TeamID); err != nil {
			return fmt.Errorf("get team: %w", err)
		} else if !found {
			return fmt.Errorf("%w: team %s", ErrNotFound, p.TeamID)
		}
	}

	if err := s.playerRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	s.cache.DeletePrefix(ctx, "players:")
	return nil
}

func (s *CatalogService) GetPlayer(ctx context.Context, playerID string) (catalog.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return catalog.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return catalog.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !found {
		return catalog.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	return p, nil
}

func (s *CatalogService) ListPlayers(ctx context.Context, teamID string) ([]catalog.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListPlayers")
	defer span.End()

	key := "players:" + teamID
	out, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		if teamID == "" {
			return s.playerRepo.List(ctx)
		}
		return s.playerRepo.ListByTeam(ctx, teamID)
	})
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return out.([]catalog.Player), nil
}

func (s *CatalogService) UpsertMatch(ctx context.Context, m catalog.Match) error {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.UpsertMatch")
	defer span.End()

	if err := m.ValidateBasic(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, found, err := s.tournamentRepo.GetByID(ctx, m.TournamentID); err != nil {
		return fmt.Errorf("get tournament: %w", err)
	} else if !found {
		return fmt.Errorf("%w: tournament %s", ErrNotFound, m.TournamentID)
	}

	if err := s.matchRepo.Upsert(ctx, m); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}
	return nil
}

func (s *CatalogService) GetMatch(ctx context.Context, matchID string) (catalog.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.GetMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return catalog.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return catalog.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return catalog.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	return m, nil
}

func (s *CatalogService) ListMatches(ctx context.Context, tournamentID string, status catalog.MatchStatus) ([]catalog.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListMatches")
	defer span.End()

	if tournamentID != "" {
		return s.matchRepo.ListByTournament(ctx, tournamentID)
	}
	if status != "" {
		return s.matchRepo.ListByStatus(ctx, status)
	}
	return s.matchRepo.ListByStatus(ctx, catalog.MatchScheduled)
}

// UpdateMatchStatus moves a match through its lifecycle and records the
// final score when completing it.
func (s *CatalogService) UpdateMatchStatus(ctx context.Context, matchID string, status catalog.MatchStatus, score *catalog.MatchScore) error {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.UpdateMatchStatus")
	defer span.End()

	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status == catalog.MatchCompleted || m.Status == catalog.MatchCancelled {
		return fmt.Errorf("%w: match %s is already %s", ErrStateConflict, matchID, m.Status)
	}

	m.Status = status
	if score != nil {
		m.Score = score
	}
	if err := s.matchRepo.Upsert(ctx, m); err != nil {
		return fmt.Errorf("update match: %w", err)
	}

	s.logger.InfoContext(ctx, "match status updated",
		"match_id", matchID,
		"status", status,
	)

	return nil
}
