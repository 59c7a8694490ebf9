package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/platform/sequence"
)

// CreateTeamInput is the incoming payload for team creation.
type CreateTeamInput struct {
	OwnerID       string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
}

type TeamService struct {
	teamRepo   fantasy.Repository
	playerRepo catalog.PlayerRepository
	rules      fantasy.Rules
	seq        sequence.Source
	logger     *slog.Logger
	now        func() time.Time
}

func NewTeamService(
	teamRepo fantasy.Repository,
	playerRepo catalog.PlayerRepository,
	rules fantasy.Rules,
	seq sequence.Source,
	logger *slog.Logger,
) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TeamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		rules:      rules,
		seq:        seq,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTeam validates the roster against the composition rules and the
// salary cap window, then persists it. The roster is immutable afterwards.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.CreateTeam")
	defer span.End()

	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.Name = strings.TrimSpace(input.Name)
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	input.ViceCaptainID = strings.TrimSpace(input.ViceCaptainID)

	if input.OwnerID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return fantasy.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.CaptainID == "" || input.ViceCaptainID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: captain and vice-captain are required", ErrInvalidInput)
	}

	if err := fantasy.ValidateRoster(input.PlayerIDs, input.CaptainID, input.ViceCaptainID, s.rules); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	// Unresolved player ids count as zero cost; the cap check still runs on
	// whatever the catalog can price.
	var totalPrice int64
	for _, playerID := range input.PlayerIDs {
		p, found, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return fantasy.Team{}, fmt.Errorf("get player %s: %w", playerID, err)
		}
		if !found {
			s.logger.DebugContext(ctx, "player not in catalog, priced at zero", "player_id", playerID)
			continue
		}
		totalPrice += p.Price
	}

	if err := fantasy.ValidatePrice(totalPrice, s.rules); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	teamID, err := nextID(ctx, s.seq, counterFantasyTeam)
	if err != nil {
		return fantasy.Team{}, err
	}

	team := fantasy.Team{
		ID:            teamID,
		OwnerID:       input.OwnerID,
		Name:          input.Name,
		CaptainID:     input.CaptainID,
		ViceCaptainID: input.ViceCaptainID,
		PlayerIDs:     append([]string(nil), input.PlayerIDs...),
		TotalPrice:    totalPrice,
		CreatedAt:     s.now().UTC(),
	}
	if err := team.ValidateBasic(); err != nil {
		return fantasy.Team{}, fmt.Errorf("validate team: %w", err)
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return fantasy.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "fantasy team created",
		"team_id", team.ID,
		"owner_id", team.OwnerID,
		"total_price", team.TotalPrice,
	)

	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.GetTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	team, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return fantasy.Team{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	return team, nil
}

func (s *TeamService) ListTeamsByOwner(ctx context.Context, ownerID string) ([]fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.ListTeamsByOwner")
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}
