package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fanarena/contest-engine/internal/domain/fantasy"
)

type FantasyTeamRepository struct {
	mu      sync.RWMutex
	byID    map[string]fantasy.Team
	byOwner map[string][]string
}

func NewFantasyTeamRepository() *FantasyTeamRepository {
	return &FantasyTeamRepository{
		byID:    make(map[string]fantasy.Team),
		byOwner: make(map[string][]string),
	}
}

func (r *FantasyTeamRepository) GetByID(_ context.Context, teamID string) (fantasy.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[teamID]
	return cloneTeam(t), ok, nil
}

func (r *FantasyTeamRepository) ListByOwner(_ context.Context, ownerID string) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerID]
	out := make([]fantasy.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneTeam(r.byID[id]))
	}
	return out, nil
}

func (r *FantasyTeamRepository) Create(_ context.Context, team fantasy.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[team.ID]; ok {
		return fmt.Errorf("team %s already exists", team.ID)
	}
	r.byID[team.ID] = cloneTeam(team)
	r.byOwner[team.OwnerID] = append(r.byOwner[team.OwnerID], team.ID)
	return nil
}

func (r *FantasyTeamRepository) UpdateTotalPoints(_ context.Context, teamID string, points float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[teamID]
	if !ok {
		return fmt.Errorf("team %s not found", teamID)
	}
	t.TotalPoints = points
	r.byID[teamID] = t
	return nil
}

func cloneTeam(t fantasy.Team) fantasy.Team {
	out := t
	out.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	return out
}
