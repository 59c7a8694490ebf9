package memory

import (
	"context"
	"sync"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
)

type TournamentRepository struct {
	mu    sync.RWMutex
	byID  map[string]catalog.Tournament
	order []string
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{byID: make(map[string]catalog.Tournament)}
}

func (r *TournamentRepository) GetByID(_ context.Context, id string) (catalog.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	return t, ok, nil
}

func (r *TournamentRepository) List(_ context.Context) ([]catalog.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Tournament, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *TournamentRepository) ListByStatus(_ context.Context, status catalog.TournamentStatus) ([]catalog.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Tournament, 0)
	for _, id := range r.order {
		if t := r.byID[id]; t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TournamentRepository) Upsert(_ context.Context, t catalog.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
	return nil
}

type TeamRepository struct {
	mu    sync.RWMutex
	byID  map[string]catalog.Team
	order []string
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{byID: make(map[string]catalog.Team)}
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (catalog.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	return t, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]catalog.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, t catalog.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
	return nil
}

type PlayerRepository struct {
	mu     sync.RWMutex
	byID   map[string]catalog.Player
	byTeam map[string][]string
	order  []string
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byID:   make(map[string]catalog.Player),
		byTeam: make(map[string][]string),
	}
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (catalog.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]catalog.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byTeam[teamID]
	out := make([]catalog.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]catalog.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, p catalog.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, existed := r.byID[p.ID]
	if !existed {
		r.order = append(r.order, p.ID)
		r.byTeam[p.TeamID] = append(r.byTeam[p.TeamID], p.ID)
	} else if prev.TeamID != p.TeamID {
		r.byTeam[prev.TeamID] = removeString(r.byTeam[prev.TeamID], p.ID)
		r.byTeam[p.TeamID] = append(r.byTeam[p.TeamID], p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

type MatchRepository struct {
	mu    sync.RWMutex
	byID  map[string]catalog.Match
	order []string
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{byID: make(map[string]catalog.Match)}
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (catalog.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	return m, ok, nil
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]catalog.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Match, 0)
	for _, id := range r.order {
		if m := r.byID[id]; m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MatchRepository) ListByStatus(_ context.Context, status catalog.MatchStatus) ([]catalog.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Match, 0)
	for _, id := range r.order {
		if m := r.byID[id]; m.Status == status {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MatchRepository) Upsert(_ context.Context, m catalog.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.byID[m.ID] = m
	return nil
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}
