package app

import (
	"context"
	"fmt"

	"github.com/fanarena/contest-engine/internal/infrastructure/repository/memory"
)

// seedDemoCatalog loads the built-in demo tournaments, teams, players and
// matches into the in-memory catalog. Dev convenience only.
func seedDemoCatalog(
	ctx context.Context,
	tournaments *memory.TournamentRepository,
	teams *memory.TeamRepository,
	players *memory.PlayerRepository,
	matches *memory.MatchRepository,
) error {
	for _, t := range memory.SeedTournaments() {
		if err := tournaments.Upsert(ctx, t); err != nil {
			return fmt.Errorf("seed tournament %s: %w", t.ID, err)
		}
	}
	for _, tm := range memory.SeedTeams() {
		if err := teams.Upsert(ctx, tm); err != nil {
			return fmt.Errorf("seed team %s: %w", tm.ID, err)
		}
	}
	for _, p := range memory.SeedPlayers() {
		if err := players.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}
	for _, m := range memory.SeedMatches() {
		if err := matches.Upsert(ctx, m); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}
	return nil
}
