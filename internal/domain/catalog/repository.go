package catalog

import "context"

// TournamentRepository persists tournaments for the catalog collaborator.
type TournamentRepository interface {
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
	ListByStatus(ctx context.Context, status TournamentStatus) ([]Tournament, error)
	Upsert(ctx context.Context, tournament Tournament) error
}

type TeamRepository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	Upsert(ctx context.Context, team Team) error
}

// PlayerRepository resolves player records and prices for roster validation.
type PlayerRepository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	List(ctx context.Context) ([]Player, error)
	Upsert(ctx context.Context, player Player) error
}

type MatchRepository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Match, error)
	ListByStatus(ctx context.Context, status MatchStatus) ([]Match, error)
	Upsert(ctx context.Context, match Match) error
}
