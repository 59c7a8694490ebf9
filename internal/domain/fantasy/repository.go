package fantasy

import "context"

// Repository persists fantasy teams and the per-owner team index.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Team, error)
	Create(ctx context.Context, team Team) error
	UpdateTotalPoints(ctx context.Context, teamID string, points float64) error
}
