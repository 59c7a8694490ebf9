package scoring

import (
	"context"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
)

// ScoreRepository stores per (player, match) scores. Upsert replaces the
// whole record for the key.
type ScoreRepository interface {
	Get(ctx context.Context, playerID, matchID string) (PlayerScore, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]PlayerScore, error)
	Upsert(ctx context.Context, score PlayerScore) error
}

// RuleRepository exposes the queryable scoring rule table.
type RuleRepository interface {
	ListBySport(ctx context.Context, sport catalog.Sport) ([]Rule, error)
	List(ctx context.Context) ([]Rule, error)
	Put(ctx context.Context, rule Rule) error
}
