package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SequenceSource hands out durable per-name counters backed by a single
// row per counter. The upsert-returning form makes Next safe under
// concurrent callers without an explicit transaction.
type SequenceSource struct {
	db *sqlx.DB
}

func NewSequenceSource(db *sqlx.DB) *SequenceSource {
	return &SequenceSource{db: db}
}

func (s *SequenceSource) Next(ctx context.Context, name string) (uint64, error) {
	const query = `
INSERT INTO counters (name, value)
VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
RETURNING value`

	var value uint64
	if err := s.db.GetContext(ctx, &value, query, name); err != nil {
		return 0, fmt.Errorf("next counter %s: %w", name, err)
	}

	return value, nil
}
