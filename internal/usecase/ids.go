package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fanarena/contest-engine/internal/platform/sequence"
)

// Counter names shared by services and migrations.
const (
	counterFantasyTeam = "fantasy_team"
	counterContest     = "contest"
	counterEntry       = "contest_entry"
	counterReward      = "user_reward"
	counterTransaction = "transaction"
)

func nextID(ctx context.Context, seq sequence.Source, name string) (string, error) {
	v, err := seq.Next(ctx, name)
	if err != nil {
		return "", fmt.Errorf("next %s id: %w", name, err)
	}
	return strconv.FormatUint(v, 10), nil
}
