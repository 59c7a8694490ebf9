package fantasy

import (
	"fmt"
	"time"
)

// Team is a user-assembled roster of real players. Player composition is
// immutable after creation; only TotalPoints is recomputed by scoring.
type Team struct {
	ID            string
	OwnerID       string
	Name          string
	CaptainID     string
	ViceCaptainID string
	PlayerIDs     []string
	TotalPrice    int64
	TotalPoints   float64
	CreatedAt     time.Time
}

func (t Team) ValidateBasic() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if len(t.PlayerIDs) == 0 {
		return fmt.Errorf("player ids are required")
	}

	return nil
}

// HasPlayer reports whether playerID is part of the roster.
func (t Team) HasPlayer(playerID string) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
