package contest

import (
	"errors"
	"fmt"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/fantasy"
)

var (
	ErrNotOpen           = errors.New("contest is not open for entries")
	ErrFull              = errors.New("contest is full")
	ErrAlreadyJoined     = errors.New("user already joined this contest")
	ErrInvalidTransition = errors.New("invalid contest status transition")
	ErrNoEntries         = errors.New("contest has no entries")
)

type Type string

const (
	TypeHeadToHead     Type = "head_to_head"
	TypeMultiPlayer    Type = "multi_player"
	TypeGuaranteed     Type = "guaranteed"
	TypeWinnerTakesAll Type = "winner_takes_all"
)

var AllTypes = map[Type]struct{}{
	TypeHeadToHead:     {},
	TypeMultiPlayer:    {},
	TypeGuaranteed:     {},
	TypeWinnerTakesAll: {},
}

type Status string

const (
	StatusOpen      Status = "open"
	StatusFull      Status = "full"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions encodes the monotonic lifecycle:
// Open -> Full -> Live -> Completed, with Open|Full -> Cancelled as the escape.
// Completed and Cancelled are terminal.
var allowedTransitions = map[Status]map[Status]struct{}{
	StatusOpen: {
		StatusFull:      {},
		StatusLive:      {},
		StatusCancelled: {},
	},
	StatusFull: {
		StatusLive:      {},
		StatusCancelled: {},
	},
	StatusLive: {
		StatusCompleted: {},
	},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// Contest is a paid competition attached to one real-world match.
type Contest struct {
	ID          string
	Name        string
	MatchID     string
	EntryFee    int64
	TotalSpots  int
	FilledSpots int
	PrizePool   int64
	Type        Type
	Status      Status
	CreatedAt   time.Time
	StartTime   time.Time
}

func (c Contest) ValidateBasic() error {
	if c.ID == "" {
		return fmt.Errorf("contest id is required")
	}
	if c.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if c.TotalSpots < 1 {
		return fmt.Errorf("total spots must be at least 1")
	}
	if c.FilledSpots < 0 || c.FilledSpots > c.TotalSpots {
		return fmt.Errorf("filled spots must stay within [0, %d]", c.TotalSpots)
	}
	if c.EntryFee < 0 {
		return fmt.Errorf("entry fee cannot be negative")
	}
	if _, ok := AllTypes[c.Type]; !ok {
		return fmt.Errorf("unknown contest type %q", c.Type)
	}

	return nil
}

// Entry is one user's participation record, wrapping a team snapshot.
// Rank and Prize stay nil until finalization assigns them.
type Entry struct {
	ID        string
	ContestID string
	UserID    string
	Team      fantasy.Team
	Points    float64
	Rank      *int
	Prize     *int64
	CreatedAt time.Time
}
