package catalog

import (
	"fmt"
	"time"
)

type Sport string

const (
	SportCricket    Sport = "cricket"
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportTennis     Sport = "tennis"
)

var AllSports = map[Sport]struct{}{
	SportCricket:    {},
	SportFootball:   {},
	SportBasketball: {},
	SportTennis:     {},
}

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentLive      TournamentStatus = "live"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCancelled TournamentStatus = "cancelled"
)

// Tournament groups matches of one sport inside a date window.
type Tournament struct {
	ID        string
	Name      string
	Sport     Sport
	StartTime time.Time
	EndTime   time.Time
	Status    TournamentStatus
}

type Team struct {
	ID    string
	Name  string
	Short string
}

type Position string

const (
	PositionBatsman      Position = "batsman"
	PositionBowler       Position = "bowler"
	PositionAllRounder   Position = "all_rounder"
	PositionWicketKeeper Position = "wicket_keeper"
	PositionForward      Position = "forward"
	PositionMidfielder   Position = "midfielder"
	PositionDefender     Position = "defender"
	PositionGoalkeeper   Position = "goalkeeper"
	PositionGuard        Position = "guard"
	PositionCenter       Position = "center"
)

// Player is a real-world athlete listable in fantasy rosters.
// Price is denominated in platform tokens.
type Player struct {
	ID        string
	Name      string
	TeamID    string
	Position  Position
	Points    float64
	Price     int64
	IsPlaying bool
}

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

type MatchScore struct {
	Team1Score string
	Team2Score string
}

// Match is one real-world fixture contests attach to.
type Match struct {
	ID           string
	TournamentID string
	Team1ID      string
	Team2ID      string
	StartTime    time.Time
	Status       MatchStatus
	Score        *MatchScore
}

func (m Match) ValidateBasic() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.TournamentID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if m.Team1ID == "" || m.Team2ID == "" {
		return fmt.Errorf("both team ids are required")
	}
	if m.Team1ID == m.Team2ID {
		return fmt.Errorf("a team cannot play itself")
	}

	return nil
}
