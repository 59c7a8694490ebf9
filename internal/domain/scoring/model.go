package scoring

import (
	"time"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
)

// Stats is the per-match stat bag for one player. Every field is optional;
// absent fields contribute zero points. Fields from different sports may be
// present at once and all of them count (the feed is trusted to send only
// what applies).
type Stats struct {
	// Cricket
	Runs      *int     `json:"runs,omitempty"`
	Wickets   *int     `json:"wickets,omitempty"`
	Catches   *int     `json:"catches,omitempty"`
	Stumpings *int     `json:"stumpings,omitempty"`
	RunOuts   *int     `json:"run_outs,omitempty"`
	Overs     *float64 `json:"overs,omitempty"`
	Maidens   *int     `json:"maidens,omitempty"`
	Economy   *float64 `json:"economy,omitempty"`

	// Football
	Goals       *int `json:"goals,omitempty"`
	Assists     *int `json:"assists,omitempty"`
	CleanSheets *int `json:"clean_sheets,omitempty"`
	Saves       *int `json:"saves,omitempty"`
	YellowCards *int `json:"yellow_cards,omitempty"`
	RedCards    *int `json:"red_cards,omitempty"`

	// Basketball. Assists above is shared with football: a non-zero assist
	// count picks up both weights.
	Points    *int `json:"points,omitempty"`
	Rebounds  *int `json:"rebounds,omitempty"`
	Blocks    *int `json:"blocks,omitempty"`
	Steals    *int `json:"steals,omitempty"`
	Turnovers *int `json:"turnovers,omitempty"`
}

// PlayerScore is keyed by (player, match). Re-recording stats for the same
// key overwrites the bag and recomputes Points; nothing accumulates.
type PlayerScore struct {
	PlayerID  string
	MatchID   string
	Points    float64
	Stats     Stats
	UpdatedAt time.Time
}

// Rule is a named (sport, action, point value) mapping. The table is
// queryable and extensible for sports not yet wired into the formula;
// CalculatePoints intentionally keeps its own constants.
type Rule struct {
	Sport  catalog.Sport
	Action string
	Points float64
}

func DefaultRules() []Rule {
	return []Rule{
		{Sport: catalog.SportCricket, Action: "run", Points: 1},
		{Sport: catalog.SportCricket, Action: "wicket", Points: 10},
		{Sport: catalog.SportCricket, Action: "catch", Points: 8},
		{Sport: catalog.SportCricket, Action: "stumping", Points: 10},
		{Sport: catalog.SportCricket, Action: "run_out", Points: 6},
		{Sport: catalog.SportCricket, Action: "maiden_over", Points: 4},
		{Sport: catalog.SportCricket, Action: "economy_bonus", Points: 2},

		{Sport: catalog.SportFootball, Action: "goal", Points: 6},
		{Sport: catalog.SportFootball, Action: "assist", Points: 3},
		{Sport: catalog.SportFootball, Action: "clean_sheet", Points: 4},
		{Sport: catalog.SportFootball, Action: "save", Points: 1},
		{Sport: catalog.SportFootball, Action: "yellow_card", Points: -1},
		{Sport: catalog.SportFootball, Action: "red_card", Points: -3},

		{Sport: catalog.SportBasketball, Action: "point", Points: 1},
		{Sport: catalog.SportBasketball, Action: "rebound", Points: 1.2},
		{Sport: catalog.SportBasketball, Action: "assist", Points: 1.5},
		{Sport: catalog.SportBasketball, Action: "block", Points: 2},
		{Sport: catalog.SportBasketball, Action: "steal", Points: 2},
		{Sport: catalog.SportBasketball, Action: "turnover", Points: -1},
	}
}
