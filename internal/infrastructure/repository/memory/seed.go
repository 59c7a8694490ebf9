package memory

import (
	"time"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
)

const (
	TournamentIDT20League  = "t20-blast-2026"
	TournamentIDPremierCup = "premier-cup-2026"
)

func SeedTournaments() []catalog.Tournament {
	return []catalog.Tournament{
		{
			ID:        TournamentIDT20League,
			Name:      "T20 Blast 2026",
			Sport:     catalog.SportCricket,
			StartTime: time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 7, 20, 22, 0, 0, 0, time.UTC),
			Status:    catalog.TournamentUpcoming,
		},
		{
			ID:        TournamentIDPremierCup,
			Name:      "Premier Cup 2026",
			Sport:     catalog.SportFootball,
			StartTime: time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 9, 30, 22, 0, 0, 0, time.UTC),
			Status:    catalog.TournamentUpcoming,
		},
	}
}

func SeedTeams() []catalog.Team {
	return []catalog.Team{
		{ID: "tm-strikers", Name: "Southern Strikers", Short: "STR"},
		{ID: "tm-royals", Name: "River Royals", Short: "ROY"},
		{ID: "tm-united", Name: "Harbour United", Short: "HBU"},
		{ID: "tm-rovers", Name: "Valley Rovers", Short: "VRV"},
	}
}

func SeedPlayers() []catalog.Player {
	return []catalog.Player{
		{ID: "pl-str-01", TeamID: "tm-strikers", Name: "Arjun Mehta", Position: catalog.PositionBatsman, Price: 10, IsPlaying: true},
		{ID: "pl-str-02", TeamID: "tm-strikers", Name: "Kyle Barnett", Position: catalog.PositionBatsman, Price: 9, IsPlaying: true},
		{ID: "pl-str-03", TeamID: "tm-strikers", Name: "Dev Sharma", Position: catalog.PositionWicketKeeper, Price: 8, IsPlaying: true},
		{ID: "pl-str-04", TeamID: "tm-strikers", Name: "Lungi Masondo", Position: catalog.PositionBowler, Price: 9, IsPlaying: true},
		{ID: "pl-str-05", TeamID: "tm-strikers", Name: "Tom Whitfield", Position: catalog.PositionAllRounder, Price: 10, IsPlaying: true},
		{ID: "pl-str-06", TeamID: "tm-strikers", Name: "Ravi Patel", Position: catalog.PositionBowler, Price: 7, IsPlaying: true},
		{ID: "pl-roy-01", TeamID: "tm-royals", Name: "Faheem Qureshi", Position: catalog.PositionBatsman, Price: 9, IsPlaying: true},
		{ID: "pl-roy-02", TeamID: "tm-royals", Name: "Josh Calloway", Position: catalog.PositionBatsman, Price: 8, IsPlaying: true},
		{ID: "pl-roy-03", TeamID: "tm-royals", Name: "Nitin Rao", Position: catalog.PositionWicketKeeper, Price: 7, IsPlaying: true},
		{ID: "pl-roy-04", TeamID: "tm-royals", Name: "Shane Okafor", Position: catalog.PositionBowler, Price: 8, IsPlaying: true},
		{ID: "pl-roy-05", TeamID: "tm-royals", Name: "Ben Travers", Position: catalog.PositionAllRounder, Price: 9, IsPlaying: true},
		{ID: "pl-roy-06", TeamID: "tm-royals", Name: "Imran Vaz", Position: catalog.PositionBowler, Price: 6, IsPlaying: true},
		{ID: "pl-hbu-01", TeamID: "tm-united", Name: "Carlos Mendes", Position: catalog.PositionForward, Price: 10, IsPlaying: true},
		{ID: "pl-hbu-02", TeamID: "tm-united", Name: "Yuki Tanaka", Position: catalog.PositionMidfielder, Price: 9, IsPlaying: true},
		{ID: "pl-hbu-03", TeamID: "tm-united", Name: "Owen Gallagher", Position: catalog.PositionDefender, Price: 7, IsPlaying: true},
		{ID: "pl-hbu-04", TeamID: "tm-united", Name: "Mateo Silva", Position: catalog.PositionGoalkeeper, Price: 8, IsPlaying: true},
		{ID: "pl-vrv-01", TeamID: "tm-rovers", Name: "Andre Kamara", Position: catalog.PositionForward, Price: 9, IsPlaying: true},
		{ID: "pl-vrv-02", TeamID: "tm-rovers", Name: "Stefan Novak", Position: catalog.PositionMidfielder, Price: 8, IsPlaying: true},
		{ID: "pl-vrv-03", TeamID: "tm-rovers", Name: "Liam Doyle", Position: catalog.PositionDefender, Price: 6, IsPlaying: true},
		{ID: "pl-vrv-04", TeamID: "tm-rovers", Name: "Pavel Horak", Position: catalog.PositionGoalkeeper, Price: 7, IsPlaying: true},
	}
}

func SeedMatches() []catalog.Match {
	return []catalog.Match{
		{
			ID:           "mt-t20-001",
			TournamentID: TournamentIDT20League,
			Team1ID:      "tm-strikers",
			Team2ID:      "tm-royals",
			StartTime:    time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC),
			Status:       catalog.MatchScheduled,
		},
		{
			ID:           "mt-cup-001",
			TournamentID: TournamentIDPremierCup,
			Team1ID:      "tm-united",
			Team2ID:      "tm-rovers",
			StartTime:    time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC),
			Status:       catalog.MatchScheduled,
		},
	}
}
