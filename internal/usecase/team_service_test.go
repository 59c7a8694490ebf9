package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestCreateTeamHappyPath(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)

	team, err := env.teams.CreateTeam(context.Background(), CreateTeamInput{
		OwnerID:       "u1",
		Name:          "Dream XI",
		PlayerIDs:     players,
		CaptainID:     players[0],
		ViceCaptainID: players[1],
	})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if team.TotalPrice != 88 {
		t.Fatalf("total price = %d, want 88", team.TotalPrice)
	}
	if team.ID == "" {
		t.Fatal("team id is empty")
	}

	got, err := env.teams.GetTeam(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if got.CaptainID != players[0] || got.ViceCaptainID != players[1] {
		t.Fatalf("captaincy not persisted: %s / %s", got.CaptainID, got.ViceCaptainID)
	}
}

func TestCreateTeamRejectsWrongRosterSize(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 8)

	_, err := env.teams.CreateTeam(context.Background(), CreateTeamInput{
		OwnerID:       "u1",
		Name:          "Short XI",
		PlayerIDs:     players[:10],
		CaptainID:     players[0],
		ViceCaptainID: players[1],
	})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("err = %v, want ErrConstraintViolation", err)
	}
}

func TestCreateTeamRejectsSalaryCapViolation(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 11, 11) // 11 * 11 = 121 > 100

	_, err := env.teams.CreateTeam(context.Background(), CreateTeamInput{
		OwnerID:       "u1",
		Name:          "Pricey XI",
		PlayerIDs:     players,
		CaptainID:     players[0],
		ViceCaptainID: players[1],
	})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("err = %v, want ErrConstraintViolation", err)
	}
}

func TestCreateTeamRejectsCaptainOutsideRoster(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 12, 8)

	_, err := env.teams.CreateTeam(context.Background(), CreateTeamInput{
		OwnerID:       "u1",
		Name:          "Odd XI",
		PlayerIDs:     players[:11],
		CaptainID:     players[11],
		ViceCaptainID: players[1],
	})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("err = %v, want ErrConstraintViolation", err)
	}
}

func TestCreateTeamPricesUnknownPlayerAtZero(t *testing.T) {
	env := newTestEnv(t)
	players := env.seedPlayers(t, 10, 8)
	roster := append(append([]string(nil), players...), "pl-missing")

	// The unresolved id contributes nothing, so the roster lands exactly on
	// the salary floor: 10 * 8 = 80.
	team, err := env.teams.CreateTeam(context.Background(), CreateTeamInput{
		OwnerID:       "u1",
		Name:          "Ghost XI",
		PlayerIDs:     roster,
		CaptainID:     roster[0],
		ViceCaptainID: roster[1],
	})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if team.TotalPrice != 80 {
		t.Fatalf("total price = %d, want 80", team.TotalPrice)
	}
}
