package scoring

import "testing"

func intp(v int) *int          { return &v }
func floatp(v float64) *float64 { return &v }

func TestCalculatePointsCricket(t *testing.T) {
	s := Stats{
		Runs:      intp(45),
		Wickets:   intp(2),
		Catches:   intp(1),
		Stumpings: intp(1),
		RunOuts:   intp(1),
		Maidens:   intp(2),
		Economy:   floatp(3.5),
	}
	got := CalculatePoints(s)
	want := 45.0 + 20 + 8 + 10 + 6 + 8 + 2
	if got != want {
		t.Fatalf("points = %v, want %v", got, want)
	}
}

func TestCalculatePointsEconomyBonusBoundary(t *testing.T) {
	if got := CalculatePoints(Stats{Economy: floatp(4.0)}); got != 0 {
		t.Fatalf("economy 4.0 should earn no bonus, got %v", got)
	}
	if got := CalculatePoints(Stats{Economy: floatp(3.99)}); got != 2 {
		t.Fatalf("economy 3.99 should earn +2, got %v", got)
	}
}

func TestCalculatePointsFootball(t *testing.T) {
	s := Stats{
		Goals:       intp(2),
		CleanSheets: intp(1),
		Saves:       intp(3),
		YellowCards: intp(1),
		RedCards:    intp(1),
	}
	got := CalculatePoints(s)
	want := 12.0 + 4 + 3 - 1 - 3
	if got != want {
		t.Fatalf("points = %v, want %v", got, want)
	}
}

func TestCalculatePointsSharedAssists(t *testing.T) {
	// Assists carry both the football and basketball weights.
	if got := CalculatePoints(Stats{Assists: intp(2)}); got != 9 {
		t.Fatalf("2 assists = %v, want 9", got)
	}
}

func TestCalculatePointsBasketball(t *testing.T) {
	s := Stats{
		Points:    intp(20),
		Rebounds:  intp(5),
		Blocks:    intp(2),
		Steals:    intp(1),
		Turnovers: intp(3),
	}
	got := CalculatePoints(s)
	want := 20.0 + 6 + 4 + 2 - 3
	if got != want {
		t.Fatalf("points = %v, want %v", got, want)
	}
}

func TestCalculatePointsEmptyStats(t *testing.T) {
	if got := CalculatePoints(Stats{}); got != 0 {
		t.Fatalf("empty stats = %v, want 0", got)
	}
}
