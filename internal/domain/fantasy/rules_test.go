package fantasy

import (
	"errors"
	"fmt"
	"testing"
)

func rosterOf(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("p-%02d", i+1))
	}
	return ids
}

func TestValidateRoster_SizeMismatch(t *testing.T) {
	rules := DefaultRules()

	err := ValidateRoster(rosterOf(10), "p-01", "p-02", rules)
	if !errors.Is(err, ErrInvalidRosterSize) {
		t.Fatalf("expected ErrInvalidRosterSize, got %v", err)
	}

	err = ValidateRoster(rosterOf(12), "p-01", "p-02", rules)
	if !errors.Is(err, ErrInvalidRosterSize) {
		t.Fatalf("expected ErrInvalidRosterSize, got %v", err)
	}
}

func TestValidateRoster_CaptainMembership(t *testing.T) {
	rules := DefaultRules()
	ids := rosterOf(11)

	if err := ValidateRoster(ids, "outsider", ids[1], rules); !errors.Is(err, ErrCaptainNotInRoster) {
		t.Fatalf("expected ErrCaptainNotInRoster for captain, got %v", err)
	}
	if err := ValidateRoster(ids, ids[0], "outsider", rules); !errors.Is(err, ErrCaptainNotInRoster) {
		t.Fatalf("expected ErrCaptainNotInRoster for vice-captain, got %v", err)
	}
	if err := ValidateRoster(ids, ids[0], ids[0], rules); !errors.Is(err, ErrCaptainIsViceCaptain) {
		t.Fatalf("expected ErrCaptainIsViceCaptain, got %v", err)
	}
	if err := ValidateRoster(ids, ids[0], ids[1], rules); err != nil {
		t.Fatalf("expected valid roster, got %v", err)
	}
}

func TestValidateRoster_DuplicatePlayer(t *testing.T) {
	ids := rosterOf(11)
	ids[10] = ids[0]

	err := ValidateRoster(ids, ids[0], ids[1], DefaultRules())
	if !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
}

func TestValidatePrice_CapWindow(t *testing.T) {
	rules := DefaultRules()

	if err := ValidatePrice(120, rules); !errors.Is(err, ErrSalaryCapViolation) {
		t.Fatalf("expected ErrSalaryCapViolation above cap, got %v", err)
	}
	if err := ValidatePrice(79, rules); !errors.Is(err, ErrSalaryCapViolation) {
		t.Fatalf("expected ErrSalaryCapViolation below floor, got %v", err)
	}
	if err := ValidatePrice(80, rules); err != nil {
		t.Fatalf("expected floor to be inclusive, got %v", err)
	}
	if err := ValidatePrice(100, rules); err != nil {
		t.Fatalf("expected cap to be inclusive, got %v", err)
	}
}
