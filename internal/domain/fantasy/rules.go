package fantasy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRosterSize    = errors.New("invalid roster size")
	ErrCaptainNotInRoster   = errors.New("captain must be part of the roster")
	ErrSalaryCapViolation   = errors.New("team price outside salary cap")
	ErrDuplicatePlayer      = errors.New("duplicate player in roster")
	ErrCaptainIsViceCaptain = errors.New("captain and vice-captain must differ")
)

// Rules stores roster validation parameters.
type Rules struct {
	RosterSize int
	MinPrice   int64
	MaxPrice   int64
}

func DefaultRules() Rules {
	return Rules{
		RosterSize: 11,
		MinPrice:   80,
		MaxPrice:   100,
	}
}

// ValidateRoster checks composition constraints that do not need price data.
func ValidateRoster(playerIDs []string, captainID, viceCaptainID string, rules Rules) error {
	if len(playerIDs) != rules.RosterSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidRosterSize, rules.RosterSize, len(playerIDs))
	}
	if captainID == viceCaptainID {
		return fmt.Errorf("%w: %s", ErrCaptainIsViceCaptain, captainID)
	}

	seen := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" {
			return fmt.Errorf("player id is required")
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}
	}

	if _, ok := seen[captainID]; !ok {
		return fmt.Errorf("%w: captain=%s", ErrCaptainNotInRoster, captainID)
	}
	if _, ok := seen[viceCaptainID]; !ok {
		return fmt.Errorf("%w: vice_captain=%s", ErrCaptainNotInRoster, viceCaptainID)
	}

	return nil
}

// ValidatePrice enforces the salary cap window on the resolved roster price.
func ValidatePrice(totalPrice int64, rules Rules) error {
	if totalPrice < rules.MinPrice || totalPrice > rules.MaxPrice {
		return fmt.Errorf("%w: min=%d max=%d total=%d", ErrSalaryCapViolation, rules.MinPrice, rules.MaxPrice, totalPrice)
	}

	return nil
}
