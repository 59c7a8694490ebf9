package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fanarena/contest-engine/internal/domain/contest"
)

// ContestRepository keeps contests, entries and both secondary indices
// under a single lock so joins commit atomically.
type ContestRepository struct {
	mu sync.RWMutex

	contests     map[string]contest.Contest
	contestOrder []string

	entries          map[string]contest.Entry
	entriesByContest map[string][]string
	entriesByUser    map[string][]string
	// userJoined marks contestID -> userID membership for O(1) duplicate checks.
	userJoined map[string]map[string]struct{}
}

func NewContestRepository() *ContestRepository {
	return &ContestRepository{
		contests:         make(map[string]contest.Contest),
		entries:          make(map[string]contest.Entry),
		entriesByContest: make(map[string][]string),
		entriesByUser:    make(map[string][]string),
		userJoined:       make(map[string]map[string]struct{}),
	}
}

func (r *ContestRepository) GetByID(_ context.Context, contestID string) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contests[contestID]
	return c, ok, nil
}

func (r *ContestRepository) ListByMatch(_ context.Context, matchID string) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0)
	for _, id := range r.contestOrder {
		if c := r.contests[id]; c.MatchID == matchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ContestRepository) ListByStatus(_ context.Context, status contest.Status) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0)
	for _, id := range r.contestOrder {
		if c := r.contests[id]; c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ContestRepository) Create(_ context.Context, c contest.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contests[c.ID]; ok {
		return fmt.Errorf("contest %s already exists", c.ID)
	}
	r.contests[c.ID] = c
	r.contestOrder = append(r.contestOrder, c.ID)
	r.userJoined[c.ID] = make(map[string]struct{})
	return nil
}

func (r *ContestRepository) UpdateStatus(_ context.Context, contestID string, status contest.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contests[contestID]
	if !ok {
		return fmt.Errorf("contest %s not found", contestID)
	}
	if !contest.CanTransition(c.Status, status) {
		return fmt.Errorf("%w: %s -> %s", contest.ErrInvalidTransition, c.Status, status)
	}
	c.Status = status
	r.contests[contestID] = c
	return nil
}

func (r *ContestRepository) GetEntry(_ context.Context, entryID string) (contest.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[entryID]
	return cloneEntry(e), ok, nil
}

func (r *ContestRepository) ListEntriesByContest(_ context.Context, contestID string) ([]contest.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.entriesByContest[contestID]
	out := make([]contest.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneEntry(r.entries[id]))
	}
	return out, nil
}

func (r *ContestRepository) ListEntriesByUser(_ context.Context, userID string) ([]contest.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.entriesByUser[userID]
	out := make([]contest.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneEntry(r.entries[id]))
	}
	return out, nil
}

func (r *ContestRepository) HasUserEntry(_ context.Context, contestID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.userJoined[contestID]
	if !ok {
		return false, nil
	}
	_, joined := members[userID]
	return joined, nil
}

// AddEntry admits one entry. The status check, capacity check, duplicate
// check, spot increment, Full flip and both index updates happen under one
// lock; on any rejection nothing is written.
func (r *ContestRepository) AddEntry(_ context.Context, entry contest.Entry) (contest.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contests[entry.ContestID]
	if !ok {
		return contest.Contest{}, fmt.Errorf("contest %s not found", entry.ContestID)
	}
	if c.Status != contest.StatusOpen {
		return contest.Contest{}, contest.ErrNotOpen
	}
	if c.FilledSpots >= c.TotalSpots {
		return contest.Contest{}, contest.ErrFull
	}
	if _, joined := r.userJoined[c.ID][entry.UserID]; joined {
		return contest.Contest{}, contest.ErrAlreadyJoined
	}
	if _, exists := r.entries[entry.ID]; exists {
		return contest.Contest{}, fmt.Errorf("entry %s already exists", entry.ID)
	}

	c.FilledSpots++
	if c.FilledSpots == c.TotalSpots {
		c.Status = contest.StatusFull
	}

	r.contests[c.ID] = c
	r.entries[entry.ID] = cloneEntry(entry)
	r.entriesByContest[c.ID] = append(r.entriesByContest[c.ID], entry.ID)
	r.entriesByUser[entry.UserID] = append(r.entriesByUser[entry.UserID], entry.ID)
	r.userJoined[c.ID][entry.UserID] = struct{}{}

	return c, nil
}

func (r *ContestRepository) UpdateEntryPoints(_ context.Context, entryID string, points float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[entryID]
	if !ok {
		return fmt.Errorf("entry %s not found", entryID)
	}
	e.Points = points
	r.entries[entryID] = e
	return nil
}

func (r *ContestRepository) UpdateEntryResult(_ context.Context, entryID string, rank int, prize *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[entryID]
	if !ok {
		return fmt.Errorf("entry %s not found", entryID)
	}
	e.Rank = &rank
	if prize != nil {
		v := *prize
		e.Prize = &v
	}
	r.entries[entryID] = e
	return nil
}

func (r *ContestRepository) CountContests(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contests), nil
}

func (r *ContestRepository) CountEntries(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

func cloneEntry(e contest.Entry) contest.Entry {
	out := e
	out.Team.PlayerIDs = append([]string(nil), e.Team.PlayerIDs...)
	if e.Rank != nil {
		v := *e.Rank
		out.Rank = &v
	}
	if e.Prize != nil {
		v := *e.Prize
		out.Prize = &v
	}
	return out
}
