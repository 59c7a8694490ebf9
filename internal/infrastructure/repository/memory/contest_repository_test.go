package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fanarena/contest-engine/internal/domain/contest"
)

func newOpenContest(id string, spots int) contest.Contest {
	return contest.Contest{
		ID:         id,
		Name:       "test contest",
		MatchID:    "mt-1",
		EntryFee:   10,
		TotalSpots: spots,
		Type:       contest.TypeMultiPlayer,
		Status:     contest.StatusOpen,
	}
}

func TestAddEntryFillsAndFlipsToFull(t *testing.T) {
	ctx := context.Background()
	r := NewContestRepository()
	if err := r.Create(ctx, newOpenContest("c1", 2)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	c, err := r.AddEntry(ctx, contest.Entry{ID: "e1", ContestID: "c1", UserID: "u1"})
	if err != nil {
		t.Fatalf("first AddEntry: %v", err)
	}
	if c.FilledSpots != 1 || c.Status != contest.StatusOpen {
		t.Fatalf("after first join: filled=%d status=%s", c.FilledSpots, c.Status)
	}

	c, err = r.AddEntry(ctx, contest.Entry{ID: "e2", ContestID: "c1", UserID: "u2"})
	if err != nil {
		t.Fatalf("second AddEntry: %v", err)
	}
	if c.FilledSpots != 2 || c.Status != contest.StatusFull {
		t.Fatalf("after second join: filled=%d status=%s", c.FilledSpots, c.Status)
	}

	_, err = r.AddEntry(ctx, contest.Entry{ID: "e3", ContestID: "c1", UserID: "u3"})
	if !errors.Is(err, contest.ErrNotOpen) {
		t.Fatalf("third join err = %v, want ErrNotOpen", err)
	}
}

func TestAddEntryRejectsDuplicateUser(t *testing.T) {
	ctx := context.Background()
	r := NewContestRepository()
	_ = r.Create(ctx, newOpenContest("c1", 5))

	if _, err := r.AddEntry(ctx, contest.Entry{ID: "e1", ContestID: "c1", UserID: "u1"}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	_, err := r.AddEntry(ctx, contest.Entry{ID: "e2", ContestID: "c1", UserID: "u1"})
	if !errors.Is(err, contest.ErrAlreadyJoined) {
		t.Fatalf("err = %v, want ErrAlreadyJoined", err)
	}

	c, _, _ := r.GetByID(ctx, "c1")
	if c.FilledSpots != 1 {
		t.Fatalf("rejected join mutated filled spots: %d", c.FilledSpots)
	}
}

func TestAddEntryConcurrentNeverOverfills(t *testing.T) {
	ctx := context.Background()
	r := NewContestRepository()
	_ = r.Create(ctx, newOpenContest("c1", 5))

	var wg sync.WaitGroup
	var admitted sync.Map
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("u%d", i)
			_, err := r.AddEntry(ctx, contest.Entry{
				ID:        fmt.Sprintf("e%d", i),
				ContestID: "c1",
				UserID:    userID,
			})
			if err == nil {
				admitted.Store(userID, true)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	admitted.Range(func(_, _ any) bool { count++; return true })
	if count != 5 {
		t.Fatalf("admitted %d entries, want 5", count)
	}

	c, _, _ := r.GetByID(ctx, "c1")
	if c.FilledSpots != 5 || c.Status != contest.StatusFull {
		t.Fatalf("filled=%d status=%s", c.FilledSpots, c.Status)
	}
	entries, _ := r.ListEntriesByContest(ctx, "c1")
	if len(entries) != 5 {
		t.Fatalf("entry index has %d entries, want 5", len(entries))
	}
}

func TestUpdateStatusEnforcesLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewContestRepository()
	_ = r.Create(ctx, newOpenContest("c1", 2))

	if err := r.UpdateStatus(ctx, "c1", contest.StatusLive); err != nil {
		t.Fatalf("open -> live: %v", err)
	}
	if err := r.UpdateStatus(ctx, "c1", contest.StatusOpen); !errors.Is(err, contest.ErrInvalidTransition) {
		t.Fatalf("live -> open err = %v, want ErrInvalidTransition", err)
	}
	if err := r.UpdateStatus(ctx, "c1", contest.StatusCompleted); err != nil {
		t.Fatalf("live -> completed: %v", err)
	}
	if err := r.UpdateStatus(ctx, "c1", contest.StatusCancelled); !errors.Is(err, contest.ErrInvalidTransition) {
		t.Fatalf("completed -> cancelled err = %v, want ErrInvalidTransition", err)
	}
}
