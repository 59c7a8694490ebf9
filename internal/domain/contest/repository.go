package contest

import "context"

// Repository owns contests, entries and both secondary indices
// (user -> contest memberships, contest -> entry ids). AddEntry must apply
// the admission checks, the spot increment, the Full flip and both index
// updates as one atomic commit, so no reader observes a partial join.
type Repository interface {
	GetByID(ctx context.Context, contestID string) (Contest, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Contest, error)
	ListByStatus(ctx context.Context, status Status) ([]Contest, error)
	Create(ctx context.Context, c Contest) error
	UpdateStatus(ctx context.Context, contestID string, status Status) error

	GetEntry(ctx context.Context, entryID string) (Entry, bool, error)
	ListEntriesByContest(ctx context.Context, contestID string) ([]Entry, error)
	ListEntriesByUser(ctx context.Context, userID string) ([]Entry, error)
	HasUserEntry(ctx context.Context, contestID, userID string) (bool, error)
	AddEntry(ctx context.Context, entry Entry) (Contest, error)
	UpdateEntryPoints(ctx context.Context, entryID string, points float64) error
	UpdateEntryResult(ctx context.Context, entryID string, rank int, prize *int64) error

	CountContests(ctx context.Context) (int, error)
	CountEntries(ctx context.Context) (int, error)
}
