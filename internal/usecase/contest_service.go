package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/contest"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/domain/reward"
	"github.com/fanarena/contest-engine/internal/domain/wallet"
	"github.com/fanarena/contest-engine/internal/platform/sequence"
)

type CreateContestInput struct {
	Name         string
	MatchID      string
	EntryFee     int64
	TotalSpots   int
	PrizePool    int64
	Type         contest.Type
	Distribution []reward.PrizeSlice
}

type JoinContestInput struct {
	ContestID string
	UserID    string
	TeamID    string
}

type ContestService struct {
	contestRepo contest.Repository
	teamRepo    fantasy.Repository
	matchRepo   catalog.MatchRepository
	poolRepo    reward.PoolRepository
	txRepo      reward.TransactionRepository
	ledger      wallet.Ledger
	seq         sequence.Source
	logger      *slog.Logger
	now         func() time.Time

	// joinMu serializes the debit-then-admit sequence so a refund decision
	// is always made against the state the debit saw.
	joinMu sync.Mutex
}

func NewContestService(
	contestRepo contest.Repository,
	teamRepo fantasy.Repository,
	matchRepo catalog.MatchRepository,
	poolRepo reward.PoolRepository,
	txRepo reward.TransactionRepository,
	ledger wallet.Ledger,
	seq sequence.Source,
	logger *slog.Logger,
) *ContestService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ContestService{
		contestRepo: contestRepo,
		teamRepo:    teamRepo,
		matchRepo:   matchRepo,
		poolRepo:    poolRepo,
		txRepo:      txRepo,
		ledger:      ledger,
		seq:         seq,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateContest opens a contest for one match and seeds its prize pool.
func (s *ContestService) CreateContest(ctx context.Context, input CreateContestInput) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.CreateContest")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.MatchID = strings.TrimSpace(input.MatchID)

	if input.Name == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest name is required", ErrInvalidInput)
	}
	if input.MatchID == "" {
		return contest.Contest{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.EntryFee < 0 {
		return contest.Contest{}, fmt.Errorf("%w: entry fee cannot be negative", ErrInvalidInput)
	}
	if input.TotalSpots < 1 {
		return contest.Contest{}, fmt.Errorf("%w: total spots must be at least 1", ErrInvalidInput)
	}
	if input.PrizePool < 0 {
		return contest.Contest{}, fmt.Errorf("%w: prize pool cannot be negative", ErrInvalidInput)
	}

	match, found, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return contest.Contest{}, fmt.Errorf("%w: match %s", ErrNotFound, input.MatchID)
	}
	if match.Status == catalog.MatchCompleted || match.Status == catalog.MatchCancelled {
		return contest.Contest{}, fmt.Errorf("%w: match %s is %s", ErrStateConflict, match.ID, match.Status)
	}

	distribution := input.Distribution
	if len(distribution) == 0 {
		distribution = defaultDistribution(input.Type)
	}
	if err := validateDistribution(distribution); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	contestID, err := nextID(ctx, s.seq, counterContest)
	if err != nil {
		return contest.Contest{}, err
	}

	c := contest.Contest{
		ID:         contestID,
		Name:       input.Name,
		MatchID:    input.MatchID,
		EntryFee:   input.EntryFee,
		TotalSpots: input.TotalSpots,
		PrizePool:  input.PrizePool,
		Type:       input.Type,
		Status:     contest.StatusOpen,
		CreatedAt:  s.now().UTC(),
		StartTime:  match.StartTime,
	}
	if err := c.ValidateBasic(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.contestRepo.Create(ctx, c); err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}

	pool := reward.PrizePool{
		ContestID:    c.ID,
		TotalAmount:  c.PrizePool,
		Distribution: distribution,
	}
	if err := s.poolRepo.Create(ctx, pool); err != nil {
		return contest.Contest{}, fmt.Errorf("create prize pool: %w", err)
	}

	s.logger.InfoContext(ctx, "contest created",
		"contest_id", c.ID,
		"match_id", c.MatchID,
		"total_spots", c.TotalSpots,
	)

	return c, nil
}

// JoinContest admits one user into a contest. The entry fee is debited only
// after the admission checks pass; if the final commit is rejected the
// debit is refunded.
func (s *ContestService) JoinContest(ctx context.Context, input JoinContestInput) (contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.JoinContest")
	defer span.End()

	input.ContestID = strings.TrimSpace(input.ContestID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.TeamID = strings.TrimSpace(input.TeamID)

	if input.ContestID == "" || input.UserID == "" || input.TeamID == "" {
		return contest.Entry{}, fmt.Errorf("%w: contest id, user id and team id are required", ErrInvalidInput)
	}

	team, found, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return contest.Entry{}, fmt.Errorf("%w: team %s", ErrNotFound, input.TeamID)
	}
	if team.OwnerID != input.UserID {
		return contest.Entry{}, fmt.Errorf("%w: team %s does not belong to user", ErrUnauthorized, input.TeamID)
	}

	s.joinMu.Lock()
	defer s.joinMu.Unlock()

	c, found, err := s.contestRepo.GetByID(ctx, input.ContestID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return contest.Entry{}, fmt.Errorf("%w: contest %s", ErrNotFound, input.ContestID)
	}
	if c.Status != contest.StatusOpen {
		return contest.Entry{}, fmt.Errorf("%w: contest %s is %s", ErrStateConflict, c.ID, c.Status)
	}
	if c.FilledSpots >= c.TotalSpots {
		return contest.Entry{}, fmt.Errorf("%w: contest %s", ErrCapacityExceeded, c.ID)
	}
	joined, err := s.contestRepo.HasUserEntry(ctx, c.ID, input.UserID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("check existing entry: %w", err)
	}
	if joined {
		return contest.Entry{}, fmt.Errorf("%w: user already joined contest %s", ErrStateConflict, c.ID)
	}

	entryID, err := nextID(ctx, s.seq, counterEntry)
	if err != nil {
		return contest.Entry{}, err
	}

	if err := s.ledger.Debit(ctx, input.UserID, c.EntryFee); err != nil {
		switch {
		case errors.Is(err, wallet.ErrInsufficientBalance):
			return contest.Entry{}, fmt.Errorf("%w: entry fee %d", ErrInsufficientBalance, c.EntryFee)
		case errors.Is(err, wallet.ErrUnavailable):
			return contest.Entry{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return contest.Entry{}, fmt.Errorf("debit entry fee: %w", err)
	}

	entry := contest.Entry{
		ID:        entryID,
		ContestID: c.ID,
		UserID:    input.UserID,
		Team:      team,
		CreatedAt: s.now().UTC(),
	}

	admitted, err := s.contestRepo.AddEntry(ctx, entry)
	if err != nil {
		if refundErr := s.ledger.Credit(ctx, input.UserID, c.EntryFee); refundErr != nil {
			s.logger.ErrorContext(ctx, "entry fee refund failed after rejected join",
				"contest_id", c.ID,
				"user_id", input.UserID,
				"error", refundErr,
			)
		}
		switch {
		case errors.Is(err, contest.ErrNotOpen), errors.Is(err, contest.ErrAlreadyJoined):
			return contest.Entry{}, fmt.Errorf("%w: %v", ErrStateConflict, err)
		case errors.Is(err, contest.ErrFull):
			return contest.Entry{}, fmt.Errorf("%w: contest %s", ErrCapacityExceeded, c.ID)
		}
		return contest.Entry{}, fmt.Errorf("add entry: %w", err)
	}

	s.recordTransaction(ctx, input.UserID, c.EntryFee, reward.TxContestEntry)

	s.logger.InfoContext(ctx, "contest joined",
		"contest_id", c.ID,
		"user_id", input.UserID,
		"filled_spots", admitted.FilledSpots,
		"status", admitted.Status,
	)

	return entry, nil
}

// CancelContest aborts a contest that has not gone live and refunds every
// entry fee.
func (s *ContestService) CancelContest(ctx context.Context, contestID string) error {
	ctx, span := startUsecaseSpan(ctx, "ContestService.CancelContest")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	s.joinMu.Lock()
	defer s.joinMu.Unlock()

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: contest %s", ErrNotFound, contestID)
	}
	if !contest.CanTransition(c.Status, contest.StatusCancelled) {
		return fmt.Errorf("%w: cannot cancel contest in status %s", ErrStateConflict, c.Status)
	}

	if err := s.contestRepo.UpdateStatus(ctx, contestID, contest.StatusCancelled); err != nil {
		return fmt.Errorf("cancel contest: %w", err)
	}

	entries, err := s.contestRepo.ListEntriesByContest(ctx, contestID)
	if err != nil {
		return fmt.Errorf("list entries for refund: %w", err)
	}
	for _, entry := range entries {
		if refundErr := s.ledger.Credit(ctx, entry.UserID, c.EntryFee); refundErr != nil {
			s.logger.ErrorContext(ctx, "entry fee refund failed on cancellation",
				"contest_id", contestID,
				"user_id", entry.UserID,
				"error", refundErr,
			)
			continue
		}
		s.recordTransaction(ctx, entry.UserID, c.EntryFee, reward.TxRefund)
	}

	s.logger.InfoContext(ctx, "contest cancelled",
		"contest_id", contestID,
		"refunded_entries", len(entries),
	)

	return nil
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.GetContest")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return contest.Contest{}, fmt.Errorf("%w: contest %s", ErrNotFound, contestID)
	}

	return c, nil
}

func (s *ContestService) ListContestsByMatch(ctx context.Context, matchID string) ([]contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.ListContestsByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	contests, err := s.contestRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}

	return contests, nil
}

// ListOpenContests returns every contest still accepting entries.
func (s *ContestService) ListOpenContests(ctx context.Context) ([]contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.ListOpenContests")
	defer span.End()

	open, err := s.contestRepo.ListByStatus(ctx, contest.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("list open contests: %w", err)
	}

	return open, nil
}

func (s *ContestService) ListEntries(ctx context.Context, contestID string) ([]contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.ListEntries")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	if _, err := s.GetContest(ctx, contestID); err != nil {
		return nil, err
	}

	entries, err := s.contestRepo.ListEntriesByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

func (s *ContestService) ListUserEntries(ctx context.Context, userID string) ([]contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.ListUserEntries")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	entries, err := s.contestRepo.ListEntriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user entries: %w", err)
	}

	return entries, nil
}

// MarkLive flips a contest to Live once its match kicks off. Used by the
// lifecycle scheduler.
func (s *ContestService) MarkLive(ctx context.Context, contestID string) error {
	ctx, span := startUsecaseSpan(ctx, "ContestService.MarkLive")
	defer span.End()

	s.joinMu.Lock()
	defer s.joinMu.Unlock()

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return fmt.Errorf("get contest: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: contest %s", ErrNotFound, contestID)
	}
	if !contest.CanTransition(c.Status, contest.StatusLive) {
		return fmt.Errorf("%w: cannot mark contest %s live from %s", ErrStateConflict, contestID, c.Status)
	}

	if err := s.contestRepo.UpdateStatus(ctx, contestID, contest.StatusLive); err != nil {
		return fmt.Errorf("mark contest live: %w", err)
	}

	return nil
}

// PromoteDueContests flips every Open or Full contest whose start time has
// passed to Live. Returns how many contests were promoted.
func (s *ContestService) PromoteDueContests(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.PromoteDueContests")
	defer span.End()

	now := s.now().UTC()
	promoted := 0
	for _, status := range []contest.Status{contest.StatusOpen, contest.StatusFull} {
		due, err := s.contestRepo.ListByStatus(ctx, status)
		if err != nil {
			return promoted, fmt.Errorf("list %s contests: %w", status, err)
		}
		for _, c := range due {
			if c.StartTime.After(now) {
				continue
			}
			if err := s.MarkLive(ctx, c.ID); err != nil {
				s.logger.WarnContext(ctx, "promote contest failed", "contest_id", c.ID, "error", err)
				continue
			}
			promoted++
		}
	}

	return promoted, nil
}

func (s *ContestService) Counts(ctx context.Context) (contests int, entries int, err error) {
	contests, err = s.contestRepo.CountContests(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count contests: %w", err)
	}
	entries, err = s.contestRepo.CountEntries(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count entries: %w", err)
	}
	return contests, entries, nil
}

func (s *ContestService) recordTransaction(ctx context.Context, userID string, amount int64, txType reward.TransactionType) {
	txID, err := nextID(ctx, s.seq, counterTransaction)
	if err != nil {
		s.logger.WarnContext(ctx, "skip transaction record", "error", err)
		return
	}
	now := s.now().UTC()
	tx := reward.Transaction{
		ID:          txID,
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Status:      reward.TxCompleted,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		s.logger.WarnContext(ctx, "transaction record failed",
			"user_id", userID,
			"type", txType,
			"error", err,
		)
	}
}

func defaultDistribution(t contest.Type) []reward.PrizeSlice {
	switch t {
	case contest.TypeHeadToHead, contest.TypeWinnerTakesAll:
		return []reward.PrizeSlice{{Rank: 1, Percentage: 100}}
	default:
		return []reward.PrizeSlice{
			{Rank: 1, Percentage: 50},
			{Rank: 2, Percentage: 30},
			{Rank: 3, Percentage: 20},
		}
	}
}

func validateDistribution(slices []reward.PrizeSlice) error {
	var total float64
	seen := make(map[int]struct{}, len(slices))
	for _, slice := range slices {
		if slice.Rank < 1 {
			return fmt.Errorf("prize rank must be positive")
		}
		if slice.Percentage <= 0 {
			return fmt.Errorf("prize percentage must be positive")
		}
		if _, dup := seen[slice.Rank]; dup {
			return fmt.Errorf("duplicate prize rank %d", slice.Rank)
		}
		seen[slice.Rank] = struct{}{}
		total += slice.Percentage
	}
	if total > 100 {
		return fmt.Errorf("prize percentages exceed 100")
	}
	return nil
}
