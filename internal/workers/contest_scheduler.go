package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/fanarena/contest-engine/internal/usecase"
)

// ContestScheduler runs the periodic lifecycle jobs: promoting contests to
// Live at kickoff and pulling live match stats into the scoring pipeline.
type ContestScheduler struct {
	contests  *usecase.ContestService
	ingestion *usecase.IngestionService
	logger    *slog.Logger

	promoteEvery time.Duration
	ingestEvery  time.Duration

	scheduler gocron.Scheduler
}

func NewContestScheduler(
	contests *usecase.ContestService,
	ingestion *usecase.IngestionService,
	promoteEvery, ingestEvery time.Duration,
	logger *slog.Logger,
) *ContestScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if promoteEvery <= 0 {
		promoteEvery = 30 * time.Second
	}
	if ingestEvery <= 0 {
		ingestEvery = time.Minute
	}

	return &ContestScheduler{
		contests:     contests,
		ingestion:    ingestion,
		logger:       logger,
		promoteEvery: promoteEvery,
		ingestEvery:  ingestEvery,
	}
}

func (w *ContestScheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("new scheduler: %w", err)
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(w.promoteEvery),
		gocron.NewTask(func() { w.promoteDue(ctx) }),
	); err != nil {
		return fmt.Errorf("register promote job: %w", err)
	}

	if w.ingestion != nil {
		if _, err := scheduler.NewJob(
			gocron.DurationJob(w.ingestEvery),
			gocron.NewTask(func() { w.ingestLive(ctx) }),
		); err != nil {
			return fmt.Errorf("register ingest job: %w", err)
		}
	}

	scheduler.Start()
	w.scheduler = scheduler
	w.logger.InfoContext(ctx, "contest scheduler started",
		"promote_every", w.promoteEvery.String(),
		"ingest_every", w.ingestEvery.String(),
	)

	return nil
}

func (w *ContestScheduler) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	return w.scheduler.Shutdown()
}

func (w *ContestScheduler) promoteDue(ctx context.Context) {
	promoted, err := w.contests.PromoteDueContests(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "promote due contests failed", "error", err)
		return
	}
	if promoted > 0 {
		w.logger.InfoContext(ctx, "contests promoted to live", "count", promoted)
	}
}

func (w *ContestScheduler) ingestLive(ctx context.Context) {
	result, err := w.ingestion.IngestLiveMatches(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "live ingestion sweep failed", "error", err)
		return
	}
	if result.Matches > 0 {
		w.logger.InfoContext(ctx, "live ingestion sweep finished",
			"matches", result.Matches,
			"recorded_scores", result.RecordedScores,
			"failed", result.Failed,
		)
	}
}
