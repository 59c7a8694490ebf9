package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fanarena/contest-engine/internal/domain/contest"
	"github.com/fanarena/contest-engine/internal/domain/reward"
	"github.com/fanarena/contest-engine/internal/usecase"
)

func (h *Handler) CreateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContest")
	defer span.End()

	var req createContestRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	distribution := make([]reward.PrizeSlice, 0, len(req.Distribution))
	for _, slice := range req.Distribution {
		distribution = append(distribution, reward.PrizeSlice{
			Rank:       slice.Rank,
			Percentage: slice.Percentage,
		})
	}

	created, err := h.contestService.CreateContest(ctx, usecase.CreateContestInput{
		Name:         req.Name,
		MatchID:      req.MatchID,
		EntryFee:     req.EntryFee,
		TotalSpots:   req.TotalSpots,
		PrizePool:    req.PrizePool,
		Type:         contest.Type(req.Type),
		Distribution: distribution,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create contest failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, contestToDTO(created))
}

func (h *Handler) JoinContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinContest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req joinContestRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.contestService.JoinContest(ctx, usecase.JoinContestInput{
		ContestID: r.PathValue("contestID"),
		UserID:    principal.UserID,
		TeamID:    req.TeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join contest failed",
			"contest_id", r.PathValue("contestID"), "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(entry))
}

func (h *Handler) GetContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContest")
	defer span.End()

	contestID := r.PathValue("contestID")
	item, err := h.contestService.GetContest(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestToDTO(item))
}

func (h *Handler) ListOpenContests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOpenContests")
	defer span.End()

	contests, err := h.contestService.ListOpenContests(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list open contests failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]contestDTO, 0, len(contests))
	for _, c := range contests {
		items = append(items, contestToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListContestsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestsByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	contests, err := h.contestService.ListContestsByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list contests failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]contestDTO, 0, len(contests))
	for _, c := range contests {
		items = append(items, contestToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListContestEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestEntries")
	defer span.End()

	contestID := r.PathValue("contestID")
	entries, err := h.contestService.ListEntries(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "list contest entries failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(entries))
}

func (h *Handler) GetContestLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContestLeaderboard")
	defer span.End()

	contestID := r.PathValue("contestID")
	entries, err := h.settlementService.Leaderboard(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(entries))
}

func (h *Handler) ListMyContestEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyContestEntries")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	entries, err := h.contestService.ListUserEntries(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user entries failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(entries))
}

func (h *Handler) FinalizeContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeContest")
	defer span.End()

	contestID := r.PathValue("contestID")
	entries, err := h.settlementService.FinalizeContest(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(entries))
}

func (h *Handler) SyncContestPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncContestPoints")
	defer span.End()

	contestID := r.PathValue("contestID")
	synced, err := h.settlementService.SyncEntryPoints(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync contest points failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"synced_entries": synced})
}

func (h *Handler) CancelContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelContest")
	defer span.End()

	contestID := r.PathValue("contestID")
	if err := h.contestService.CancelContest(ctx, contestID); err != nil {
		h.logger.WarnContext(ctx, "cancel contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"contest_id": contestID, "status": string(contest.StatusCancelled)})
}

type createContestRequest struct {
	Name         string                  `json:"name" validate:"required,max=150"`
	MatchID      string                  `json:"match_id" validate:"required"`
	EntryFee     int64                   `json:"entry_fee" validate:"min=0"`
	TotalSpots   int                     `json:"total_spots" validate:"required,min=2"`
	PrizePool    int64                   `json:"prize_pool" validate:"min=0"`
	Type         string                  `json:"type" validate:"required"`
	Distribution []prizeSliceRequestItem `json:"distribution" validate:"omitempty,dive"`
}

type prizeSliceRequestItem struct {
	Rank       int     `json:"rank" validate:"required,min=1"`
	Percentage float64 `json:"percentage" validate:"required,gt=0,lte=100"`
}

type joinContestRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

type contestDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MatchID     string    `json:"match_id"`
	EntryFee    int64     `json:"entry_fee"`
	TotalSpots  int       `json:"total_spots"`
	FilledSpots int       `json:"filled_spots"`
	PrizePool   int64     `json:"prize_pool"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	StartTime   time.Time `json:"start_time"`
	CreatedAt   time.Time `json:"created_at"`
}

type entryDTO struct {
	ID        string    `json:"id"`
	ContestID string    `json:"contest_id"`
	UserID    string    `json:"user_id"`
	TeamID    string    `json:"team_id"`
	Points    float64   `json:"points"`
	Rank      *int      `json:"rank,omitempty"`
	Prize     *int64    `json:"prize,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func contestToDTO(c contest.Contest) contestDTO {
	return contestDTO{
		ID:          c.ID,
		Name:        c.Name,
		MatchID:     c.MatchID,
		EntryFee:    c.EntryFee,
		TotalSpots:  c.TotalSpots,
		FilledSpots: c.FilledSpots,
		PrizePool:   c.PrizePool,
		Type:        string(c.Type),
		Status:      string(c.Status),
		StartTime:   c.StartTime,
		CreatedAt:   c.CreatedAt,
	}
}

func entryToDTO(e contest.Entry) entryDTO {
	return entryDTO{
		ID:        e.ID,
		ContestID: e.ContestID,
		UserID:    e.UserID,
		TeamID:    e.Team.ID,
		Points:    e.Points,
		Rank:      e.Rank,
		Prize:     e.Prize,
		CreatedAt: e.CreatedAt,
	}
}

func entriesToDTO(entries []contest.Entry) []entryDTO {
	items := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryToDTO(e))
	}
	return items
}
