package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/scoring"
	"github.com/fanarena/contest-engine/internal/usecase"
)

func (h *Handler) RecordPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordPlayerStats")
	defer span.End()

	var req recordPlayerStatsRequest
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

	score, err := h.scoringService.RecordPlayerStats(ctx, usecase.RecordPlayerStatsInput{
		PlayerID: req.PlayerID,
		MatchID:  req.MatchID,
		Stats:    req.Stats,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record player stats failed",
			"player_id", req.PlayerID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerScoreToDTO(score))
}

func (h *Handler) GetPlayerScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerScore")
	defer span.End()

	matchID := r.PathValue("matchID")
	playerID := r.PathValue("playerID")
	score, err := h.scoringService.GetPlayerScore(ctx, playerID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player score failed",
			"player_id", playerID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerScoreToDTO(score))
}

func (h *Handler) ListMatchScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchScores")
	defer span.End()

	matchID := r.PathValue("matchID")
	scores, err := h.scoringService.ListMatchScores(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match scores failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerScoreDTO, 0, len(scores))
	for _, score := range scores {
		items = append(items, playerScoreToDTO(score))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddScoringRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddScoringRule")
	defer span.End()

	var req scoringRuleRequest
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

	rule := scoring.Rule{
		Sport:  catalog.Sport(req.Sport),
		Action: req.Action,
		Points: req.Points,
	}
	if err := h.scoringService.AddScoringRule(ctx, rule); err != nil {
		h.logger.WarnContext(ctx, "add scoring rule failed",
			"sport", req.Sport, "action", req.Action, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scoringRuleDTO{
		Sport:  string(rule.Sport),
		Action: rule.Action,
		Points: rule.Points,
	})
}

func (h *Handler) ListScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoringRules")
	defer span.End()

	sport := catalog.Sport(strings.TrimSpace(r.URL.Query().Get("sport")))
	rules, err := h.scoringService.ListRules(ctx, sport)
	if err != nil {
		h.logger.WarnContext(ctx, "list scoring rules failed", "sport", string(sport), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoringRuleDTO, 0, len(rules))
	for _, rule := range rules {
		items = append(items, scoringRuleDTO{
			Sport:  string(rule.Sport),
			Action: rule.Action,
			Points: rule.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunIngestMatchJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestMatchJob")
	defer span.End()

	matchID := r.PathValue("matchID")
	result, err := h.ingestionService.IngestMatch(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingest match job failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestionResultToDTO(result))
}

func (h *Handler) RunIngestLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestLiveJob")
	defer span.End()

	result, err := h.ingestionService.IngestLiveMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingest live job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestionResultToDTO(result))
}

type recordPlayerStatsRequest struct {
	PlayerID string        `json:"player_id" validate:"required"`
	MatchID  string        `json:"match_id" validate:"required"`
	Stats    scoring.Stats `json:"stats"`
}

type playerScoreDTO struct {
	PlayerID  string        `json:"player_id"`
	MatchID   string        `json:"match_id"`
	Points    float64       `json:"points"`
	Stats     scoring.Stats `json:"stats"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type scoringRuleRequest struct {
	Sport  string  `json:"sport" validate:"required"`
	Action string  `json:"action" validate:"required"`
	Points float64 `json:"points" validate:"required"`
}

type scoringRuleDTO struct {
	Sport  string  `json:"sport"`
	Action string  `json:"action"`
	Points float64 `json:"points"`
}

type ingestionResultDTO struct {
	Matches        int `json:"matches"`
	RecordedScores int `json:"recorded_scores"`
	Failed         int `json:"failed"`
}

func playerScoreToDTO(score scoring.PlayerScore) playerScoreDTO {
	return playerScoreDTO{
		PlayerID:  score.PlayerID,
		MatchID:   score.MatchID,
		Points:    score.Points,
		Stats:     score.Stats,
		UpdatedAt: score.UpdatedAt,
	}
}

func ingestionResultToDTO(result usecase.IngestionResult) ingestionResultDTO {
	return ingestionResultDTO{
		Matches:        result.Matches,
		RecordedScores: result.RecordedScores,
		Failed:         result.Failed,
	}
}
