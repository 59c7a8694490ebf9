package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/usecase"
)

func (h *Handler) CreateFantasyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFantasyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req createFantasyTeamRequest
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

	team, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		OwnerID:       principal.UserID,
		Name:          req.Name,
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create fantasy team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fantasyTeamToDTO(team))
}

func (h *Handler) GetFantasyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFantasyTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	team, err := h.teamService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fantasy team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fantasyTeamToDTO(team))
}

func (h *Handler) ListMyFantasyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyFantasyTeams")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	teams, err := h.teamService.ListTeamsByOwner(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fantasy teams failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fantasyTeamDTO, 0, len(teams))
	for _, team := range teams {
		items = append(items, fantasyTeamToDTO(team))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFantasyTeamPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFantasyTeamPoints")
	defer span.End()

	teamID := r.PathValue("teamID")
	matchID := strings.TrimSpace(r.URL.Query().Get("match_id"))
	if matchID == "" {
		writeError(ctx, w, fmt.Errorf("%w: match_id query parameter is required", usecase.ErrInvalidInput))
		return
	}

	points, err := h.scoringService.TeamPoints(ctx, teamID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team points failed", "team_id", teamID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamPointsDTO{
		TeamID:  teamID,
		MatchID: matchID,
		Points:  points,
	})
}

type createFantasyTeamRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	PlayerIDs     []string `json:"player_ids" validate:"required,min=1,dive,required"`
	CaptainID     string   `json:"captain_id" validate:"required"`
	ViceCaptainID string   `json:"vice_captain_id" validate:"required"`
}

type fantasyTeamDTO struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	CaptainID     string    `json:"captain_id"`
	ViceCaptainID string    `json:"vice_captain_id"`
	PlayerIDs     []string  `json:"player_ids"`
	TotalPrice    int64     `json:"total_price"`
	TotalPoints   float64   `json:"total_points"`
	CreatedAt     time.Time `json:"created_at"`
}

type teamPointsDTO struct {
	TeamID  string  `json:"team_id"`
	MatchID string  `json:"match_id"`
	Points  float64 `json:"points"`
}

func fantasyTeamToDTO(team fantasy.Team) fantasyTeamDTO {
	return fantasyTeamDTO{
		ID:            team.ID,
		OwnerID:       team.OwnerID,
		Name:          team.Name,
		CaptainID:     team.CaptainID,
		ViceCaptainID: team.ViceCaptainID,
		PlayerIDs:     team.PlayerIDs,
		TotalPrice:    team.TotalPrice,
		TotalPoints:   team.TotalPoints,
		CreatedAt:     team.CreatedAt,
	}
}
