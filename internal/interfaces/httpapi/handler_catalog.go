package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/usecase"
)

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	status := catalog.TournamentStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	tournaments, err := h.catalogService.ListTournaments(ctx, status)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournaments failed", "status", string(status), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentDTO, 0, len(tournaments))
	for _, t := range tournaments {
		items = append(items, tournamentToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpsertTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertTournament")
	defer span.End()

	var req upsertTournamentRequest
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

	item := catalog.Tournament{
		ID:        req.ID,
		Name:      req.Name,
		Sport:     catalog.Sport(req.Sport),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    catalog.TournamentStatus(req.Status),
	}
	if err := h.catalogService.UpsertTournament(ctx, item); err != nil {
		h.logger.WarnContext(ctx, "upsert tournament failed", "tournament_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(item))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.catalogService.ListTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]catalogTeamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, catalogTeamDTO{ID: t.ID, Name: t.Name, Short: t.Short})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpsertTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertTeam")
	defer span.End()

	var req upsertTeamRequest
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

	item := catalog.Team{ID: req.ID, Name: req.Name, Short: req.Short}
	if err := h.catalogService.UpsertTeam(ctx, item); err != nil {
		h.logger.WarnContext(ctx, "upsert team failed", "team_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogTeamDTO{ID: item.ID, Name: item.Name, Short: item.Short})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	teamID := strings.TrimSpace(r.URL.Query().Get("team_id"))
	players, err := h.catalogService.ListPlayers(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	player, err := h.catalogService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(player))
}

func (h *Handler) UpsertPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertPlayer")
	defer span.End()

	var req upsertPlayerRequest
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

	item := catalog.Player{
		ID:        req.ID,
		Name:      req.Name,
		TeamID:    req.TeamID,
		Position:  catalog.Position(req.Position),
		Points:    req.Points,
		Price:     req.Price,
		IsPlaying: req.IsPlaying,
	}
	if err := h.catalogService.UpsertPlayer(ctx, item); err != nil {
		h.logger.WarnContext(ctx, "upsert player failed", "player_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	tournamentID := strings.TrimSpace(r.URL.Query().Get("tournament_id"))
	status := catalog.MatchStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	matches, err := h.catalogService.ListMatches(ctx, tournamentID, status)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	match, err := h.catalogService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(match))
}

func (h *Handler) UpsertMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertMatch")
	defer span.End()

	var req upsertMatchRequest
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

	item := catalog.Match{
		ID:           req.ID,
		TournamentID: req.TournamentID,
		Team1ID:      req.Team1ID,
		Team2ID:      req.Team2ID,
		StartTime:    req.StartTime,
		Status:       catalog.MatchStatus(req.Status),
	}
	if err := h.catalogService.UpsertMatch(ctx, item); err != nil {
		h.logger.WarnContext(ctx, "upsert match failed", "match_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchStatus")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req updateMatchStatusRequest
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

	var score *catalog.MatchScore
	if req.Score != nil {
		score = &catalog.MatchScore{
			Team1Score: req.Score.Team1Score,
			Team2Score: req.Score.Team2Score,
		}
	}

	if err := h.catalogService.UpdateMatchStatus(ctx, matchID, catalog.MatchStatus(req.Status), score); err != nil {
		h.logger.WarnContext(ctx, "update match status failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"match_id": matchID, "status": req.Status})
}

type upsertTournamentRequest struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required,max=150"`
	Sport     string    `json:"sport" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Status    string    `json:"status" validate:"required"`
}

type upsertTeamRequest struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required,max=100"`
	Short string `json:"short" validate:"required,max=10"`
}

type upsertPlayerRequest struct {
	ID        string  `json:"id" validate:"required"`
	Name      string  `json:"name" validate:"required,max=100"`
	TeamID    string  `json:"team_id" validate:"required"`
	Position  string  `json:"position" validate:"required"`
	Points    float64 `json:"points"`
	Price     int64   `json:"price" validate:"min=0"`
	IsPlaying bool    `json:"is_playing"`
}

type upsertMatchRequest struct {
	ID           string    `json:"id" validate:"required"`
	TournamentID string    `json:"tournament_id" validate:"required"`
	Team1ID      string    `json:"team1_id" validate:"required"`
	Team2ID      string    `json:"team2_id" validate:"required"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	Status       string    `json:"status" validate:"required"`
}

type updateMatchStatusRequest struct {
	Status string         `json:"status" validate:"required"`
	Score  *matchScoreDTO `json:"score,omitempty"`
}

type tournamentDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sport     string    `json:"sport"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type catalogTeamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type playerDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	TeamID    string  `json:"team_id"`
	Position  string  `json:"position"`
	Points    float64 `json:"points"`
	Price     int64   `json:"price"`
	IsPlaying bool    `json:"is_playing"`
}

type matchScoreDTO struct {
	Team1Score string `json:"team1_score"`
	Team2Score string `json:"team2_score"`
}

type matchDTO struct {
	ID           string         `json:"id"`
	TournamentID string         `json:"tournament_id"`
	Team1ID      string         `json:"team1_id"`
	Team2ID      string         `json:"team2_id"`
	StartTime    time.Time      `json:"start_time"`
	Status       string         `json:"status"`
	Score        *matchScoreDTO `json:"score,omitempty"`
}

func tournamentToDTO(t catalog.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:        t.ID,
		Name:      t.Name,
		Sport:     string(t.Sport),
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		Status:    string(t.Status),
	}
}

func playerToDTO(p catalog.Player) playerDTO {
	return playerDTO{
		ID:        p.ID,
		Name:      p.Name,
		TeamID:    p.TeamID,
		Position:  string(p.Position),
		Points:    p.Points,
		Price:     p.Price,
		IsPlaying: p.IsPlaying,
	}
}

func matchToDTO(m catalog.Match) matchDTO {
	dto := matchDTO{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		Team1ID:      m.Team1ID,
		Team2ID:      m.Team2ID,
		StartTime:    m.StartTime,
		Status:       string(m.Status),
	}
	if m.Score != nil {
		dto.Score = &matchScoreDTO{
			Team1Score: m.Score.Team1Score,
			Team2Score: m.Score.Team2Score,
		}
	}
	return dto
}
