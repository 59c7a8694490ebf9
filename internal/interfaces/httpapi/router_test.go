package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/domain/user"
	"github.com/fanarena/contest-engine/internal/infrastructure/repository/memory"
	"github.com/fanarena/contest-engine/internal/infrastructure/wallet"
	"github.com/fanarena/contest-engine/internal/platform/cache"
	"github.com/fanarena/contest-engine/internal/platform/sequence"
	"github.com/fanarena/contest-engine/internal/usecase"
)

const testJobToken = "job-secret"

// tokenVerifier maps bearer tokens to principals, standing in for the
// identity service.
type tokenVerifier map[string]user.Principal

func (v tokenVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

type routerEnv struct {
	router http.Handler
	ledger *wallet.MemoryLedger
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	teamRepo := memory.NewFantasyTeamRepository()
	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	contestRepo := memory.NewContestRepository()
	poolRepo := memory.NewPrizePoolRepository()
	rewardRepo := memory.NewUserRewardRepository()
	txRepo := memory.NewTransactionRepository()
	scoreRepo := memory.NewScoreRepository()
	ruleRepo := memory.NewRuleRepository()
	tournamentRepo := memory.NewTournamentRepository()
	catalogTeamRepo := memory.NewTeamRepository()
	ledger := wallet.NewMemoryLedger()
	seq := sequence.NewMemorySource()
	logger := slog.New(slog.DiscardHandler)

	teams := usecase.NewTeamService(teamRepo, playerRepo, fantasy.DefaultRules(), seq, logger)
	contests := usecase.NewContestService(contestRepo, teamRepo, matchRepo, poolRepo, txRepo, ledger, seq, logger)
	scoring := usecase.NewScoringService(scoreRepo, ruleRepo, teamRepo, logger)
	settlement := usecase.NewSettlementService(contestRepo, teamRepo, scoring, logger)
	rewards := usecase.NewRewardService(rewardRepo, poolRepo, contestRepo, txRepo, ledger, seq, logger)
	catalogSvc := usecase.NewCatalogService(tournamentRepo, catalogTeamRepo, playerRepo, matchRepo, cache.NewStore(time.Minute), logger)
	ingestion := usecase.NewIngestionService(nil, scoring, matchRepo, 2, logger)

	ctx := context.Background()
	match := catalog.Match{
		ID:           "mt-1",
		TournamentID: "tr-1",
		Team1ID:      "tm-a",
		Team2ID:      "tm-b",
		StartTime:    time.Now().Add(2 * time.Hour),
		Status:       catalog.MatchScheduled,
	}
	if err := matchRepo.Upsert(ctx, match); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	for i := 1; i <= 11; i++ {
		p := catalog.Player{
			ID:        fmt.Sprintf("pl-%02d", i),
			Name:      fmt.Sprintf("Player %02d", i),
			TeamID:    "tm-a",
			Position:  catalog.PositionBatsman,
			Price:     8,
			IsPlaying: true,
		}
		if err := playerRepo.Upsert(ctx, p); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}

	handler := NewHandler(teams, contests, scoring, settlement, rewards, catalogSvc, ingestion, logger)
	verifier := tokenVerifier{
		"tok-u1": {UserID: "u1"},
		"tok-u2": {UserID: "u2"},
	}

	return &routerEnv{
		router: NewRouter(handler, verifier, logger, []string{"*"}, testJobToken),
		ledger: ledger,
	}
}

func (env *routerEnv) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope for %s %s: %v (body %q)", method, path, err, rec.Body.String())
	}
	return rec, envelope
}

func errorCode(envelope map[string]any) string {
	errObj, _ := envelope["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestRouter_JoinContestFlow(t *testing.T) {
	env := newRouterEnv(t)
	env.ledger.SetBalance("u1", 50)
	env.ledger.SetBalance("u2", 3)

	teamBody := `{"name":"U1 XI","player_ids":["pl-01","pl-02","pl-03","pl-04","pl-05","pl-06","pl-07","pl-08","pl-09","pl-10","pl-11"],"captain_id":"pl-01","vice_captain_id":"pl-02"}`
	rec, envelope := env.do(t, http.MethodPost, "/v1/fantasy/teams", "tok-u1", teamBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	teamData := envelope["data"].(map[string]any)
	teamID := teamData["id"].(string)

	contestBody := `{"name":"Mega Contest","match_id":"mt-1","entry_fee":10,"total_spots":2,"prize_pool":100,"type":"multi_player"}`
	rec, envelope = env.do(t, http.MethodPost, "/v1/contests", "tok-u1", contestBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create contest: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	contestData := envelope["data"].(map[string]any)
	contestID := contestData["id"].(string)

	joinPath := "/v1/contests/" + contestID + "/join"
	joinBody := `{"team_id":"` + teamID + `"}`

	rec, envelope = env.do(t, http.MethodPost, joinPath, "tok-u1", joinBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("join: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got, _ := env.ledger.Balance(context.Background(), "u1"); got != 40 {
		t.Fatalf("expected balance 40 after entry fee, got %d", got)
	}

	// Second join by the same user is a duplicate.
	rec, envelope = env.do(t, http.MethodPost, joinPath, "tok-u1", joinBody)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate join: expected 409, got %d", rec.Code)
	}
	if got := errorCode(envelope); got != "STATE_CONFLICT" {
		t.Fatalf("duplicate join: expected STATE_CONFLICT, got %q", got)
	}

	// u2 cannot afford the entry fee, and may not use u1's team anyway.
	rec, envelope = env.do(t, http.MethodPost, joinPath, "tok-u2", joinBody)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign team join: expected 401, got %d", rec.Code)
	}

	rec, envelope = env.do(t, http.MethodGet, "/v1/contests/"+contestID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get contest: expected 200, got %d", rec.Code)
	}
	contestData = envelope["data"].(map[string]any)
	if got := contestData["filled_spots"].(float64); got != 1 {
		t.Fatalf("expected 1 filled spot, got %v", got)
	}
}

func TestRouter_UnknownContestIs404(t *testing.T) {
	env := newRouterEnv(t)

	rec, envelope := env.do(t, http.MethodGet, "/v1/contests/999", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := errorCode(envelope); got != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %q", got)
	}
}

func TestRouter_ProtectedRouteRequiresToken(t *testing.T) {
	env := newRouterEnv(t)

	rec, envelope := env.do(t, http.MethodGet, "/v1/rewards/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := errorCode(envelope); got != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %q", got)
	}
}

func TestRouter_InternalRecordPlayerStats(t *testing.T) {
	env := newRouterEnv(t)

	body := `{"player_id":"pl-01","match_id":"mt-1","stats":{"runs":50,"wickets":1}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/scoring/player-stats", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("record stats: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	data := envelope["data"].(map[string]any)
	if got := data["points"].(float64); got != 60 {
		t.Fatalf("expected 60 points for 50 runs and 1 wicket, got %v", got)
	}
}
