package memory

import (
	"context"
	"sync"

	"github.com/fanarena/contest-engine/internal/domain/catalog"
	"github.com/fanarena/contest-engine/internal/domain/scoring"
)

type scoreKey struct {
	playerID string
	matchID  string
}

type ScoreRepository struct {
	mu     sync.RWMutex
	scores map[scoreKey]scoring.PlayerScore
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{scores: make(map[scoreKey]scoring.PlayerScore)}
}

func (r *ScoreRepository) Get(_ context.Context, playerID, matchID string) (scoring.PlayerScore, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scores[scoreKey{playerID: playerID, matchID: matchID}]
	return s, ok, nil
}

func (r *ScoreRepository) ListByMatch(_ context.Context, matchID string) ([]scoring.PlayerScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.PlayerScore, 0)
	for k, s := range r.scores {
		if k.matchID == matchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *ScoreRepository) Upsert(_ context.Context, score scoring.PlayerScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scores[scoreKey{playerID: score.PlayerID, matchID: score.MatchID}] = score
	return nil
}

type ruleKey struct {
	sport  catalog.Sport
	action string
}

type RuleRepository struct {
	mu    sync.RWMutex
	rules map[ruleKey]scoring.Rule
	order []ruleKey
}

// NewRuleRepository starts from the platform default rule table.
func NewRuleRepository() *RuleRepository {
	r := &RuleRepository{rules: make(map[ruleKey]scoring.Rule)}
	for _, rule := range scoring.DefaultRules() {
		r.put(rule)
	}
	return r
}

func (r *RuleRepository) ListBySport(_ context.Context, sport catalog.Sport) ([]scoring.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Rule, 0)
	for _, k := range r.order {
		if k.sport == sport {
			out = append(out, r.rules[k])
		}
	}
	return out, nil
}

func (r *RuleRepository) List(_ context.Context) ([]scoring.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Rule, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.rules[k])
	}
	return out, nil
}

func (r *RuleRepository) Put(_ context.Context, rule scoring.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(rule)
	return nil
}

func (r *RuleRepository) put(rule scoring.Rule) {
	k := ruleKey{sport: rule.Sport, action: rule.Action}
	if _, ok := r.rules[k]; !ok {
		r.order = append(r.order, k)
	}
	r.rules[k] = rule
}
