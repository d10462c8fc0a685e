// Package session runs one player's client: optimistic actions, the accrual
// ticker and reconciliation with the server snapshot. A Session is the only
// writer of its state and serializes every mutation under one lock.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"dragons-den/internal/achievement"
	"dragons-den/internal/apiclient"
	"dragons-den/internal/cooldown"
	"dragons-den/internal/ledger"

	"github.com/google/uuid"
)

// API is the backend as the session sees it. *apiclient.Client satisfies it.
type API interface {
	Player(ctx context.Context) (apiclient.PlayerSnapshot, error)
	CollectGold(ctx context.Context) (apiclient.ActionResponse, error)
	HireGoblin(ctx context.Context) (apiclient.ActionResponse, error)
	SendMinions(ctx context.Context) (apiclient.ActionResponse, error)
	ExploreRuins(ctx context.Context, ruinID, explorationType string) (apiclient.ActionResponse, error)
	Prestige(ctx context.Context) (apiclient.ActionResponse, error)
}

type tokenSetter interface {
	SetToken(token string)
}

type Options struct {
	Token          string
	TickInterval   time.Duration
	SyncInterval   time.Duration
	FocusThreshold time.Duration
	Cooldowns      map[cooldown.Kind]time.Duration
	Achievements   []achievement.Definition
	Store          *FileStore
	Now            func() time.Time
	NewID          func() string
	Logger         *slog.Logger
	// OnTick runs on the ticker goroutine after each gold accrual.
	OnTick         func(elapsed time.Duration)
}

func DefaultCooldowns() map[cooldown.Kind]time.Duration {
	return map[cooldown.Kind]time.Duration{
		cooldown.KindMinions: 10 * time.Second,
		cooldown.KindExplore: 30 * time.Second,
	}
}

type Session struct {
	mu     sync.Mutex
	api    API
	opts   Options
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
	store  *FileStore
	token  string

	serverGold         float64
	serverGoblins      int
	serverAchievements []string
	serverTreasures    []string
	prestigeLevel      int
	lastServerSync     time.Time
	goldPerSecond      float64

	// settled* exclude live pending deltas; optimistic values are derived
	// so a rollback restores the pre-action value exactly.
	settledGold    float64
	settledGoblins int

	pending      map[string]*PendingAction
	cooldowns    *cooldown.Manager
	loading      bool
	err          *ErrorState
	authRequired bool
	loginURL     string

	evaluator    *achievement.Evaluator
	completed    []achievement.Achievement
	goldEarned   float64
	goblinsHired int
	explorations int

	ticker *loop
	syncer *loop
}

func New(api API, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = 30 * time.Second
	}
	if opts.FocusThreshold <= 0 {
		opts.FocusThreshold = 5 * time.Second
	}
	if opts.Cooldowns == nil {
		opts.Cooldowns = DefaultCooldowns()
	}

	s := &Session{
		api:    api,
		opts:   opts,
		now:    opts.Now,
		newID:  opts.NewID,
		logger: opts.Logger.With("component", "session"),
		store:  opts.Store,
		token:  opts.Token,
	}
	s.resetLocked()
	return s
}

func (s *Session) resetLocked() {
	s.serverGold, s.serverGoblins, s.prestigeLevel = 0, 0, 0
	s.serverAchievements, s.serverTreasures = []string{}, []string{}
	s.lastServerSync = time.Time{}
	s.goldPerSecond = ledger.SessionRate(0)
	s.settledGold, s.settledGoblins = 0, 0
	s.pending = make(map[string]*PendingAction)
	s.cooldowns = cooldown.NewManager(s.opts.Cooldowns)
	s.loading = false
	s.err = nil
	s.authRequired, s.loginURL = false, ""
	s.evaluator = achievement.NewEvaluator(s.opts.Achievements, s.now)
	s.completed = nil
	s.goldEarned, s.goblinsHired, s.explorations = 0, 0, 0
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]PendingAction, 0, len(s.pending))
	for _, p := range s.pendingInOrder() {
		pending = append(pending, *p)
	}
	gold, goblins := s.optimistic()

	var errState *ErrorState
	if s.err != nil {
		e := *s.err
		errState = &e
	}

	return State{
		ServerGold:         s.serverGold,
		ServerGoblins:      s.serverGoblins,
		ServerAchievements: append([]string{}, s.serverAchievements...),
		ServerTreasures:    append([]string{}, s.serverTreasures...),
		PrestigeLevel:      s.prestigeLevel,
		LastServerSync:     s.lastServerSync,
		GoldPerSecond:      s.goldPerSecond,
		OptimisticGold:     gold,
		OptimisticGoblins:  goblins,
		Pending:            pending,
		Cooldowns:          s.cooldowns.Snapshot(),
		Loading:            s.loading,
		Error:              errState,
		AuthRequired:       s.authRequired,
		LoginURL:           s.loginURL,
	}
}

// Completed drains achievements completed since the last call.
func (s *Session) Completed() []achievement.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.completed
	s.completed = nil
	return out
}

func (s *Session) Achievements() []achievement.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.All()
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// Advance credits passive gold for elapsed and runs the cooldown timers.
func (s *Session) Advance(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	earned := s.goldPerSecond * elapsed.Seconds()
	s.settledGold += earned
	s.goldEarned += earned
	s.cooldowns.Tick(elapsed)
}

type plan struct {
	gold     float64
	goblins  int
	cooldown cooldown.Kind
	payload  map[string]any
}

type settle struct {
	// adjust runs only while the pending entry is still live.
	adjust func(p *PendingAction, resp apiclient.ActionResponse)
	// record runs for every accepted action.
	record func(resp apiclient.ActionResponse)
}

func (s *Session) CollectGold(ctx context.Context) Outcome {
	return s.dispatch(ctx, ActionCollect,
		func() (plan, bool) { return plan{gold: 1}, true },
		s.api.CollectGold,
		settle{record: func(apiclient.ActionResponse) { s.goldEarned++ }},
	)
}

func (s *Session) HireGoblin(ctx context.Context) Outcome {
	return s.dispatch(ctx, ActionHire,
		func() (plan, bool) {
			gold, goblins := s.optimistic()
			cost := ledger.HireCost(goblins)
			if gold < cost {
				return plan{}, false
			}
			return plan{gold: -cost, goblins: 1, payload: map[string]any{"cost": cost}}, true
		},
		s.api.HireGoblin,
		settle{record: func(apiclient.ActionResponse) { s.goblinsHired++ }},
	)
}

func (s *Session) SendMinions(ctx context.Context) Outcome {
	return s.dispatch(ctx, ActionSend,
		func() (plan, bool) {
			_, goblins := s.optimistic()
			if goblins <= 0 || !s.cooldowns.Ready(cooldown.KindMinions) {
				return plan{}, false
			}
			estimate := ledger.SendMinionsEstimate(goblins)
			return plan{gold: estimate, cooldown: cooldown.KindMinions, payload: map[string]any{"estimate": estimate}}, true
		},
		s.api.SendMinions,
		settle{
			adjust: func(p *PendingAction, resp apiclient.ActionResponse) {
				s.settledGold += resp.Earned(p.GoldDelta) - p.GoldDelta
			},
			record: func(resp apiclient.ActionResponse) {
				s.goldEarned += resp.Earned(0)
			},
		},
	)
}

// ExploreRuins resyncs after a treasure find since its contents are only
// known to the server.
func (s *Session) ExploreRuins(ctx context.Context, ruinID, explorationType string) Outcome {
	found := false
	outcome := s.dispatch(ctx, ActionExplore,
		func() (plan, bool) {
			if ruinID == "" || explorationType == "" {
				s.err = &ErrorState{Kind: apiclient.KindValidation, Message: "ruin_id and exploration_type are required"}
				return plan{}, false
			}
			if !s.cooldowns.Ready(cooldown.KindExplore) {
				return plan{}, false
			}
			return plan{cooldown: cooldown.KindExplore, payload: map[string]any{
				"ruin_id":          ruinID,
				"exploration_type": explorationType,
			}}, true
		},
		func(ctx context.Context) (apiclient.ActionResponse, error) {
			return s.api.ExploreRuins(ctx, ruinID, explorationType)
		},
		settle{record: func(resp apiclient.ActionResponse) {
			s.explorations++
			found = resp.TreasureFound
		}},
	)

	if outcome == OutcomeCommitted && found {
		_ = s.Sync(ctx)
	}
	return outcome
}

// Prestige leaves the new prestige level for the next sync to pick up.
func (s *Session) Prestige(ctx context.Context) Outcome {
	return s.dispatch(ctx, ActionPrestige,
		func() (plan, bool) {
			gold, _ := s.optimistic()
			return plan{}, ledger.CanPrestige(gold)
		},
		s.api.Prestige,
		settle{adjust: func(*PendingAction, apiclient.ActionResponse) {
			s.settledGold, s.settledGoblins = 0, 0
			s.serverGold, s.serverGoblins = 0, 0
			s.goldPerSecond = ledger.SessionRate(0)
		}},
	)
}

func (s *Session) dispatch(
	ctx context.Context,
	kind ActionKind,
	prepare func() (plan, bool),
	call func(context.Context) (apiclient.ActionResponse, error),
	done settle,
) Outcome {
	logger := s.logger.With("operation", "dispatch", "action", kind)

	s.mu.Lock()
	pl, ok := prepare()
	if !ok {
		s.mu.Unlock()
		logger.Debug("Action skipped by local precondition")
		return OutcomeSkipped
	}

	p := &PendingAction{
		ID:          s.newID(),
		Kind:        kind,
		Payload:     pl.payload,
		SubmittedAt: s.now(),
		GoldDelta:   pl.gold,
		GoblinDelta: pl.goblins,
		cooldown:    pl.cooldown,
	}
	s.apply(p)
	s.mu.Unlock()

	resp, err := call(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, live := s.pending[p.ID]
	delete(s.pending, p.ID)

	if err != nil {
		if live {
			s.rollback(p)
		}
		s.fail(err)
		logger.Debug("Action rolled back", "pending_id", p.ID, "error", err, "live", live)
		return OutcomeRolledBack
	}

	if live {
		s.settledGold += p.GoldDelta
		s.settledGoblins += p.GoblinDelta
		if done.adjust != nil {
			done.adjust(p, resp)
		}
		s.refreshRate()
	}
	if done.record != nil {
		done.record(resp)
	}
	s.err = nil
	s.authRequired = false
	s.evaluate()
	logger.Debug("Action committed", "pending_id", p.ID, "live", live)
	return OutcomeCommitted
}

func (s *Session) apply(p *PendingAction) {
	s.pending[p.ID] = p
	if p.cooldown != "" {
		s.cooldowns.Start(p.cooldown)
	}
	s.refreshRate()
}

// rollback runs after p has left the pending set.
func (s *Session) rollback(p *PendingAction) {
	if p.cooldown != "" {
		s.cooldowns.Clear(p.cooldown)
	}
	s.refreshRate()
}

func (s *Session) refreshRate() {
	_, goblins := s.optimistic()
	s.goldPerSecond = ledger.SessionRate(goblins)
}

// optimistic is the settled state plus every live pending delta.
func (s *Session) optimistic() (float64, int) {
	gold, goblins := s.settledGold, s.settledGoblins
	for _, p := range s.pendingInOrder() {
		gold += p.GoldDelta
		goblins += p.GoblinDelta
	}
	return gold, goblins
}

func (s *Session) pendingInOrder() []*PendingAction {
	out := make([]*PendingAction, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

func (s *Session) fail(err error) {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		apiErr = &apiclient.Error{Kind: apiclient.KindTransport, Message: err.Error()}
	}

	if apiErr.Kind == apiclient.KindUnauthorized {
		s.authRequired = true
		s.loginURL = apiErr.LoginURL
		return
	}
	s.err = &ErrorState{Kind: apiErr.Kind, Message: apiErr.Message}
}

func (s *Session) stats() achievement.Stats {
	return achievement.Stats{
		achievement.GoldAccumulated:       max(s.goldEarned, s.serverGold),
		achievement.GoblinsHired:          float64(max(s.goblinsHired, s.serverGoblins)),
		achievement.ExplorationsCompleted: float64(s.explorations),
		achievement.TreasuresCollected:    float64(len(s.serverTreasures)),
		achievement.PrestigeLevel:         float64(s.prestigeLevel),
	}
}

func (s *Session) evaluate() {
	done := s.evaluator.Check(s.stats())
	for _, a := range done {
		s.logger.Info("Achievement completed", "achievement", a.ID)
	}
	s.completed = append(s.completed, done...)
}
