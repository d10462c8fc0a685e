package player

import (
	"context"
	"log/slog"
	"math"
	"time"

	"dragons-den/internal/achievement"
	"dragons-den/internal/cooldown"
	"dragons-den/internal/gamedata"
	"dragons-den/internal/ledger"
	"dragons-den/internal/random"
	"dragons-den/internal/shared/database"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/world"
)

type Options struct {
	Catalog   *gamedata.Catalog
	World     *world.Registry
	Cooldowns cooldown.Store
	// Durations per gated action; a zero duration disables the gate.
	Durations map[cooldown.Kind]time.Duration
	Source    random.Source
	Now       func() time.Time
}

// Service owns every mutation of player state. Mutations for one player are
// serialized and each runs in a single transaction.
type Service struct {
	repo      *Repository
	catalog   *gamedata.Catalog
	world     *world.Registry
	cooldowns cooldown.Store
	durations map[cooldown.Kind]time.Duration
	src       random.Source
	now       func() time.Time
	locks     *keyedMutex
	logger    *slog.Logger
}

func NewService(repo *Repository, opts Options, logger *slog.Logger) *Service {
	logger.Debug("Initializing player service")

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Source == nil {
		opts.Source = random.System()
	}
	if opts.Cooldowns == nil {
		opts.Cooldowns = cooldown.NewMemoryStore(opts.Now)
	}

	return &Service{
		repo:      repo,
		catalog:   opts.Catalog,
		world:     opts.World,
		cooldowns: opts.Cooldowns,
		durations: opts.Durations,
		src:       opts.Source,
		now:       opts.Now,
		locks:     newKeyedMutex(),
		logger:    logger,
	}
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Get returns the player's snapshot, creating the account on first access.
func (s *Service) Get(ctx context.Context, playerID string) (Snapshot, error) {
	p, _, err := s.mutate(ctx, playerID, "get", func(*Player) error { return nil })
	if err != nil {
		return Snapshot{}, err
	}
	return p.Snapshot(ledger.SessionRate(p.Goblins)), nil
}

func (s *Service) CollectGold(ctx context.Context, playerID string) (ActionResult, error) {
	var earned float64
	p, done, err := s.mutate(ctx, playerID, "collect_gold", func(p *Player) error {
		earned = ledger.GoldPerClick(ledger.Snapshot{
			Goblins:             p.Goblins,
			TreasureMultipliers: s.catalog.ClickMultipliers(p.Treasures),
		})
		p.earn(earned)
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Success: true, Gold: p.Gold, Goblins: p.Goblins, GoldEarned: &earned, NewAchievements: done}, nil
}

func (s *Service) HireGoblin(ctx context.Context, playerID string) (ActionResult, error) {
	var cost float64
	p, done, err := s.mutate(ctx, playerID, "hire_goblin", func(p *Player) error {
		cost = ledger.HireCost(p.Goblins)
		if p.Gold < cost {
			return errors.Rejected("Not enough gold to hire goblin")
		}
		p.Gold -= cost
		p.Goblins++
		p.GoblinsHired++
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Success: true, Gold: p.Gold, Goblins: p.Goblins, Cost: &cost, NewAchievements: done}, nil
}

// SendMinions pays goblins*2 gold, varied by ±25%.
func (s *Service) SendMinions(ctx context.Context, playerID string) (ActionResult, error) {
	var earned float64
	p, done, err := s.mutate(ctx, playerID, "send_minions", func(p *Player) error {
		if p.Goblins == 0 {
			return errors.Rejected("No goblins to send")
		}
		if err := s.acquire(ctx, playerID, cooldown.KindMinions, "Minions are still resting"); err != nil {
			return err
		}
		earned = math.Round(ledger.SendMinionsEstimate(p.Goblins) * (0.75 + 0.5*s.src.Float64()))
		p.earn(earned)
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Success: true, Gold: p.Gold, Goblins: p.Goblins, GoldEarned: &earned, NewAchievements: done}, nil
}

func (s *Service) ExploreRuins(ctx context.Context, playerID string, req ExploreRequest) (ExploreResult, error) {
	if req.RuinID == "" || req.ExplorationType == "" {
		return ExploreResult{}, errors.Validation("ruin_id and exploration_type are required")
	}
	if !s.catalog.ValidExplorationType(req.ExplorationType) {
		return ExploreResult{}, errors.Validationf("unknown exploration type %q", req.ExplorationType)
	}
	ruin, _, ok := s.world.Ruin(req.RuinID)
	if !ok {
		return ExploreResult{}, errors.NotFoundf("Ruin %s not found", req.RuinID)
	}

	res := ExploreResult{Success: true}
	_, done, err := s.mutate(ctx, playerID, "explore_ruins", func(p *Player) error {
		if err := s.acquire(ctx, playerID, cooldown.KindExplore, "Still recovering from the last expedition"); err != nil {
			return err
		}
		p.ExplorationsCompleted++

		chance := s.catalog.TreasureChance(req.ExplorationType, string(ruin.Difficulty))
		if !random.Chance(s.src, chance) {
			return nil
		}
		t := s.catalog.PickTreasure(s.src)
		res.TreasureFound = true
		res.TreasureID = t.ID
		p.TreasuresCollected++
		if !p.HasTreasure(t.ID) {
			p.Treasures = append(p.Treasures, t.ID)
		}
		return nil
	})
	if err != nil {
		return ExploreResult{}, err
	}
	res.NewAchievements = done
	return res, nil
}

func (s *Service) Prestige(ctx context.Context, playerID string) (ActionResult, error) {
	p, done, err := s.mutate(ctx, playerID, "prestige", func(p *Player) error {
		if !ledger.CanPrestige(p.Gold) {
			return errors.Rejected("Not enough gold to prestige")
		}
		p.Gold = 0
		p.Goblins = 0
		p.PrestigeLevel++
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	level := p.PrestigeLevel
	return ActionResult{Success: true, Gold: p.Gold, Goblins: p.Goblins, PrestigeLevel: &level, NewAchievements: done}, nil
}

func (s *Service) acquire(ctx context.Context, playerID string, kind cooldown.Kind, message string) error {
	d := s.durations[kind]
	if d <= 0 {
		return nil
	}
	ok, left, err := s.cooldowns.Acquire(ctx, cooldown.Key(playerID, kind), d)
	if err != nil {
		return errors.WrapExternal("cooldown store unavailable", err)
	}
	if !ok {
		return errors.Rejectedf("%s (%ds left)", message, int(math.Ceil(left.Seconds())))
	}
	return nil
}

// mutate loads or creates the player, credits passive gold since the last
// tick, applies fn, evaluates achievements and saves. Nothing is saved when
// fn fails.
func (s *Service) mutate(ctx context.Context, playerID, operation string, fn func(p *Player) error) (*Player, []string, error) {
	if playerID == "" {
		return nil, nil, errors.Unauthorized("Authentication required")
	}
	logger := s.logger.With("component", "player_service", "operation", operation, "player_id", playerID)

	unlock := s.locks.Lock(playerID)
	defer unlock()

	var p *Player
	var completed []string
	err := s.repo.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		p, err = s.repo.Get(ctx, playerID, tx)
		if err != nil {
			return errors.WrapInternal("failed to load player", err)
		}
		now := s.now()
		if p == nil {
			logger.Info("Creating player")
			p = newPlayer(playerID, now)
		}
		accrue(p, now)

		if err := fn(p); err != nil {
			return err
		}

		completed = s.evaluate(p)
		p.UpdatedAt = now
		if err := s.repo.Save(ctx, p, tx); err != nil {
			return errors.WrapInternal("failed to save player", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(completed) > 0 {
		logger.Info("Achievements completed", "achievements", completed)
	}
	logger.Debug("Player updated", "gold", p.Gold, "goblins", p.Goblins)
	return p, completed, nil
}

// accrue credits the passive rate for the time since the last tick.
func accrue(p *Player, now time.Time) {
	if secs := now.Sub(p.LastTickAt).Seconds(); secs > 0 {
		p.earn(ledger.SessionRate(p.Goblins) * secs)
	}
	p.LastTickAt = now
}

func (s *Service) evaluate(p *Player) []string {
	e := achievement.NewEvaluator(s.catalog.Achievements, s.now)
	e.Restore(p.Achievements, p.UpdatedAt)

	var ids []string
	for _, a := range e.Check(Stats(p)) {
		ids = append(ids, a.ID)
		p.Achievements = append(p.Achievements, a.ID)
	}
	return ids
}

// Stats is the account view the catalog achievements are evaluated against.
func Stats(p *Player) achievement.Stats {
	return achievement.Stats{
		achievement.GoldAccumulated:       p.TotalGoldEarned,
		achievement.GoblinsHired:          float64(p.GoblinsHired),
		achievement.ExplorationsCompleted: float64(p.ExplorationsCompleted),
		achievement.TreasuresCollected:    float64(p.TreasuresCollected),
		achievement.PrestigeLevel:         float64(p.PrestigeLevel),
	}
}
