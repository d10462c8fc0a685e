package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"dragons-den/internal/apiclient"
	"dragons-den/internal/ledger"
)

// loop runs fn every interval until stopped.
type loop struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startLoop(interval time.Duration, fn func()) *loop {
	l := &loop{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(l.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-t.C:
				fn()
			}
		}
	}()
	return l
}

func (l *loop) halt() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// Start performs the initial sync, then runs the ticker and the periodic
// resync until Stop. The initial sync error is returned but does not stop
// the loops.
func (s *Session) Start(ctx context.Context) error {
	err := s.Sync(ctx)
	s.StartTicker()

	s.mu.Lock()
	if s.syncer == nil {
		interval := s.opts.SyncInterval
		s.syncer = startLoop(interval, func() {
			syncCtx, cancel := context.WithTimeout(context.Background(), apiclient.DefaultTimeout)
			defer cancel()
			_ = s.Sync(syncCtx)
		})
	}
	s.mu.Unlock()

	return err
}

// Stop halts the loops and makes a final best-effort sync.
func (s *Session) Stop(ctx context.Context) {
	s.StopTicker()
	s.haltSyncer()

	if err := s.Sync(ctx); err != nil {
		s.logger.Debug("Final sync failed", "error", err)
	}
}

// StartTicker is idempotent.
func (s *Session) StartTicker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil {
		return
	}

	last := s.now()
	s.ticker = startLoop(s.opts.TickInterval, func() {
		now := s.now()
		elapsed := now.Sub(last)
		last = now
		s.Advance(elapsed)
		if s.opts.OnTick != nil {
			s.opts.OnTick(elapsed)
		}
	})
}

// StopTicker is a no-op when the ticker is not running.
func (s *Session) StopTicker() {
	s.mu.Lock()
	t := s.ticker
	s.ticker = nil
	s.mu.Unlock()

	if t != nil {
		t.halt()
	}
}

func (s *Session) haltSyncer() {
	s.mu.Lock()
	l := s.syncer
	s.syncer = nil
	s.mu.Unlock()

	if l != nil {
		l.halt()
	}
}

// Sync fetches the server snapshot and reconciles with it. It returns nil
// without fetching when another sync is already in flight.
func (s *Session) Sync(ctx context.Context) error {
	logger := s.logger.With("operation", "sync")

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		logger.Debug("Sync already in flight")
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	snap, err := s.api.Player(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.fail(err)
		s.mu.Unlock()
		logger.Debug("Sync failed", "error", err)
		return err
	}
	s.reconcile(snap)
	s.mu.Unlock()

	s.save()
	return nil
}

// Focus resyncs when the last sync is older than the focus threshold.
func (s *Session) Focus(ctx context.Context) bool {
	s.mu.Lock()
	stale := s.now().Sub(s.lastServerSync) > s.opts.FocusThreshold
	s.mu.Unlock()

	if !stale {
		return false
	}
	_ = s.Sync(ctx)
	return true
}

// Reconcile overwrites local state with snap. Pending actions are dropped.
func (s *Session) Reconcile(snap apiclient.PlayerSnapshot) {
	s.mu.Lock()
	s.reconcile(snap)
	s.mu.Unlock()
	s.save()
}

func (s *Session) reconcile(snap apiclient.PlayerSnapshot) {
	now := s.now()

	s.serverGold = snap.Gold
	s.serverGoblins = snap.Goblins
	s.serverAchievements = append([]string{}, snap.Achievements...)
	s.serverTreasures = append([]string{}, snap.Treasures...)
	s.prestigeLevel = snap.PrestigeLevel
	s.lastServerSync = now

	s.settledGold = s.serverGold
	s.settledGoblins = s.serverGoblins
	s.goldPerSecond = ledger.SessionRate(s.serverGoblins)
	s.pending = make(map[string]*PendingAction)

	s.authRequired = false
	s.err = nil
	if !snap.Valid() {
		s.err = &ErrorState{
			Kind:    apiclient.KindInvalidData,
			Message: "Invalid server data: " + strings.Join(snap.Problems, "; "),
		}
		s.logger.Warn("Reconciled with invalid server data", "problems", snap.Problems)
	}

	s.evaluator.Restore(s.serverAchievements, now)
	s.evaluate()
}

// Logout stops the loops, forgets everything and removes the saved state.
// An API that implements SetToken has its credential dropped too.
func (s *Session) Logout() error {
	s.StopTicker()
	s.haltSyncer()

	s.mu.Lock()
	s.resetLocked()
	s.token = ""
	s.mu.Unlock()

	if t, ok := s.api.(tokenSetter); ok {
		t.SetToken("")
	}

	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

func (s *Session) Persisted() Persisted {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Persisted{
		Token:              s.token,
		ServerGold:         s.serverGold,
		ServerGoblins:      s.serverGoblins,
		ServerAchievements: append([]string{}, s.serverAchievements...),
		ServerTreasures:    append([]string{}, s.serverTreasures...),
		LastServerSync:     s.lastServerSync,
		GoldPerSecond:      s.goldPerSecond,
	}
}

// Restore loads p and resets every transient field; optimistic values
// start equal to the restored server values.
func (s *Session) Restore(p Persisted) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	if p.Token != "" {
		s.token = p.Token
	}
	s.serverGold = p.ServerGold
	s.serverGoblins = p.ServerGoblins
	s.serverAchievements = append([]string{}, p.ServerAchievements...)
	s.serverTreasures = append([]string{}, p.ServerTreasures...)
	s.lastServerSync = p.LastServerSync
	s.goldPerSecond = p.GoldPerSecond
	if s.goldPerSecond <= 0 {
		s.goldPerSecond = ledger.SessionRate(s.serverGoblins)
	}

	s.settledGold = s.serverGold
	s.settledGoblins = s.serverGoblins
	s.evaluator.Restore(s.serverAchievements, p.LastServerSync)
}

func (s *Session) save() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.Persisted()); err != nil {
		s.logger.Warn("Failed to save session", "error", err)
	}
}
