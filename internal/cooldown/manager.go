// Package cooldown gates repeatable actions. Manager is the client-side
// timer advanced by the session ticker; Store is the server-side arbiter.
package cooldown

import "time"

type Kind string

const (
	KindMinions Kind = "minions"
	KindExplore Kind = "explore"
)

// Manager is not safe for concurrent use; its owner serializes access.
type Manager struct {
	durations map[Kind]time.Duration
	remaining map[Kind]time.Duration
}

func NewManager(durations map[Kind]time.Duration) *Manager {
	d := make(map[Kind]time.Duration, len(durations))
	for k, v := range durations {
		d[k] = v
	}
	return &Manager{durations: d, remaining: make(map[Kind]time.Duration)}
}

func (m *Manager) Ready(kind Kind) bool {
	return m.remaining[kind] <= 0
}

func (m *Manager) Remaining(kind Kind) time.Duration {
	return m.remaining[kind]
}

// Start puts kind on cooldown for its configured duration.
func (m *Manager) Start(kind Kind) {
	if d := m.durations[kind]; d > 0 {
		m.remaining[kind] = d
	}
}

func (m *Manager) Clear(kind Kind) {
	delete(m.remaining, kind)
}

// Tick advances every timer by elapsed. Negative elapsed is ignored and
// timers clamp at zero.
func (m *Manager) Tick(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	for kind, left := range m.remaining {
		left -= elapsed
		if left <= 0 {
			delete(m.remaining, kind)
			continue
		}
		m.remaining[kind] = left
	}
}

func (m *Manager) Reset() {
	m.remaining = make(map[Kind]time.Duration)
}

// Snapshot copies the active timers.
func (m *Manager) Snapshot() map[Kind]time.Duration {
	out := make(map[Kind]time.Duration, len(m.remaining))
	for k, v := range m.remaining {
		out[k] = v
	}
	return out
}
