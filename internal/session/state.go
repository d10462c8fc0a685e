package session

import (
	"time"

	"dragons-den/internal/apiclient"
	"dragons-den/internal/cooldown"
)

type Outcome string

const (
	OutcomeSkipped    Outcome = "skipped"
	OutcomeCommitted  Outcome = "committed"
	OutcomeRolledBack Outcome = "rolled_back"
)

type ActionKind string

const (
	ActionCollect  ActionKind = "collect"
	ActionHire     ActionKind = "hire"
	ActionSend     ActionKind = "send"
	ActionExplore  ActionKind = "explore"
	ActionPrestige ActionKind = "prestige"
)

// PendingAction records an optimistic mutation until its request resolves.
// GoldDelta and GoblinDelta are exactly what was applied.
type PendingAction struct {
	ID          string         `json:"id"`
	Kind        ActionKind     `json:"kind"`
	Payload     map[string]any `json:"payload,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	GoldDelta   float64        `json:"gold_delta"`
	GoblinDelta int            `json:"goblin_delta"`

	cooldown cooldown.Kind
}

type ErrorState struct {
	Kind    apiclient.Kind `json:"kind"`
	Message string         `json:"message"`
}

// State is a copy of everything the session knows.
type State struct {
	ServerGold         float64   `json:"server_gold"`
	ServerGoblins      int       `json:"server_goblins"`
	ServerAchievements []string  `json:"server_achievements"`
	ServerTreasures    []string  `json:"server_treasures"`
	PrestigeLevel      int       `json:"prestige_level"`
	LastServerSync     time.Time `json:"last_server_sync"`
	GoldPerSecond      float64   `json:"gold_per_second"`

	OptimisticGold    float64 `json:"optimistic_gold"`
	OptimisticGoblins int     `json:"optimistic_goblins"`

	Pending      []PendingAction                 `json:"pending"`
	Cooldowns    map[cooldown.Kind]time.Duration `json:"cooldowns"`
	Loading      bool                            `json:"loading"`
	Error        *ErrorState                     `json:"error,omitempty"`
	AuthRequired bool                            `json:"auth_required"`
	LoginURL     string                          `json:"login_url,omitempty"`
}

// Persisted is the subset of State that survives a restart.
type Persisted struct {
	Token              string    `json:"token"`
	ServerGold         float64   `json:"serverGold"`
	ServerGoblins      int       `json:"serverGoblins"`
	ServerAchievements []string  `json:"serverAchievements"`
	ServerTreasures    []string  `json:"serverTreasures"`
	LastServerSync     time.Time `json:"lastServerSync"`
	GoldPerSecond      float64   `json:"goldPerSecond"`
}
