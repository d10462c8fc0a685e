package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number accepts a JSON number or a numeric string.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a finite number: %s", b)
	}
	*n = Number(v)
	return nil
}

// PlayerSnapshot is the decoded GET /player payload. Fields that were
// missing or malformed are zero and named in Problems.
type PlayerSnapshot struct {
	Gold          float64
	Goblins       int
	PrestigeLevel int
	Achievements  []string
	Treasures     []string
	Problems      []string
}

func (s PlayerSnapshot) Valid() bool {
	return len(s.Problems) == 0
}

// DecodeSnapshot fails only when body is not a JSON object.
func DecodeSnapshot(body []byte) (PlayerSnapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		if err == nil {
			err = fmt.Errorf("snapshot is null")
		}
		return PlayerSnapshot{}, err
	}

	var s PlayerSnapshot
	s.Gold = s.number(fields, "gold", true)
	s.Goblins = s.count(fields, "goblins", true)
	s.PrestigeLevel = s.count(fields, "prestige_level", false)
	s.Achievements = s.strings(fields, "achievements")
	s.Treasures = s.strings(fields, "treasures")
	return s, nil
}

func (s *PlayerSnapshot) number(fields map[string]json.RawMessage, key string, required bool) float64 {
	raw, ok := fields[key]
	if !ok {
		if required {
			s.Problems = append(s.Problems, key+": missing")
		}
		return 0
	}
	var n Number
	if err := json.Unmarshal(raw, &n); err != nil {
		s.Problems = append(s.Problems, key+": "+err.Error())
		return 0
	}
	if n < 0 {
		s.Problems = append(s.Problems, key+": negative")
		return 0
	}
	return float64(n)
}

// count is number restricted to whole values that fit an int32.
func (s *PlayerSnapshot) count(fields map[string]json.RawMessage, key string, required bool) int {
	v := s.number(fields, key, required)
	if v != math.Trunc(v) {
		s.Problems = append(s.Problems, key+": not a whole number")
		return 0
	}
	if v > math.MaxInt32 {
		s.Problems = append(s.Problems, key+": out of range")
		return 0
	}
	return int(v)
}

func (s *PlayerSnapshot) strings(fields map[string]json.RawMessage, key string) []string {
	out := []string{}
	raw, ok := fields[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return out
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		s.Problems = append(s.Problems, key+": not a list of strings")
		return out
	}
	return append(out, list...)
}

// ActionResponse is the body of every player action.
type ActionResponse struct {
	Success         bool     `json:"success"`
	Error           string   `json:"error"`
	GoldEarned      *Number  `json:"gold_earned"`
	TreasureFound   bool     `json:"treasure_found"`
	TreasureID      string   `json:"treasure_id"`
	NewAchievements []string `json:"new_achievements"`
}

// Earned returns gold_earned, or fallback when the server omitted it.
func (r ActionResponse) Earned(fallback float64) float64 {
	if r.GoldEarned == nil {
		return fallback
	}
	return float64(*r.GoldEarned)
}

type errorBody struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
	LoginURL  string `json:"login_url"`
}
