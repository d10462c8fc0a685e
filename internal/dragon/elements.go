package dragon

type Advantage struct {
	StrongAgainst []Element
	WeakAgainst   []Element
	ImmuneTo      []Element
}

var advantages = map[Element]Advantage{
	Fire:      {StrongAgainst: []Element{Ice, Earth}, WeakAgainst: []Element{Air}, ImmuneTo: []Element{Fire}},
	Ice:       {StrongAgainst: []Element{Air, Earth}, WeakAgainst: []Element{Fire, Lightning}, ImmuneTo: []Element{Ice}},
	Earth:     {StrongAgainst: []Element{Lightning, Poison}, WeakAgainst: []Element{Air, Ice}, ImmuneTo: []Element{Earth}},
	Air:       {StrongAgainst: []Element{Fire, Earth}, WeakAgainst: []Element{Ice, Lightning}, ImmuneTo: []Element{Air}},
	Shadow:    {StrongAgainst: []Element{Light, Poison}, WeakAgainst: []Element{Light}, ImmuneTo: []Element{Shadow}},
	Light:     {StrongAgainst: []Element{Shadow, Poison}, WeakAgainst: []Element{Shadow}, ImmuneTo: []Element{Light}},
	Poison:    {StrongAgainst: []Element{Air, Ice}, WeakAgainst: []Element{Earth, Light}, ImmuneTo: []Element{Poison}},
	Lightning: {StrongAgainst: []Element{Air, Ice}, WeakAgainst: []Element{Earth}, ImmuneTo: []Element{Lightning}},
}

const (
	strongMultiplier = 1.5
	weakMultiplier   = 0.75
	immuneMultiplier = 0.1
)

func AdvantageOf(e Element) Advantage {
	return advantages[e]
}

// DamageMultiplier checks strength first, then weakness, then the
// defender's immunity.
func DamageMultiplier(attacker, defender Element) float64 {
	a := advantages[attacker]
	if hasElement(a.StrongAgainst, defender) {
		return strongMultiplier
	}
	if hasElement(a.WeakAgainst, defender) {
		return weakMultiplier
	}
	if hasElement(advantages[defender].ImmuneTo, attacker) {
		return immuneMultiplier
	}
	return 1.0
}

func hasElement(list []Element, e Element) bool {
	for _, v := range list {
		if v == e {
			return true
		}
	}
	return false
}
