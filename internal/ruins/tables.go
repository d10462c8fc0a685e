package ruins

import "dragons-den/internal/dragon"

type PuzzleKind string

const (
	SymbolSequence     PuzzleKind = "symbol_sequence"
	ElementalAlignment PuzzleKind = "elemental_alignment"
	RiddleKind         PuzzleKind = "riddle"
	PatternMatching    PuzzleKind = "pattern_matching"
	PressurePlates     PuzzleKind = "pressure_plates"
	MirrorReflection   PuzzleKind = "mirror_reflection"
	AncientLanguage    PuzzleKind = "ancient_language"
	MechanicalGears    PuzzleKind = "mechanical_gears"
)

type StatRequirement struct {
	Stat    string
	Minimum int
}

// Puzzle solutions are canonical strings: sequences joined by commas and
// mappings written as sorted key=value pairs.
type Puzzle struct {
	Kind             PuzzleKind
	Difficulty       int
	Solution         string
	Hints            []string
	TimeLimitSeconds int
	RequiredElements []dragon.Element
	RequiredStats    []StatRequirement
}

// puzzleKinds fixes the iteration order of puzzleTemplates.
var puzzleKinds = []PuzzleKind{
	SymbolSequence, ElementalAlignment, RiddleKind, PatternMatching,
	PressurePlates, MirrorReflection, AncientLanguage, MechanicalGears,
}

var puzzleTemplates = map[PuzzleKind][]Puzzle{
	SymbolSequence: {
		{
			Difficulty: 3, Solution: "fire,water,earth,air", TimeLimitSeconds: 300,
			Hints: []string{"The four primal elements in order of creation", "Heat before moisture", "Foundation before freedom"},
		},
		{
			Difficulty: 5, Solution: "shadow,light,lightning,poison,ice", TimeLimitSeconds: 480,
			Hints:            []string{"From darkness comes illumination", "Energy flows through corruption to purity"},
			RequiredElements: []dragon.Element{dragon.Shadow, dragon.Light},
		},
	},
	ElementalAlignment: {
		{
			Difficulty: 4, Solution: "air=above,earth=center,fire=south,ice=north",
			Hints:            []string{"Fire seeks warmth", "Ice embraces cold", "Earth anchors all", "Air rises free"},
			RequiredElements: []dragon.Element{dragon.Fire, dragon.Ice, dragon.Earth, dragon.Air},
		},
		{
			Difficulty: 6, Solution: "light=zenith,lightning=storm,poison=decay,shadow=nadir",
			Hints:            []string{"Light reaches highest", "Darkness delves deepest", "Power crackles in chaos"},
			RequiredElements: []dragon.Element{dragon.Light, dragon.Shadow, dragon.Lightning},
		},
	},
	RiddleKind: {
		{
			Difficulty: 2, Solution: "echo", TimeLimitSeconds: 600,
			Hints: []string{"I speak without a mouth and hear without ear", "I am born of your voice but I am not you", "In mountains and caverns I am found"},
		},
		{
			Difficulty: 4, Solution: "time", TimeLimitSeconds: 900,
			Hints:         []string{"I devour all things: birds, beasts, trees, flowers", "I gnaw iron, bite steel, and turn stone to sand", "I slay kings and ruin cities, yet none can slay me"},
			RequiredStats: []StatRequirement{{Stat: "intelligence", Minimum: 120}},
		},
		{
			Difficulty: 6, Solution: "dragon_soul", TimeLimitSeconds: 1200,
			Hints:         []string{"Ancient as mountains, yet born of flame", "Wisdom of ages, yet hunger for more", "Master of elements, yet slave to pride", "Keeper of treasures, yet seeks the priceless"},
			RequiredStats: []StatRequirement{{Stat: "intelligence", Minimum: 150}},
		},
	},
	PatternMatching: {
		{
			Difficulty: 3, Solution: "1,1,2,3,5,8,13,21", TimeLimitSeconds: 240,
			Hints: []string{"Each number is the sum of the two before", "Nature loves this sequence"},
		},
		{
			Difficulty: 5, Solution: "triangle,square,pentagon,hexagon", TimeLimitSeconds: 420,
			Hints:         []string{"Growing sides in harmony", "Sacred geometry of creation"},
			RequiredStats: []StatRequirement{{Stat: "intelligence", Minimum: 110}},
		},
	},
	PressurePlates: {
		{
			Difficulty: 4, Solution: "plate_1,plate_3,plate_2,plate_4",
			Hints:         []string{"Weight of a dragon is needed", "The path is not straight", "Begin where the eye looks first"},
			RequiredStats: []StatRequirement{{Stat: "health", Minimum: 200}},
		},
	},
	MirrorReflection: {
		{
			Difficulty: 5, Solution: "angle=45,target=crystal_focus", TimeLimitSeconds: 300,
			Hints:            []string{"Light bends to will", "The crystal hungers for illumination", "Angles matter more than distance"},
			RequiredElements: []dragon.Element{dragon.Light},
		},
	},
	AncientLanguage: {
		{
			Difficulty: 6, Solution: "draconum_eternus_sapientia", TimeLimitSeconds: 900,
			Hints:         []string{"The first word speaks of our kind", "The second speaks of unending time", "The third speaks of accumulated knowledge"},
			RequiredStats: []StatRequirement{{Stat: "intelligence", Minimum: 140}},
		},
	},
	MechanicalGears: {
		{
			Difficulty: 7, Solution: "gear_1=clockwise,gear_2=counter,gear_3=clockwise,turns=7", TimeLimitSeconds: 600,
			Hints: []string{"Seven is the number of completion", "Opposition creates motion", "The first turns as the sun"},
		},
	},
}

func init() {
	for kind, list := range puzzleTemplates {
		for i := range list {
			list[i].Kind = kind
		}
	}
}

type TrapKind string

const (
	SpikeTrap      TrapKind = "spike_trap"
	PoisonDart     TrapKind = "poison_dart"
	FlameJet       TrapKind = "flame_jet"
	IcePrison      TrapKind = "ice_prison"
	LightningField TrapKind = "lightning_field"
	GravityWell    TrapKind = "gravity_well"
	IllusionMaze   TrapKind = "illusion_maze"
	TemporalLoop   TrapKind = "temporal_loop"
)

type Trap struct {
	Kind       TrapKind
	Damage     int
	Effect     string
	Duration   int
	Skill      string
	Difficulty int
	// Tools are abilities that disarm the trap outright.
	Tools []string
}

var traps = []Trap{
	{Kind: SpikeTrap, Damage: 50, Effect: "Physical damage and bleeding", Duration: 3, Skill: "perception", Difficulty: 5},
	{Kind: PoisonDart, Damage: 30, Effect: "Poison damage over time", Duration: 10, Skill: "agility", Difficulty: 6},
	{Kind: FlameJet, Damage: 80, Effect: "Fire damage and burn", Duration: 5, Skill: "elemental_resistance", Difficulty: 4, Tools: []string{"fire_immunity"}},
	{Kind: IcePrison, Damage: 40, Effect: "Frozen for multiple turns", Duration: 8, Skill: "strength", Difficulty: 7},
	{Kind: LightningField, Damage: 120, Effect: "Electrical damage and stun", Duration: 2, Skill: "magical_knowledge", Difficulty: 8},
	{Kind: GravityWell, Damage: 0, Effect: "Immobilized and gradual crushing", Duration: 15, Skill: "flight", Difficulty: 9},
	{Kind: IllusionMaze, Damage: 0, Effect: "Lost in illusions, time wasted", Duration: 30, Skill: "mental_resistance", Difficulty: 7},
	{Kind: TemporalLoop, Damage: 0, Effect: "Stuck repeating same actions", Duration: 20, Skill: "ancient_knowledge", Difficulty: 10},
}

// approach scales the disarm skill and the damage taken on failure.
type approach struct {
	success float64
	damage  float64
}

var trapApproaches = map[string]approach{
	"careful":  {success: 1.2, damage: 0.7},
	"quick":    {success: 0.8, damage: 1.3},
	"forceful": {success: 0.6, damage: 0.5},
}

var (
	magicalStrong = approach{success: 1.4, damage: 0.3}
	magicalWeak   = approach{success: 0.4, damage: 1.8}
)

const magicalThreshold = 120
