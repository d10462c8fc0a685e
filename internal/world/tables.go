package world

import "dragons-den/internal/dragon"

var biomeNames = map[Biome][]string{
	Volcanic:    {"Ember", "Flame", "Magma", "Inferno", "Cinder"},
	Frozen:      {"Frost", "Ice", "Blizzard", "Crystal", "Winter"},
	Forest:      {"Green", "Wild", "Ancient", "Mystic", "Elder"},
	Desert:      {"Sand", "Dune", "Mirage", "Oasis", "Scorching"},
	Swamp:       {"Murky", "Bog", "Mist", "Thorn", "Decay"},
	Mountain:    {"Peak", "Summit", "Ridge", "Crag", "Stone"},
	Ocean:       {"Deep", "Wave", "Tide", "Coral", "Abyss"},
	SkyRealm:    {"Cloud", "Wind", "Storm", "Celestial", "Ethereal"},
	ShadowRealm: {"Shadow", "Void", "Dark", "Nightmare", "Cursed"},
}

var difficultySuffixes = map[Difficulty][]string{
	Peaceful:  {"Haven", "Sanctuary", "Garden", "Vale", "Rest"},
	Easy:      {"Grove", "Meadow", "Hill", "Brook", "Glade"},
	Normal:    {"Land", "Territory", "Region", "Domain", "Expanse"},
	Hard:      {"Wastes", "Reaches", "Depths", "Heights", "Bounds"},
	Extreme:   {"Abyss", "Maelstrom", "Vortex", "Chasm", "Tempest"},
	Legendary: {"Apocalypse", "Cataclysm", "Terminus", "Nexus", "Oblivion"},
}

var baseRequiredLevel = map[Difficulty]int{
	Peaceful: 1, Easy: 3, Normal: 8, Hard: 15, Extreme: 25, Legendary: 40,
}

var biomeResources = map[Biome]Resources{
	Volcanic: {
		Common: []string{"obsidian_shard", "sulfur_crystal", "lava_stone"},
		Rare:   []string{"fire_essence", "molten_core", "phoenix_feather"},
		Unique: []string{"dragon_heart_ruby", "eternal_flame"},
	},
	Frozen: {
		Common: []string{"ice_crystal", "frost_berry", "winter_herb"},
		Rare:   []string{"frozen_tear", "ice_essence", "aurora_fragment"},
		Unique: []string{"heart_of_winter", "glacier_core"},
	},
	Forest: {
		Common: []string{"elderwood", "moonflower", "spirit_moss"},
		Rare:   []string{"treant_bark", "fairy_dust", "nature_essence"},
		Unique: []string{"world_tree_seed", "druid_stone"},
	},
	Desert: {
		Common: []string{"sand_glass", "cactus_spine", "sun_stone"},
		Rare:   []string{"mirage_essence", "desert_rose", "scorpion_venom"},
		Unique: []string{"pharaoh_treasure", "oasis_heart"},
	},
	Swamp: {
		Common: []string{"bog_root", "marsh_gas", "toxic_moss"},
		Rare:   []string{"will_o_wisp", "swamp_essence", "crocodile_scale"},
		Unique: []string{"ancient_bog_treasure", "plague_source"},
	},
	Mountain: {
		Common: []string{"mountain_ore", "eagle_feather", "stone_moss"},
		Rare:   []string{"mythril_vein", "wind_essence", "giant_tooth"},
		Unique: []string{"mountain_king_crown", "skyforge_metal"},
	},
	Ocean: {
		Common: []string{"coral_fragment", "sea_salt", "kelp_strand"},
		Rare:   []string{"pearl", "water_essence", "kraken_ink"},
		Unique: []string{"poseidon_trident", "leviathan_scale"},
	},
	SkyRealm: {
		Common: []string{"cloud_essence", "wind_feather", "star_fragment"},
		Rare:   []string{"storm_core", "lightning_bottle", "celestial_silk"},
		Unique: []string{"sky_god_blessing", "rainbow_bridge_shard"},
	},
	ShadowRealm: {
		Common: []string{"shadow_wisp", "dark_crystal", "void_essence"},
		Rare:   []string{"nightmare_fuel", "soul_fragment", "darkness_incarnate"},
		Unique: []string{"abyss_heart", "oblivion_shard"},
	},
}

var biomeElements = map[Biome][]dragon.Element{
	Volcanic:    {dragon.Fire},
	Frozen:      {dragon.Ice},
	Forest:      {dragon.Earth, dragon.Air},
	Desert:      {dragon.Fire, dragon.Earth},
	Swamp:       {dragon.Poison, dragon.Earth},
	Mountain:    {dragon.Earth, dragon.Air},
	Ocean:       {dragon.Ice, dragon.Air},
	SkyRealm:    {dragon.Air, dragon.Lightning},
	ShadowRealm: {dragon.Shadow, dragon.Poison},
}

var wildDragonCount = map[Difficulty]int{
	Peaceful: 0, Easy: 1, Normal: 2, Hard: 3, Extreme: 4, Legendary: 6,
}

var biomeEnvironment = map[Biome]Environment{
	Volcanic:    {Favored: []dragon.Element{dragon.Fire}, Resistant: []dragon.Element{dragon.Ice, dragon.Air}, DangerLevel: 7},
	Frozen:      {Favored: []dragon.Element{dragon.Ice}, Resistant: []dragon.Element{dragon.Fire}, DangerLevel: 5},
	Forest:      {Favored: []dragon.Element{dragon.Earth, dragon.Air}, Resistant: []dragon.Element{dragon.Fire}, DangerLevel: 3},
	Desert:      {Favored: []dragon.Element{dragon.Fire}, Resistant: []dragon.Element{dragon.Ice, dragon.Air}, DangerLevel: 6},
	Swamp:       {Favored: []dragon.Element{dragon.Poison, dragon.Earth}, Resistant: []dragon.Element{dragon.Light, dragon.Fire}, DangerLevel: 8},
	Mountain:    {Favored: []dragon.Element{dragon.Earth, dragon.Air}, Resistant: []dragon.Element{dragon.Poison}, DangerLevel: 4},
	Ocean:       {Favored: []dragon.Element{dragon.Ice, dragon.Air}, Resistant: []dragon.Element{dragon.Fire, dragon.Earth}, DangerLevel: 6},
	SkyRealm:    {Favored: []dragon.Element{dragon.Air, dragon.Lightning}, Resistant: []dragon.Element{dragon.Earth}, DangerLevel: 9},
	ShadowRealm: {Favored: []dragon.Element{dragon.Shadow}, Resistant: []dragon.Element{dragon.Light}, DangerLevel: 10},
}

var ruinAdjectives = map[Biome]string{
	Volcanic:    "Molten",
	Frozen:      "Frozen",
	Forest:      "Ancient",
	Desert:      "Buried",
	Swamp:       "Sunken",
	Mountain:    "Sky-high",
	Ocean:       "Sunken",
	SkyRealm:    "Floating",
	ShadowRealm: "Cursed",
}

var floorCount = map[Difficulty]int{
	Peaceful: 1, Easy: 2, Normal: 3, Hard: 4, Extreme: 5, Legendary: 7,
}

var floorLayouts = []string{"linear", "branching", "circular", "maze"}

var challengeText = map[ChallengeType]struct {
	descriptions []string
	reward       string
	penalty      string
}{
	Puzzle: {
		descriptions: []string{"A wall of sliding runes", "Rotating elemental dials", "A floor of pressure tiles"},
		reward:       "ancient_knowledge",
		penalty:      "minor_injury",
	},
	Trap: {
		descriptions: []string{"A corridor lined with dart holes", "A collapsing stone bridge", "Runes that flare at a touch"},
		reward:       "trap_parts",
		penalty:      "trap_damage",
	},
	Riddle: {
		descriptions: []string{"A sphinx statue that speaks", "Verses carved above a sealed door", "A mirror that asks questions"},
		reward:       "sage_insight",
	},
	Combat: {
		descriptions: []string{"Animated armor stands guard", "A nest of ruin wyrms", "Spectral sentinels block the hall"},
		reward:       "guardian_essence",
		penalty:      "heavy_injury",
	},
	Stealth: {
		descriptions: []string{"A sleeping basilisk across the path", "Watchful eyes painted on every wall", "Patrolling constructs"},
		reward:       "hidden_cache",
		penalty:      "alarm_raised",
	},
}

var starterResources = Resources{
	Common: []string{"basic_gem", "small_gold"},
	Rare:   []string{"training_manual"},
	Unique: []string{},
}
