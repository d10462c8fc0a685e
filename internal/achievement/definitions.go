package achievement

// Definitions returns the dragon keeper's achievement table.
func Definitions() []Definition {
	return []Definition{
		{
			ID: "first_steps", Name: "First Steps", Description: "Complete your first exploration",
			Category: CategoryExploration, Rarity: RarityCommon, Icon: "footsteps",
			Requirements: []Requirement{{Type: ExplorationsCompleted, Target: 1}},
			Rewards:      Reward{Gold: 100, Experience: 50},
			OneTimeOnly:  true,
		},
		{
			ID: "world_explorer", Name: "World Explorer", Description: "Discover 10 different locations",
			Category: CategoryExploration, Rarity: RarityRare, Icon: "map",
			Requirements: []Requirement{{Type: LocationsDiscovered, Target: 10}},
			Rewards:      Reward{Gold: 1000, Experience: 200, Items: []string{"explorer_compass"}, Title: "Explorer"},
			OneTimeOnly:  true,
		},
		{
			ID: "realm_master", Name: "Realm Master", Description: "Fully explore all biome types",
			Category: CategoryExploration, Rarity: RarityLegendary, Icon: "crown_world",
			Requirements:  []Requirement{{Type: BiomesMastered, Target: 9}},
			Rewards:       Reward{Gold: 10000, Experience: 1000, DragonUnlock: "world_dragon", Title: "Realm Master"},
			Prerequisites: []string{"world_explorer"},
			OneTimeOnly:   true,
		},
		{
			ID: "first_hatch", Name: "First Hatch", Description: "Hatch your first dragon egg",
			Category: CategoryDragonMastery, Rarity: RarityCommon, Icon: "dragon_egg",
			Requirements: []Requirement{{Type: DragonsHatched, Target: 1}},
			Rewards:      Reward{Gold: 500, Experience: 100},
			OneTimeOnly:  true,
		},
		{
			ID: "bond_master", Name: "Bond Master", Description: "Achieve maximum bonding with a dragon",
			Category: CategoryDragonMastery, Rarity: RarityEpic, Icon: "heart_dragon",
			Requirements: []Requirement{{Type: MaxBondingAchieved, Target: 1}},
			Rewards:      Reward{Gold: 2500, Experience: 500, AbilityUnlock: "telepathic_link", Title: "Dragon Whisperer"},
			OneTimeOnly:  true,
		},
		{
			ID: "ancient_wisdom", Name: "Ancient Wisdom", Description: "Have a dragon reach Ancient age",
			Category: CategoryDragonMastery, Rarity: RarityLegendary, Icon: "ancient_dragon",
			Requirements: []Requirement{{Type: AncientDragons, Target: 1}},
			Rewards:      Reward{Gold: 25000, Experience: 2000, Items: []string{"wisdom_crystal"}, Title: "Ancient Keeper"},
			OneTimeOnly:  true,
		},
		{
			ID: "first_victory", Name: "First Victory", Description: "Win your first combat",
			Category: CategoryCombat, Rarity: RarityCommon, Icon: "sword",
			Requirements: []Requirement{{Type: CombatsWon, Target: 1}},
			Rewards:      Reward{Gold: 200, Experience: 75},
			OneTimeOnly:  true,
		},
		{
			ID: "elemental_master", Name: "Elemental Master", Description: "Win combats with dragons of each element type",
			Category: CategoryCombat, Rarity: RarityEpic, Icon: "elemental_circle",
			Requirements: []Requirement{{Type: ElementalVictories, Target: 8, Conditions: map[string]any{"unique_elements": true}}},
			Rewards:      Reward{Gold: 5000, Experience: 1000, AbilityUnlock: "elemental_mastery", Title: "Elemental Lord"},
			OneTimeOnly:  true,
		},
		{
			ID: "perfect_formation", Name: "Perfect Formation", Description: "Win a battle without losing any dragons",
			Category: CategoryCombat, Rarity: RarityRare, Icon: "formation",
			Requirements: []Requirement{{Type: FlawlessVictories, Target: 1}},
			Rewards:      Reward{Gold: 1500, Experience: 300, Items: []string{"tactical_manual"}},
		},
		{
			ID: "treasure_hunter", Name: "Treasure Hunter", Description: "Collect 100 treasures",
			Category: CategoryCollection, Rarity: RarityRare, Icon: "treasure_chest",
			Requirements: []Requirement{{Type: TreasuresCollected, Target: 100}},
			Rewards:      Reward{Gold: 2000, Experience: 400, Items: []string{"treasure_detector"}, Title: "Treasure Hunter"},
			OneTimeOnly:  true,
		},
		{
			ID: "legendary_collector", Name: "Legendary Collector", Description: "Own 10 legendary treasures",
			Category: CategoryCollection, Rarity: RarityLegendary, Icon: "legendary_gem",
			Requirements:  []Requirement{{Type: LegendaryTreasures, Target: 10}},
			Rewards:       Reward{Gold: 15000, Experience: 1500, Items: []string{"collectors_crown"}, Title: "Legendary Collector"},
			Prerequisites: []string{"treasure_hunter"},
			OneTimeOnly:   true,
		},
		{
			ID: "gold_digger", Name: "Gold Digger", Description: "Accumulate 10,000 gold",
			Category: CategoryWealth, Rarity: RarityCommon, Icon: "gold_pile",
			Requirements: []Requirement{{Type: GoldAccumulated, Target: 10000}},
			Rewards:      Reward{Experience: 200, Items: []string{"golden_pickaxe"}},
			OneTimeOnly:  true,
		},
		{
			ID: "dragon_tycoon", Name: "Dragon Tycoon", Description: "Accumulate 1,000,000 gold",
			Category: CategoryWealth, Rarity: RarityEpic, Icon: "golden_dragon",
			Requirements:  []Requirement{{Type: GoldAccumulated, Target: 1000000}},
			Rewards:       Reward{Experience: 2000, Items: []string{"tycoon_ring"}, Title: "Dragon Tycoon"},
			Prerequisites: []string{"gold_digger"},
			OneTimeOnly:   true,
		},
		{
			ID: "speed_runner", Name: "Speed Runner", Description: "Complete an exploration in under 5 minutes",
			Category: CategorySpecial, Rarity: RarityRare, Icon: "lightning_bolt",
			Requirements: []Requirement{{Type: FastExploration, Target: 1, Conditions: map[string]any{"time_limit": 300}}},
			Rewards:      Reward{Gold: 1000, Experience: 250, Items: []string{"speed_boots"}},
		},
		{
			ID: "weather_master", Name: "Weather Master", Description: "Successfully explore in all weather conditions",
			Category: CategorySpecial, Rarity: RarityEpic, Icon: "weather_vane",
			Requirements: []Requirement{{Type: WeatherExplorations, Target: 8, Conditions: map[string]any{"unique_weathers": true}}},
			Rewards:      Reward{Gold: 3000, Experience: 750, AbilityUnlock: "weather_control", Title: "Storm Caller"},
			OneTimeOnly:  true,
		},
		{
			ID: "shadow_walker", Name: "Shadow Walker", Description: "Explore the Shadow Realm during an eclipse",
			Category: CategorySpecial, Rarity: RarityLegendary, Icon: "shadow_moon",
			Requirements: []Requirement{{Type: SpecialExploration, Target: 1, Conditions: map[string]any{"biome": "shadow_realm", "weather": "eclipse"}}},
			Rewards:      Reward{Gold: 10000, Experience: 2000, DragonUnlock: "eclipse_dragon", Title: "Shadow Walker"},
			Secret:       true,
			OneTimeOnly:  true,
			Locked:       true,
		},
		{
			ID: "time_keeper", Name: "Time Keeper", Description: "Play the game for 100 hours total",
			Category: CategorySpecial, Rarity: RarityEpic, Icon: "hourglass",
			Requirements: []Requirement{{Type: PlaytimeHours, Target: 100}},
			Rewards:      Reward{Gold: 5000, Experience: 1000, Items: []string{"time_crystal"}, Title: "Time Keeper"},
			Secret:       true,
			OneTimeOnly:  true,
		},
		{
			ID: "dragon_god", Name: "Dragon God", Description: "Complete all other achievements",
			Category: CategoryLegendary, Rarity: RarityMythic, Icon: "divine_dragon",
			Requirements: []Requirement{{Type: AchievementsCompleted, Target: 95}},
			Rewards: Reward{
				Gold: 100000, Experience: 10000, DragonUnlock: "divine_dragon",
				Cosmetics: []string{"divine_aura", "golden_crown"}, Title: "Dragon God",
			},
			OneTimeOnly: true,
		},
	}
}
