package flags

const (
	// KeyKnowledge is the root flag every player starts with.
	KeyKnowledge = "knowledge"
	// KeyQuarm is the terminal flag of the Planes of Power progression.
	KeyQuarm = "quarm"
)

const (
	CategoryElemental = "Elemental Trials"
	CategoryMidTier   = "Mid-tier Planes"
	CategorySeven     = "Seven Trials"
	CategoryUpper     = "Upper Planes"
)

var sevenTrials = []string{"hanging", "torture", "efficiency", "refreshment", "speed", "focus", "projection"}

// PlanesOfPower returns the built in Planes of Power flag definitions.
func PlanesOfPower() []FlagDefinition {
	root := []string{KeyKnowledge}
	return []FlagDefinition{
		{Key: KeyKnowledge, Name: "Plane of Knowledge", Description: "Initial access to PoP content"},

		{Key: "smoke", Name: "Trial of Smoke", Description: "Fire Elemental Trial", Category: CategoryElemental, DependsOn: root},
		{Key: "water", Name: "Trial of Water", Description: "Water Elemental Trial", Category: CategoryElemental, DependsOn: root},
		{Key: "air", Name: "Trial of Air", Description: "Air Elemental Trial", Category: CategoryElemental, DependsOn: root},
		{Key: "earth", Name: "Trial of Earth", Description: "Earth Elemental Trial", Category: CategoryElemental, DependsOn: root},

		{Key: "innovation", Name: "Plane of Innovation", Description: "Access to mechanical plane", Category: CategoryMidTier, DependsOn: root},
		{Key: "tactics", Name: "Plane of Tactics", Description: "Access to tactical combat plane", Category: CategoryMidTier, DependsOn: root},
		{Key: "disease", Name: "Plane of Disease", Description: "Access to plague-ridden plane", Category: CategoryMidTier, DependsOn: root},
		{Key: "valor", Name: "Plane of Valor", Description: "Access to warrior's plane", Category: CategoryMidTier, DependsOn: root},

		{Key: "hanging", Name: "Trial of Hanging", Description: "Justice Trial", Category: CategorySeven, DependsOn: root},
		{Key: "torture", Name: "Trial of Torture", Description: "Justice Trial", Category: CategorySeven, DependsOn: root},
		{Key: "efficiency", Name: "Trial of Efficiency", Description: "Tranquility Trial", Category: CategorySeven, DependsOn: root},
		{Key: "refreshment", Name: "Trial of Refreshment", Description: "Tranquility Trial", Category: CategorySeven, DependsOn: root},
		{Key: "speed", Name: "Trial of Speed", Description: "Tranquility Trial", Category: CategorySeven, DependsOn: root},
		{Key: "focus", Name: "Trial of Focus", Description: "Solusek Ro Trial", Category: CategorySeven, DependsOn: root},
		{Key: "projection", Name: "Trial of Projection", Description: "Solusek Ro Trial", Category: CategorySeven, DependsOn: root},

		{Key: "storms", Name: "Plane of Storms", Description: "Access to storm plane", Category: CategoryUpper,
			DependsOn: append([]string(nil), sevenTrials...)},
		{Key: "timeA", Name: "Plane of Time A", Description: "Access to Time phase 1", Category: CategoryUpper,
			DependsOn: []string{"storms", "smoke", "water", "air", "earth", "innovation", "tactics", "disease", "valor"}},
		{Key: KeyQuarm, Name: "Plane of Time B (Quarm)", Description: "Defeated the Gods in Time A to access Quarm", Category: CategoryUpper,
			DependsOn: []string{"timeA"}},
	}
}
