package rewards

// Rarity represents how hard an award was to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities in order from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// LevelRarity grades a newly reached level.
func LevelRarity(level int) Rarity {
	switch {
	case level >= 20:
		return RarityLegendary
	case level >= 10:
		return RarityEpic
	case level >= 5:
		return RarityRare
	default:
		return RarityCommon
	}
}

// StreakRarity grades a streak length in days.
func StreakRarity(days int) Rarity {
	switch {
	case days >= 30:
		return RarityLegendary
	case days >= 14:
		return RarityEpic
	case days >= 7:
		return RarityRare
	default:
		return RarityCommon
	}
}

// TaskRarity grades a completed-task milestone.
func TaskRarity(completed int) Rarity {
	switch {
	case completed >= 100:
		return RarityLegendary
	case completed >= 50:
		return RarityEpic
	case completed >= 20:
		return RarityRare
	default:
		return RarityCommon
	}
}

// FocusRarity grades the number of full study sessions finished in a day.
func FocusRarity(sessions int) Rarity {
	switch {
	case sessions >= 12:
		return RarityLegendary
	case sessions >= 8:
		return RarityEpic
	default:
		return RarityRare
	}
}

// QuizRarity grades a perfect quiz by its length.
func QuizRarity(questions int) Rarity {
	if questions >= 10 {
		return RarityEpic
	}
	return RarityRare
}
