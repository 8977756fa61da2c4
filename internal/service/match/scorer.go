package match

import (
	"math"

	"amora-be/internal/domain"
)

// Component weights for the overall compatibility score
const (
	weightPersonality = 0.5
	weightInterests   = 0.3
	weightLifestyle   = 0.2

	defaultPersonalityScore = 70
	emptyIntersectionScore  = 50
	lifestyleBaseScore      = 80
	lifestyleMatchBonus     = 10

	// Overall never reaches 100, even for maximal inputs
	maxOverallScore = 99
)

// personalityTable maps archetype pairs to a compatibility value. The map
// looks asymmetric but is treated as commutative: a miss on (a, b) falls
// back to (b, a), and a miss both ways scores defaultPersonalityScore.
var personalityTable = map[string]map[string]int{
	"explorer": {
		"explorer":   75,
		"anchor":     85,
		"catalyst":   100,
		"harmonizer": 70,
	},
	"anchor": {
		"anchor":     80,
		"catalyst":   65,
		"harmonizer": 95,
	},
	"catalyst": {
		"catalyst":   70,
		"harmonizer": 88,
	},
	"harmonizer": {
		"harmonizer": 85,
	},
}

// Score computes the compatibility between two users from their
// personality types and profiles. Every component is an integer; Overall
// is the weighted sum rounded and capped at 99.
func Score(type1, type2 string, profile1, profile2 *domain.Profile) domain.CompatibilityScore {
	personality := personalityScore(type1, type2)
	interests := interestScore(profile1.Interests, profile2.Interests)
	lifestyle := lifestyleScore(profile1.Lifestyle, profile2.Lifestyle)

	overall := int(math.Round(
		weightPersonality*float64(personality) +
			weightInterests*float64(interests) +
			weightLifestyle*float64(lifestyle)))
	if overall > maxOverallScore {
		overall = maxOverallScore
	}

	return domain.CompatibilityScore{
		Overall:     overall,
		Personality: personality,
		Interests:   interests,
		Lifestyle:   lifestyle,
	}
}

func personalityScore(type1, type2 string) int {
	if row, ok := personalityTable[type1]; ok {
		if score, ok := row[type2]; ok {
			return score
		}
	}
	if row, ok := personalityTable[type2]; ok {
		if score, ok := row[type1]; ok {
			return score
		}
	}
	return defaultPersonalityScore
}

func interestScore(interests1, interests2 []string) int {
	seen := make(map[string]bool, len(interests1))
	for _, interest := range interests1 {
		seen[interest] = true
	}

	common := 0
	for _, interest := range interests2 {
		if seen[interest] {
			common++
			seen[interest] = false
		}
	}

	if common == 0 {
		return emptyIntersectionScore
	}

	larger := len(interests1)
	if len(interests2) > larger {
		larger = len(interests2)
	}
	return int(math.Round(100 * float64(common) / float64(larger)))
}

func lifestyleScore(l1, l2 domain.Lifestyle) int {
	score := lifestyleBaseScore
	if l1.Alcohol != "" && l1.Alcohol == l2.Alcohol {
		score += lifestyleMatchBonus
	}
	return score
}
