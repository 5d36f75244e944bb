package reading

import (
	"mitay-fortune-quiz/internal/catalog"
	"mitay-fortune-quiz/internal/element"
)

const (
	baseScore    = 60
	monthBonus   = 10
	auxBonus     = 10
	pickBonusMax = 20
	minScore     = 30
	maxScore     = 100
)

// Score rates how well the month, the meihua hint and the picks line up with
// the favored set. The result is always within [30, 100].
func Score(month element.Element, aux element.Element, auxOK bool, picks []catalog.Item, favored element.Set) int {
	score := baseScore
	if favored.Contains(month) {
		score += monthBonus
	}
	if auxOK && favored.Contains(aux) {
		score += auxBonus
	}
	if len(picks) > 0 {
		hits := catalog.Matches(favored, picks)
		score += pickBonusMax * hits / len(picks)
	}
	return clamp(score, minScore, maxScore)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
