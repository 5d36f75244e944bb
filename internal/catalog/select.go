package catalog

import "mitay-fortune-quiz/internal/element"

// DefaultPicks is the number of items a reading recommends.
const DefaultPicks = 3

// Select returns up to k items. Items tagged with a favored element come
// first in catalog order, then the rest of the catalog pads the result.
func Select(favored element.Set, items []Item, k int) []Item {
	if k <= 0 {
		return []Item{}
	}
	if k > len(items) {
		k = len(items)
	}

	picks := make([]Item, 0, k)
	chosen := make([]bool, len(items))
	for i, item := range items {
		if len(picks) == k {
			return picks
		}
		if favored.Contains(item.Element) {
			picks = append(picks, item)
			chosen[i] = true
		}
	}
	for i, item := range items {
		if len(picks) == k {
			break
		}
		if chosen[i] {
			continue
		}
		picks = append(picks, item)
	}
	return picks
}

// Matches counts picks whose element is in favored.
func Matches(favored element.Set, picks []Item) int {
	hits := 0
	for _, p := range picks {
		if favored.Contains(p.Element) {
			hits++
		}
	}
	return hits
}
