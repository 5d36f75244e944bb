// Package element holds the five-element lookup tables and the resolver that
// turns a target month, a goal and an optional number triple into the ordered
// set of elements a reading focuses on.
package element

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Element is one of the five tags shared by months, goals and catalog items.
type Element string

const (
	Wood  Element = "wood"
	Fire  Element = "fire"
	Earth Element = "earth"
	Metal Element = "metal"
	Water Element = "water"
)

// Goal is the focus area a user wants to boost.
type Goal string

const (
	Career  Goal = "career"
	Wealth  Goal = "wealth"
	Health  Goal = "health"
	Emotion Goal = "emotion"
	Love    Goal = "love"
	Study   Goal = "study"
	Social  Goal = "social"
)

var allElements = []Element{Wood, Fire, Earth, Metal, Water}

var allGoals = []Goal{Career, Wealth, Health, Emotion, Love, Study, Social}

var monthElements = map[int]Element{
	1: Earth, 2: Wood, 3: Wood, 4: Earth, 5: Fire, 6: Fire,
	7: Earth, 8: Metal, 9: Metal, 10: Earth, 11: Water, 12: Water,
}

var goalPreferences = map[Goal][2]Element{
	Career:  {Fire, Metal},
	Wealth:  {Metal, Earth},
	Health:  {Water, Wood},
	Emotion: {Water, Earth},
	Love:    {Wood, Water},
	Study:   {Wood, Fire},
	Social:  {Earth, Metal},
}

// defaultPreference applies to goals outside the table.
var defaultPreference = [2]Element{Fire, Metal}

var digitElements = [10]Element{
	Water, Metal, Metal, Fire, Wood, Wood, Water, Earth, Earth, Metal,
}

// All returns the five elements in their canonical order.
func All() []Element {
	out := make([]Element, len(allElements))
	copy(out, allElements)
	return out
}

// Goals returns the seven supported goals.
func Goals() []Goal {
	out := make([]Goal, len(allGoals))
	copy(out, allGoals)
	return out
}

// ParseElement normalizes a label and reports whether it is one of the five.
func ParseElement(raw string) (Element, bool) {
	e := Element(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range allElements {
		if e == known {
			return e, true
		}
	}
	return e, false
}

// ParseGoal normalizes a keyword and reports whether it is a supported goal.
func ParseGoal(raw string) (Goal, bool) {
	g := Goal(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := goalPreferences[g]
	return g, ok
}

// Preference returns the ordered element pair for a goal.
func Preference(goal Goal) []Element {
	pair, ok := goalPreferences[goal]
	if !ok {
		pair = defaultPreference
	}
	return []Element{pair[0], pair[1]}
}

// MonthElement maps a month token (YYYY-MM, YYYY/MM or MM) to its element.
// It never fails: anything unparseable or out of range is earth.
func MonthElement(token string) Element {
	token = strings.TrimSpace(width.Narrow.String(token))
	if i := strings.LastIndexAny(token, "-/"); i >= 0 {
		token = token[i+1:]
	}
	month, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return Earth
	}
	if e, ok := monthElements[month]; ok {
		return e
	}
	return Earth
}

// AuxElement derives the meihua element from the last digit of the last
// number. An empty sequence yields no element.
func AuxElement(nums []int) (Element, bool) {
	if len(nums) == 0 {
		return "", false
	}
	last := nums[len(nums)-1]
	if last < 0 {
		last = -last
	}
	return digitElements[last%10], true
}

// ParseNumbers reads a comma separated list such as "2,9,8". Full-width
// digits and commas are accepted. Any malformed entry yields an empty list.
func ParseNumbers(raw string) []int {
	raw = width.Narrow.String(raw)
	var nums []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return []int{}
		}
		nums = append(nums, n)
	}
	if nums == nil {
		return []int{}
	}
	return nums
}
