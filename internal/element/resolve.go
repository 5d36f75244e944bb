package element

// Set is an ordered list of elements without duplicates. The first
// occurrence of an element fixes its position.
type Set []Element

// Contains reports membership; order plays no part in matching.
func (s Set) Contains(e Element) bool {
	for _, have := range s {
		if have == e {
			return true
		}
	}
	return false
}

// Strings returns the labels in order.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, e := range s {
		out[i] = string(e)
	}
	return out
}

func newSet(candidates ...Element) Set {
	seen := make(map[Element]struct{}, len(candidates))
	out := make(Set, 0, len(candidates))
	for _, e := range candidates {
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Favored builds the focus set: aux element (when present), then the goal's
// preference pair, then the month element. It is never empty.
func Favored(goal Goal, month Element, aux Element, auxOK bool) Set {
	candidates := make([]Element, 0, 4)
	if auxOK {
		candidates = append(candidates, aux)
	}
	candidates = append(candidates, Preference(goal)...)
	candidates = append(candidates, month)
	set := newSet(candidates...)
	if len(set) == 0 {
		return Set{Earth}
	}
	return set
}

// Resolution is the outcome of resolving a month, goal and number sequence.
type Resolution struct {
	Month   Element
	Aux     Element
	AuxOK   bool
	Favored Set
}

// Resolve runs the full month/aux/goal resolution.
func Resolve(monthToken string, goal Goal, nums []int) Resolution {
	month := MonthElement(monthToken)
	aux, ok := AuxElement(nums)
	return Resolution{
		Month:   month,
		Aux:     aux,
		AuxOK:   ok,
		Favored: Favored(goal, month, aux, ok),
	}
}
