// Package reading assembles a full fortune reading: element resolution,
// catalog picks, the fit score and the three suggestions.
package reading

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"mitay-fortune-quiz/internal/catalog"
	"mitay-fortune-quiz/internal/element"
	"mitay-fortune-quiz/internal/messages"
)

// Method is how the user supplied their personal signal.
type Method string

const (
	Birthdate Method = "birthdate"
	Meihua    Method = "meihua"
)

// ParseMethod accepts the menu numbers as well as the names.
func ParseMethod(raw string) (Method, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", string(Birthdate):
		return Birthdate, true
	case "2", string(Meihua):
		return Meihua, true
	default:
		return "", false
	}
}

const (
	// DefaultName is used when the user leaves the name blank.
	DefaultName = "friend"

	timestampLayout = "2006-01-02T15:04:05.000000Z"
	monthLayout     = "2006-01"
)

// Input is everything a front end collects from the user.
type Input struct {
	Name        string
	Lang        messages.Lang
	Method      Method
	DOB         string
	BirthTime   string
	Nums        []int
	TargetMonth string
	Goal        element.Goal
}

// Result is the write-once record of one session.
type Result struct {
	SessionID          string          `json:"session_id"`
	Name               string          `json:"name"`
	Lang               messages.Lang   `json:"lang"`
	Method             Method          `json:"method"`
	DOB                *string         `json:"dob"`
	BirthTime          *string         `json:"birth_time"`
	Nums               []int           `json:"nums"`
	TargetMonth        string          `json:"target_month"`
	Goal               element.Goal    `json:"goal"`
	MonthElement       element.Element `json:"month_element"`
	AuxElement         element.Element `json:"aux_element,omitempty"`
	ElementsConsidered element.Set     `json:"elements_considered"`
	Picks              []catalog.Item  `json:"picks"`
	Score              int             `json:"score"`
	Suggestions        []string        `json:"suggestions"`
	GeneratedAt        string          `json:"generated_at"`

	CreatedAt time.Time `json:"-"`
}

// Build runs the whole pipeline for one session. Only SessionID and the
// timestamps depend on anything but the inputs and the catalog.
func Build(in Input, items []catalog.Item, k int, now time.Time) Result {
	now = now.UTC()
	res := Result{
		SessionID:   uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Lang:        in.Lang,
		Method:      in.Method,
		Nums:        []int{},
		TargetMonth: strings.TrimSpace(in.TargetMonth),
		Goal:        in.Goal,
		GeneratedAt: now.Format(timestampLayout),
		CreatedAt:   now,
	}
	if res.Name == "" {
		res.Name = DefaultName
	}
	if _, ok := messages.ParseLang(string(res.Lang)); !ok {
		res.Lang = messages.EN
	}
	if res.Method == "" {
		res.Method = Birthdate
	}
	if res.TargetMonth == "" {
		res.TargetMonth = now.Format(monthLayout)
	}

	switch res.Method {
	case Meihua:
		if len(in.Nums) > 0 {
			res.Nums = append(res.Nums, in.Nums...)
		}
	default:
		res.DOB = optional(in.DOB)
		res.BirthTime = optional(in.BirthTime)
	}

	resolved := element.Resolve(res.TargetMonth, res.Goal, res.Nums)
	res.MonthElement = resolved.Month
	if resolved.AuxOK {
		res.AuxElement = resolved.Aux
	}
	res.ElementsConsidered = resolved.Favored
	res.Picks = catalog.Select(resolved.Favored, items, k)
	res.Score = Score(resolved.Month, resolved.Aux, resolved.AuxOK, res.Picks, resolved.Favored)
	res.Suggestions = Suggestions(res.Lang, res.Goal, resolved.Month)
	return res
}

// HasAux reports whether a meihua element contributed to the reading.
func (r Result) HasAux() bool {
	return r.AuxElement != ""
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
