// Package validate implements the per-field normalization rules for
// onboarding answers. Validators are pure: invalid input never errors, it
// simply reports false so the orchestrator can reprompt.
package validate

import (
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/calobot/pkg/domain"
)

// localized term tables. Entries are matched as substrings in declaration
// order, most specific first, so "muito ativo" cannot be shadowed by
// "ativo".
var activityTerms = []struct {
	term  string
	level domain.ActivityLevel
}{
	{"muito ativo", domain.ActivityExtraActive},
	{"sedentário", domain.ActivitySedentary},
	{"sedentario", domain.ActivitySedentary},
	{"moderado", domain.ActivityModerate},
	{"leve", domain.ActivityLight},
	{"ativo", domain.ActivityActive},
}

var goalTerms = []struct {
	term string
	goal domain.Goal
}{
	{"emagrecer", domain.GoalLose},
	{"perder", domain.GoalLose},
	{"manter", domain.GoalMaintain},
	{"ganhar", domain.GoalGain},
	{"massa", domain.GoalGain},
}

// BirthYear parses a four-digit year, valid iff 1900 < year <= current year.
func BirthYear(raw string, now time.Time) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if year <= 1900 || year > now.UTC().Year() {
		return 0, false
	}
	return year, true
}

// Gender matches localized and canonical gender terms, case-insensitively.
func Gender(raw string) (domain.Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "masculino", "m", "male":
		return domain.GenderMale, true
	case "feminino", "f", "female":
		return domain.GenderFemale, true
	}
	return "", false
}

// HeightCM strips unit tokens and the locale decimal comma, then accepts
// 100-250 cm. The value is stored as an integer.
func HeightCM(raw string) (int, bool) {
	h, err := parseMeasure(raw, "cm")
	if err != nil || h < 100 || h > 250 {
		return 0, false
	}
	return int(h), true
}

// WeightKG strips unit tokens and the locale decimal comma, then accepts
// 30-300 kg.
func WeightKG(raw string) (float64, bool) {
	w, err := parseMeasure(raw, "kg")
	if err != nil || w < 30 || w > 300 {
		return 0, false
	}
	return w, true
}

// ActivityLevel matches localized terms (substring or exact) first, then
// canonical enum values exactly.
func ActivityLevel(raw string) (domain.ActivityLevel, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, e := range activityTerms {
		if strings.Contains(text, e.term) {
			return e.level, true
		}
	}
	switch domain.ActivityLevel(text) {
	case domain.ActivitySedentary, domain.ActivityLight, domain.ActivityModerate,
		domain.ActivityActive, domain.ActivityExtraActive:
		return domain.ActivityLevel(text), true
	}
	return "", false
}

// Goal matches localized terms (substring or exact) first, then canonical
// enum values exactly.
func Goal(raw string) (domain.Goal, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, e := range goalTerms {
		if strings.Contains(text, e.term) {
			return e.goal, true
		}
	}
	switch domain.Goal(text) {
	case domain.GoalLose, domain.GoalMaintain, domain.GoalGain:
		return domain.Goal(text), true
	}
	return "", false
}

// ProfileField validates raw input for the given profile field and returns
// an apply closure that writes the normalized value. The closure keeps the
// validators pure while letting the orchestrator commit the write wherever
// it needs to (inside a store transaction).
func ProfileField(f domain.Field, raw string, now time.Time) (func(*domain.Profile), bool) {
	switch f {
	case domain.FieldBirthYear:
		if v, ok := BirthYear(raw, now); ok {
			return func(p *domain.Profile) { p.BirthYear = &v }, true
		}
	case domain.FieldGender:
		if v, ok := Gender(raw); ok {
			return func(p *domain.Profile) { p.Gender = &v }, true
		}
	case domain.FieldHeightCM:
		if v, ok := HeightCM(raw); ok {
			return func(p *domain.Profile) { p.HeightCM = &v }, true
		}
	case domain.FieldWeightKG:
		if v, ok := WeightKG(raw); ok {
			return func(p *domain.Profile) { p.CurrentWeightKG = &v }, true
		}
	case domain.FieldActivityLevel:
		if v, ok := ActivityLevel(raw); ok {
			return func(p *domain.Profile) { p.ActivityLevel = &v }, true
		}
	case domain.FieldGoal:
		if v, ok := Goal(raw); ok {
			return func(p *domain.Profile) { p.Goal = &v }, true
		}
	}
	return nil, false
}

func parseMeasure(raw, unit string) (float64, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.ReplaceAll(text, unit, "")
	text = strings.ReplaceAll(text, ",", ".")
	return strconv.ParseFloat(strings.TrimSpace(text), 64)
}
