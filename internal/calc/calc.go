// Package calc implements the deterministic nutrition arithmetic: age,
// Mifflin-St Jeor basal metabolic rate, total daily energy expenditure and
// the suggested daily calorie goal. All functions are pure; missing or
// out-of-range inputs yield ErrUnavailable rather than a guess.
package calc

import (
	"errors"
	"math"
	"time"

	"github.com/aretw0/calobot/pkg/domain"
)

// ErrUnavailable is returned when a calculation cannot be performed because
// an input is missing or outside its plausible range.
var ErrUnavailable = errors.New("calculation unavailable")

// Activity multipliers applied to BMR.
var multipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:   1.20,
	domain.ActivityLight:       1.375,
	domain.ActivityModerate:    1.55,
	domain.ActivityActive:      1.725,
	domain.ActivityExtraActive: 1.90,
}

// Age derives the user's age from the birth year. Valid only when the
// result lands strictly inside (0, 120).
func Age(birthYear *int, now time.Time) (int, error) {
	if birthYear == nil {
		return 0, ErrUnavailable
	}
	age := now.UTC().Year() - *birthYear
	if age <= 0 || age >= 120 {
		return 0, ErrUnavailable
	}
	return age, nil
}

// BMR computes the Mifflin-St Jeor basal metabolic rate, rounded to the
// nearest integer.
func BMR(weightKG *float64, heightCM *int, age int, gender *domain.Gender) (int, error) {
	if weightKG == nil || heightCM == nil || gender == nil {
		return 0, ErrUnavailable
	}
	base := 10*(*weightKG) + 6.25*float64(*heightCM) - 5*float64(age)
	switch *gender {
	case domain.GenderMale:
		base += 5
	case domain.GenderFemale:
		base -= 161
	default:
		return 0, ErrUnavailable
	}
	return int(math.Round(base)), nil
}

// TDEE scales BMR by the activity multiplier, rounded to the nearest
// integer.
func TDEE(bmr int, level *domain.ActivityLevel) (int, error) {
	if level == nil {
		return 0, ErrUnavailable
	}
	m, ok := multipliers[*level]
	if !ok {
		return 0, ErrUnavailable
	}
	return int(math.Round(float64(bmr) * m)), nil
}

// SuggestGoal derives a daily calorie target from TDEE and the weight
// objective. Lose applies a clamped 20% deficit (floor 1200 kcal), gain a
// clamped 15% surplus. The result is always a multiple of 50.
func SuggestGoal(tdee int, goal *domain.Goal) (int, error) {
	if goal == nil {
		return 0, ErrUnavailable
	}
	t := float64(tdee)
	var target float64
	switch *goal {
	case domain.GoalMaintain:
		target = t
	case domain.GoalLose:
		deficit := clamp(math.Round(t*0.20), 300, 750)
		target = math.Max(1200, t-deficit)
	case domain.GoalGain:
		surplus := clamp(math.Round(t*0.15), 250, 500)
		target = t + surplus
	default:
		return 0, ErrUnavailable
	}
	return int(math.Round(target/50)) * 50, nil
}

// Plan chains age -> BMR -> TDEE -> suggested goal for a profile. It
// returns both the suggestion and the intermediate TDEE, which the goal
// proposal directive presents to the user.
func Plan(p domain.Profile, now time.Time) (suggested, tdee int, err error) {
	age, err := Age(p.BirthYear, now)
	if err != nil {
		return 0, 0, err
	}
	bmr, err := BMR(p.CurrentWeightKG, p.HeightCM, age, p.Gender)
	if err != nil {
		return 0, 0, err
	}
	tdee, err = TDEE(bmr, p.ActivityLevel)
	if err != nil {
		return 0, 0, err
	}
	suggested, err = SuggestGoal(tdee, p.Goal)
	if err != nil {
		return 0, 0, err
	}
	return suggested, tdee, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
