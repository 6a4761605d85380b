package validate

import (
	"testing"
	"time"

	"github.com/aretw0/calobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestBirthYear(t *testing.T) {
	cases := []struct {
		in    string
		want  int
		valid bool
	}{
		{"1990", 1990, true},
		{" 2001 ", 2001, true},
		{"2026", 2026, true},  // current year is allowed
		{"2027", 0, false},    // future
		{"1900", 0, false},    // boundary is exclusive
		{"1901", 1901, true},
		{"abc", 0, false},
		{"19.90", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := BirthYear(tc.in, now)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestGender(t *testing.T) {
	cases := []struct {
		in    string
		want  domain.Gender
		valid bool
	}{
		{"masculino", domain.GenderMale, true},
		{"M", domain.GenderMale, true},
		{"male", domain.GenderMale, true},
		{"Feminino", domain.GenderFemale, true},
		{"f", domain.GenderFemale, true},
		{"FEMALE", domain.GenderFemale, true},
		{"nonbinary", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := Gender(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestHeightCM(t *testing.T) {
	cases := []struct {
		in    string
		want  int
		valid bool
	}{
		{"175", 175, true},
		{"175cm", 175, true},
		{"175,5", 175, true}, // locale comma, truncated to int
		{"175.9 CM", 175, true},
		{"99", 0, false},
		{"251", 0, false},
		{"tall", 0, false},
	}
	for _, tc := range cases {
		got, ok := HeightCM(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestWeightKG(t *testing.T) {
	cases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"70.5", 70.5, true},
		{"70,5", 70.5, true},
		{"70kg", 70, true},
		{"70 KG", 70, true},
		{"29.9", 0, false},
		{"301", 0, false},
		{"heavy", 0, false},
	}
	for _, tc := range cases {
		got, ok := WeightKG(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
		}
	}
}

func TestActivityLevel(t *testing.T) {
	cases := []struct {
		in    string
		want  domain.ActivityLevel
		valid bool
	}{
		{"sedentário", domain.ActivitySedentary, true},
		{"sou bem sedentario", domain.ActivitySedentary, true},
		{"leve", domain.ActivityLight, true},
		{"moderado", domain.ActivityModerate, true},
		{"ativo", domain.ActivityActive, true},
		{"muito ativo", domain.ActivityExtraActive, true}, // must not match "ativo" first
		{"moderate", domain.ActivityModerate, true},       // canonical fallback
		{"extra_active", domain.ActivityExtraActive, true},
		{"lazy", "", false},
	}
	for _, tc := range cases {
		got, ok := ActivityLevel(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestGoal(t *testing.T) {
	cases := []struct {
		in    string
		want  domain.Goal
		valid bool
	}{
		{"quero perder peso", domain.GoalLose, true},
		{"emagrecer", domain.GoalLose, true},
		{"manter", domain.GoalMaintain, true},
		{"ganhar massa", domain.GoalGain, true},
		{"massa", domain.GoalGain, true},
		{"lose", domain.GoalLose, true}, // canonical fallback
		{"maintain", domain.GoalMaintain, true},
		{"gain", domain.GoalGain, true},
		{"shred", "", false},
	}
	for _, tc := range cases {
		got, ok := Goal(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestProfileField(t *testing.T) {
	t.Run("valid input yields an apply closure", func(t *testing.T) {
		apply, ok := ProfileField(domain.FieldBirthYear, "1990", now)
		require.True(t, ok)

		var p domain.Profile
		apply(&p)
		require.NotNil(t, p.BirthYear)
		assert.Equal(t, 1990, *p.BirthYear)
	})

	t.Run("invalid input yields no closure", func(t *testing.T) {
		apply, ok := ProfileField(domain.FieldGender, "unknown", now)
		assert.False(t, ok)
		assert.Nil(t, apply)
	})

	t.Run("goal confirmation is not a profile field", func(t *testing.T) {
		_, ok := ProfileField(domain.FieldGoalConfirmation, "2000", now)
		assert.False(t, ok)
	})

	t.Run("every required field dispatches", func(t *testing.T) {
		inputs := map[domain.Field]string{
			domain.FieldBirthYear:     "1985",
			domain.FieldGender:        "f",
			domain.FieldHeightCM:      "165",
			domain.FieldWeightKG:      "62,5",
			domain.FieldActivityLevel: "light",
			domain.FieldGoal:          "maintain",
		}
		var p domain.Profile
		for f, raw := range inputs {
			apply, ok := ProfileField(f, raw, now)
			require.True(t, ok, "field %s", f)
			apply(&p)
		}
		assert.True(t, p.Complete())
	})
}
