package router

import (
	"testing"

	"github.com/aretw0/calobot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func goalCtx(goal int, consumed int) Context {
	return Context{DisplayName: "Ana", Goal: &goal, Consumed: consumed}
}

func TestBuild(t *testing.T) {
	t.Run("log food carries marker instruction and entities", func(t *testing.T) {
		d := Build(domain.IntentLogFood, domain.Entities{
			FoodItems: []string{"grilled chicken", "rice"},
			Quantity:  "200g",
			MealTime:  "lunch",
		}, "comi frango com arroz", goalCtx(2000, 500))

		assert.Equal(t, domain.IntentLogFood, d.Intent)
		assert.Contains(t, d.Prompt, "Estimate: NNN kcal")
		assert.Contains(t, d.Prompt, "grilled chicken, rice")
		assert.Contains(t, d.Prompt, "200g")
		assert.Contains(t, d.Prompt, "lunch")
		assert.Contains(t, d.Prompt, "Remaining: 1500 kcal")
	})

	t.Run("log food without entities falls back to raw text", func(t *testing.T) {
		d := Build(domain.IntentLogFood, domain.Entities{}, "ate some soup", goalCtx(2000, 0))
		assert.Contains(t, d.Prompt, "ate some soup")
	})

	t.Run("suggestion includes budget and constraints", func(t *testing.T) {
		d := Build(domain.IntentAskSuggestion, domain.Entities{
			Preference:        "something light",
			DietaryConstraint: []string{"no red meat"},
		}, "sugere algo", goalCtx(1800, 600))

		assert.Equal(t, domain.IntentAskSuggestion, d.Intent)
		assert.Contains(t, d.Prompt, "1200 kcal remain")
		assert.Contains(t, d.Prompt, "something light")
		assert.Contains(t, d.Prompt, "no red meat")
		assert.Contains(t, d.Prompt, "2-3 options")
	})

	t.Run("suggestion without goal avoids a numeric budget", func(t *testing.T) {
		d := Build(domain.IntentAskSuggestion, domain.Entities{}, "what should I eat", Context{DisplayName: "Ana"})
		assert.Contains(t, d.Prompt, "plenty of kcal remain")
	})

	t.Run("status restates the context", func(t *testing.T) {
		d := Build(domain.IntentGetStatus, domain.Entities{}, "status?", goalCtx(2000, 700))
		assert.Contains(t, d.Prompt, "Goal: 2000 kcal")
		assert.Contains(t, d.Prompt, "Consumed today: 700 kcal")
		assert.Contains(t, d.Prompt, "Remaining: 1300 kcal")
	})

	t.Run("profile focuses on requested field", func(t *testing.T) {
		rc := goalCtx(2000, 0)
		rc.Profile = "born 1990, 180 cm"
		d := Build(domain.IntentGetProfile, domain.Entities{ProfileField: "height_cm"}, "qual minha altura?", rc)
		assert.Contains(t, d.Prompt, "height_cm")
		assert.Contains(t, d.Prompt, "born 1990, 180 cm")
	})

	t.Run("profile without stored data says so", func(t *testing.T) {
		d := Build(domain.IntentGetProfile, domain.Entities{}, "meu perfil?", goalCtx(2000, 0))
		assert.Contains(t, d.Prompt, "no profile data stored yet")
	})

	t.Run("update profile states the limitation", func(t *testing.T) {
		d := Build(domain.IntentUpdateProfile, domain.Entities{}, "change my weight", goalCtx(2000, 0))
		assert.Contains(t, d.Prompt, "not supported")
	})

	t.Run("out of scope redirects", func(t *testing.T) {
		d := Build(domain.IntentOutOfScope, domain.Entities{}, "who discovered Brazil?", goalCtx(2000, 0))
		assert.Contains(t, d.Prompt, "redirect")
	})

	t.Run("conversational intents route to a generic reply task", func(t *testing.T) {
		for _, intent := range []domain.Intent{
			domain.IntentGreeting, domain.IntentFarewell, domain.IntentAffirmation,
			domain.IntentNegation, domain.IntentHelp, domain.IntentChitchat,
		} {
			d := Build(intent, domain.Entities{}, "oi", goalCtx(2000, 0))
			assert.Equal(t, intent, d.Intent, "intent %s", intent)
			assert.Contains(t, d.Prompt, string(intent))
		}
	})

	t.Run("unknown intents collapse to UNCLEAR", func(t *testing.T) {
		d := Build(domain.Intent("SOMETHING_NEW"), domain.Entities{}, "???", goalCtx(2000, 0))
		assert.Equal(t, domain.IntentUnclear, d.Intent)
		assert.Contains(t, d.Prompt, "clarification")
	})

	t.Run("build is a pure mapping", func(t *testing.T) {
		a := Build(domain.IntentGetStatus, domain.Entities{}, "status", goalCtx(2000, 100))
		b := Build(domain.IntentGetStatus, domain.Entities{}, "status", goalCtx(2000, 100))
		assert.Equal(t, a, b)
	})
}

func TestPrompts(t *testing.T) {
	t.Run("onboarding prompt names the field", func(t *testing.T) {
		d := OnboardingPrompt("Ana", domain.FieldBirthYear)
		assert.Contains(t, d.Prompt, "birth_year")
		assert.Contains(t, d.Prompt, "YYYY")
	})

	t.Run("reprompt includes the invalid input", func(t *testing.T) {
		d := Reprompt("Ana", domain.FieldHeightCM, "very tall")
		assert.Contains(t, d.Prompt, "very tall")
		assert.Contains(t, d.Prompt, "height_cm")
	})

	t.Run("goal proposal carries tdee and suggestion", func(t *testing.T) {
		d := GoalProposal("Ana", 2100, 1700, domain.GoalLose)
		assert.Contains(t, d.Prompt, "2100")
		assert.Contains(t, d.Prompt, "1700")
		assert.Contains(t, d.Prompt, "lose")
	})
}
