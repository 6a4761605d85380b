package router

import (
	"fmt"

	"github.com/aretw0/calobot/pkg/domain"
)

// persona is the base prompt prepended to every generation directive. The
// generator is stateless, so tone and scope travel with each call.
const persona = `Act as CaloBot: a supportive, motivating digital nutrition coach. Use clear, positive, encouraging language and a friendly emoji here and there. Help the user with calories, diet and healthy habits in a practical, understandable way. Stay focused on nutrition and health.`

// Per-field onboarding questions the generator is asked to deliver.
var onboardingQuestions = map[domain.Field]string{
	domain.FieldBirthYear:     "What year were you born (YYYY)? 🎂",
	domain.FieldGender:        "What's your gender (male/female)? 🧍",
	domain.FieldHeightCM:      "How tall are you in cm (e.g. 175)? 📏",
	domain.FieldWeightKG:      "What's your current weight in kg (e.g. 70.5)? ⚖️",
	domain.FieldActivityLevel: "How active are you? Options: 'sedentary', 'light', 'moderate', 'active', 'extra active' 🏃",
	domain.FieldGoal:          "What's your goal? Options: 'lose weight', 'maintain weight', 'gain muscle' 💪",
}

// Per-field reprompt hints when validation fails.
var repromptHints = map[domain.Field]string{
	domain.FieldBirthYear:        "That year doesn't look right (use YYYY).",
	domain.FieldGender:           "I didn't catch that (male/female).",
	domain.FieldHeightCM:         "That height doesn't look right (cm, numbers only).",
	domain.FieldWeightKG:         "That weight doesn't look right (kg, numbers only).",
	domain.FieldActivityLevel:    "Not a level I know. Options: 'sedentary', 'light', 'moderate', 'active', 'extra active'.",
	domain.FieldGoal:             "Not a goal I know. Options: 'lose', 'maintain', 'gain'.",
	domain.FieldGoalConfirmation: "Please answer 'yes' or send a daily kcal number between 1000 and 10000.",
}

// OnboardingPrompt builds the directive that asks for the next required
// profile field.
func OnboardingPrompt(displayName string, f domain.Field) Directive {
	q, ok := onboardingQuestions[f]
	if !ok {
		q = fmt.Sprintf("Could you tell me your %s?", f)
	}
	task := fmt.Sprintf("Task: you are onboarding %q. Ask for their %s using this question: %q",
		displayName, f, q)
	return Directive{Intent: domain.IntentProvideInfo, Prompt: persona + "\n\n" + task + "\n\nCaloBot:"}
}

// Reprompt builds the directive that asks again after invalid input.
func Reprompt(displayName string, f domain.Field, invalidInput string) Directive {
	hint, ok := repromptHints[f]
	if !ok {
		hint = "That didn't work, please try again."
	}
	task := fmt.Sprintf("Task: %q gave invalid input (%q) for %s. Ask again using this hint: %q",
		displayName, invalidInput, f, hint)
	return Directive{Intent: domain.IntentProvideInfo, Prompt: persona + "\n\n" + task + "\n\nCaloBot:"}
}

// GoalProposal builds the directive that presents the computed suggestion
// and asks for confirmation or a custom value.
func GoalProposal(displayName string, tdee, suggested int, goal domain.Goal) Directive {
	task := fmt.Sprintf(
		"Task: %q completed their profile. Their TDEE is %d kcal and their goal is %q. "+
			"Suggest a daily target of %d kcal, explain it briefly, and ask them to reply 'yes' to accept or send their own number (1000-10000).",
		displayName, tdee, goal, suggested)
	return Directive{Intent: domain.IntentProvideInfo, Prompt: persona + "\n\n" + task + "\n\nCaloBot:"}
}

// CalcError builds the directive used when the goal suggestion cannot be
// computed from the stored profile.
func CalcError(displayName string) Directive {
	task := fmt.Sprintf(
		"Task: you could not compute a calorie target for %q from their profile data. Apologize briefly and say you will need to review their profile.",
		displayName)
	return Directive{Intent: domain.IntentUnclear, Prompt: persona + "\n\n" + task + "\n\nCaloBot:"}
}

// Clarification builds the directive used when the NLU collaborator was
// unavailable for this turn.
func Clarification(displayName, rawText string) Directive {
	task := fmt.Sprintf(
		"Task: you had trouble understanding %q from %q. Apologize briefly and ask them to rephrase.",
		rawText, displayName)
	return Directive{Intent: domain.IntentUnclear, Prompt: persona + "\n\n" + task + "\n\nCaloBot:"}
}

func compose(rc Context, task string) string {
	return fmt.Sprintf("%s\n\nContext for user %q: %s.\n\n%s\n\nCaloBot:",
		persona, rc.DisplayName, rc.statusLine(), task)
}
