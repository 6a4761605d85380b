// Package router maps a recognized intent, its entities and the current
// tracking context into the task directive handed to the generation
// collaborator. It never mutates state: given the same inputs it always
// produces the same directive.
package router

import (
	"fmt"
	"strings"

	"github.com/aretw0/calobot/pkg/domain"
)

// Directive is one turn's task description for the generator, tagged with
// the intent that produced it so the caller knows whether to run calorie
// extraction afterwards.
type Directive struct {
	Intent domain.Intent
	Prompt string
}

// Context is the calorie-tracking snapshot embedded in directives.
// Profile is a prerendered one-line summary of the stored profile, used by
// the GET_PROFILE directive.
type Context struct {
	DisplayName string
	Goal        *int
	Consumed    int
	Profile     string
}

// Remaining returns the budget left today, or false when no goal is set.
func (c Context) Remaining() (int, bool) {
	if c.Goal == nil {
		return 0, false
	}
	return *c.Goal - c.Consumed, true
}

func (c Context) statusLine() string {
	if c.Goal == nil {
		return fmt.Sprintf("Goal: not set, Consumed today: %d kcal", c.Consumed)
	}
	remaining, _ := c.Remaining()
	return fmt.Sprintf("Goal: %d kcal, Consumed today: %d kcal, Remaining: %d kcal",
		*c.Goal, c.Consumed, remaining)
}

// Build produces the directive for a routed turn. Unrecognized intents and
// PROVIDE_INFO outside of onboarding fall back to a conversational
// clarification task, matching the UNCLEAR treatment.
func Build(intent domain.Intent, ents domain.Entities, rawText string, rc Context) Directive {
	var task string

	switch intent {
	case domain.IntentLogFood:
		task = logFoodTask(ents, rawText, rc)
	case domain.IntentAskSuggestion:
		task = suggestionTask(ents, rawText, rc)
	case domain.IntentGetStatus:
		task = fmt.Sprintf(
			"Task: the user asked for their calorie status (%q). Restate it clearly using this context: %s.",
			rawText, rc.statusLine())
	case domain.IntentGetProfile:
		field := ents.ProfileField
		if field == "" {
			field = "the whole profile"
		}
		data := rc.Profile
		if data == "" {
			data = "no profile data stored yet"
		}
		task = fmt.Sprintf(
			"Task: the user asked about their stored profile (%q, focus: %s). Present this stored data: %s.",
			rawText, field, data)
	case domain.IntentUpdateProfile:
		task = fmt.Sprintf(
			"Task: the user tried to update their profile (%q). Kindly explain that profile updates are not supported yet.",
			rawText)
	case domain.IntentGreeting, domain.IntentFarewell, domain.IntentAffirmation,
		domain.IntentConfirmation, domain.IntentNegation, domain.IntentHelp,
		domain.IntentChitchat:
		task = fmt.Sprintf(
			"Task: the user sent a %s message (%q). Reply appropriately and conversationally.",
			intent, rawText)
	case domain.IntentOutOfScope:
		task = fmt.Sprintf(
			"Task: the user went off topic (%q). Gently redirect the conversation to nutrition and healthy habits.",
			rawText)
	default:
		intent = domain.IntentUnclear
		task = fmt.Sprintf(
			"Task: the user's intent in %q is unclear. Ask for a short clarification, conversationally.",
			rawText)
	}

	return Directive{Intent: intent, Prompt: compose(rc, task)}
}

func logFoodTask(ents domain.Entities, rawText string, rc Context) string {
	desc := strings.Join(ents.FoodItems, ", ")
	if desc == "" {
		desc = rawText
	}
	extracted := "Food: " + desc
	if ents.Quantity != "" {
		extracted += ", Quantity: " + ents.Quantity
	}
	if ents.MealTime != "" {
		extracted += ", Meal: " + ents.MealTime
	}
	return fmt.Sprintf(
		"Task: the user logged food (%q; extracted: %s). "+
			"1. Estimate the calories and include the exact phrase 'Estimate: NNN kcal' with your number. "+
			"2. Comment briefly on the choice. "+
			"3. Restate their status (%s) accounting for the new estimate.",
		rawText, extracted, rc.statusLine())
}

func suggestionTask(ents domain.Entities, rawText string, rc Context) string {
	budget := "plenty of"
	if remaining, ok := rc.Remaining(); ok {
		budget = fmt.Sprintf("%d", remaining)
	}
	ctx := fmt.Sprintf("%s kcal remain today.", budget)
	if ents.Preference != "" {
		ctx += " Preference: " + ents.Preference + "."
	}
	if len(ents.DietaryConstraint) > 0 {
		ctx += " Constraints: " + strings.Join(ents.DietaryConstraint, ", ") + "."
	}
	return fmt.Sprintf(
		"Task: the user asked for a meal suggestion (%q). Context: %s Offer 2-3 options with estimated calories each.",
		rawText, ctx)
}
