package domain

// Intent is the recognized purpose of an inbound message.
type Intent string

const (
	IntentLogFood       Intent = "LOG_FOOD"
	IntentAskSuggestion Intent = "ASK_SUGGESTION"
	IntentGetStatus     Intent = "GET_STATUS"
	IntentGetProfile    Intent = "GET_PROFILE"
	IntentUpdateProfile Intent = "UPDATE_PROFILE"
	IntentProvideInfo   Intent = "PROVIDE_INFO"
	IntentGreeting      Intent = "GREETING"
	IntentFarewell      Intent = "FAREWELL"
	IntentAffirmation   Intent = "AFFIRMATION"
	IntentConfirmation  Intent = "CONFIRMATION"
	IntentNegation      Intent = "NEGATION"
	IntentHelp          Intent = "HELP"
	IntentChitchat      Intent = "CHITCHAT"
	IntentOutOfScope    Intent = "OUT_OF_SCOPE"
	IntentUnclear       Intent = "UNCLEAR"
)

// Intents lists every value the NLU collaborator may return.
var Intents = []Intent{
	IntentLogFood, IntentAskSuggestion, IntentGetStatus, IntentGetProfile,
	IntentUpdateProfile, IntentProvideInfo, IntentGreeting, IntentFarewell,
	IntentAffirmation, IntentConfirmation, IntentNegation, IntentHelp,
	IntentChitchat, IntentOutOfScope, IntentUnclear,
}

// Affirmative reports whether the intent counts as a confirmation during
// goal negotiation.
func (i Intent) Affirmative() bool {
	return i == IntentAffirmation || i == IntentConfirmation
}

// Entities carries the slots extracted by the NLU collaborator. Keys are
// decoded from the raw entity map with weak typing, so numeric values
// arrive as their string form.
type Entities struct {
	FoodItems         []string `json:"food_items,omitempty" mapstructure:"food_items"`
	Quantity          string   `json:"quantity,omitempty" mapstructure:"quantity"`
	MealTime          string   `json:"meal_time,omitempty" mapstructure:"meal_time"`
	ProfileField      string   `json:"profile_field,omitempty" mapstructure:"profile_field"`
	ProfileValue      string   `json:"profile_value,omitempty" mapstructure:"profile_value"`
	InfoValue         string   `json:"info_value,omitempty" mapstructure:"info_value"`
	DietaryConstraint []string `json:"dietary_constraint,omitempty" mapstructure:"dietary_constraint"`
	Preference        string   `json:"preference,omitempty" mapstructure:"preference"`
}

// Understanding is the structured result of one NLU call.
type Understanding struct {
	Intent   Intent
	Entities Entities
}
