package domain

import "time"

// DayFormat is the calendar-date layout used by the daily tracking window.
const DayFormat = "2006-01-02"

// DayOf returns the UTC calendar day for an instant.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Gender is the biological sex used by the BMR equations.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel scales BMR into total daily energy expenditure.
type ActivityLevel string

const (
	ActivitySedentary   ActivityLevel = "sedentary"
	ActivityLight       ActivityLevel = "light"
	ActivityModerate    ActivityLevel = "moderate"
	ActivityActive      ActivityLevel = "active"
	ActivityExtraActive ActivityLevel = "extra_active"
)

// Goal is the user's weight objective.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Field identifies a single onboarding input slot.
type Field string

const (
	FieldBirthYear        Field = "birth_year"
	FieldGender           Field = "gender"
	FieldHeightCM         Field = "height_cm"
	FieldWeightKG         Field = "current_weight_kg"
	FieldActivityLevel    Field = "activity_level"
	FieldGoal             Field = "goal"
	FieldGoalConfirmation Field = "goal_confirmation"
)

// RequiredFields is the fixed collection order for profile onboarding.
// The sequencer always requests the first unset field in this order.
var RequiredFields = []Field{
	FieldBirthYear,
	FieldGender,
	FieldHeightCM,
	FieldWeightKG,
	FieldActivityLevel,
	FieldGoal,
}

// Profile holds the onboarding answers. A field is "set" iff non-nil;
// optionality is explicit so that defaulting never masks missing data.
type Profile struct {
	BirthYear       *int           `json:"birth_year"`
	Gender          *Gender        `json:"gender"`
	HeightCM        *int           `json:"height_cm"`
	CurrentWeightKG *float64       `json:"current_weight_kg"`
	ActivityLevel   *ActivityLevel `json:"activity_level"`
	Goal            *Goal          `json:"goal"`
}

// FieldSet reports whether the given profile field has a value.
func (p *Profile) FieldSet(f Field) bool {
	switch f {
	case FieldBirthYear:
		return p.BirthYear != nil
	case FieldGender:
		return p.Gender != nil
	case FieldHeightCM:
		return p.HeightCM != nil
	case FieldWeightKG:
		return p.CurrentWeightKG != nil
	case FieldActivityLevel:
		return p.ActivityLevel != nil
	case FieldGoal:
		return p.Goal != nil
	}
	return false
}

// Missing returns the unset required fields, in collection order.
func (p *Profile) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if !p.FieldSet(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether all required profile fields are set.
func (p *Profile) Complete() bool {
	return len(p.Missing()) == 0
}

// DietSettings holds the negotiated calorie target. Goal onboarding is
// pending while DailyCalorieGoal is nil.
type DietSettings struct {
	DailyCalorieGoal *int   `json:"daily_calorie_goal"`
	DietType         string `json:"diet_type"`
}

// DefaultDietType is applied once at load time when the stored document
// predates the field.
const DefaultDietType = "standard"

// LogEntry is one recorded food intake.
type LogEntry struct {
	Description   string    `json:"description"`
	EstimatedKcal int       `json:"estimated_kcal"`
	Time          time.Time `json:"time"`
}

// DailyTracking is the per-day calorie ledger. Date reflects the last
// write day; any write on a new calendar day resets the window first.
type DailyTracking struct {
	Date             string     `json:"date"`
	CaloriesConsumed int        `json:"calories_consumed"`
	Log              []LogEntry `json:"log"`
}

// UserState names the input the next inbound message must satisfy.
// An empty Awaiting means no input is pending.
type UserState struct {
	Awaiting Field `json:"awaiting"`
}

// User is the aggregate persisted per chat user. It is created on first
// contact with all profile and diet fields unset, and mutated only through
// the orchestrator's validated writes.
type User struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name"`
	CreatedAt   time.Time     `json:"created_at"`
	LastSeenAt  time.Time     `json:"last_seen_at"`
	Profile     Profile       `json:"profile"`
	Diet        DietSettings  `json:"diet_settings"`
	Tracking    DailyTracking `json:"daily_tracking"`
	State       UserState     `json:"user_state"`
}

// NewUser returns a fresh aggregate for a first-contact user.
func NewUser(id, displayName string, now time.Time) *User {
	if displayName == "" {
		displayName = "User " + id
	}
	return &User{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   now,
		LastSeenAt:  now,
		Diet:        DietSettings{DietType: DefaultDietType},
		Tracking:    DailyTracking{Date: DayOf(now)},
	}
}

// Normalize applies the load-time defaulting rules and rolls the tracking
// window forward when the stored date is stale. It reports whether the
// document changed and needs to be written back.
func (u *User) Normalize(now time.Time) bool {
	changed := false
	if u.Diet.DietType == "" {
		u.Diet.DietType = DefaultDietType
		changed = true
	}
	if today := DayOf(now); u.Tracking.Date != today {
		u.Tracking = DailyTracking{Date: today}
		changed = true
	}
	return changed
}

// Remaining returns the calorie budget left today, or false when no daily
// goal has been negotiated yet.
func (u *User) Remaining() (int, bool) {
	if u.Diet.DailyCalorieGoal == nil {
		return 0, false
	}
	return *u.Diet.DailyCalorieGoal - u.Tracking.CaloriesConsumed, true
}

// Clone returns a deep copy of the aggregate.
func (u *User) Clone() *User {
	c := *u
	c.Profile = Profile{
		BirthYear:       clonePtr(u.Profile.BirthYear),
		Gender:          clonePtr(u.Profile.Gender),
		HeightCM:        clonePtr(u.Profile.HeightCM),
		CurrentWeightKG: clonePtr(u.Profile.CurrentWeightKG),
		ActivityLevel:   clonePtr(u.Profile.ActivityLevel),
		Goal:            clonePtr(u.Profile.Goal),
	}
	c.Diet.DailyCalorieGoal = clonePtr(u.Diet.DailyCalorieGoal)
	if u.Tracking.Log != nil {
		c.Tracking.Log = make([]LogEntry, len(u.Tracking.Log))
		copy(c.Tracking.Log, u.Tracking.Log)
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
