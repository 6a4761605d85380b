// Package runtime hosts the conversation orchestrator. Each inbound
// message is one turn through a small state machine: resolve a pending
// question if one is awaited, let the onboarding sequencer ask the next
// one, and only then route the message as a free-form intent. Validated
// state is always committed to the store before any text generation, so a
// collaborator failure can never lose an answer the user already gave.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/calobot/internal/calc"
	"github.com/aretw0/calobot/internal/extract"
	"github.com/aretw0/calobot/internal/ledger"
	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/internal/observability"
	"github.com/aretw0/calobot/internal/router"
	"github.com/aretw0/calobot/internal/validate"
	"github.com/aretw0/calobot/pkg/domain"
	"github.com/aretw0/calobot/pkg/ports"
)

// Canned degradation replies. These are deliberately not generated: when a
// collaborator or the store is failing, the last thing to do is depend on
// it for the apology.
const (
	unavailableReply = "Sorry, I'm having trouble thinking straight right now. 😅 Could you say that again in a moment?"
	saveFailureReply = "Sorry, I couldn't save that just now. 🙏 Could you send it one more time?"
)

// Affirmative words accepted during goal negotiation, lowercased.
var affirmativeWords = map[string]bool{
	"sim": true, "s": true, "ok": true, "k": true, "aceito": true,
	"confirmado": true, "confirmo": true, "yes": true, "y": true,
}

var digitRun = regexp.MustCompile(`\d+`)
var nonDigits = regexp.MustCompile(`\D`)

// Turn is one inbound message. A Probe turn carries no user-visible text:
// it only runs the onboarding check and may produce no reply at all.
type Turn struct {
	UserID      string
	DisplayName string
	Text        string
	Probe       bool
}

// Engine orchestrates turns across the storage, understanding and
// generation collaborators.
type Engine struct {
	store   ports.UserStore
	nlu     ports.Understander
	gen     ports.Generator
	ledger  *ledger.Ledger
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger configures a logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates an Engine over its collaborators.
func New(store ports.UserStore, nlu ports.Understander, gen ports.Generator, led *ledger.Ledger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		nlu:    nlu,
		gen:    gen,
		ledger: led,
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process handles one turn and returns the outbound reply. An empty reply
// with a nil error means there is nothing to send (probe turns with a
// complete profile). A non-nil error means even a degraded reply could not
// be produced; the transport decides what, if anything, to tell the user.
func (e *Engine) Process(ctx context.Context, turn Turn) (string, error) {
	start := e.clock()
	defer func() {
		e.metrics.ObserveTurnDuration(e.clock().Sub(start).Seconds())
	}()

	u, err := e.store.GetOrCreate(ctx, turn.UserID, turn.DisplayName)
	if err != nil {
		e.logger.Error("failed to load user", "user_id", turn.UserID, "err", err)
		return "", fmt.Errorf("failed to load user %s: %w", turn.UserID, err)
	}

	if turn.Probe {
		reply := e.sequence(ctx, u)
		e.metrics.TurnProcessed("probe")
		return reply, nil
	}

	// One understanding call serves both pending-field resolution and
	// intent routing. Unavailability is not fatal: resolution falls back
	// to the raw message and routing degrades to a clarification.
	und, undOK := e.understand(ctx, turn.Text)

	if u.State.Awaiting != "" {
		reply, resolved := e.resolvePending(ctx, u, turn.Text, und)
		if !resolved {
			e.metrics.TurnProcessed("reprompt")
			return reply, nil
		}
	}

	if q := e.sequence(ctx, u); q != "" {
		e.metrics.TurnProcessed("onboarding")
		return q, nil
	}

	return e.route(ctx, u, turn.Text, und, undOK)
}

func (e *Engine) understand(ctx context.Context, text string) (*domain.Understanding, bool) {
	und, err := e.nlu.Understand(ctx, text)
	if err != nil {
		e.logger.Warn("understanding unavailable", "err", err)
		e.metrics.CollaboratorError("nlu")
		return nil, false
	}
	return und, true
}

// sequence runs the onboarding check: ask for the first missing profile
// field, or open goal negotiation once the profile is complete. It returns
// "" when onboarding is done and normal routing should proceed.
func (e *Engine) sequence(ctx context.Context, u *domain.User) string {
	if missing := u.Profile.Missing(); len(missing) > 0 {
		f := missing[0]
		if !e.commit(ctx, u, func(stored *domain.User) error {
			stored.State.Awaiting = f
			return nil
		}) {
			return saveFailureReply
		}
		return e.generate(ctx, router.OnboardingPrompt(u.DisplayName, f))
	}

	if u.Diet.DailyCalorieGoal == nil {
		suggested, tdee, err := calc.Plan(u.Profile, e.clock())
		if err != nil {
			e.logger.Error("goal suggestion failed", "user_id", u.ID, "err", err)
			return e.generate(ctx, router.CalcError(u.DisplayName))
		}
		if !e.commit(ctx, u, func(stored *domain.User) error {
			stored.State.Awaiting = domain.FieldGoalConfirmation
			return nil
		}) {
			return saveFailureReply
		}
		return e.generate(ctx, router.GoalProposal(u.DisplayName, tdee, suggested, *u.Profile.Goal))
	}

	return ""
}

// resolvePending consumes the inbound message as the answer to the awaited
// question. It reports whether the turn may fall through to normal
// processing; when it returns false, reply is the reprompt (or failure
// notice) to send.
func (e *Engine) resolvePending(ctx context.Context, u *domain.User, text string, und *domain.Understanding) (reply string, resolved bool) {
	if u.State.Awaiting == domain.FieldGoalConfirmation {
		return e.negotiateGoal(ctx, u, text, und)
	}

	f := u.State.Awaiting
	candidate := strings.TrimSpace(text)
	// The structured value is only trusted when the model actually
	// classified the message as an answer.
	if und != nil && und.Intent == domain.IntentProvideInfo && und.Entities.InfoValue != "" {
		candidate = und.Entities.InfoValue
	}

	apply, ok := validate.ProfileField(f, candidate, e.clock())
	if !ok {
		e.logger.Info("invalid onboarding answer", "user_id", u.ID, "field", f)
		return e.generate(ctx, router.Reprompt(u.DisplayName, f, candidate)), false
	}

	if !e.commit(ctx, u, func(stored *domain.User) error {
		apply(&stored.Profile)
		stored.State.Awaiting = ""
		return nil
	}) {
		return saveFailureReply, false
	}
	e.logger.Info("profile field collected", "user_id", u.ID, "field", f)
	return "", true
}

// negotiateGoal handles the goal_confirmation answer. Two candidate
/// sources feed the custom-value path: the structured info_value entity
// when the intent is PROVIDE_INFO, then a digit-run scan of the raw
// message. Without a valid number, an affirmative accepts the recomputed
// suggestion.
func (e *Engine) negotiateGoal(ctx context.Context, u *domain.User, text string, und *domain.Understanding) (reply string, resolved bool) {
	candidate := ""
	if und != nil && und.Intent == domain.IntentProvideInfo && und.Entities.InfoValue != "" {
		candidate = und.Entities.InfoValue
	} else {
		candidate = digitRun.FindString(text)
	}

	accepted := 0
	haveCustom := false
	outOfRange := ""
	if candidate != "" {
		if v, err := strconv.Atoi(nonDigits.ReplaceAllString(candidate, "")); err == nil {
			if v >= 1000 && v <= 10000 {
				accepted = v
				haveCustom = true
			} else {
				outOfRange = strconv.Itoa(v)
			}
		}
	}

	if !haveCustom {
		confirmed := affirmativeWords[strings.ToLower(strings.TrimSpace(text))]
		if und != nil && und.Intent.Affirmative() {
			confirmed = true
		}
		if confirmed {
			suggested, _, err := calc.Plan(u.Profile, e.clock())
			if err != nil {
				e.logger.Error("goal recomputation failed", "user_id", u.ID, "err", err)
				return e.generate(ctx, router.CalcError(u.DisplayName)), false
			}
			accepted = suggested
			haveCustom = true
		}
	}

	if !haveCustom {
		invalid := text
		if outOfRange != "" {
			invalid = outOfRange
		}
		return e.generate(ctx, router.Reprompt(u.DisplayName, domain.FieldGoalConfirmation, invalid)), false
	}

	goal := accepted
	if !e.commit(ctx, u, func(stored *domain.User) error {
		stored.Diet.DailyCalorieGoal = &goal
		stored.State.Awaiting = ""
		return nil
	}) {
		return saveFailureReply, false
	}
	e.logger.Info("daily goal negotiated", "user_id", u.ID, "goal", goal)
	return "", true
}

// route handles a free-form message once no question is pending.
func (e *Engine) route(ctx context.Context, u *domain.User, text string, und *domain.Understanding, undOK bool) (string, error) {
	rc := router.Context{
		DisplayName: u.DisplayName,
		Goal:        u.Diet.DailyCalorieGoal,
		Consumed:    u.Tracking.CaloriesConsumed,
		Profile:     profileSummary(u.Profile),
	}

	var d router.Directive
	if !undOK {
		d = router.Clarification(u.DisplayName, text)
	} else {
		d = router.Build(und.Intent, und.Entities, text, rc)
	}

	reply, err := e.gen.Generate(ctx, d.Prompt)
	if err != nil {
		e.logger.Error("generation unavailable", "user_id", u.ID, "err", err)
		e.metrics.CollaboratorError("generator")
		e.metrics.TurnProcessed(string(d.Intent))
		return unavailableReply, nil
	}

	if d.Intent == domain.IntentLogFood {
		reply = e.recordFood(ctx, u, text, und, reply)
	}

	e.metrics.TurnProcessed(string(d.Intent))
	return reply, nil
}

// recordFood extracts the calorie estimate from the generated reply and
// writes it to the daily ledger. Either step failing appends a disclosure
// note instead of silently dropping the log.
func (e *Engine) recordFood(ctx context.Context, u *domain.User, text string, und *domain.Understanding, reply string) string {
	kcal, ok := extract.Calories(reply)
	if !ok {
		e.logger.Warn("no calorie estimate in reply", "user_id", u.ID)
		return reply + "\n\n(I couldn't pin down a calorie estimate here, so this one didn't go into your daily log.)"
	}

	desc := text
	if und != nil && len(und.Entities.FoodItems) > 0 {
		desc = strings.Join(und.Entities.FoodItems, ", ")
	}
	if err := e.ledger.AddCalories(ctx, u.ID, kcal, desc); err != nil {
		e.metrics.LedgerFailure()
		return reply + "\n\n(Heads up: I couldn't save this to your daily log, so today's total doesn't include it yet.)"
	}
	return reply
}

// commit runs fn against the stored document and refreshes u with the
// committed copy. It reports false on failure, after logging it.
func (e *Engine) commit(ctx context.Context, u *domain.User, fn func(*domain.User) error) bool {
	updated, err := e.store.Update(ctx, u.ID, fn)
	if err != nil {
		e.logger.Error("state write failed", "user_id", u.ID, "err", err)
		return false
	}
	*u = *updated
	return true
}

// generate produces the reply for a directive, degrading to the canned
// apology when the collaborator is unavailable.
func (e *Engine) generate(ctx context.Context, d router.Directive) string {
	reply, err := e.gen.Generate(ctx, d.Prompt)
	if err != nil {
		e.logger.Error("generation unavailable", "err", err)
		e.metrics.CollaboratorError("generator")
		return unavailableReply
	}
	return reply
}

func profileSummary(p domain.Profile) string {
	var parts []string
	if p.BirthYear != nil {
		parts = append(parts, fmt.Sprintf("born %d", *p.BirthYear))
	}
	if p.Gender != nil {
		parts = append(parts, string(*p.Gender))
	}
	if p.HeightCM != nil {
		parts = append(parts, fmt.Sprintf("%d cm", *p.HeightCM))
	}
	if p.CurrentWeightKG != nil {
		parts = append(parts, fmt.Sprintf("%.1f kg", *p.CurrentWeightKG))
	}
	if p.ActivityLevel != nil {
		parts = append(parts, "activity: "+string(*p.ActivityLevel))
	}
	if p.Goal != nil {
		parts = append(parts, "goal: "+string(*p.Goal))
	}
	return strings.Join(parts, ", ")
}
