/*
Package calobot is a multi-turn nutrition-coaching dialogue engine.

It orchestrates three external collaborators behind small ports: a storage
backend holding one document per user, a natural-language-understanding
model classifying each message, and a text-generation model producing the
coach's replies. The engine itself owns everything deterministic in
between: the onboarding state machine, field validation, the calorie
arithmetic (Mifflin-St Jeor), goal negotiation, intent routing and the
per-day calorie ledger.

# Concept

Every inbound message is one turn. A turn first settles any question the
coach is waiting on (an onboarding field, or the daily-goal confirmation),
then lets the onboarding sequencer ask the next one, and only when nothing
is pending routes the message as a free-form intent: logging food, asking
for a meal suggestion, checking status, and so on. Validated answers are
committed to storage before any reply is generated, so a flaky model can
never lose data the user already provided.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/calobot"
		"github.com/aretw0/calobot/internal/adapters/llm"
		"github.com/aretw0/calobot/pkg/adapters/memory"
	)

	func main() {
		model, err := llm.NewOpenAI("https://openrouter.ai/api/v1", "sk-...", "google/gemini-2.0-flash-001")
		if err != nil {
			log.Fatal(err)
		}

		bot := calobot.New(memory.New(), model, model)

		ctx := context.Background()

		// The probe runs the onboarding check without user input.
		if q, err := bot.Probe(ctx, "user-1", "Ana"); err == nil && q != "" {
			log.Println(q)
		}

		reply, err := bot.Message(ctx, "user-1", "Ana", "1990")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(reply)
	}

For a service deployment, back the bot with the Redis store in
pkg/adapters/redis and serve it through cmd/calobot.
*/
package calobot

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/calobot/internal/ledger"
	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/internal/observability"
	"github.com/aretw0/calobot/internal/runtime"
	"github.com/aretw0/calobot/pkg/ports"
)

// Version is the current release version.
const Version = "0.1.0"

// Bot is the high-level entry point. It wraps the internal runtime engine
// and provides a simplified API for consumers.
type Bot struct {
	engine *runtime.Engine
	store  ports.UserStore

	logger  *slog.Logger
	metrics *observability.Metrics
	clock   func() time.Time
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithLogger sets a structured logger for the bot.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation on the engine.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bot) {
		b.metrics = m
	}
}

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(b *Bot) {
		b.clock = clock
	}
}

// New initializes a Bot over its collaborators. The understanding and
// generation roles may be served by the same value, as internal/adapters/llm
// does.
func New(store ports.UserStore, nlu ports.Understander, gen ports.Generator, opts ...Option) *Bot {
	b := &Bot{
		store:  store,
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	led := ledger.New(store,
		ledger.WithClock(b.clock),
		ledger.WithLogger(b.logger),
	)
	b.engine = runtime.New(store, nlu, gen, led,
		runtime.WithLogger(b.logger),
		runtime.WithMetrics(b.metrics),
		runtime.WithClock(b.clock),
	)
	return b
}

// Process runs one raw turn. Most callers want Message or Probe; the
// transport adapters use Process directly.
func (b *Bot) Process(ctx context.Context, turn runtime.Turn) (string, error) {
	return b.engine.Process(ctx, turn)
}

// Message handles one inbound chat message and returns the reply.
func (b *Bot) Message(ctx context.Context, userID, displayName, text string) (string, error) {
	return b.engine.Process(ctx, runtime.Turn{
		UserID:      userID,
		DisplayName: displayName,
		Text:        text,
	})
}

// Probe runs the onboarding check for a user without any message input.
// It returns the next onboarding question, or "" when there is nothing to
// ask.
func (b *Bot) Probe(ctx context.Context, userID, displayName string) (string, error) {
	return b.engine.Process(ctx, runtime.Turn{
		UserID:      userID,
		DisplayName: displayName,
		Probe:       true,
	})
}

// Store returns the underlying user store, for admin tooling.
func (b *Bot) Store() ports.UserStore {
	return b.store
}
