package calobot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/calobot"
	"github.com/aretw0/calobot/pkg/adapters/memory"
	"github.com/aretw0/calobot/pkg/domain"
)

// canned collaborators for facade-level tests. The engine's own behavior
// is covered in internal/runtime; here we only check the wiring.
type cannedNLU struct{ und domain.Understanding }

func (c cannedNLU) Understand(_ context.Context, _ string) (*domain.Understanding, error) {
	u := c.und
	return &u, nil
}

type cannedGen struct{ reply string }

func (c cannedGen) Generate(_ context.Context, directive string) (string, error) {
	if c.reply != "" {
		return c.reply, nil
	}
	return directive, nil
}

func TestBotOnboardsAndLogsFood(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store := memory.New(memory.WithClock(func() time.Time { return now }))

	bot := calobot.New(store, cannedNLU{und: domain.Understanding{Intent: domain.IntentUnclear}}, cannedGen{},
		calobot.WithClock(func() time.Time { return now }))

	q, err := bot.Probe(ctx, "u1", "Ana")
	require.NoError(t, err)
	assert.Contains(t, q, "birth_year")

	for _, answer := range []string{"1990", "f", "165", "62,5", "leve", "manter"} {
		_, err := bot.Message(ctx, "u1", "Ana", answer)
		require.NoError(t, err)
	}
	_, err = bot.Message(ctx, "u1", "Ana", "sim")
	require.NoError(t, err)

	u, err := store.GetOrCreate(ctx, "u1", "Ana")
	require.NoError(t, err)
	assert.True(t, u.Profile.Complete())
	require.NotNil(t, u.Diet.DailyCalorieGoal)
	assert.Empty(t, u.State.Awaiting)

	// Once onboarded, probes have nothing to say.
	q, err = bot.Probe(ctx, "u1", "Ana")
	require.NoError(t, err)
	assert.Empty(t, q)

	// A food log flows through extraction into the ledger.
	foodBot := calobot.New(store,
		cannedNLU{und: domain.Understanding{Intent: domain.IntentLogFood, Entities: domain.Entities{FoodItems: []string{"salad"}}}},
		cannedGen{reply: "Lovely! Estimate: 320 kcal. 🥗"},
		calobot.WithClock(func() time.Time { return now }))

	reply, err := foodBot.Message(ctx, "u1", "Ana", "comi uma salada")
	require.NoError(t, err)
	assert.Contains(t, reply, "Estimate: 320 kcal")

	u, err = store.GetOrCreate(ctx, "u1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, 320, u.Tracking.CaloriesConsumed)
}
