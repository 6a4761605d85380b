// Package llm adapts a language model behind the Understander and
// Generator ports. One client serves both roles: understanding is a
// structured-JSON prompt over the same model that later produces the
// persona reply.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/pkg/domain"
	"github.com/aretw0/calobot/pkg/ports"
)

// Client implements ports.Understander and ports.Generator on top of a
// langchaingo model.
type Client struct {
	model  llms.Model
	logger *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithLogger configures a logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewOpenAI creates a Client against an OpenAI-compatible endpoint.
func NewOpenAI(baseURL, token, model string, opts ...Option) (*Client, error) {
	m, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(token),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}
	return NewFromModel(m, opts...), nil
}

// NewFromModel creates a Client from an existing model (tests, other
// providers).
func NewFromModel(model llms.Model, opts ...Option) *Client {
	c := &Client{
		model:  model,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ ports.Understander = (*Client)(nil)
	_ ports.Generator    = (*Client)(nil)
)

const nluTemplate = `Analyze the user message for a nutrition-coaching assistant and answer with JSON only.

Classify the intent as exactly one of:
LOG_FOOD, ASK_SUGGESTION, GET_STATUS, GET_PROFILE, UPDATE_PROFILE, PROVIDE_INFO, GREETING, FAREWELL, AFFIRMATION, CONFIRMATION, NEGATION, HELP, CHITCHAT, OUT_OF_SCOPE, UNCLEAR

Extract only entities actually present in the message:
- food_items: list of foods mentioned
- quantity: amount or portion mentioned
- meal_time: breakfast, lunch, dinner or snack
- profile_field: which profile attribute the user refers to
- profile_value: the new value for that attribute
- info_value: a bare value answering a question (a number, a word)
- dietary_constraint: list of restrictions mentioned
- preference: food preference mentioned

Respond with this exact shape and nothing else:
{"intent": "...", "entities": {...}}

User message: %q`

// fencedJSON strips a markdown code fence around the model's answer, with
// or without a language tag.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

type nluAnswer struct {
	Intent   string         `json:"intent"`
	Entities map[string]any `json:"entities"`
}

// Understand classifies one message. A malformed model answer degrades to
// IntentUnclear; only a failed or empty model call is an error.
func (c *Client) Understand(ctx context.Context, text string) (*domain.Understanding, error) {
	prompt := fmt.Sprintf(nluTemplate, text)
	raw, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("understanding call failed: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("understanding call returned an empty answer")
	}

	answer, ok := c.parseAnswer(raw)
	if !ok {
		c.logger.Warn("unparseable understanding answer", "raw", raw)
		return &domain.Understanding{Intent: domain.IntentUnclear}, nil
	}

	u := &domain.Understanding{Intent: canonicalIntent(answer.Intent)}
	if len(answer.Entities) > 0 {
		if err := decodeEntities(answer.Entities, &u.Entities); err != nil {
			// Keep the intent; entity decoding problems are not worth
			// discarding the classification over.
			c.logger.Warn("failed to decode entities", "err", err)
		}
	}
	return u, nil
}

func (c *Client) parseAnswer(raw string) (nluAnswer, bool) {
	body := raw
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		body = m[1]
	}
	body = strings.TrimSpace(body)

	var answer nluAnswer
	if err := json.Unmarshal([]byte(body), &answer); err != nil {
		return nluAnswer{}, false
	}
	if answer.Intent == "" {
		return nluAnswer{}, false
	}
	return answer, true
}

func canonicalIntent(s string) domain.Intent {
	candidate := domain.Intent(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range domain.Intents {
		if candidate == known {
			return known
		}
	}
	return domain.IntentUnclear
}

// decodeEntities maps the raw entity map onto the typed struct. Weak
// typing absorbs models that return numbers where strings are expected,
// or a single string where a list is expected.
func decodeEntities(in map[string]any, out *domain.Entities) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// Generate produces the persona reply for one directive.
func (c *Client) Generate(ctx context.Context, directive string) (string, error) {
	raw, err := llms.GenerateFromSinglePrompt(ctx, c.model, directive,
		llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", fmt.Errorf("generation call returned an empty answer")
	}
	return reply, nil
}
