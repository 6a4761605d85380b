// Package graph renders the onboarding flow as a Mermaid flowchart, with
// an optional overlay marking how far a given user has progressed.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/calobot/pkg/domain"
)

// Overlay contains per-user state to visualize on the flow.
type Overlay struct {
	Collected []domain.Field
	Awaiting  domain.Field
}

// OnboardingMermaid produces Mermaid flowchart syntax for the onboarding
// state machine: profile fields in collection order, the goal-confirmation
// step, then free coaching. Semantic styling:
// - Entry/terminal: ((Circle))
// - Input steps: [/Parallelogram/]
// Overlay styles (collected/awaiting) are applied if provided.
func OnboardingMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"first contact\"))\n")

	steps := append([]domain.Field{}, domain.RequiredFields...)
	steps = append(steps, domain.FieldGoalConfirmation)

	prev := "start"
	for _, f := range steps {
		safeID := sanitizeMermaidID(string(f))
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", safeID, f))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, safeID))
		// Invalid answers loop back to the same question.
		sb.WriteString(fmt.Sprintf("    %s -. \"invalid\" .-> %s\n", safeID, safeID))
		prev = safeID
	}

	sb.WriteString("    coaching((\"coaching\"))\n")
	sb.WriteString(fmt.Sprintf("    %s -- \"yes / 1000-10000 kcal\" --> coaching\n", prev))

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef collected fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef awaiting fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, f := range overlay.Collected {
			safeID := sanitizeMermaidID(string(f))
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s collected;\n", safeID))
			}
		}

		if overlay.Awaiting != "" {
			sb.WriteString(fmt.Sprintf("    class %s awaiting;\n", sanitizeMermaidID(string(overlay.Awaiting))))
		}
	}

	return sb.String()
}

// UserOverlay derives the overlay from a stored user document.
func UserOverlay(u *domain.User) *Overlay {
	o := &Overlay{Awaiting: u.State.Awaiting}
	for _, f := range domain.RequiredFields {
		if u.Profile.FieldSet(f) {
			o.Collected = append(o.Collected, f)
		}
	}
	if u.Diet.DailyCalorieGoal != nil {
		o.Collected = append(o.Collected, domain.FieldGoalConfirmation)
	}
	return o
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
