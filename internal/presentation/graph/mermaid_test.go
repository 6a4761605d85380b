package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/calobot/internal/presentation/graph"
	"github.com/aretw0/calobot/pkg/domain"
)

func TestOnboardingMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Flow Shape",
			contains: []string{
				"start((\"first contact\"))",
				"birth_year[/\"birth_year\"/]",
				"start --> birth_year",
				"birth_year --> gender",
				"goal_confirmation[/\"goal_confirmation\"/]",
				"-- \"yes / 1000-10000 kcal\" --> coaching",
			},
		},
		{
			name: "Invalid Loopback",
			contains: []string{
				"gender -. \"invalid\" .-> gender",
			},
		},
		{
			name: "Overlay Styling",
			overlay: &graph.Overlay{
				Collected: []domain.Field{domain.FieldBirthYear, domain.FieldGender},
				Awaiting:  domain.FieldHeightCM,
			},
			contains: []string{
				"class birth_year collected;",
				"class gender collected;",
				"class height_cm awaiting;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.OnboardingMermaid(tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("OnboardingMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestUserOverlay(t *testing.T) {
	year := 1990
	goal := 2000
	u := &domain.User{
		Profile: domain.Profile{BirthYear: &year},
		Diet:    domain.DietSettings{DailyCalorieGoal: &goal},
		State:   domain.UserState{Awaiting: domain.FieldGender},
	}

	o := graph.UserOverlay(u)
	if len(o.Collected) != 2 {
		t.Fatalf("Collected = %v, want birth_year and goal_confirmation", o.Collected)
	}
	if o.Collected[0] != domain.FieldBirthYear || o.Collected[1] != domain.FieldGoalConfirmation {
		t.Errorf("Collected = %v", o.Collected)
	}
	if o.Awaiting != domain.FieldGender {
		t.Errorf("Awaiting = %v, want gender", o.Awaiting)
	}
}
