package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/calobot/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the onboarding flow as a Mermaid diagram",
	Long:  `Prints the onboarding state machine in Mermaid flowchart syntax. With --user, overlays that user's collected fields and pending question from Redis.`,
	Run: func(cmd *cobra.Command, args []string) {
		var overlay *graph.Overlay

		if userID, _ := cmd.Flags().GetString("user"); userID != "" {
			store := getStore(cmd)
			defer store.Close()

			u, err := store.Get(cmd.Context(), userID)
			if err != nil {
				fmt.Printf("Error loading user '%s': %v\n", userID, err)
				os.Exit(1)
			}
			overlay = graph.UserOverlay(u)
		}

		fmt.Println(graph.OnboardingMermaid(overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("user", "u", "", "Overlay a stored user's progress")
}
