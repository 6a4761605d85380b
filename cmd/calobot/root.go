package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calobot",
	Short: "CaloBot is a conversational nutrition coach",
	Long:  `CaloBot onboards users through a guided profile dialogue, negotiates a daily calorie goal, and keeps a per-day food ledger driven by natural conversation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file")
}
