package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/calobot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of calobot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("calobot version %s\n", strings.TrimSpace(calobot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
