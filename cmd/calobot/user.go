package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/calobot/internal/config"
	redisstore "github.com/aretw0/calobot/pkg/adapters/redis"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage stored user documents",
	Long:  `List, inspect, and remove user documents stored in Redis.`,
}

// getStore opens the Redis store configured for this invocation.
func getStore(cmd *cobra.Command) *redisstore.Store {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	return redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}

var userLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored users",
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		defer store.Close()

		ids, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing users: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No users found.")
			return
		}

		fmt.Println("Users:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var userInspectCmd = &cobra.Command{
	Use:   "inspect <user-id>",
	Short: "Inspect a stored user document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		defer store.Close()

		u, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading user '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(u, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling user: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var userRmCmd = &cobra.Command{
	Use:   "rm <user-id>...",
	Short: "Remove one or more users",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		defer store.Close()

		hasError := false
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed user '%s'\n", id)
			}
		}
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userLsCmd)
	userCmd.AddCommand(userInspectCmd)
	userCmd.AddCommand(userRmCmd)
}
