package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/calobot"
	"github.com/aretw0/calobot/internal/adapters/llm"
	"github.com/aretw0/calobot/internal/config"
	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/internal/presentation/tui"
	"github.com/aretw0/calobot/pkg/adapters/memory"
	redisstore "github.com/aretw0/calobot/pkg/adapters/redis"
	"github.com/aretw0/calobot/pkg/ports"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the coach from the terminal",
	Long:  `Starts an interactive coaching session on stdin/stdout. State lives in memory unless --redis points at a server, in which case the session is durable.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		userID, _ := cmd.Flags().GetString("user")
		name, _ := cmd.Flags().GetString("name")
		useRedis, _ := cmd.Flags().GetBool("redis")

		logger := logging.NewNop()

		var store ports.UserStore
		if useRedis {
			rs := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			defer rs.Close()
			store = rs
		} else {
			store = memory.New()
		}

		model, err := llm.NewOpenAI(cfg.LLM.BaseURL, cfg.LLM.Token, cfg.LLM.Model)
		if err != nil {
			fmt.Printf("Error initializing model client: %v\n", err)
			os.Exit(1)
		}

		bot := calobot.New(store, model, model, calobot.WithLogger(logger))

		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		render := func(s string) string { return s + "\n" }
		if interactive {
			tui.PrintBanner()
			fmt.Printf("calobot %s — type 'exit' to leave\n\n", calobot.Version)
			markdown := tui.NewRenderer()
			render = func(s string) string {
				out, err := markdown(s)
				if err != nil {
					return s + "\n"
				}
				return out
			}
		}

		ctx := context.Background()

		// Opening probe: ask the next onboarding question, if any.
		if q, err := bot.Probe(ctx, userID, name); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		} else if q != "" {
			fmt.Print(render(q))
		}

		reader := bufio.NewReader(os.Stdin)
		for {
			if interactive {
				fmt.Print("> ")
			}
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "exit" || text == "quit" {
				fmt.Println("Bye!")
				break
			}

			reply, err := bot.Message(ctx, userID, name, text)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			if reply != "" {
				fmt.Print(render(reply))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("user", "u", "local", "User ID for the session")
	chatCmd.Flags().StringP("name", "n", "", "Display name for the session")
	chatCmd.Flags().Bool("redis", false, "Persist the session in Redis")
}
