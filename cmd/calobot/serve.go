package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/calobot"
	httpAdapter "github.com/aretw0/calobot/internal/adapters/http"
	"github.com/aretw0/calobot/internal/adapters/llm"
	"github.com/aretw0/calobot/internal/config"
	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/internal/observability"
	redisstore "github.com/aretw0/calobot/pkg/adapters/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat webhook server",
	Long:  `Starts CaloBot in server mode, exposing the chat webhook, a health check and Prometheus metrics over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr = addr
		}

		logger := logging.New(logging.ParseLevel(cfg.Log.Level))

		store := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisstore.WithLogger(logger))
		defer store.Close()

		model, err := llm.NewOpenAI(cfg.LLM.BaseURL, cfg.LLM.Token, cfg.LLM.Model,
			llm.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error initializing model client: %v\n", err)
			os.Exit(1)
		}

		registry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(registry)

		bot := calobot.New(store, model, model,
			calobot.WithLogger(logger),
			calobot.WithMetrics(metrics),
		)

		handler := httpAdapter.NewHandler(bot,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting CaloBot server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("CaloBot server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
