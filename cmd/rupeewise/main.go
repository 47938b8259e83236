// RupeeWise — Indian market data backend for personal finance apps.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rupeewise/rupeewise/api"
	"github.com/rupeewise/rupeewise/internal/config"
	"github.com/rupeewise/rupeewise/internal/market"
	"github.com/rupeewise/rupeewise/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rupeewise",
	Short: "RupeeWise — NSE/BSE market data aggregation service",
	Long: `RupeeWise aggregates Indian market data from multiple providers
with caching and graceful fallback to synthesized quotes, and serves it
over a small HTTP API for personal finance frontends.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("RupeeWise %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting RupeeWise API server on %s\n", addr)

		srv := api.NewServer(cfg)
		return srv.ListenAndServe(addr)
	},
}

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [symbol...]",
	Short: "Fetch quotes for one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		svc := market.NewService(cfg.Market)
		quotes := svc.GetQuotes(ctx, args)
		if len(quotes) == 0 {
			return fmt.Errorf("no quotes for %v", args)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(quotes)
		}

		for _, q := range quotes {
			price, change := "-", "-"
			if q.Price != nil {
				price = fmt.Sprintf("%.2f", *q.Price)
			}
			if q.Change != nil {
				change = fmt.Sprintf("%+.2f%%", *q.Change)
			}
			fmt.Printf("  %-12s %-30s %10s  %8s\n", q.Symbol, q.Name, price, change)
		}
		return nil
	},
}

func init() {
	quoteCmd.Flags().Bool("json", false, "print quotes as JSON")
}

// --- Symbols Command ---

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Print the resolved trending symbol universe",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range market.LoadSymbols(cfg.Market) {
			fmt.Println(s)
		}
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	Run: func(cmd *cobra.Command, args []string) {
		now := utils.NowIST()
		open := "closed"
		if utils.IsMarketOpenAt(now) {
			open = "open"
		}

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  RupeeWise — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market:        %s (%s)\n", open, utils.NextSessionAt(now))
		fmt.Printf("  Time (IST):    %s\n", now.Format("2006-01-02 15:04:05"))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Yahoo Base:    %s\n", cfg.Market.YahooBaseURL)
		avStatus := "❌ not set (mock fallback only)"
		if cfg.Market.AlphaVantageKey != "" {
			avStatus = "✅ set"
		}
		fmt.Printf("    AlphaVantage:  %s\n", avStatus)
		redis := cfg.Market.RedisURL
		if redis == "" {
			redis = "(in-memory cache)"
		}
		fmt.Printf("    Cache:         %s\n", redis)
		fmt.Printf("    Symbols:       %d in universe\n", len(market.LoadSymbols(cfg.Market)))
		fmt.Println("═══════════════════════════════════════")
	},
}
