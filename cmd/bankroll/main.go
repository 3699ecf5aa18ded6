// Package main provides the bankroll ledger CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/ledger"
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/repository"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
}

var rootCmd = &cobra.Command{
	Use:   "bankroll",
	Short: "Inspect and replay the bankroll ledger",
	Long:  `Replays settled predictions into the compounding bankroll log and reports its history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay settled predictions into the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		replayer := ledger.NewReplayer(repos.Verification, repos.Prediction, repos.Bankroll, cfg.Ledger, appLog)
		summary, err := replayer.Replay(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Processed:  %d\n", summary.Processed)
		fmt.Printf("Appended:   %d\n", summary.Appended)
		fmt.Printf("Duplicates: %d\n", summary.SkippedDupe)
		fmt.Printf("Gated:      %d\n", summary.SkippedGates)
		fmt.Printf("Bankroll:   %s\n", summary.FinalBankroll.StringFixed(2))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the bankroll log as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		entries, err := repos.Bankroll.ListChronological(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Bankroll log is empty")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Date", "Prediction", "Stake", "Odds", "Result", "Profit", "Bankroll")
		for _, entry := range entries {
			table.Append(
				entry.Date.Format("2006-01-02 15:04"),
				entry.PredictionID.String()[:8],
				entry.StakeAmount.StringFixed(2),
				fmt.Sprintf("%.2f", entry.Odds),
				string(entry.Result),
				entry.Profit.StringFixed(2),
				entry.BankrollAfter.StringFixed(2),
			)
		}
		table.Render()
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print aggregate bankroll performance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		summary, err := ledger.NewHistory(repos.Bankroll).Summarize(ctx)
		if err != nil {
			return err
		}
		if summary.Entries == 0 {
			fmt.Println("Bankroll log is empty")
			return nil
		}

		fmt.Printf("Entries:       %d\n", summary.Entries)
		fmt.Printf("Wins/Losses:   %d/%d (%.1f%%)\n", summary.Wins, summary.Losses, summary.HitRate*100)
		fmt.Printf("Total staked:  %s\n", summary.TotalStaked.StringFixed(2))
		fmt.Printf("Total profit:  %s\n", summary.TotalProfit.StringFixed(2))
		fmt.Printf("ROI:           %.2f%%\n", summary.ROI()*100)
		fmt.Printf("Growth:        %.2f%%\n", summary.Growth*100)
		fmt.Printf("Max drawdown:  %.2f%%\n", summary.MaxDrawdown*100)
		fmt.Printf("Bankroll:      %s -> %s\n", summary.StartBankroll.StringFixed(2), summary.FinalBankroll.StringFixed(2))
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return err
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}
