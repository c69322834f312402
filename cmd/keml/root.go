package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/keml-analysis/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "keml",
	Short: "Argumentation and trust analysis of KEML conversations",
	Long:  "Reads KEML conversation files, builds logic arguments, scores undercuts and rebuttals, propagates trust and writes CSV and workbook reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, err := config.NewLogger(config.LogLevel())
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
