package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/notice-eval/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "notice-eval",
	Short: "Utility notice extraction accuracy evaluator",
	Long:  "Runs tiered Claude models over uploaded notice PDFs, records their answers in a workbook next to ground truth, and reports per-model extraction accuracy.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
