package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/notice-eval/internal/model"
)

var processConcurrency int

var processCmd = &cobra.Command{
	Use:   "process [model...]",
	Short: "Run bulk extraction over registered uploads",
	Long:  "Extracts the tracked notice fields for every registered PDF a model has not answered yet and records the answers in that model's sheet. With no arguments, all tiers run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := model.ModelIDs
		if len(args) > 0 {
			ids = make([]model.ModelID, 0, len(args))
			for _, arg := range args {
				id, ok := model.ParseModelID(arg)
				if !ok {
					return eris.Errorf("unknown model %q", arg)
				}
				ids = append(ids, id)
			}
		}

		ctx := cmd.Context()
		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if processConcurrency > 0 {
			env.cfg.Process.MaxConcurrent = processConcurrency
		}

		for _, id := range ids {
			if _, err := env.bulkProcess(ctx, id); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	processCmd.Flags().IntVar(&processConcurrency, "concurrency", 0, "max documents processed in parallel (default from config)")
	rootCmd.AddCommand(processCmd)
}
