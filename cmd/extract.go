package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <lead-id>",
	Short: "Run the extraction pipeline for one lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		transition, err := env.Pipeline.Process(ctx, args[0])
		if err != nil {
			return err
		}

		zap.L().Info("extraction complete",
			zap.String("lead_id", transition.LeadID),
			zap.String("stage", string(transition.To)))

		lead, err := env.Store.GetLead(ctx, transition.LeadID)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lead)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
