package main

import (
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/store"
)

var (
	backfillConcurrency int
	backfillRPS         float64
	backfillLimit       int
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Process all raw-only leads through the pipeline",
	Long:  "Lists leads still in raw-only stage and runs extraction and briefing for each. Failed leads stay raw-only and are retried on the next run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		concurrency := backfillConcurrency
		if concurrency == 0 {
			concurrency = cfg.Backfill.Concurrency
		}
		rps := backfillRPS
		if rps == 0 {
			rps = cfg.Backfill.RPS
		}

		leads, err := env.Store.ListLeads(ctx, store.LeadFilter{
			Stage: model.StageRawOnly,
			Limit: backfillLimit,
		})
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			zap.L().Info("backfill: nothing to do")
			return nil
		}

		zap.L().Info("backfill: starting",
			zap.Int("leads", len(leads)),
			zap.Int("concurrency", concurrency),
			zap.Float64("rps", rps))

		limiter := rate.NewLimiter(rate.Limit(rps), 1)
		var processed, failed atomic.Int64

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		for _, lead := range leads {
			g.Go(func() error {
				if err := limiter.Wait(gCtx); err != nil {
					return err
				}
				if _, err := env.Pipeline.Process(gCtx, lead.ID); err != nil {
					failed.Add(1)
					zap.L().Warn("backfill: lead failed",
						zap.String("lead_id", lead.ID),
						zap.Error(err))
					return nil // Keep going; failures stay raw-only.
				}
				processed.Add(1)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("backfill: done",
			zap.Int64("processed", processed.Load()),
			zap.Int64("failed", failed.Load()))
		return nil
	},
}

func init() {
	backfillCmd.Flags().IntVar(&backfillConcurrency, "concurrency", 0, "concurrent pipeline runs (default from config)")
	backfillCmd.Flags().Float64Var(&backfillRPS, "rps", 0, "pipeline runs per second (default from config)")
	backfillCmd.Flags().IntVar(&backfillLimit, "limit", 500, "max leads to process in one run")
	rootCmd.AddCommand(backfillCmd)
}
