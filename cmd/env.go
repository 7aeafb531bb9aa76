package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/config"
	"github.com/sells-group/lead-intake/internal/intake"
	"github.com/sells-group/lead-intake/internal/store"
	"github.com/sells-group/lead-intake/pkg/anthropic"
)

// env bundles the wired dependencies shared by the commands.
type env struct {
	Store    store.Store
	Client   anthropic.Client
	Pipeline *intake.Pipeline
}

// openStore opens the configured backend and applies migrations,
// wrapping it with the file mirror when enabled.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = pg
	case "sqlite":
		sq, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = sq
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	if cfg.Mirror.Enabled {
		m, err := store.NewMirror(st, cfg.Mirror.Dir)
		if err != nil {
			st.Close()
			return nil, eris.Wrap(err, "init mirror")
		}
		st = m
	}

	zap.L().Info("store ready",
		zap.String("driver", cfg.Store.Driver),
		zap.Bool("mirror", cfg.Mirror.Enabled))
	return st, nil
}

// initEnv wires store, Anthropic client, and pipeline from config.
func initEnv(ctx context.Context) (*env, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Anthropic.Key == "" {
		st.Close()
		return nil, eris.New("anthropic.key is not set (INTAKE_ANTHROPIC_KEY)")
	}
	client := anthropic.NewClient(cfg.Anthropic.Key, time.Duration(cfg.Anthropic.TimeoutSecs)*time.Second)

	extractor := intake.NewExtractor(client, cfg.Anthropic.ExtractModel, cfg.Anthropic.ExtractMaxTokens)
	briefer := intake.NewBriefer(client, cfg.Anthropic.BriefModel, cfg.Anthropic.BriefMaxTokens)

	return &env{
		Store:    st,
		Client:   client,
		Pipeline: intake.NewPipeline(st, extractor, briefer),
	}, nil
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("store close failed", zap.Error(err))
	}
}
